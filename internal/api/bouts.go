package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/balestra/internal/bout"
	"github.com/starford/balestra/internal/models"
)

// ListBouts handles GET /api/bouts.
//
//	@Summary		List bouts, newest first
//	@Tags			bouts
//	@Produce		json
//	@Param			weapon	query		string	false	"Weapon"	Enums(foil, epee, sabre)
//	@Param			type	query		string	false	"Bout type"	Enums(practice, lesson, tournament, open-bouting)
//	@Param			q		query		string	false	"Search opponent, tournament or location"
//	@Success		200		{object}	BoutListResponse
//	@Failure		400		{object}	errResponse
//	@Router			/bouts [get]
func (h *Handler) ListBouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bouts, err := h.svc.ListBouts(r.Context(), bout.Query{
		Weapon: models.Weapon(q.Get("weapon")),
		Type:   models.BoutType(q.Get("type")),
		Search: q.Get("q"),
	})
	if err != nil {
		writeError(w, "list bouts", err)
		return
	}
	writeJSON(w, http.StatusOK, BoutListResponse{Bouts: bouts, Total: len(bouts)})
}

// RecordBout handles POST /api/bouts.
//
//	@Summary		Record a bout result
//	@Tags			bouts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BoutRequest	true	"Bout to record"
//	@Success		201		{object}	models.Bout
//	@Failure		400		{object}	errResponse
//	@Router			/bouts [post]
func (h *Handler) RecordBout(w http.ResponseWriter, r *http.Request) {
	var req BoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "record bout", err)
		return
	}
	b, err := h.svc.RecordBout(r.Context(), req)
	if err != nil {
		writeError(w, "record bout", err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// GetBout handles GET /api/bouts/{id}.
//
//	@Summary		Get one bout
//	@Tags			bouts
//	@Produce		json
//	@Param			id	path		string	true	"Bout ID"
//	@Success		200	{object}	models.Bout
//	@Failure		404	{object}	errResponse
//	@Router			/bouts/{id} [get]
func (h *Handler) GetBout(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetBout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get bout", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteBout handles DELETE /api/bouts/{id}.
//
//	@Summary		Delete a bout
//	@Tags			bouts
//	@Param			id	path	string	true	"Bout ID"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Router			/bouts/{id} [delete]
func (h *Handler) DeleteBout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBout(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete bout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BoutStats handles GET /api/bouts/stats.
//
//	@Summary		Win/loss record with weapon and type breakdowns
//	@Tags			bouts
//	@Produce		json
//	@Success		200	{object}	bout.Stats
//	@Router			/bouts/stats [get]
func (h *Handler) BoutStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.BoutStats(r.Context())
	if err != nil {
		writeError(w, "bout stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetProfile handles GET /api/profile.
//
//	@Summary		Get the fencer profile
//	@Tags			profile
//	@Produce		json
//	@Success		200	{object}	models.Profile
//	@Failure		404	{object}	errResponse
//	@Router			/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context())
	if err != nil {
		writeError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PutProfile handles PUT /api/profile.
//
//	@Summary		Create or replace the fencer profile
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ProfileRequest	true	"Profile"
//	@Success		200		{object}	models.Profile
//	@Failure		400		{object}	errResponse
//	@Router			/profile [put]
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "put profile", err)
		return
	}
	p, err := h.svc.UpdateProfile(r.Context(), req)
	if err != nil {
		writeError(w, "put profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
