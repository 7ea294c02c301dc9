package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/balestra/internal/armory"
	"github.com/starford/balestra/internal/fixture"
	"github.com/starford/balestra/internal/service"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
	lib *fixture.Library
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service, lib *fixture.Library) *Handler {
	return &Handler{svc: svc, lib: lib}
}

// Armory handles GET /api/armory.
//
//	@Summary		Per-category armory view with inventory totals
//	@Tags			armory
//	@Produce		json
//	@Param			q		query		string	false	"Search text"
//	@Param			filter	query		string	false	"View mode"	Enums(all, equipped, maintenance)
//	@Success		200		{object}	ArmoryResponse
//	@Failure		400		{object}	errResponse
//	@Router			/armory [get]
func (h *Handler) Armory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.svc.Armory(r.Context(), q.Get("q"), armory.FilterMode(q.Get("filter")))
	if err != nil {
		writeError(w, "armory", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Catalog handles GET /api/armory/catalog.
//
//	@Summary		List equipment categories
//	@Tags			armory
//	@Produce		json
//	@Success		200	{object}	CatalogResponse
//	@Router			/armory/catalog [get]
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{Categories: h.svc.Catalog().Categories()})
}

// ListEquipment handles GET /api/equipment.
//
//	@Summary		List every equipment item
//	@Tags			equipment
//	@Produce		json
//	@Success		200	{object}	EquipmentListResponse
//	@Router			/equipment [get]
func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListEquipment(r.Context())
	if err != nil {
		writeError(w, "list equipment", err)
		return
	}
	writeJSON(w, http.StatusOK, EquipmentListResponse{Equipment: items, Total: len(items)})
}

// GetEquipment handles GET /api/equipment/{id}.
//
//	@Summary		Get one equipment item
//	@Tags			equipment
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	models.Equipment
//	@Failure		404	{object}	errResponse
//	@Router			/equipment/{id} [get]
func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetEquipment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get equipment", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateEquipment handles POST /api/equipment.
//
//	@Summary		Add an equipment item
//	@Tags			equipment
//	@Accept			json
//	@Produce		json
//	@Param			body	body		EquipmentRequest	true	"Item to add"
//	@Success		201		{object}	models.Equipment
//	@Failure		400		{object}	errResponse
//	@Router			/equipment [post]
func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req EquipmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "create equipment", err)
		return
	}
	item, err := h.svc.CreateEquipment(r.Context(), req)
	if err != nil {
		writeError(w, "create equipment", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateEquipment handles PUT /api/equipment/{id}.
//
//	@Summary		Replace an item's editable fields
//	@Tags			equipment
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Item ID"
//	@Param			body	body		EquipmentRequest	true	"New values"
//	@Success		200		{object}	models.Equipment
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/equipment/{id} [put]
func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var req EquipmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "update equipment", err)
		return
	}
	item, err := h.svc.UpdateEquipment(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, "update equipment", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteEquipment handles DELETE /api/equipment/{id}.
//
//	@Summary		Delete an item and its reminders
//	@Tags			equipment
//	@Param			id	path	string	true	"Item ID"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Router			/equipment/{id} [delete]
func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEquipment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete equipment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Equip handles POST /api/equipment/{id}/equip.
//
//	@Summary		Equip or unequip an item
//	@Tags			equipment
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Item ID"
//	@Param			body	body		EquipRequest	false	"Equipped flag (default true)"
//	@Success		200		{object}	models.Equipment
//	@Failure		404		{object}	errResponse
//	@Router			/equipment/{id}/equip [post]
func (h *Handler) Equip(w http.ResponseWriter, r *http.Request) {
	var req EquipRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, "equip", err)
			return
		}
	}
	equipped := req.IsEquipped == nil || *req.IsEquipped
	item, err := h.svc.SetEquipped(r.Context(), chi.URLParam(r, "id"), equipped)
	if err != nil {
		writeError(w, "equip", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// AddReminder handles POST /api/equipment/{id}/reminders.
//
//	@Summary		Add a maintenance reminder
//	@Tags			equipment
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Item ID"
//	@Param			body	body		ReminderRequest	true	"Reminder"
//	@Success		201		{object}	models.MaintenanceReminder
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/equipment/{id}/reminders [post]
func (h *Handler) AddReminder(w http.ResponseWriter, r *http.Request) {
	var req ReminderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "add reminder", err)
		return
	}
	rem, err := h.svc.AddReminder(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, "add reminder", err)
		return
	}
	writeJSON(w, http.StatusCreated, rem)
}

// CompleteReminder handles POST /api/equipment/{id}/reminders/{reminderID}/complete.
//
//	@Summary		Mark a maintenance reminder as done
//	@Tags			equipment
//	@Produce		json
//	@Param			id			path		string	true	"Item ID"
//	@Param			reminderID	path		string	true	"Reminder ID"
//	@Success		200			{object}	models.Equipment
//	@Failure		404			{object}	errResponse
//	@Router			/equipment/{id}/reminders/{reminderID}/complete [post]
func (h *Handler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.CompleteReminder(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "reminderID"))
	if err != nil {
		writeError(w, "complete reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
