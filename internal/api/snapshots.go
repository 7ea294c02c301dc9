package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SnapshotRequest names a snapshot to save. An empty name is generated from
// the current time.
type SnapshotRequest struct {
	Name string `json:"name" example:"before-nationals.yaml"`
}

// SnapshotResponse reports the name a snapshot was saved under.
type SnapshotResponse struct {
	Name string `json:"name" example:"snapshot-20240501-100000.yaml" validate:"required"`
}

// ListSnapshots handles GET /api/snapshots.
//
//	@Summary		List saved YAML snapshots, newest first
//	@Tags			data
//	@Produce		json
//	@Success		200	{array}	storage.FileInfo
//	@Router			/snapshots [get]
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	items, err := h.lib.List()
	if err != nil {
		writeError(w, "list snapshots", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// SaveSnapshot handles POST /api/snapshots.
//
//	@Summary		Save all data as a YAML snapshot in the data directory
//	@Tags			data
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SnapshotRequest	false	"Snapshot name"
//	@Success		201		{object}	SnapshotResponse
//	@Failure		400		{object}	errResponse
//	@Router			/snapshots [post]
func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, "save snapshot", err)
			return
		}
	}
	snap, err := h.svc.Export(r.Context())
	if err != nil {
		writeError(w, "save snapshot", err)
		return
	}
	name, err := h.lib.Save(req.Name, snap)
	if err != nil {
		writeError(w, "save snapshot", err)
		return
	}
	writeJSON(w, http.StatusCreated, SnapshotResponse{Name: name})
}

// GetSnapshot handles GET /api/snapshots/{name}.
//
//	@Summary		Download a snapshot as YAML
//	@Tags			data
//	@Produce		application/yaml
//	@Param			name	path	string	true	"Snapshot file name"
//	@Success		200
//	@Failure		404	{object}	errResponse
//	@Router			/snapshots/{name} [get]
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := h.lib.Read(name)
	if err != nil {
		writeError(w, "get snapshot", err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// RestoreSnapshot handles POST /api/snapshots/{name}/restore.
//
//	@Summary		Replace all data with a saved snapshot
//	@Tags			data
//	@Param			name	path	string	true	"Snapshot file name"
//	@Success		204
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/snapshots/{name}/restore [post]
func (h *Handler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.lib.Restore(r.Context(), chi.URLParam(r, "name"), h.svc); err != nil {
		writeError(w, "restore snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSnapshot handles DELETE /api/snapshots/{name}.
//
//	@Summary		Delete a saved snapshot
//	@Tags			data
//	@Param			name	path	string	true	"Snapshot file name"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Router			/snapshots/{name} [delete]
func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.lib.Delete(chi.URLParam(r, "name")); err != nil {
		writeError(w, "delete snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
