package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/balestra/internal/fixture"
	"github.com/starford/balestra/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// lib, if non-nil, enables the /snapshots routes.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *service.Service, lib *fixture.Library, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, lib)

	r := chi.NewRouter()

	// Armory.
	r.Get("/armory", h.Armory)
	r.Get("/armory/catalog", h.Catalog)

	// Equipment CRUD.
	r.Route("/equipment", func(r chi.Router) {
		r.Get("/", h.ListEquipment)
		r.With(middleware.AllowContentType("application/json")).Post("/", h.CreateEquipment)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetEquipment)
			r.With(middleware.AllowContentType("application/json")).Put("/", h.UpdateEquipment)
			r.Delete("/", h.DeleteEquipment)
			r.Post("/equip", h.Equip)
			r.Post("/reminders", h.AddReminder)
			r.Post("/reminders/{reminderID}/complete", h.CompleteReminder)
		})
	})

	// Bouts.
	r.Get("/bouts", h.ListBouts)
	r.With(middleware.AllowContentType("application/json")).Post("/bouts", h.RecordBout)
	r.Get("/bouts/stats", h.BoutStats)
	r.Get("/bouts/{id}", h.GetBout)
	r.Delete("/bouts/{id}", h.DeleteBout)

	// Profile.
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.PutProfile)

	// Data export and import.
	r.Get("/export.json", h.ExportJSON)
	r.Get("/export/bouts.csv", h.ExportBoutsCSV)
	r.Get("/export/equipment.csv", h.ExportEquipmentCSV)
	r.Post("/import", h.Import)

	// Saved snapshots in the data directory.
	if lib != nil {
		r.Get("/snapshots", h.ListSnapshots)
		r.Post("/snapshots", h.SaveSnapshot)
		r.Get("/snapshots/{name}", h.GetSnapshot)
		r.Post("/snapshots/{name}/restore", h.RestoreSnapshot)
		r.Delete("/snapshots/{name}", h.DeleteSnapshot)
	}

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
