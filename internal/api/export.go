package api

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/starford/balestra/internal/bout"
	"github.com/starford/balestra/internal/models"
)

var boutColumns = []string{
	"id", "date", "opponentName", "opponentNickname", "weapon", "type",
	"userScore", "opponentScore", "won", "tournamentName", "location", "notes",
}

var equipmentColumns = []string{
	"id", "type", "subtype", "brand", "model", "status", "isEquipped",
	"weapon", "cost", "purchaseDate", "openReminders",
}

// ExportJSON handles GET /api/export.json.
//
//	@Summary		Download the whole data set as JSON
//	@Tags			data
//	@Produce		json
//	@Success		200	{object}	models.Snapshot
//	@Router			/export.json [get]
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Export(r.Context())
	if err != nil {
		writeError(w, "export", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="balestra-export.json"`)
	writeJSON(w, http.StatusOK, snap)
}

// Import handles POST /api/import.
//
//	@Summary		Replace all data with a snapshot
//	@Tags			data
//	@Accept			json
//	@Param			body	body	models.Snapshot	true	"Snapshot"
//	@Success		204
//	@Failure		400	{object}	errResponse
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var snap models.Snapshot
	if err := decodeJSON(w, r, &snap); err != nil {
		writeError(w, "import", err)
		return
	}
	if err := h.svc.Import(r.Context(), snap); err != nil {
		writeError(w, "import", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportBoutsCSV handles GET /api/export/bouts.csv.
//
//	@Summary		Download bouts as CSV, newest first
//	@Tags			data
//	@Produce		text/csv
//	@Success		200
//	@Router			/export/bouts.csv [get]
func (h *Handler) ExportBoutsCSV(w http.ResponseWriter, r *http.Request) {
	bouts, err := h.svc.ListBouts(r.Context(), bout.Query{})
	if err != nil {
		writeError(w, "export bouts", err)
		return
	}
	rows := make([][]string, 0, len(bouts))
	for _, b := range bouts {
		rows = append(rows, []string{
			b.ID,
			b.Date.UTC().Format(time.RFC3339),
			b.OpponentName,
			b.OpponentNickname,
			string(b.Weapon),
			string(b.Type),
			strconv.Itoa(b.UserScore),
			strconv.Itoa(b.OpponentScore),
			strconv.FormatBool(b.Won),
			b.TournamentName,
			b.Location,
			b.Notes,
		})
	}
	writeCSV(w, "balestra-bouts.csv", boutColumns, rows)
}

// ExportEquipmentCSV handles GET /api/export/equipment.csv.
//
//	@Summary		Download the equipment inventory as CSV
//	@Tags			data
//	@Produce		text/csv
//	@Success		200
//	@Router			/export/equipment.csv [get]
func (h *Handler) ExportEquipmentCSV(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListEquipment(r.Context())
	if err != nil {
		writeError(w, "export equipment", err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		var cost, purchased string
		if e.Cost != nil {
			cost = strconv.FormatFloat(*e.Cost, 'f', 2, 64)
		}
		if e.PurchaseDate != nil {
			purchased = e.PurchaseDate.Format(time.DateOnly)
		}
		open := 0
		for _, rem := range e.MaintenanceReminders {
			if !rem.Completed {
				open++
			}
		}
		rows = append(rows, []string{
			e.ID,
			string(e.Category),
			e.Subtype,
			e.Brand,
			e.Model,
			string(e.Status),
			strconv.FormatBool(e.IsEquipped),
			string(e.Weapon),
			cost,
			purchased,
			strconv.Itoa(open),
		})
	}
	writeCSV(w, "balestra-equipment.csv", equipmentColumns, rows)
}

func writeCSV(w http.ResponseWriter, filename string, header []string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	cw := csv.NewWriter(w)
	_ = cw.Write(header)
	if err := cw.WriteAll(rows); err != nil {
		slog.Error("csv write failed", slog.String("file", filename), slog.String("error", err.Error()))
	}
}
