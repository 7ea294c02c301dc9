package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/balestra/internal/bout"
	"github.com/starford/balestra/internal/fixture"
	"github.com/starford/balestra/internal/models"
	"github.com/starford/balestra/internal/service"
	"github.com/starford/balestra/internal/testutil"
)

func testEnv(t *testing.T) (*service.Service, http.Handler) {
	t.Helper()
	svc := testutil.TestService(t)
	_, files := testutil.TestDataDir(t)
	return svc, NewRouter(svc, fixture.NewLibrary(files), nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

const sarah = `{"opponentName":"Sarah","date":"2024-01-15","weapon":"epee","userScore":15,"opponentScore":12,"type":"practice"}`

func TestRecordAndGetBout(t *testing.T) {
	_, router := testEnv(t)

	w := do(t, router, http.MethodPost, "/bouts", sarah)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode[models.Bout](t, w)
	if created.ID != "id-1" || !created.Won {
		t.Errorf("bout = %+v", created)
	}

	w = do(t, router, http.MethodGet, "/bouts/id-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decode[models.Bout](t, w); got.OpponentName != "Sarah" || got.UserScore != 15 {
		t.Errorf("bout = %+v", got)
	}
}

func TestRecordBout_Validation(t *testing.T) {
	_, router := testEnv(t)

	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"tie", `{"opponentName":"Sarah","date":"2024-01-15","weapon":"epee","userScore":10,"opponentScore":10,"type":"practice"}`, "userScore", "Scores cannot be tied"},
		{"blank name", `{"opponentName":"  ","date":"2024-01-15","weapon":"epee","userScore":15,"opponentScore":12,"type":"practice"}`, "opponentName", "Opponent name is required"},
		{"fractional score", `{"opponentName":"Sarah","date":"2024-01-15","weapon":"epee","userScore":15.5,"opponentScore":12,"type":"practice"}`, "userScore", "must be a whole number"},
		{"score as string", `{"opponentName":"Sarah","date":"2024-01-15","weapon":"epee","userScore":"15","opponentScore":12,"type":"practice"}`, "userScore", "must be a whole number"},
		{"malformed", `{"opponentName":`, "body", "invalid JSON body"},
		{"trailing data", sarah + ` {"opponentName":"Marc"}`, "body", "unexpected data after JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/bouts", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			resp := decode[errResponse](t, w)
			if len(resp.Fields) != 1 || resp.Fields[0].Field != tt.field || resp.Fields[0].Message != tt.msg {
				t.Errorf("fields = %+v", resp.Fields)
			}
		})
	}
}

func TestRecordBout_EveryMistypedField(t *testing.T) {
	_, router := testEnv(t)
	w := do(t, router, http.MethodPost, "/bouts",
		`{"opponentName":"Sarah","date":"2024-01-15","weapon":"epee","userScore":1.5,"opponentScore":"x","type":"practice"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[errResponse](t, w)
	if len(resp.Fields) != 2 || resp.Fields[0].Field != "userScore" || resp.Fields[1].Field != "opponentScore" {
		t.Errorf("fields = %+v", resp.Fields)
	}

	if w := do(t, router, http.MethodPost, "/bouts", sarah+"\n"); w.Code != http.StatusCreated {
		t.Errorf("trailing newline: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecordBout_WrongContentType(t *testing.T) {
	_, router := testEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/bouts", strings.NewReader(sarah))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", w.Code)
	}
}

func TestListBoutsAndStats(t *testing.T) {
	_, router := testEnv(t)
	do(t, router, http.MethodPost, "/bouts", sarah)
	do(t, router, http.MethodPost, "/bouts", `{"opponentName":"Marc","date":"2024-02-01","weapon":"foil","userScore":3,"opponentScore":5,"type":"tournament","tournamentName":"Spring Open"}`)

	w := do(t, router, http.MethodGet, "/bouts", "")
	list := decode[BoutListResponse](t, w)
	if list.Total != 2 || list.Bouts[0].OpponentName != "Marc" {
		t.Errorf("list = %+v", list)
	}

	w = do(t, router, http.MethodGet, "/bouts?q=spring", "")
	if list := decode[BoutListResponse](t, w); list.Total != 1 {
		t.Errorf("search total = %d, want 1", list.Total)
	}

	w = do(t, router, http.MethodGet, "/bouts?weapon=longsword", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid weapon: expected 400, got %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/bouts/stats", "")
	stats := decode[bout.Stats](t, w)
	if stats.Bouts != 2 || stats.Wins != 1 || stats.CurrentStreak != -1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDeleteBout(t *testing.T) {
	_, router := testEnv(t)
	do(t, router, http.MethodPost, "/bouts", sarah)

	if w := do(t, router, http.MethodDelete, "/bouts/id-1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/bouts/id-1", ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestEquipmentLifecycle(t *testing.T) {
	_, router := testEnv(t)

	w := do(t, router, http.MethodPost, "/equipment", `{"type":"weapon","subtype":"complete","brand":"Leon Paul","weapon":"epee","cost":285}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	item := decode[models.Equipment](t, w)
	if item.Status != models.StatusActive || item.IsEquipped {
		t.Errorf("item = %+v", item)
	}

	w = do(t, router, http.MethodPost, "/equipment/"+item.ID+"/equip", "")
	if got := decode[models.Equipment](t, w); !got.IsEquipped {
		t.Errorf("equip: %+v", got)
	}
	w = do(t, router, http.MethodPost, "/equipment/"+item.ID+"/equip", `{"isEquipped":false}`)
	if got := decode[models.Equipment](t, w); got.IsEquipped {
		t.Errorf("unequip: %+v", got)
	}

	w = do(t, router, http.MethodPost, "/equipment/"+item.ID+"/reminders", `{"type":"repair","description":"Replace tip","dueDate":"2024-01-20"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add reminder: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	rem := decode[models.MaintenanceReminder](t, w)

	w = do(t, router, http.MethodGet, "/armory?filter=maintenance", "")
	view := decode[ArmoryResponse](t, w)
	if len(view.Categories) != 1 || view.Categories[0].NeedsMaintenance != 1 || view.Summary.MaintenanceItems != 1 {
		t.Errorf("maintenance view = %+v", view)
	}

	w = do(t, router, http.MethodPost, "/equipment/"+item.ID+"/reminders/"+rem.ID+"/complete", "")
	if got := decode[models.Equipment](t, w); got.HasOpenReminder() {
		t.Errorf("reminder still open: %+v", got)
	}

	w = do(t, router, http.MethodPut, "/equipment/"+item.ID, `{"type":"weapon","brand":"Absolute","status":"repair"}`)
	if got := decode[models.Equipment](t, w); got.Brand != "Absolute" || got.Status != models.StatusRepair {
		t.Errorf("updated = %+v", got)
	}

	if w := do(t, router, http.MethodDelete, "/equipment/"+item.ID, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/equipment/"+item.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestCreateEquipment_Validation(t *testing.T) {
	_, router := testEnv(t)
	w := do(t, router, http.MethodPost, "/equipment", `{"type":"cape","cost":-1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := decode[errResponse](t, w)
	fields := map[string]bool{}
	for _, f := range resp.Fields {
		fields[f.Field] = true
	}
	if !fields["type"] || !fields["cost"] {
		t.Errorf("fields = %+v", resp.Fields)
	}
}

func TestArmory(t *testing.T) {
	_, router := testEnv(t)

	w := do(t, router, http.MethodGet, "/armory", "")
	view := decode[ArmoryResponse](t, w)
	if len(view.Categories) != 13 || view.Summary.TotalItems != 0 {
		t.Errorf("empty armory = %d categories, summary %+v", len(view.Categories), view.Summary)
	}

	if w := do(t, router, http.MethodGet, "/armory?filter=broken", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad filter: expected 400, got %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/armory/catalog", "")
	if cat := decode[CatalogResponse](t, w); len(cat.Categories) != 13 || cat.Categories[0].Key != models.CategoryWeapon {
		t.Errorf("catalog = %+v", cat)
	}
}

func TestProfile(t *testing.T) {
	_, router := testEnv(t)

	if w := do(t, router, http.MethodGet, "/profile", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing profile: expected 404, got %d", w.Code)
	}
	w := do(t, router, http.MethodPut, "/profile", `{"name":"John Doe","email":"john@example.com","weaponPrimary":"epee"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodGet, "/profile", "")
	if p := decode[models.Profile](t, w); p.Name != "John Doe" || p.WeaponPrimary != models.WeaponEpee {
		t.Errorf("profile = %+v", p)
	}
	if w := do(t, router, http.MethodPut, "/profile", `{"name":"John","email":"nope","weaponPrimary":"epee"}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad email: expected 400, got %d", w.Code)
	}
}

func TestExportImport(t *testing.T) {
	_, router := testEnv(t)
	do(t, router, http.MethodPost, "/bouts", sarah)
	do(t, router, http.MethodPost, "/equipment", `{"type":"mask","brand":"PBT","cost":120.5}`)

	w := do(t, router, http.MethodGet, "/export.json", "")
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	exported := w.Body.String()
	snap := decode[models.Snapshot](t, w)
	if len(snap.Bouts) != 1 || len(snap.Equipment) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	do(t, router, http.MethodDelete, "/bouts/id-1", "")
	if w := do(t, router, http.MethodPost, "/import", exported); w.Code != http.StatusNoContent {
		t.Fatalf("import: expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodGet, "/bouts/id-1", ""); w.Code != http.StatusOK {
		t.Errorf("bout not restored: %d", w.Code)
	}

	w = do(t, router, http.MethodPost, "/import", `{"bouts":[{"opponentName":"X","weapon":"epee","type":"practice","userScore":5,"opponentScore":5,"date":"2024-01-01T00:00:00Z"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("tied import: expected 400, got %d", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	_, router := testEnv(t)
	do(t, router, http.MethodPost, "/bouts", `{"opponentName":"Smith, Jr.","date":"2024-01-15","weapon":"epee","userScore":15,"opponentScore":12,"type":"practice"}`)
	do(t, router, http.MethodPost, "/equipment", `{"type":"mask","brand":"PBT","cost":120.5,"purchaseDate":"2023-03-01"}`)

	w := do(t, router, http.MethodGet, "/export/bouts.csv", "")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse bouts csv: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "id" || rows[1][2] != "Smith, Jr." || rows[1][8] != "true" {
		t.Errorf("bouts csv = %q", rows)
	}

	w = do(t, router, http.MethodGet, "/export/equipment.csv", "")
	rows, err = csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse equipment csv: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "mask" || rows[1][8] != "120.50" || rows[1][9] != "2023-03-01" {
		t.Errorf("equipment csv = %q", rows)
	}
}

func TestSSEEventsMounted(t *testing.T) {
	svc := testutil.TestService(t)
	called := false
	router := NewRouter(svc, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	do(t, router, http.MethodGet, "/events", "")
	if !called {
		t.Error("events handler not mounted")
	}
}

func TestSnapshots(t *testing.T) {
	_, router := testEnv(t)
	do(t, router, http.MethodPost, "/bouts", sarah)

	w := do(t, router, http.MethodGet, "/snapshots", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list: %d %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/snapshots", `{"name":"before.yaml"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("save: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decode[SnapshotResponse](t, w); resp.Name != "before.yaml" {
		t.Errorf("name = %q", resp.Name)
	}

	w = do(t, router, http.MethodGet, "/snapshots/before.yaml", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "opponent_name: Sarah") {
		t.Errorf("download: %d %s", w.Code, w.Body.String())
	}

	do(t, router, http.MethodDelete, "/bouts/id-1", "")
	if w := do(t, router, http.MethodPost, "/snapshots/before.yaml/restore", ""); w.Code != http.StatusNoContent {
		t.Fatalf("restore: expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodGet, "/bouts/id-1", ""); w.Code != http.StatusOK {
		t.Errorf("bout not restored: %d", w.Code)
	}

	if w := do(t, router, http.MethodPost, "/snapshots", `{"name":"../escape.yaml"}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad name: expected 400, got %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/snapshots/before.yaml", ""); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/snapshots/before.yaml", ""); w.Code != http.StatusNotFound {
		t.Errorf("deleted download: expected 404, got %d", w.Code)
	}
}
