package fixture

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/balestra/internal/armory"
	"github.com/starford/balestra/internal/models"
	"github.com/starford/balestra/internal/storage"
)

type recorder struct {
	mu    sync.Mutex
	snaps []models.Snapshot
	err   error
}

func (r *recorder) Import(_ context.Context, snap models.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func tempFiles(t *testing.T) storage.Provider {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

const sample = `
profile:
  name: Alex
  weapon_primary: foil
equipment:
  - id: w1
    type: weapon
    is_equipped: true
    purchase_date: 2023-01-15
    cost: 285
    maintenance_reminders:
      - id: r1
        type: repair
        description: Replace tip
        due_date: 2024-01-20
bouts:
  - id: b1
    opponent_name: Sarah
    date: 2024-12-15T14:30:00Z
    weapon: epee
    user_score: 15
    opponent_score: 12
    type: practice
`

func TestDecode(t *testing.T) {
	snap, err := Decode([]byte(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Profile == nil || snap.Profile.WeaponPrimary != models.WeaponFoil {
		t.Errorf("profile = %+v", snap.Profile)
	}
	if len(snap.Equipment) != 1 {
		t.Fatalf("equipment = %d, want 1", len(snap.Equipment))
	}
	e := snap.Equipment[0]
	if e.Category != models.CategoryWeapon || !e.IsEquipped || e.Cost == nil || *e.Cost != 285 {
		t.Errorf("equipment = %+v", e)
	}
	if e.PurchaseDate == nil || e.PurchaseDate.Year() != 2023 {
		t.Errorf("purchase date = %v", e.PurchaseDate)
	}
	if len(e.MaintenanceReminders) != 1 || e.MaintenanceReminders[0].DueDate.IsZero() {
		t.Errorf("reminders = %+v", e.MaintenanceReminders)
	}
	if len(snap.Bouts) != 1 || snap.Bouts[0].UserScore != 15 {
		t.Errorf("bouts = %+v", snap.Bouts)
	}
}

func TestDecode_Empty(t *testing.T) {
	snap, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Profile != nil || len(snap.Equipment) != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestDecode_UnknownField(t *testing.T) {
	if _, err := Decode([]byte("equipment:\n  - id: x\n    colour: red\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestEncodeDecode(t *testing.T) {
	in, _ := Decode([]byte(sample))
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode encoded: %v", err)
	}
	if len(out.Equipment) != 1 || out.Equipment[0].ID != "w1" || len(out.Equipment[0].MaintenanceReminders) != 1 {
		t.Errorf("equipment = %+v", out.Equipment)
	}
	if !out.Bouts[0].Date.Equal(in.Bouts[0].Date) {
		t.Errorf("date = %v, want %v", out.Bouts[0].Date, in.Bouts[0].Date)
	}
}

func TestSeedFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "seed.yaml"))
	if err != nil {
		t.Skipf("seed file not available: %v", err)
	}
	snap, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode seed: %v", err)
	}
	if len(snap.Equipment) != 12 || len(snap.Bouts) != 5 {
		t.Fatalf("seed has %d equipment, %d bouts", len(snap.Equipment), len(snap.Bouts))
	}

	catalog := armory.DefaultCatalog()
	states := armory.DisplayStates(catalog, snap.Equipment)
	byKey := map[models.CategoryKey]armory.DisplayState{}
	for _, s := range states {
		byKey[s.Category.Key] = s
	}
	weapon := byKey[models.CategoryWeapon]
	if len(weapon.Items) != 3 || weapon.EquippedItem == nil || weapon.EquippedItem.ID != "1" || weapon.NeedsMaintenance != 1 {
		t.Errorf("weapon state = %+v", weapon)
	}
	if byKey[models.CategoryBodyCord].NeedsMaintenance != 1 {
		t.Error("body cord should need maintenance")
	}
	if !byKey[models.CategoryKnickers].IsEmpty {
		t.Error("knickers should be empty")
	}
	for _, e := range snap.Equipment {
		cat, _ := catalog.Lookup(e.Category)
		if e.Subtype != "" && !cat.AllowsSubtype(e.Subtype) {
			t.Errorf("item %s: subtype %q not in %q", e.ID, e.Subtype, cat.Key)
		}
	}
}

func TestLoadAndSave(t *testing.T) {
	files := tempFiles(t)
	if err := files.Write("seed.yaml", []byte(sample)); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	sum, err := Load(context.Background(), files, "seed.yaml", rec)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sum != storage.Checksum([]byte(sample)) || rec.count() != 1 {
		t.Errorf("checksum %q, imports %d", sum, rec.count())
	}

	if err := Save(files, "exports/out.yaml", rec.snaps[0]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(context.Background(), files, "exports/out.yaml", rec); err != nil {
		t.Errorf("reload saved snapshot: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	files := tempFiles(t)
	rec := &recorder{}
	if _, err := Load(context.Background(), files, "missing.yaml", rec); err == nil {
		t.Error("expected error for missing file")
	}

	_ = files.Write("bad.yaml", []byte("equipment: {"))
	if _, err := Load(context.Background(), files, "bad.yaml", rec); err == nil {
		t.Error("expected decode error")
	}

	_ = files.Write("ok.yaml", []byte(sample))
	rec.err = errors.New("boom")
	if _, err := Load(context.Background(), files, "ok.yaml", rec); err == nil {
		t.Error("expected import error")
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	files := tempFiles(t)
	_ = files.Write("seed.yaml", []byte(sample))
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	var mu sync.Mutex
	var reloaded []string
	go Watch(ctx, files, "seed.yaml", storage.Checksum([]byte(sample)), rec, logger, func(path string) {
		mu.Lock()
		reloaded = append(reloaded, path)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	// Same content: no reload.
	_ = os.WriteFile(filepath.Join(files.Root(), "seed.yaml"), []byte(sample), 0o644)
	time.Sleep(400 * time.Millisecond)
	if rec.count() != 0 {
		t.Fatalf("unchanged content triggered %d imports", rec.count())
	}

	_ = os.WriteFile(filepath.Join(files.Root(), "seed.yaml"), []byte(sample+"\n# edited\n"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.count() == 1
	}, "changed seed file was not re-imported")
	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reloaded) == 1 && reloaded[0] == "seed.yaml"
	}, "expected reload callback")
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	files := tempFiles(t)
	_ = files.Write("seed.yaml", []byte(sample))
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	go Watch(ctx, files, "seed.yaml", storage.Checksum([]byte(sample)), rec, logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(files.Root(), "other.yaml"), []byte("bouts: []\n"), 0o644)
	time.Sleep(400 * time.Millisecond)
	if rec.count() != 0 {
		t.Errorf("unrelated file triggered %d imports", rec.count())
	}
}
