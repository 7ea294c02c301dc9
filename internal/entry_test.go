package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/balestra/internal/fixture"
	"github.com/starford/balestra/internal/profile"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Data.Dir = t.TempDir()
	return cfg
}

func TestSetup_ImportsSeed(t *testing.T) {
	seed, err := os.ReadFile(filepath.Join("..", "data", "seed.yaml"))
	if err != nil {
		t.Skipf("seed file not available: %v", err)
	}
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.Data.Dir, "seed.yaml"), seed, 0o644); err != nil {
		t.Fatal(err)
	}

	rt, err := setup(context.Background(), []Option{WithConfig(cfg), WithLogger(quietLogger())})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer rt.Close()

	if rt.seedSum == "" {
		t.Error("seed checksum not recorded")
	}
	items, err := rt.svc.ListEquipment(context.Background())
	if err != nil || len(items) != 12 {
		t.Errorf("equipment = %d, err %v", len(items), err)
	}
}

func TestSetup_MissingSeedStartsEmpty(t *testing.T) {
	rt, err := setup(context.Background(), []Option{WithConfig(testConfig(t)), WithLogger(quietLogger())})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer rt.Close()
	if rt.seedSum != "" {
		t.Errorf("seedSum = %q, want empty", rt.seedSum)
	}
}

func TestSetup_BadSeedFails(t *testing.T) {
	cfg := testConfig(t)
	_ = os.WriteFile(filepath.Join(cfg.Data.Dir, "seed.yaml"), []byte("bouts:\n  - user_score: 5\n    opponent_score: 5\n"), 0o644)

	_, err := setup(context.Background(), []Option{WithConfig(cfg), WithLogger(quietLogger())})
	if err == nil || !strings.Contains(err.Error(), "import seed") {
		t.Errorf("err = %v", err)
	}
}

func TestSetup_SkipsSeedWhenStoreHasData(t *testing.T) {
	cfg := testConfig(t)
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "balestra.db")
	seed := "bouts:\n  - id: b1\n    opponent_name: Sarah\n    date: 2024-01-15T00:00:00Z\n    weapon: epee\n    user_score: 15\n    opponent_score: 12\n    type: practice\n"
	_ = os.WriteFile(filepath.Join(cfg.Data.Dir, "seed.yaml"), []byte(seed), 0o644)

	rt, err := setup(context.Background(), []Option{WithConfig(cfg), WithLogger(quietLogger())})
	if err != nil {
		t.Fatalf("first setup: %v", err)
	}
	if err := rt.svc.DeleteBout(context.Background(), "b1"); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.svc.UpdateProfile(context.Background(), profile.Form{Name: "Alex", WeaponPrimary: "foil"}); err != nil {
		t.Fatal(err)
	}
	rt.Close()

	rt, err = setup(context.Background(), []Option{WithConfig(cfg), WithLogger(quietLogger())})
	if err != nil {
		t.Fatalf("second setup: %v", err)
	}
	defer rt.Close()
	if rt.seedSum != "" {
		t.Error("seed should not be re-imported over existing data")
	}
	if _, err := rt.svc.GetBout(context.Background(), "b1"); err == nil {
		t.Error("deleted bout came back from the seed")
	}
}

func TestSetup_RequiresConfig(t *testing.T) {
	if _, err := setup(context.Background(), nil); err == nil {
		t.Error("expected error without config")
	}
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	seed := "bouts:\n  - id: b1\n    opponent_name: Sarah\n    date: 2024-01-15T00:00:00Z\n    weapon: epee\n    user_score: 15\n    opponent_score: 12\n    type: practice\n"
	_ = os.WriteFile(filepath.Join(cfg.Data.Dir, "seed.yaml"), []byte(seed), 0o644)

	if err := Export(context.Background(), "exports/out.yaml", WithConfig(cfg), WithLogger(quietLogger())); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(cfg.Data.Dir, "exports", "out.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := fixture.Decode(data)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(snap.Bouts) != 1 || snap.Bouts[0].ID != "b1" || !snap.Bouts[0].Won {
		t.Errorf("bouts = %+v", snap.Bouts)
	}
}
