// Package testutil provides shared test helpers for setting up stores, data
// directories and services.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/starford/balestra/internal/armory"
	"github.com/starford/balestra/internal/service"
	"github.com/starford/balestra/internal/storage"
	"github.com/starford/balestra/internal/store"
)

// Now is the fixed clock used by TestService.
var Now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// TestStore opens an in-memory database that is closed when the test ends.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), store.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary data directory with a storage.Provider.
func TestDataDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, files
}

// TestService builds a service over a fresh in-memory store with the default
// catalog, a fixed clock and sequential IDs ("id-1", "id-2", ...).
func TestService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	n := 0
	base := []service.Option{
		service.WithClock(func() time.Time { return Now }),
		service.WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	}
	return service.New(TestStore(t), armory.DefaultCatalog(), append(base, opts...)...)
}
