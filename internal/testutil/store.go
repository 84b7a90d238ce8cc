package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/HerbHall/rigplanner/internal/services"
	"github.com/HerbHall/rigplanner/internal/store"
	"github.com/HerbHall/rigplanner/pkg/catalog"
)

// NewStore opens a file-backed SQLiteStore in t.TempDir, so WAL mode is in
// effect as in production. It is closed when the test completes.
func NewStore(t testing.TB) *store.SQLiteStore {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "rigplanner.db"))
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// NewComponentRepository returns a repository seeded with the embedded
// catalog, components and prebuilts alike.
func NewComponentRepository(t testing.TB) *services.SQLiteComponentRepository {
	t.Helper()
	ctx := context.Background()
	repo, err := services.NewSQLiteComponentRepository(ctx, NewStore(t))
	if err != nil {
		t.Fatalf("testutil.NewComponentRepository: %v", err)
	}

	embedded := catalog.NewCatalog()
	items, err := embedded.All(ctx)
	if err != nil {
		t.Fatalf("testutil.NewComponentRepository: %v", err)
	}
	prebuilts, err := embedded.Prebuilts(ctx)
	if err != nil {
		t.Fatalf("testutil.NewComponentRepository: %v", err)
	}
	if _, err := repo.Import(ctx, &catalog.Document{Components: items, Prebuilts: prebuilts}); err != nil {
		t.Fatalf("testutil.NewComponentRepository: import: %v", err)
	}
	return repo
}
