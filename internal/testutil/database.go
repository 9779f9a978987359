// Package testutil provides shared test helpers for larder packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/larder/internal/storage"
	"github.com/Veraticus/larder/internal/testutil/catalog"
)

// TestDB is a migrated in-memory database scoped to one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
}

// SetupTestDB creates a migrated in-memory SQLite database that is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store}
}

// SetupTestDBWithCatalog creates a test database and seeds it through the builder.
//
// Example:
//
//	db := testutil.SetupTestDBWithCatalog(t, func(b *catalog.Builder) *catalog.Builder {
//		return b.WithChain("rema", "Rema 1000").WithOffer("rema", "Salt", 12)
//	})
func SetupTestDBWithCatalog(t *testing.T, configure func(*catalog.Builder) *catalog.Builder) *TestDB {
	t.Helper()

	db := SetupTestDB(t)
	builder := catalog.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}
	builder.Build(context.Background(), db.Storage)
	return db
}
