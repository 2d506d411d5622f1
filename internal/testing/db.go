// Package testing provides test helpers shared across yieldwise packages.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/yieldwise/internal/database"
)

// NewTestDB creates a file-backed SQLite database in a temporary directory
// and applies the embedded schema for name (e.g. "comparables").
// File-backed databases run in WAL mode like production ones; use
// NewMemoryDB when that does not matter.
//
// The returned cleanup function is idempotent. It also runs automatically
// when the test ends.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileCache,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	return migrate(t, db)
}

// NewMemoryDB creates an in-memory database with the schema for name applied
func NewMemoryDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	db, err := database.New(database.Config{Path: ":memory:", Name: name})
	if err != nil {
		t.Fatalf("Failed to create in-memory database %s: %v", name, err)
	}
	return migrate(t, db)
}

func migrate(t *testing.T, db *database.DB) (*database.DB, func()) {
	t.Helper()

	closed := false
	cleanup := func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", db.Name(), err)
		}
	}
	t.Cleanup(cleanup)

	if err := db.Migrate(); err != nil {
		cleanup()
		t.Fatalf("Failed to migrate test database %s: %v", db.Name(), err)
	}
	return db, cleanup
}
