package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/johnwards/assocsync/internal/database"
)

// NewTestDB returns an in-memory SQLite database configured the same way as
// production. The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:", 0)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// NewMigratedDB returns an in-memory database with all migrations applied.
func NewMigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db := NewTestDB(t)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
