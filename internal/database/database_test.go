package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/assocsync/internal/database"
	"github.com/johnwards/assocsync/internal/testhelpers"
)

func TestOpen(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	require.NoError(t, db.Ping())

	// In-memory databases may report "memory" instead of "wal".
	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Contains(t, []string{"wal", "memory"}, journalMode)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var busy int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, int(database.DefaultBusyTimeout.Milliseconds()), busy)
}

func TestOpenCustomBusyTimeout(t *testing.T) {
	db, err := database.Open(":memory:", 1500*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var busy int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, 1500, busy)
}

func TestMigrate(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.Migrate(ctx, db))

	v, err := database.Version(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestVersionBeforeMigrate(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE schema_migrations (version INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	v, err := database.Version(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}
