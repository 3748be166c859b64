package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tier4/mapvalidator/schema"
)

func TestMigrate_NoneBackend(t *testing.T) {
	err := Migrate(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrate_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migration.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1), "second run is a no-op")
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 3))

	// The store works on top of a migrated database
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		entries, err := migrationsFS.ReadDir("migrations/" + string(backend))
		require.NoError(t, err)
		assert.Len(t, entries, 6, backend)
	}
}
