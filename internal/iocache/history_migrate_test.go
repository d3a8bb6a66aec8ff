package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateHistory_UnsupportedBackend(t *testing.T) {
	err := MigrateHistory("oracle", "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// Already at latest
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 3))
}

func TestMigrateHistory_StoreOpensMigratedDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Contains(t, status.TableSizes, scorecardRunsTable)
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []string{"sqlite", "mysql", "postgresql"} {
		entries, err := migrationsFS.ReadDir("migrations/" + backend)
		require.NoError(t, err, backend)
		assert.Len(t, entries, 6, backend)
	}
}
