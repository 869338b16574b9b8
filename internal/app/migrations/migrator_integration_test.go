//go:build integration

package migrations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canberk/labdrop/internal/db"
)

// newTestMigrator connects to the database named by TEST_DATABASE_DSN and
// resets the tables these tests touch.
func newTestMigrator(t *testing.T) *Migrator {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `DROP TABLE IF EXISTS schema_migrations, widgets;`)
	require.NoError(t, err)

	return NewMigrator(&db.PostgresDB{Pool: pool})
}

func writeMigration(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMigrateFromFile_AppliesAndRecords(t *testing.T) {
	m := newTestMigrator(t)
	path := writeMigration(t, t.TempDir(), "001_widgets.sql",
		`CREATE TABLE widgets (id SERIAL PRIMARY KEY, name TEXT NOT NULL);`)

	require.NoError(t, m.MigrateFromFile(path))

	applied, err := m.isMigrationApplied(context.Background(), "001")
	require.NoError(t, err)
	assert.True(t, applied)

	// A second run skips the already applied version.
	require.NoError(t, m.MigrateFromFile(path))
}

func TestMigrateFromFile_FailureRecordsNothing(t *testing.T) {
	m := newTestMigrator(t)
	path := writeMigration(t, t.TempDir(), "002_broken.sql",
		`CREATE TABLE widgets (id SERIAL PRIMARY KEY;`)

	require.Error(t, m.MigrateFromFile(path))

	// The version record rolls back together with the failed body, so a
	// rerun is never silently skipped.
	applied, err := m.isMigrationApplied(context.Background(), "002")
	require.NoError(t, err)
	assert.False(t, applied)
}
