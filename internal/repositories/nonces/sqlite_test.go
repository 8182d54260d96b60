package nonces

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	sqlitemigrations "github.com/eventsync/eventsync/internal/migrations/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(sqlitemigrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func TestMarkAndIsUsed(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	used, err := repo.IsUsed(ctx, "n-1")
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, repo.MarkUsed(ctx, "n-1", 7, "/mnt/usb/dump.aes"))

	used, err = repo.IsUsed(ctx, "n-1")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestMarkUsedTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	require.NoError(t, repo.MarkUsed(ctx, "n-1", 7, "/a"))
	require.NoError(t, repo.MarkUsed(ctx, "n-1", 7, "/b"))

	used, err := repo.IsUsed(ctx, "n-1")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestCleanupOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	require.NoError(t, repo.MarkUsed(ctx, "old", 7, "/a"))
	require.NoError(t, repo.MarkUsed(ctx, "fresh", 7, "/b"))

	// Only rows before the cutoff go; a future cutoff takes everything.
	removed, err := repo.CleanupOlderThan(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = repo.CleanupOlderThan(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	used, err := repo.IsUsed(ctx, "old")
	require.NoError(t, err)
	assert.False(t, used)
}
