package attachments

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

	"github.com/eventsync/eventsync/internal/common"
	sqlitemigrations "github.com/eventsync/eventsync/internal/migrations/sqlite"
	"github.com/eventsync/eventsync/internal/models"
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

func sampleAtt(eventID int64, hash string) *models.FileAttachment {
	return &models.FileAttachment{
		EventID:   eventID,
		Filename:  "doc.pdf",
		Hash:      hash,
		Filepath:  "/store/" + hash,
		FileSize:  100,
		CreatedAt: time.Now().UTC(),
	}
}

func TestInsertIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	require.NoError(t, repo.Insert(ctx, sampleAtt(1, "aaaa")))
	require.NoError(t, repo.Insert(ctx, sampleAtt(1, "aaaa")))

	got, err := repo.GetByEventIDs(ctx, []int64{1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetByEventIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	require.NoError(t, repo.Insert(ctx, sampleAtt(1, "aaaa")))
	require.NoError(t, repo.Insert(ctx, sampleAtt(2, "bbbb")))
	require.NoError(t, repo.Insert(ctx, sampleAtt(3, "cccc")))

	got, err := repo.GetByEventIDs(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.GetByEventIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetByHash(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	require.NoError(t, repo.Insert(ctx, sampleAtt(1, "aaaa")))

	got, err := repo.GetByHash(ctx, "aaaa")
	require.NoError(t, err)
	assert.Equal(t, "/store/aaaa", got.Filepath)

	_, err = repo.GetByHash(ctx, "ffff")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
