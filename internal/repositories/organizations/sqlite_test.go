package organizations

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

func sampleOrg(name, inn string) *models.Organization {
	return &models.Organization{
		Name:          name,
		Inn:           inn,
		EncryptionKey: []byte("0123456789abcdef0123456789abcdef"),
		CreatedAt:     time.Now().UTC(),
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	org := sampleOrg("Acme", "7701234567")
	addr := "1 Main st"
	org.Address = &addr
	require.NoError(t, repo.Create(ctx, org))
	require.NotZero(t, org.ID)

	byID, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", byID.Name)
	assert.Equal(t, org.EncryptionKey, byID.EncryptionKey)
	require.NotNil(t, byID.Address)
	assert.Equal(t, addr, *byID.Address)

	byInn, err := repo.GetByInn(ctx, "7701234567")
	require.NoError(t, err)
	assert.Equal(t, org.ID, byInn.ID)
}

func TestGetNotFound(t *testing.T) {
	repo := NewSQLiteRepository(newTestDB(t))
	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = repo.GetByInn(context.Background(), "000")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListOrderedByName(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, sampleOrg("Zulu", "1")))
	require.NoError(t, repo.Create(ctx, sampleOrg("Alpha", "2")))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Zulu", got[1].Name)
}
