package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/dbx"
	"github.com/eventsync/eventsync/internal/models"
)

// SQLiteRepository implements Repository for the field node's local
// database.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (login, password_hash, salt, created_at)
		VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, u.Login, u.PasswordHash, u.Salt, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	u.ID = id
	return nil
}

func (r *SQLiteRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT id, login, password_hash, salt, created_at FROM users WHERE login = ?`

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, login).Scan(
		&u.ID, &u.Login, &u.PasswordHash, &u.Salt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return u, nil
}
