package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

func (r *SQLiteRepository) Insert(ctx context.Context, a *models.FileAttachment) error {
	query := `
		INSERT OR IGNORE INTO file_attachments (event_id, filename, hash, filepath, file_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.EventID, a.Filename, a.Hash, a.Filepath, a.FileSize, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByHash(ctx context.Context, hash string) (*models.FileAttachment, error) {
	query := `
		SELECT id, event_id, filename, hash, filepath, file_size, created_at
		FROM file_attachments WHERE hash = ? LIMIT 1`
	var a models.FileAttachment
	err := r.db.QueryRowContext(ctx, query, hash).Scan(&a.ID, &a.EventID,
		&a.Filename, &a.Hash, &a.Filepath, &a.FileSize, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select attachment by hash: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) GetByEventIDs(ctx context.Context, eventIDs []int64) ([]models.FileAttachment, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(eventIDs))
	args := make([]any, len(eventIDs))
	for i, id := range eventIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `
		SELECT id, event_id, filename, hash, filepath, file_size, created_at
		FROM file_attachments
		WHERE event_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []models.FileAttachment
	for rows.Next() {
		var a models.FileAttachment
		if err := rows.Scan(&a.ID, &a.EventID, &a.Filename, &a.Hash,
			&a.Filepath, &a.FileSize, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
