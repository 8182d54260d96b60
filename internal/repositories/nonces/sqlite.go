package nonces

import (
	"context"
	"fmt"
	"time"

	"github.com/eventsync/eventsync/internal/dbx"
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

func (r *SQLiteRepository) IsUsed(ctx context.Context, nonce string) (bool, error) {
	var count int64
	query := `SELECT COUNT(*) FROM used_nonces WHERE nonce = ?`
	if err := r.db.QueryRowContext(ctx, query, nonce).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check nonce: %w", err)
	}
	return count > 0, nil
}

func (r *SQLiteRepository) MarkUsed(ctx context.Context, nonce string, orgID int64, dumpPath string) error {
	query := `
		INSERT OR IGNORE INTO used_nonces (nonce, organization_id, timestamp, dump_path)
		VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, nonce, orgID, time.Now().UTC(), dumpPath); err != nil {
		return fmt.Errorf("failed to mark nonce: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM used_nonces WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup nonces: %w", err)
	}
	return res.RowsAffected()
}
