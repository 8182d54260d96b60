package nonces

import (
	"context"
	"fmt"
	"time"

	"github.com/eventsync/eventsync/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) IsUsed(ctx context.Context, nonce string) (bool, error) {
	var count int64
	query := `SELECT COUNT(*) FROM used_nonces WHERE nonce = $1`
	if err := r.db.QueryRowContext(ctx, query, nonce).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check nonce: %w", err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) MarkUsed(ctx context.Context, nonce string, orgID int64, dumpPath string) error {
	query := `
		INSERT INTO used_nonces (nonce, organization_id, timestamp, dump_path)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (nonce) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, nonce, orgID, time.Now().UTC(), dumpPath); err != nil {
		return fmt.Errorf("failed to mark nonce: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM used_nonces WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup nonces: %w", err)
	}
	return res.RowsAffected()
}
