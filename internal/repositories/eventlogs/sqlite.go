package eventlogs

import (
	"context"
	"fmt"

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

func (r *SQLiteRepository) Append(ctx context.Context, entry *models.EventLog) error {
	query := `
		INSERT INTO event_logs (event_id, timestamp, status_old, status_new, comment, user_name, action, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		entry.EventID, entry.Timestamp, entry.StatusOld, entry.StatusNew,
		entry.Comment, entry.UserName, entry.Action, entry.Source)
	if err != nil {
		return fmt.Errorf("failed to append event log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]models.EventLog, error) {
	query := `
		SELECT id, event_id, timestamp, status_old, status_new, comment, user_name, action, source
		FROM event_logs WHERE 1=1`
	var args []any

	if f.EventID != nil {
		query += " AND event_id = ?"
		args = append(args, *f.EventID)
	}
	if f.From != nil {
		query += " AND timestamp >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		query += " AND timestamp <= ?"
		args = append(args, *f.To)
	}
	if f.Source != "" {
		query += " AND source = ?"
		args = append(args, f.Source)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select event logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (r *SQLiteRepository) ListByEvent(ctx context.Context, eventID int64, limit int) ([]models.EventLog, error) {
	return r.List(ctx, Filter{EventID: &eventID, Limit: limit})
}
