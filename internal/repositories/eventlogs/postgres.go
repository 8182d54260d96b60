package eventlogs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eventsync/eventsync/internal/dbx"
	"github.com/eventsync/eventsync/internal/models"
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

func (r *PostgresRepository) Append(ctx context.Context, entry *models.EventLog) error {
	query := `
		INSERT INTO event_logs (event_id, timestamp, status_old, status_new, comment, user_name, action, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		entry.EventID, entry.Timestamp, entry.StatusOld, entry.StatusNew,
		entry.Comment, entry.UserName, entry.Action, entry.Source,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to append event log: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]models.EventLog, error) {
	query := `
		SELECT id, event_id, timestamp, status_old, status_new, comment, user_name, action, source
		FROM event_logs WHERE 1=1`
	var args []any

	if f.EventID != nil {
		args = append(args, *f.EventID)
		query += fmt.Sprintf(" AND event_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND timestamp >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND timestamp <= $%d", len(args))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY timestamp DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select event logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID int64, limit int) ([]models.EventLog, error) {
	return r.List(ctx, Filter{EventID: &eventID, Limit: limit})
}

func collectLogs(rows *sql.Rows) ([]models.EventLog, error) {
	var result []models.EventLog
	for rows.Next() {
		var entry models.EventLog
		var statusOld, statusNew, comment, userName, source sql.NullString
		if err := rows.Scan(&entry.ID, &entry.EventID, &entry.Timestamp,
			&statusOld, &statusNew, &comment, &userName, &entry.Action, &source); err != nil {
			return nil, err
		}
		if statusOld.Valid {
			entry.StatusOld = &statusOld.String
		}
		if statusNew.Valid {
			entry.StatusNew = &statusNew.String
		}
		if comment.Valid {
			entry.Comment = &comment.String
		}
		if userName.Valid {
			entry.UserName = &userName.String
		}
		entry.Source = source.String
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
