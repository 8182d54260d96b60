package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetAllByOrganization(ctx context.Context, orgID int64, changedSince *time.Time) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organization_id = ?`
	args := []any{orgID}
	if changedSince != nil {
		query += ` AND updated_at > ?`
		args = append(args, *changedSince)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (title, start_date, due_date, control_date, status, description,
			organization_id, location, priority, responsible_person, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.Title, e.StartDate, e.DueDate, e.ControlDate, e.Status, e.Description,
		e.OrganizationID, e.Location, e.Priority, e.ResponsiblePerson,
		e.CreatedAt, e.UpdatedAt, e.Version)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteRepository) InsertWithID(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (id, title, start_date, due_date, control_date, status, description,
			organization_id, location, priority, responsible_person, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.StartDate, e.DueDate, e.ControlDate, e.Status, e.Description,
		e.OrganizationID, e.Location, e.Priority, e.ResponsiblePerson,
		e.CreatedAt, e.UpdatedAt, e.Version)
	if err != nil {
		return fmt.Errorf("failed to insert event %d: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events
		SET title = ?, start_date = ?, due_date = ?, control_date = ?, status = ?,
			description = ?, location = ?, priority = ?, responsible_person = ?,
			updated_at = ?, version = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.Title, e.StartDate, e.DueDate, e.ControlDate, e.Status,
		e.Description, e.Location, e.Priority, e.ResponsiblePerson,
		e.UpdatedAt, e.Version, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error {
	query := `UPDATE events SET status = ?, updated_at = ?, version = version + 1 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update event %d status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
