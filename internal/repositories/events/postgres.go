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

const eventColumns = `id, title, start_date, due_date, control_date, status, description,
	organization_id, location, priority, responsible_person, created_at, updated_at, version`

// PostgresRepository implements Repository over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) GetAllByOrganization(ctx context.Context, orgID int64, changedSince *time.Time) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organization_id = $1`
	args := []any{orgID}
	if changedSince != nil {
		query += ` AND updated_at > $2`
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

func (r *PostgresRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (title, start_date, due_date, control_date, status, description,
			organization_id, location, priority, responsible_person, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		e.Title, e.StartDate, e.DueDate, e.ControlDate, e.Status, e.Description,
		e.OrganizationID, e.Location, e.Priority, e.ResponsiblePerson,
		e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertWithID(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (id, title, start_date, due_date, control_date, status, description,
			organization_id, location, priority, responsible_person, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.StartDate, e.DueDate, e.ControlDate, e.Status, e.Description,
		e.OrganizationID, e.Location, e.Priority, e.ResponsiblePerson,
		e.CreatedAt, e.UpdatedAt, e.Version)
	if err != nil {
		return fmt.Errorf("failed to insert event %d: %w", e.ID, err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events
		SET title = $2, start_date = $3, due_date = $4, control_date = $5, status = $6,
			description = $7, location = $8, priority = $9, responsible_person = $10,
			updated_at = $11, version = $12
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.StartDate, e.DueDate, e.ControlDate, e.Status,
		e.Description, e.Location, e.Priority, e.ResponsiblePerson,
		e.UpdatedAt, e.Version)
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

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error {
	query := `UPDATE events SET status = $2, updated_at = $3, version = version + 1 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, updatedAt)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	e := &models.Event{}
	var dueDate, controlDate, updatedAt sql.NullTime
	var description, location, responsible sql.NullString
	if err := row.Scan(&e.ID, &e.Title, &e.StartDate, &dueDate, &controlDate,
		&e.Status, &description, &e.OrganizationID, &location, &e.Priority,
		&responsible, &e.CreatedAt, &updatedAt, &e.Version); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		e.DueDate = &dueDate.Time
	}
	if controlDate.Valid {
		e.ControlDate = &controlDate.Time
	}
	if updatedAt.Valid {
		e.UpdatedAt = &updatedAt.Time
	}
	if description.Valid {
		e.Description = &description.String
	}
	if location.Valid {
		e.Location = &location.String
	}
	if responsible.Valid {
		e.ResponsiblePerson = &responsible.String
	}
	return e, nil
}
