package organizations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eventsync/eventsync/internal/common"
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

func (r *PostgresRepository) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name, inn, address, contact_person, encryption_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		org.Name, org.Inn, org.Address, org.ContactPerson, org.EncryptionKey, org.CreatedAt,
	).Scan(&org.ID)
	if err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	query := `
		SELECT id, name, inn, address, contact_person, encryption_key, created_at, updated_at
		FROM organizations WHERE id = $1`
	return scanOrg(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByInn(ctx context.Context, inn string) (*models.Organization, error) {
	query := `
		SELECT id, name, inn, address, contact_person, encryption_key, created_at, updated_at
		FROM organizations WHERE inn = $1`
	return scanOrg(r.db.QueryRowContext(ctx, query, inn))
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Organization, error) {
	query := `
		SELECT id, name, inn, address, contact_person, encryption_key, created_at, updated_at
		FROM organizations ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select organizations: %w", err)
	}
	defer rows.Close()

	var result []models.Organization
	for rows.Next() {
		org, err := scanOrgRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrgRow(row rowScanner) (*models.Organization, error) {
	org := &models.Organization{}
	var address, contact sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&org.ID, &org.Name, &org.Inn, &address, &contact,
		&org.EncryptionKey, &org.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if address.Valid {
		org.Address = &address.String
	}
	if contact.Valid {
		org.ContactPerson = &contact.String
	}
	if updatedAt.Valid {
		org.UpdatedAt = &updatedAt.Time
	}
	return org, nil
}

func scanOrg(row *sql.Row) (*models.Organization, error) {
	org, err := scanOrgRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return org, nil
}
