package organizations

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

func (r *SQLiteRepository) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name, inn, address, contact_person, encryption_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		org.Name, org.Inn, org.Address, org.ContactPerson, org.EncryptionKey, org.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	org.ID = id
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	query := `
		SELECT id, name, inn, address, contact_person, encryption_key, created_at, updated_at
		FROM organizations WHERE id = ?`
	return scanOrg(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetByInn(ctx context.Context, inn string) (*models.Organization, error) {
	query := `
		SELECT id, name, inn, address, contact_person, encryption_key, created_at, updated_at
		FROM organizations WHERE inn = ?`
	return scanOrg(r.db.QueryRowContext(ctx, query, inn))
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Organization, error) {
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
