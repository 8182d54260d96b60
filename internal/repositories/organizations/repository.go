// Package organizations persists Organization rows, including the per-org
// dump encryption key.
package organizations

import (
	"context"

	"github.com/eventsync/eventsync/internal/models"
)

// Repository describes organization storage operations.
type Repository interface {
	// Create inserts a new organization and sets its assigned ID.
	Create(ctx context.Context, org *models.Organization) error

	// GetByID returns an organization or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Organization, error)

	// GetByInn returns an organization by its tax number or common.ErrNotFound.
	GetByInn(ctx context.Context, inn string) (*models.Organization, error)

	// List returns all organizations ordered by name.
	List(ctx context.Context) ([]models.Organization, error)
}
