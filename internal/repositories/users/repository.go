// Package users persists local node logins.
package users

import (
	"context"

	"github.com/eventsync/eventsync/internal/models"
)

// Repository describes user storage operations.
type Repository interface {
	// Create inserts a user and sets its assigned ID. The login column is
	// unique; callers check availability with GetByLogin first.
	Create(ctx context.Context, u *models.User) error

	// GetByLogin returns a user or common.ErrNotFound.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}
