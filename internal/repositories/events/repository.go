// Package events persists Event rows and the sync queries over them.
package events

import (
	"context"
	"time"

	"github.com/eventsync/eventsync/internal/models"
)

// Repository describes event storage operations used by local editing and
// by the conflict resolution engine.
type Repository interface {
	// GetByID returns an event or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Event, error)

	// GetAllByOrganization returns the organization's events. When
	// changedSince is non-nil only events updated strictly after it are
	// returned.
	GetAllByOrganization(ctx context.Context, orgID int64, changedSince *time.Time) ([]models.Event, error)

	// Create inserts a locally authored event and sets its assigned ID.
	Create(ctx context.Context, e *models.Event) error

	// InsertWithID inserts an event keeping its incoming identifier.
	// Used when a merge accepts a record this node has never seen; the id
	// must survive so re-merging the same batch degenerates to a skip.
	InsertWithID(ctx context.Context, e *models.Event) error

	// Update overwrites all mutable fields of the row identified by e.ID.
	Update(ctx context.Context, e *models.Event) error

	// UpdateStatus sets only the status, stamping updatedAt and bumping
	// version by one in the same statement.
	UpdateStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error
}
