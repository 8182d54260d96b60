// Package attachments persists FileAttachment metadata. Attachment bytes
// live in a content-addressed store directory; rows only carry hashes and
// paths.
package attachments

import (
	"context"

	"github.com/eventsync/eventsync/internal/models"
)

// Repository describes attachment metadata operations.
type Repository interface {
	// Insert stores attachment metadata. Inserting the same (eventID,
	// hash) pair twice is a no-op, which keeps re-imports idempotent.
	Insert(ctx context.Context, a *models.FileAttachment) error

	// GetByEventIDs returns all attachments belonging to the given events.
	GetByEventIDs(ctx context.Context, eventIDs []int64) ([]models.FileAttachment, error)

	// GetByHash returns any stored attachment carrying the hash, or
	// common.ErrNotFound. Used to reuse already stored bytes.
	GetByHash(ctx context.Context, hash string) (*models.FileAttachment, error)
}
