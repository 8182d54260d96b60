// Package eventlogs persists the append-only audit trail. Entries are
// written by the conflict resolution engine and the sync orchestrator and
// are never mutated after insert.
package eventlogs

import (
	"context"
	"time"

	"github.com/eventsync/eventsync/internal/models"
)

// Filter narrows List results. Nil/zero fields are ignored.
type Filter struct {
	EventID *int64
	From    *time.Time
	To      *time.Time
	Source  string
	Limit   int
}

// DefaultLimit caps List results when the filter does not set one.
const DefaultLimit = 1000

// Repository describes audit log operations.
type Repository interface {
	// Append inserts one log entry and sets its assigned ID.
	Append(ctx context.Context, entry *models.EventLog) error

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]models.EventLog, error)

	// ListByEvent returns up to limit entries for one event, newest first.
	ListByEvent(ctx context.Context, eventID int64, limit int) ([]models.EventLog, error)
}
