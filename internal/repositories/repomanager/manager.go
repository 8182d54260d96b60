// Package repomanager wires up the per-entity repositories over one
// database handle and runs the embedded goose migrations on open. The
// manager node runs on PostgreSQL, the field node on a local SQLite file;
// both expose the same RepositoryManager surface.
package repomanager

import (
	"database/sql"

	"github.com/eventsync/eventsync/internal/repositories/attachments"
	"github.com/eventsync/eventsync/internal/repositories/eventlogs"
	"github.com/eventsync/eventsync/internal/repositories/events"
	"github.com/eventsync/eventsync/internal/repositories/nonces"
	"github.com/eventsync/eventsync/internal/repositories/organizations"
	"github.com/eventsync/eventsync/internal/repositories/users"
)

// RepositoryManager provides access to every repository plus the raw
// connection for transaction scoping.
type RepositoryManager interface {
	Conn() *sql.DB
	Organizations() organizations.Repository
	Events() events.Repository
	Attachments() attachments.Repository
	EventLogs() eventlogs.Repository
	Nonces() nonces.Repository
	Users() users.Repository
	Close() error
}
