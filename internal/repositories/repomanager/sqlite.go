package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	sqlitemigrations "github.com/eventsync/eventsync/internal/migrations/sqlite"
	"github.com/eventsync/eventsync/internal/repositories/attachments"
	"github.com/eventsync/eventsync/internal/repositories/eventlogs"
	"github.com/eventsync/eventsync/internal/repositories/events"
	"github.com/eventsync/eventsync/internal/repositories/nonces"
	"github.com/eventsync/eventsync/internal/repositories/organizations"
	"github.com/eventsync/eventsync/internal/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager implements RepositoryManager for the field node.
type SQLiteRepositoryManager struct {
	db            *sql.DB
	organizations organizations.Repository
	events        events.Repository
	attachments   attachments.Repository
	eventLogs     eventlogs.Repository
	nonces        nonces.Repository
	users         users.Repository
}

// NewSQLiteRepositoryManager opens (or creates) the local database file,
// applies the embedded migrations, and binds the repositories.
func NewSQLiteRepositoryManager(ctx context.Context, dsn string) (*SQLiteRepositoryManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(sqlitemigrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("goose dialect error: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &SQLiteRepositoryManager{
		db:            db,
		organizations: organizations.NewSQLiteRepository(db),
		events:        events.NewSQLiteRepository(db),
		attachments:   attachments.NewSQLiteRepository(db),
		eventLogs:     eventlogs.NewSQLiteRepository(db),
		nonces:        nonces.NewSQLiteRepository(db),
		users:         users.NewSQLiteRepository(db),
	}, nil
}

func (m *SQLiteRepositoryManager) Conn() *sql.DB { return m.db }

func (m *SQLiteRepositoryManager) Organizations() organizations.Repository {
	return m.organizations
}

func (m *SQLiteRepositoryManager) Events() events.Repository { return m.events }

func (m *SQLiteRepositoryManager) Attachments() attachments.Repository { return m.attachments }

func (m *SQLiteRepositoryManager) EventLogs() eventlogs.Repository { return m.eventLogs }

func (m *SQLiteRepositoryManager) Nonces() nonces.Repository { return m.nonces }

func (m *SQLiteRepositoryManager) Users() users.Repository { return m.users }

func (m *SQLiteRepositoryManager) Close() error { return m.db.Close() }
