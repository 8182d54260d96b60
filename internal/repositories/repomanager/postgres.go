package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	pgmigrations "github.com/eventsync/eventsync/internal/migrations/postgres"
	"github.com/eventsync/eventsync/internal/repositories/attachments"
	"github.com/eventsync/eventsync/internal/repositories/eventlogs"
	"github.com/eventsync/eventsync/internal/repositories/events"
	"github.com/eventsync/eventsync/internal/repositories/nonces"
	"github.com/eventsync/eventsync/internal/repositories/organizations"
	"github.com/eventsync/eventsync/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager implements RepositoryManager for the manager
// node.
type PostgresRepositoryManager struct {
	db            *sql.DB
	organizations organizations.Repository
	events        events.Repository
	attachments   attachments.Repository
	eventLogs     eventlogs.Repository
	nonces        nonces.Repository
	users         users.Repository
}

// NewPostgresRepositoryManager opens the pgx connection, applies the
// embedded migrations, and binds the repositories.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(pgmigrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose dialect error: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &PostgresRepositoryManager{
		db:            db,
		organizations: organizations.NewPostgresRepository(db),
		events:        events.NewPostgresRepository(db),
		attachments:   attachments.NewPostgresRepository(db),
		eventLogs:     eventlogs.NewPostgresRepository(db),
		nonces:        nonces.NewPostgresRepository(db),
		users:         users.NewPostgresRepository(db),
	}, nil
}

func (m *PostgresRepositoryManager) Conn() *sql.DB { return m.db }

func (m *PostgresRepositoryManager) Organizations() organizations.Repository {
	return m.organizations
}

func (m *PostgresRepositoryManager) Events() events.Repository { return m.events }

func (m *PostgresRepositoryManager) Attachments() attachments.Repository { return m.attachments }

func (m *PostgresRepositoryManager) EventLogs() eventlogs.Repository { return m.eventLogs }

func (m *PostgresRepositoryManager) Nonces() nonces.Repository { return m.nonces }

func (m *PostgresRepositoryManager) Users() users.Repository { return m.users }

func (m *PostgresRepositoryManager) Close() error { return m.db.Close() }
