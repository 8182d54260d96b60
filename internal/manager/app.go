// Package manager wires and runs the manager node: PostgreSQL storage,
// the dump exchange services, and the interactive console.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/eventsync/eventsync/internal/archive"
	"github.com/eventsync/eventsync/internal/audit"
	"github.com/eventsync/eventsync/internal/auth"
	"github.com/eventsync/eventsync/internal/cli"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/manager/config"
	"github.com/eventsync/eventsync/internal/media"
	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/repomanager"
	"github.com/eventsync/eventsync/internal/services"
	"github.com/eventsync/eventsync/internal/storage"
	syncsvc "github.com/eventsync/eventsync/internal/sync"
	"github.com/eventsync/eventsync/internal/sync/dump"
	"github.com/eventsync/eventsync/internal/sync/merge"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	console *cli.App
	syncSvc *syncsvc.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	strategy, err := merge.ParseStrategy(c.ConflictStrategy)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := storage.NewFileStore(c.StoreDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.ExportDir, 0o755); err != nil {
		return nil, fmt.Errorf("export dir: %w", err)
	}

	auditSvc := audit.NewService(rm.EventLogs())
	codec := dump.NewCodec(rm.Organizations(), rm.Events(), rm.Attachments(), logger)
	engine := merge.NewEngine(rm.Events(), auditSvc, logger)

	opts := []syncsvc.ServiceOption{
		syncsvc.WithScanner(media.NewScanner(c.MediaRoots, logger)),
	}
	mirrorCfg := archive.Config{
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	}
	if mirrorCfg.Enabled() {
		opts = append(opts, syncsvc.WithMirror(archive.NewMirror(mirrorCfg, logger)))
	}
	sync := syncsvc.NewService(codec, engine, rm.Nonces(), rm.Attachments(),
		auditSvc, store, strategy, models.SourceManager, logger, opts...)

	eventSvc := services.NewEventService(rm.Events(), rm.Attachments(), rm.EventLogs(),
		auditSvc, store, models.SourceManager, logger)
	orgSvc := services.NewOrganizationService(rm.Organizations(), logger)
	authSvc := auth.NewService(rm.Users(), logger)

	console := cli.NewApp(authSvc, eventSvc, orgSvc, sync, c.ExportDir, logger)

	return &App{config: c, logger: logger, repos: rm, console: console, syncSvc: sync}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting manager node")
	app.initSignalHandler(cancelFunc)

	if removed, err := app.syncSvc.CleanupReplayRegistry(ctx, app.config.NonceRetention); err != nil {
		app.logger.Warn(ctx, "replay registry cleanup failed", "error", err)
	} else if removed > 0 {
		app.logger.Info(ctx, "replay registry trimmed", "removed", removed)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancelFunc()
		app.console.Run(ctx)
	}()
	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
}
