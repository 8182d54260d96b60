package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/eventsync/eventsync/internal/archive"
	"github.com/eventsync/eventsync/internal/audit"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/media"
	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/attachments"
	"github.com/eventsync/eventsync/internal/repositories/nonces"
	"github.com/eventsync/eventsync/internal/storage"
	"github.com/eventsync/eventsync/internal/sync/dump"
	"github.com/eventsync/eventsync/internal/sync/merge"
)

// Service orchestrates dump exchange for one node. Export and import
// report every outcome, including failures, through SyncResult; they do
// not return errors and must never panic across this boundary.
type Service struct {
	codec    *dump.Codec
	engine   *merge.Engine
	nonces   nonces.Repository
	attRepo  attachments.Repository
	audit    *audit.Service
	store    *storage.FileStore
	logger   logging.Logger
	strategy merge.Strategy
	source   string // models.SourceManager or models.SourceField

	mirror  *archive.Mirror
	scanner *media.Scanner
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithMirror enables best-effort artifact uploads to an object store.
func WithMirror(m *archive.Mirror) ServiceOption {
	return func(s *Service) { s.mirror = m }
}

// WithScanner enables removable-media dump discovery.
func WithScanner(sc *media.Scanner) ServiceOption {
	return func(s *Service) { s.scanner = sc }
}

func NewService(codec *dump.Codec, engine *merge.Engine, nonceRepo nonces.Repository,
	attRepo attachments.Repository, auditSvc *audit.Service, store *storage.FileStore,
	strategy merge.Strategy, source string, logger logging.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		codec:    codec,
		engine:   engine,
		nonces:   nonceRepo,
		attRepo:  attRepo,
		audit:    auditSvc,
		store:    store,
		strategy: strategy,
		source:   source,
		logger:   logger.With("module", "sync_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportDump packages the organization's state into outputDir. The audit
// entry and the mirror upload are best-effort: the artifact on disk is the
// deliverable.
func (s *Service) ExportDump(ctx context.Context, orgID int64, outputDir string) (result *SyncResult) {
	defer s.recoverInto(ctx, &result, "export")

	path, err := s.codec.CreateDump(ctx, orgID, outputDir)
	if err != nil {
		s.logger.Error(ctx, "export failed", "org_id", orgID, "error", err)
		return failure(err.Error())
	}

	if err := s.audit.LogSystem(ctx, models.ActionExport, s.source, path); err != nil {
		s.logger.Warn(ctx, "export audit entry failed", "error", err)
	}
	s.mirrorArtifact(ctx, path)

	return &SyncResult{
		Success:   true,
		Message:   "dump created",
		DumpPath:  path,
		Timestamp: time.Now().UTC(),
	}
}

// ImportDump decodes an artifact, rejects replays, merges its events under
// the configured strategy, and absorbs its attachments into the
// content-addressed store. The nonce is marked used only after the merge
// has been applied; a crash in between leaves a retryable state because
// both the merge and the attachment insert are idempotent.
func (s *Service) ImportDump(ctx context.Context, path string, orgID int64) (result *SyncResult) {
	defer s.recoverInto(ctx, &result, "import")

	data, err := s.codec.ImportDump(ctx, path, orgID)
	if err != nil {
		s.logger.Error(ctx, "import failed", "path", path, "error", err)
		return failure(err.Error())
	}
	defer func() {
		if err := data.Close(); err != nil {
			s.logger.Warn(ctx, "staging cleanup failed", "error", err)
		}
	}()

	used, err := s.nonces.IsUsed(ctx, data.Manifest.Nonce)
	if err != nil {
		s.logger.Error(ctx, "nonce lookup failed", "error", err)
		return failure(err.Error())
	}
	if used {
		s.logger.Info(ctx, "dump replay rejected",
			"path", path, "nonce", data.Manifest.Nonce)
		return failure(fmt.Sprintf("dump %s was already imported", data.Manifest.Nonce))
	}

	mergeRes, err := s.engine.MergeEvents(ctx, data.Events, orgID, s.strategy)
	if err != nil {
		s.logger.Error(ctx, "merge aborted", "error", err)
		return failure(err.Error())
	}

	if err := s.absorbAttachments(ctx, data); err != nil {
		s.logger.Error(ctx, "attachment absorb failed", "error", err)
		return failure(err.Error())
	}

	if err := s.nonces.MarkUsed(ctx, data.Manifest.Nonce, orgID, path); err != nil {
		s.logger.Error(ctx, "nonce mark failed", "error", err)
		return failure(err.Error())
	}

	summary := fmt.Sprintf("created %d, updated %d, skipped %d, conflicts %d",
		mergeRes.Created, mergeRes.Updated, mergeRes.Skipped, len(mergeRes.Conflicts))
	if err := s.audit.LogSystem(ctx, models.ActionImport, s.source, summary); err != nil {
		s.logger.Warn(ctx, "import audit entry failed", "error", err)
	}

	return &SyncResult{
		Success:        true,
		Message:        summary,
		DumpPath:       path,
		Timestamp:      time.Now().UTC(),
		EventsCreated:  mergeRes.Created,
		EventsUpdated:  mergeRes.Updated,
		EventsSkipped:  mergeRes.Skipped,
		ConflictsCount: len(mergeRes.Conflicts),
	}
}

// FindCandidateDumps lists dump artifacts present on configured media
// roots.
func (s *Service) FindCandidateDumps(ctx context.Context) ([]string, error) {
	if s.scanner == nil {
		return nil, nil
	}
	return s.scanner.Scan(ctx)
}

// CleanupReplayRegistry trims nonce rows older than the retention window
// and returns the number removed. Run it from maintenance, never from the
// import path: a trimmed nonce becomes replayable.
func (s *Service) CleanupReplayRegistry(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return s.nonces.CleanupOlderThan(ctx, cutoff)
}

// absorbAttachments moves staged bytes into the store and records
// metadata. Both halves tolerate repeats, so a partially absorbed dump can
// be imported again.
func (s *Service) absorbAttachments(ctx context.Context, data *dump.DumpData) error {
	for i := range data.Attachments {
		att := data.Attachments[i]
		stored, err := s.store.Put(data.AttachmentPath(att.Hash), att.Hash)
		if err != nil {
			return fmt.Errorf("attachment %s: %w", att.Hash, err)
		}
		att.ID = 0
		att.Filepath = stored
		if err := s.attRepo.Insert(ctx, &att); err != nil {
			return fmt.Errorf("attachment %s metadata: %w", att.Hash, err)
		}
	}
	return nil
}

func (s *Service) mirrorArtifact(ctx context.Context, path string) {
	if s.mirror == nil {
		return
	}
	if _, err := s.mirror.Upload(ctx, path); err != nil {
		s.logger.Warn(ctx, "mirror upload failed", "path", path, "error", err)
	}
}

func (s *Service) recoverInto(ctx context.Context, result **SyncResult, op string) {
	if r := recover(); r != nil {
		s.logger.Error(ctx, "panic during "+op, "panic", r)
		*result = failure(fmt.Sprintf("internal error during %s: %v", op, r))
	}
}
