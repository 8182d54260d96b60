// Package services holds the application services behind the node CLIs:
// local event editing, attachment intake, and organization management.
// Every accepted mutation bumps the event version by one and leaves an
// audit entry tagged with the node's source.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/eventsync/eventsync/internal/audit"
	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/cryptox"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/attachments"
	"github.com/eventsync/eventsync/internal/repositories/eventlogs"
	"github.com/eventsync/eventsync/internal/repositories/events"
	"github.com/eventsync/eventsync/internal/storage"
)

// EventService implements local event editing on one node.
type EventService struct {
	events events.Repository
	atts   attachments.Repository
	logs   eventlogs.Repository
	audit  *audit.Service
	store  *storage.FileStore
	logger logging.Logger
	source string
	now    func() time.Time
}

func NewEventService(eventRepo events.Repository, attRepo attachments.Repository,
	logRepo eventlogs.Repository, auditSvc *audit.Service, store *storage.FileStore,
	source string, logger logging.Logger) *EventService {
	return &EventService{
		events: eventRepo,
		atts:   attRepo,
		logs:   logRepo,
		audit:  auditSvc,
		store:  store,
		logger: logger.With("module", "event_service"),
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateEvent inserts a new event at version 1.
func (s *EventService) CreateEvent(ctx context.Context, e *models.Event, userName string) error {
	if e.Title == "" {
		return fmt.Errorf("event title is required")
	}
	if e.Status == "" {
		e.Status = models.StatusPlanned
	}
	e.CreatedAt = s.now()
	e.Version = 1

	if err := s.events.Create(ctx, e); err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return s.audit.Log(ctx, audit.Entry{
		EventID:   e.ID,
		StatusNew: &e.Status,
		UserName:  userName,
		Action:    models.ActionCreate,
		Source:    s.source,
	})
}

// UpdateEvent overwrites mutable fields, bumping the version.
func (s *EventService) UpdateEvent(ctx context.Context, e *models.Event, userName string) error {
	existing, err := s.events.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}

	e.OrganizationID = existing.OrganizationID
	e.CreatedAt = existing.CreatedAt
	e.Version = existing.Version + 1
	ts := s.now()
	e.UpdatedAt = &ts

	if err := s.events.Update(ctx, e); err != nil {
		return fmt.Errorf("updating event %d: %w", e.ID, err)
	}
	return s.audit.Log(ctx, audit.Entry{
		EventID:   e.ID,
		StatusOld: &existing.Status,
		StatusNew: &e.Status,
		UserName:  userName,
		Action:    models.ActionUpdate,
		Source:    s.source,
	})
}

// UpdateStatus transitions only the status.
func (s *EventService) UpdateStatus(ctx context.Context, id int64, status, userName string) error {
	existing, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.events.UpdateStatus(ctx, id, status, s.now()); err != nil {
		return fmt.Errorf("updating event %d status: %w", id, err)
	}
	return s.audit.Log(ctx, audit.Entry{
		EventID:   id,
		StatusOld: &existing.Status,
		StatusNew: &status,
		UserName:  userName,
		Action:    models.ActionUpdate,
		Source:    s.source,
	})
}

// DeleteEvent cancels an event. Rows are never removed: the record has to
// survive so the next dump can carry the transition to the peer.
func (s *EventService) DeleteEvent(ctx context.Context, id int64, userName string) error {
	existing, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	status := models.StatusCancelled
	if err := s.events.UpdateStatus(ctx, id, status, s.now()); err != nil {
		return fmt.Errorf("cancelling event %d: %w", id, err)
	}
	return s.audit.Log(ctx, audit.Entry{
		EventID:   id,
		StatusOld: &existing.Status,
		StatusNew: &status,
		UserName:  userName,
		Action:    models.ActionDelete,
		Source:    s.source,
	})
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, orgID int64, changedSince *time.Time) ([]models.Event, error) {
	return s.events.GetAllByOrganization(ctx, orgID, changedSince)
}

// History returns the audit trail of one event, newest first.
func (s *EventService) History(ctx context.Context, eventID int64, limit int) ([]models.EventLog, error) {
	return s.logs.ListByEvent(ctx, eventID, limit)
}

// AttachFile hashes the source file, copies its bytes into the
// content-addressed store, and records the metadata. Attaching the same
// content to the same event twice is a no-op.
func (s *EventService) AttachFile(ctx context.Context, eventID int64, srcPath, userName string) (*models.FileAttachment, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat source file: %w", err)
	}
	hash, err := cryptox.HashReader(f)
	if err != nil {
		return nil, fmt.Errorf("hash source file: %w", err)
	}

	// Identical content may already be stored for another event.
	stored := ""
	if prev, err := s.atts.GetByHash(ctx, hash); err == nil {
		stored = prev.Filepath
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("attachment lookup: %w", err)
	}
	if stored == "" {
		stored, err = s.store.Put(srcPath, hash)
		if err != nil {
			return nil, err
		}
	}

	att := &models.FileAttachment{
		EventID:   eventID,
		Filename:  info.Name(),
		Hash:      hash,
		Filepath:  stored,
		FileSize:  info.Size(),
		CreatedAt: s.now(),
	}
	if err := s.atts.Insert(ctx, att); err != nil {
		return nil, fmt.Errorf("recording attachment: %w", err)
	}

	if err := s.audit.Log(ctx, audit.Entry{
		EventID:  eventID,
		Comment:  "attached " + att.Filename,
		UserName: userName,
		Action:   models.ActionUpdate,
		Source:   s.source,
	}); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "file attached", "event_id", eventID, "hash", hash, "size", info.Size())
	return att, nil
}
