// Package audit records who changed what. It is a thin layer over the
// event log repository so callers do not assemble entries by hand.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/eventlogs"
)

// Service writes audit entries.
type Service struct {
	repo eventlogs.Repository
}

func NewService(repo eventlogs.Repository) *Service {
	return &Service{repo: repo}
}

// Entry carries the variable parts of an audit record. Timestamp defaults
// to time.Now().UTC() when zero.
type Entry struct {
	EventID   int64
	StatusOld *string
	StatusNew *string
	Comment   string
	UserName  string
	Action    string
	Source    string
	Timestamp time.Time
}

// Log appends one audit record.
func (s *Service) Log(ctx context.Context, e Entry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	entry := &models.EventLog{
		EventID:   e.EventID,
		Timestamp: ts,
		StatusOld: e.StatusOld,
		StatusNew: e.StatusNew,
		Action:    e.Action,
		Source:    e.Source,
	}
	if e.Comment != "" {
		entry.Comment = &e.Comment
	}
	if e.UserName != "" {
		entry.UserName = &e.UserName
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// LogSystem appends a node-level entry not tied to a single event, such
// as a dump export or import.
func (s *Service) LogSystem(ctx context.Context, action, source, comment string) error {
	return s.Log(ctx, Entry{
		EventID: models.SystemEventID,
		Action:  action,
		Source:  source,
		Comment: comment,
	})
}
