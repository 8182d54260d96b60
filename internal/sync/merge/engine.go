package merge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventsync/eventsync/internal/audit"
	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/events"
)

// MergeResult accounts for every record of a merged batch:
// Created + Updated + Skipped == len(batch). Conflicts lists the records
// that hit the detection boundary; an unresolved conflict is also counted
// as Skipped.
type MergeResult struct {
	Created   int
	Updated   int
	Skipped   int
	Conflicts []ConflictInfo
}

// Engine applies incoming event batches to local storage.
type Engine struct {
	events events.Repository
	audit  *audit.Service
	logger logging.Logger
	now    func() time.Time
}

func NewEngine(eventRepo events.Repository, auditSvc *audit.Service, logger logging.Logger) *Engine {
	return &Engine{
		events: eventRepo,
		audit:  auditSvc,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// MergeEvents reconciles incoming against stored state under the given
// strategy. Unknown records are inserted keeping their incoming id, so
// merging the same batch twice reports the second pass as skips. A
// repository failure aborts the merge; records already applied stay
// applied.
func (e *Engine) MergeEvents(ctx context.Context, incoming []models.Event, orgID int64, strategy Strategy) (*MergeResult, error) {
	result := &MergeResult{}

	for i := range incoming {
		rec := incoming[i]
		rec.OrganizationID = orgID

		existing, err := e.events.GetByID(ctx, rec.ID)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				return result, fmt.Errorf("loading event %d: %w", rec.ID, err)
			}
			if err := e.createEvent(ctx, &rec); err != nil {
				return result, err
			}
			result.Created++
			continue
		}

		conflict := DetectConflict(existing, &rec)
		if conflict.HasConflict {
			res := Resolve(existing, &rec, conflict, strategy, e.now())
			result.Conflicts = append(result.Conflicts, conflict)
			if !res.Applied {
				e.logger.Info(ctx, "conflict left unresolved",
					"eventID", existing.ID, "strategy", string(strategy), "fields", conflict.Fields)
				result.Skipped++
				continue
			}
			if err := e.applyUpdate(ctx, existing, res.Event, "conflict resolved: "+res.Note); err != nil {
				return result, err
			}
			result.Updated++
			continue
		}

		if rec.Version > existing.Version {
			upd := rec
			upd.OrganizationID = existing.OrganizationID
			upd.CreatedAt = existing.CreatedAt
			if err := e.applyUpdate(ctx, existing, &upd, "updated from dump"); err != nil {
				return result, err
			}
			result.Updated++
			continue
		}

		result.Skipped++
	}

	e.logger.Info(ctx, "merge finished",
		"created", result.Created, "updated", result.Updated,
		"skipped", result.Skipped, "conflicts", len(result.Conflicts))
	return result, nil
}

func (e *Engine) createEvent(ctx context.Context, rec *models.Event) error {
	if err := e.events.InsertWithID(ctx, rec); err != nil {
		return fmt.Errorf("inserting event %d: %w", rec.ID, err)
	}
	return e.audit.Log(ctx, audit.Entry{
		EventID:   rec.ID,
		StatusNew: &rec.Status,
		Comment:   "created from dump",
		Action:    models.ActionCreate,
		Source:    models.SourceField,
	})
}

func (e *Engine) applyUpdate(ctx context.Context, existing, next *models.Event, comment string) error {
	if err := e.events.Update(ctx, next); err != nil {
		return fmt.Errorf("updating event %d: %w", next.ID, err)
	}
	return e.audit.Log(ctx, audit.Entry{
		EventID:   next.ID,
		StatusOld: &existing.Status,
		StatusNew: &next.Status,
		Comment:   comment,
		Action:    models.ActionUpdate,
		Source:    models.SourceField,
	})
}
