// Package merge implements the conflict resolution engine: it reconciles a
// batch of incoming versioned events against stored state under a
// selectable strategy. Detection and resolution are pure; applying and
// audit logging happen in the engine.
package merge

import (
	"time"

	"github.com/eventsync/eventsync/internal/models"
)

// Conflict field names, as reported in ConflictInfo.Fields.
const (
	FieldStatus      = "status"
	FieldDescription = "description"
	FieldDueDate     = "dueDate"
)

// ConflictInfo describes one detected conflict: which event and which of
// the critical fields disagree. Transient, never persisted.
type ConflictInfo struct {
	EventID     int64
	HasConflict bool
	Fields      []string
}

// DetectConflict flags a conflict only when both sides report the same
// version, both carry an updatedAt, the incoming one is strictly later,
// and at least one critical field differs. An incoming version lower than
// or equal to the existing one is stale by definition and never conflicts.
//
// Equal or missing timestamps at the same version intentionally detect as
// no conflict (the record is then skipped); this boundary is preserved
// from the original system pending product review.
func DetectConflict(existing, incoming *models.Event) ConflictInfo {
	conflict := ConflictInfo{EventID: existing.ID}

	if existing.Version != incoming.Version {
		return conflict
	}
	if existing.UpdatedAt == nil || incoming.UpdatedAt == nil {
		return conflict
	}
	if !existing.UpdatedAt.Before(*incoming.UpdatedAt) {
		return conflict
	}

	if existing.Status != incoming.Status {
		conflict.HasConflict = true
		conflict.Fields = append(conflict.Fields, FieldStatus)
	}
	if !strPtrEqual(existing.Description, incoming.Description) {
		conflict.HasConflict = true
		conflict.Fields = append(conflict.Fields, FieldDescription)
	}
	if !timePtrEqual(existing.DueDate, incoming.DueDate) {
		conflict.HasConflict = true
		conflict.Fields = append(conflict.Fields, FieldDueDate)
	}
	return conflict
}

func (c ConflictInfo) hasField(name string) bool {
	for _, f := range c.Fields {
		if f == name {
			return true
		}
	}
	return false
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
