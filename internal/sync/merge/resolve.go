package merge

import (
	"fmt"
	"time"

	"github.com/eventsync/eventsync/internal/models"
)

// Strategy selects how a detected conflict is resolved.
type Strategy string

const (
	StrategyServerWins    Strategy = "server_wins"
	StrategyClientWins    Strategy = "client_wins"
	StrategyLastWriteWins Strategy = "last_write_wins"
	StrategyMerge         Strategy = "merge"
	StrategyManual        Strategy = "manual"
)

// ParseStrategy converts a config value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyServerWins, StrategyClientWins, StrategyLastWriteWins, StrategyMerge, StrategyManual:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown conflict strategy %q", s)
	}
}

// Resolution is the outcome of resolving one conflict. When Applied is
// false the stored record is left untouched and the conflict is reported
// back to the caller.
type Resolution struct {
	Applied bool
	Event   *models.Event
	Note    string
}

// Resolve decides the winning state for a conflicting pair. It is pure:
// no repository access, no clock reads beyond the now argument, inputs
// are never mutated.
func Resolve(existing, incoming *models.Event, conflict ConflictInfo, strategy Strategy, now time.Time) Resolution {
	switch strategy {
	case StrategyServerWins:
		return Resolution{Note: "stored version kept"}

	case StrategyClientWins:
		winner := cloneEvent(incoming)
		winner.ID = existing.ID
		winner.OrganizationID = existing.OrganizationID
		winner.CreatedAt = existing.CreatedAt
		winner.Version = existing.Version + 1
		ts := now
		winner.UpdatedAt = &ts
		return Resolution{Applied: true, Event: winner, Note: "incoming change accepted"}

	case StrategyLastWriteWins:
		// Detection already guarantees incoming.UpdatedAt is strictly
		// later, so the newer write is always the incoming one.
		winner := cloneEvent(incoming)
		winner.ID = existing.ID
		winner.OrganizationID = existing.OrganizationID
		winner.CreatedAt = existing.CreatedAt
		winner.Version = existing.Version + 1
		return Resolution{Applied: true, Event: winner, Note: "newer write kept"}

	case StrategyMerge:
		merged := mergeFields(existing, incoming, conflict)
		merged.Version = existing.Version + 1
		ts := now
		merged.UpdatedAt = &ts
		return Resolution{Applied: true, Event: merged, Note: "field-level merge"}

	case StrategyManual:
		return Resolution{Note: "manual resolution required"}
	}
	return Resolution{Note: "unknown strategy, stored version kept"}
}

// mergeFields builds a merged event on top of existing. A critical field
// takes the incoming value only when it was flagged as conflicting, with
// a fall back to existing when the incoming side carries no value. The
// remaining mutable fields prefer incoming whenever it provides one.
func mergeFields(existing, incoming *models.Event, conflict ConflictInfo) *models.Event {
	merged := cloneEvent(existing)

	if conflict.hasField(FieldStatus) {
		merged.Status = incoming.Status
	}
	if conflict.hasField(FieldDescription) {
		if incoming.Description != nil {
			merged.Description = incoming.Description
		}
	}
	if conflict.hasField(FieldDueDate) {
		if incoming.DueDate != nil {
			merged.DueDate = incoming.DueDate
		}
	}

	if incoming.ControlDate != nil {
		merged.ControlDate = incoming.ControlDate
	}
	if incoming.Location != nil {
		merged.Location = incoming.Location
	}
	if incoming.ResponsiblePerson != nil {
		merged.ResponsiblePerson = incoming.ResponsiblePerson
	}
	if incoming.Priority != "" {
		merged.Priority = incoming.Priority
	}
	return merged
}

func cloneEvent(e *models.Event) *models.Event {
	c := *e
	return &c
}
