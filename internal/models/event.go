// Package models defines the domain records exchanged between manager and
// field nodes. JSON tags are camelCase; these are the exact names used for
// dump record lines.
package models

import "time"

// Event statuses. Deletion is a status transition, never a row removal:
// the sync engine must always be able to ship the record to the peer.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// Audit action tags.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionExport = "export"
	ActionImport = "import"
)

// Audit sources: which side of the exchange produced an entry.
const (
	SourceManager = "manager"
	SourceField   = "field"
)

// Event is a unit of work tracked by an organization. Version increases by
// exactly one on every accepted mutation and is the sole source of truth
// for "which side is newer" when timestamps are ambiguous or absent.
//
// Optional fields are pointers: a nil DueDate means "no due date", not
// "unchanged".
type Event struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	StartDate         time.Time  `json:"startDate"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	ControlDate       *time.Time `json:"controlDate,omitempty"`
	Status            string     `json:"status"`
	Description       *string    `json:"description,omitempty"`
	OrganizationID    int64      `json:"organizationId"`
	Location          *string    `json:"location,omitempty"`
	Priority          string     `json:"priority"`
	ResponsiblePerson *string    `json:"responsiblePerson,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
	Version           int64      `json:"version"`
}
