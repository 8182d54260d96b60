package models

import "time"

// SystemEventID is the reserved event id for audit entries describing
// node-level operations (export/import) not tied to a single event.
const SystemEventID int64 = 0

// EventLog is an append-only audit entry. Rows are never mutated after
// insert.
type EventLog struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	StatusOld *string   `json:"statusOld,omitempty"`
	StatusNew *string   `json:"statusNew,omitempty"`
	Comment   *string   `json:"comment,omitempty"`
	UserName  *string   `json:"userName,omitempty"`
	Action    string    `json:"action"`
	Source    string    `json:"source"`
}
