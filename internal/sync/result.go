// Package sync drives the exchange cycle: exporting one organization's
// state as an encrypted dump and importing a peer's dump through the
// replay registry, the codec, and the conflict resolution engine.
package sync

import "time"

// SyncResult is the outcome envelope every exchange operation returns.
// Failures travel inside it: Success is false and ErrorMessage is set, but
// the operation itself returns a nil error unless the caller misused it.
type SyncResult struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	DumpPath     string    `json:"dumpPath,omitempty"`
	Timestamp    time.Time `json:"timestamp"`

	EventsCreated  int `json:"eventsCreated"`
	EventsUpdated  int `json:"eventsUpdated"`
	EventsSkipped  int `json:"eventsSkipped"`
	ConflictsCount int `json:"conflictsCount"`
}

func failure(msg string) *SyncResult {
	return &SyncResult{
		Success:      false,
		ErrorMessage: msg,
		Timestamp:    time.Now().UTC(),
	}
}
