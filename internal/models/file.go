package models

import "time"

// FileAttachment is a binary object associated with one Event, identified
// by the lowercase hex SHA-256 of its content. Content-addressing makes the
// attachment idempotently re-importable: the same bytes always land under
// the same storage key.
type FileAttachment struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"eventId"`
	Filename  string    `json:"filename"`
	Hash      string    `json:"hash"`
	Filepath  string    `json:"filepath"`
	FileSize  int64     `json:"fileSize"`
	CreatedAt time.Time `json:"createdAt"`
}
