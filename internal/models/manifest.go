package models

import "time"

// ManifestVersion is the dump schema version written into new manifests.
const ManifestVersion = "1.0"

// DumpManifest describes one dump artifact. Keys are lower snake case on
// the wire. Checksum must be recomputed and matched before any
// manifest-declared data is trusted; Nonce must never repeat for a given
// organization across imports.
type DumpManifest struct {
	Version        string    `json:"version"`
	OrganizationID int64     `json:"organization_id"`
	Timestamp      time.Time `json:"timestamp"`
	Nonce          string    `json:"nonce"`
	EventsCount    int       `json:"events_count"`
	FilesCount     int       `json:"files_count"`
	Checksum       string    `json:"checksum"`
	Signature      string    `json:"signature,omitempty"`
}
