package models

import "time"

// Organization is the synchronization boundary. Every dump is produced for
// exactly one organization and sealed with its EncryptionKey (raw AES-256
// key bytes, provisioned out of band).
type Organization struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Inn           string     `json:"inn"`
	Address       *string    `json:"address,omitempty"`
	ContactPerson *string    `json:"contactPerson,omitempty"`
	EncryptionKey []byte     `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}
