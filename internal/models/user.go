package models

import "time"

// User is a local node login. Credentials never leave the node; there is
// no remote party to authenticate against.
type User struct {
	ID           int64
	Login        string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}
