// Package common defines shared constants and sentinel errors used across
// manager and field layers of EventSync. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Dump pipeline errors. Decryption and integrity failures are fatal to
	// the whole import; parse errors are collected per line.
	ErrDecryption    = errors.New("decryption failed")
	ErrMalformedDump = errors.New("malformed dump")
	ErrIntegrity     = errors.New("integrity check failed")
	ErrParse         = errors.New("unreadable record line")

	// ErrNonceReused marks an artifact whose manifest nonce was already
	// consumed for this node. The dump must not be merged again.
	ErrNonceReused = errors.New("dump nonce already used")

	// ErrConflictUnresolved reports a conflict the active strategy declined
	// to apply. Not a system fault.
	ErrConflictUnresolved = errors.New("conflict left unresolved")

	// Auth errors (local node logins).
	ErrUnauthorized = errors.New("unauthorized")
	ErrLoginTaken   = errors.New("login already exists")
)
