// Package nonces is the replay registry: it records every dump nonce this
// node has already merged. Callers check before importing and mark after a
// successful import, in that order, around the merge step.
package nonces

import (
	"context"
	"time"
)

// Repository describes the nonce registry.
type Repository interface {
	// IsUsed reports whether the nonce was already consumed on this node.
	IsUsed(ctx context.Context, nonce string) (bool, error)

	// MarkUsed records the nonce. Marking the same nonce again is a
	// no-op, never an error, so a crash between apply and mark cannot
	// corrupt the registry on retry.
	MarkUsed(ctx context.Context, nonce string, orgID int64, dumpPath string) error

	// CleanupOlderThan deletes registry rows recorded before cutoff and
	// returns the number removed.
	CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
