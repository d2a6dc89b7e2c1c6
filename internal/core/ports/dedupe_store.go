package ports

import (
	"context"
	"time"
)

// DedupeStore is the at-most-once index for notification dedupe keys. The TTL
// only needs to outlive the realistic retry window of upstream triggers.
type DedupeStore interface {
	// Reserve atomically claims a key. Returns true when this caller made the
	// claim, false when the key was already reserved.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
