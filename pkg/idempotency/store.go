package idempotency

import (
	"context"
	"time"
)

// Store is the distributed lock + dedupe-set backing dispatch idempotency.
// All operations are atomic set-if-not-exists style primitives so they remain
// correct under concurrent access from multiple workers.
type Store interface {
	// AcquireLock attempts to take the dispatch lock for a key. It returns a
	// release token and true on success, or false when another holder has it.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)

	// ReleaseLock releases the lock identified by key if token still owns it.
	// Releasing an expired or foreign lock is a no-op, not an error.
	ReleaseLock(ctx context.Context, key string, token string) error

	// MarkSent atomically records that the dispatch happened. It returns
	// false when the marker already existed, i.e. a duplicate.
	MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// WasSent reports whether the dispatch marker exists.
	WasSent(ctx context.Context, key string) (bool, error)
}
