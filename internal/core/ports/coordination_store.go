package ports

import (
	"context"
	"time"
)

// Keys shared between the sweep job and the handlers that must observe the
// sweep's progress.
const (
	// SweepRunningKey holds "true" while a sweep pass is in flight.
	SweepRunningKey = "dispatch:sweep:running"

	// SweepFinishedAtKey holds the RFC3339 time the last sweep pass ended.
	SweepFinishedAtKey = "dispatch:sweep:finished_at"
)

// CoordinationStore is a small shared key/value surface used to coordinate
// job instances across processes: the sweep's running flag and its
// finished-at cursor live here.
type CoordinationStore interface {
	// Get returns the value for a key; found is false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes a key. A zero ttl means the key does not expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// CompareAndSwap writes newValue only when the key currently holds
	// oldValue, atomically. An absent key matches an empty oldValue. It
	// reports whether the swap happened.
	CompareAndSwap(ctx context.Context, key, oldValue, newValue string,
		ttl time.Duration) (bool, error)
}
