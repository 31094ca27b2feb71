// Package store defines the key-value capability memocache caches into.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the []byte previously passed to Set for a key. Keys are opaque strings; the
// engine owns everything under its configured prefix and callers should not
// write other data there.
package store

import (
	"context"
	"time"
)

// Store is a minimal byte store with TTLs and prefix listing.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. ttl > 0 sets an expiry, ttl <= 0 stores without one.
	// Returns ok=false when the store refused the write (e.g. admission under pressure).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del removes keys in one operation and reports how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Keys lists every key starting with prefix. An empty prefix lists the whole store.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
