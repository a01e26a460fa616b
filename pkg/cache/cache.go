// Package cache stores raw repository responses between runs.
//
// Checking a catalog issues one metadata request per dependency and
// repository, so repeated runs are dominated by identical requests. The
// [Cache] interface lets the HTTP layer keep response bodies in a local
// directory ([FileCache]), a shared Redis instance ([RedisCache]), or nowhere
// at all ([NullCache]).
//
// A [FileCache] entry that cannot be decoded is reported as [ErrCorrupted]
// rather than silently dropped; the CLI turns that into a fatal error that
// asks the user to clear the cache.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Cache interface {
	// Get returns the stored bytes for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
