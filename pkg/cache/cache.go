// Package cache provides pluggable response caching for the GitHub client.
//
// Two real backends are available: a file-based cache for plain CLI usage
// and a Redis-backed cache for shared environments. NullCache disables
// caching entirely. All backends store opaque byte payloads under string
// keys with a per-entry TTL.
package cache

import (
	"context"
	"time"
)

// Cache is the storage contract shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
