// Package cache provides byte-level caching for pipeline results.
//
// Three backends implement the [Cache] interface: [FileCache] for CLI use,
// [RedisCache] for multi-instance deployments, and [NullCache] to disable
// caching. Keys are produced by a [Keyer] that hashes content and options,
// so a changed tree or layout option never serves stale bytes.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached stage. Rows change rarely; layouts and rendered
// artifacts are pure functions of their inputs, so their TTL mostly bounds
// cache size rather than staleness.
const (
	TTLRows     = 5 * time.Minute
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-level cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
