// Package cache provides pluggable byte caches for rendered cloud artifacts.
//
// The HTTP server memoizes rendered PNG/SVG/JSON artifacts keyed by a hash of
// the layout request, so repeated requests for the same cloud skip the
// placement engine entirely. Backends:
//
//   - FileCache: directory-backed, for single-host CLI and server use
//   - RedisCache: shared cache for multi-instance deployments
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKey builds the cache key for a rendered artifact: requestHash is
// the sha256 of the canonical layout request, format the output format
// ("png", "svg", "json").
func ArtifactKey(requestHash, format string) string {
	return hashKey("artifact", requestHash, format)
}
