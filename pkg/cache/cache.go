// Package cache stores rendered diagram artifacts keyed by what produced them.
//
// # Keys
//
// An artifact is a pure function of the compiled DOT source, the output
// format and the engine that rendered it. [Keyer.ArtifactKey] hashes exactly
// those inputs, so an unchanged diagram is never laid out twice while any
// change to labels, styles or structure misses the cache.
//
// # Backends
//
//   - [FileCache]: one file per entry under ~/.cache/archdiagram (CLI default)
//   - [RedisCache]: shared cache for the preview server and CI runners
//   - [NullCache]: caching disabled (--no-cache)
//
// All backends treat a corrupt or expired entry as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLArtifact bounds how long a rendered image is reused. Rendering is
// deterministic, so the limit only keeps the cache from growing forever.
const TTLArtifact = 7 * 24 * time.Hour
