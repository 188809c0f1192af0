// Package cache stores rendered read responses so repeated catalog and
// dashboard requests skip the database. Entries are raw bytes keyed by string.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached response stays fresh
const DefaultTTL = 5 * time.Minute

// DefaultKeyPrefix namespaces every key this package writes
const DefaultKeyPrefix = "menuhub:cache:"

// ResponseCache is a byte cache with prefix invalidation
type ResponseCache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. A zero ttl uses the cache default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// InvalidatePrefix removes every key starting with prefix. An empty prefix clears everything.
	InvalidatePrefix(ctx context.Context, prefix string) error

	// Close releases resources held by the cache
	Close() error
}
