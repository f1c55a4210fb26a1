// Package cache stores computed route runs so repeated solves of the same
// graph and endpoints skip the engine.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps one JSON file per entry under a directory and backs
//     the CLI.
//   - [RedisCache] shares entries between server replicas.
//   - [NullCache] stores nothing and disables caching.
//
// Keys come from a [Keyer]. The default keyer hashes the graph contents
// together with every option that changes the result, so editing a single
// weight produces a different key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// DefaultTTL is how long a cached run stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// =============================================================================
// Keys
// =============================================================================

// RunKeyOpts holds the run options that take part in the cache key.
type RunKeyOpts struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Limit       int    `json:"limit"`
	Alternative bool   `json:"alternative"`
}

// Keyer generates cache keys.
type Keyer interface {
	// RunKey returns the key of a route run over the graph identified by
	// graphHash.
	RunKey(graphHash string, opts RunKeyOpts) string
}

// DefaultKeyer derives keys by hashing their parts.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RunKey implements Keyer.
func (DefaultKeyer) RunKey(graphHash string, opts RunKeyOpts) string {
	return hashKey("run", graphHash, opts)
}
