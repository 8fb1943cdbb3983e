// Package cache provides a small otter-backed read-through cache in
// front of the identifier-keyed query operations (refs, signature,
// callgraph, impact) that are commonly re-queried for the same symbol
// within one agent session, mirroring the otter file cache an
// internal/graph/searcher.go style component keeps for its own lookups,
// rehomed here for name/ident lookups instead of file-line lookups.
package cache

import (
	"fmt"

	"github.com/maypok86/otter"
)

// DefaultCapacity bounds the number of cached entries per Cache[V].
const DefaultCapacity = 2000

// Cache is a generic read-through cache keyed by identifier (symbol or
// path) for one query operation's result type.
type Cache[V any] struct {
	c otter.Cache[string, V]
}

// New builds a Cache with weight-based eviction, each entry costed
// uniformly at 1 so capacity reads directly as an entry-count limit
// rather than a byte budget.
func New[V any](capacity int) (*Cache[V], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c, err := otter.MustBuilder[string, V](capacity).
		Cost(func(key string, value V) uint32 { return 1 }).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}
	return &Cache[V]{c: c}, nil
}

// Get returns the cached value for key, if present.
func (ch *Cache[V]) Get(key string) (V, bool) {
	return ch.c.Get(key)
}

// Set stores value for key.
func (ch *Cache[V]) Set(key string, value V) {
	ch.c.Set(key, value)
}

// Invalidate drops every cached entry. Called after a re-index changes
// the underlying refs/chunks tables, since a stale callgraph or refs
// answer is worse than a cache miss.
func (ch *Cache[V]) Invalidate() {
	ch.c.Clear()
}

// Close releases the cache's background eviction goroutine.
func (ch *Cache[V]) Close() {
	ch.c.Close()
}
