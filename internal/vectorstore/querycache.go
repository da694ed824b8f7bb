package vectorstore

import (
	"context"
)

// EmbedFunc computes the embedding for a query string.
type EmbedFunc func(ctx context.Context, query string) ([]float32, error)

// QueryCache memoizes query embeddings keyed by the exact query
// string, avoiding redundant calls to the remote embedding service on
// repeated queries. It is a pure performance optimization: losing the
// cache is always safe.
type QueryCache struct {
	entries map[string][]float32
}

// NewQueryCache creates an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string][]float32)}
}

// RestoreQueryCache rebuilds a cache from persisted entries. A nil map
// yields an empty cache.
func RestoreQueryCache(entries map[string][]float32) *QueryCache {
	if entries == nil {
		entries = make(map[string][]float32)
	}
	return &QueryCache{entries: entries}
}

// GetOrCompute returns the cached embedding for query, or invokes
// compute and stores the result on success. If compute fails the cache
// is left unchanged and the error propagates, so the next call retries
// rather than seeing a poisoned entry. The caller is responsible for
// persisting the mutation; the cache never autosaves.
func (c *QueryCache) GetOrCompute(ctx context.Context, query string, compute EmbedFunc) ([]float32, error) {
	if vector, ok := c.entries[query]; ok {
		return vector, nil
	}

	vector, err := compute(ctx, query)
	if err != nil {
		return nil, err
	}

	c.entries[query] = vector
	return vector, nil
}

// Get returns the cached embedding for query without computing.
func (c *QueryCache) Get(query string) ([]float32, bool) {
	vector, ok := c.entries[query]
	return vector, ok
}

// Len returns the number of cached queries.
func (c *QueryCache) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the cache contents for persistence.
func (c *QueryCache) Entries() map[string][]float32 {
	entries := make(map[string][]float32, len(c.entries))
	for query, vector := range c.entries {
		entries[query] = vector
	}
	return entries
}

// Clear drops all cached embeddings.
func (c *QueryCache) Clear() {
	c.entries = make(map[string][]float32)
}
