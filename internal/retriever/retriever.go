// Package retriever turns a free-text question into the stored content
// items most relevant to it. It embeds the query (through the query
// cache), runs a nearest-neighbor search against the vector store, and
// resolves the resulting ids back to items.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"github.com/docsift/docsift/internal/ai"
	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/logger"
	"github.com/docsift/docsift/internal/vectorstore"
)

// ErrEmbeddingUnavailable wraps failures to obtain a query embedding
// from the provider. Callers can distinguish "the model is unreachable"
// from search or store errors.
var ErrEmbeddingUnavailable = errors.New("query embedding unavailable")

// Result is one retrieved item with its distance from the query.
// Smaller distance means more similar.
type Result struct {
	ID       uint64
	Item     *content.Item
	Distance float32
}

// Retriever binds together the store, the query cache and the
// embedding provider for one loaded knowledge base.
type Retriever struct {
	store    *vectorstore.Store
	cache    *vectorstore.QueryCache
	embedder ai.Embedder
	log      *logger.Logger
}

// New creates a retriever over the given store and cache.
func New(store *vectorstore.Store, cache *vectorstore.QueryCache, embedder ai.Embedder, log *logger.Logger) *Retriever {
	if log == nil {
		log = logger.NewWithCallback("retriever", nil)
	}
	return &Retriever{
		store:    store,
		cache:    cache,
		embedder: embedder,
		log:      log,
	}
}

// Retrieve returns the k stored items closest to the query, best
// first. The query embedding is served from the cache when present;
// otherwise it is computed once and cached. A k of zero or less, or an
// empty store, yields an empty slice.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	vector, err := r.cache.GetOrCompute(ctx, query, func(ctx context.Context, q string) ([]float32, error) {
		return r.embedder.Embed(ctx, &ai.EmbeddingInput{Text: q})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	hits, err := r.store.Search(vector, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		item, ok := r.store.Get(hit.ID)
		if !ok {
			// Should not happen while the store invariant holds, but a
			// missing item must not sink the whole retrieval.
			r.log.Warn("search hit has no stored item", logger.ItemID(hit.ID))
			continue
		}
		results = append(results, Result{ID: hit.ID, Item: item, Distance: hit.Distance})
	}

	r.log.Debug("retrieved results",
		logger.Query(query),
		logger.Count(len(results)),
		logger.F("k", k))
	return results, nil
}

// Store exposes the underlying vector store.
func (r *Retriever) Store() *vectorstore.Store {
	return r.store
}

// Cache exposes the query cache, mainly for persistence and status.
func (r *Retriever) Cache() *vectorstore.QueryCache {
	return r.cache
}
