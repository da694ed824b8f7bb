// Package snapshot persists the retrieval state triple - vector index,
// content items, query-embedding cache - as a directory of JSON
// artifacts, and restores it on startup.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/vectorstore"
)

// Artifact names inside the snapshot directory.
const (
	IndexFile      = "index.json"
	ItemsFile      = "items.json"
	QueryCacheFile = "query_cache.json"
)

// ErrCorrupted indicates persisted artifacts exist but are unreadable
// or mutually inconsistent. The recommended recovery is an explicit
// ClearAll followed by re-ingestion; the loader never repairs silently.
var ErrCorrupted = errors.New("snapshot corrupted")

// Manager reads and writes one snapshot directory.
type Manager struct {
	dir string
	dim int
}

// NewManager creates a manager for the snapshot at dir, producing
// fresh indexes of the given embedding dimension when nothing is
// persisted yet.
func NewManager(dir string, dim int) *Manager {
	return &Manager{dir: dir, dim: dim}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}

type indexDoc struct {
	Dimension int         `json:"dimension"`
	IDs       []uint64    `json:"ids"`
	Vectors   [][]float32 `json:"vectors"`
}

type itemRecord struct {
	ID   uint64        `json:"id"`
	Item *content.Item `json:"item"`
}

// Load restores the persisted store and query cache. With no artifacts
// present it returns a fresh empty store at the configured dimension
// and an empty cache. Index and items are required together; one
// without the other is corruption. A missing cache file alone loads as
// an empty cache, since the cache is a performance optimization, not
// authoritative state.
func (m *Manager) Load() (*vectorstore.Store, *vectorstore.QueryCache, error) {
	indexPath := filepath.Join(m.dir, IndexFile)
	itemsPath := filepath.Join(m.dir, ItemsFile)

	indexExists := fileExists(indexPath)
	itemsExists := fileExists(itemsPath)

	switch {
	case !indexExists && !itemsExists:
		store, err := vectorstore.NewStore(m.dim)
		if err != nil {
			return nil, nil, err
		}
		cache, err := m.loadCache()
		if err != nil {
			return nil, nil, err
		}
		return store, cache, nil
	case indexExists != itemsExists:
		return nil, nil, fmt.Errorf("%w: index and item artifacts must exist together (index=%v, items=%v)",
			ErrCorrupted, indexExists, itemsExists)
	}

	var doc indexDoc
	if err := readJSON(indexPath, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if doc.Dimension != m.dim {
		return nil, nil, fmt.Errorf("%w: index dimension %d does not match configured %d",
			ErrCorrupted, doc.Dimension, m.dim)
	}

	index, err := vectorstore.RestoreFlatIndex(doc.Dimension, doc.IDs, doc.Vectors)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	var records []itemRecord
	if err := readJSON(itemsPath, &records); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	items := make(map[uint64]*content.Item, len(records))
	for _, rec := range records {
		if rec.Item == nil {
			return nil, nil, fmt.Errorf("%w: item record %d has no item", ErrCorrupted, rec.ID)
		}
		items[rec.ID] = rec.Item
	}

	store, err := vectorstore.RestoreStore(index, items)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	cache, err := m.loadCache()
	if err != nil {
		return nil, nil, err
	}
	return store, cache, nil
}

func (m *Manager) loadCache() (*vectorstore.QueryCache, error) {
	cachePath := filepath.Join(m.dir, QueryCacheFile)
	if !fileExists(cachePath) {
		return vectorstore.NewQueryCache(), nil
	}

	var entries map[string][]float32
	if err := readJSON(cachePath, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return vectorstore.RestoreQueryCache(entries), nil
}

// Save writes all three artifacts, creating the snapshot directory if
// absent. Items and index are written before Save reports success so a
// later Load never sees one without the other; each artifact is
// written to a temp file and renamed into place.
func (m *Manager) Save(store *vectorstore.Store, cache *vectorstore.QueryCache) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	index := store.Index()
	doc := indexDoc{
		Dimension: index.Dimension(),
		IDs:       index.IDs(),
		Vectors:   index.Vectors(),
	}

	ids := index.IDs()
	records := make([]itemRecord, 0, len(ids))
	for _, id := range ids {
		item, ok := store.Get(id)
		if !ok {
			return fmt.Errorf("indexed id %d has no item; refusing to persist inconsistent state", id)
		}
		records = append(records, itemRecord{ID: id, Item: item})
	}

	if err := writeJSON(filepath.Join(m.dir, ItemsFile), records); err != nil {
		return fmt.Errorf("failed to write items: %w", err)
	}
	if err := writeJSON(filepath.Join(m.dir, IndexFile), doc); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := writeJSON(filepath.Join(m.dir, QueryCacheFile), cache.Entries()); err != nil {
		return fmt.Errorf("failed to write query cache: %w", err)
	}
	return nil
}

// ClearAll removes the entire snapshot directory. It is a no-op when
// the directory does not exist.
func (m *Manager) ClearAll() error {
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// ClearCacheOnly removes the query-cache artifact, leaving index and
// items untouched. It is a no-op when the artifact does not exist.
func (m *Manager) ClearCacheOnly() error {
	err := os.Remove(filepath.Join(m.dir, QueryCacheFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear query cache: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readJSON(path string, v interface{}) error {
	file, err := os.Open(path) // #nosec G304 -- path is derived from the configured snapshot dir
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	encoder := json.NewEncoder(tmp)
	if err := encoder.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
