package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/vectorstore"
)

const testDim = 4

func newManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "vector_store"), testDim)
}

func populated(t *testing.T) (*vectorstore.Store, *vectorstore.QueryCache) {
	t.Helper()
	store, err := vectorstore.NewStore(testDim)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	items := []*content.Item{
		{Page: 0, Kind: content.KindText, Text: "Revenue grew 10%", Path: "data/text/report.pdf_text_0_0.txt"},
		{Page: 1, Kind: content.KindTable, Text: "| q | revenue |", Path: "data/tables/report.pdf_table_1_0.txt"},
		{Page: 1, Kind: content.KindImage, Image: "cGl4ZWxz", Path: "data/images/report.pdf_image_1_0_9.png"},
	}
	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
	for i := range items {
		if _, err := store.Append(items[i], vectors[i]); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	cache := vectorstore.RestoreQueryCache(map[string][]float32{
		"what grew": {1, 0, 0, 1},
	})
	return store, cache
}

// TestLoadFresh tests that a missing snapshot loads as an empty triple
func TestLoadFresh(t *testing.T) {
	m := newManager(t)

	store, cache, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Size() != 0 {
		t.Errorf("fresh store Size() = %d, want 0", store.Size())
	}
	if store.Dimension() != testDim {
		t.Errorf("fresh store Dimension() = %d, want %d", store.Dimension(), testDim)
	}
	if cache.Len() != 0 {
		t.Errorf("fresh cache Len() = %d, want 0", cache.Len())
	}
}

// TestSaveLoadRoundTrip tests the full persistence round trip
func TestSaveLoadRoundTrip(t *testing.T) {
	m := newManager(t)
	store, cache := populated(t)

	if err := m.Save(store, cache); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, loadedCache, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Size() != store.Size() {
		t.Errorf("loaded Size() = %d, want %d", loaded.Size(), store.Size())
	}

	want := store.Items()
	got := loaded.Items()
	for i := range want {
		if got[i].Kind != want[i].Kind || got[i].Text != want[i].Text ||
			got[i].Page != want[i].Page || got[i].Path != want[i].Path ||
			got[i].Image != want[i].Image {
			t.Errorf("item %d mismatch after round trip: got %+v, want %+v", i, got[i], want[i])
		}
	}

	if loadedCache.Len() != 1 {
		t.Errorf("loaded cache Len() = %d, want 1", loadedCache.Len())
	}
	if _, ok := loadedCache.Get("what grew"); !ok {
		t.Error("loaded cache missing persisted query")
	}

	// Search still works against the restored index
	hits, err := loaded.Search([]float32{0, 1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search() after load error = %v", err)
	}
	if len(hits) != 1 || hits[0].ID != 1 {
		t.Errorf("Search() after load = %+v, want single hit with id 1", hits)
	}
}

// TestSaveOverwrites tests that saving twice leaves the newer state
func TestSaveOverwrites(t *testing.T) {
	m := newManager(t)
	store, cache := populated(t)

	if err := m.Save(store, cache); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	extra := &content.Item{Page: 2, Kind: content.KindText, Text: "new chunk", Path: "data/text/report.pdf_text_2_0.txt"}
	if _, err := store.Append(extra, []float32{0, 0, 0, 1}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := m.Save(store, cache); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	loaded, _, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Size() != 4 {
		t.Errorf("loaded Size() = %d, want 4", loaded.Size())
	}
}

// TestLoadPartialSnapshot tests that index-without-items is corruption
func TestLoadPartialSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		remove string
	}{
		{"items missing", ItemsFile},
		{"index missing", IndexFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(t)
			store, cache := populated(t)
			if err := m.Save(store, cache); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			if err := os.Remove(filepath.Join(m.Dir(), tt.remove)); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}

			_, _, err := m.Load()
			if !errors.Is(err, ErrCorrupted) {
				t.Errorf("Load() error = %v, want ErrCorrupted", err)
			}
		})
	}
}

// TestLoadUnreadableIndex tests that garbage artifacts surface as
// corruption rather than an empty store
func TestLoadUnreadableIndex(t *testing.T) {
	m := newManager(t)
	store, cache := populated(t)
	if err := m.Save(store, cache); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(m.Dir(), IndexFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, _, err := m.Load()
	if !errors.Is(err, ErrCorrupted) {
		t.Errorf("Load() error = %v, want ErrCorrupted", err)
	}
}

// TestLoadDimensionDrift tests that a snapshot written at another
// dimension is rejected
func TestLoadDimensionDrift(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_store")
	store, cache := populated(t)
	if err := NewManager(dir, testDim).Save(store, cache); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, _, err := NewManager(dir, testDim+1).Load()
	if !errors.Is(err, ErrCorrupted) {
		t.Errorf("Load() with drifted dimension error = %v, want ErrCorrupted", err)
	}
}

// TestClearAll tests wholesale snapshot removal
func TestClearAll(t *testing.T) {
	m := newManager(t)

	// Clearing a snapshot that never existed must not fail
	if err := m.ClearAll(); err != nil {
		t.Fatalf("ClearAll() on missing dir error = %v", err)
	}

	store, cache := populated(t)
	if err := m.Save(store, cache); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := m.ClearAll(); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	loaded, loadedCache, err := m.Load()
	if err != nil {
		t.Fatalf("Load() after ClearAll() error = %v", err)
	}
	if loaded.Size() != 0 || loaded.Dimension() != testDim {
		t.Errorf("Load() after ClearAll() = size %d dim %d, want empty at dim %d",
			loaded.Size(), loaded.Dimension(), testDim)
	}
	if loadedCache.Len() != 0 {
		t.Errorf("cache Len() after ClearAll() = %d, want 0", loadedCache.Len())
	}
}

// TestClearCacheOnly tests that clearing history keeps the index
func TestClearCacheOnly(t *testing.T) {
	m := newManager(t)

	if err := m.ClearCacheOnly(); err != nil {
		t.Fatalf("ClearCacheOnly() on missing artifact error = %v", err)
	}

	store, cache := populated(t)
	if err := m.Save(store, cache); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := m.ClearCacheOnly(); err != nil {
		t.Fatalf("ClearCacheOnly() error = %v", err)
	}

	loaded, loadedCache, err := m.Load()
	if err != nil {
		t.Fatalf("Load() after ClearCacheOnly() error = %v", err)
	}
	if loaded.Size() != store.Size() {
		t.Errorf("store Size() after ClearCacheOnly() = %d, want %d", loaded.Size(), store.Size())
	}
	if loadedCache.Len() != 0 {
		t.Errorf("cache Len() after ClearCacheOnly() = %d, want 0", loadedCache.Len())
	}
}
