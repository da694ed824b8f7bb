package vectorstore

import (
	"errors"
	"testing"
)

// TestNewFlatIndex tests dimension validation at construction time
func TestNewFlatIndex(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		wantErr bool
	}{
		{"valid dimension", 384, false},
		{"small dimension", 3, false},
		{"zero dimension", 0, true},
		{"negative dimension", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := NewFlatIndex(tt.dim)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFlatIndex(%d) error = %v, wantErr %v", tt.dim, err, tt.wantErr)
			}
			if err == nil && ix.Dimension() != tt.dim {
				t.Errorf("Dimension() = %d, want %d", ix.Dimension(), tt.dim)
			}
		})
	}
}

// TestFlatIndexAppend tests id assignment and dimension rejection
func TestFlatIndexAppend(t *testing.T) {
	ix, err := NewFlatIndex(3)
	if err != nil {
		t.Fatalf("NewFlatIndex() error = %v", err)
	}

	id0, err := ix.Append([]float32{1, 0, 0})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	id1, err := ix.Append([]float32{0, 1, 0})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if id0 != 0 || id1 != 1 {
		t.Errorf("assigned ids = %d, %d, want 0, 1", id0, id1)
	}
	if ix.Size() != 2 {
		t.Errorf("Size() = %d, want 2", ix.Size())
	}

	// Wrong dimension must not be stored
	if _, err := ix.Append([]float32{1, 2}); err == nil {
		t.Fatal("Append() with wrong dimension should fail")
	}
	var dimErr *DimensionError
	_, err = ix.Append([]float32{1, 2, 3, 4})
	if !errors.As(err, &dimErr) {
		t.Fatalf("Append() error = %v, want *DimensionError", err)
	}
	if dimErr.Want != 3 || dimErr.Got != 4 {
		t.Errorf("DimensionError = {Want: %d, Got: %d}, want {Want: 3, Got: 4}", dimErr.Want, dimErr.Got)
	}
	if ix.Size() != 2 {
		t.Errorf("Size() after rejected appends = %d, want 2", ix.Size())
	}
}

// TestFlatIndexSearch tests nearest-neighbor ordering and edge cases
func TestFlatIndexSearch(t *testing.T) {
	ix, err := NewFlatIndex(2)
	if err != nil {
		t.Fatalf("NewFlatIndex() error = %v", err)
	}

	// Empty index: no error, no hits
	hits, err := ix.Search([]float32{0, 0}, 5)
	if err != nil {
		t.Fatalf("Search() on empty index error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search() on empty index returned %d hits, want 0", len(hits))
	}

	vectors := [][]float32{
		{0, 0},  // id 0
		{3, 4},  // id 1, squared distance 25 from origin
		{1, 0},  // id 2, squared distance 1
		{0, -2}, // id 3, squared distance 4
	}
	for _, v := range vectors {
		if _, err := ix.Append(v); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		query   []float32
		k       int
		wantIDs []uint64
	}{
		{"nearest first", []float32{0, 0}, 4, []uint64{0, 2, 3, 1}},
		{"k caps results", []float32{0, 0}, 2, []uint64{0, 2}},
		{"k larger than size", []float32{3, 4}, 10, []uint64{1, 3, 0, 2}},
		{"zero k", []float32{0, 0}, 0, []uint64{}},
		{"negative k", []float32{0, 0}, -3, []uint64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := ix.Search(tt.query, tt.k)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(hits) != len(tt.wantIDs) {
				t.Fatalf("Search() returned %d hits, want %d", len(hits), len(tt.wantIDs))
			}
			for i, hit := range hits {
				if hit.ID != tt.wantIDs[i] {
					t.Errorf("hit[%d].ID = %d, want %d", i, hit.ID, tt.wantIDs[i])
				}
			}
			for i := 1; i < len(hits); i++ {
				if hits[i].Distance < hits[i-1].Distance {
					t.Errorf("hits not sorted: distance[%d]=%v < distance[%d]=%v",
						i, hits[i].Distance, i-1, hits[i-1].Distance)
				}
			}
		})
	}

	if _, err := ix.Search([]float32{1, 2, 3}, 1); err == nil {
		t.Error("Search() with wrong query dimension should fail")
	}
}

// TestFlatIndexSearchTieBreak tests that equal distances rank by
// insertion order
func TestFlatIndexSearchTieBreak(t *testing.T) {
	ix, err := NewFlatIndex(2)
	if err != nil {
		t.Fatalf("NewFlatIndex() error = %v", err)
	}

	// Both are at squared distance 1 from the origin
	if _, err := ix.Append([]float32{0, 1}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := ix.Append([]float32{1, 0}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	hits, err := ix.Search([]float32{0, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 || hits[0].ID != 0 || hits[1].ID != 1 {
		t.Errorf("tie-break order = %v, want ids 0 then 1", hits)
	}
}

// TestRestoreFlatIndex tests rebuilding from persisted state
func TestRestoreFlatIndex(t *testing.T) {
	tests := []struct {
		name    string
		ids     []uint64
		vectors [][]float32
		wantErr bool
	}{
		{
			name:    "valid state",
			ids:     []uint64{0, 1, 5},
			vectors: [][]float32{{1, 0}, {0, 1}, {1, 1}},
		},
		{
			name:    "empty state",
			ids:     nil,
			vectors: nil,
		},
		{
			name:    "count mismatch",
			ids:     []uint64{0, 1},
			vectors: [][]float32{{1, 0}},
			wantErr: true,
		},
		{
			name:    "wrong vector dimension",
			ids:     []uint64{0},
			vectors: [][]float32{{1, 0, 0}},
			wantErr: true,
		},
		{
			name:    "non-increasing ids",
			ids:     []uint64{1, 1},
			vectors: [][]float32{{1, 0}, {0, 1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := RestoreFlatIndex(2, tt.ids, tt.vectors)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RestoreFlatIndex() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if ix.Size() != len(tt.ids) {
				t.Errorf("Size() = %d, want %d", ix.Size(), len(tt.ids))
			}
			// New appends must not collide with restored ids
			id, err := ix.Append([]float32{2, 2})
			if err != nil {
				t.Fatalf("Append() after restore error = %v", err)
			}
			if len(tt.ids) > 0 && id <= tt.ids[len(tt.ids)-1] {
				t.Errorf("Append() after restore assigned id %d, want > %d", id, tt.ids[len(tt.ids)-1])
			}
		})
	}
}
