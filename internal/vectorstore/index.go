package vectorstore

import (
	"fmt"
	"sort"
)

// FlatIndex is a brute-force similarity index over fixed-dimension
// float32 vectors. Every appended vector gets a stable, monotonically
// increasing id; ids never shift, so they can be used as durable join
// keys into an item arena. Search is exact squared-Euclidean over all
// stored vectors.
//
// The index assumes single-writer, single-reader usage and does no
// internal locking.
type FlatIndex struct {
	dim     int
	ids     []uint64
	vectors [][]float32
	nextID  uint64
}

// Hit is one search result: the id of a stored vector and its squared
// Euclidean distance to the query.
type Hit struct {
	ID       uint64
	Distance float32
}

// NewFlatIndex creates an empty index for vectors of the given
// dimension. The dimension is fixed for the life of the index and is
// validated here so that a misconfigured embedding size fails fast,
// not on the first search.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid index dimension %d", dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// RestoreFlatIndex rebuilds an index from persisted ids and vectors.
// The two slices must be the same length, vectors must match the
// dimension, and ids must be strictly increasing.
func RestoreFlatIndex(dim int, ids []uint64, vectors [][]float32) (*FlatIndex, error) {
	ix, err := NewFlatIndex(dim)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("id/vector count mismatch: %d ids, %d vectors", len(ids), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, &DimensionError{Want: dim, Got: len(vec)}
		}
		if i > 0 && ids[i] <= ids[i-1] {
			return nil, fmt.Errorf("ids not strictly increasing at position %d", i)
		}
	}
	ix.ids = ids
	ix.vectors = vectors
	if n := len(ids); n > 0 {
		ix.nextID = ids[n-1] + 1
	}
	return ix, nil
}

// Dimension returns the configured vector dimension.
func (ix *FlatIndex) Dimension() int {
	return ix.dim
}

// Size returns the number of stored vectors.
func (ix *FlatIndex) Size() int {
	return len(ix.vectors)
}

// Append stores a vector and returns its assigned id. A vector of the
// wrong dimension is rejected and nothing is stored.
func (ix *FlatIndex) Append(vector []float32) (uint64, error) {
	if len(vector) != ix.dim {
		return 0, &DimensionError{Want: ix.dim, Got: len(vector)}
	}
	id := ix.nextID
	ix.nextID++
	ix.ids = append(ix.ids, id)
	ix.vectors = append(ix.vectors, vector)
	return id, nil
}

// Search returns the k nearest stored vectors to the query, ascending
// by squared Euclidean distance. It returns min(k, Size()) hits; k <= 0
// or an empty index yields an empty result. Equal distances rank by
// insertion order (lower id first); that ordering is deterministic but
// carries no meaning.
func (ix *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, &DimensionError{Want: ix.dim, Got: len(query)}
	}
	if k <= 0 || len(ix.vectors) == 0 {
		return []Hit{}, nil
	}

	hits := make([]Hit, len(ix.vectors))
	for i, vec := range ix.vectors {
		hits[i] = Hit{ID: ix.ids[i], Distance: SquaredEuclidean(query, vec)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// IDs returns a copy of the stored ids in insertion order.
func (ix *FlatIndex) IDs() []uint64 {
	ids := make([]uint64, len(ix.ids))
	copy(ids, ix.ids)
	return ids
}

// Vectors returns the stored vectors in insertion order. The returned
// slice shares the underlying vector data; callers must not mutate it.
func (ix *FlatIndex) Vectors() [][]float32 {
	vectors := make([][]float32, len(ix.vectors))
	copy(vectors, ix.vectors)
	return vectors
}
