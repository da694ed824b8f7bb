package vectorstore

import (
	"fmt"

	"github.com/docsift/docsift/internal/content"
)

// Store couples a content-item arena to a FlatIndex. The two grow in
// lockstep: every successful Append adds exactly one vector to the
// index and one item to the arena under the same id. There is no
// delete or update; removing content means clearing the snapshot and
// re-ingesting.
type Store struct {
	index *FlatIndex
	items map[uint64]*content.Item
}

// NewStore creates an empty store whose index accepts vectors of the
// given dimension.
func NewStore(dim int) (*Store, error) {
	index, err := NewFlatIndex(dim)
	if err != nil {
		return nil, err
	}
	return &Store{
		index: index,
		items: make(map[uint64]*content.Item),
	}, nil
}

// RestoreStore rebuilds a store from a restored index and the item
// arena persisted alongside it. Every indexed id must have exactly one
// item; any mismatch means the persisted artifacts drifted apart.
func RestoreStore(index *FlatIndex, items map[uint64]*content.Item) (*Store, error) {
	if index.Size() != len(items) {
		return nil, fmt.Errorf("index/item count mismatch: %d vectors, %d items", index.Size(), len(items))
	}
	for _, id := range index.IDs() {
		if _, ok := items[id]; !ok {
			return nil, fmt.Errorf("indexed id %d has no item", id)
		}
	}
	return &Store{index: index, items: items}, nil
}

// Append adds the item and its embedding as one logical step and
// returns the assigned id. If the vector is rejected (wrong dimension)
// neither collection is touched.
func (s *Store) Append(item *content.Item, vector []float32) (uint64, error) {
	if item == nil {
		return 0, fmt.Errorf("nil content item")
	}
	id, err := s.index.Append(vector)
	if err != nil {
		return 0, err
	}
	s.items[id] = item
	return id, nil
}

// Get returns the item stored under id.
func (s *Store) Get(id uint64) (*content.Item, bool) {
	item, ok := s.items[id]
	return item, ok
}

// Size returns the shared count of items and vectors.
func (s *Store) Size() int {
	return s.index.Size()
}

// Dimension returns the embedding dimension of the underlying index.
func (s *Store) Dimension() int {
	return s.index.Dimension()
}

// Search runs a nearest-neighbor query against the underlying index.
func (s *Store) Search(query []float32, k int) ([]Hit, error) {
	return s.index.Search(query, k)
}

// Index exposes the underlying index for persistence.
func (s *Store) Index() *FlatIndex {
	return s.index
}

// Items returns the stored items in insertion order.
func (s *Store) Items() []*content.Item {
	items := make([]*content.Item, 0, len(s.items))
	for _, id := range s.index.IDs() {
		items = append(items, s.items[id])
	}
	return items
}
