package vectorstore

import (
	"testing"

	"github.com/docsift/docsift/internal/content"
)

func textItem(page int, text string) *content.Item {
	return &content.Item{
		Page: page,
		Kind: content.KindText,
		Text: text,
		Path: "data/text/report.pdf_text_0_0.txt",
	}
}

// TestStoreAppendLockstep tests that items and vectors grow together
func TestStoreAppendLockstep(t *testing.T) {
	s, err := NewStore(2)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		id, err := s.Append(textItem(i, "chunk"), []float32{float32(i), 0})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if s.Size() != i+1 {
			t.Errorf("Size() after append %d = %d, want %d", i, s.Size(), i+1)
		}
		if s.Index().Size() != len(s.Items()) {
			t.Errorf("index size %d != item count %d", s.Index().Size(), len(s.Items()))
		}
		if _, ok := s.Get(id); !ok {
			t.Errorf("Get(%d) missing just-appended item", id)
		}
	}
}

// TestStoreAppendRejected tests that a failed append touches neither
// collection
func TestStoreAppendRejected(t *testing.T) {
	s, err := NewStore(3)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := s.Append(textItem(0, "x"), []float32{1, 2}); err == nil {
		t.Fatal("Append() with wrong dimension should fail")
	}
	if s.Size() != 0 {
		t.Errorf("Size() after rejected append = %d, want 0", s.Size())
	}
	if len(s.Items()) != 0 {
		t.Errorf("Items() after rejected append = %d entries, want 0", len(s.Items()))
	}

	if _, err := s.Append(nil, []float32{1, 2, 3}); err == nil {
		t.Fatal("Append() with nil item should fail")
	}
	if s.Size() != 0 {
		t.Errorf("Size() after nil-item append = %d, want 0", s.Size())
	}
}

// TestStoreItemsOrder tests that Items preserves insertion order
func TestStoreItemsOrder(t *testing.T) {
	s, err := NewStore(1)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	texts := []string{"first", "second", "third"}
	for i, text := range texts {
		if _, err := s.Append(textItem(i, text), []float32{float32(i)}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	items := s.Items()
	if len(items) != len(texts) {
		t.Fatalf("Items() returned %d items, want %d", len(items), len(texts))
	}
	for i, item := range items {
		if item.Text != texts[i] {
			t.Errorf("Items()[%d].Text = %q, want %q", i, item.Text, texts[i])
		}
	}
}

// TestRestoreStore tests arena/index consistency checks
func TestRestoreStore(t *testing.T) {
	ix, err := RestoreFlatIndex(2, []uint64{0, 1}, [][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("RestoreFlatIndex() error = %v", err)
	}

	items := map[uint64]*content.Item{
		0: textItem(0, "a"),
		1: textItem(1, "b"),
	}
	s, err := RestoreStore(ix, items)
	if err != nil {
		t.Fatalf("RestoreStore() error = %v", err)
	}
	if s.Size() != 2 {
		t.Errorf("Size() = %d, want 2", s.Size())
	}

	// Missing item for an indexed id is corruption
	ix2, err := RestoreFlatIndex(2, []uint64{0, 1}, [][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("RestoreFlatIndex() error = %v", err)
	}
	if _, err := RestoreStore(ix2, map[uint64]*content.Item{0: textItem(0, "a")}); err == nil {
		t.Error("RestoreStore() with missing item should fail")
	}

	// Extra item with no vector is corruption too
	ix3, err := RestoreFlatIndex(2, []uint64{0}, [][]float32{{1, 0}})
	if err != nil {
		t.Fatalf("RestoreFlatIndex() error = %v", err)
	}
	extra := map[uint64]*content.Item{0: textItem(0, "a"), 7: textItem(1, "b")}
	if _, err := RestoreStore(ix3, extra); err == nil {
		t.Error("RestoreStore() with extra item should fail")
	}
}
