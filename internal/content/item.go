package content

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the variant of a content item.
type Kind string

const (
	// KindText is a chunk of extracted page text.
	KindText Kind = "text"

	// KindTable is a markdown rendering of an extracted table.
	KindTable Kind = "table"

	// KindImage is a single image extracted from a page.
	KindImage Kind = "image"

	// KindPageImage is a rasterization of a whole page.
	KindPageImage Kind = "page"
)

// Valid reports whether the kind is one of the known variants.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindTable, KindImage, KindPageImage:
		return true
	}
	return false
}

// IsImage reports whether the kind carries an image payload.
func (k Kind) IsImage() bool {
	return k == KindImage || k == KindPageImage
}

// Item is one retrievable unit of document content with provenance.
// Text and table items carry Text; image and page items carry Image
// (base64-encoded PNG). Path points at the persisted staging artifact
// the item was derived from.
type Item struct {
	Page     int                 `json:"page"`
	Kind     Kind                `json:"type"`
	Text     string              `json:"text,omitempty"`
	Image    string              `json:"image,omitempty"`
	Path     string              `json:"path"`
	RawTable []map[string]string `json:"raw_table,omitempty"`
}

// Validate checks that the item is internally consistent: a known kind,
// the payload matching the kind, and a non-negative page number.
func (it *Item) Validate() error {
	if !it.Kind.Valid() {
		return fmt.Errorf("unknown content kind %q", it.Kind)
	}
	if it.Page < 0 {
		return fmt.Errorf("negative page number %d", it.Page)
	}
	if it.Kind.IsImage() {
		if it.Image == "" {
			return fmt.Errorf("%s item %s has no image payload", it.Kind, it.Path)
		}
	} else if it.Text == "" {
		return fmt.Errorf("%s item %s has no text", it.Kind, it.Path)
	}
	return nil
}

// Source returns the name of the source document the item came from.
// Staging artifact names are prefixed with the source file name, so the
// prefix before the first underscore is the document name.
func (it *Item) Source() string {
	base := filepath.Base(it.Path)
	if idx := strings.Index(base, "_"); idx > 0 {
		return base[:idx]
	}
	return base
}

// Citation renders the provenance reference used in answers:
// source document plus 1-based page number.
func (it *Item) Citation() string {
	return fmt.Sprintf("[Source: %s, page %d]", it.Source(), it.Page+1)
}
