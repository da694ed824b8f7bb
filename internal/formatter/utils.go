package formatter

import (
	"fmt"
	"strings"

	"github.com/docsift/docsift/internal/content"
)

const snippetLength = 120

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// kindLabel returns a display label for a content kind
func kindLabel(kind content.Kind) string {
	switch kind {
	case content.KindText:
		return "Text"
	case content.KindTable:
		return "Table"
	case content.KindImage:
		return "Image"
	case content.KindPageImage:
		return "Page Render"
	default:
		return string(kind)
	}
}

// itemSnippet returns a short single-line preview of the item's text.
// Image items preview their file path instead.
func itemSnippet(item *content.Item) string {
	text := item.Text
	if item.Kind.IsImage() {
		text = item.Path
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > snippetLength {
		text = text[:snippetLength] + "..."
	}
	return text
}
