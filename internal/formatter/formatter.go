package formatter

import (
	"fmt"

	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/retriever"
)

// Status summarizes the loaded knowledge base for display.
type Status struct {
	Items         int                  `json:"items"`
	Dimension     int                  `json:"dimension"`
	CachedQueries int                  `json:"cached_queries"`
	SnapshotDir   string               `json:"snapshot_dir"`
	Kinds         map[content.Kind]int `json:"kinds"`
}

// Formatter defines the interface for output formatting
type Formatter interface {
	FormatSearch(query string, results []retriever.Result) ([]byte, error)
	FormatIngest(report *ingest.Report) ([]byte, error)
	FormatStatus(status *Status) ([]byte, error)
	FormatAnswer(question, answer string) ([]byte, error)
}

// New creates a formatter for the given output format.
func New(format string, color, emoji bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color, emoji), nil
	case "markdown":
		return NewMarkdown(), nil
	case "json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
