package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/retriever"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) FormatSearch(query string, results []retriever.Result) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Search Results\n\n")
	fmt.Fprintf(&b, "Query: `%s`\n\n", query)

	if len(results) == 0 {
		b.WriteString("No matching content found.\n")
		return []byte(b.String()), nil
	}

	b.WriteString("| # | Kind | Source | Distance | Preview |\n")
	b.WriteString("|---|------|--------|----------|---------|\n")
	for i, result := range results {
		fmt.Fprintf(&b, "| %d | %s | %s | %.4f | %s |\n",
			i+1,
			kindLabel(result.Item.Kind),
			result.Item.Citation(),
			result.Distance,
			strings.ReplaceAll(itemSnippet(result.Item), "|", "\\|"))
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatIngest(report *ingest.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Ingest Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "- Fragments: %d\n", len(report.Results))
	fmt.Fprintf(&b, "- Indexed: %d\n", report.Added)
	fmt.Fprintf(&b, "- Skipped: %d\n", report.Skipped)

	if report.Skipped > 0 {
		b.WriteString("\n## Skipped Fragments\n\n")
		for _, result := range report.Results {
			if result.Err != nil {
				fmt.Fprintf(&b, "- `%s`: %v\n", result.Path, result.Err)
			}
		}
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatStatus(status *Status) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Knowledge Base Status\n\n")
	fmt.Fprintf(&b, "- Indexed items: %d\n", status.Items)
	fmt.Fprintf(&b, "- Vector dimension: %d\n", status.Dimension)
	fmt.Fprintf(&b, "- Cached queries: %d\n", status.CachedQueries)
	fmt.Fprintf(&b, "- Snapshot directory: `%s`\n", status.SnapshotDir)

	if len(status.Kinds) > 0 {
		b.WriteString("\n## Items by Kind\n\n")
		for _, kind := range kindOrder {
			if count, ok := status.Kinds[kind]; ok {
				fmt.Fprintf(&b, "- %s: %d\n", kindLabel(kind), count)
			}
		}
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatAnswer(question, answer string) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Answer\n\n")
	fmt.Fprintf(&b, "**Question:** %s\n\n", question)
	b.WriteString(answer)
	if !strings.HasSuffix(answer, "\n") {
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}
