package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/retriever"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color, emoji bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = emoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) FormatSearch(query string, results []retriever.Result) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Search Results")
	fmt.Fprintf(&b, "Query: %q\n\n", query)

	if len(results) == 0 {
		b.WriteString("No matching content found.\n")
		return []byte(b.String()), nil
	}

	for i, result := range results {
		connector := "├─"
		if i == len(results)-1 {
			connector = "└─"
		}
		fmt.Fprintf(&b, "%s %d. %s %s (distance %.4f)\n",
			connector, i+1, kindLabel(result.Item.Kind), result.Item.Citation(), result.Distance)
		if snippet := itemSnippet(result.Item); snippet != "" {
			fmt.Fprintf(&b, "     %s\n", snippet)
		}
	}
	b.WriteString("\n")

	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatIngest(report *ingest.Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Ingest Summary")

	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	items := []termfmt.TreeItem{
		{Label: "Fragments", Value: formatNumber(len(report.Results))},
		{Label: "Indexed", Value: formatNumber(report.Added)},
		{Label: "Skipped", Value: formatNumber(report.Skipped), Last: true},
	}
	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")

	if report.Skipped > 0 {
		symbol := termfmt.GetEmoji("error", f.opts)
		b.WriteString(symbol + " Skipped Fragments\n")
		for _, result := range report.Results {
			if result.Err != nil {
				fmt.Fprintf(&b, "• %s: %v\n", result.Path, result.Err)
			}
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatStatus(status *Status) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Knowledge Base Status")

	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Store\n")

	items := []termfmt.TreeItem{
		{Label: "Indexed Items", Value: formatNumber(status.Items)},
		{Label: "Vector Dimension", Value: formatNumber(status.Dimension)},
		{Label: "Cached Queries", Value: formatNumber(status.CachedQueries)},
		{Label: "Snapshot Directory", Value: status.SnapshotDir, Last: len(status.Kinds) == 0},
	}
	if len(status.Kinds) > 0 {
		children := make([]termfmt.TreeItem, 0, len(status.Kinds))
		for _, kind := range kindOrder {
			if count, ok := status.Kinds[kind]; ok {
				children = append(children, termfmt.TreeItem{
					Label: kindLabel(kind),
					Value: formatNumber(count),
				})
			}
		}
		if len(children) > 0 {
			children[len(children)-1].Last = true
		}
		items = append(items, termfmt.TreeItem{Label: "By Kind", Children: children, Last: true})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n")

	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatAnswer(question, answer string) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Answer")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString(answer)
	if !strings.HasSuffix(answer, "\n") {
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// writeHeader writes a header with box drawing
func (f *terminalFormatter) writeHeader(b *strings.Builder, header string) {
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

var kindOrder = []content.Kind{
	content.KindText,
	content.KindTable,
	content.KindImage,
	content.KindPageImage,
}
