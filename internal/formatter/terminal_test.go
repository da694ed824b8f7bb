package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/retriever"
)

func sampleResults() []retriever.Result {
	return []retriever.Result{
		{
			ID:       0,
			Item:     &content.Item{Page: 1, Kind: content.KindText, Text: "quarterly revenue grew", Path: "report_text_1_0.txt"},
			Distance: 0.12,
		},
		{
			ID:       3,
			Item:     &content.Item{Page: 4, Kind: content.KindImage, Image: "aW1n", Path: "report_image_4_0_9.png"},
			Distance: 0.48,
		},
	}
}

func sampleReport() *ingest.Report {
	return &ingest.Report{
		Added:   2,
		Skipped: 1,
		Results: []ingest.FragmentResult{
			{Path: "a_text_0_0.txt", Kind: content.KindText, ID: 0},
			{Path: "a_table_1_0.txt", Kind: content.KindTable, Err: errors.New("embedding failed")},
			{Path: "a_image_1_0_3.png", Kind: content.KindImage, ID: 1},
		},
	}
}

func TestTerminalFormatSearch(t *testing.T) {
	f := NewTerminal(false, false)

	out, err := f.FormatSearch("revenue growth", sampleResults())
	if err != nil {
		t.Fatalf("FormatSearch: %v", err)
	}
	text := string(out)

	for _, want := range []string{"revenue growth", "[Source: report, page 2]", "quarterly revenue grew", "Image"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestTerminalFormatSearchEmpty(t *testing.T) {
	f := NewTerminal(false, false)

	out, err := f.FormatSearch("nothing", nil)
	if err != nil {
		t.Fatalf("FormatSearch: %v", err)
	}
	if !strings.Contains(string(out), "No matching content") {
		t.Errorf("missing empty-result message:\n%s", out)
	}
}

func TestTerminalFormatIngest(t *testing.T) {
	f := NewTerminal(false, false)

	out, err := f.FormatIngest(sampleReport())
	if err != nil {
		t.Fatalf("FormatIngest: %v", err)
	}
	text := string(out)

	for _, want := range []string{"Indexed", "Skipped", "a_table_1_0.txt", "embedding failed"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestTerminalFormatStatus(t *testing.T) {
	f := NewTerminal(false, false)

	out, err := f.FormatStatus(&Status{
		Items:         1234,
		Dimension:     384,
		CachedQueries: 7,
		SnapshotDir:   "/var/lib/docsift",
		Kinds:         map[content.Kind]int{content.KindText: 1200, content.KindImage: 34},
	})
	if err != nil {
		t.Fatalf("FormatStatus: %v", err)
	}
	text := string(out)

	for _, want := range []string{"1,234", "384", "/var/lib/docsift"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestMarkdownFormatSearch(t *testing.T) {
	f := NewMarkdown()

	out, err := f.FormatSearch("revenue", sampleResults())
	if err != nil {
		t.Fatalf("FormatSearch: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "| # | Kind |") {
		t.Errorf("missing markdown table header:\n%s", text)
	}
	if !strings.Contains(text, "[Source: report, page 2]") {
		t.Errorf("missing citation:\n%s", text)
	}
}

func TestJSONFormatSearch(t *testing.T) {
	f := NewJSON()

	out, err := f.FormatSearch("revenue", sampleResults())
	if err != nil {
		t.Fatalf("FormatSearch: %v", err)
	}

	var decoded SearchOutput
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != "revenue" {
		t.Errorf("query: got %q", decoded.Query)
	}
	if len(decoded.Results) != 2 {
		t.Fatalf("results: got %d", len(decoded.Results))
	}
	if decoded.Results[0].Source != "report" {
		t.Errorf("source: got %q", decoded.Results[0].Source)
	}
}

func TestJSONFormatIngest(t *testing.T) {
	f := NewJSON()

	out, err := f.FormatIngest(sampleReport())
	if err != nil {
		t.Fatalf("FormatIngest: %v", err)
	}

	var decoded IngestOutput
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Added != 2 || decoded.Skipped != 1 {
		t.Errorf("counts: added=%d skipped=%d", decoded.Added, decoded.Skipped)
	}
	if len(decoded.Errors) != 1 {
		t.Fatalf("errors: got %d", len(decoded.Errors))
	}
}

func TestNewUnknownFormat(t *testing.T) {
	if _, err := New("xml", false, false); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
