package formatter

import (
	"encoding/json"

	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/retriever"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// SearchOutput is the JSON structure for search responses
type SearchOutput struct {
	Query   string          `json:"query"`
	Results []*ResultOutput `json:"results"`
}

// ResultOutput is one search result in JSON form. Image payloads are
// omitted; the path locates the artifact on disk.
type ResultOutput struct {
	ID       uint64  `json:"id"`
	Kind     string  `json:"kind"`
	Page     int     `json:"page"`
	Source   string  `json:"source"`
	Path     string  `json:"path"`
	Distance float32 `json:"distance"`
	Text     string  `json:"text,omitempty"`
}

// IngestOutput is the JSON structure for ingest reports
type IngestOutput struct {
	Added   int              `json:"added"`
	Skipped int              `json:"skipped"`
	Errors  []*IngestFailure `json:"errors,omitempty"`
}

// IngestFailure records one skipped fragment
type IngestFailure struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// AnswerOutput is the JSON structure for generated answers
type AnswerOutput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (f *jsonFormatter) FormatSearch(query string, results []retriever.Result) ([]byte, error) {
	output := &SearchOutput{
		Query:   query,
		Results: make([]*ResultOutput, 0, len(results)),
	}
	for _, result := range results {
		output.Results = append(output.Results, &ResultOutput{
			ID:       result.ID,
			Kind:     string(result.Item.Kind),
			Page:     result.Item.Page,
			Source:   result.Item.Source(),
			Path:     result.Item.Path,
			Distance: result.Distance,
			Text:     result.Item.Text,
		})
	}
	return json.MarshalIndent(output, "", "  ")
}

func (f *jsonFormatter) FormatIngest(report *ingest.Report) ([]byte, error) {
	output := &IngestOutput{
		Added:   report.Added,
		Skipped: report.Skipped,
	}
	for _, result := range report.Results {
		if result.Err != nil {
			output.Errors = append(output.Errors, &IngestFailure{
				Path:   result.Path,
				Kind:   string(result.Kind),
				Reason: result.Err.Error(),
			})
		}
	}
	return json.MarshalIndent(output, "", "  ")
}

func (f *jsonFormatter) FormatStatus(status *Status) ([]byte, error) {
	return json.MarshalIndent(status, "", "  ")
}

func (f *jsonFormatter) FormatAnswer(question, answer string) ([]byte, error) {
	return json.MarshalIndent(&AnswerOutput{Question: question, Answer: answer}, "", "  ")
}
