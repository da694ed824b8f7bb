package ingest

import (
	"context"
	"fmt"

	"github.com/docsift/docsift/internal/ai"
	"github.com/docsift/docsift/internal/content"
	"github.com/docsift/docsift/internal/logger"
	"github.com/docsift/docsift/internal/vectorstore"
)

// FragmentResult records the outcome of embedding one fragment. Err is
// nil for fragments that made it into the store.
type FragmentResult struct {
	Path string
	Kind content.Kind
	ID   uint64
	Err  error
}

// Report summarizes one ingest run.
type Report struct {
	Added   int
	Skipped int
	Results []FragmentResult
}

// Pipeline embeds scanned fragments and appends them to the store.
type Pipeline struct {
	store    *vectorstore.Store
	embedder ai.Embedder
	log      *logger.Logger
}

// NewPipeline creates an ingest pipeline over the given store.
func NewPipeline(store *vectorstore.Store, embedder ai.Embedder, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewWithCallback("ingest", nil)
	}
	return &Pipeline{store: store, embedder: embedder, log: log}
}

// Run embeds every item and appends it to the store. A fragment whose
// embedding fails is skipped and reported rather than aborting the
// run, so one bad figure does not block a thousand good paragraphs.
// Context cancellation stops the run and returns the error.
func (p *Pipeline) Run(ctx context.Context, items []*content.Item) (*Report, error) {
	report := &Report{Results: make([]FragmentResult, 0, len(items))}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := FragmentResult{Path: item.Path, Kind: item.Kind}

		vector, err := p.embed(ctx, item)
		if err == nil {
			result.ID, err = p.store.Append(item, vector)
		}
		if err != nil {
			result.Err = err
			report.Skipped++
			p.log.Warn("fragment skipped",
				logger.Path(item.Path),
				logger.F("kind", item.Kind),
				logger.Error(err))
		} else {
			report.Added++
			p.log.Debug("fragment indexed",
				logger.Path(item.Path),
				logger.ItemID(result.ID))
		}
		report.Results = append(report.Results, result)
	}

	p.log.Info("ingest complete",
		logger.F("added", report.Added),
		logger.F("skipped", report.Skipped))
	return report, nil
}

// embed picks the embedding input for the item's kind: the text body
// for text and tables, the base64 image payload for figures and page
// renders.
func (p *Pipeline) embed(ctx context.Context, item *content.Item) ([]float32, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	input := &ai.EmbeddingInput{}
	switch item.Kind {
	case content.KindText, content.KindTable:
		input.Text = item.Text
	case content.KindImage, content.KindPageImage:
		input.ImageBase64 = item.Image
	default:
		return nil, fmt.Errorf("unsupported fragment kind %q", item.Kind)
	}
	return p.embedder.Embed(ctx, input)
}
