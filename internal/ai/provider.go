package ai

import (
	"context"

	"github.com/docsift/docsift/internal/content"
)

// EmbeddingInput is the input to a multimodal embedding call. At least
// one of Text and ImageBase64 must be set.
type EmbeddingInput struct {
	// Text is a plain-text fragment to embed.
	Text string

	// ImageBase64 is a base64-encoded PNG to embed.
	ImageBase64 string
}

// Validate checks that the input carries at least one modality.
func (in *EmbeddingInput) Validate() error {
	if in.Text == "" && in.ImageBase64 == "" {
		return NewValidationError("input", "", "either text or image input is required")
	}
	return nil
}

// GenerationRequest asks for a grounded answer. The prompt carries the
// question and answering rules; the grounding items are passed to the
// model as mixed text/table/image context blocks with provenance.
type GenerationRequest struct {
	// SystemPrompt provides system-level instructions.
	SystemPrompt string

	// Prompt is the user question with answering requirements.
	Prompt string

	// Grounding is the ranked retrieval result backing the answer.
	Grounding []*content.Item

	// MaxTokens limits the response length.
	MaxTokens int

	// Temperature controls randomness. Nil leaves the provider's
	// configured default in effect; a pointer to zero requests
	// deterministic generation.
	Temperature *float64
}

// TemperatureOrDefault returns the requested temperature, or def when
// the request leaves it unset.
func (r *GenerationRequest) TemperatureOrDefault(def float64) float64 {
	if r.Temperature != nil {
		return *r.Temperature
	}
	return def
}

// Embedder produces fixed-dimension embedding vectors. Calls are
// blocking, synchronous remote operations; a failure surfaces
// immediately to the caller.
type Embedder interface {
	// Embed generates an embedding for the given input.
	Embed(ctx context.Context, input *EmbeddingInput) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int
}

// Generator produces a final answer from a prompt and grounding items.
type Generator interface {
	// Generate performs the multimodal completion.
	Generate(ctx context.Context, req *GenerationRequest) (string, error)
}

// Provider combines the two remote collaborators the retrieval
// pipeline consumes, behind one configured backend.
type Provider interface {
	Embedder
	Generator

	// Name returns the provider name (e.g. "bedrock", "openai").
	Name() string

	// Close cleans up provider resources.
	Close() error
}
