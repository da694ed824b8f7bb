// Package openai implements the embedding and generation collaborators
// against the OpenAI API or any OpenAI-compatible endpoint. Image
// fragments cannot be embedded here: the embeddings API is text-only,
// so image embedding requests are rejected and the ingest pipeline
// records them as skipped.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/docsift/docsift/internal/ai"
	"github.com/docsift/docsift/internal/content"
)

type Provider struct {
	config *Config
	client *goopenai.Client
}

func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientCfg := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientCfg.BaseURL = config.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Provider{
		config: config,
		client: goopenai.NewClientWithConfig(clientCfg),
	}, nil
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) Dimension() int {
	return p.config.Dimension
}

func (p *Provider) Close() error {
	return nil
}

// Embed generates a text embedding at the configured dimension.
func (p *Provider) Embed(ctx context.Context, input *ai.EmbeddingInput) ([]float32, error) {
	if input == nil {
		return nil, ai.NewValidationError("input", "nil", "embedding input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.ImageBase64 != "" {
		return nil, ai.NewProviderError(ai.ErrTypeValidation,
			"image embeddings are not supported by the OpenAI embeddings API", "openai")
	}

	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model:      goopenai.EmbeddingModel(p.config.EmbedModel),
		Input:      []string{input.Text},
		Dimensions: p.config.Dimension,
	})
	if err != nil {
		return nil, wrapAPIError("embedding request failed", err)
	}
	if len(resp.Data) == 0 {
		return nil, ai.NewProviderError(ai.ErrTypeProvider, "no embedding data returned", "openai")
	}
	return resp.Data[0].Embedding, nil
}

// Generate performs a multimodal chat completion with the grounding
// items as text and image parts of the first user message.
func (p *Provider) Generate(ctx context.Context, req *ai.GenerationRequest) (string, error) {
	if req == nil {
		return "", ai.NewValidationError("request", "nil", "generation request is required")
	}
	if req.Prompt == "" {
		return "", ai.NewValidationError("prompt", "", "prompt is required")
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	temperature := req.TemperatureOrDefault(p.config.Temperature)

	messages := []goopenai.ChatCompletionMessage{}
	if req.SystemPrompt != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	if parts := groundingParts(req.Grounding); len(parts) > 0 {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:         goopenai.ChatMessageRoleUser,
			MultiContent: parts,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       p.config.GenerateModel,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
	})
	if err != nil {
		return "", wrapAPIError("chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", ai.NewProviderError(ai.ErrTypeProvider, "no completion choices returned", "openai")
	}
	return resp.Choices[0].Message.Content, nil
}

func groundingParts(items []*content.Item) []goopenai.ChatMessagePart {
	parts := make([]goopenai.ChatMessagePart, 0, len(items)*2)
	for _, item := range items {
		switch item.Kind {
		case content.KindText:
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeText,
				Text: fmt.Sprintf("Text content: %s\n%s", item.Text, item.Citation()),
			})
		case content.KindTable:
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeText,
				Text: fmt.Sprintf("Table content: %s\n%s", item.Text, item.Citation()),
			})
		case content.KindImage, content.KindPageImage:
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL: "data:image/png;base64," + item.Image,
				},
			})
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeText,
				Text: fmt.Sprintf("[Image reference: %s]", item.Citation()),
			})
		}
	}
	return parts
}

func wrapAPIError(message string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		errType := ai.ErrTypeProvider
		if apiErr.HTTPStatusCode == http.StatusUnauthorized {
			errType = ai.ErrTypeAuthentication
		}
		return &ai.ProviderError{
			Type:       errType,
			Message:    message,
			Provider:   "openai",
			StatusCode: apiErr.HTTPStatusCode,
			Cause:      err,
		}
	}
	return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, message, "openai", err)
}
