// Package bedrock implements the embedding and generation collaborators
// on AWS Bedrock: Titan multimodal embeddings and Anthropic Claude
// messages with mixed text/image grounding.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/docsift/docsift/internal/ai"
	"github.com/docsift/docsift/internal/content"
)

type Provider struct {
	config *Config
	client *bedrockruntime.Client
}

func New(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeConfiguration,
			"failed to load AWS configuration", "bedrock", err)
	}

	return &Provider{
		config: config,
		client: bedrockruntime.NewFromConfig(awsCfg),
	}, nil
}

func (p *Provider) Name() string {
	return "bedrock"
}

func (p *Provider) Dimension() int {
	return p.config.Dimension
}

func (p *Provider) Close() error {
	return nil
}

// Embed generates a Titan multimodal embedding for text, image, or
// both.
func (p *Provider) Embed(ctx context.Context, input *ai.EmbeddingInput) ([]float32, error) {
	if input == nil {
		return nil, ai.NewValidationError("input", "nil", "embedding input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(titanEmbedRequest{
		InputText:  input.Text,
		InputImage: input.ImageBase64,
		EmbeddingConfig: titanEmbeddingConfig{
			OutputEmbeddingLength: p.config.Dimension,
		},
	})
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal,
			"failed to marshal embedding request", "bedrock", err)
	}

	out, err := p.invoke(ctx, p.config.EmbedModel, body)
	if err != nil {
		return nil, err
	}

	var resp titanEmbedResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal,
			"failed to decode embedding response", "bedrock", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, ai.NewProviderError(ai.ErrTypeProvider,
			fmt.Sprintf("model returned no embedding: %s", resp.Message), "bedrock")
	}
	return resp.Embedding, nil
}

// Generate asks Claude for an answer grounded in the given items. Text
// and table items become text blocks with their provenance reference;
// image and page items become image blocks followed by a reference
// block, mirroring the grounding layout the answer prompt describes.
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

	messages := []anthropicMessage{}
	if blocks := groundingBlocks(req.Grounding); len(blocks) > 0 {
		messages = append(messages, anthropicMessage{Role: "user", Content: blocks})
	}
	messages = append(messages, anthropicMessage{
		Role:    "user",
		Content: []anthropicBlock{textBlock(req.Prompt)},
	})

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicversionHeader,
		MaxTokens:        maxTokens,
		System:           req.SystemPrompt,
		Messages:         messages,
		Temperature:      temperature,
		TopP:             defaultTopP,
		TopK:             defaultTopK,
	})
	if err != nil {
		return "", ai.NewProviderErrorWithCause(ai.ErrTypeInternal,
			"failed to marshal generation request", "bedrock", err)
	}

	out, err := p.invoke(ctx, p.config.GenerateModel, body)
	if err != nil {
		return "", err
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", ai.NewProviderErrorWithCause(ai.ErrTypeInternal,
			"failed to decode generation response", "bedrock", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", ai.NewProviderError(ai.ErrTypeProvider, "model returned no text content", "bedrock")
	}
	return b.String(), nil
}

func (p *Provider) invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	out, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork,
			fmt.Sprintf("invoke of %s failed", modelID), "bedrock", err)
	}
	return out.Body, nil
}

func groundingBlocks(items []*content.Item) []anthropicBlock {
	blocks := make([]anthropicBlock, 0, len(items)*2)
	for _, item := range items {
		switch item.Kind {
		case content.KindText:
			blocks = append(blocks, textBlock(fmt.Sprintf("Text content: %s\n%s", item.Text, item.Citation())))
		case content.KindTable:
			blocks = append(blocks, textBlock(fmt.Sprintf("Table content: %s\n%s", item.Text, item.Citation())))
		case content.KindImage, content.KindPageImage:
			blocks = append(blocks, imageBlock(item.Image))
			blocks = append(blocks, textBlock(fmt.Sprintf("[Image reference: %s]", item.Citation())))
		}
	}
	return blocks
}
