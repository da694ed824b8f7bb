package bedrock

import (
	"github.com/docsift/docsift/internal/ai"
)

const (
	DefaultRegion          = "us-east-1"
	DefaultEmbedModel      = "amazon.titan-embed-image-v1"
	DefaultGenerateModel   = "anthropic.claude-3-sonnet-20240229-v1:0"
	DefaultDimension       = 384
	DefaultMaxTokens       = 1000
	DefaultTemperature     = 0.7
	defaultTopP            = 0.9
	defaultTopK            = 20
	anthropicversionHeader = "bedrock-2023-05-31"
)

type Config struct {
	Region        string  `json:"region"`
	EmbedModel    string  `json:"embed_model"`
	GenerateModel string  `json:"generate_model"`
	Dimension     int     `json:"dimension"`
	MaxTokens     int     `json:"max_tokens"`
	Temperature   float64 `json:"temperature"`
}

func DefaultConfig() *Config {
	return &Config{
		Region:        DefaultRegion,
		EmbedModel:    DefaultEmbedModel,
		GenerateModel: DefaultGenerateModel,
		Dimension:     DefaultDimension,
		MaxTokens:     DefaultMaxTokens,
		Temperature:   DefaultTemperature,
	}
}

func (c *Config) Validate() error {
	if c.Region == "" {
		return ai.NewConfigurationError("bedrock", "region", "region is required")
	}
	if c.EmbedModel == "" {
		return ai.NewConfigurationError("bedrock", "embed_model", "embedding model is required")
	}
	if c.GenerateModel == "" {
		return ai.NewConfigurationError("bedrock", "generate_model", "generation model is required")
	}
	if c.Dimension <= 0 {
		return ai.NewConfigurationError("bedrock", "dimension", "dimension must be positive")
	}
	if c.MaxTokens <= 0 {
		return ai.NewConfigurationError("bedrock", "max_tokens", "max tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return ai.NewConfigurationError("bedrock", "temperature", "temperature must be between 0 and 1")
	}
	return nil
}

// FromProviderConfig maps the provider-agnostic config onto the
// bedrock-specific one, filling defaults for unset fields.
func FromProviderConfig(config *ai.Config) *Config {
	if config == nil {
		return DefaultConfig()
	}

	c := &Config{
		Region:        config.Region,
		EmbedModel:    config.EmbedModel,
		GenerateModel: config.GenerateModel,
		Dimension:     config.Dimension,
		MaxTokens:     config.MaxTokens,
		Temperature:   config.Temperature,
	}

	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.EmbedModel == "" {
		c.EmbedModel = DefaultEmbedModel
	}
	if c.GenerateModel == "" {
		c.GenerateModel = DefaultGenerateModel
	}
	if c.Dimension == 0 {
		c.Dimension = DefaultDimension
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}

	return c
}
