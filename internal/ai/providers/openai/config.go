package openai

import (
	"net/url"
	"time"

	"github.com/docsift/docsift/internal/ai"
)

const (
	DefaultEmbedModel    = "text-embedding-3-small"
	DefaultGenerateModel = "gpt-4o-mini"
	DefaultDimension     = 384
	DefaultMaxTokens     = 1000
	DefaultTemperature   = 0.7
	DefaultTimeout       = 60 * time.Second
)

type Config struct {
	APIKey        string        `json:"api_key"`
	BaseURL       string        `json:"base_url,omitempty"`
	EmbedModel    string        `json:"embed_model"`
	GenerateModel string        `json:"generate_model"`
	Dimension     int           `json:"dimension"`
	MaxTokens     int           `json:"max_tokens"`
	Temperature   float64       `json:"temperature"`
	Timeout       time.Duration `json:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		EmbedModel:    DefaultEmbedModel,
		GenerateModel: DefaultGenerateModel,
		Dimension:     DefaultDimension,
		MaxTokens:     DefaultMaxTokens,
		Temperature:   DefaultTemperature,
		Timeout:       DefaultTimeout,
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ai.NewConfigurationError("openai", "api_key", "API key is required")
	}
	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return ai.NewConfigurationError("openai", "base_url", "invalid base URL: "+err.Error())
		}
	}
	if c.EmbedModel == "" {
		return ai.NewConfigurationError("openai", "embed_model", "embedding model is required")
	}
	if c.GenerateModel == "" {
		return ai.NewConfigurationError("openai", "generate_model", "generation model is required")
	}
	if c.Dimension <= 0 {
		return ai.NewConfigurationError("openai", "dimension", "dimension must be positive")
	}
	if c.MaxTokens <= 0 {
		return ai.NewConfigurationError("openai", "max_tokens", "max tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return ai.NewConfigurationError("openai", "temperature", "temperature must be between 0 and 2")
	}
	if c.Timeout <= 0 {
		return ai.NewConfigurationError("openai", "timeout", "timeout must be positive")
	}
	return nil
}

// FromProviderConfig maps the provider-agnostic config onto the
// OpenAI-specific one, filling defaults for unset fields.
func FromProviderConfig(config *ai.Config) *Config {
	if config == nil {
		return DefaultConfig()
	}

	c := &Config{
		APIKey:        config.APIKey,
		BaseURL:       config.BaseURL,
		EmbedModel:    config.EmbedModel,
		GenerateModel: config.GenerateModel,
		Dimension:     config.Dimension,
		MaxTokens:     config.MaxTokens,
		Temperature:   config.Temperature,
		Timeout:       config.Timeout,
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
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	return c
}
