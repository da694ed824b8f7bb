package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	AI        AIConfig        `yaml:"ai" json:"ai"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`
	Retrieval RetrievalConfig `yaml:"retrieval" json:"retrieval"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// AIConfig configures AI provider settings
type AIConfig struct {
	Provider      string        `yaml:"provider" json:"provider"`             // bedrock|openai
	Region        string        `yaml:"region" json:"region"`                 // AWS region (bedrock)
	Endpoint      string        `yaml:"endpoint" json:"endpoint"`             // API base URL override (openai)
	APIKey        string        `yaml:"api_key" json:"api_key"`               // API key (openai)
	EmbedModel    string        `yaml:"embed_model" json:"embed_model"`       // embedding model identifier
	GenerateModel string        `yaml:"generate_model" json:"generate_model"` // generation model identifier
	Dimension     int           `yaml:"dimension" json:"dimension"`           // embedding vector length
	MaxTokens     int           `yaml:"max_tokens" json:"max_tokens"`         // generation token budget
	Temperature   float64       `yaml:"temperature" json:"temperature"`       // generation temperature
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`               // request timeout
}

// StorageConfig configures the staging and persistence directories
type StorageConfig struct {
	DataDir        string `yaml:"data_dir" json:"data_dir"`                 // extracted fragment staging root
	VectorStoreDir string `yaml:"vector_store_dir" json:"vector_store_dir"` // snapshot directory
}

// RetrievalConfig configures similarity search behavior
type RetrievalConfig struct {
	TopK int `yaml:"top_k" json:"top_k"` // results per query
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	Format    string `yaml:"format" json:"format"`         // text|markdown|json
	ColorMode string `yaml:"color_mode" json:"color_mode"` // auto|always|never
	Verbose   bool   `yaml:"verbose" json:"verbose"`       // default verbosity
	Emoji     bool   `yaml:"emoji" json:"emoji"`           // emoji in terminal output
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		AI: AIConfig{
			Provider:      "bedrock",
			Region:        "us-east-1",
			EmbedModel:    "amazon.titan-embed-image-v1",
			GenerateModel: "anthropic.claude-3-sonnet-20240229-v1:0",
			Dimension:     384,
			MaxTokens:     1000,
			Temperature:   0.7,
			Timeout:       60 * time.Second,
		},
		Storage: StorageConfig{
			DataDir:        "./data",
			VectorStoreDir: "./vector_store",
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Output: OutputConfig{
			Format:    "text",
			ColorMode: "auto",
			Verbose:   false,
			Emoji:     true,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAIConfig(); err != nil {
		return err
	}
	if err := c.validateStorageConfig(); err != nil {
		return err
	}
	if err := c.validateRetrievalConfig(); err != nil {
		return err
	}
	return c.validateOutputConfig()
}

// validateAIConfig validates AI-related configuration
func (c *Config) validateAIConfig() error {
	if c.AI.Provider != "" {
		validProviders := map[string]bool{
			"bedrock": true,
			"openai":  true,
		}
		if !validProviders[c.AI.Provider] {
			return fmt.Errorf("invalid AI provider: %s (must be one of: bedrock, openai)", c.AI.Provider)
		}
	}
	if c.AI.Dimension < 1 {
		return fmt.Errorf("dimension must be greater than 0")
	}
	if c.AI.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be greater than 0")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

// validateStorageConfig validates storage-related configuration
func (c *Config) validateStorageConfig() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Storage.VectorStoreDir == "" {
		return fmt.Errorf("vector_store_dir must not be empty")
	}
	return nil
}

// validateRetrievalConfig validates retrieval-related configuration
func (c *Config) validateRetrievalConfig() error {
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("top_k must be greater than 0")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.Format != "" {
		validFormats := map[string]bool{
			"text":     true,
			"markdown": true,
			"json":     true,
		}
		if !validFormats[c.Output.Format] {
			return fmt.Errorf("invalid output format: %s (must be one of: text, markdown, json)", c.Output.Format)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}
