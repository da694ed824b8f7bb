package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.AI.Provider != "bedrock" {
		t.Errorf("default provider: got %s", cfg.AI.Provider)
	}
	if cfg.AI.Dimension != 384 {
		t.Errorf("default dimension: got %d", cfg.AI.Dimension)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("default top_k: got %d", cfg.Retrieval.TopK)
	}
	if cfg.Storage.VectorStoreDir == "" {
		t.Error("default vector_store_dir is empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.AI.Provider = "anthropic" },
			wantErr: "invalid AI provider",
		},
		{
			name:    "zero dimension",
			mutate:  func(c *Config) { c.AI.Dimension = 0 },
			wantErr: "dimension",
		},
		{
			name:    "negative max tokens",
			mutate:  func(c *Config) { c.AI.MaxTokens = -1 },
			wantErr: "max_tokens",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.AI.Temperature = 3.5 },
			wantErr: "temperature",
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.Storage.DataDir = "" },
			wantErr: "data_dir",
		},
		{
			name:    "zero top_k",
			mutate:  func(c *Config) { c.Retrieval.TopK = 0 },
			wantErr: "top_k",
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "invalid output format",
		},
		{
			name:    "bad color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "rainbow" },
			wantErr: "invalid color mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.Timeout = -1 * time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("negative timeout must fail validation")
	}
}
