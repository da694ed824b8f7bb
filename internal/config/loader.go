package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.docsift.yaml",               // Project-specific config (highest priority)
	"~/.config/docsift/config.yaml", // User config
	"/etc/docsift/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.docsift.yaml
// 4. ~/.config/docsift/config.yaml
// 5. /etc/docsift/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	// If custom path is provided, use only that path
	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load from standard paths in reverse priority order (lowest to highest)
		paths := make([]string, len(l.configPaths))
		copy(paths, l.configPaths)
		for i := len(paths)/2 - 1; i >= 0; i-- {
			opp := len(paths) - 1 - i
			paths[i], paths[opp] = paths[opp], paths[i]
		}

		for _, path := range paths {
			expandedPath := expandPath(path)
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					// Log warning but continue with other config files
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// AI Config
		"DOCSIFT_AI_PROVIDER":       func(v string) error { config.AI.Provider = v; return nil },
		"DOCSIFT_AI_REGION":         func(v string) error { config.AI.Region = v; return nil },
		"DOCSIFT_AI_ENDPOINT":       func(v string) error { config.AI.Endpoint = v; return nil },
		"DOCSIFT_AI_API_KEY":        func(v string) error { config.AI.APIKey = v; return nil },
		"DOCSIFT_AI_EMBED_MODEL":    func(v string) error { config.AI.EmbedModel = v; return nil },
		"DOCSIFT_AI_GENERATE_MODEL": func(v string) error { config.AI.GenerateModel = v; return nil },
		"DOCSIFT_AI_DIMENSION":      func(v string) error { return parseInt(v, &config.AI.Dimension) },
		"DOCSIFT_AI_MAX_TOKENS":     func(v string) error { return parseInt(v, &config.AI.MaxTokens) },
		"DOCSIFT_AI_TEMPERATURE":    func(v string) error { return parseFloat(v, &config.AI.Temperature) },
		"DOCSIFT_AI_TIMEOUT":        func(v string) error { return parseDuration(v, &config.AI.Timeout) },

		// Storage Config
		"DOCSIFT_STORAGE_DATA_DIR":         func(v string) error { config.Storage.DataDir = v; return nil },
		"DOCSIFT_STORAGE_VECTOR_STORE_DIR": func(v string) error { config.Storage.VectorStoreDir = v; return nil },

		// Retrieval Config
		"DOCSIFT_RETRIEVAL_TOP_K": func(v string) error { return parseInt(v, &config.Retrieval.TopK) },

		// Output Config
		"DOCSIFT_OUTPUT_FORMAT":     func(v string) error { config.Output.Format = v; return nil },
		"DOCSIFT_OUTPUT_COLOR_MODE": func(v string) error { config.Output.ColorMode = v; return nil },
		"DOCSIFT_OUTPUT_VERBOSE":    func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"DOCSIFT_OUTPUT_EMOJI":      func(v string) error { return parseBool(v, &config.Output.Emoji) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeAIConfig(&dst.AI, &src.AI)
	mergeStorageConfig(&dst.Storage, &src.Storage)
	mergeRetrievalConfig(&dst.Retrieval, &src.Retrieval)
	mergeOutputConfig(&dst.Output, &src.Output)
}

// mergeAIConfig merges AI configuration
func mergeAIConfig(dst, src *AIConfig) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Region != "" {
		dst.Region = src.Region
	}
	if src.Endpoint != "" {
		dst.Endpoint = src.Endpoint
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.EmbedModel != "" {
		dst.EmbedModel = src.EmbedModel
	}
	if src.GenerateModel != "" {
		dst.GenerateModel = src.GenerateModel
	}
	if src.Dimension != 0 {
		dst.Dimension = src.Dimension
	}
	if src.MaxTokens != 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.Temperature != 0 {
		dst.Temperature = src.Temperature
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
}

// mergeStorageConfig merges storage configuration
func mergeStorageConfig(dst, src *StorageConfig) {
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	if src.VectorStoreDir != "" {
		dst.VectorStoreDir = src.VectorStoreDir
	}
}

// mergeRetrievalConfig merges retrieval configuration
func mergeRetrievalConfig(dst, src *RetrievalConfig) {
	if src.TopK != 0 {
		dst.TopK = src.TopK
	}
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig) {
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	// For boolean fields, we need to check if they were explicitly set
	// This is a limitation of YAML unmarshaling, but we'll handle it in env overrides
	mergeIfSet(&dst.Verbose, src.Verbose)
	mergeIfSet(&dst.Emoji, src.Emoji)
}

// mergeIfSet only merges boolean values if they appear to be explicitly set
// This is a simple heuristic, but works for most cases
func mergeIfSet(dst *bool, src bool) {
	// For now, always merge - this could be improved with custom unmarshaling
	*dst = src
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
