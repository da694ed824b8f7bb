package ai

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Config carries provider-agnostic configuration. Individual providers
// pick the fields they understand and validate them at creation time.
type Config struct {
	// Provider is the backend identifier (bedrock, openai)
	Provider string

	// Region is the cloud region for SDK-based providers
	Region string

	// BaseURL overrides the API endpoint for HTTP providers
	BaseURL string

	// APIKey for authentication
	APIKey string

	// EmbedModel is the embedding model identifier
	EmbedModel string

	// GenerateModel is the answer-generation model identifier
	GenerateModel string

	// Dimension is the embedding vector dimension
	Dimension int

	// MaxTokens limits generated answers
	MaxTokens int

	// Temperature for generation requests
	Temperature float64

	// Timeout for remote requests
	Timeout time.Duration
}

// Factory creates provider instances for one backend type.
type Factory interface {
	// Create creates a new provider with the given config
	Create(ctx context.Context, config *Config) (Provider, error)

	// Type returns the provider type this factory creates
	Type() string
}

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// RegisterProvider adds a provider factory under a name. Registering
// the same name twice is a registration error.
func RegisterProvider(name string, factory Factory) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := factories[name]; exists {
		return &ProviderError{
			Type:     ErrTypeRegistration,
			Message:  "provider already registered",
			Provider: name,
		}
	}
	factories[name] = factory
	return nil
}

// NewProvider creates a provider by registered name.
func NewProvider(ctx context.Context, name string, config *Config) (Provider, error) {
	registryMu.RLock()
	factory, exists := factories[name]
	registryMu.RUnlock()

	if !exists {
		return nil, &ProviderError{
			Type:     ErrTypeNotFound,
			Message:  "provider not registered",
			Provider: name,
		}
	}
	return factory.Create(ctx, config)
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
