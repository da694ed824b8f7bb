package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/docsift/docsift/internal/ai"
	"github.com/docsift/docsift/internal/ai/providers/bedrock"
	"github.com/docsift/docsift/internal/ai/providers/openai"
	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/formatter"
	"github.com/docsift/docsift/internal/logger"
	"github.com/docsift/docsift/internal/retriever"
	"github.com/docsift/docsift/internal/snapshot"
	"github.com/docsift/docsift/internal/vectorstore"
)

var registerProvidersOnce sync.Once

// registerProviders wires the built-in provider factories into the
// registry. Safe to call from every command entry point.
func registerProviders() {
	registerProvidersOnce.Do(func() {
		if err := bedrock.Register(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		if err := openai.Register(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	})
}

// session bundles everything a command needs against one loaded
// knowledge base: configuration, the restored store and cache, the AI
// provider and the retrieval orchestrator. No package-level state is
// involved; each command opens its own session and closes it.
type session struct {
	cfg       *config.Config
	manager   *snapshot.Manager
	store     *vectorstore.Store
	cache     *vectorstore.QueryCache
	provider  ai.Provider
	retriever *retriever.Retriever
	log       *logger.Logger
}

// loadConfig resolves the effective configuration from files, env and
// flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noEmoji {
		cfg.Output.Emoji = false
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}
	if outputFmt != "" {
		cfg.Output.Format = outputFmt
	}
	return cfg, nil
}

// openSession loads configuration, creates the provider and restores
// the snapshot. The caller must close the session when done.
func openSession(ctx context.Context, component string) (*session, error) {
	registerProviders()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.NewWithCallback(component, func() bool { return cfg.Output.Verbose })

	provider, err := ai.NewProvider(ctx, cfg.AI.Provider, &ai.Config{
		Provider:      cfg.AI.Provider,
		Region:        cfg.AI.Region,
		BaseURL:       cfg.AI.Endpoint,
		APIKey:        cfg.AI.APIKey,
		EmbedModel:    cfg.AI.EmbedModel,
		GenerateModel: cfg.AI.GenerateModel,
		Dimension:     cfg.AI.Dimension,
		MaxTokens:     cfg.AI.MaxTokens,
		Temperature:   cfg.AI.Temperature,
		Timeout:       cfg.AI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	manager := snapshot.NewManager(cfg.Storage.VectorStoreDir, cfg.AI.Dimension)
	store, cache, err := manager.Load()
	if err != nil {
		closeProvider(provider)
		return nil, fmt.Errorf("failed to load vector store: %w", err)
	}

	log.Debug("session opened",
		logger.F("provider", provider.Name()),
		logger.F("items", store.Size()),
		logger.F("cached_queries", cache.Len()))

	return &session{
		cfg:       cfg,
		manager:   manager,
		store:     store,
		cache:     cache,
		provider:  provider,
		retriever: retriever.New(store, cache, provider, log.WithComponent("retriever")),
		log:       log,
	}, nil
}

// save persists the current store and cache state.
func (s *session) save() error {
	return s.manager.Save(s.store, s.cache)
}

// close releases the provider.
func (s *session) close() {
	closeProvider(s.provider)
}

// formatter builds the output formatter from the effective config.
func (s *session) formatter() (formatter.Formatter, error) {
	color := s.cfg.Output.ColorMode != "never"
	return formatter.New(s.cfg.Output.Format, color, s.cfg.Output.Emoji)
}

func closeProvider(provider ai.Provider) {
	if err := provider.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close provider: %v\n", err)
	}
}
