package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/semcache/internal/cache/redis"
	"github.com/davidbz/semcache/internal/config"
	"github.com/davidbz/semcache/internal/domain"
	embeddinggoogle "github.com/davidbz/semcache/internal/embedding/google"
	"github.com/davidbz/semcache/internal/embedding/hashing"
	embeddingopenai "github.com/davidbz/semcache/internal/embedding/openai"
	"github.com/davidbz/semcache/internal/history"
	"github.com/davidbz/semcache/internal/http"
	"github.com/davidbz/semcache/internal/http/middleware"
	"github.com/davidbz/semcache/internal/observability"
	"github.com/davidbz/semcache/internal/provider/echo"
	"github.com/davidbz/semcache/internal/provider/google"
	"github.com/davidbz/semcache/internal/provider/openai"
	"github.com/davidbz/semcache/internal/provider/registry"
	"github.com/davidbz/semcache/internal/vectorstore/memory"
	"github.com/davidbz/semcache/internal/vectorstore/qdrant"
	"github.com/davidbz/semcache/internal/vectorstore/sqlite"
)

type (
	embeddingRegistry = registry.Registry[domain.EmbeddingProvider]
	answerRegistry    = registry.Registry[domain.AnswerProvider]
)

// closers collects cleanup functions for backend connections.
type closers struct {
	fns []func() error
}

func (c *closers) add(fn func() error) {
	c.fns = append(c.fns, fn)
}

func (c *closers) closeAll() error {
	var errs []error
	for i := len(c.fns) - 1; i >= 0; i-- {
		errs = append(errs, c.fns[i]())
	}
	return errors.Join(errs...)
}

// buildContainer wires every component. Overrides are applied to the loaded
// configuration before anything consumes it.
func buildContainer(overrides ...func(*config.Config)) (*dig.Container, error) {
	container := dig.New()

	// Configuration
	if err := container.Provide(func() (*config.Config, error) {
		cfg, err := config.Parse()
		if err != nil {
			return nil, err
		}
		for _, override := range overrides {
			override(cfg)
		}
		return cfg, cfg.Validate()
	}); err != nil {
		return nil, fmt.Errorf("failed to provide config: %w", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		return nil, fmt.Errorf("failed to provide config dependencies: %w", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		return nil, fmt.Errorf("failed to provide logger: %w", err)
	}
	if err := container.Provide(func(logger *zap.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		return nil, fmt.Errorf("failed to provide event bus: %w", err)
	}
	if err := container.Provide(func() *closers { return &closers{} }); err != nil {
		return nil, fmt.Errorf("failed to provide closers: %w", err)
	}

	// Provider registries
	if err := container.Provide(newEmbeddingRegistry); err != nil {
		return nil, fmt.Errorf("failed to provide embedding registry: %w", err)
	}
	if err := container.Provide(newAnswerRegistry); err != nil {
		return nil, fmt.Errorf("failed to provide answer registry: %w", err)
	}
	if err := container.Provide(func(reg *embeddingRegistry, cfg *config.ProvidersConfig) (domain.EmbeddingProvider, error) {
		return reg.Get(context.Background(), cfg.Embedding)
	}); err != nil {
		return nil, fmt.Errorf("failed to provide embedding provider: %w", err)
	}
	if err := container.Provide(func(reg *answerRegistry, cfg *config.ProvidersConfig) (domain.AnswerProvider, error) {
		return reg.Get(context.Background(), cfg.Answer)
	}); err != nil {
		return nil, fmt.Errorf("failed to provide answer provider: %w", err)
	}

	// Storage
	if err := container.Provide(newVectorStore); err != nil {
		return nil, fmt.Errorf("failed to provide vector store: %w", err)
	}

	// Domain Services
	if err := container.Provide(newEngine); err != nil {
		return nil, fmt.Errorf("failed to provide engine: %w", err)
	}
	if err := container.Provide(func(cfg *history.Config) (*history.Recorder, error) {
		return history.NewRecorder(*cfg)
	}); err != nil {
		return nil, fmt.Errorf("failed to provide history recorder: %w", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		return nil, fmt.Errorf("failed to provide middleware chain: %w", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		return nil, fmt.Errorf("failed to provide HTTP handler: %w", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		return nil, fmt.Errorf("failed to provide HTTP server: %w", err)
	}

	// The logger must be configured before any backend is opened.
	if err := container.Invoke(func(*zap.Logger) {}); err != nil {
		return nil, dig.RootCause(err)
	}

	return container, nil
}

// newEmbeddingRegistry registers the offline hashing embedder and every
// hosted embedder that has an API key.
func newEmbeddingRegistry(
	hashingCfg *hashing.Config,
	openaiCfg *embeddingopenai.Config,
	googleCfg *embeddinggoogle.Config,
) (*embeddingRegistry, error) {
	ctx := context.Background()
	reg := registry.NewEmbeddingRegistry()

	hashingEmbedder, err := hashing.NewEmbedder(*hashingCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create hashing embedder: %w", err)
	}
	if err := reg.Register(ctx, hashingEmbedder); err != nil {
		return nil, fmt.Errorf("failed to register hashing embedder: %w", err)
	}

	if openaiCfg.APIKey != "" {
		generator, err := embeddingopenai.NewGenerator(*openaiCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI embedder: %w", err)
		}
		if err := reg.Register(ctx, generator); err != nil {
			return nil, fmt.Errorf("failed to register OpenAI embedder: %w", err)
		}
	}

	if googleCfg.APIKey != "" {
		generator, err := embeddinggoogle.NewGenerator(*googleCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google embedder: %w", err)
		}
		if err := reg.Register(ctx, generator); err != nil {
			return nil, fmt.Errorf("failed to register Google embedder: %w", err)
		}
	}

	return reg, nil
}

// newAnswerRegistry registers the echo provider and every hosted provider
// that has an API key.
func newAnswerRegistry(
	echoCfg *echo.Config,
	openaiCfg *openai.Config,
	googleCfg *google.Config,
) (*answerRegistry, error) {
	ctx := context.Background()
	reg := registry.NewAnswerRegistry()

	if err := reg.Register(ctx, echo.NewProvider(*echoCfg)); err != nil {
		return nil, fmt.Errorf("failed to register echo provider: %w", err)
	}

	if openaiCfg.APIKey != "" {
		provider, err := openai.NewProvider(*openaiCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
		}
		if err := reg.Register(ctx, provider); err != nil {
			return nil, fmt.Errorf("failed to register OpenAI provider: %w", err)
		}
	}

	if googleCfg.APIKey != "" {
		provider, err := google.NewProvider(*googleCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google provider: %w", err)
		}
		if err := reg.Register(ctx, provider); err != nil {
			return nil, fmt.Errorf("failed to register Google provider: %w", err)
		}
	}

	return reg, nil
}

// newVectorStore opens the configured backend sized to the embedder's dimension.
func newVectorStore(
	cfg *config.Config,
	embedder domain.EmbeddingProvider,
	cleanup *closers,
) (domain.VectorStore, error) {
	metric, err := cfg.Engine.DistanceMetric()
	if err != nil {
		return nil, err
	}
	dimension := embedder.Dimension()

	switch cfg.VectorStore.Backend {
	case config.BackendMemory:
		return memory.NewStore(metric, dimension)

	case config.BackendRedis:
		client := redis.NewClient(cfg.Redis)
		cleanup.add(client.Close)
		return redis.NewVectorSearch(client, cfg.Redis, metric, dimension)

	case config.BackendQdrant:
		client, err := qdrant.NewClient(cfg.Qdrant)
		if err != nil {
			return nil, err
		}
		cleanup.add(client.Close)
		return qdrant.NewStore(client, cfg.Qdrant.Collection, metric, dimension)

	case config.BackendSQLite:
		store, err := sqlite.NewStore(cfg.SQLite, metric, dimension)
		if err != nil {
			return nil, err
		}
		cleanup.add(store.Close)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported vector store backend %q", cfg.VectorStore.Backend)
	}
}

func newEngine(
	embedder domain.EmbeddingProvider,
	answerer domain.AnswerProvider,
	store domain.VectorStore,
	events domain.EventPublisher,
	cfg *config.EngineConfig,
) (*domain.Engine, error) {
	return domain.NewEngine(embedder, answerer, store, cfg.Threshold,
		domain.WithEventPublisher(events),
		domain.WithProviderTimeout(cfg.ProviderTimeout),
	)
}
