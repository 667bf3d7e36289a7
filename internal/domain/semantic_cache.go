package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/davidbz/semcache/internal/observability"
)

// EventCacheResolved is published once per resolved query.
const EventCacheResolved = "cache.resolved"

// IDGenerator returns a new cache entry id. Ids must not collide within a process run.
type IDGenerator func() string

// NewEntryID returns a time-ordered UUIDv7, falling back to a random UUID.
func NewEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithEventPublisher publishes a cache.resolved event for every outcome.
func WithEventPublisher(publisher EventPublisher) EngineOption {
	return func(e *Engine) {
		e.events = publisher
	}
}

// WithProviderTimeout bounds every embedding and generation call. Zero disables the bound.
func WithProviderTimeout(timeout time.Duration) EngineOption {
	return func(e *Engine) {
		e.providerTimeout = timeout
	}
}

// WithIDGenerator overrides how entry ids are generated.
func WithIDGenerator(gen IDGenerator) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// Engine decides between reusing a stored answer and generating a new one.
type Engine struct {
	embedder        EmbeddingProvider
	answerer        AnswerProvider
	store           VectorStore
	events          EventPublisher
	threshold       float64
	providerTimeout time.Duration
	newID           IDGenerator

	hits   atomic.Int64
	misses atomic.Int64
}

// NewEngine creates a semantic cache engine. The store is owned by the engine
// from this point on; threshold is a distance in the store's metric.
func NewEngine(
	embedder EmbeddingProvider,
	answerer AnswerProvider,
	store VectorStore,
	threshold float64,
	opts ...EngineOption,
) (*Engine, error) {
	if embedder == nil {
		return nil, errors.New("embedding provider cannot be nil")
	}
	if answerer == nil {
		return nil, errors.New("answer provider cannot be nil")
	}
	if store == nil {
		return nil, errors.New("vector store cannot be nil")
	}
	if threshold < 0 {
		return nil, fmt.Errorf("threshold must be non-negative, got %f", threshold)
	}

	e := &Engine{
		embedder:  embedder,
		answerer:  answerer,
		store:     store,
		threshold: threshold,
		newID:     NewEntryID,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Threshold returns the configured similarity cutoff.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Resolve answers a query from the cache when a close enough neighbor exists,
// and otherwise generates, stores and returns a new answer.
func (e *Engine) Resolve(ctx context.Context, query string) (*QueryOutcome, error) {
	start := time.Now()
	logger := observability.FromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := e.embed(ctx, query)
	if err != nil {
		logger.Error("failed to embed query", observability.Error(err))
		return nil, err
	}
	logger.Debug("query embedded",
		observability.Int("embedding_dimension", embedding.Dimension()))

	neighbors, err := e.store.NearestNeighbors(ctx, embedding, 1)
	if err != nil {
		logger.Error("nearest neighbor search failed", observability.Error(err))
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	outcome := &QueryOutcome{Query: query}
	if len(neighbors) > 0 {
		nearest := neighbors[0]
		outcome.Nearest = &nearest
	}

	if e.isHit(neighbors) {
		logger.Info("cache HIT",
			observability.Float64("distance", neighbors[0].Distance),
			observability.Float64("threshold", e.threshold),
			observability.String("entry_id", neighbors[0].ID))

		outcome.Decision = DecisionHit
		outcome.Answer = neighbors[0].Document
		e.hits.Add(1)
	} else {
		logger.Info("cache MISS - calling answer provider",
			observability.Float64("threshold", e.threshold),
			observability.Bool("store_empty", len(neighbors) == 0))

		answer, genErr := e.generate(ctx, query)
		if genErr != nil {
			logger.Error("failed to generate answer", observability.Error(genErr))
			return nil, genErr
		}

		id := e.newID()
		if insertErr := e.store.Insert(ctx, id, embedding, answer); insertErr != nil {
			logger.Error("failed to store answer",
				observability.Error(insertErr),
				observability.String("entry_id", id))
			return nil, fmt.Errorf("failed to store answer: %w", insertErr)
		}

		outcome.Decision = DecisionMiss
		outcome.Answer = answer
		outcome.EntryID = id
		e.misses.Add(1)
	}

	outcome.Elapsed = time.Since(start)
	e.publish(ctx, outcome)

	return outcome, nil
}

// Reset creates or clears the underlying store and zeroes the counters.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset vector store: %w", err)
	}

	e.hits.Store(0)
	e.misses.Store(0)

	observability.FromContext(ctx).Info("semantic cache reset")
	return nil
}

// Stats returns cache performance metrics.
func (e *Engine) Stats(ctx context.Context) (*CacheStats, error) {
	entries, err := e.store.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	return &CacheStats{
		Hits:    e.hits.Load(),
		Misses:  e.misses.Load(),
		Entries: entries,
	}, nil
}

// isHit applies the strict threshold rule: a neighbor exactly at the threshold is a miss.
func (e *Engine) isHit(neighbors []Neighbor) bool {
	return len(neighbors) > 0 && neighbors[0].Distance < e.threshold
}

func (e *Engine) embed(ctx context.Context, query string) (Embedding, error) {
	callCtx, cancel := e.callContext(ctx)
	defer cancel()

	embedding, err := e.embedder.Embed(callCtx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailure, err)
	}

	if validateErr := ValidateEmbedding(embedding); validateErr != nil {
		return nil, fmt.Errorf("%w: %s returned invalid embedding: %w",
			ErrEmbeddingFailure, e.embedder.Name(), validateErr)
	}

	return embedding, nil
}

func (e *Engine) generate(ctx context.Context, query string) (string, error) {
	callCtx, cancel := e.callContext(ctx)
	defer cancel()

	answer, err := e.answerer.Generate(callCtx, query)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailure, err)
	}

	return answer, nil
}

func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.providerTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.providerTimeout)
}

func (e *Engine) publish(ctx context.Context, outcome *QueryOutcome) {
	if e.events == nil {
		return
	}

	data := map[string]interface{}{
		"decision":   string(outcome.Decision),
		"elapsed_ms": outcome.Elapsed.Milliseconds(),
		"threshold":  e.threshold,
	}
	if outcome.Nearest != nil {
		data["distance"] = outcome.Nearest.Distance
	}
	if outcome.EntryID != "" {
		data["entry_id"] = outcome.EntryID
	}

	e.events.Publish(ctx, EventCacheResolved, data)
}
