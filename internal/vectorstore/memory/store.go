// Package memory provides the default in-process vector store. It keeps every
// cache entry in a slice guarded by a read/write mutex and answers
// nearest-neighbor queries with an exact linear scan.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/observability"
)

// Compile-time interface check.
var _ domain.VectorStore = (*Store)(nil)

// Store implements domain.VectorStore in memory.
type Store struct {
	mu         sync.RWMutex
	metric     domain.Metric
	configured int
	dimension  int
	entries    []domain.CacheEntry
}

// NewStore creates an empty store. A zero dimension is fixed by the first insert.
func NewStore(metric domain.Metric, dimension int) (*Store, error) {
	if metric == "" {
		metric = domain.MetricEuclidean
	}
	if _, err := domain.ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if dimension < 0 {
		return nil, fmt.Errorf("dimension must be non-negative, got %d", dimension)
	}

	return &Store{
		mu:         sync.RWMutex{},
		metric:     metric,
		configured: dimension,
		dimension:  dimension,
		entries:    make([]domain.CacheEntry, 0),
	}, nil
}

// Insert appends a new entry.
func (s *Store) Insert(ctx context.Context, id string, embedding domain.Embedding, document string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if err := domain.ValidateEmbedding(embedding); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		s.dimension = embedding.Dimension()
	}
	if embedding.Dimension() != s.dimension {
		return fmt.Errorf("%w: store has %d, insert has %d",
			domain.ErrDimensionMismatch, s.dimension, embedding.Dimension())
	}

	for _, entry := range s.entries {
		if entry.ID == id {
			return fmt.Errorf("entry %s already exists", id)
		}
	}

	s.entries = append(s.entries, domain.CacheEntry{
		ID:        id,
		Embedding: embedding.Clone(),
		Document:  document,
		CreatedAt: time.Now(),
	})

	observability.FromContext(ctx).Debug("entry inserted into memory store",
		observability.String("entry_id", id),
		observability.Int("entries", len(s.entries)))

	return nil
}

// NearestNeighbors returns up to k entries ordered ascending by distance.
func (s *Store) NearestNeighbors(_ context.Context, query domain.Embedding, k int) ([]domain.Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return []domain.Neighbor{}, nil
	}

	if query.Dimension() != s.dimension {
		return nil, fmt.Errorf("%w: store has %d, query has %d",
			domain.ErrDimensionMismatch, s.dimension, query.Dimension())
	}

	neighbors := make([]domain.Neighbor, 0, len(s.entries))
	for _, entry := range s.entries {
		distance, err := s.metric.Distance(query, entry.Embedding)
		if err != nil {
			return nil, err
		}
		neighbors = append(neighbors, domain.Neighbor{
			ID:       entry.ID,
			Distance: distance,
			Document: entry.Document,
		})
	}

	// Stable keeps insertion order among equal distances.
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Reset removes every entry. A dimension fixed by an earlier insert is released;
// a dimension given to NewStore is kept.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]domain.CacheEntry, 0)
	s.dimension = s.configured
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries), nil
}

// Entries returns a snapshot of the stored entries in insertion order.
func (s *Store) Entries() []domain.CacheEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CacheEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
