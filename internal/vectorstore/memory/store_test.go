package memory_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/vectorstore/memory"
)

func newStore(t *testing.T, metric domain.Metric) *memory.Store {
	t.Helper()
	store, err := memory.NewStore(metric, 0)
	require.NoError(t, err)
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("should default to euclidean", func(t *testing.T) {
		store, err := memory.NewStore("", 0)
		require.NoError(t, err)
		require.NotNil(t, store)
	})

	t.Run("should reject unknown metric", func(t *testing.T) {
		store, err := memory.NewStore("manhattan", 0)
		require.Error(t, err)
		require.Nil(t, store)
		require.Contains(t, err.Error(), "unsupported distance metric")
	})

	t.Run("should reject negative dimension", func(t *testing.T) {
		store, err := memory.NewStore(domain.MetricEuclidean, -1)
		require.Error(t, err)
		require.Nil(t, store)
	})
}

func TestStore_NearestNeighbors_EmptyStore(t *testing.T) {
	store := newStore(t, domain.MetricEuclidean)

	neighbors, err := store.NearestNeighbors(context.Background(), domain.Embedding{1, 0}, 1)

	require.NoError(t, err)
	require.NotNil(t, neighbors)
	require.Empty(t, neighbors)
}

func TestStore_NearestNeighbors_OrderedByDistance(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, domain.MetricEuclidean)

	require.NoError(t, store.Insert(ctx, "far", domain.Embedding{0, 1}, "far answer"))
	require.NoError(t, store.Insert(ctx, "near", domain.Embedding{1, 0}, "near answer"))
	require.NoError(t, store.Insert(ctx, "mid", domain.Embedding{0.7, 0.7}, "mid answer"))

	neighbors, err := store.NearestNeighbors(ctx, domain.Embedding{0.99, 0.01}, 3)
	require.NoError(t, err)
	require.Len(t, neighbors, 3)

	require.Equal(t, "near", neighbors[0].ID)
	require.Equal(t, "near answer", neighbors[0].Document)
	require.InDelta(t, math.Sqrt(0.0002), neighbors[0].Distance, 1e-9)
	require.Equal(t, "mid", neighbors[1].ID)
	require.Equal(t, "far", neighbors[2].ID)

	for i := 1; i < len(neighbors); i++ {
		require.LessOrEqual(t, neighbors[i-1].Distance, neighbors[i].Distance)
	}
}

func TestStore_NearestNeighbors_LimitsToK(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, domain.MetricEuclidean)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Insert(ctx, fmt.Sprintf("e%d", i), domain.Embedding{float64(i), 0}, "doc"))
	}

	neighbors, err := store.NearestNeighbors(ctx, domain.Embedding{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	require.Equal(t, "e0", neighbors[0].ID)
	require.Equal(t, "e1", neighbors[1].ID)
}

func TestStore_NearestNeighbors_InvalidK(t *testing.T) {
	store := newStore(t, domain.MetricEuclidean)

	_, err := store.NearestNeighbors(context.Background(), domain.Embedding{1}, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "k must be positive")
}

func TestStore_CosineMetric(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, domain.MetricCosine)

	// Same direction as the query but far away in L2 terms.
	require.NoError(t, store.Insert(ctx, "scaled", domain.Embedding{10, 0}, "scaled"))
	require.NoError(t, store.Insert(ctx, "orthogonal", domain.Embedding{0, 1}, "orthogonal"))

	neighbors, err := store.NearestNeighbors(ctx, domain.Embedding{1, 0}, 2)
	require.NoError(t, err)
	require.Equal(t, "scaled", neighbors[0].ID)
	require.InDelta(t, 0.0, neighbors[0].Distance, 1e-9)
	require.InDelta(t, 1.0, neighbors[1].Distance, 1e-9)
}

func TestStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, domain.MetricEuclidean)

	require.NoError(t, store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc"))

	t.Run("should reject insert with different dimension", func(t *testing.T) {
		err := store.Insert(ctx, "b", domain.Embedding{1, 0, 0}, "doc")
		require.ErrorIs(t, err, domain.ErrDimensionMismatch)

		size, lenErr := store.Len(ctx)
		require.NoError(t, lenErr)
		require.Equal(t, 1, size)
	})

	t.Run("should reject query with different dimension", func(t *testing.T) {
		_, err := store.NearestNeighbors(ctx, domain.Embedding{1, 0, 0}, 1)
		require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("should reject empty embedding", func(t *testing.T) {
		err := store.Insert(ctx, "c", domain.Embedding{}, "doc")
		require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})
}

func TestStore_ConfiguredDimension(t *testing.T) {
	ctx := context.Background()
	store, err := memory.NewStore(domain.MetricEuclidean, 3)
	require.NoError(t, err)

	err = store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc")
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)

	require.NoError(t, store.Reset(ctx))

	err = store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc")
	require.ErrorIs(t, err, domain.ErrDimensionMismatch, "configured dimension survives reset")
}

func TestStore_Insert_DuplicateID(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, domain.MetricEuclidean)

	require.NoError(t, store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc"))

	err := store.Insert(ctx, "a", domain.Embedding{0, 1}, "other")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestStore_Insert_CopiesEmbedding(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, domain.MetricEuclidean)

	embedding := domain.Embedding{1, 0}
	require.NoError(t, store.Insert(ctx, "a", embedding, "doc"))
	embedding[0] = 42

	entries := store.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, domain.Embedding{1, 0}, entries[0].Embedding)
	require.False(t, entries[0].CreatedAt.IsZero())
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, domain.MetricEuclidean)

	require.NoError(t, store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc"))
	require.NoError(t, store.Reset(ctx))
	require.NoError(t, store.Reset(ctx))

	size, err := store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, size)

	// A new dimensionality is accepted after reset.
	require.NoError(t, store.Insert(ctx, "b", domain.Embedding{1, 0, 0}, "doc"))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, domain.MetricEuclidean)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Insert(ctx, fmt.Sprintf("e%d", i), domain.Embedding{float64(i), 1}, "doc")
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.NearestNeighbors(ctx, domain.Embedding{0, 1}, 1)
		}()
	}
	wg.Wait()

	size, err := store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 50, size)
}
