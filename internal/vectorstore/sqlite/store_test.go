package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/vectorstore/sqlite"
)

// testDBPath returns a temp SQLite database path.
func testDBPath(t *testing.T, name string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "semcache-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, name+".db")
}

func newStore(t *testing.T, cfg sqlite.Config, metric domain.Metric, dimension int) *sqlite.Store {
	t.Helper()
	store, err := sqlite.NewStore(cfg, metric, dimension)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore_Validation(t *testing.T) {
	_, err := sqlite.NewStore(sqlite.Config{}, domain.MetricEuclidean, 0)
	require.ErrorContains(t, err, "embedding dimension must be positive")

	_, err = sqlite.NewStore(sqlite.Config{}, "hamming", 3)
	require.ErrorContains(t, err, "unsupported distance metric")
}

func TestStore_InsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sqlite.Config{Path: testDBPath(t, "vectors")}, domain.MetricEuclidean, 3)

	require.NoError(t, store.Insert(ctx, "v1", domain.Embedding{1, 0, 0}, "first"))
	require.NoError(t, store.Insert(ctx, "v2", domain.Embedding{0, 1, 0}, "second"))
	require.NoError(t, store.Insert(ctx, "v3", domain.Embedding{0.9, 0.1, 0}, "third"))

	neighbors, err := store.NearestNeighbors(ctx, domain.Embedding{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	require.Equal(t, "v1", neighbors[0].ID)
	require.Equal(t, "first", neighbors[0].Document)
	require.InDelta(t, 0.0, neighbors[0].Distance, 1e-6)
	require.Equal(t, "v3", neighbors[1].ID)
	require.InDelta(t, 0.1414, neighbors[1].Distance, 1e-3)

	size, err := store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, size)
}

func TestStore_InMemoryByDefault(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sqlite.Config{}, domain.MetricEuclidean, 2)

	neighbors, err := store.NearestNeighbors(ctx, domain.Embedding{1, 0}, 1)
	require.NoError(t, err)
	require.NotNil(t, neighbors)
	require.Empty(t, neighbors)

	require.NoError(t, store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc"))

	neighbors, err = store.NearestNeighbors(ctx, domain.Embedding{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
}

func TestStore_CosineMetric(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sqlite.Config{}, domain.MetricCosine, 2)

	require.NoError(t, store.Insert(ctx, "scaled", domain.Embedding{10, 0}, "scaled"))
	require.NoError(t, store.Insert(ctx, "orthogonal", domain.Embedding{0, 1}, "orthogonal"))

	neighbors, err := store.NearestNeighbors(ctx, domain.Embedding{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	require.Equal(t, "scaled", neighbors[0].ID)
	require.InDelta(t, 0.0, neighbors[0].Distance, 1e-6)
	require.InDelta(t, 1.0, neighbors[1].Distance, 1e-6)
}

func TestStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sqlite.Config{}, domain.MetricEuclidean, 2)

	err := store.Insert(ctx, "a", domain.Embedding{1, 0, 0}, "doc")
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = store.NearestNeighbors(ctx, domain.Embedding{1}, 1)
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = store.NearestNeighbors(ctx, domain.Embedding{1, 0}, 0)
	require.ErrorContains(t, err, "k must be positive")
}

func TestStore_Insert_DuplicateID(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sqlite.Config{}, domain.MetricEuclidean, 2)

	require.NoError(t, store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc"))
	require.Error(t, store.Insert(ctx, "a", domain.Embedding{0, 1}, "other"))

	size, err := store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, size)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sqlite.Config{Path: testDBPath(t, "reset")}, domain.MetricEuclidean, 2)

	require.NoError(t, store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc"))
	require.NoError(t, store.Reset(ctx))
	require.NoError(t, store.Reset(ctx))

	size, err := store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, size)

	neighbors, err := store.NearestNeighbors(ctx, domain.Embedding{1, 0}, 1)
	require.NoError(t, err)
	require.Empty(t, neighbors)

	require.NoError(t, store.Insert(ctx, "a", domain.Embedding{1, 0}, "doc"))
}
