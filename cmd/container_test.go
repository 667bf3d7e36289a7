package main //nolint:testpackage // Container wiring is unexported

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/semcache/internal/config"
	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/http"
)

func setOfflineEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EMBEDDING_PROVIDER", "hashing")
	t.Setenv("ANSWER_PROVIDER", "echo")
	t.Setenv("ECHO_DELAY", "0s")
	t.Setenv("VECTOR_STORE_BACKEND", "memory")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
}

func TestBuildContainer_OfflineDefaults(t *testing.T) {
	setOfflineEnv(t)

	container, err := buildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(engine *domain.Engine, server *http.Server) error {
		ctx := context.Background()
		require.NotNil(t, server)
		require.NoError(t, engine.Reset(ctx))

		first, err := engine.Resolve(ctx, "What is the capital of France?")
		require.NoError(t, err)
		require.Equal(t, domain.DecisionMiss, first.Decision)
		require.Equal(t, "[echo]: What is the capital of France?", first.Answer)

		second, err := engine.Resolve(ctx, "What is the capital of France?")
		require.NoError(t, err)
		require.Equal(t, domain.DecisionHit, second.Decision)
		require.Equal(t, first.Answer, second.Answer)
		return nil
	})
	require.NoError(t, err)
}

func TestBuildContainer_Overrides(t *testing.T) {
	setOfflineEnv(t)
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	container, err := buildContainer(func(cfg *config.Config) {
		cfg.Engine.Threshold = 0.05
		cfg.VectorStore.Backend = config.BackendSQLite
		cfg.SQLite.Path = dbPath
	})
	require.NoError(t, err)
	t.Cleanup(func() { closeResources(container) })

	err = container.Invoke(func(engine *domain.Engine, store domain.VectorStore) {
		require.InDelta(t, 0.05, engine.Threshold(), 1e-9)
		require.NoError(t, engine.Reset(context.Background()))

		size, err := store.Len(context.Background())
		require.NoError(t, err)
		require.Equal(t, 0, size)
	})
	require.NoError(t, err)
}

func TestBuildContainer_UnknownProvider(t *testing.T) {
	setOfflineEnv(t)
	t.Setenv("ANSWER_PROVIDER", "anthropic")

	container, err := buildContainer()
	require.NoError(t, err)

	err = invoke(container, func(*domain.Engine) {})
	require.ErrorIs(t, err, domain.ErrProviderNotFound)
}

func TestBuildContainer_InvalidOverride(t *testing.T) {
	setOfflineEnv(t)

	container, err := buildContainer(func(cfg *config.Config) {
		cfg.Engine.Threshold = -1
	})
	require.ErrorContains(t, err, "ENGINE_THRESHOLD must be non-negative")
	require.Nil(t, container)
}

func TestCloserOrder(t *testing.T) {
	var order []int
	c := &closers{}
	c.add(func() error { order = append(order, 1); return nil })
	c.add(func() error { order = append(order, 2); return nil })

	require.NoError(t, c.closeAll())
	require.Equal(t, []int{2, 1}, order)
}
