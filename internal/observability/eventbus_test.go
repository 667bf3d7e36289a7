package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/semcache/internal/observability"
)

func TestEventBus_Publish(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := observability.NewEventBus(zap.New(core))

	ctx := observability.WithRequestID(context.Background(), "req-1")
	bus.Publish(ctx, "cache.resolved", map[string]interface{}{
		"decision": "HIT",
		"distance": 0.01,
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "cache.resolved", entry.Message)

	fields := entry.ContextMap()
	require.Equal(t, "HIT", fields["decision"])
	require.InDelta(t, 0.01, fields["distance"], 1e-9)
	require.Equal(t, "req-1", fields["request_id"])
	require.Equal(t, "cache.resolved", fields["event"])
}

func TestEventBus_NilLogger(t *testing.T) {
	bus := observability.NewEventBus(nil)

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), "cache.resolved", nil)
	})
}

func TestNewRequestContext(t *testing.T) {
	ctx := observability.NewRequestContext(context.Background(), "dashboard")

	require.Len(t, observability.GetTraceID(ctx), 32)
	require.Len(t, observability.GetSpanID(ctx), 16)
	require.NotEmpty(t, observability.GetRequestID(ctx))
	require.Equal(t, "dashboard", observability.GetSource(ctx))
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	logger, err := observability.InitLogger(&observability.LoggerConfig{Level: "loud"})

	require.Error(t, err)
	require.Nil(t, logger)
	require.Contains(t, err.Error(), "invalid log level")
}
