package dashboard //nolint:testpackage // Drives the model with unexported messages

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/history"
)

type resolverFunc func(ctx context.Context, query string) (*domain.QueryOutcome, error)

func (f resolverFunc) Resolve(ctx context.Context, query string) (*domain.QueryOutcome, error) {
	return f(ctx, query)
}

func newTestModel(t *testing.T, resolver Resolver) Model {
	t.Helper()
	recorder, err := history.NewRecorder(history.Config{
		Capacity:        32,
		BaselineLatency: 1500 * time.Millisecond,
	})
	require.NoError(t, err)
	return NewModel(context.Background(), resolver, recorder, Config{Rows: 8})
}

func unusedResolver(t *testing.T) Resolver {
	return resolverFunc(func(context.Context, string) (*domain.QueryOutcome, error) {
		t.Fatal("resolver must not be called")
		return nil, nil
	})
}

func enter(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestModel_ExitCommands(t *testing.T) {
	for _, line := range []string{"exit", "EXIT", "Quit", "  quit  "} {
		t.Run(line, func(t *testing.T) {
			m, cmd := enter(t, newTestModel(t, unusedResolver(t)), line)

			require.True(t, m.quitting)
			require.NotNil(t, cmd)
			require.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t, unusedResolver(t))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.True(t, next.(Model).quitting)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_BlankLineIgnored(t *testing.T) {
	m, cmd := enter(t, newTestModel(t, unusedResolver(t)), "   ")

	require.Nil(t, cmd)
	require.Empty(t, m.processing)
	require.False(t, m.quitting)
}

func TestModel_SubmitShowsProcessing(t *testing.T) {
	m, cmd := enter(t, newTestModel(t, unusedResolver(t)), "capital of France")

	require.NotNil(t, cmd)
	require.Equal(t, "capital of France", m.processing)
	require.Empty(t, m.input.Value())
	require.Contains(t, m.View(), "Processing: capital of France...")

	// Keys are ignored while a query is in flight.
	next, keyCmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.Nil(t, keyCmd)
	require.Empty(t, next.(Model).input.Value())
}

func TestResolveCmd(t *testing.T) {
	outcome := &domain.QueryOutcome{Query: "q", Answer: "a", Decision: domain.DecisionMiss}

	msg := resolveCmd(context.Background(), resolverFunc(func(_ context.Context, query string) (*domain.QueryOutcome, error) {
		require.Equal(t, "q", query)
		return outcome, nil
	}), "q")()
	require.Equal(t, resolvedMsg{outcome: outcome}, msg)

	providerErr := errors.New("boom")
	msg = resolveCmd(context.Background(), resolverFunc(func(context.Context, string) (*domain.QueryOutcome, error) {
		return nil, providerErr
	}), "q")()
	require.Equal(t, resolveErrorMsg{query: "q", err: providerErr}, msg)
}

func TestModel_ResolvedOutcomeIsLogged(t *testing.T) {
	m, _ := enter(t, newTestModel(t, unusedResolver(t)), "capital of France")

	next, _ := m.Update(resolvedMsg{outcome: &domain.QueryOutcome{
		Query:    "capital of France",
		Answer:   "Paris",
		Decision: domain.DecisionMiss,
		Elapsed:  1200 * time.Millisecond,
	}})
	m = next.(Model)

	next, _ = m.Update(resolvedMsg{outcome: &domain.QueryOutcome{
		Query:    "What's the capital of France?",
		Answer:   "Paris",
		Decision: domain.DecisionHit,
		Elapsed:  150 * time.Millisecond,
	}})
	m = next.(Model)

	require.Empty(t, m.processing)
	require.Equal(t, 2, m.history.Len())

	view := m.View()
	require.Contains(t, view, headerTitle)
	require.Contains(t, view, "Live Request Log")
	require.Contains(t, view, "CACHE MISS (AI Call)")
	require.Contains(t, view, "CACHE HIT (Memory)")
	require.Contains(t, view, "1.2000s")
	require.Contains(t, view, "0.1500s")
	require.Contains(t, view, "10.0x")
	require.Contains(t, view, "1.0x")
	require.Contains(t, view, "Answer")
	require.Contains(t, view, "Paris")
	require.Contains(t, view, promptText)
}

func TestModel_ErrorIsShownAndLoopContinues(t *testing.T) {
	m, _ := enter(t, newTestModel(t, unusedResolver(t)), "capital of France")

	next, cmd := m.Update(resolveErrorMsg{query: "capital of France", err: domain.ErrGenerationFailure})
	m = next.(Model)

	require.Nil(t, cmd)
	require.False(t, m.quitting)
	require.Empty(t, m.processing)
	require.Contains(t, m.View(), "generation failure")
	require.Contains(t, m.View(), promptText)
}

func TestModel_LogShowsLastRows(t *testing.T) {
	m := newTestModel(t, unusedResolver(t))

	for i := 0; i < 10; i++ {
		next, _ := m.Update(resolvedMsg{outcome: &domain.QueryOutcome{
			Query:    fmt.Sprintf("query-%02d", i),
			Decision: domain.DecisionMiss,
			Elapsed:  time.Second,
		}})
		m = next.(Model)
	}

	rows := m.log.Rows()
	require.Len(t, rows, 8)
	require.Equal(t, "query-02", rows[0][0])
	require.Equal(t, "query-09", rows[7][0])
}

func TestFormatting(t *testing.T) {
	baseline := 1500 * time.Millisecond

	require.Equal(t, "CACHE HIT (Memory)", SourceLabel(domain.DecisionHit))
	require.Equal(t, "CACHE MISS (AI Call)", SourceLabel(domain.DecisionMiss))
	require.Equal(t, "0.0142s", FormatLatency(14200*time.Microsecond))
	require.Equal(t, "1.0x", FormatSpeedup(history.Record{Decision: domain.DecisionMiss, Elapsed: time.Millisecond}, baseline))
	require.Equal(t, "100.0x", FormatSpeedup(history.Record{Decision: domain.DecisionHit, Elapsed: 15 * time.Millisecond}, baseline))
}
