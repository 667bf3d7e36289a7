package history_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/history"
)

func newRecorder(t *testing.T, capacity int) *history.Recorder {
	t.Helper()
	recorder, err := history.NewRecorder(history.Config{Capacity: capacity})
	require.NoError(t, err)
	return recorder
}

func outcome(query string, decision domain.Decision, elapsed time.Duration) *domain.QueryOutcome {
	return &domain.QueryOutcome{Query: query, Decision: decision, Elapsed: elapsed}
}

func TestNewRecorder_Validation(t *testing.T) {
	recorder, err := history.NewRecorder(history.Config{Capacity: 0})
	require.Error(t, err)
	require.Nil(t, recorder)

	recorder, err = history.NewRecorder(history.Config{Capacity: 1, BaselineLatency: -time.Second})
	require.Error(t, err)
	require.Nil(t, recorder)

	recorder, err = history.NewRecorder(history.Config{Capacity: 1, BaselineLatency: time.Second})
	require.NoError(t, err)
	require.Equal(t, time.Second, recorder.Baseline())
}

func TestRecorder_Record(t *testing.T) {
	recorder := newRecorder(t, 4)

	record := recorder.Record(&domain.QueryOutcome{
		Query:    "capital of France",
		Decision: domain.DecisionHit,
		Elapsed:  10 * time.Millisecond,
		Nearest:  &domain.Neighbor{ID: "a", Distance: 0.12},
	})

	require.Equal(t, "capital of France", record.Query)
	require.NotNil(t, record.Distance)
	require.InDelta(t, 0.12, *record.Distance, 1e-9)
	require.False(t, record.ResolvedAt.IsZero())
	require.Equal(t, 1, recorder.Len())

	miss := recorder.Record(outcome("first", domain.DecisionMiss, time.Second))
	require.Nil(t, miss.Distance)
}

func TestRecorder_Recent(t *testing.T) {
	recorder := newRecorder(t, 3)

	require.Empty(t, recorder.Recent(8))

	for i := 0; i < 5; i++ {
		recorder.Record(outcome(fmt.Sprintf("q%d", i), domain.DecisionMiss, time.Second))
	}

	all := recorder.Recent(0)
	require.Len(t, all, 3)
	require.Equal(t, "q2", all[0].Query)
	require.Equal(t, "q4", all[2].Query)

	last := recorder.Recent(2)
	require.Len(t, last, 2)
	require.Equal(t, "q3", last[0].Query)
	require.Equal(t, "q4", last[1].Query)

	require.Len(t, recorder.Recent(10), 3)
}

func TestRecorder_Summary(t *testing.T) {
	recorder := newRecorder(t, 10)

	require.Equal(t, history.Summary{}, recorder.Summary())

	recorder.Record(outcome("a", domain.DecisionMiss, 2*time.Second))
	recorder.Record(outcome("a", domain.DecisionHit, 10*time.Millisecond))
	recorder.Record(outcome("a", domain.DecisionHit, 30*time.Millisecond))
	recorder.Record(outcome("b", domain.DecisionMiss, 4*time.Second))

	summary := recorder.Summary()
	require.Equal(t, 4, summary.Count)
	require.Equal(t, 2, summary.Hits)
	require.Equal(t, 2, summary.Misses)
	require.InDelta(t, 0.5, summary.HitRate, 1e-9)
	require.Equal(t, 20*time.Millisecond, summary.MeanHitLatency)
	require.Equal(t, 3*time.Second, summary.MeanMissLatency)
}

func TestRecorder_Clear(t *testing.T) {
	recorder := newRecorder(t, 2)
	recorder.Record(outcome("a", domain.DecisionMiss, time.Second))
	recorder.Record(outcome("b", domain.DecisionMiss, time.Second))
	recorder.Record(outcome("c", domain.DecisionMiss, time.Second))

	recorder.Clear()

	require.Equal(t, 0, recorder.Len())
	require.Empty(t, recorder.Recent(0))
}

func TestRecord_Speedup(t *testing.T) {
	baseline := 1500 * time.Millisecond

	tests := []struct {
		name     string
		record   history.Record
		expected float64
	}{
		{
			name:     "hit divides baseline by elapsed",
			record:   history.Record{Decision: domain.DecisionHit, Elapsed: 150 * time.Millisecond},
			expected: 10,
		},
		{
			name:     "miss is always 1",
			record:   history.Record{Decision: domain.DecisionMiss, Elapsed: 150 * time.Millisecond},
			expected: 1,
		},
		{
			name:     "zero elapsed hit is guarded",
			record:   history.Record{Decision: domain.DecisionHit},
			expected: float64(baseline),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.expected, tt.record.Speedup(baseline), 1e-9)
		})
	}
}

func TestRecorder_ConcurrentAccess(t *testing.T) {
	recorder := newRecorder(t, 16)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			recorder.Record(outcome("q", domain.DecisionHit, time.Millisecond))
		}()
		go func() {
			defer wg.Done()
			_ = recorder.Recent(8)
			_ = recorder.Summary()
		}()
	}
	wg.Wait()

	require.Equal(t, 16, recorder.Len())
}
