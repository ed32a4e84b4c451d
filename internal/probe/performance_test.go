package probe

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformance_Latency(t *testing.T) {
	var hits int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	})

	perf := NewPerformance(NewClient(testConfig(srv.URL)), PathREST, 4, time.Second)
	payload, err := perf.Latency(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(4), atomic.LoadInt32(&hits))
	assert.Equal(t, 4, payload.(map[string]any)["samples"])
}

func TestPerformance_LatencyOverBudget(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	perf := NewPerformance(NewClient(testConfig(srv.URL)), PathREST, 2, time.Millisecond)
	_, err := perf.Latency(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds budget")
}

func TestPerformance_ThroughputStopsOnErrorStatus(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	perf := NewPerformance(NewClient(testConfig(srv.URL)), PathREST, 3, 0)
	_, err := perf.Throughput(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample 1")
}

func TestPerformance_Throughput(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	perf := NewPerformance(NewClient(testConfig(srv.URL)), PathREST, 3, 0)
	payload, err := perf.Throughput(context.Background())
	require.NoError(t, err)
	out := payload.(map[string]any)
	assert.Equal(t, 3, out["requests"])
	assert.Greater(t, out["requests_per_second"].(float64), 0.0)
}

func TestLatencyStats(t *testing.T) {
	samples := make([]time.Duration, 0, 20)
	for i := 20; i >= 1; i-- {
		samples = append(samples, time.Duration(i)*time.Millisecond)
	}

	s := latencyStats(samples)
	assert.Equal(t, time.Millisecond, s.min)
	assert.Equal(t, 20*time.Millisecond, s.max)
	assert.Equal(t, 19*time.Millisecond, s.p95)
	assert.Equal(t, 10500*time.Microsecond, s.avg)

	assert.Equal(t, stats{}, latencyStats(nil))
}

func TestStats_Within(t *testing.T) {
	tests := []struct {
		name   string
		stats  stats
		budget time.Duration
		err    string
	}{
		{"under budget", stats{avg: 10 * time.Millisecond, p95: 20 * time.Millisecond}, 50 * time.Millisecond, ""},
		{"average over", stats{avg: 60 * time.Millisecond, p95: 70 * time.Millisecond}, 50 * time.Millisecond, "average latency"},
		{"tail over", stats{avg: 20 * time.Millisecond, p95: 80 * time.Millisecond}, 50 * time.Millisecond, "p95 latency 80ms exceeds budget 50ms"},
		{"no budget", stats{avg: time.Second, p95: time.Second}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stats.within(tt.budget)
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}
