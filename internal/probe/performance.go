package probe

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Performance measures request latency and throughput against one endpoint
type Performance struct {
	client  *Client
	path    string
	samples int
	budget  time.Duration
}

// NewPerformance creates a Performance prober issuing samples requests to path
func NewPerformance(client *Client, path string, samples int, budget time.Duration) *Performance {
	if samples < 1 {
		samples = 1
	}
	return &Performance{client: client, path: path, samples: samples, budget: budget}
}

func (p *Performance) measure(ctx context.Context) ([]time.Duration, time.Duration, error) {
	latencies := make([]time.Duration, 0, p.samples)
	start := time.Now()
	for i := 0; i < p.samples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		resp, err := p.client.Get(ctx, p.path, true)
		if err != nil {
			return nil, 0, fmt.Errorf("sample %d: %w", i+1, err)
		}
		if !resp.OK() {
			return nil, 0, fmt.Errorf("sample %d: %s returned status %d", i+1, resp.URL, resp.StatusCode)
		}
		latencies = append(latencies, resp.Latency)
	}
	return latencies, time.Since(start), nil
}

// Latency fails when the average or p95 latency exceeds the budget
func (p *Performance) Latency(ctx context.Context) (any, error) {
	latencies, _, err := p.measure(ctx)
	if err != nil {
		return nil, err
	}
	stats := latencyStats(latencies)
	if err := stats.within(p.budget); err != nil {
		return nil, err
	}
	return map[string]any{
		"samples":   len(latencies),
		"avg_ms":    stats.avg.Milliseconds(),
		"p95_ms":    stats.p95.Milliseconds(),
		"min_ms":    stats.min.Milliseconds(),
		"max_ms":    stats.max.Milliseconds(),
		"budget_ms": p.budget.Milliseconds(),
	}, nil
}

// Throughput reports sequential requests per second
func (p *Performance) Throughput(ctx context.Context) (any, error) {
	latencies, elapsed, err := p.measure(ctx)
	if err != nil {
		return nil, err
	}
	rps := 0.0
	if elapsed > 0 {
		rps = float64(len(latencies)) / elapsed.Seconds()
	}
	return map[string]any{
		"requests":            len(latencies),
		"elapsed_ms":          elapsed.Milliseconds(),
		"requests_per_second": rps,
	}, nil
}

type stats struct {
	avg, p95, min, max time.Duration
}

// within checks avg and p95 against budget. A zero budget accepts anything.
func (s stats) within(budget time.Duration) error {
	if budget <= 0 {
		return nil
	}
	if s.avg > budget {
		return fmt.Errorf("average latency %s exceeds budget %s", s.avg, budget)
	}
	if s.p95 > budget {
		return fmt.Errorf("p95 latency %s exceeds budget %s", s.p95, budget)
	}
	return nil
}

func latencyStats(samples []time.Duration) stats {
	if len(samples) == 0 {
		return stats{}
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	idx := (len(sorted)*95 + 99) / 100
	if idx > 0 {
		idx--
	}
	return stats{
		avg: total / time.Duration(len(sorted)),
		p95: sorted[idx],
		min: sorted[0],
		max: sorted[len(sorted)-1],
	}
}
