package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"probectl/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricsNamespace = "probectl"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z ]+`)

	probeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "probe_errors_total",
		Help:      "Count of probe failures by category and error",
	}, []string{
		"category",
		"error",
	})

	caseResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "case_results_total",
		Help:      "Count of finished test case invocations",
	}, []string{
		"category",
		"case",
		"status",
	})

	caseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "case_duration_seconds",
		Help:      "Duration of test case invocations",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{
		"category",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_total",
		Help:      "Count of runs by outcome",
	}, []string{
		"result",
	})

	lastRunCases = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "last_run_cases",
		Help:      "Case counts of the most recent run",
	}, []string{
		"status",
	})

	lastRunDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "last_run_duration_seconds",
		Help:      "Duration of the most recent run",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.TrimSpace(errClean)
	errClean = strings.ReplaceAll(errClean, " ", "_")
	for strings.Contains(errClean, "__") {
		errClean = strings.ReplaceAll(errClean, "__", "_")
	}
	if errClean == "" {
		return "unknown"
	}
	return errClean
}

// RecordCase records a finished case invocation
func RecordCase(category domain.Category, caseID string, status domain.Status, duration time.Duration) {
	caseResultsTotal.WithLabelValues(string(category), caseID, string(status)).Inc()
	caseDuration.WithLabelValues(string(category)).Observe(duration.Seconds())
}

// RecordProbeError records a probe failure with a cleaned error label
func RecordProbeError(category domain.Category, err error) {
	if err == nil {
		return
	}
	probeErrorsTotal.WithLabelValues(string(category), errToLabel(err)).Inc()
}

// RecordRun records the outcome of a full run
func RecordRun(summary domain.RunSummary) {
	result := "passed"
	switch {
	case summary.Stopped:
		result = "stopped"
	case summary.Failed > 0:
		result = "failed"
	}
	runsTotal.WithLabelValues(result).Inc()
	lastRunCases.WithLabelValues("selected").Set(float64(summary.Selected))
	lastRunCases.WithLabelValues("total").Set(float64(summary.Total))
	lastRunCases.WithLabelValues("passed").Set(float64(summary.Passed))
	lastRunCases.WithLabelValues("failed").Set(float64(summary.Failed))
	lastRunDuration.Set(summary.Duration.Seconds())
}

// Serve exposes the default registry on addr until ctx is done
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
