package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"probectl/internal/config"
	"probectl/internal/domain"
	"probectl/internal/metrics"
	"probectl/internal/notify"
	"probectl/internal/registry"
	"probectl/internal/results"

	"github.com/rs/zerolog"
)

// State is the lifecycle state of the engine
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
)

// Engine runs the enabled cases one at a time, recording results and publishing
// notifications. Only one run (or retry) is active at a time.
type Engine struct {
	config   *config.Config
	registry *registry.Registry
	store    *results.Store
	bus      notify.Publisher
	runner   *Runner
	ids      *IDGenerator
	log      zerolog.Logger

	mu            sync.Mutex
	state         State
	active        bool
	stopRequested bool
	stopCh        chan struct{}
	progress      float64
	current       string
	progressBar   Reporter
}

var _ Executor = (*Engine)(nil)

// NewEngine creates a new Engine
func NewEngine(
	cfg *config.Config,
	reg *registry.Registry,
	store *results.Store,
	bus notify.Publisher,
	runner *Runner,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		config:   cfg,
		registry: reg,
		store:    store,
		bus:      bus,
		runner:   runner,
		ids:      NewIDGenerator(),
		log:      logger,
		state:    StateIdle,
	}
}

// SetProgress sets the reporter receiving live progress of the next runs
func (e *Engine) SetProgress(progress Reporter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progressBar = progress
}

// State returns the current lifecycle state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Progress returns the completion percentage of the current or last run (0-100)
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress
}

// CurrentCase returns the display name of the case being executed
func (e *Engine) CurrentCase() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.current != ""
}

// Running reports whether a run or retry is active
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Run executes the enabled cases captured at call time. Probe failures never abort
// the run; they are recorded as error results. Run returns ErrAlreadyRunning without
// side effects when another run is active.
func (e *Engine) Run(ctx context.Context) (domain.RunSummary, error) {
	if !e.reserve() {
		return domain.RunSummary{}, ErrAlreadyRunning
	}

	cases := e.registry.EnabledCases()
	if len(cases) == 0 {
		e.release()
		e.bus.Publish(notify.Warning("No tests selected", "Enable at least one suite and test case to run"))
		e.log.Warn().Msg("run requested with no enabled cases")
		return domain.RunSummary{}, nil
	}

	stopCh := e.begin()
	e.store.Clear()
	total := len(cases)
	e.bus.Publish(notify.Info("Starting tests", fmt.Sprintf("Running %d tests", total)))
	e.log.Info().Int("cases", total).Msg("run started")

	e.mu.Lock()
	progressBar := e.progressBar
	e.mu.Unlock()

	summary := domain.RunSummary{Selected: total}
	start := time.Now()

	for i, tc := range cases {
		if e.halted(ctx, stopCh) {
			break
		}

		e.setCurrent(tc.DisplayName())
		if e.execute(ctx, tc).Status == domain.StatusSuccess {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Total++

		e.setProgress(float64(i+1) / float64(total) * 100)
		if progressBar != nil {
			progressBar.Update(summary.Passed, summary.Failed)
		}

		if i < total-1 {
			e.pause(ctx, stopCh)
		}
	}

	summary.Duration = time.Since(start)
	if progressBar != nil {
		progressBar.Finish()
	}

	stopped, cancelled := e.finish(ctx, summary.Total == total)
	summary.Stopped = stopped
	if cancelled {
		e.bus.Publish(notify.Info("Tests cancelled", fmt.Sprintf("%d of %d tests ran", summary.Total, total)))
	}
	if !summary.Stopped {
		summary.Passed = e.store.CountByStatus(domain.StatusSuccess)
		summary.Failed = summary.Total - summary.Passed
		message := fmt.Sprintf("%d/%d tests passed", summary.Passed, summary.Total)
		if summary.Passed == summary.Total {
			e.bus.Publish(notify.Success("All tests passed", message))
		} else {
			e.bus.Publish(notify.Warning("Tests completed with failures", message))
		}
	}

	metrics.RecordRun(summary)
	e.log.Info().
		Int("total", summary.Total).
		Int("passed", summary.Passed).
		Int("failed", summary.Failed).
		Bool("stopped", summary.Stopped).
		Dur("duration", summary.Duration).
		Msg("run finished")

	return summary, nil
}

// Stop requests cooperative cancellation of the active run. The state becomes Stopped
// immediately; a case already in flight completes and no further case starts.
// It returns false when no run is active.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	if !e.active || e.stopRequested || e.stopCh == nil {
		e.mu.Unlock()
		return false
	}
	e.stopRequested = true
	close(e.stopCh)
	e.state = StateStopped
	e.mu.Unlock()

	e.bus.Publish(notify.Info("Tests stopped", "Remaining tests will not run"))
	e.log.Info().Msg("stop requested")
	return true
}

// Retry re-invokes a single case without clearing previous results. It is rejected
// while a run is active.
func (e *Engine) Retry(ctx context.Context, suiteID, caseID string) (domain.TestResult, error) {
	tc, ok := e.registry.Case(suiteID, caseID)
	if !ok {
		return domain.TestResult{}, fmt.Errorf("%w: %s/%s", registry.ErrUnknownCase, suiteID, caseID)
	}
	if !e.reserve() {
		return domain.TestResult{}, ErrAlreadyRunning
	}
	defer e.release()

	e.setCurrent(tc.DisplayName())
	e.log.Info().Str("case", tc.Key()).Msg("retrying case")
	return e.execute(ctx, tc), nil
}

// execute runs one case through its running → success/error transition
func (e *Engine) execute(ctx context.Context, tc domain.TestCase) domain.TestResult {
	id, ts := e.ids.Next(tc)
	name := tc.DisplayName()
	result := domain.TestResult{
		ID:        id,
		Name:      name,
		Status:    domain.StatusRunning,
		Timestamp: ts,
	}
	if err := e.store.Add(result); err != nil {
		e.log.Error().Err(err).Str("result", id).Msg("add running result")
	}

	outcome := e.runner.Run(ctx, tc)
	duration := outcome.Duration

	var upd domain.ResultUpdate
	if outcome.Err != nil {
		status := domain.StatusError
		message := outcome.Err.Message()
		upd = domain.ResultUpdate{
			Status:   &status,
			Message:  &message,
			Duration: &duration,
			Details: map[string]any{
				"message": message,
				"error":   outcome.Err.Error(),
				"type":    fmt.Sprintf("%T", outcome.Err.Err),
			},
		}
		e.bus.Publish(notify.Error(fmt.Sprintf("%s failed", name), message))
		metrics.RecordProbeError(tc.Category, outcome.Err.Err)
	} else {
		status := domain.StatusSuccess
		message := fmt.Sprintf("Completed in %dms", duration.Milliseconds())
		upd = domain.ResultUpdate{
			Status:   &status,
			Message:  &message,
			Duration: &duration,
			Details:  outcome.Payload,
		}
		e.bus.Publish(notify.Success(fmt.Sprintf("%s passed", name), message))
	}

	if err := e.store.Update(id, upd); err != nil {
		// the store was cleared underneath us; keep the finalized result visible
		e.log.Warn().Err(err).Str("result", id).Msg("update result")
		result.Status = *upd.Status
		result.Message = *upd.Message
		result.Duration = &duration
		result.Details = upd.Details
		_ = e.store.Add(result)
	}
	metrics.RecordCase(tc.Category, tc.ID, *upd.Status, duration)

	final, _ := e.store.Get(id)
	return final
}

// reserve marks the engine active, returning false if it already was
func (e *Engine) reserve() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active {
		return false
	}
	e.active = true
	return true
}

func (e *Engine) release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.current = ""
}

// begin transitions to Running and returns the run's stop channel
func (e *Engine) begin() chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateRunning
	e.stopRequested = false
	e.stopCh = make(chan struct{})
	e.progress = 0
	e.current = ""
	return e.stopCh
}

// finish transitions out of Running. It reports whether the run was stopped and
// whether that was caused by the context rather than Stop. A context cancelled after
// every case ran does not stop the run.
func (e *Engine) finish(ctx context.Context, complete bool) (stopped, cancelled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cancelled = !complete && ctx.Err() != nil && !e.stopRequested
	stopped = e.stopRequested || cancelled
	if stopped {
		e.state = StateStopped
	} else {
		e.state = StateCompleted
		e.progress = 100
	}
	e.active = false
	e.current = ""
	e.stopCh = nil
	return stopped, cancelled
}

// halted polls the stop flag and the context at an iteration boundary
func (e *Engine) halted(ctx context.Context, stopCh <-chan struct{}) bool {
	select {
	case <-stopCh:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// pause waits for the configured pacing, returning early on stop or cancellation
func (e *Engine) pause(ctx context.Context, stopCh <-chan struct{}) {
	if e.config == nil || e.config.Pacing <= 0 {
		return
	}
	timer := time.NewTimer(e.config.Pacing)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-stopCh:
	case <-ctx.Done():
	}
}

func (e *Engine) setCurrent(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = name
}

func (e *Engine) setProgress(p float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress = p
}
