package execution

import (
	"context"
	"fmt"
	"time"

	"probectl/internal/domain"
	"probectl/internal/registry"

	"github.com/rs/zerolog"
)

// Outcome is the result of invoking one probe
type Outcome struct {
	Payload  any
	Err      *ProbeError
	Duration time.Duration
}

// Runner invokes the probe bound to a single case
type Runner struct {
	registry *registry.Registry
	log      zerolog.Logger
}

// NewRunner creates a new Runner
func NewRunner(reg *registry.Registry, logger zerolog.Logger) *Runner {
	return &Runner{registry: reg, log: logger}
}

// Run looks up and invokes the case's probe. Errors and panics are returned as a ProbeError.
func (r *Runner) Run(ctx context.Context, tc domain.TestCase) Outcome {
	probe, ok := r.registry.ProbeFor(tc)
	if !ok {
		return Outcome{Err: &ProbeError{Category: tc.Category, CaseID: tc.ID, Err: ErrNoProbe}}
	}

	start := time.Now()
	payload, err := invoke(ctx, probe)
	duration := time.Since(start)

	if err != nil {
		r.log.Debug().Err(err).Str("case", tc.Key()).Dur("duration", duration).Msg("probe failed")
		return Outcome{
			Err:      &ProbeError{Category: tc.Category, CaseID: tc.ID, Err: err},
			Duration: duration,
		}
	}
	r.log.Debug().Str("case", tc.Key()).Dur("duration", duration).Msg("probe passed")
	return Outcome{Payload: payload, Duration: duration}
}

func invoke(ctx context.Context, probe registry.Probe) (payload any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("probe panicked: %v", rec)
		}
	}()
	return probe.Probe(ctx)
}
