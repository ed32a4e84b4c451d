package execution

import (
	"context"

	"probectl/internal/domain"
)

// Executor runs the currently enabled cases and reports the aggregate outcome
type Executor interface {
	Run(ctx context.Context) (domain.RunSummary, error)
	Stop() bool
}

// Reporter receives live progress of a run
type Reporter interface {
	Update(successCount, failCount int)
	Finish()
}
