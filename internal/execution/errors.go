package execution

import (
	"errors"
	"fmt"

	"probectl/internal/domain"
)

var (
	// ErrAlreadyRunning is returned when a run or retry is requested while one is active
	ErrAlreadyRunning = errors.New("a run is already in progress")
	// ErrNoProbe is wrapped by ProbeError when a case has no probe bound
	ErrNoProbe = errors.New("no probe registered")
)

// ProbeError is the failure of a single case invocation
type ProbeError struct {
	Category domain.Category
	CaseID   string
	Err      error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s-%s: %v", e.Category, e.CaseID, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Message returns the human-readable message of the underlying failure
func (e *ProbeError) Message() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}
