package domain

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a single test invocation
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// TestResult represents the recorded outcome of one case invocation.
// ID follows "<category>-<caseID>-<epochMillis>" so results can be projected by category.
type TestResult struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    Status         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Duration  *time.Duration `json:"-"`
	Timestamp time.Time      `json:"timestamp"`
	Details   any            `json:"details,omitempty"`
}

// DurationMillis returns the duration in milliseconds, or -1 when unset
func (r TestResult) DurationMillis() int64 {
	if r.Duration == nil {
		return -1
	}
	return r.Duration.Milliseconds()
}

// MarshalJSON encodes the duration as whole milliseconds
func (r TestResult) MarshalJSON() ([]byte, error) {
	type plain TestResult
	out := struct {
		plain
		DurationMillis *int64 `json:"duration_ms,omitempty"`
	}{plain: plain(r)}
	if r.Duration != nil {
		ms := r.Duration.Milliseconds()
		out.DurationMillis = &ms
	}
	return json.Marshal(out)
}

// ResultUpdate holds the fields merged into a stored result. Nil fields are left untouched.
type ResultUpdate struct {
	Status   *Status
	Message  *string
	Duration *time.Duration
	Details  any
}

// RunSummary describes the outcome of a full run
type RunSummary struct {
	Total    int           // Cases executed
	Passed   int           // Cases with success status
	Failed   int           // Cases with error status
	Selected int           // Cases captured at the start of the run
	Stopped  bool          // Whether the run was stopped before finishing
	Duration time.Duration // Wall time of the run
}

// AllPassed reports whether every executed case succeeded
func (s RunSummary) AllPassed() bool {
	return s.Total > 0 && s.Passed == s.Total
}

// ReportMeta contains metadata about an exported run
type ReportMeta struct {
	RunID           string  `json:"run_id"`
	Backend         string  `json:"backend"`
	Selected        int     `json:"selected"`
	Total           int     `json:"total"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Stopped         bool    `json:"stopped"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunReport is the complete exported structure of a run
type RunReport struct {
	Meta    ReportMeta   `json:"meta"`
	Results []TestResult `json:"results"`
}
