package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"probectl/internal/domain"

	"github.com/google/uuid"
)

// Build assembles the report for a finished run. Results keep the store's newest-first order.
func (s *JSONStorage) Build(summary domain.RunSummary, results []domain.TestResult) domain.RunReport {
	if results == nil {
		results = []domain.TestResult{}
	}
	return domain.RunReport{
		Meta: domain.ReportMeta{
			RunID:           uuid.NewString(),
			Backend:         s.cfg.Backend.URL,
			Selected:        summary.Selected,
			Total:           summary.Total,
			Passed:          summary.Passed,
			Failed:          summary.Failed,
			Stopped:         summary.Stopped,
			Duration:        summary.Duration.String(),
			DurationSeconds: summary.Duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Results: results,
	}
}

// Save writes the run report to the configured JSON file and returns its path.
func (s *JSONStorage) Save(summary domain.RunSummary, results []domain.TestResult) (string, error) {
	data, err := json.MarshalIndent(s.Build(summary, results), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := s.cfg.GetReportPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
