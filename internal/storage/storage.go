package storage

import (
	"probectl/internal/config"
	"probectl/internal/domain"
)

// Exporter writes a finished run to persistent storage. Reports are never read back.
type Exporter interface {
	Save(summary domain.RunSummary, results []domain.TestResult) (string, error)
}

// JSONStorage writes run reports as JSON under the configured report path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns an Exporter writing to the config's report path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
