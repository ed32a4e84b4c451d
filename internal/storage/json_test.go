package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"probectl/internal/config"
	"probectl/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStorage_Save(t *testing.T) {
	cfg := config.New()
	cfg.Backend.URL = "https://backend.example"
	cfg.Flags.Report = filepath.Join(t.TempDir(), "nested", "report.json")

	d := 42 * time.Millisecond
	results := []domain.TestResult{
		{ID: "auth-health-2", Name: "Auth health", Status: domain.StatusError, Message: "boom", Duration: &d},
		{ID: "database-basic-query-1", Name: "Basic query", Status: domain.StatusSuccess, Duration: &d, Details: map[string]any{"result": 1}},
	}
	summary := domain.RunSummary{Total: 2, Passed: 1, Failed: 1, Selected: 2, Duration: 1500 * time.Millisecond}

	path, err := NewJSONStorage(cfg).Save(summary, results)
	require.NoError(t, err)
	assert.Equal(t, cfg.Flags.Report, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	meta := raw["meta"].(map[string]any)
	assert.Equal(t, "https://backend.example", meta["backend"])
	assert.Equal(t, float64(2), meta["total"])
	assert.Equal(t, float64(1), meta["failed"])
	assert.Equal(t, "1.5s", meta["duration"])
	_, err = uuid.Parse(meta["run_id"].(string))
	assert.NoError(t, err)

	rows := raw["results"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "auth-health-2", first["id"])
	assert.Equal(t, "error", first["status"])
	assert.Equal(t, float64(42), first["duration_ms"])
}

func TestJSONStorage_BuildEmptyRun(t *testing.T) {
	report := NewJSONStorage(config.New()).Build(domain.RunSummary{}, nil)

	assert.NotNil(t, report.Results)
	assert.Empty(t, report.Results)
	assert.NotEmpty(t, report.Meta.RunID)
}

func TestJSONStorage_SaveUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := config.New()
	cfg.Flags.Report = filepath.Join(blocker, "report.json")

	_, err := NewJSONStorage(cfg).Save(domain.RunSummary{}, nil)
	assert.Error(t, err)
}
