package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearBackendEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBackendURL, EnvAPIKey, EnvDatabaseDSN, EnvRealtimeURL} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultPacing, cfg.Pacing)
	assert.Equal(t, DefaultProbeTimeout, cfg.ProbeTimeout)
	assert.Equal(t, DefaultNotificationTTL, cfg.NotificationTTL)
	assert.Equal(t, DefaultPerformanceSamples, cfg.PerformanceSamples)
	assert.Equal(t, DefaultEnvFile, cfg.Flags.EnvFile)
}

func TestConfig_LoadEnv(t *testing.T) {
	clearBackendEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "BACKEND_URL=https://demo.example.com/\nBACKEND_API_KEY=secret\nBACKEND_DB_DSN=user:pass@tcp(127.0.0.1:3306)/app\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0644))

	cfg := New()
	require.NoError(t, cfg.LoadEnv(envPath))

	assert.Equal(t, "https://demo.example.com", cfg.Backend.URL, "trailing slash is trimmed")
	assert.Equal(t, "secret", cfg.Backend.APIKey)
	assert.Equal(t, "user:pass@tcp(127.0.0.1:3306)/app", cfg.Backend.DatabaseDSN)

	t.Run("missing env file is fine", func(t *testing.T) {
		cfg := New()
		assert.NoError(t, cfg.LoadEnv(filepath.Join(dir, "missing.env")))
	})

	t.Run("process environment wins", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "from-process")
		cfg := New()
		require.NoError(t, cfg.LoadEnv(envPath))
		assert.Equal(t, "from-process", cfg.Backend.APIKey)
	})
}

func TestConfig_Apply(t *testing.T) {
	clearBackendEnv(t)
	cfg := New()
	err := cfg.Apply(Flags{
		EnvFile:      "",
		CatalogFile:  "catalog.yaml",
		Pacing:       0,
		ProbeTimeout: 2 * time.Second,
		MetricsAddr:  ":9100",
		LogLevel:     "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "catalog.yaml", cfg.CatalogFile)
	assert.Equal(t, time.Duration(0), cfg.Pacing)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)

	t.Run("negative pacing keeps default", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.Apply(Flags{Pacing: -1}))
		assert.Equal(t, DefaultPacing, cfg.Pacing)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	})
}

func TestConfig_GetRealtimeURL(t *testing.T) {
	tests := []struct {
		name     string
		backend  Backend
		expected string
		wantErr  bool
	}{
		{name: "explicit", backend: Backend{RealtimeURL: "ws://rt:4000/socket"}, expected: "ws://rt:4000/socket"},
		{name: "https becomes wss", backend: Backend{URL: "https://demo.example.com"}, expected: "wss://demo.example.com/realtime/v1/websocket"},
		{name: "http becomes ws", backend: Backend{URL: "http://localhost:54321/"}, expected: "ws://localhost:54321/realtime/v1/websocket"},
		{name: "not configured", backend: Backend{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.Backend = tt.backend
			got, err := cfg.GetRealtimeURL()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConfig_GetReportPath(t *testing.T) {
	cfg := New()
	assert.True(t, filepath.IsAbs(cfg.GetReportPath()))
	assert.Equal(t, DefaultReportFile, filepath.Base(cfg.GetReportPath()))

	cfg.Flags.Report = "/tmp/out.json"
	assert.Equal(t, "/tmp/out.json", cfg.GetReportPath())
}
