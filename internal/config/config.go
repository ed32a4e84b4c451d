package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend holds the connection settings of the probed backend
type Backend struct {
	URL         string // Base URL of the HTTP APIs
	APIKey      string // Key sent with authenticated requests
	DatabaseDSN string // MySQL DSN for database probes
	RealtimeURL string // Websocket URL, derived from URL when empty
}

// Config holds all configuration for the application
type Config struct {
	// Backend settings
	Backend Backend

	// Catalog settings
	CatalogFile string

	// Output settings
	ReportDir  string
	ReportFile string

	// Execution settings
	Pacing          time.Duration
	ProbeTimeout    time.Duration
	NotificationTTL time.Duration

	// Performance probe settings
	PerformanceSamples int
	LatencyBudget      time.Duration

	// Logging settings
	LogLevel  string
	LogPretty bool
	LogFile   string

	// Metrics endpoint, disabled when empty
	MetricsAddr string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	EnvFile      string
	CatalogFile  string
	Suites       []string
	SkipSuites   []string
	Filter       string
	Report       string
	NoReport     bool
	MetricsAddr  string
	Pacing       time.Duration
	ProbeTimeout time.Duration
	LogLevel     string
	LogPretty    bool
	LogFile      string
	ShowCases    bool
	Verbose      bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ReportDir:          DefaultReportDir,
		ReportFile:         DefaultReportFile,
		Pacing:             DefaultPacing,
		ProbeTimeout:       DefaultProbeTimeout,
		NotificationTTL:    DefaultNotificationTTL,
		PerformanceSamples: DefaultPerformanceSamples,
		LatencyBudget:      DefaultLatencyBudget,
		LogLevel:           DefaultLogLevel,
		LogPretty:          true,
		Flags: Flags{
			EnvFile:  DefaultEnvFile,
			Pacing:   -1,
			LogLevel: DefaultLogLevel,
		},
	}
}

// Apply copies flags into the config and loads backend settings from the environment
func (c *Config) Apply(flags Flags) error {
	c.Flags = flags

	if err := c.LoadEnv(flags.EnvFile); err != nil {
		return err
	}

	if flags.CatalogFile != "" {
		c.CatalogFile = flags.CatalogFile
	}
	if flags.MetricsAddr != "" {
		c.MetricsAddr = flags.MetricsAddr
	}
	if flags.Pacing >= 0 {
		c.Pacing = flags.Pacing
	}
	if flags.ProbeTimeout > 0 {
		c.ProbeTimeout = flags.ProbeTimeout
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	c.LogPretty = flags.LogPretty
	c.LogFile = flags.LogFile
	return nil
}

// LoadEnv loads a dotenv file (a missing file is fine) and reads backend settings.
// Variables already set in the process environment take precedence over the file.
func (c *Config) LoadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	c.Backend = Backend{
		URL:         strings.TrimRight(os.Getenv(EnvBackendURL), "/"),
		APIKey:      os.Getenv(EnvAPIKey),
		DatabaseDSN: os.Getenv(EnvDatabaseDSN),
		RealtimeURL: os.Getenv(EnvRealtimeURL),
	}
	return nil
}

// GetRealtimeURL returns the websocket URL, derived from the backend URL when not set
func (c *Config) GetRealtimeURL() (string, error) {
	if c.Backend.RealtimeURL != "" {
		return c.Backend.RealtimeURL, nil
	}
	if c.Backend.URL == "" {
		return "", fmt.Errorf("%s is not configured", EnvBackendURL)
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/realtime/v1/websocket"
	return u.String(), nil
}

// GetReportPath returns the full path of the report file. The --report flag wins.
// Resolves to an absolute path so the location printed matches the file written.
func (c *Config) GetReportPath() string {
	p := c.Flags.Report
	if p == "" {
		p = filepath.Join(c.ReportDir, c.ReportFile)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
