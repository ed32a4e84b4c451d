package config

import "time"

const (
	// DefaultEnvFile is the dotenv file read for backend settings
	DefaultEnvFile = ".env"
	// DefaultReportDir is the directory run reports are exported to
	DefaultReportDir = "storage"
	// DefaultReportFile is the default report file name
	DefaultReportFile = "probe-report.json"
	// DefaultNotificationTTL is how long a notification stays visible
	DefaultNotificationTTL = 5 * time.Second
	// DefaultPacing is the pause between cases, giving the UI time to render each step
	DefaultPacing = 300 * time.Millisecond
	// DefaultProbeTimeout bounds every built-in probe
	DefaultProbeTimeout = 10 * time.Second
	// DefaultPerformanceSamples is the number of requests made by performance probes
	DefaultPerformanceSamples = 10
	// DefaultLatencyBudget is the average latency above which the latency probe fails
	DefaultLatencyBudget = 500 * time.Millisecond
	// DefaultLogLevel is the default zerolog level
	DefaultLogLevel = "warn"
)

// Environment variables holding backend settings
const (
	EnvBackendURL  = "BACKEND_URL"
	EnvAPIKey      = "BACKEND_API_KEY"
	EnvDatabaseDSN = "BACKEND_DB_DSN"
	EnvRealtimeURL = "BACKEND_REALTIME_URL"
)
