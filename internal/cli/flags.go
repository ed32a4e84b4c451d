package cli

import (
	"time"

	"probectl/internal/config"
)

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		EnvFile:      f.EnvFile,
		CatalogFile:  f.CatalogFile,
		Suites:       f.Suites,
		SkipSuites:   f.SkipSuites,
		Filter:       f.Filter,
		Report:       f.Report,
		NoReport:     f.NoReport,
		MetricsAddr:  f.MetricsAddr,
		Pacing:       f.Pacing,
		ProbeTimeout: f.ProbeTimeout,
		LogLevel:     f.LogLevel,
		LogPretty:    f.LogPretty,
		LogFile:      f.LogFile,
		ShowCases:    f.ShowCases,
		Verbose:      f.Verbose,
	}
}
