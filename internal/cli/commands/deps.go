package commands

import (
	"fmt"
	"io"
	"os"

	"probectl/internal/config"
	"probectl/internal/execution"
	"probectl/internal/logging"
	"probectl/internal/notify"
	"probectl/internal/probe"
	"probectl/internal/registry"
	"probectl/internal/results"
	"probectl/internal/storage"

	"github.com/rs/zerolog"
)

// Deps holds the components shared by every command. They depend on parsed flags, so
// Init runs from each subcommand's PreRunE.
type Deps struct {
	Logger   zerolog.Logger
	Registry *registry.Registry
	Store    *results.Store
	Bus      *notify.Bus
	Engine   *execution.Engine
	Storage  *storage.JSONStorage

	closers []io.Closer
}

// Init builds the logger, catalog, stores and engine from cfg. When interactive is set
// logs go to the configured log file only, leaving the terminal to the console.
func (d *Deps) Init(cfg *config.Config, interactive bool) error {
	logger, err := d.newLogger(cfg, interactive)
	if err != nil {
		return err
	}
	d.Logger = logger

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	if err := probe.RegisterDefaults(reg, cfg, logging.WithComponent(logger, "probe")); err != nil {
		return err
	}
	d.Registry = reg

	d.Store = results.NewStore()
	d.Bus = notify.NewBus(cfg.NotificationTTL)
	runner := execution.NewRunner(reg, logging.WithComponent(logger, "runner"))
	d.Engine = execution.NewEngine(cfg, reg, d.Store, d.Bus, runner, logging.WithComponent(logger, "engine"))
	d.Storage = storage.NewJSONStorage(cfg)

	logger.Debug().
		Str("backend", cfg.Backend.URL).
		Str("catalog", cfg.CatalogFile).
		Int("suites", len(reg.Suites())).
		Msg("initialized")
	return nil
}

func (d *Deps) newLogger(cfg *config.Config, interactive bool) (zerolog.Logger, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Pretty = cfg.LogPretty
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("open log file: %w", err)
		}
		d.closers = append(d.closers, f)
		logCfg.Output = f
		logCfg.Pretty = false
	case interactive:
		logCfg.Output = io.Discard
	}
	return logging.New(logCfg), nil
}

func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.CatalogFile == "" {
		return registry.New(registry.DefaultSuites())
	}
	reg, err := registry.Load(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return reg, nil
}

// Close releases the bus and any open log file
func (d *Deps) Close() {
	if d.Bus != nil {
		d.Bus.Close()
	}
	for _, c := range d.closers {
		logging.DeferClose(d.Logger, c, "close log file")
	}
	d.closers = nil
}
