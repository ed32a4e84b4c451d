package commands

import (
	"context"

	"probectl/internal/config"
	"probectl/internal/logging"
	"probectl/internal/storage"
	"probectl/internal/ui"

	"github.com/spf13/cobra"
)

// ConsoleCommand handles the console command
type ConsoleCommand struct {
	config *config.Config
	deps   *Deps
}

// NewConsoleCommand creates a new ConsoleCommand
func NewConsoleCommand(cfg *config.Config, deps *Deps) *ConsoleCommand {
	return &ConsoleCommand{config: cfg, deps: deps}
}

// Execute runs the command
func (cc *ConsoleCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := applySelection(cc.deps.Registry, cc.config.Flags); err != nil {
		return err
	}

	var exporter storage.Exporter
	if !cc.config.Flags.NoReport {
		exporter = cc.deps.Storage
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	console := ui.NewConsole(
		cc.config,
		cc.deps.Registry,
		cc.deps.Store,
		cc.deps.Bus,
		cc.deps.Engine,
		exporter,
		logging.WithComponent(cc.deps.Logger, "console"),
	)
	return console.Run(ctx)
}
