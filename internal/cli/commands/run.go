package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"probectl/internal/config"
	"probectl/internal/metrics"
	"probectl/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	deps      *Deps
	formatter *ui.Formatter
	out       io.Writer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, deps *Deps, formatter *ui.Formatter, out io.Writer) *RunCommand {
	return &RunCommand{
		config:    cfg,
		deps:      deps,
		formatter: formatter,
		out:       out,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := applySelection(rc.deps.Registry, rc.config.Flags); err != nil {
		return err
	}

	if addr := rc.config.MetricsAddr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				rc.deps.Logger.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
			}
		}()
		rc.deps.Logger.Info().Str("addr", addr).Msg("serving metrics")
	}

	selected := rc.deps.Registry.EnabledCases()
	if len(selected) > 0 {
		rc.deps.Engine.SetProgress(ui.NewProgressBar(len(selected), os.Stderr))
	}

	printer := ui.NewNotificationPrinter(rc.out, rc.config.Flags.Verbose)
	printer.Attach(ctx, rc.deps.Bus)

	// first interrupt stops after the current case, a second one aborts
	interrupts := make(chan os.Signal, 2)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		select {
		case <-interrupts:
			rc.deps.Engine.Stop()
		case <-ctx.Done():
			return
		}
		select {
		case <-interrupts:
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, err := rc.deps.Engine.Run(ctx)
	rc.deps.Bus.Close()
	printer.Wait()
	if err != nil {
		return err
	}
	if summary.Selected == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	all := rc.deps.Store.All()
	rc.formatter.PrintResults(all)

	reportPath := ""
	if !rc.config.Flags.NoReport {
		path, err := rc.deps.Storage.Save(summary, all)
		if err != nil {
			return fmt.Errorf("failed to save run report: %w", err)
		}
		reportPath = path
	}

	rc.formatter.PrintSummary(summary, ui.CategoryBreakdown(rc.deps.Store.ByCategory), reportPath)
	return nil
}
