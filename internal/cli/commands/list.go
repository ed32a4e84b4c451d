package commands

import (
	"probectl/internal/config"
	"probectl/internal/ui"

	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	deps      *Deps
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, deps *Deps, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		config:    cfg,
		deps:      deps,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := applySelection(lc.deps.Registry, lc.config.Flags); err != nil {
		return err
	}
	lc.formatter.PrintCatalog(lc.deps.Registry.Suites(), lc.config.Flags.ShowCases)
	lc.formatter.PrintUnbound(lc.deps.Registry.Unbound())
	return nil
}
