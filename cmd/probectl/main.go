package main

import (
	"fmt"
	"io"
	"os"

	"probectl/internal/cli"
	"probectl/internal/cli/commands"
	"probectl/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "probectl",
		Short:         "Backend health diagnostic console",
		Long:          `Run named diagnostics against a managed backend (auth, database, storage, realtime, REST, security, performance, backup) and watch the results live.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cfg := config.New()
	var flags cli.Flags
	commands.NewCommands(cfg, out).Register(rootCmd, &flags, cfg)
	return rootCmd
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
