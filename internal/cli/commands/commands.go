package commands

import (
	"io"

	"probectl/internal/cli"
	"probectl/internal/config"
	"probectl/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Deps    *Deps
	Run     *RunCommand
	List    *ListCommand
	Console *ConsoleCommand
}

// NewCommands creates all commands. Their shared dependencies are built once flags
// are parsed.
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	deps := &Deps{}
	formatter := ui.NewFormatter(out)

	return &Commands{
		Deps:    deps,
		Run:     NewRunCommand(cfg, deps, formatter, out),
		List:    NewListCommand(cfg, deps, formatter),
		Console: NewConsoleCommand(cfg, deps),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	setup := func(interactive bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			// Update config with flags after parsing
			if err := cfg.Apply(flags.ToConfigFlags()); err != nil {
				return err
			}
			return c.Deps.Init(cfg, interactive)
		}
	}
	teardown := func(cmd *cobra.Command, args []string) {
		c.Deps.Close()
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.EnvFile, "env-file", config.DefaultEnvFile, "Dotenv file with BACKEND_* settings (missing file is ignored)")
	pf.StringVar(&flags.CatalogFile, "catalog", "", "YAML catalog of suites and cases (defaults to the built-in catalog)")
	pf.StringVar(&flags.LogLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error, disabled)")
	pf.BoolVar(&flags.LogPretty, "log-pretty", true, "Human-readable log output")
	pf.StringVar(&flags.LogFile, "log-file", "", "Write logs to this file instead of stderr")

	selection := func(cmd *cobra.Command) {
		cmd.Flags().StringSliceVarP(&flags.Suites, "suite", "s", nil, "Run only these suites (repeatable)")
		cmd.Flags().StringSliceVar(&flags.SkipSuites, "skip-suite", nil, "Disable these suites (repeatable)")
		cmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter cases by id or name pattern (supports wildcards, e.g. '*query*' or 'database/*')")
	}

	// Run command
	runCmd := &cobra.Command{
		Use:               "run",
		Short:             "Run the enabled probes once",
		Long:              "Execute every enabled test case sequentially against the configured backend and export a JSON report",
		RunE:              c.Run.Execute,
		PreRunE:           setup(false),
		PersistentPostRun: teardown,
		SilenceUsage:      true,
	}
	selection(runCmd)
	runCmd.Flags().StringVarP(&flags.Report, "report", "r", "", "Report file path (defaults to "+config.DefaultReportDir+"/"+config.DefaultReportFile+")")
	runCmd.Flags().BoolVar(&flags.NoReport, "no-report", false, "Do not write a report file")
	runCmd.Flags().StringVar(&flags.MetricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address during the run")
	runCmd.Flags().DurationVar(&flags.Pacing, "pacing", -1, "Pause between cases (default "+config.DefaultPacing.String()+")")
	runCmd.Flags().DurationVar(&flags.ProbeTimeout, "timeout", 0, "Timeout of each probe (default "+config.DefaultProbeTimeout.String()+")")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print every notification, not only warnings and errors")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:               "list",
		Short:             "List the suite catalog",
		Long:              "Print suites and, optionally, their test cases with enabled state",
		RunE:              c.List.Execute,
		PreRunE:           setup(false),
		PersistentPostRun: teardown,
	}
	selection(listCmd)
	listCmd.Flags().BoolVarP(&flags.ShowCases, "cases", "c", false, "List test cases under each suite")
	rootCmd.AddCommand(listCmd)

	// Console command
	consoleCmd := &cobra.Command{
		Use:               "console",
		Short:             "Open the interactive console",
		Long:              "Toggle suites and cases, start and stop runs and watch results live",
		RunE:              c.Console.Execute,
		PreRunE:           setup(true),
		PersistentPostRun: teardown,
		SilenceUsage:      true,
	}
	selection(consoleCmd)
	consoleCmd.Flags().StringVarP(&flags.Report, "report", "r", "", "Report file written after each run")
	consoleCmd.Flags().BoolVar(&flags.NoReport, "no-report", false, "Do not write report files")
	consoleCmd.Flags().DurationVar(&flags.Pacing, "pacing", -1, "Pause between cases (default "+config.DefaultPacing.String()+")")
	consoleCmd.Flags().DurationVar(&flags.ProbeTimeout, "timeout", 0, "Timeout of each probe (default "+config.DefaultProbeTimeout.String()+")")
	rootCmd.AddCommand(consoleCmd)

}
