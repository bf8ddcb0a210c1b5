package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/phobost/pkg/errors"
	"github.com/agentstation/phobost/pkg/logging"
)

// Execute runs the phobost CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// globalFlags holds the raw values of the persistent flags.
type globalFlags struct {
	configFile string
	debug      bool
	logLevel   string
	logFormat  string
	noColor    bool
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "phobost",
		Short:   "Markdown to HTML conversion service",
		Version: a.version,
		Long: `phobost is a small HTTP service that converts markdown to HTML.

It exposes a health probe under /v1/health, the converter under
/v1/md2html and interactive API documentation under /docs. Running
phobost without a subcommand starts the server.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.phobost.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "debug logging (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides --debug)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: json, console, auto")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored log output")

	// Customize version output to match version subcommand
	rootCmd.SetVersionTemplate("phobost {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. Flags take precedence
// over the config file and environment.
func (a *App) setupCommand(cmd *cobra.Command, flags *globalFlags) error {
	if flags.configFile != "" {
		config, err := LoadConfig(flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	changed := cmd.Flags().Changed
	if changed("debug") {
		a.config.Debug = flags.debug
	}
	if changed("log-level") {
		a.config.LogLevel = flags.logLevel
	}
	if changed("log-format") {
		a.config.LogFormat = flags.logFormat
	}
	if changed("no-color") {
		a.config.NoColor = flags.noColor
	}

	if !a.fixedLogger {
		logger := NewLogger(a.config)
		a.logger = &logger
		logging.SetDefault(logger)
	}

	return nil
}

// ExitCode logs the outcome of Execute and maps it to a process exit
// status. Bind and accept-loop failures are critical and exit with 1,
// invalid flags or configuration exit with 2.
func (a *App) ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsFatal(err):
		a.Logger().Error().Err(err).Msg("Critical failure, application stopping!")
		return 1
	case errors.IsValidationError(err):
		a.Logger().Error().Err(err).Msg("Invalid configuration")
		return 2
	default:
		a.Logger().Error().Err(err).Msg("Command failed")
		return 1
	}
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
