package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/phobost/cmd/phobost/cmd/serve"
	"github.com/agentstation/phobost/cmd/phobost/cmd/version"
)

// registerCommands registers all subcommands with the root command.
// The root command itself serves with the configured defaults.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.CreateServeCommand())
	rootCmd.AddCommand(a.CreateVersionCommand())

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return serve.Run(cmd.Context(), a, a.ServerConfig(), cmd.OutOrStdout())
	}
}

// CreateServeCommand creates the serve command with app dependencies.
func (a *App) CreateServeCommand() *cobra.Command {
	return serve.NewCommand(a)
}

// CreateVersionCommand creates the version command with app dependencies.
func (a *App) CreateVersionCommand() *cobra.Command {
	return version.NewCommand(a)
}
