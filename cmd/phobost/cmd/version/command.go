// Package version provides the version command for the phobost CLI.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/phobost/cmd/application"
)

// NewCommand creates the version command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for the phobost service.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "phobost version %s\n", app.Version())
			_, _ = fmt.Fprintf(out, "commit: %s\n", app.Commit())
			_, _ = fmt.Fprintf(out, "built: %s\n", app.Date())
			_, _ = fmt.Fprintf(out, "built by: %s\n", app.BuiltBy())
			_, _ = fmt.Fprintf(out, "go version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
