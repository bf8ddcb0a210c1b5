// Package serve provides the HTTP server command for the phobost CLI.
package serve

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentstation/phobost/cmd/application"
	"github.com/agentstation/phobost/internal/cmd/emoji"
	"github.com/agentstation/phobost/internal/server"
	"github.com/agentstation/phobost/pkg/constants"
)

// Application is what the serve command needs from the app.
type Application interface {
	application.Application

	// ServerConfig returns the configured server settings before flags.
	ServerConfig() server.Config
}

// NewCommand creates the serve command using app context.
func NewCommand(app Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the markdown conversion server",
		Long: `Start the phobost HTTP server.

Routes:
  GET  /v1/health          liveness probe, answers "Ok"
  POST /v1/md2html         converts the markdown request body to HTML
  GET  /docs               interactive API documentation
  GET  /docs/openapi.json  OpenAPI 3.1 description (also .yaml)
  GET  /metrics            Prometheus metrics (unless --metrics=false)

Every request carries an x-request-id header, generated when the client
does not send one, and must finish within 30 seconds or the client
receives 408 Request Timeout. SIGINT or SIGTERM stops accepting new
connections and waits for in-flight requests to finish.`,
		Example: `  # Start on any free port on 127.0.0.1
  phobost serve

  # Start on a fixed port on all interfaces
  phobost serve --host 0.0.0.0 --port 8080

  # Bound the shutdown drain to ten seconds
  phobost serve -p 8080 --shutdown-timeout 10s

  # Allow browser clients from another origin
  phobost serve --cors-origins "https://docs.example.com"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd.Flags(), app.ServerConfig())
			if err != nil {
				return err
			}
			return Run(cmd.Context(), app, cfg, cmd.OutOrStdout())
		},
	}

	addFlags(cmd.Flags())

	return cmd
}

// addFlags registers the server flags. Defaults mirror the built-in
// configuration; only flags the user sets override the app configuration.
func addFlags(fs *pflag.FlagSet) {
	// Server configuration flags
	fs.StringP("host", "H", constants.DefaultHost, "Bind address (env APP_HOST)")
	fs.IntP("port", "p", constants.DefaultPort, "Server port, 0 picks a free port (env APP_PORT)")

	// Shutdown flags
	fs.Duration("shutdown-timeout", constants.ShutdownTimeout, "Maximum time to drain in-flight requests, 0 waits indefinitely")

	// CORS flags
	fs.StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	// Timeout flags
	fs.Duration("read-timeout", constants.ReadTimeout, "HTTP read timeout")
	fs.Duration("write-timeout", constants.WriteTimeout, "HTTP write timeout")
	fs.Duration("idle-timeout", constants.IdleTimeout, "HTTP idle timeout")

	// Features flags
	fs.Bool("metrics", true, "Enable metrics endpoint")
}

// Run starts the server and blocks until ctx is cancelled and the drain
// completes, or until the server fails.
func Run(ctx context.Context, app application.Application, cfg server.Config, out io.Writer) error {
	logger := app.Logger()

	logger.Debug().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Dur("shutdown_timeout", cfg.ShutdownTimeout).
		Bool("metrics", cfg.MetricsEnabled).
		Strs("cors_origins", cfg.CORSOrigins).
		Msg("Parsed server configuration")

	srv, err := server.New(app, cfg)
	if err != nil {
		return err
	}

	svc, err := srv.Start(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s phobost listening on %s\n", emoji.Success, svc.HTTPString())
	_, _ = fmt.Fprintln(out, "   Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintf(out, "\n%s Shutting down, draining in-flight requests...\n", emoji.Stop)
	case <-svc.Done():
	}

	if err := svc.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("Server stopped gracefully")
	_, _ = fmt.Fprintf(out, "%s phobost stopped gracefully\n", emoji.Success)
	return nil
}

// parseConfig applies the flags the user set on top of base.
func parseConfig(fs *pflag.FlagSet, base server.Config) (server.Config, error) {
	cfg := base

	if fs.Changed("host") {
		cfg.Host = mustGetString(fs, "host")
	}
	if fs.Changed("port") {
		cfg.Port = mustGetInt(fs, "port")
	}
	if fs.Changed("shutdown-timeout") {
		cfg.ShutdownTimeout = mustGetDuration(fs, "shutdown-timeout")
	}
	if fs.Changed("cors-origins") {
		cfg.CORSOrigins = mustGetStringSlice(fs, "cors-origins")
	}
	if fs.Changed("read-timeout") {
		cfg.ReadTimeout = mustGetDuration(fs, "read-timeout")
	}
	if fs.Changed("write-timeout") {
		cfg.WriteTimeout = mustGetDuration(fs, "write-timeout")
	}
	if fs.Changed("idle-timeout") {
		cfg.IdleTimeout = mustGetDuration(fs, "idle-timeout")
	}
	if fs.Changed("metrics") {
		cfg.MetricsEnabled = mustGetBool(fs, "metrics")
	}

	return cfg, cfg.Validate()
}

// mustGetInt retrieves a integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetInt(fs *pflag.FlagSet, name string) int {
	val, err := fs.GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(fs *pflag.FlagSet, name string) string {
	val, err := fs.GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(fs *pflag.FlagSet, name string) bool {
	val, err := fs.GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetStringSlice retrieves a string slice flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetStringSlice(fs *pflag.FlagSet, name string) []string {
	val, err := fs.GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetDuration retrieves a duration flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetDuration(fs *pflag.FlagSet, name string) time.Duration {
	val, err := fs.GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
