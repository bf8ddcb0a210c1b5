// Package main provides the entry point for the phobost service.
package main

import (
	"context"
	"os"

	"github.com/agentstation/phobost/cmd/phobost/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	// Create app instance
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := app.ContextWithSignals(context.Background())

	code := application.ExitCode(application.Execute(ctx, os.Args[1:]))
	cancel()
	if code != 0 {
		os.Exit(code)
	}
}
