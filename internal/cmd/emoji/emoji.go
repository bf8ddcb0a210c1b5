// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output.
const (
	// Success represents successful completion of an operation.
	// Used for: server started, graceful shutdown finished.
	Success = "✓"

	// Stop represents critical stops, shutdowns, or blocking conditions.
	// Used for: shutdown signals, fatal startup errors.
	Stop = "✗"

	// Info represents informational messages.
	Info = "i"
)
