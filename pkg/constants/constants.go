// Package constants provides shared constants used throughout the phobost codebase.
// This includes timeouts, header names, content types, and defaults that must
// stay consistent between the server, the middleware pipeline and the CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// RequestTimeout is the fixed upper bound on handler execution for a single request
	RequestTimeout = 30 * time.Second

	// ReadTimeout is the default HTTP server read timeout
	ReadTimeout = 10 * time.Second

	// WriteTimeout is the default HTTP server write timeout.
	// It must exceed RequestTimeout so that timeout responses can still be written.
	WriteTimeout = RequestTimeout + 5*time.Second

	// IdleTimeout is the default keep-alive idle timeout
	IdleTimeout = 120 * time.Second

	// ShutdownTimeout is the default grace period for draining in-flight requests.
	// Zero waits for in-flight requests without a deadline.
	ShutdownTimeout time.Duration = 0

	// ExitShutdownTimeout bounds application cleanup after a command fails
	ExitShutdownTimeout = 5 * time.Second
)

// Header constants
const (
	// HeaderRequestID is the header used to correlate a request with its response
	HeaderRequestID = "x-request-id"
)

// Content types
const (
	// ContentTypeJSON is the content type of JSON responses
	ContentTypeJSON = "application/json"

	// ContentTypeHTML is the content type of rendered markdown
	ContentTypeHTML = "text/html; charset=utf-8"

	// ContentTypeMarkdown is the declared content type of conversion request bodies
	ContentTypeMarkdown = "text/markdown"

	// ContentTypeYAML is the content type of the YAML API description
	ContentTypeYAML = "application/x-yaml"
)

// Markdown rendering constants
const (
	// HeadingIDPrefix namespaces generated heading anchors
	HeadingIDPrefix = "md-hd-"
)

// Default values
const (
	// DefaultHost is the default bind host
	DefaultHost = "127.0.0.1"

	// DefaultPort is the default bind port; zero selects any free port
	DefaultPort = 0

	// ServiceName identifies the service in logs and metrics
	ServiceName = "phobost"
)

// Route constants
const (
	// PathDocs is where the interactive API documentation is served
	PathDocs = "/docs"

	// PathOpenAPIJSON is the machine-readable API description
	PathOpenAPIJSON = "/docs/openapi.json"

	// PathOpenAPIYAML is the YAML rendition of the API description
	PathOpenAPIYAML = "/docs/openapi.yaml"

	// PathPrefixV1 is the prefix of version 1 API routes
	PathPrefixV1 = "/v1"

	// PathMetrics exposes Prometheus metrics
	PathMetrics = "/metrics"
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
