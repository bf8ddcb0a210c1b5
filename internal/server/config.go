package server

import (
	"net"
	"strconv"
	"time"

	"github.com/agentstation/phobost/pkg/constants"
	"github.com/agentstation/phobost/pkg/errors"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// Upper bound on a single request's handler execution
	RequestTimeout time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Grace period for draining in-flight requests; zero waits indefinitely
	ShutdownTimeout time.Duration

	// CORS settings; no origins leaves CORS disabled
	CORSOrigins []string

	// Features
	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:            constants.DefaultHost,
		Port:            constants.DefaultPort,
		RequestTimeout:  constants.RequestTimeout,
		ReadTimeout:     constants.ReadTimeout,
		WriteTimeout:    constants.WriteTimeout,
		IdleTimeout:     constants.IdleTimeout,
		ShutdownTimeout: constants.ShutdownTimeout,
		CORSOrigins:     []string{},
		MetricsEnabled:  true,
	}
}

// Validate checks the configuration for values the listener cannot use.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.NewValidationError("host", c.Host, "must not be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.NewValidationError("port", c.Port, "must be between 0 and 65535")
	}
	if c.RequestTimeout <= 0 {
		return errors.NewValidationError("request_timeout", c.RequestTimeout, "must be positive")
	}
	if c.ShutdownTimeout < 0 {
		return errors.NewValidationError("shutdown_timeout", c.ShutdownTimeout, "must not be negative")
	}
	return nil
}

// ConnectionString returns the host:port address to bind.
func (c Config) ConnectionString() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
