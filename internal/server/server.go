// Package server provides the HTTP server implementation for the phobost API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/phobost/cmd/application"
	"github.com/agentstation/phobost/internal/metrics"
	"github.com/agentstation/phobost/internal/server/handlers"
	"github.com/agentstation/phobost/pkg/markdown"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	renderer  *markdown.Renderer
	metrics   *metrics.Metrics
	handlers  *handlers.Handlers
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance with the given configuration.
// The markdown renderer is built here, once, and shared by every request.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	logger.Debug().Msg("Creating new server instance")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		app:       app,
		renderer:  markdown.New(),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}

	var observer handlers.ConversionObserver
	if cfg.MetricsEnabled {
		s.metrics = metrics.New()
		observer = s.metrics
	}

	h, err := handlers.New(app, s.renderer, observer)
	if err != nil {
		return nil, err
	}
	s.handlers = h

	logger.Debug().Msg("Server instance created successfully")
	return s, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Start binds the configured address and starts serving. Cancelling ctx
// shuts the returned Service down gracefully.
func (s *Server) Start(ctx context.Context) (*Service, error) {
	addr := s.config.ConnectionString()
	s.logger.Debug().Str("address", addr).Msg("Starting application")

	ln, err := Bind(ctx, addr)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("host", s.config.Host).
			Int("port", s.config.Port).
			Msg("Failed to bind")
		return nil, err
	}

	opts := ServeOptions{
		ShutdownTimeout: s.config.ShutdownTimeout,
		ReadTimeout:     s.config.ReadTimeout,
		WriteTimeout:    s.config.WriteTimeout,
		IdleTimeout:     s.config.IdleTimeout,
		Logger:          s.logger,
	}
	if s.metrics != nil {
		opts.OnStateChange = func(st State) {
			s.metrics.SetState(int(st))
		}
	}

	svc := Serve(ctx, ln, s.Handler(), opts)
	s.logger.Info().Str("address", svc.ConnectionString()).Msg("Application started")

	return svc, nil
}

// Metrics returns the server's collectors, or nil when metrics are disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
