package server

import (
	"net/http"

	"github.com/agentstation/phobost/internal/server/handlers"
	"github.com/agentstation/phobost/internal/server/middleware"
	"github.com/agentstation/phobost/pkg/constants"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	s.registerRoutes(mux, s.handlers)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := constants.PathPrefixV1

	// Root redirect and JSON 404 for everything unmatched
	mux.HandleFunc("/", h.HandleRoot)

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", h.HandleFavicon)

	// Version 1 API
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/md2html", h.HandleMarkdownToHTML)

	// Documentation; the /docs/ subtree serves the docs page for any subpath
	mux.HandleFunc(constants.PathDocs, h.HandleDocs)
	mux.HandleFunc(constants.PathDocs+"/", h.HandleDocs)
	mux.HandleFunc(constants.PathOpenAPIJSON, h.HandleOpenAPIJSON)
	mux.HandleFunc(constants.PathOpenAPIYAML, h.HandleOpenAPIYAML)

	// Metrics endpoint (optional)
	if s.metrics != nil {
		mux.Handle(constants.PathMetrics, s.metrics.Handler())
	}
}

// applyMiddleware wraps handler with the request pipeline.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	var extra []func(http.Handler) http.Handler

	// CORS (if origins are configured)
	if cors := middleware.NewCORSConfig(s.config.CORSOrigins...); cors.Enabled() {
		extra = append(extra, middleware.CORS(cors))
	}

	var observer middleware.Observer
	if s.metrics != nil {
		observer = s.metrics
	}

	return middleware.Pipeline(s.logger, observer, s.config.RequestTimeout, extra...)(handler)
}
