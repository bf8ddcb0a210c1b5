package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/phobost/pkg/constants"
	"github.com/agentstation/phobost/pkg/logging"
)

// Observer receives one observation per completed request.
type Observer interface {
	ObserveRequest(method, path string, status int, latency time.Duration)
}

// Trace opens a logging span for the request. The span logger carries the
// method, URI, protocol version and request id, and is stored in the request
// context for handlers. When the request completes the span logs the status
// code and latency and reports to observer, which may be nil.
func Trace(logger *zerolog.Logger, observer Observer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			span := logger.With().
				Str("method", r.Method).
				Str("uri", r.RequestURI).
				Str("version", r.Proto).
				Logger()
			ctx := logging.WithLogger(r.Context(), &span)
			ctx = logging.WithRequestID(ctx, r.Header.Get(constants.HeaderRequestID))
			log := logging.FromContext(ctx)

			log.Debug().Msg("Request")

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			latency := time.Since(start)
			log.Info().
				Int("status_code", wrapped.statusCode).
				Dur("latency", latency).
				Int("bytes", wrapped.written).
				Msg("Response")

			if observer != nil {
				observer.ObserveRequest(r.Method, r.URL.Path, wrapped.statusCode, latency)
			}
		})
	}
}
