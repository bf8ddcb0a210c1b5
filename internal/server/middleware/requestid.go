package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agentstation/phobost/pkg/constants"
)

// RequestID assigns a fresh UUID to the x-request-id request header when the
// client did not send one. A client-supplied value is never replaced, even
// when it is empty.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Values(constants.HeaderRequestID)) == 0 {
				r2 := new(http.Request)
				*r2 = *r
				r2.Header = r.Header.Clone()
				if r2.Header == nil {
					r2.Header = make(http.Header)
				}
				r2.Header.Set(constants.HeaderRequestID, uuid.NewString())
				r = r2
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PropagateRequestID copies the request's x-request-id onto the response
// before the rest of the pipeline runs, so error responses carry it too.
func PropagateRequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ids := r.Header.Values(constants.HeaderRequestID); len(ids) > 0 {
				w.Header().Set(constants.HeaderRequestID, ids[0])
			}

			next.ServeHTTP(w, r)
		})
	}
}
