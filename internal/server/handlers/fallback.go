package handlers

import (
	"net/http"

	"github.com/agentstation/phobost/internal/server/response"
	"github.com/agentstation/phobost/pkg/constants"
)

// HandleRoot redirects the bare root to the documentation and answers
// every other unmatched path with 404.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.HandleNotFound(w, r)
		return
	}
	http.Redirect(w, r, constants.PathDocs, http.StatusPermanentRedirect)
}

// HandleFavicon returns 204 No Content to keep browsers from logging 404s.
func (h *Handlers) HandleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// HandleNotFound answers unknown routes with the JSON error envelope.
func (h *Handlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	response.NotFound(w, "Route not found", "No route matches "+r.Method+" "+r.URL.Path)
}
