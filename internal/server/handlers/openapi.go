package handlers

import (
	"net/http"

	"github.com/agentstation/phobost/internal/server/response"
	"github.com/agentstation/phobost/pkg/constants"
)

// HandleOpenAPIJSON serves the OpenAPI 3.1 description in JSON format.
func (h *Handlers) HandleOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	if !readOnly(w, r) {
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.RawJSON(w, http.StatusOK, h.specJSON)
}

// HandleOpenAPIYAML serves the OpenAPI 3.1 description in YAML format.
func (h *Handlers) HandleOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	if !readOnly(w, r) {
		return
	}
	w.Header().Set("Content-Type", constants.ContentTypeYAML)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.specYAML)
}

// HandleDocs serves the interactive API documentation.
func (h *Handlers) HandleDocs(w http.ResponseWriter, r *http.Request) {
	if !readOnly(w, r) {
		return
	}
	response.HTML(w, http.StatusOK, h.docsPage)
}

// readOnly rejects everything but GET and HEAD.
func readOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	response.MethodNotAllowed(w, r.Method, http.MethodGet, http.MethodHead)
	return false
}
