package handlers

import (
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/agentstation/phobost/internal/server/response"
	"github.com/agentstation/phobost/pkg/errors"
	"github.com/agentstation/phobost/pkg/logging"
)

// HandleMarkdownToHTML handles POST /v1/md2html.
func (h *Handlers) HandleMarkdownToHTML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method, http.MethodPost)
		return
	}

	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read request body")
		response.ErrorFromType(w, errors.WrapValidation("body", err))
		return
	}
	if !utf8.Valid(body) {
		response.ErrorFromType(w, errors.NewValidationError("body", len(body), "request body is not valid UTF-8"))
		return
	}

	log.Info().Int("length", len(body)).Msg("Received markdown text to convert")

	html := h.renderer.RenderBytes(body)
	if h.observer != nil {
		h.observer.ObserveConversion(len(body), len(html))
	}

	response.HTML(w, http.StatusOK, html)
}
