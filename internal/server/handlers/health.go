package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/phobost/internal/server/response"
)

// HealthStatus is the liveness state reported by the health probe.
// The service only ever reports StatusOK while it is answering requests.
type HealthStatus string

// StatusOK is the single health state.
const StatusOK HealthStatus = "Ok"

// HandleHealth handles GET /v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		response.MethodNotAllowed(w, r.Method, http.MethodGet, http.MethodHead)
		return
	}

	body, err := json.Marshal(StatusOK)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.RawJSON(w, http.StatusOK, body)
}
