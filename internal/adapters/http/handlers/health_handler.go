package handlers

import (
	"net/http"
	"strings"

	"github.com/edmw/wishlist-sub003/internal/ports"
)

// Readiness states.
const (
	stateReady    = "ready"
	stateDegraded = "degraded"
	stateNotReady = "not_ready"
)

// Per-check states. Provider clients report half-open breakers as degraded.
const (
	checkOK       = "ok"
	checkDegraded = "degraded"
	checkFailing  = "failing"
)

// HealthHandler serves the liveness and readiness probes.
//
// Wishlists are served from the store alone, so an unavailable mail or push
// provider only degrades the service: readiness stays 200 and lists the
// failing provider. Checks named as required turn readiness into 503.
type HealthHandler struct {
	registry ports.HealthRegistry
	required map[string]bool
}

// NewHealthHandler returns a HealthHandler reading registry. required names
// the checks the service cannot serve without.
func NewHealthHandler(registry ports.HealthRegistry, required ...string) *HealthHandler {
	h := &HealthHandler{registry: registry, required: make(map[string]bool, len(required))}
	for _, name := range required {
		h.required[name] = true
	}
	return h
}

type checkResponse struct {
	State    string `json:"state"`
	Required bool   `json:"required,omitempty"`
	Error    string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status string                   `json:"status"`
	Checks map[string]checkResponse `json:"checks"`
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, r, http.StatusOK, map[string]string{"status": checkOK})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	resp := readinessResponse{Status: stateReady, Checks: map[string]checkResponse{}}
	code := http.StatusOK

	for name, err := range h.registry.CheckAll(r.Context()) {
		check := checkResponse{State: checkOK, Required: h.required[name]}
		if err != nil {
			check.State, check.Error = checkState(err), err.Error()
			switch {
			case check.Required:
				resp.Status, code = stateNotReady, http.StatusServiceUnavailable
			case resp.Status == stateReady:
				resp.Status = stateDegraded
			}
		}
		resp.Checks[name] = check
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, r, code, resp)
}

func checkState(err error) string {
	if strings.Contains(err.Error(), checkDegraded) {
		return checkDegraded
	}
	return checkFailing
}
