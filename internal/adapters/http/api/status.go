package api

import "net/http"

// StatusHandler serves the latest annotated frame result.
type StatusHandler struct {
	deps Dependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps Dependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

// HandleStatus handles GET /status requests.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	result, ok := h.deps.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no_frames", ErrNoFrames)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
