// Package api declares HTTP contracts and route registration helpers for the
// monitor surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/vigil/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the pipeline service.
type Dependencies interface {
	// Latest exposes the most recent annotated frame result.
	Latest() (model.FrameResult, bool)

	// GetStats exposes pipeline counters for monitoring.
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the monitor API.
type Server struct {
	healthHandler *HealthHandler
	statusHandler *StatusHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statusHandler: NewStatusHandler(deps),
		statsHandler:  NewStatsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/status", MetricsMiddleware(s.statusHandler.HandleStatus, "status"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
