package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// version is overridden at build time with -ldflags "-X ..."
var version = "dev"

type healthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	Database      string `json:"database"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// handleHealth reports liveness. Only an unreachable database makes the
// service unhealthy; missing optional collaborators never do.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:        "healthy",
		Service:       "yieldwise",
		Version:       version,
		Database:      "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
	status := http.StatusOK

	if err := s.container.DB.HealthCheck(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Health check failed")
		resp.Status = "unhealthy"
		resp.Database = err.Error()
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, resp)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
