// Package handlers provides HTTP handlers for the settings profile.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/modules/settings"
)

// Handler serves the active settings profile
type Handler struct {
	profile settings.Profile
	log     zerolog.Logger
}

// NewHandler creates a new settings handler
func NewHandler(profile settings.Profile, log zerolog.Logger) *Handler {
	return &Handler{
		profile: profile,
		log:     log.With().Str("handler", "settings").Logger(),
	}
}

// HandleGetDefaults handles GET /api/settings/defaults
// Returns the assumptions applied to fields a request leaves out
func (h *Handler) HandleGetDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"defaults": h.profile.Defaults,
	})
}

// HandleGetProfile handles GET /api/settings
// Returns the full active profile
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": h.profile,
	})
}

// RegisterRoutes registers settings routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.HandleGetProfile)
		r.Get("/defaults", h.HandleGetDefaults)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
