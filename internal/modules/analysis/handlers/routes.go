package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze", h.HandleAnalyze)         // Full analysis of one property
	r.Post("/analyze/compare", h.HandleCompare) // Base case against a what-if
	r.Post("/amortization", h.HandleAmortization)
}
