package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers comparables and market data routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/comparables", h.HandleSearch)    // Ranked comparables for a property
	r.Get("/market-data", h.HandleMarketData) // Dataset summary
	r.Post("/land/feasibility", h.HandleLandFeasibility)
}
