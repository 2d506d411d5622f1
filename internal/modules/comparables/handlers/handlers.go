// Package handlers provides HTTP handlers for comparables and market data.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/comparables"
)

const maxBodyBytes = 1 << 20

// Handler handles comparables HTTP requests
type Handler struct {
	provider    comparables.Provider
	filter      *comparables.Filter
	costPerSqft float64
	log         zerolog.Logger
}

// NewHandler creates a new comparables handler
func NewHandler(
	provider comparables.Provider,
	filter *comparables.Filter,
	costPerSqft float64,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		provider:    provider,
		filter:      filter,
		costPerSqft: costPerSqft,
		log:         log.With().Str("handler", "comparables").Logger(),
	}
}

// HandleSearch handles POST /api/comparables
// Returns the ranked comparables for the posted property
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var subject domain.PropertyInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&subject); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "Invalid request body")
		return
	}
	if err := validateSubject(subject); err != nil {
		h.writeValidation(w, err)
		return
	}

	table, ok := h.dataset(r.Context(), w)
	if !ok {
		return
	}

	var result comparables.Result
	if table == nil {
		result = comparables.NoComparables("no comparables dataset has been imported")
	} else {
		result = h.filter.Select(subject, table)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"comparables": result,
	})
}

// HandleMarketData handles GET /api/market-data
// Returns summary statistics of the whole sales dataset
func (h *Handler) HandleMarketData(w http.ResponseWriter, r *http.Request) {
	table, ok := h.dataset(r.Context(), w)
	if !ok {
		return
	}

	summary, err := comparables.Summarize(table)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeUnavailable, "Market data not available")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"market_data": summary,
	})
}

type feasibilityRequest struct {
	Property               domain.PropertyInput `json:"property"`
	DevelopmentCostPerSqft *float64             `json:"development_cost_per_sqft,omitempty"`
}

// HandleLandFeasibility handles POST /api/land/feasibility
// Estimates the profit of developing a parcel to the planned size
func (h *Handler) HandleLandFeasibility(w http.ResponseWriter, r *http.Request) {
	var req feasibilityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "Invalid request body")
		return
	}
	if err := req.Property.Validate(); err != nil {
		h.writeValidation(w, err)
		return
	}

	cost := h.costPerSqft
	if req.DevelopmentCostPerSqft != nil {
		if *req.DevelopmentCostPerSqft < 0 {
			verr := domain.NewValidationError("invalid feasibility request")
			verr.Add("development_cost_per_sqft", "cannot be negative")
			h.writeValidation(w, verr)
			return
		}
		cost = *req.DevelopmentCostPerSqft
	}

	table, ok := h.dataset(r.Context(), w)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"feasibility": comparables.LandFeasibility(req.Property, table, cost),
	})
}

// validateSubject checks the attributes a search filters on. Unlike an
// analysis, a search needs neither an address nor a price.
func validateSubject(p domain.PropertyInput) error {
	verr := domain.NewValidationError("invalid comparables request")
	if p.Price < 0 {
		verr.Add("price", "price cannot be negative")
	}
	if p.Beds < 0 {
		verr.Add("beds", "beds cannot be negative")
	}
	if p.Baths < 0 {
		verr.Add("baths", "baths cannot be negative")
	}
	if p.Sqft < 0 {
		verr.Add("sqft", "sqft cannot be negative")
	}
	return verr.OrNil()
}

// dataset loads the comparables table. A missing dataset yields a nil
// table; any other failure is written as a 500 and reports false.
func (h *Handler) dataset(ctx context.Context, w http.ResponseWriter) (*comparables.Table, bool) {
	table, err := h.provider.Comparables(ctx)
	if errors.Is(err, domain.ErrNoDataset) {
		return nil, true
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load comparables dataset")
		h.writeError(w, http.StatusInternalServerError, domain.ErrCodeInternal, "Failed to load comparables dataset")
		return nil, false
	}
	return table, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code domain.ErrorCode, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   domain.ValidationError{Code: code, Message: message},
	})
}

func (h *Handler) writeValidation(w http.ResponseWriter, err error) {
	verr, ok := domain.AsValidationError(err)
	if !ok {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, err.Error())
		return
	}
	h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"error":   verr,
	})
}
