// Package handlers provides HTTP handlers for property analysis.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/analysis"
	"github.com/aristath/yieldwise/pkg/formulas"
)

const maxBodyBytes = 1 << 20

// Handler handles analysis HTTP requests
type Handler struct {
	svc      *analysis.Service
	schema   *requestSchema
	scenario *requestSchema
	log      zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(svc *analysis.Service, log zerolog.Logger) (*Handler, error) {
	schema, scenario, err := loadRequestSchemas()
	if err != nil {
		return nil, err
	}
	return &Handler{
		svc:      svc,
		schema:   schema,
		scenario: scenario,
		log:      log.With().Str("handler", "analysis").Logger(),
	}, nil
}

type analyzeResponse struct {
	Success bool `json:"success"`
	*analysis.Report
}

// HandleAnalyze handles POST /api/analyze
// Runs a full analysis; omitted assumptions take the profile defaults
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if err := h.schema.validate(body, ""); err != nil {
		h.writeValidation(w, err)
		return
	}

	req := h.svc.NewRequest()
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "Invalid request body")
		return
	}

	report, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Report: report})
}

type compareRequest struct {
	Base     json.RawMessage `json:"base"`
	Scenario json.RawMessage `json:"scenario"`
}

// HandleCompare handles POST /api/analyze/compare
// The scenario lists only what changes; everything else is taken from base
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var raw compareRequest
	if err := json.Unmarshal(body, &raw); err != nil || len(raw.Base) == 0 {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "Request needs a base case")
		return
	}
	if len(raw.Scenario) == 0 {
		raw.Scenario = json.RawMessage("{}")
	}

	verr := domain.NewValidationError("request does not match schema")
	verr.Merge(h.schema.validate(raw.Base, "base."))
	verr.Merge(h.scenario.validate(raw.Scenario, "scenario."))
	if err := verr.OrNil(); err != nil {
		h.writeValidation(w, err)
		return
	}

	base := h.svc.NewRequest()
	if err := json.Unmarshal(raw.Base, &base); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "Invalid base case")
		return
	}
	scenario := base
	scenario.Expenses.Overrides = maps.Clone(base.Expenses.Overrides)
	if err := json.Unmarshal(raw.Scenario, &scenario); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "Invalid scenario")
		return
	}

	comparison, err := h.svc.Compare(r.Context(), base, scenario)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"comparison": comparison,
	})
}

// HandleAmortization handles POST /api/amortization
// Returns the payment and the year-by-year schedule of a fixed-rate loan
func (h *Handler) HandleAmortization(w http.ResponseWriter, r *http.Request) {
	var loan formulas.Loan
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&loan); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "Invalid request body")
		return
	}

	verr := domain.NewValidationError("invalid loan")
	if loan.Principal <= 0 {
		verr.Add("principal", "must be greater than zero")
	}
	if loan.AnnualRatePct < 0 || loan.AnnualRatePct > 30 {
		verr.Add("annual_rate_pct", "must be between 0 and 30")
	}
	if loan.TermYears < 1 || loan.TermYears > 50 {
		verr.Add("term_years", "must be between 1 and 50")
	}
	if err := verr.OrNil(); err != nil {
		h.writeValidation(w, err)
		return
	}

	schedule := formulas.YearlySchedule(loan)
	var principal, interest float64
	for _, y := range schedule {
		principal += y.Principal
		interest += y.Interest
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"loan":            loan,
		"monthly_payment": formulas.RoundCents(loan.Payment()),
		"total_interest":  formulas.RoundCents(interest),
		"total_paid":      formulas.RoundCents(principal + interest),
		"schedule":        schedule,
	})
}

// readBody reads a size-limited request body. Failures are written to w
// and report false.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, domain.ErrCodeInvalidInput,
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		h.writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "Failed to read request body")
		return nil, false
	}
	return body, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if _, ok := domain.AsValidationError(err); ok {
		h.writeValidation(w, err)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.writeError(w, http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "Analysis was cancelled")
		return
	}
	h.log.Error().Err(err).Msg("Analysis failed")
	h.writeError(w, http.StatusInternalServerError, domain.ErrCodeInternal, "Analysis failed")
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
