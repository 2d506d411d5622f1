package analysis

import (
	"time"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/comparables"
	"github.com/aristath/yieldwise/internal/modules/expenses"
	"github.com/aristath/yieldwise/internal/modules/metrics"
	"github.com/aristath/yieldwise/internal/modules/projection"
	"github.com/aristath/yieldwise/internal/modules/recommendation"
)

// Request is one property to analyze together with its assumptions.
// Build it with Service.NewRequest so omitted assumptions carry defaults.
type Request struct {
	Property  domain.PropertyInput        `json:"property"`
	Financing domain.FinancingAssumptions `json:"financing"`
	Expenses  domain.ExpenseAssumptions   `json:"expenses"`
	// MonthlyRent > 0 is used as-is instead of estimating rent
	MonthlyRent float64 `json:"monthly_rent,omitempty"`
	// HoldPeriodYears > 0 adds IRR, NPV and a year-by-year projection
	HoldPeriodYears int     `json:"hold_period_years,omitempty"`
	DiscountRatePct float64 `json:"discount_rate_pct"`
	SkipComparables bool    `json:"skip_comparables,omitempty"`
}

// RentSummary is the rent used by an analysis and its plausible range
type RentSummary struct {
	domain.RentEstimate
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Report is the complete, immutable outcome of one analysis
type Report struct {
	ID             string                        `json:"analysis_id"`
	CreatedAt      time.Time                     `json:"created_at"`
	Property       domain.PropertyInput          `json:"property"`
	Financing      domain.FinancingAssumptions   `json:"financing"`
	Expenses       domain.ExpenseAssumptions     `json:"expense_assumptions"`
	Rent           RentSummary                   `json:"rent"`
	Breakdown      expenses.Breakdown            `json:"expenses"`
	Metrics        metrics.Result                `json:"results"`
	Recommendation recommendation.Recommendation `json:"recommendation"`
	Projection     *projection.Projection        `json:"projection,omitempty"`
	Comparables    comparables.Result            `json:"comparables"`
	Feasibility    *comparables.Feasibility      `json:"feasibility,omitempty"`
}

// Delta is the change in one headline metric between two analyses
type Delta struct {
	Metric   string  `json:"metric"`
	Base     float64 `json:"base"`
	Scenario float64 `json:"scenario"`
	Change   float64 `json:"change"`
}

// Comparison is a base case, a what-if scenario and how they differ
type Comparison struct {
	Base     *Report `json:"base"`
	Scenario *Report `json:"scenario"`
	Deltas   []Delta `json:"deltas"`
	// VerdictChanged is true when the scenario moves the recommendation
	VerdictChanged bool `json:"verdict_changed"`
}
