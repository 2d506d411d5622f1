// Package settings holds the default assumptions and policy parameters of
// an analysis, loaded from a TOML profile.
package settings

import (
	"github.com/aristath/yieldwise/internal/clients/rentmodel"
	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/comparables"
	"github.com/aristath/yieldwise/internal/modules/estimator"
	"github.com/aristath/yieldwise/internal/modules/metrics"
	"github.com/aristath/yieldwise/internal/modules/projection"
	"github.com/aristath/yieldwise/internal/modules/recommendation"
)

// Profile is the complete set of tunables. Request fields left unset are
// filled from Defaults.
type Profile struct {
	Defaults       Defaults              `json:"defaults" toml:"defaults"`
	Metrics        metrics.Config        `json:"metrics" toml:"metrics"`
	Projection     projection.Config     `json:"projection" toml:"projection"`
	Recommendation recommendation.Config `json:"recommendation" toml:"recommendation"`
	Comparables    comparables.Criteria  `json:"comparables" toml:"comparables"`
	Rent           RentConfig            `json:"rent" toml:"rent"`
	Land           LandConfig            `json:"land" toml:"land"`
}

// Defaults are the per-request assumptions used when a request omits them
type Defaults struct {
	Financing       domain.FinancingAssumptions `json:"financing" toml:"financing"`
	Expenses        domain.ExpenseAssumptions   `json:"expenses" toml:"expenses"`
	DiscountRatePct float64                     `json:"discount_rate_pct" toml:"discount_rate_pct"`
}

// RentConfig controls rent estimation
type RentConfig struct {
	// FallbackRatio is monthly rent per dollar of price when no estimator answers
	FallbackRatio float64 `json:"fallback_ratio" toml:"fallback_ratio"`
	// ModelMargin is used when the model reports no confidence range
	ModelMargin float64 `json:"model_margin" toml:"model_margin"`
}

// LandConfig controls land feasibility
type LandConfig struct {
	DevelopmentCostPerSqft float64 `json:"development_cost_per_sqft" toml:"development_cost_per_sqft"`
}

// DefaultProfile returns the built-in profile
func DefaultProfile() Profile {
	return Profile{
		Defaults: Defaults{
			Financing: domain.FinancingAssumptions{
				DownPaymentPct:  20,
				InterestRatePct: 5,
				LoanTermYears:   30,
				ClosingCostsPct: 3,
			},
			Expenses: domain.ExpenseAssumptions{
				PropertyTaxRatePct:     3.0,
				InsuranceRatePct:       0.5,
				MaintenanceRatePct:     1,
				CapitalReservesRatePct: 1,
				ManagementFeePct:       8,
				VacancyMode:            domain.VacancyPercentOfRent,
				VacancyRatePct:         5,
				VacancyMonths:          1,
			},
			DiscountRatePct: 8,
		},
		Metrics:        metrics.DefaultConfig(),
		Projection:     projection.DefaultConfig(),
		Recommendation: recommendation.DefaultConfig(),
		Comparables:    comparables.DefaultCriteria(),
		Rent: RentConfig{
			FallbackRatio: estimator.DefaultFallbackRatio,
			ModelMargin:   rentmodel.DefaultMargin,
		},
		Land: LandConfig{
			DevelopmentCostPerSqft: comparables.DefaultDevelopmentCostPerSqft,
		},
	}
}

// Validate checks the profile can drive an analysis
func (p Profile) Validate() error {
	verr := domain.NewValidationError("invalid settings profile")
	verr.Merge(p.Defaults.Financing.Validate())
	verr.Merge(p.Defaults.Expenses.Validate())

	if _, err := recommendation.New(p.Recommendation); err != nil {
		verr.Add("recommendation", err.Error())
	}
	if p.Rent.FallbackRatio <= 0 {
		verr.Add("rent.fallback_ratio", "must be greater than zero")
	}
	if p.Rent.ModelMargin < 0 {
		verr.Add("rent.model_margin", "cannot be negative")
	}
	if p.Land.DevelopmentCostPerSqft < 0 {
		verr.Add("land.development_cost_per_sqft", "cannot be negative")
	}
	if p.Comparables.LowerPercentile < 0 || p.Comparables.LowerPercentile >= 1 {
		verr.Add("comparables.lower_percentile", "must be in [0, 1)")
	}
	if p.Projection.AgentFeePct < 0 || p.Projection.SaleClosingCostsPct < 0 {
		verr.Add("projection", "sale cost percentages cannot be negative")
	}
	return verr.OrNil()
}
