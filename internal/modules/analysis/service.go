// Package analysis runs the full investment analysis for a property:
// rent resolution, expenses, metrics, recommendation, projection and
// comparables.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/comparables"
	"github.com/aristath/yieldwise/internal/modules/estimator"
	"github.com/aristath/yieldwise/internal/modules/expenses"
	"github.com/aristath/yieldwise/internal/modules/metrics"
	"github.com/aristath/yieldwise/internal/modules/projection"
	"github.com/aristath/yieldwise/internal/modules/recommendation"
	"github.com/aristath/yieldwise/internal/modules/settings"
	"github.com/aristath/yieldwise/pkg/formulas"
)

// Recorder receives analysis outcomes for monitoring
type Recorder interface {
	ObserveAnalysis(verdict, rentSource string, d time.Duration)
}

// Service orchestrates analyses. It keeps no per-request state and is
// safe for concurrent use.
type Service struct {
	profile    settings.Profile
	estimator  domain.RentEstimator
	provider   comparables.Provider
	metrics    *metrics.Engine
	policy     recommendation.Policy
	projection *projection.Engine
	filter     *comparables.Filter
	recorder   Recorder
	now        func() time.Time
	log        zerolog.Logger
}

// NewService creates the analysis service.
// rentEstimator and provider may be nil; rent then falls back to the price
// ratio and comparables are reported as unavailable.
func NewService(
	profile settings.Profile,
	rentEstimator domain.RentEstimator,
	provider comparables.Provider,
	log zerolog.Logger,
) (*Service, error) {
	policy, err := recommendation.New(profile.Recommendation)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation policy: %w", err)
	}
	return &Service{
		profile:    profile,
		estimator:  rentEstimator,
		provider:   provider,
		metrics:    metrics.NewEngine(profile.Metrics),
		policy:     policy,
		projection: projection.NewEngine(profile.Projection),
		filter:     comparables.NewFilter(profile.Comparables),
		now:        time.Now,
		log:        log.With().Str("service", "analysis").Logger(),
	}, nil
}

// SetRecorder attaches a monitoring recorder
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// Profile returns the settings the service runs with
func (s *Service) Profile() settings.Profile {
	return s.profile
}

// NewRequest returns a request carrying the profile's default assumptions
func (s *Service) NewRequest() Request {
	d := s.profile.Defaults
	req := Request{
		Financing:       d.Financing,
		Expenses:        d.Expenses,
		DiscountRatePct: d.DiscountRatePct,
	}
	req.Property.PropertyType = domain.PropertyTypeHouse
	req.Expenses.Overrides = nil
	return req
}

// Analyze validates req and computes the full report.
//
// Invalid input returns a *domain.ValidationError and nothing else. Missing
// collaborators never fail an analysis: rent falls back to the price ratio
// and comparables to an explicit no_comparables result.
func (s *Service) Analyze(ctx context.Context, req Request) (*Report, error) {
	start := s.now()

	if req.Property.PropertyType == "" {
		req.Property.PropertyType = domain.PropertyTypeHouse
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	property := req.Property
	price := property.Price

	rent := s.resolveRent(ctx, req)
	loan := req.Financing.Loan(price)
	payment := loan.Payment()
	breakdown := expenses.Calculate(price, rent.Point, req.Expenses)

	result := s.metrics.Compute(metrics.Input{
		Price:           price,
		MonthlyRent:     rent.Point,
		MortgagePayment: payment,
		Expenses:        breakdown,
		Financing:       req.Financing,
		HoldPeriodYears: req.HoldPeriodYears,
		DiscountRatePct: req.DiscountRatePct,
	})
	rec := s.policy.Evaluate(recommendation.InputsFromMetrics(result, expenses.RateFraction(req.Expenses)))

	low, high := rent.Range()
	report := &Report{
		ID:             uuid.New().String(),
		CreatedAt:      start.UTC(),
		Property:       property,
		Financing:      req.Financing,
		Expenses:       req.Expenses,
		Rent:           RentSummary{RentEstimate: rent, Low: low, High: high},
		Breakdown:      breakdown,
		Metrics:        result.Rounded(),
		Recommendation: rec,
	}

	if req.HoldPeriodYears > 0 {
		p, err := s.projection.Project(projection.Input{
			Price:       price,
			MonthlyRent: rent.Point,
			Financing:   req.Financing,
			Expenses:    req.Expenses,
			Years:       req.HoldPeriodYears,
		})
		if err != nil {
			return nil, err
		}
		report.Projection = &p
	}

	table := s.comparablesTable(ctx)
	switch {
	case req.SkipComparables:
		report.Comparables = comparables.NoComparables("comparables not requested")
	case table == nil:
		report.Comparables = comparables.NoComparables("comparables dataset unavailable")
	default:
		report.Comparables = s.filter.Select(property, table)
	}

	if property.PropertyType == domain.PropertyTypeLand {
		f := comparables.LandFeasibility(property, table, s.profile.Land.DevelopmentCostPerSqft)
		report.Feasibility = &f
	}

	elapsed := s.now().Sub(start)
	if s.recorder != nil {
		s.recorder.ObserveAnalysis(string(rec.Verdict), string(rent.Source), elapsed)
	}
	s.log.Info().
		Str("analysis_id", report.ID).
		Float64("price", price).
		Float64("rent", rent.Point).
		Str("rent_source", string(rent.Source)).
		Str("verdict", string(rec.Verdict)).
		Str("comparables", string(report.Comparables.Status)).
		Dur("duration", elapsed).
		Msg("Analysis completed")

	return report, nil
}

func (s *Service) validate(req Request) error {
	verr := domain.NewValidationError("invalid analysis request")
	verr.Merge(req.Property.Validate())
	verr.Merge(req.Financing.Validate())
	verr.Merge(req.Expenses.Validate())

	if req.MonthlyRent < 0 {
		verr.Add("monthly_rent", "cannot be negative")
	}
	if maxYears := s.projection.Config().MaxYears; req.HoldPeriodYears < 0 || req.HoldPeriodYears > maxYears {
		verr.Add("hold_period_years", fmt.Sprintf("must be between 0 and %d", maxYears))
	}
	if req.DiscountRatePct <= -100 {
		verr.Add("discount_rate_pct", "must be greater than -100")
	}
	return verr.OrNil()
}

// resolveRent applies the rent precedence: user value, estimator, fallback
func (s *Service) resolveRent(ctx context.Context, req Request) domain.RentEstimate {
	if req.MonthlyRent > 0 {
		return domain.RentEstimate{Point: req.MonthlyRent, Source: domain.RentSourceUser}
	}

	if s.estimator != nil {
		est, err := s.estimator.EstimateRent(ctx, req.Property.Features())
		if err == nil && est.Point > 0 {
			return est
		}
		if err == nil {
			err = fmt.Errorf("non-positive estimate %.2f", est.Point)
		}
		s.log.Warn().Err(err).Str("address", req.Property.Address).Msg("Rent estimate unavailable, using price ratio")
	}
	return estimator.Fallback(req.Property.Price, s.profile.Rent.FallbackRatio)
}

// comparablesTable loads the dataset, or nil when there is none
func (s *Service) comparablesTable(ctx context.Context) *comparables.Table {
	if s.provider == nil {
		return nil
	}
	table, err := s.provider.Comparables(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoDataset) {
			s.log.Warn().Err(err).Msg("Failed to load comparables dataset")
		}
		return nil
	}
	return table
}

// Compare analyzes a base case and a what-if scenario side by side
func (s *Service) Compare(ctx context.Context, base, scenario Request) (*Comparison, error) {
	baseReport, err := s.Analyze(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("base case: %w", err)
	}
	scenarioReport, err := s.Analyze(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	b, sc := baseReport.Metrics, scenarioReport.Metrics
	headline := []struct {
		name           string
		base, scenario float64
	}{
		{"monthly_rent", b.MonthlyRent, sc.MonthlyRent},
		{"monthly_payment", b.MortgagePayment, sc.MortgagePayment},
		{"monthly_cash_flow", b.MonthlyCashFlow, sc.MonthlyCashFlow},
		{"cap_rate_pct", b.CapRatePct, sc.CapRatePct},
		{"cash_on_cash_pct", b.CashOnCashPct, sc.CashOnCashPct},
		{"break_even_rent", b.BreakEvenRent, sc.BreakEvenRent},
		{"total_roi_pct", b.TotalROIPct, sc.TotalROIPct},
		{"dscr", b.DSCR, sc.DSCR},
	}

	deltas := make([]Delta, 0, len(headline))
	for _, h := range headline {
		deltas = append(deltas, Delta{
			Metric:   h.name,
			Base:     h.base,
			Scenario: h.scenario,
			Change:   formulas.RoundCents(h.scenario - h.base),
		})
	}

	return &Comparison{
		Base:           baseReport,
		Scenario:       scenarioReport,
		Deltas:         deltas,
		VerdictChanged: baseReport.Recommendation.Verdict != scenarioReport.Recommendation.Verdict,
	}, nil
}
