package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/recommendation"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, p.Validate())

	assert.Equal(t, 20.0, p.Defaults.Financing.DownPaymentPct)
	assert.Equal(t, 5.0, p.Defaults.Financing.InterestRatePct)
	assert.Equal(t, 30, p.Defaults.Financing.LoanTermYears)
	assert.Equal(t, 3.0, p.Defaults.Financing.ClosingCostsPct)
	assert.Equal(t, 3.0, p.Defaults.Expenses.PropertyTaxRatePct)
	assert.Equal(t, 8.0, p.Defaults.Expenses.ManagementFeePct)
	assert.Equal(t, domain.VacancyPercentOfRent, p.Defaults.Expenses.VacancyMode)
	assert.Equal(t, 8.0, p.Defaults.DiscountRatePct)
	assert.Equal(t, 3.0, p.Metrics.AppreciationRatePct)
	assert.Equal(t, 2.0, p.Projection.RentGrowthRatePct)
	assert.Equal(t, recommendation.PolicyLadder, p.Recommendation.Policy)
	assert.Equal(t, 800000.0, p.Comparables.PriceCap)
	assert.Equal(t, 0.008, p.Rent.FallbackRatio)
	assert.Equal(t, 289.24, p.Rent.ModelMargin)
	assert.Equal(t, 150.0, p.Land.DevelopmentCostPerSqft)
}

func TestDecode_OverridesOnTopOfDefaults(t *testing.T) {
	p, err := Decode(`
[defaults.financing]
down_payment_pct = 25
interest_rate_pct = 6.5

[defaults.expenses]
vacancy_mode = "months_per_year"
vacancy_months = 1.5

[recommendation]
policy = "simple"

[recommendation.simple]
cap_rate_pct = 7
monthly_cash_flow = 250

[comparables]
price_cap = 1200000
limit = 8

[rent]
fallback_ratio = 0.0075
`)
	require.NoError(t, err)

	assert.Equal(t, 25.0, p.Defaults.Financing.DownPaymentPct)
	assert.Equal(t, 6.5, p.Defaults.Financing.InterestRatePct)
	assert.Equal(t, 30, p.Defaults.Financing.LoanTermYears, "unset keys keep defaults")
	assert.Equal(t, domain.VacancyMonthsPerYear, p.Defaults.Expenses.VacancyMode)
	assert.Equal(t, 1.5, p.Defaults.Expenses.VacancyMonths)
	assert.Equal(t, recommendation.PolicySimple, p.Recommendation.Policy)
	assert.Equal(t, 7.0, p.Recommendation.Simple.CapRatePct)
	assert.Equal(t, 1200000.0, p.Comparables.PriceCap)
	assert.Equal(t, 6000.0, p.Comparables.SqftCap)
	assert.Equal(t, 8, p.Comparables.Limit)
	assert.Equal(t, 0.0075, p.Rent.FallbackRatio)
}

func TestDecode_RejectsInvalidProfiles(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"down payment above 100", "[defaults.financing]\ndown_payment_pct = 120\n", "down_payment_pct"},
		{"unknown policy", "[recommendation]\npolicy = \"aggressive\"\n", "recommendation"},
		{"zero fallback ratio", "[rent]\nfallback_ratio = 0\n", "rent.fallback_ratio"},
		{"percentile out of range", "[comparables]\nlower_percentile = 1.5\n", "comparables.lower_percentile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.doc)
			verr, ok := domain.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)

			var fields []string
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	_, err := Decode("not = [valid")
	assert.Error(t, err)
}

func TestLoader_Load(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	p, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), p)

	p, err = loader.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), p)

	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte("[metrics]\nappreciation_rate_pct = 4\n[land]\ndevelopment_cost_per_sqft = 175\n"), 0o600))
	p, err = loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.Metrics.AppreciationRatePct)
	assert.Equal(t, 175.0, p.Land.DevelopmentCostPerSqft)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[rent]\nfallback_ratio = -1\n"), 0o600))
	_, err = loader.Load(bad)
	assert.Error(t, err)
}
