package metrics

import (
	"math"
	"testing"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/expenses"
	"github.com/aristath/yieldwise/pkg/formulas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioExpenses() domain.ExpenseAssumptions {
	return domain.ExpenseAssumptions{
		PropertyTaxRatePct:     1.5,
		InsuranceRatePct:       0.5,
		MaintenanceRatePct:     1,
		CapitalReservesRatePct: 1,
		ManagementFeePct:       8,
		VacancyMode:            domain.VacancyPercentOfRent,
		VacancyRatePct:         5,
	}
}

func scenarioFinancing() domain.FinancingAssumptions {
	return domain.FinancingAssumptions{DownPaymentPct: 20, InterestRatePct: 5, LoanTermYears: 30, ClosingCostsPct: 3}
}

func buildInput(price, rent float64, fin domain.FinancingAssumptions, exp domain.ExpenseAssumptions) Input {
	return Input{
		Price:           price,
		MonthlyRent:     rent,
		MortgagePayment: fin.Loan(price).Payment(),
		Expenses:        expenses.Calculate(price, rent, exp),
		Financing:       fin,
	}
}

func TestCompute_EndToEndScenario(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	r := engine.Compute(buildInput(200000, 1800, scenarioFinancing(), scenarioExpenses()))

	assert.InDelta(t, 859, r.MortgagePayment, 5)
	assert.InDelta(t, 858.91, r.MortgagePayment, 0.01)
	assert.Equal(t, 40000.0, r.DownPayment)
	assert.Equal(t, 46000.0, r.TotalUpfrontCost)
	assert.InDelta(t, 7240, r.AnnualOperatingExpenses, 1e-6)
	assert.InDelta(t, 14360, r.NOI, 1e-6)
	assert.InDelta(t, 7.18, r.CapRatePct, 1e-9)
	assert.InDelta(t, 337.75, r.MonthlyCashFlow, 0.01)
	assert.InDelta(t, 8.81, r.CashOnCashPct, 0.01)
	assert.InDelta(t, 1192.25, r.PITI, 0.01)
	assert.InDelta(t, 1462.25, r.BreakEvenRent, 0.01)
	assert.InDelta(t, 0.9, r.RentToPricePct, 1e-9)
	assert.InDelta(t, 2360.58, r.PrincipalPaidYear1, 0.01)
	assert.InDelta(t, 26.99, r.TotalROIPct, 0.01)
	assert.InDelta(t, 11.35, r.PaybackPeriodYears, 0.01)
	assert.False(t, r.PaybackNever)
	assert.InDelta(t, 1.3932, r.DSCR, 1e-4)
	assert.InDelta(t, 9.2593, r.GRM, 1e-4)
	assert.InDelta(t, 0.3352, r.OperatingExpenseRatio, 1e-4)
	assert.InDelta(t, 81.24, r.BreakEvenOccupancyPct, 0.01)
	assert.Equal(t, r.RentToPricePct, r.RentToValuePct)
	assert.Equal(t, 2000.0, r.OnePercentRuleRent)
	assert.False(t, r.MeetsOnePercentRule)
	assert.Nil(t, r.IRRPct)
	assert.Nil(t, r.NPV)
}

func TestCompute_CapRateIgnoresFinancing(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	base := engine.Compute(buildInput(250000, 2100, scenarioFinancing(), scenarioExpenses()))

	variants := []domain.FinancingAssumptions{
		{DownPaymentPct: 0, InterestRatePct: 7.5, LoanTermYears: 30, ClosingCostsPct: 3},
		{DownPaymentPct: 50, InterestRatePct: 3, LoanTermYears: 15, ClosingCostsPct: 1},
		{DownPaymentPct: 100, InterestRatePct: 6, LoanTermYears: 30, ClosingCostsPct: 5},
		{DownPaymentPct: 25, InterestRatePct: 0, LoanTermYears: 20, ClosingCostsPct: 0},
	}
	for _, fin := range variants {
		r := engine.Compute(buildInput(250000, 2100, fin, scenarioExpenses()))
		assert.Equal(t, base.CapRatePct, r.CapRatePct)
		assert.Equal(t, base.NOI, r.NOI)
	}
}

// The breakdown is held at the quoted rent, so the rent-based items do not
// move with the break-even rent and the cash flow is exactly zero.
func TestCompute_BreakEvenRentRoundTrip(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	cases := []struct {
		price float64
		rent  float64
		fin   domain.FinancingAssumptions
	}{
		{200000, 1800, scenarioFinancing()},
		{350000, 1500, domain.FinancingAssumptions{DownPaymentPct: 10, InterestRatePct: 7, LoanTermYears: 30, ClosingCostsPct: 2}},
		{90000, 1100, domain.FinancingAssumptions{DownPaymentPct: 25, InterestRatePct: 4.25, LoanTermYears: 15, ClosingCostsPct: 3}},
	}
	for _, c := range cases {
		first := buildInput(c.price, c.rent, c.fin, scenarioExpenses())
		r := engine.Compute(first)

		again := first
		again.MonthlyRent = r.BreakEvenRent
		rt := engine.Compute(again)
		assert.InDelta(t, 0, rt.MonthlyCashFlow, 1e-9, "price %.0f", c.price)
	}
}

func TestCompute_PaybackNeverSentinel(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	for _, price := range []float64{100000, 300000, 750000} {
		for _, rent := range []float64{0, 400, 900, 1500} {
			for _, rate := range []float64{3, 6, 9} {
				fin := scenarioFinancing()
				fin.InterestRatePct = rate
				r := engine.Compute(buildInput(price, rent, fin, scenarioExpenses()))
				if r.MonthlyCashFlow <= 0 {
					assert.True(t, r.PaybackNever)
					assert.Equal(t, float64(PaybackNeverYears), r.PaybackPeriodYears)
				} else {
					assert.False(t, r.PaybackNever)
					assert.Less(t, r.PaybackPeriodYears, float64(PaybackNeverYears))
				}
				assert.False(t, math.IsInf(r.PaybackPeriodYears, 0))
				assert.False(t, math.IsNaN(r.PaybackPeriodYears))
			}
		}
	}
}

func TestCompute_ZeroDenominatorsReturnZero(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	fin := domain.FinancingAssumptions{DownPaymentPct: 100, LoanTermYears: 30}
	r := engine.Compute(buildInput(0, 0, fin, scenarioExpenses()))

	for name, v := range map[string]float64{
		"cap rate":     r.CapRatePct,
		"coc":          r.CashOnCashPct,
		"rent/price":   r.RentToPricePct,
		"roi":          r.TotalROIPct,
		"dscr":         r.DSCR,
		"grm":          r.GRM,
		"oer":          r.OperatingExpenseRatio,
		"occupancy":    r.BreakEvenOccupancyPct,
		"rent/value":   r.RentToValuePct,
		"one pct rule": r.OnePercentRuleRent,
	} {
		assert.Zero(t, v, name)
	}
	assert.True(t, r.PaybackNever)
	for _, b := range r.Benchmarks {
		assert.False(t, b.Good, b.Name)
	}
}

func TestCompute_NoDebtServiceDSCR(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	fin := domain.FinancingAssumptions{DownPaymentPct: 100, InterestRatePct: 5, LoanTermYears: 30}
	r := engine.Compute(buildInput(200000, 1800, fin, scenarioExpenses()))

	assert.Zero(t, r.MortgagePayment)
	assert.Zero(t, r.DSCR)
	assert.Zero(t, r.PrincipalPaidYear1)
}

func TestCompute_HoldPeriodIRRAndNPV(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	in := buildInput(200000, 1800, scenarioFinancing(), scenarioExpenses())
	in.HoldPeriodYears = 5
	in.DiscountRatePct = 8

	r := engine.Compute(in)

	require.Len(t, r.CashFlowSeries, 6)
	assert.Equal(t, -46000.0, r.CashFlowSeries[0])
	assert.InDelta(t, r.AnnualCashFlow, r.CashFlowSeries[1], 1e-9)
	assert.InDelta(t, r.AnnualCashFlow+formulas.Compound(200000, 3, 5), r.CashFlowSeries[5], 1e-6)

	require.True(t, r.IRRDefined)
	require.NotNil(t, r.IRRPct)
	assert.InDelta(t, 43.42, *r.IRRPct, 0.01)
	require.NotNil(t, r.NPV)
	assert.InDelta(t, 127979.04, *r.NPV, 0.01)
}

func TestCompute_IRRUndefined(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	// Nothing paid upfront and nothing but inflows afterwards: no sign change
	fin := domain.FinancingAssumptions{DownPaymentPct: 0, InterestRatePct: 0, LoanTermYears: 30, ClosingCostsPct: 0}
	in := buildInput(200000, 1800, fin, scenarioExpenses())
	in.HoldPeriodYears = 3
	in.DiscountRatePct = 8

	r := engine.Compute(in)
	assert.False(t, r.IRRDefined)
	assert.Nil(t, r.IRRPct)
	assert.NotNil(t, r.NPV)
}

func TestCompute_AppreciationConfigurable(t *testing.T) {
	in := buildInput(200000, 1800, scenarioFinancing(), scenarioExpenses())

	flat := NewEngine(Config{AppreciationRatePct: 0}).Compute(in)
	standard := NewEngine(DefaultConfig()).Compute(in)

	assert.InDelta(t, 6000.0/46000*100, standard.TotalROIPct-flat.TotalROIPct, 1e-9)
}

func TestCompute_HoldPeriodCapped(t *testing.T) {
	engine := NewEngine(Config{AppreciationRatePct: 3, MaxHoldPeriodYears: 10})
	in := buildInput(200000, 1800, scenarioFinancing(), scenarioExpenses())
	in.HoldPeriodYears = 40

	r := engine.Compute(in)
	assert.Equal(t, 10, r.HoldPeriodYears)
	assert.Len(t, r.CashFlowSeries, 11)
}

func TestCompute_Benchmarks(t *testing.T) {
	r := NewEngine(DefaultConfig()).Compute(buildInput(200000, 1800, scenarioFinancing(), scenarioExpenses()))

	good := map[string]bool{}
	for _, b := range r.Benchmarks {
		good[b.Name] = b.Good
	}
	assert.Equal(t, map[string]bool{
		"Cash-on-Cash Return":     true,
		"DSCR":                    true,
		"Gross Rent Multiplier":   true,
		"Operating Expense Ratio": true,
		"Break-even Occupancy":    true,
		"Rent-to-Value":           true,
	}, good)
}

func TestResult_Rounded(t *testing.T) {
	in := buildInput(200000, 1800, scenarioFinancing(), scenarioExpenses())
	in.HoldPeriodYears = 5
	in.DiscountRatePct = 8
	r := NewEngine(DefaultConfig()).Compute(in)

	rounded := r.Rounded()
	assert.Equal(t, 858.91, rounded.MortgagePayment)
	assert.Equal(t, 337.75, rounded.MonthlyCashFlow)
	assert.Equal(t, 43.42, *rounded.IRRPct)
	assert.NotEqual(t, *r.IRRPct, *rounded.IRRPct, "original snapshot is untouched")
	assert.InDelta(t, 858.9146, r.MortgagePayment, 1e-4)
}
