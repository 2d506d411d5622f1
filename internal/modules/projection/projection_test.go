package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldwise/internal/domain"
)

func scenario(years int) Input {
	return Input{
		Price:       200000,
		MonthlyRent: 1800,
		Financing: domain.FinancingAssumptions{
			DownPaymentPct:  20,
			InterestRatePct: 5,
			LoanTermYears:   30,
			ClosingCostsPct: 3,
		},
		Expenses: domain.ExpenseAssumptions{
			PropertyTaxRatePct:     1.5,
			InsuranceRatePct:       0.5,
			MaintenanceRatePct:     1,
			CapitalReservesRatePct: 1,
			ManagementFeePct:       8,
			VacancyMode:            domain.VacancyPercentOfRent,
			VacancyRatePct:         5,
		},
		Years: years,
	}
}

func TestProject_FiveYearHold(t *testing.T) {
	p, err := NewEngine(DefaultConfig()).Project(scenario(5))
	require.NoError(t, err)
	require.Len(t, p.Years, 5)

	tests := []struct {
		year      int
		value     float64
		rent      float64
		equity    float64
		cashFlow  float64
		cumulated float64
	}{
		{1, 206000.00, 1836.00, 2360.58, 4420.22, 4420.22},
		{2, 212180.00, 1872.72, 4841.94, 4794.77, 9214.99},
		{5, 231854.81, 1987.35, 13074.03, 5963.95, 25922.23},
	}
	for _, tt := range tests {
		y := p.Years[tt.year-1]
		assert.Equal(t, tt.year, y.Year)
		assert.InDelta(t, tt.value, y.Value, 0.01, "value year %d", tt.year)
		assert.InDelta(t, tt.rent, y.MonthlyRent, 0.01, "rent year %d", tt.year)
		assert.InDelta(t, tt.equity, y.Equity, 0.01, "equity year %d", tt.year)
		assert.InDelta(t, tt.cashFlow, y.CashFlow, 0.01, "cash flow year %d", tt.year)
		assert.InDelta(t, tt.cumulated, y.CumulativeCashFlow, 0.01, "cumulative year %d", tt.year)
	}

	sale := p.Sale
	assert.InDelta(t, 231854.81, sale.SalePrice, 0.01)
	assert.InDelta(t, 231854.81*0.06, sale.AgentFee, 0.01)
	assert.InDelta(t, 231854.81*0.02, sale.ClosingCosts, 0.01)
	assert.InDelta(t, 146925.97, sale.LoanBalance, 0.01)
	assert.InDelta(t, 66380.46, sale.NetProceeds, 0.01)
	assert.InDelta(t, 40000, sale.DownPayment, 1e-9)
	assert.InDelta(t, 52302.68, sale.TotalProfit, 0.01)
	assert.InDelta(t, 130.7567, sale.TotalROIPct, 1e-3)
}

func TestProject_EquityPlusBalanceIsLoanAmount(t *testing.T) {
	p, err := NewEngine(DefaultConfig()).Project(scenario(10))
	require.NoError(t, err)

	for _, y := range p.Years {
		assert.InDelta(t, 160000, y.Equity+y.LoanBalance, 1e-6, "year %d", y.Year)
		assert.GreaterOrEqual(t, y.LoanBalance, 0.0)
	}
}

func TestProject_DebtServiceStopsAfterPayoff(t *testing.T) {
	in := scenario(4)
	in.Financing.LoanTermYears = 2

	p, err := NewEngine(DefaultConfig()).Project(in)
	require.NoError(t, err)

	assert.Greater(t, p.Years[0].DebtService, 0.0)
	assert.Greater(t, p.Years[1].DebtService, 0.0)
	assert.Zero(t, p.Years[2].DebtService)
	assert.Zero(t, p.Years[3].DebtService)
	assert.InDelta(t, 0, p.Years[3].LoanBalance, 1e-6)
	assert.InDelta(t, 160000, p.Years[3].Equity, 1e-6)
	assert.InDelta(t, 0, p.Sale.LoanBalance, 1e-6)
}

func TestProject_PriceBasedAndOverriddenExpensesStayFixed(t *testing.T) {
	in := scenario(3)
	in.Expenses = domain.ExpenseAssumptions{
		PropertyTaxRatePct: 1.5,
		ManagementFeePct:   8,
		Overrides:          map[domain.ExpenseItem]float64{domain.ExpenseManagement: 150},
	}

	p, err := NewEngine(DefaultConfig()).Project(in)
	require.NoError(t, err)

	for _, y := range p.Years {
		assert.InDelta(t, 3000+150*12, y.OperatingExpenses, 1e-9, "year %d", y.Year)
	}
}

func TestProject_AllCashPurchase(t *testing.T) {
	in := scenario(2)
	in.Financing.DownPaymentPct = 100

	cfg := DefaultConfig()
	cfg.AppreciationRatePct = 0
	cfg.RentGrowthRatePct = 0
	p, err := NewEngine(cfg).Project(in)
	require.NoError(t, err)

	for _, y := range p.Years {
		assert.Zero(t, y.DebtService)
		assert.Zero(t, y.Equity)
		assert.Zero(t, y.LoanBalance)
	}
	assert.InDelta(t, 200000*0.92, p.Sale.NetProceeds, 1e-9)
	assert.InDelta(t, 200000, p.Sale.DownPayment, 1e-9)
}

func TestProject_NoDownPaymentReportsZeroROI(t *testing.T) {
	in := scenario(3)
	in.Financing.DownPaymentPct = 0

	p, err := NewEngine(DefaultConfig()).Project(in)
	require.NoError(t, err)
	assert.Zero(t, p.Sale.TotalROIPct)
	assert.NotZero(t, p.Sale.TotalProfit)
}

func TestProject_InvalidHorizon(t *testing.T) {
	engine := NewEngine(Config{MaxYears: 30, AgentFeePct: 6, SaleClosingCostsPct: 2})

	for _, years := range []int{0, -1, 31} {
		_, err := engine.Project(scenario(years))
		verr, ok := domain.AsValidationError(err)
		require.True(t, ok, "years=%d", years)
		assert.Equal(t, "hold_period_years", verr.Fields[0].Field)
	}
}
