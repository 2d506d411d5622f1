package metrics

import "github.com/aristath/yieldwise/pkg/formulas"

// Result is an immutable snapshot of one metrics computation, including the
// inputs it was computed from.
type Result struct {
	Price           float64 `json:"price"`
	MonthlyRent     float64 `json:"monthly_rent"`
	MortgagePayment float64 `json:"monthly_payment"`

	DownPayment      float64 `json:"down_payment"`
	ClosingCosts     float64 `json:"closing_costs"`
	TotalUpfrontCost float64 `json:"total_upfront_cost"`

	AnnualOperatingExpenses  float64 `json:"annual_operating_expenses"`
	MonthlyOperatingExpenses float64 `json:"monthly_operating_expenses"`

	NOI             float64 `json:"noi"`
	CapRatePct      float64 `json:"cap_rate_pct"`
	MonthlyCashFlow float64 `json:"monthly_cash_flow"`
	AnnualCashFlow  float64 `json:"annual_cash_flow"`
	CashOnCashPct   float64 `json:"cash_on_cash_pct"`
	PITI            float64 `json:"piti"`
	BreakEvenRent   float64 `json:"break_even_rent"`
	RentToPricePct  float64 `json:"rent_to_price_pct"`

	PrincipalPaidYear1 float64 `json:"principal_paid_year_1"`
	TotalROIPct        float64 `json:"total_roi_pct"`
	PaybackPeriodYears float64 `json:"payback_period_years"`
	PaybackNever       bool    `json:"payback_never"`

	HoldPeriodYears int       `json:"hold_period_years,omitempty"`
	DiscountRatePct float64   `json:"discount_rate_pct,omitempty"`
	CashFlowSeries  []float64 `json:"cash_flow_series,omitempty"`
	IRRPct          *float64  `json:"irr_pct,omitempty"`
	IRRDefined      bool      `json:"irr_defined"`
	NPV             *float64  `json:"npv,omitempty"`

	DSCR                  float64 `json:"dscr"`
	GRM                   float64 `json:"grm"`
	OperatingExpenseRatio float64 `json:"operating_expense_ratio"`
	BreakEvenOccupancyPct float64 `json:"break_even_occupancy_pct"`
	RentToValuePct        float64 `json:"rent_to_value_pct"`

	OnePercentRuleRent  float64 `json:"one_percent_rule_rent"`
	MeetsOnePercentRule bool    `json:"meets_one_percent_rule"`

	Benchmarks []Benchmark `json:"benchmarks"`
}

// Rounded returns a copy with currency in cents and ratios to two places
func (r Result) Rounded() Result {
	out := r
	for _, v := range []*float64{
		&out.Price, &out.MonthlyRent, &out.MortgagePayment,
		&out.DownPayment, &out.ClosingCosts, &out.TotalUpfrontCost,
		&out.AnnualOperatingExpenses, &out.MonthlyOperatingExpenses,
		&out.NOI, &out.MonthlyCashFlow, &out.AnnualCashFlow,
		&out.PITI, &out.BreakEvenRent, &out.PrincipalPaidYear1,
		&out.OnePercentRuleRent,
		&out.CapRatePct, &out.CashOnCashPct, &out.RentToPricePct, &out.TotalROIPct,
		&out.PaybackPeriodYears, &out.DSCR, &out.GRM, &out.OperatingExpenseRatio,
		&out.BreakEvenOccupancyPct, &out.RentToValuePct,
	} {
		*v = formulas.RoundCents(*v)
	}
	if r.CashFlowSeries != nil {
		out.CashFlowSeries = make([]float64, len(r.CashFlowSeries))
		for i, v := range r.CashFlowSeries {
			out.CashFlowSeries[i] = formulas.RoundCents(v)
		}
	}
	if r.IRRPct != nil {
		v := formulas.RoundCents(*r.IRRPct)
		out.IRRPct = &v
	}
	if r.NPV != nil {
		v := formulas.RoundCents(*r.NPV)
		out.NPV = &v
	}
	out.Benchmarks = make([]Benchmark, len(r.Benchmarks))
	for i, b := range r.Benchmarks {
		b.Value = formulas.RoundCents(b.Value)
		out.Benchmarks[i] = b
	}
	return out
}
