// Package metrics turns price, rent, financing and operating costs into
// cash-flow, return and risk metrics.
package metrics

import (
	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/expenses"
	"github.com/aristath/yieldwise/pkg/formulas"
)

// PaybackNeverYears is reported as the payback period when cash flow never
// recovers the upfront cost.
const PaybackNeverYears = 999

// Config holds the engine's tunable assumptions
type Config struct {
	AppreciationRatePct float64 `json:"appreciation_rate_pct" toml:"appreciation_rate_pct"`
	// MaxHoldPeriodYears bounds IRR/NPV series length
	MaxHoldPeriodYears int `json:"max_hold_period_years" toml:"max_hold_period_years"`
}

// DefaultConfig returns the standard engine assumptions
func DefaultConfig() Config {
	return Config{
		AppreciationRatePct: 3.0,
		MaxHoldPeriodYears:  50,
	}
}

// Input is everything the engine needs for one computation
type Input struct {
	Price           float64
	MonthlyRent     float64
	MortgagePayment float64
	Expenses        expenses.Breakdown
	Financing       domain.FinancingAssumptions
	// HoldPeriodYears enables IRR/NPV when > 0
	HoldPeriodYears int
	DiscountRatePct float64
}

// Engine computes metric bundles. It holds no per-request state.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given assumptions
func NewEngine(cfg Config) *Engine {
	if cfg.MaxHoldPeriodYears <= 0 {
		cfg.MaxHoldPeriodYears = DefaultConfig().MaxHoldPeriodYears
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine assumptions
func (e *Engine) Config() Config {
	return e.cfg
}

// Compute builds the metrics bundle. Every ratio with a zero denominator
// is reported as 0; the result never carries NaN or Inf.
func (e *Engine) Compute(in Input) Result {
	price := in.Price
	rent := in.MonthlyRent
	annualRent := rent * 12

	r := Result{
		Price:           price,
		MonthlyRent:     rent,
		MortgagePayment: in.MortgagePayment,
	}

	r.DownPayment = in.Financing.DownPayment(price)
	r.ClosingCosts = in.Financing.ClosingCosts(price)
	r.TotalUpfrontCost = r.DownPayment + r.ClosingCosts

	r.AnnualOperatingExpenses = in.Expenses.AnnualTotal
	r.MonthlyOperatingExpenses = in.Expenses.MonthlyTotal

	r.NOI = annualRent - r.AnnualOperatingExpenses
	r.CapRatePct = positivePercent(r.NOI, price)

	r.MonthlyCashFlow = rent - in.MortgagePayment - r.MonthlyOperatingExpenses
	r.AnnualCashFlow = r.MonthlyCashFlow * 12
	r.CashOnCashPct = positivePercent(r.AnnualCashFlow, r.TotalUpfrontCost)

	taxAndInsurance := in.Expenses.Annual(domain.ExpensePropertyTax) + in.Expenses.Annual(domain.ExpenseInsurance)
	r.PITI = in.MortgagePayment + taxAndInsurance/12
	r.BreakEvenRent = r.PITI +
		in.Expenses.Monthly(domain.ExpenseManagement) +
		in.Expenses.Monthly(domain.ExpenseMaintenance) +
		in.Expenses.Monthly(domain.ExpenseCapitalReserves) +
		in.Expenses.Monthly(domain.ExpenseVacancy)

	r.RentToPricePct = positivePercent(rent, price)

	r.PrincipalPaidYear1 = formulas.PrincipalPaid(in.Financing.Loan(price), 12)
	appreciation := price * e.cfg.AppreciationRatePct / 100
	r.TotalROIPct = positivePercent(r.AnnualCashFlow+r.PrincipalPaidYear1+appreciation, r.TotalUpfrontCost)

	if r.AnnualCashFlow > 0 {
		r.PaybackPeriodYears = r.TotalUpfrontCost / r.AnnualCashFlow
	} else {
		r.PaybackPeriodYears = PaybackNeverYears
		r.PaybackNever = true
	}

	if in.HoldPeriodYears > 0 {
		e.holdPeriod(&r, in)
	}

	debtService := in.MortgagePayment * 12
	r.DSCR = formulas.SafeDiv(r.NOI, debtService)
	r.GRM = formulas.SafeDiv(price, annualRent)
	r.OperatingExpenseRatio = formulas.SafeDiv(r.AnnualOperatingExpenses, annualRent)
	r.BreakEvenOccupancyPct = formulas.Percent(r.AnnualOperatingExpenses+debtService, annualRent)
	r.RentToValuePct = r.RentToPricePct

	r.OnePercentRuleRent = price * 0.01
	r.MeetsOnePercentRule = price > 0 && rent >= r.OnePercentRuleRent

	r.Benchmarks = evaluateBenchmarks(r)
	return r
}

// holdPeriod adds IRR and NPV for a buy, hold and sell scenario
func (e *Engine) holdPeriod(r *Result, in Input) {
	years := in.HoldPeriodYears
	if years > e.cfg.MaxHoldPeriodYears {
		years = e.cfg.MaxHoldPeriodYears
	}

	flows := make([]float64, years+1)
	flows[0] = -r.TotalUpfrontCost
	for y := 1; y <= years; y++ {
		flows[y] = r.AnnualCashFlow
	}
	flows[years] += formulas.Compound(in.Price, e.cfg.AppreciationRatePct, years)

	r.HoldPeriodYears = years
	r.DiscountRatePct = in.DiscountRatePct
	r.CashFlowSeries = flows

	if irr, ok := formulas.IRR(flows); ok {
		pct := irr * 100
		r.IRRPct = &pct
		r.IRRDefined = true
	}
	npv := formulas.NPV(in.DiscountRatePct/100, flows)
	r.NPV = &npv
}

// positivePercent guards ratios whose denominator must be positive
func positivePercent(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return formulas.Percent(num, den)
}
