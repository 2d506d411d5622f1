// Package projection extends a purchase across a multi-year hold and
// estimates the proceeds of selling at the end of it.
package projection

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/expenses"
	"github.com/aristath/yieldwise/pkg/formulas"
)

// Config holds growth and sale cost assumptions
type Config struct {
	AppreciationRatePct float64 `json:"appreciation_rate_pct" toml:"appreciation_rate_pct"`
	RentGrowthRatePct   float64 `json:"rent_growth_rate_pct" toml:"rent_growth_rate_pct"`
	AgentFeePct         float64 `json:"agent_fee_pct" toml:"agent_fee_pct"`
	SaleClosingCostsPct float64 `json:"sale_closing_costs_pct" toml:"sale_closing_costs_pct"`
	MaxYears            int     `json:"max_years" toml:"max_years"`
}

// DefaultConfig returns the standard projection assumptions
func DefaultConfig() Config {
	return Config{
		AppreciationRatePct: 3.0,
		RentGrowthRatePct:   2.0,
		AgentFeePct:         6.0,
		SaleClosingCostsPct: 2.0,
		MaxYears:            50,
	}
}

// Input describes the purchase being projected
type Input struct {
	Price       float64
	MonthlyRent float64
	Financing   domain.FinancingAssumptions
	Expenses    domain.ExpenseAssumptions
	Years       int
}

// Year is the state of the investment at the end of one year of ownership
type Year struct {
	Year        int     `json:"year"`
	Value       float64 `json:"value"`
	MonthlyRent float64 `json:"monthly_rent"`
	// Equity is the cumulative principal repaid on the loan
	Equity             float64 `json:"equity"`
	LoanBalance        float64 `json:"loan_balance"`
	OperatingExpenses  float64 `json:"operating_expenses"`
	DebtService        float64 `json:"debt_service"`
	CashFlow           float64 `json:"cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
}

// Sale estimates the outcome of selling at the end of the horizon
type Sale struct {
	SalePrice          float64 `json:"sale_price"`
	AgentFee           float64 `json:"agent_fee"`
	ClosingCosts       float64 `json:"closing_costs"`
	LoanBalance        float64 `json:"loan_balance"`
	NetProceeds        float64 `json:"net_proceeds"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
	DownPayment        float64 `json:"down_payment"`
	TotalProfit        float64 `json:"total_profit"`
	TotalROIPct        float64 `json:"total_roi_pct"`
}

// Projection is the year-by-year series and the sale at its end
type Projection struct {
	Years []Year `json:"years"`
	Sale  Sale   `json:"sale"`
}

// Engine computes projections
type Engine struct {
	cfg Config
}

// NewEngine creates a projection engine
func NewEngine(cfg Config) *Engine {
	if cfg.MaxYears <= 0 {
		cfg.MaxYears = DefaultConfig().MaxYears
	}
	return &Engine{cfg: cfg}
}

// Config returns the projection assumptions
func (e *Engine) Config() Config {
	return e.cfg
}

// Project builds the series for in.Years years.
//
// Value and rent compound annually from the purchase figures. Operating
// expenses are recomputed at each year's rent: rent-based items grow with
// it, price-based items stay at the purchase price and overrides stay fixed.
// Debt service is what the schedule actually charges in that year, so it
// drops to zero once the loan is repaid.
func (e *Engine) Project(in Input) (Projection, error) {
	if in.Years <= 0 || in.Years > e.cfg.MaxYears {
		verr := domain.NewValidationError("invalid projection")
		verr.Add("hold_period_years", fmt.Sprintf("must be between 1 and %d", e.cfg.MaxYears))
		return Projection{}, verr
	}

	loan := in.Financing.Loan(in.Price)
	debt, principal, balance := yearlyDebt(loan, in.Years)

	years := make([]Year, in.Years)
	flows := make([]float64, in.Years)
	equity := 0.0
	for i := range years {
		y := i + 1
		rent := formulas.Compound(in.MonthlyRent, e.cfg.RentGrowthRatePct, y)
		opex := expenses.Calculate(in.Price, rent, in.Expenses).AnnualTotal
		equity += principal[i]

		flows[i] = rent*12 - debt[i] - opex
		years[i] = Year{
			Year:               y,
			Value:              formulas.Compound(in.Price, e.cfg.AppreciationRatePct, y),
			MonthlyRent:        rent,
			Equity:             equity,
			LoanBalance:        balance[i],
			OperatingExpenses:  opex,
			DebtService:        debt[i],
			CashFlow:           flows[i],
			CumulativeCashFlow: floats.Sum(flows[:y]),
		}
	}

	last := years[len(years)-1]
	sale := Sale{
		SalePrice:          last.Value,
		LoanBalance:        last.LoanBalance,
		CumulativeCashFlow: last.CumulativeCashFlow,
		DownPayment:        in.Financing.DownPayment(in.Price),
	}
	sale.AgentFee = sale.SalePrice * e.cfg.AgentFeePct / 100
	sale.ClosingCosts = sale.SalePrice * e.cfg.SaleClosingCostsPct / 100
	sale.NetProceeds = sale.SalePrice - sale.AgentFee - sale.ClosingCosts - sale.LoanBalance
	sale.TotalProfit = sale.NetProceeds + sale.CumulativeCashFlow - sale.DownPayment
	sale.TotalROIPct = formulas.Percent(sale.TotalProfit, sale.DownPayment)

	return Projection{Years: years, Sale: sale}, nil
}

// yearlyDebt walks the schedule once and returns, per year of the horizon,
// the payments made, the principal repaid and the closing balance.
func yearlyDebt(loan formulas.Loan, years int) (debt, principal, balance []float64) {
	debt = make([]float64, years)
	principal = make([]float64, years)
	balance = make([]float64, years)

	closing, last := max(loan.Principal, 0), -1
	for inst := range formulas.Amortize(loan) {
		i := (inst.Month - 1) / 12
		if i >= years {
			break
		}
		debt[i] += inst.Payment
		principal[i] += inst.Principal
		closing, last = inst.Balance, i
		balance[i] = closing
	}
	// Years after the schedule ended keep its closing balance
	for i := last + 1; i < years; i++ {
		balance[i] = closing
	}
	return debt, principal, balance
}
