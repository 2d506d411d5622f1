// Package recommendation maps investment metrics to a buy/hold verdict and
// reports what it would take to reach a better one.
package recommendation

import (
	"fmt"

	"github.com/aristath/yieldwise/internal/modules/metrics"
)

// Verdict is the discrete investment decision
type Verdict string

const (
	StrongBuy Verdict = "Strong Buy"
	Buy       Verdict = "Buy"
	Hold      Verdict = "Hold"
	DontBuy   Verdict = "Don't Buy"
)

// PolicyName selects a policy implementation
type PolicyName string

const (
	// PolicyLadder grades cap rate, cash-on-cash and cash flow jointly
	PolicyLadder PolicyName = "ladder"
	// PolicySimple compares cap rate and cash flow against one threshold pair
	PolicySimple PolicyName = "simple"
)

// Tier is one rung of the ladder; all minimums are inclusive
type Tier struct {
	Verdict            Verdict `json:"verdict" toml:"verdict"`
	MinCapRatePct      float64 `json:"min_cap_rate_pct" toml:"min_cap_rate_pct"`
	MinCashOnCashPct   float64 `json:"min_cash_on_cash_pct" toml:"min_cash_on_cash_pct"`
	MinMonthlyCashFlow float64 `json:"min_monthly_cash_flow" toml:"min_monthly_cash_flow"`
}

// SimpleThresholds configures the two-threshold policy; both are exclusive
type SimpleThresholds struct {
	CapRatePct      float64 `json:"cap_rate_pct" toml:"cap_rate_pct"`
	MonthlyCashFlow float64 `json:"monthly_cash_flow" toml:"monthly_cash_flow"`
}

// Config selects and parameterizes the policy
type Config struct {
	Policy PolicyName       `json:"policy" toml:"policy"`
	Ladder []Tier           `json:"ladder" toml:"ladder"`
	Simple SimpleThresholds `json:"simple" toml:"simple"`
}

// DefaultConfig returns the ladder policy with the standard thresholds
func DefaultConfig() Config {
	return Config{
		Policy: PolicyLadder,
		Ladder: []Tier{
			{Verdict: StrongBuy, MinCapRatePct: 6, MinCashOnCashPct: 8, MinMonthlyCashFlow: 300},
			{Verdict: Buy, MinCapRatePct: 5, MinCashOnCashPct: 6, MinMonthlyCashFlow: 200},
			{Verdict: Hold, MinCapRatePct: 4, MinCashOnCashPct: 4, MinMonthlyCashFlow: 100},
		},
		Simple: SimpleThresholds{CapRatePct: 6, MonthlyCashFlow: 300},
	}
}

// Inputs are the metric values a policy looks at
type Inputs struct {
	Price           float64
	CapRatePct      float64
	CashOnCashPct   float64
	MonthlyCashFlow float64
	BreakEvenRent   float64
	// ExpenseRateFraction is the sum of percentage expense assumptions as a
	// share of price, used to back out the rent for a target cap rate
	ExpenseRateFraction float64
}

// InputsFromMetrics extracts policy inputs from a metrics result
func InputsFromMetrics(r metrics.Result, expenseRateFraction float64) Inputs {
	return Inputs{
		Price:               r.Price,
		CapRatePct:          r.CapRatePct,
		CashOnCashPct:       r.CashOnCashPct,
		MonthlyCashFlow:     r.MonthlyCashFlow,
		BreakEvenRent:       r.BreakEvenRent,
		ExpenseRateFraction: expenseRateFraction,
	}
}

// Gap describes what is needed to reach the target verdict
type Gap struct {
	Target              Verdict  `json:"target"`
	NeededCashFlow      float64  `json:"needed_cash_flow"`
	NeededCapRatePct    float64  `json:"needed_cap_rate_pct"`
	NeededCashOnCashPct float64  `json:"needed_cash_on_cash_pct"`
	MinRentForCashFlow  float64  `json:"min_rent_for_cash_flow"`
	MinRentForCapRate   float64  `json:"min_rent_for_cap_rate"`
	Explanations        []string `json:"explanations"`
}

// Recommendation is a verdict plus the reasoning behind it
type Recommendation struct {
	Verdict Verdict    `json:"verdict"`
	Policy  PolicyName `json:"policy"`
	Reasons []string   `json:"reasons"`
	// Gap is nil at the top verdict
	Gap *Gap `json:"gap,omitempty"`
}

// Policy evaluates metrics into a recommendation
type Policy interface {
	Name() PolicyName
	Evaluate(in Inputs) Recommendation
}

// New builds the policy named in cfg
func New(cfg Config) (Policy, error) {
	switch cfg.Policy {
	case PolicyLadder, "":
		return NewLadder(cfg.Ladder)
	case PolicySimple:
		return NewSimple(cfg.Simple), nil
	default:
		return nil, fmt.Errorf("unknown recommendation policy %q", cfg.Policy)
	}
}

// computeGap reports the distance from in to the given thresholds.
// A threshold of zero for cash-on-cash means the target has none.
func computeGap(in Inputs, target Verdict, capRatePct, cashOnCashPct, cashFlow float64) *Gap {
	g := &Gap{
		Target:              target,
		NeededCashFlow:      max(0, cashFlow-in.MonthlyCashFlow),
		NeededCapRatePct:    max(0, capRatePct-in.CapRatePct),
		NeededCashOnCashPct: max(0, cashOnCashPct-in.CashOnCashPct),
		MinRentForCashFlow:  in.BreakEvenRent + cashFlow,
		MinRentForCapRate:   (capRatePct/100*in.Price + in.ExpenseRateFraction*in.Price) / 12,
	}

	if g.NeededCashFlow > 0 {
		g.Explanations = append(g.Explanations, fmt.Sprintf(
			"Monthly cash flow needs to improve by $%.2f to reach $%.0f", g.NeededCashFlow, cashFlow))
	}
	if g.NeededCapRatePct > 0 {
		g.Explanations = append(g.Explanations, fmt.Sprintf(
			"Cap rate needs to rise %.2f points to reach %.1f%%", g.NeededCapRatePct, capRatePct))
	}
	if g.NeededCashOnCashPct > 0 {
		g.Explanations = append(g.Explanations, fmt.Sprintf(
			"Cash-on-cash return needs to rise %.2f points to reach %.1f%%", g.NeededCashOnCashPct, cashOnCashPct))
	}
	g.Explanations = append(g.Explanations,
		fmt.Sprintf("Rent of at least $%.2f/month gives $%.0f monthly cash flow", g.MinRentForCashFlow, cashFlow),
		fmt.Sprintf("Rent of at least $%.2f/month gives a %.1f%% cap rate", g.MinRentForCapRate, capRatePct),
	)
	return g
}
