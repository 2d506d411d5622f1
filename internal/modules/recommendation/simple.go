package recommendation

import "fmt"

// SimplePolicy buys when both cap rate and cash flow beat their thresholds,
// rejects when both fall short, and holds on a split decision.
type SimplePolicy struct {
	thresholds SimpleThresholds
}

// NewSimple builds the two-threshold policy
func NewSimple(t SimpleThresholds) *SimplePolicy {
	return &SimplePolicy{thresholds: t}
}

// Name returns the policy name
func (p *SimplePolicy) Name() PolicyName {
	return PolicySimple
}

// Evaluate applies the thresholds to in
func (p *SimplePolicy) Evaluate(in Inputs) Recommendation {
	t := p.thresholds
	capOK := in.CapRatePct > t.CapRatePct
	flowOK := in.MonthlyCashFlow > t.MonthlyCashFlow

	rec := Recommendation{Policy: PolicySimple}
	switch {
	case capOK && flowOK:
		rec.Verdict = Buy
	case in.CapRatePct < t.CapRatePct && in.MonthlyCashFlow < t.MonthlyCashFlow:
		rec.Verdict = DontBuy
	default:
		rec.Verdict = Hold
	}

	rec.Reasons = []string{
		fmt.Sprintf("Cap rate %.2f%% vs %.1f%% target", in.CapRatePct, t.CapRatePct),
		fmt.Sprintf("Monthly cash flow $%.2f vs $%.0f target", in.MonthlyCashFlow, t.MonthlyCashFlow),
	}
	if rec.Verdict != Buy {
		rec.Gap = computeGap(in, Buy, t.CapRatePct, 0, t.MonthlyCashFlow)
	}
	return rec
}
