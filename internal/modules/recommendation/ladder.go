package recommendation

import (
	"errors"
	"fmt"
)

// LadderPolicy grades a property against ordered tiers, best first.
// A property earns the first tier whose minimums it meets on all three
// metrics, and Don't Buy when it meets none.
type LadderPolicy struct {
	tiers []Tier
}

// NewLadder validates tiers and builds the policy
func NewLadder(tiers []Tier) (*LadderPolicy, error) {
	if len(tiers) == 0 {
		return nil, errors.New("ladder policy needs at least one tier")
	}
	for i := 1; i < len(tiers); i++ {
		prev, cur := tiers[i-1], tiers[i]
		if cur.MinCapRatePct > prev.MinCapRatePct ||
			cur.MinCashOnCashPct > prev.MinCashOnCashPct ||
			cur.MinMonthlyCashFlow > prev.MinMonthlyCashFlow {
			return nil, fmt.Errorf("tier %q is stricter than %q above it", cur.Verdict, prev.Verdict)
		}
	}
	return &LadderPolicy{tiers: append([]Tier(nil), tiers...)}, nil
}

// Name returns the policy name
func (p *LadderPolicy) Name() PolicyName {
	return PolicyLadder
}

// Evaluate grades in against the ladder
func (p *LadderPolicy) Evaluate(in Inputs) Recommendation {
	rec := Recommendation{Verdict: DontBuy, Policy: PolicyLadder}

	reached := len(p.tiers)
	for i, tier := range p.tiers {
		if in.CapRatePct >= tier.MinCapRatePct &&
			in.CashOnCashPct >= tier.MinCashOnCashPct &&
			in.MonthlyCashFlow >= tier.MinMonthlyCashFlow {
			reached = i
			rec.Verdict = tier.Verdict
			break
		}
	}

	if reached < len(p.tiers) {
		t := p.tiers[reached]
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"Meets %s thresholds: cap rate %.2f%% >= %.1f%%, cash-on-cash %.2f%% >= %.1f%%, cash flow $%.2f >= $%.0f",
			t.Verdict, in.CapRatePct, t.MinCapRatePct, in.CashOnCashPct, t.MinCashOnCashPct,
			in.MonthlyCashFlow, t.MinMonthlyCashFlow))
	} else {
		rec.Reasons = append(rec.Reasons, "Does not meet the minimum thresholds of any tier")
	}

	if reached > 0 {
		next := p.tiers[reached-1]
		rec.Gap = computeGap(in, next.Verdict, next.MinCapRatePct, next.MinCashOnCashPct, next.MinMonthlyCashFlow)
	}
	return rec
}
