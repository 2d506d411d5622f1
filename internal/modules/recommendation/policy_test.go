package recommendation

import (
	"testing"

	"github.com/aristath/yieldwise/internal/modules/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadder_Evaluate(t *testing.T) {
	policy, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, PolicyLadder, policy.Name())

	tests := []struct {
		name     string
		capRate  float64
		coc      float64
		cashFlow float64
		expected Verdict
	}{
		{name: "all strong", capRate: 7, coc: 9, cashFlow: 350, expected: StrongBuy},
		{name: "exactly strong", capRate: 6, coc: 8, cashFlow: 300, expected: StrongBuy},
		{name: "strong cap but weak coc", capRate: 7, coc: 6.5, cashFlow: 400, expected: Buy},
		{name: "exactly buy", capRate: 5, coc: 6, cashFlow: 200, expected: Buy},
		{name: "margin case", capRate: 5.5, coc: 5, cashFlow: 250, expected: Hold},
		{name: "exactly hold", capRate: 4, coc: 4, cashFlow: 100, expected: Hold},
		{name: "cash flow too low", capRate: 9, coc: 9, cashFlow: 99.99, expected: DontBuy},
		{name: "negative everything", capRate: -1, coc: -5, cashFlow: -200, expected: DontBuy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := policy.Evaluate(Inputs{CapRatePct: tt.capRate, CashOnCashPct: tt.coc, MonthlyCashFlow: tt.cashFlow})
			assert.Equal(t, tt.expected, rec.Verdict)
			assert.NotEmpty(t, rec.Reasons)
			if tt.expected == StrongBuy {
				assert.Nil(t, rec.Gap)
			} else {
				require.NotNil(t, rec.Gap)
			}
		})
	}
}

func TestLadder_GapTargetsNextTier(t *testing.T) {
	policy, err := NewLadder(DefaultConfig().Ladder)
	require.NoError(t, err)

	in := Inputs{
		Price:               200000,
		CapRatePct:          4.5,
		CashOnCashPct:       5,
		MonthlyCashFlow:     150,
		BreakEvenRent:       1400,
		ExpenseRateFraction: 0.08,
	}
	rec := policy.Evaluate(in)

	require.Equal(t, Hold, rec.Verdict)
	require.NotNil(t, rec.Gap)
	assert.Equal(t, Buy, rec.Gap.Target)
	assert.InDelta(t, 50, rec.Gap.NeededCashFlow, 1e-9)
	assert.InDelta(t, 0.5, rec.Gap.NeededCapRatePct, 1e-9)
	assert.InDelta(t, 1, rec.Gap.NeededCashOnCashPct, 1e-9)
	assert.InDelta(t, 1600, rec.Gap.MinRentForCashFlow, 1e-9)
	// (0.05*200000 + 0.08*200000) / 12
	assert.InDelta(t, 2166.67, rec.Gap.MinRentForCapRate, 0.01)
	assert.NotEmpty(t, rec.Gap.Explanations)
}

func TestLadder_DontBuyTargetsLowestTier(t *testing.T) {
	policy, err := NewLadder(DefaultConfig().Ladder)
	require.NoError(t, err)

	rec := policy.Evaluate(Inputs{CapRatePct: 4.5, CashOnCashPct: 4.5, MonthlyCashFlow: 50})
	require.Equal(t, DontBuy, rec.Verdict)
	assert.Equal(t, Hold, rec.Gap.Target)
	assert.InDelta(t, 50, rec.Gap.NeededCashFlow, 1e-9)
	assert.Zero(t, rec.Gap.NeededCapRatePct, "needed amounts are floored at zero")
}

func TestNewLadder_Validation(t *testing.T) {
	_, err := NewLadder(nil)
	assert.Error(t, err)

	_, err = NewLadder([]Tier{
		{Verdict: Buy, MinCapRatePct: 5, MinCashOnCashPct: 6, MinMonthlyCashFlow: 200},
		{Verdict: StrongBuy, MinCapRatePct: 6, MinCashOnCashPct: 8, MinMonthlyCashFlow: 300},
	})
	assert.Error(t, err)
}

func TestSimple_Evaluate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = PolicySimple
	policy, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, PolicySimple, policy.Name())

	tests := []struct {
		name     string
		capRate  float64
		cashFlow float64
		expected Verdict
	}{
		{name: "both above", capRate: 6.5, cashFlow: 350, expected: Buy},
		{name: "thresholds are exclusive", capRate: 6, cashFlow: 300, expected: Hold},
		{name: "both below", capRate: 5.5, cashFlow: 250, expected: DontBuy},
		{name: "cap only", capRate: 7, cashFlow: 100, expected: Hold},
		{name: "cash flow only", capRate: 3, cashFlow: 500, expected: Hold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := policy.Evaluate(Inputs{CapRatePct: tt.capRate, MonthlyCashFlow: tt.cashFlow})
			assert.Equal(t, tt.expected, rec.Verdict)
			if tt.expected == Buy {
				assert.Nil(t, rec.Gap)
			} else {
				require.NotNil(t, rec.Gap)
				assert.Equal(t, Buy, rec.Gap.Target)
				assert.Zero(t, rec.Gap.NeededCashOnCashPct)
			}
		})
	}
}

func TestPolicies_DisagreeAtMargin(t *testing.T) {
	in := Inputs{CapRatePct: 5.5, CashOnCashPct: 5, MonthlyCashFlow: 250}

	ladder, err := New(DefaultConfig())
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Policy = PolicySimple
	simple, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, Hold, ladder.Evaluate(in).Verdict)
	assert.Equal(t, DontBuy, simple.Evaluate(in).Verdict)
}

func TestNew_UnknownPolicy(t *testing.T) {
	_, err := New(Config{Policy: "astrology"})
	assert.Error(t, err)
}

func TestInputsFromMetrics(t *testing.T) {
	r := metrics.Result{Price: 200000, CapRatePct: 7.18, CashOnCashPct: 8.81, MonthlyCashFlow: 337.75, BreakEvenRent: 1462.25}
	in := InputsFromMetrics(r, 0.08)

	assert.Equal(t, 200000.0, in.Price)
	assert.Equal(t, 7.18, in.CapRatePct)
	assert.Equal(t, 0.08, in.ExpenseRateFraction)

	policy, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, StrongBuy, policy.Evaluate(in).Verdict)
}
