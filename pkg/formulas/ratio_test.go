package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.5, SafeDiv(5, 2))
	assert.Zero(t, SafeDiv(5, 0))
	assert.Zero(t, SafeDiv(math.Inf(1), 1))
	assert.Zero(t, SafeDiv(math.NaN(), 3))
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 6.0, Percent(12000, 200000), 1e-9)
	assert.Zero(t, Percent(12000, 0))
}

func TestCompound(t *testing.T) {
	assert.InDelta(t, 231854.81, Compound(200000, 3, 5), 0.01)
	assert.Equal(t, 200000.0, Compound(200000, 3, 0))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 1439.32, RoundCents(1439.3225))
	assert.Equal(t, 0.01, RoundCents(0.005))
	assert.Equal(t, -2.35, RoundCents(-2.345))
	assert.Zero(t, RoundCents(math.Inf(-1)))
}
