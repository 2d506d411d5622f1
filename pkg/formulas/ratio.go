package formulas

import (
	"math"

	"github.com/shopspring/decimal"
)

// SafeDiv divides num by den, returning 0 for a zero denominator or a
// non-finite result.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if !isFinite(v) {
		return 0
	}
	return v
}

// Percent returns num/den*100 with the same guard as SafeDiv.
func Percent(num, den float64) float64 {
	return SafeDiv(num, den) * 100
}

// Compound returns base * (1+ratePct/100)^years.
func Compound(base, ratePct float64, years int) float64 {
	return base * math.Pow(1+ratePct/100, float64(years))
}

// RoundCents rounds a currency amount half away from zero to two places.
func RoundCents(v float64) float64 {
	return Round(v, 2)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if !isFinite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
