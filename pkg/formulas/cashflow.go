package formulas

import "math"

const (
	irrTolerance     = 1e-10
	irrMaxIterations = 500
	irrLowerBound    = -0.9999
)

// NPV calculates the net present value of periodic cash flows.
// The first flow is at t=0 and is not discounted.
//
// Formula: NPV = sum(flow_t / (1+rate)^t)
func NPV(rate float64, flows []float64) float64 {
	total := 0.0
	for t, v := range flows {
		total += v / math.Pow(1+rate, float64(t))
	}
	return total
}

// IRR finds the rate at which the NPV of flows is zero.
//
// Returns ok=false when the series has no sign change or no root could be
// bracketed; callers must treat that as undefined rather than 0%.
func IRR(flows []float64) (float64, bool) {
	if !hasSignChange(flows) {
		return 0, false
	}

	lo, hi := irrLowerBound, 1.0
	fLo, fHi := NPV(lo, flows), NPV(hi, flows)
	for fLo*fHi > 0 {
		hi *= 2
		if hi > 1e6 {
			return 0, false
		}
		fHi = NPV(hi, flows)
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, flows)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, isFinite(mid)
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0, false
}

func hasSignChange(flows []float64) bool {
	pos, neg := false, false
	for _, v := range flows {
		if v > 0 {
			pos = true
		} else if v < 0 {
			neg = true
		}
	}
	return pos && neg
}
