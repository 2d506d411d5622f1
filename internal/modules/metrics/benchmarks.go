package metrics

// Comparison is the direction a benchmark must be beaten in
type Comparison string

const (
	Above Comparison = ">"
	Below Comparison = "<"
)

// Benchmark is a rule-of-thumb threshold for one metric
type Benchmark struct {
	Name       string     `json:"name"`
	Value      float64    `json:"value"`
	Threshold  float64    `json:"threshold"`
	Comparison Comparison `json:"comparison"`
	Unit       string     `json:"unit,omitempty"`
	Good       bool       `json:"good"`
}

func newBenchmark(name string, value float64, cmp Comparison, threshold float64, unit string) Benchmark {
	good := value > threshold
	if cmp == Below {
		good = value < threshold
	}
	return Benchmark{Name: name, Value: value, Threshold: threshold, Comparison: cmp, Unit: unit, Good: good}
}

func evaluateBenchmarks(r Result) []Benchmark {
	noRent := r.MonthlyRent <= 0
	benchmarks := []Benchmark{
		newBenchmark("Cash-on-Cash Return", r.CashOnCashPct, Above, 8, "%"),
		newBenchmark("DSCR", r.DSCR, Above, 1.2, ""),
		newBenchmark("Gross Rent Multiplier", r.GRM, Below, 10, ""),
		newBenchmark("Operating Expense Ratio", r.OperatingExpenseRatio*100, Below, 50, "%"),
		newBenchmark("Break-even Occupancy", r.BreakEvenOccupancyPct, Below, 85, "%"),
		newBenchmark("Rent-to-Value", r.RentToValuePct, Above, 0.8, "%"),
	}
	// Zeroed ratios from missing rent would otherwise pass the "below" rules
	if noRent {
		for i := range benchmarks {
			benchmarks[i].Good = false
		}
	}
	return benchmarks
}
