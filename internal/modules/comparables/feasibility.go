package comparables

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/yieldwise/internal/domain"
)

// DefaultDevelopmentCostPerSqft is the build cost assumed for land
const DefaultDevelopmentCostPerSqft = 150.0

// Feasibility estimates the outcome of developing a land parcel
type Feasibility struct {
	Available       bool    `json:"available"`
	Reason          string  `json:"reason,omitempty"`
	AvgPricePerSqft float64 `json:"avg_price_per_sqft"`
	PotentialValue  float64 `json:"potential_value"`
	DevelopmentCost float64 `json:"development_cost"`
	PotentialProfit float64 `json:"potential_profit"`
	ROIPct          float64 `json:"roi_pct"`
}

// LandFeasibility values a parcel developed to subject.Sqft at the market
// price per square foot (mean price over mean size of comparable sales in
// the same zip, or the whole dataset).
func LandFeasibility(subject domain.PropertyInput, table *Table, costPerSqft float64) Feasibility {
	if subject.Price <= 0 || subject.Sqft <= 0 {
		return Feasibility{Reason: "price and planned sqft are required"}
	}
	price := table.column(DefaultAliases, FieldPrice)
	sqft := table.column(DefaultAliases, FieldSqft)
	if table.Len() == 0 || !price.ok || !sqft.ok {
		return Feasibility{Reason: "no comparable sales available"}
	}

	var prices, sizes []float64
	for _, row := range rowsInZip(table, subject.ZipCode) {
		p, s := price.number(row), sqft.number(row)
		if math.IsNaN(p) || math.IsNaN(s) || p <= 0 || s <= 0 {
			continue
		}
		prices = append(prices, p)
		sizes = append(sizes, s)
	}
	if len(prices) == 0 {
		return Feasibility{Reason: "no comparable sales available"}
	}

	f := Feasibility{Available: true}
	f.AvgPricePerSqft = stat.Mean(prices, nil) / stat.Mean(sizes, nil)
	f.PotentialValue = subject.Sqft * f.AvgPricePerSqft
	f.DevelopmentCost = subject.Sqft * costPerSqft
	f.PotentialProfit = f.PotentialValue - subject.Price - f.DevelopmentCost
	f.ROIPct = f.PotentialProfit / subject.Price * 100
	return f
}
