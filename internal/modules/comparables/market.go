package comparables

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/yieldwise/internal/domain"
)

// PriceRange is the span of sale prices in a dataset
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MarketSummary describes a sales dataset as a whole
type MarketSummary struct {
	AvgPrice        float64    `json:"avg_price"`
	AvgPricePerSqft float64    `json:"avg_price_per_sqft"`
	TotalProperties int        `json:"total_properties"`
	PriceRange      PriceRange `json:"price_range"`
}

// Summarize computes market statistics over rows with a price.
// Price per sqft is averaged per row over rows with a positive size.
func Summarize(table *Table) (MarketSummary, error) {
	price := table.column(DefaultAliases, FieldPrice)
	if table.Len() == 0 || !price.ok {
		return MarketSummary{}, domain.ErrNoDataset
	}
	sqft := table.column(DefaultAliases, FieldSqft)

	var prices, perSqft []float64
	for row := 0; row < table.Len(); row++ {
		p := price.number(row)
		if math.IsNaN(p) {
			continue
		}
		prices = append(prices, p)
		if s := sqft.number(row); s > 0 {
			perSqft = append(perSqft, p/s)
		}
	}
	if len(prices) == 0 {
		return MarketSummary{}, domain.ErrNoDataset
	}

	summary := MarketSummary{
		AvgPrice:        stat.Mean(prices, nil),
		TotalProperties: table.Len(),
		PriceRange:      PriceRange{Min: floats.Min(prices), Max: floats.Max(prices)},
	}
	if len(perSqft) > 0 {
		summary.AvgPricePerSqft = stat.Mean(perSqft, nil)
	}
	return summary, nil
}

// EstimateRentBySqft scales the dataset's average rent per square foot to
// the subject's size. It reports false when the dataset carries no rent.
func EstimateRentBySqft(table *Table, subjectSqft float64) (float64, bool) {
	rent := table.column(DefaultAliases, FieldRent)
	sqft := table.column(DefaultAliases, FieldSqft)
	if !rent.ok || !sqft.ok || subjectSqft <= 0 {
		return 0, false
	}

	var rents, sizes []float64
	for row := 0; row < table.Len(); row++ {
		r, s := rent.number(row), sqft.number(row)
		if r > 0 && s > 0 {
			rents = append(rents, r)
			sizes = append(sizes, s)
		}
	}
	if len(rents) == 0 {
		return 0, false
	}
	return subjectSqft * stat.Mean(rents, nil) / stat.Mean(sizes, nil), true
}

// rowsInZip returns the rows matching zip, or every row when zip is empty,
// the dataset has no zip column, or nothing matches.
func rowsInZip(table *Table, zip string) []int {
	all := make([]int, table.Len())
	for i := range all {
		all[i] = i
	}
	col := table.column(DefaultAliases, FieldZip)
	zip = strings.TrimSpace(zip)
	if zip == "" || !col.ok {
		return all
	}

	var matched []int
	for _, row := range all {
		if col.text(row) == zip {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 {
		return all
	}
	return matched
}

// RentSpreadBySqft returns the standard deviation of rent per square foot
// across the dataset, scaled to the subject's size. It is 0 with fewer than
// two rows carrying rent.
func RentSpreadBySqft(table *Table, subjectSqft float64) float64 {
	rent := table.column(DefaultAliases, FieldRent)
	sqft := table.column(DefaultAliases, FieldSqft)
	if !rent.ok || !sqft.ok || subjectSqft <= 0 {
		return 0
	}

	var perSqft []float64
	for row := 0; row < table.Len(); row++ {
		if r, s := rent.number(row), sqft.number(row); r > 0 && s > 0 {
			perSqft = append(perSqft, r/s)
		}
	}
	if len(perSqft) < 2 {
		return 0
	}
	return subjectSqft * stat.StdDev(perSqft, nil)
}
