package comparables

import (
	"context"
	"math"
)

// Record is one cleaned sale. Missing numeric values are NaN; a missing
// year built is 0.
type Record struct {
	Address      string
	ZipCode      string
	Price        float64
	Sqft         float64
	Beds         float64
	Baths        float64
	YearBuilt    int
	LotSize      float64
	SaleDate     string
	PricePerSqft float64
	Rent         float64
}

// TableFromRecords lays records out as a table using the canonical column names
func TableFromRecords(records []Record) *Table {
	n := len(records)
	t := NewTable(n)

	address := make([]string, n)
	zip := make([]string, n)
	saleDate := make([]string, n)
	price := make([]float64, n)
	sqft := make([]float64, n)
	beds := make([]float64, n)
	baths := make([]float64, n)
	year := make([]float64, n)
	lot := make([]float64, n)
	pps := make([]float64, n)
	rent := make([]float64, n)
	hasRent := false

	for i, r := range records {
		address[i] = r.Address
		zip[i] = r.ZipCode
		saleDate[i] = r.SaleDate
		price[i] = r.Price
		sqft[i] = r.Sqft
		beds[i] = r.Beds
		baths[i] = r.Baths
		year[i] = math.NaN()
		if r.YearBuilt > 0 {
			year[i] = float64(r.YearBuilt)
		}
		lot[i] = r.LotSize
		pps[i] = r.PricePerSqft
		rent[i] = r.Rent
		if !math.IsNaN(r.Rent) && r.Rent > 0 {
			hasRent = true
		}
	}

	// Lengths always match n, so the errors cannot occur
	_ = t.AddText("address", address)
	_ = t.AddText("zip_code", zip)
	_ = t.AddText("sale_date", saleDate)
	_ = t.AddNumeric("price", price)
	_ = t.AddNumeric("sqft", sqft)
	_ = t.AddNumeric("beds", beds)
	_ = t.AddNumeric("baths", baths)
	_ = t.AddNumeric("year_built", year)
	_ = t.AddNumeric("lot_size", lot)
	_ = t.AddNumeric("price_per_sqft", pps)
	if hasRent {
		_ = t.AddNumeric("rent", rent)
	}
	return t
}

// Provider exposes a sales dataset. The returned table is shared and must
// not be modified.
type Provider interface {
	Comparables(ctx context.Context) (*Table, error)
}

// StaticProvider serves a fixed table
type StaticProvider struct {
	table *Table
}

// NewStaticProvider wraps table
func NewStaticProvider(table *Table) *StaticProvider {
	return &StaticProvider{table: table}
}

// Comparables returns the wrapped table
func (p *StaticProvider) Comparables(_ context.Context) (*Table, error) {
	return p.table, nil
}
