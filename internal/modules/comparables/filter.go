package comparables

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/aristath/yieldwise/internal/domain"
)

// Criteria controls comparable selection
type Criteria struct {
	BedsTolerance    float64 `json:"beds_tolerance" toml:"beds_tolerance"`
	BathsTolerance   float64 `json:"baths_tolerance" toml:"baths_tolerance"`
	SqftTolerancePct float64 `json:"sqft_tolerance_pct" toml:"sqft_tolerance_pct"`
	// LowerPercentile trims the cheapest and smallest candidates (0.01 = 1st percentile)
	LowerPercentile float64 `json:"lower_percentile" toml:"lower_percentile"`
	PriceCap        float64 `json:"price_cap" toml:"price_cap"`
	SqftCap         float64 `json:"sqft_cap" toml:"sqft_cap"`
	Limit           int     `json:"limit" toml:"limit"`
}

// DefaultCriteria returns the standard selection rules
func DefaultCriteria() Criteria {
	return Criteria{
		BedsTolerance:    1,
		BathsTolerance:   1,
		SqftTolerancePct: 20,
		LowerPercentile:  0.01,
		PriceCap:         800000,
		SqftCap:          6000,
		Limit:            5,
	}
}

// Status tells a found result apart from an empty one
type Status string

const (
	StatusFound         Status = "found"
	StatusNoComparables Status = "no_comparables"
)

// Result is the outcome of a comparables search. An empty search is a
// result with StatusNoComparables, never an error.
type Result struct {
	Status      Status                      `json:"status"`
	Reason      string                      `json:"reason,omitempty"`
	Matched     int                         `json:"matched"`
	Comparables []domain.ComparableProperty `json:"comparables"`
}

// NoComparables builds an empty result with a reason
func NoComparables(reason string) Result {
	return Result{Status: StatusNoComparables, Reason: reason, Comparables: []domain.ComparableProperty{}}
}

// Found reports whether any comparables were selected
func (r Result) Found() bool {
	return r.Status == StatusFound
}

var requiredFields = []Field{FieldBeds, FieldBaths, FieldSqft, FieldPrice}

// Filter selects comparables from a table
type Filter struct {
	criteria Criteria
	aliases  map[Field][]string
}

// NewFilter creates a filter; a non-positive limit falls back to the default
func NewFilter(criteria Criteria) *Filter {
	if criteria.Limit <= 0 {
		criteria.Limit = DefaultCriteria().Limit
	}
	return &Filter{criteria: criteria, aliases: DefaultAliases}
}

// Criteria returns the selection rules
func (f *Filter) Criteria() Criteria {
	return f.criteria
}

type candidate struct {
	row       int
	beds      float64
	baths     float64
	sqft      float64
	price     float64
	bedsDiff  float64
	bathsDiff float64
	priceDiff float64
}

// Select picks the comparables closest to subject.
//
// Rows are narrowed by zip (when both sides have one), beds and baths within
// tolerance and sqft within a percentage band, then trimmed to
// [lower percentile, cap] on price and sqft. Survivors are ranked by beds
// difference, baths difference and price difference, in that order.
func (f *Filter) Select(subject domain.PropertyInput, table *Table) Result {
	if table.Len() == 0 {
		return NoComparables("comparables dataset is empty")
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := table.resolve(f.aliases, field); !ok {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		return NoComparables(fmt.Sprintf("dataset is missing required columns: %s", strings.Join(missing, ", ")))
	}

	beds := table.column(f.aliases, FieldBeds)
	baths := table.column(f.aliases, FieldBaths)
	sqft := table.column(f.aliases, FieldSqft)
	price := table.column(f.aliases, FieldPrice)
	zip := table.column(f.aliases, FieldZip)

	subjectZip := strings.TrimSpace(subject.ZipCode)
	subjectBeds := float64(subject.Beds)
	sqftLow := subject.Sqft * (1 - f.criteria.SqftTolerancePct/100)
	sqftHigh := subject.Sqft * (1 + f.criteria.SqftTolerancePct/100)

	var candidates []candidate
	for row := 0; row < table.Len(); row++ {
		c := candidate{
			row:   row,
			beds:  beds.number(row),
			baths: baths.number(row),
			sqft:  sqft.number(row),
			price: price.number(row),
		}
		if anyNaN(c.beds, c.baths, c.sqft, c.price) {
			continue
		}
		if subjectZip != "" && zip.ok && zip.text(row) != subjectZip {
			continue
		}
		if math.Abs(c.beds-subjectBeds) > f.criteria.BedsTolerance {
			continue
		}
		if math.Abs(c.baths-subject.Baths) > f.criteria.BathsTolerance {
			continue
		}
		if subject.Sqft > 0 && (c.sqft < sqftLow || c.sqft > sqftHigh) {
			continue
		}
		candidates = append(candidates, c)
	}

	candidates = f.trimOutliers(candidates)
	if len(candidates) == 0 {
		return NoComparables("no sold properties match the zip, beds, baths and size criteria")
	}

	for i := range candidates {
		c := &candidates[i]
		c.bedsDiff = math.Abs(c.beds - subjectBeds)
		c.bathsDiff = math.Abs(c.baths - subject.Baths)
		c.priceDiff = math.Abs(c.price - subject.Price)
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.bedsDiff, b.bedsDiff),
			cmp.Compare(a.bathsDiff, b.bathsDiff),
			cmp.Compare(a.priceDiff, b.priceDiff),
		)
	})

	result := Result{Status: StatusFound, Matched: len(candidates)}
	limit := min(f.criteria.Limit, len(candidates))
	result.Comparables = make([]domain.ComparableProperty, 0, limit)
	for _, c := range candidates[:limit] {
		result.Comparables = append(result.Comparables, f.toProperty(table, c))
	}
	return result
}

// trimOutliers keeps candidates inside [lower percentile, cap] on both
// price and sqft. Percentiles are taken over the candidates themselves.
func (f *Filter) trimOutliers(candidates []candidate) []candidate {
	if len(candidates) == 0 {
		return candidates
	}

	prices := make([]float64, len(candidates))
	sizes := make([]float64, len(candidates))
	for i, c := range candidates {
		prices[i] = c.price
		sizes[i] = c.sqft
	}
	priceLow := lowerQuantile(prices, f.criteria.LowerPercentile)
	sqftLow := lowerQuantile(sizes, f.criteria.LowerPercentile)

	kept := candidates[:0]
	for _, c := range candidates {
		if c.price < priceLow || c.sqft < sqftLow {
			continue
		}
		if f.criteria.PriceCap > 0 && c.price > f.criteria.PriceCap {
			continue
		}
		if f.criteria.SqftCap > 0 && c.sqft > f.criteria.SqftCap {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// lowerQuantile interpolates between the two order statistics around
// p*(n-1). With p > 0 and distinct values the floor sits above the minimum,
// so the single cheapest candidate is dropped even in small sets.
func lowerQuantile(values []float64, p float64) float64 {
	if p <= 0 || len(values) == 0 {
		return math.Inf(-1)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	h := min(p, 1) * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func (f *Filter) toProperty(table *Table, c candidate) domain.ComparableProperty {
	p := domain.ComparableProperty{
		Address:   table.column(f.aliases, FieldAddress).text(c.row),
		Price:     c.price,
		Beds:      c.beds,
		Baths:     c.baths,
		Sqft:      c.sqft,
		ZipCode:   table.column(f.aliases, FieldZip).text(c.row),
		SaleDate:  table.column(f.aliases, FieldSaleDate).text(c.row),
		BedsDiff:  c.bedsDiff,
		BathsDiff: c.bathsDiff,
		PriceDiff: c.priceDiff,
	}
	if year := table.column(f.aliases, FieldYearBuilt).number(c.row); !math.IsNaN(year) {
		p.YearBuilt = int(year)
	}
	if c.sqft > 0 {
		p.PricePerSqft = c.price / c.sqft
	}
	return p
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
