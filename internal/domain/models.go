// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aristath/yieldwise/pkg/formulas"
)

// PropertyType represents the kind of property being analyzed
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "House"
	PropertyTypeDuplex    PropertyType = "Duplex"
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeCondo     PropertyType = "Condo"
	// PropertyTypeLand is undeveloped land, analyzed for development feasibility
	PropertyTypeLand PropertyType = "Land"
)

var propertyTypes = []PropertyType{
	PropertyTypeHouse,
	PropertyTypeDuplex,
	PropertyTypeApartment,
	PropertyTypeCondo,
	PropertyTypeLand,
}

// ParsePropertyType resolves a case-insensitive name. Empty means House.
func ParsePropertyType(s string) (PropertyType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PropertyTypeHouse, nil
	}
	for _, pt := range propertyTypes {
		if strings.EqualFold(s, string(pt)) {
			return pt, nil
		}
	}
	return "", fmt.Errorf("unknown property type %q", s)
}

// Known reports whether t is one of the supported property types
func (t PropertyType) Known() bool {
	for _, pt := range propertyTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// PropertyInput describes the candidate property for one analysis.
// It is passed by value and never modified during a computation.
type PropertyInput struct {
	Address      string       `json:"address"`
	Price        float64      `json:"price"`
	Beds         int          `json:"beds"`
	Baths        float64      `json:"baths"`
	Sqft         float64      `json:"sqft"`
	LotSize      *float64     `json:"lot_size,omitempty"`
	YearBuilt    *int         `json:"year_built,omitempty"`
	ZipCode      string       `json:"zip_code,omitempty"`
	PropertyType PropertyType `json:"property_type"`
	Neighborhood string       `json:"neighborhood,omitempty"`
}

// Validate reports inputs that make an analysis meaningless
func (p PropertyInput) Validate() error {
	verr := NewValidationError("invalid property")
	if strings.TrimSpace(p.Address) == "" {
		verr.Add("address", "address is required")
	}
	if p.Price <= 0 {
		verr.Add("price", "price must be greater than zero")
	}
	if p.Beds < 0 {
		verr.Add("beds", "beds cannot be negative")
	}
	if p.Baths < 0 {
		verr.Add("baths", "baths cannot be negative")
	}
	if p.Sqft < 0 {
		verr.Add("sqft", "sqft cannot be negative")
	}
	if p.LotSize != nil && *p.LotSize < 0 {
		verr.Add("lot_size", "lot size cannot be negative")
	}
	if p.PropertyType != "" && !p.PropertyType.Known() {
		verr.Add("property_type", fmt.Sprintf("unknown property type %q", p.PropertyType))
	}
	return verr.OrNil()
}

// Features returns the attributes a rent estimator works from
func (p PropertyInput) Features() PropertyFeatures {
	f := PropertyFeatures{
		Beds:         p.Beds,
		Baths:        p.Baths,
		Sqft:         p.Sqft,
		ZipCode:      p.ZipCode,
		PropertyType: p.PropertyType,
		Neighborhood: p.Neighborhood,
		Price:        p.Price,
	}
	if p.LotSize != nil {
		f.LotSize = *p.LotSize
	}
	if p.YearBuilt != nil {
		f.YearBuilt = *p.YearBuilt
	}
	return f
}

// PropertyFeatures is the estimator-facing view of a property
type PropertyFeatures struct {
	Beds         int          `json:"beds" msgpack:"beds"`
	Baths        float64      `json:"baths" msgpack:"baths"`
	Sqft         float64      `json:"sqft" msgpack:"sqft"`
	LotSize      float64      `json:"lot_size" msgpack:"lot_size"`
	YearBuilt    int          `json:"year_built" msgpack:"year_built"`
	ZipCode      string       `json:"zip_code" msgpack:"zip_code"`
	PropertyType PropertyType `json:"property_type" msgpack:"property_type"`
	Neighborhood string       `json:"neighborhood" msgpack:"neighborhood"`
	Price        float64      `json:"price" msgpack:"price"`
}

// FinancingAssumptions describes how the purchase is funded.
// The financed share is always 100 - DownPaymentPct.
type FinancingAssumptions struct {
	DownPaymentPct  float64 `json:"down_payment_pct" toml:"down_payment_pct"`
	InterestRatePct float64 `json:"interest_rate_pct" toml:"interest_rate_pct"`
	LoanTermYears   int     `json:"loan_term_years" toml:"loan_term_years"`
	ClosingCostsPct float64 `json:"closing_costs_pct" toml:"closing_costs_pct"`
}

// DownPayment returns the cash paid toward the price
func (f FinancingAssumptions) DownPayment(price float64) float64 {
	return price * f.DownPaymentPct / 100
}

// ClosingCosts returns the one-off purchase costs
func (f FinancingAssumptions) ClosingCosts(price float64) float64 {
	return price * f.ClosingCostsPct / 100
}

// LoanAmount returns the financed part of the price
func (f FinancingAssumptions) LoanAmount(price float64) float64 {
	return price * (1 - f.DownPaymentPct/100)
}

// Loan builds the mortgage for the given price
func (f FinancingAssumptions) Loan(price float64) formulas.Loan {
	return formulas.Loan{
		Principal:     f.LoanAmount(price),
		AnnualRatePct: f.InterestRatePct,
		TermYears:     f.LoanTermYears,
	}
}

// Validate checks assumption ranges
func (f FinancingAssumptions) Validate() error {
	verr := NewValidationError("invalid financing assumptions")
	if f.DownPaymentPct < 0 || f.DownPaymentPct > 100 {
		verr.Add("down_payment_pct", "must be between 0 and 100")
	}
	if f.InterestRatePct < 0 || f.InterestRatePct > 30 {
		verr.Add("interest_rate_pct", "must be between 0 and 30")
	}
	if f.LoanTermYears <= 0 || f.LoanTermYears > 50 {
		verr.Add("loan_term_years", "must be between 1 and 50")
	}
	if f.ClosingCostsPct < 0 || f.ClosingCostsPct > 100 {
		verr.Add("closing_costs_pct", "must be between 0 and 100")
	}
	return verr.OrNil()
}

// VacancyMode selects how vacancy is expressed
type VacancyMode string

const (
	VacancyPercentOfRent VacancyMode = "percent_of_rent"
	VacancyMonthsPerYear VacancyMode = "months_per_year"
)

// ExpenseItem names one recurring operating cost
type ExpenseItem string

const (
	ExpensePropertyTax     ExpenseItem = "property_tax"
	ExpenseInsurance       ExpenseItem = "insurance"
	ExpenseManagement      ExpenseItem = "management"
	ExpenseMaintenance     ExpenseItem = "maintenance"
	ExpenseCapitalReserves ExpenseItem = "capital_reserves"
	ExpenseVacancy         ExpenseItem = "vacancy"
)

// ExpenseItems lists every operating cost in reporting order
var ExpenseItems = []ExpenseItem{
	ExpensePropertyTax,
	ExpenseInsurance,
	ExpenseManagement,
	ExpenseMaintenance,
	ExpenseCapitalReserves,
	ExpenseVacancy,
}

// ExpenseAssumptions holds the rates used to derive operating costs.
// Tax and insurance are annual % of price; the rest are % of annual rent.
type ExpenseAssumptions struct {
	PropertyTaxRatePct     float64     `json:"property_tax_rate_pct" toml:"property_tax_rate_pct"`
	InsuranceRatePct       float64     `json:"insurance_rate_pct" toml:"insurance_rate_pct"`
	MaintenanceRatePct     float64     `json:"maintenance_rate_pct" toml:"maintenance_rate_pct"`
	CapitalReservesRatePct float64     `json:"capital_reserves_rate_pct" toml:"capital_reserves_rate_pct"`
	ManagementFeePct       float64     `json:"management_fee_pct" toml:"management_fee_pct"`
	VacancyMode            VacancyMode `json:"vacancy_mode" toml:"vacancy_mode"`
	VacancyRatePct         float64     `json:"vacancy_rate_pct" toml:"vacancy_rate_pct"`
	VacancyMonths          float64     `json:"vacancy_months" toml:"vacancy_months"`
	// Overrides are monthly dollar amounts; values > 0 replace the computed item
	Overrides map[ExpenseItem]float64 `json:"overrides,omitempty" toml:"-"`
}

// VacancyFraction returns vacancy as a share of annual rent
func (e ExpenseAssumptions) VacancyFraction() float64 {
	if e.VacancyMode == VacancyMonthsPerYear {
		return e.VacancyMonths / 12
	}
	return e.VacancyRatePct / 100
}

// Override returns the manual monthly value for an item, if one applies
func (e ExpenseAssumptions) Override(item ExpenseItem) (float64, bool) {
	v, ok := e.Overrides[item]
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// Validate checks assumption ranges
func (e ExpenseAssumptions) Validate() error {
	verr := NewValidationError("invalid expense assumptions")
	rates := map[string]float64{
		"property_tax_rate_pct":     e.PropertyTaxRatePct,
		"insurance_rate_pct":        e.InsuranceRatePct,
		"maintenance_rate_pct":      e.MaintenanceRatePct,
		"capital_reserves_rate_pct": e.CapitalReservesRatePct,
		"management_fee_pct":        e.ManagementFeePct,
	}
	for _, field := range slices.Sorted(maps.Keys(rates)) {
		if v := rates[field]; v < 0 || v > 100 {
			verr.Add(field, "must be between 0 and 100")
		}
	}
	switch e.VacancyMode {
	case VacancyPercentOfRent, "":
		if e.VacancyRatePct < 0 || e.VacancyRatePct > 100 {
			verr.Add("vacancy_rate_pct", "must be between 0 and 100")
		}
	case VacancyMonthsPerYear:
		if e.VacancyMonths < 0 || e.VacancyMonths > 12 {
			verr.Add("vacancy_months", "must be between 0 and 12")
		}
	default:
		verr.Add("vacancy_mode", fmt.Sprintf("unknown mode %q", e.VacancyMode))
	}
	for item, v := range e.Overrides {
		if !isExpenseItem(item) {
			verr.Add("overrides", fmt.Sprintf("unknown expense item %q", item))
		} else if v < 0 {
			verr.Add("overrides."+string(item), "cannot be negative")
		}
	}
	return verr.OrNil()
}

func isExpenseItem(item ExpenseItem) bool {
	for _, known := range ExpenseItems {
		if item == known {
			return true
		}
	}
	return false
}

// RentSource records where a rent figure came from
type RentSource string

const (
	RentSourceUser        RentSource = "user"
	RentSourceModel       RentSource = "model"
	RentSourceCache       RentSource = "cache"
	RentSourceComparables RentSource = "comparables"
	RentSourceFallback    RentSource = "fallback"
)

// RentEstimate is a monthly rent with its uncertainty
type RentEstimate struct {
	Point  float64    `json:"point" msgpack:"point"`
	Margin float64    `json:"margin" msgpack:"margin"`
	Source RentSource `json:"source" msgpack:"source"`
}

// Range returns [point-margin, point+margin] with the lower bound floored at 0
func (r RentEstimate) Range() (low, high float64) {
	low = r.Point - r.Margin
	if low < 0 {
		low = 0
	}
	return low, r.Point + r.Margin
}

// ComparableProperty is one sold property from the sales dataset
type ComparableProperty struct {
	Address      string  `json:"address"`
	Price        float64 `json:"price"`
	Beds         float64 `json:"beds"`
	Baths        float64 `json:"baths"`
	Sqft         float64 `json:"sqft"`
	YearBuilt    int     `json:"year_built,omitempty"`
	ZipCode      string  `json:"zip_code,omitempty"`
	SaleDate     string  `json:"sale_date,omitempty"`
	PricePerSqft float64 `json:"price_per_sqft"`
	BedsDiff     float64 `json:"beds_diff"`
	BathsDiff    float64 `json:"baths_diff"`
	PriceDiff    float64 `json:"price_diff"`
}
