// Package expenses derives recurring operating costs for a rental property.
package expenses

import "github.com/aristath/yieldwise/internal/domain"

// LineItem is one operating cost in monthly and annual terms
type LineItem struct {
	Item       domain.ExpenseItem `json:"item"`
	Monthly    float64            `json:"monthly"`
	Annual     float64            `json:"annual"`
	Overridden bool               `json:"overridden"`
}

// Breakdown is the full set of operating costs for one rent level.
// Debt service is never part of a breakdown.
type Breakdown struct {
	Items        []LineItem `json:"items"`
	MonthlyTotal float64    `json:"monthly_total"`
	AnnualTotal  float64    `json:"annual_total"`
}

// Calculate computes every expense line item.
//
// Tax and insurance are annual percentages of price; management,
// maintenance and capital reserves are percentages of annual rent; vacancy is
// either a percentage of annual rent or a number of lost rent months.
// A positive override replaces the computed monthly value of its item.
//
// Inputs are not validated: negative price or rent produce meaningless but
// finite output.
func Calculate(price, monthlyRent float64, a domain.ExpenseAssumptions) Breakdown {
	annualRent := monthlyRent * 12

	computed := map[domain.ExpenseItem]float64{
		domain.ExpensePropertyTax:     price * a.PropertyTaxRatePct / 100,
		domain.ExpenseInsurance:       price * a.InsuranceRatePct / 100,
		domain.ExpenseManagement:      annualRent * a.ManagementFeePct / 100,
		domain.ExpenseMaintenance:     annualRent * a.MaintenanceRatePct / 100,
		domain.ExpenseCapitalReserves: annualRent * a.CapitalReservesRatePct / 100,
		domain.ExpenseVacancy:         vacancy(monthlyRent, a),
	}

	b := Breakdown{Items: make([]LineItem, 0, len(domain.ExpenseItems))}
	for _, item := range domain.ExpenseItems {
		li := LineItem{Item: item, Annual: computed[item], Monthly: computed[item] / 12}
		if v, ok := a.Override(item); ok {
			li.Monthly = v
			li.Annual = v * 12
			li.Overridden = true
		}
		b.Items = append(b.Items, li)
		b.MonthlyTotal += li.Monthly
		b.AnnualTotal += li.Annual
	}
	return b
}

func vacancy(monthlyRent float64, a domain.ExpenseAssumptions) float64 {
	if a.VacancyMode == domain.VacancyMonthsPerYear {
		return monthlyRent * a.VacancyMonths
	}
	return monthlyRent * 12 * a.VacancyRatePct / 100
}

// Get returns the line item for item; the zero LineItem if absent
func (b Breakdown) Get(item domain.ExpenseItem) LineItem {
	for _, li := range b.Items {
		if li.Item == item {
			return li
		}
	}
	return LineItem{Item: item}
}

// Monthly returns the monthly value of item
func (b Breakdown) Monthly(item domain.ExpenseItem) float64 {
	return b.Get(item).Monthly
}

// Annual returns the annual value of item
func (b Breakdown) Annual(item domain.ExpenseItem) float64 {
	return b.Get(item).Annual
}

// OverriddenItems lists the items replaced by manual values
func (b Breakdown) OverriddenItems() []domain.ExpenseItem {
	var items []domain.ExpenseItem
	for _, li := range b.Items {
		if li.Overridden {
			items = append(items, li.Item)
		}
	}
	return items
}

// RateFraction sums the percentage assumptions as a share of price:
// tax + insurance + maintenance + capital reserves + vacancy.
// Used to back out the rent needed for a target cap rate.
func RateFraction(a domain.ExpenseAssumptions) float64 {
	return (a.PropertyTaxRatePct+a.InsuranceRatePct+a.MaintenanceRatePct+a.CapitalReservesRatePct)/100 +
		a.VacancyFraction()
}
