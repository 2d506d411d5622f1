package formulas

import (
	"iter"
	"math"
)

// balanceEpsilon is the residual balance treated as fully repaid.
const balanceEpsilon = 1e-6

// Loan describes a fixed-rate, fully amortizing mortgage.
type Loan struct {
	Principal     float64 `json:"principal"`
	AnnualRatePct float64 `json:"annual_rate_pct"`
	TermYears     int     `json:"term_years"`
}

// Installment is one month of an amortization schedule.
type Installment struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// YearSummary aggregates twelve installments.
type YearSummary struct {
	Year      int     `json:"year"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// MonthlyRate returns the periodic rate as a decimal.
func (l Loan) MonthlyRate() float64 {
	return l.AnnualRatePct / 100 / 12
}

// Months returns the number of scheduled payments.
func (l Loan) Months() int {
	if l.TermYears <= 0 {
		return 0
	}
	return l.TermYears * 12
}

// Payment returns the fixed monthly payment for the loan.
func (l Loan) Payment() float64 {
	return MonthlyPayment(l.Principal, l.AnnualRatePct, l.TermYears)
}

// MonthlyPayment calculates the fixed-rate annuity payment.
//
// Formula:
//
//	M = P * r * (1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate and n the number of months.
// Zero principal or a non-positive rate yields 0; zero-interest loans
// are not amortized.
func MonthlyPayment(principal, annualRatePct float64, termYears int) float64 {
	r := annualRatePct / 100 / 12
	n := termYears * 12
	if principal <= 0 || r <= 0 || n <= 0 {
		return 0
	}

	growth := math.Pow(1+r, float64(n))
	return principal * r * growth / (growth - 1)
}

// Amortize returns the month-by-month schedule of a loan.
//
// The sequence is lazy and restartable: every range over it starts again
// from month one. It ends after the final scheduled month or as soon as the
// balance reaches zero, whichever comes first. Balances are clamped at zero.
func Amortize(loan Loan) iter.Seq[Installment] {
	return func(yield func(Installment) bool) {
		if loan.Principal <= 0 {
			return
		}

		r := loan.MonthlyRate()
		payment := loan.Payment()
		balance := loan.Principal

		for month := 1; month <= loan.Months(); month++ {
			interest := balance * r
			principal := payment - interest
			if principal > balance || balance-principal < balanceEpsilon {
				principal = balance
			}
			balance -= principal

			inst := Installment{
				Month:     month,
				Payment:   interest + principal,
				Interest:  interest,
				Principal: principal,
				Balance:   balance,
			}
			if !yield(inst) || balance <= 0 {
				return
			}
		}
	}
}

// PrincipalPaid sums the principal components of the first months payments.
func PrincipalPaid(loan Loan, months int) float64 {
	total := 0.0
	for inst := range Amortize(loan) {
		if inst.Month > months {
			break
		}
		total += inst.Principal
	}
	return total
}

// RemainingBalance returns the outstanding balance after months payments.
func RemainingBalance(loan Loan, months int) float64 {
	if loan.Principal <= 0 {
		return 0
	}
	balance := loan.Principal
	for inst := range Amortize(loan) {
		if inst.Month > months {
			break
		}
		balance = inst.Balance
	}
	return balance
}

// YearlySchedule groups the schedule into calendar years of the loan.
func YearlySchedule(loan Loan) []YearSummary {
	var years []YearSummary
	for inst := range Amortize(loan) {
		year := (inst.Month-1)/12 + 1
		if len(years) < year {
			years = append(years, YearSummary{Year: year})
		}
		y := &years[year-1]
		y.Principal += inst.Principal
		y.Interest += inst.Interest
		y.Balance = inst.Balance
	}
	return years
}
