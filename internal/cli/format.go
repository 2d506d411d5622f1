// Package cli implements the yieldwise command line and its terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney formats a dollar amount with thousands separators and cents.
// e.g., 1234.5 -> "$1,234.50", -255 -> "-$255.00"
func FormatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, FormatNumber(cents/100), cents%100)
}

// FormatNumber formats an integer with thousands separators.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a percentage value with two decimals
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatYears formats a payback period; never is rendered as "never"
func FormatYears(years float64, never bool) string {
	if never {
		return "never"
	}
	return fmt.Sprintf("%.1f yrs", years)
}

// FormatRatio formats a dimensionless ratio such as DSCR
func FormatRatio(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
