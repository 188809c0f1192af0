package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DashboardStats is the headline numbers of the admin dashboard
type DashboardStats struct {
	TotalProducts int64
	MenuItems     int64
	OrdersToday   int64
	Revenue       decimal.Decimal
}

// FormatRevenue groups integer digits in threes with commas. Fraction digits
// are kept as stored, minus trailing zeros. No currency symbol is added.
func FormatRevenue(amount decimal.Decimal) string {
	digits, frac, _ := strings.Cut(amount.Abs().String(), ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
