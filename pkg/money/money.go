package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Round normalizes a monetary value to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WholeCents reports whether d has no fraction beyond two decimal places.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// USD formats a value for display, e.g. 1234.5 -> "$1,234.50".
func USD(d decimal.Decimal) string {
	cents := d.Round(2).Shift(2).IntPart()
	return gomoney.New(cents, gomoney.USD).Display()
}
