package handlers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/stockx/internal/application"
)

// ParseShares accepts a non-empty, all-digit string representing a
// positive whole number. Anything else, including signs, spaces,
// decimals, and zero, is rejected.
func ParseShares(raw string) (int64, error) {
	if raw == "" || len(raw) > 12 {
		return 0, application.ErrInvalidQuantity
	}
	var n int64
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, application.ErrInvalidQuantity
		}
		n = n*10 + int64(r-'0')
	}
	if n <= 0 {
		return 0, application.ErrInvalidQuantity
	}
	return n, nil
}

// ParseAmount accepts a positive decimal with at most two fraction
// digits, e.g. "250", "99.5", "0.01".
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" || strings.Trim(raw, "0123456789.") != "" || strings.Count(raw, ".") > 1 {
		return decimal.Zero, application.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, application.ErrInvalidAmount
	}
	if d.LessThanOrEqual(decimal.Zero) || d.Exponent() < -2 {
		return decimal.Zero, application.ErrInvalidAmount
	}
	return d, nil
}
