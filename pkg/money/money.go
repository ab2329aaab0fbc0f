// Package money holds the decimal helpers shared by pricing, checkout and reporting.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits of the store currency (BRL).
const Places = 2

// Tolerance is the rounding slack under which a balance counts as settled.
var Tolerance = decimal.New(1, -Places)

var ErrInvalidAmount = errors.New("amount is not a number")

// Parse reads a counter-typed amount. Both "12,50" and "12.50" are accepted;
// thousands separators are not.
func Parse(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "R$")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(trimmed, ",")+strings.Count(trimmed, ".") > 1 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	value, err := decimal.NewFromString(strings.Replace(trimmed, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return value, nil
}

// Round rounds to the currency precision.
func Round(value decimal.Decimal) decimal.Decimal {
	return value.Round(Places)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// NonNegative clamps value at zero.
func NonNegative(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// Format renders value the way Brazilian receipts print it ("1.234,50").
func Format(value decimal.Decimal) string {
	fixed := value.StringFixed(Places)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := grouped.String() + "," + frac
	if negative {
		return "-" + out
	}
	return out
}
