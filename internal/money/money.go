// Package money holds the decimal helpers used for cash balances and share
// prices, and the USD display format shared by the HTML views and the API.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the only currency the simulator trades in.
const Currency = "USD"

// maxFractionDigits bounds user-entered cash amounts to whole cents.
const maxFractionDigits = 2

// MaxAmount is the exclusive upper bound for cash amounts and balances.
// Columns are decimal(18,4), leaving 14 integer digits.
var MaxAmount = decimal.New(1, 14)

// InRange reports whether |v| fits a cash column.
func InRange(v decimal.Decimal) bool {
	return v.Abs().LessThan(MaxAmount)
}

// USD formats a dollar amount for display, e.g. "$1,234.50". Amounts are
// rounded half away from zero to whole cents.
func USD(v decimal.Decimal) string {
	if !InRange(v) {
		return bigUSD(v)
	}
	cents := v.Shift(maxFractionDigits).Round(0).IntPart()
	return gomoney.New(cents, Currency).Display()
}

// bigUSD formats amounts outside the cash range from their decimal string.
func bigUSD(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	whole, frac, _ := strings.Cut(v.StringFixed(maxFractionDigits), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// Format is the template-facing variant of USD that accepts the numeric
// types that reach the views.
func Format(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return USD(x)
	case *decimal.Decimal:
		if x == nil {
			return USD(decimal.Zero)
		}
		return USD(*x)
	case float64:
		return USD(decimal.NewFromFloat(x))
	case int:
		return USD(decimal.NewFromInt(int64(x)))
	case int64:
		return USD(decimal.NewFromInt(x))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseAmount parses a user-entered dollar amount. The amount must be
// strictly positive, below MaxAmount, with at most two fractional digits.
// A leading "$" and thousands separators are tolerated; exponents are not.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("invalid amount %q: exponent notation", s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", d)
	}
	if !InRange(d) {
		return decimal.Zero, fmt.Errorf("amount %s exceeds %s", d, MaxAmount)
	}
	if d.Exponent() < -maxFractionDigits && !d.Equal(d.Round(maxFractionDigits)) {
		return decimal.Zero, fmt.Errorf("amount %s has more than %d decimal places", d, maxFractionDigits)
	}
	return d, nil
}

// Cost returns the cash value of a number of shares at a price.
func Cost(price decimal.Decimal, shares int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(shares))
}
