// Package money formats and parses currency amounts.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is the currency glyph used in reports.
const DefaultSymbol = "₹"

// Glyphs are the currency symbols stripped when parsing amounts.
var Glyphs = []string{"₹", "$", "€", "£"}

// ErrEmpty is returned by Parse for blank input.
var ErrEmpty = errors.New("empty amount")

var hundred = decimal.NewFromInt(100)

// Format renders d as symbol + thousands-grouped value with two decimals,
// e.g. "₹1,234.50". The sign follows the symbol: "₹-20.00".
func Format(symbol string, d decimal.Decimal) string {
	return symbol + Group(d.StringFixed(2))
}

// Group inserts thousands separators into a plain decimal string.
func Group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String()
	if hasFrac {
		out += "." + frac
	}
	return out
}

// Percent returns part/whole*100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Parse reads an amount that may carry a currency glyph, thousands
// separators or surrounding space.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	for _, g := range Glyphs {
		clean = strings.TrimPrefix(clean, g)
	}
	clean = strings.ReplaceAll(strings.TrimSpace(clean), ",", "")
	if clean == "" {
		return decimal.Zero, ErrEmpty
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
