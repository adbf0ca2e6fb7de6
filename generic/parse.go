package generic

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERMISSIVE PARSING - Text form values to numbers
// =============================================================================
//
// Form layers hand the engine raw text. Missing or non-numeric text is never
// an error: it becomes zero (or the caller's fallback) and the calculators'
// own insufficient-input checks decide whether the result is meaningful.

var numberReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "_", "")

// Magnitude limits for any decimal the engine accepts. Comparing decimals
// rescales them to a common exponent, so an exponent of millions would cost
// millions of digits.
const (
	MaxScale     = 20
	MaxDigits    = 34
	maxInputText = 64
)

// InRange reports whether d's exponent and coefficient fit the engine's
// magnitude limits. It never rescales d.
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -MaxScale && exp <= MaxScale && d.NumDigits() <= MaxDigits
}

// ParseDecimalOK parses s after stripping currency symbols, thousands
// separators and blanks. Text outside the magnitude limits is non-numeric.
func ParseDecimalOK(s string) (decimal.Decimal, bool) {
	s = numberReplacer.Replace(strings.TrimSpace(s))
	if s == "" || len(s) > maxInputText {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !InRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// ParseDecimal returns zero for empty or non-numeric text.
func ParseDecimal(s string) decimal.Decimal {
	d, _ := ParseDecimalOK(s)
	return d
}

// ParseIntOr truncates s to an integer. Empty, non-numeric or zero text
// returns fallback.
func ParseIntOr(s string, fallback int) int {
	d, ok := ParseDecimalOK(s)
	if !ok {
		return fallback
	}
	n := int(d.Truncate(0).IntPart())
	if n == 0 {
		return fallback
	}
	return n
}
