/*
Package generic provides the domain-agnostic calculation primitives.

PURPOSE:
  This package contains the building blocks every payroll calculator shares:
  money arithmetic, calendar-day proration, bracket tables and the single
  bracket resolver, permissive input parsing, and the calculator registry.
  Nothing here knows about a specific country's statutory tables.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal.Decimal everywhere, never float64 for amounts
  - LineItem: a named, auditable number in a calculation result
  - Percent/Ratio helpers used by all calculators

DESIGN PRINCIPLES:
  1. Purity: functions take inputs and configuration, return values
  2. Precision: uses decimal.Decimal to avoid floating-point drift
  3. Auditability: every result can be listed as ordered line items

USAGE:
  salary := generic.MustParseDecimal("25000")
  daily := salary.Div(generic.DaysPerMonth)
  premium := generic.Percent(daily, generic.D(25))

SEE ALSO:
  - bracket.go: BracketTable and Resolve
  - period.go: ProrationPeriod
  - parse.go: permissive text-to-number coercion
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// COMMON FACTORS
// =============================================================================

var (
	Hundred       = decimal.NewFromInt(100)
	DaysPerYear   = decimal.NewFromInt(365)
	DaysPerMonth  = decimal.NewFromInt(30)
	MonthsPerYear = decimal.NewFromInt(12)
	WeeksPerYear  = decimal.NewFromInt(52)
	Cent          = decimal.New(1, -2)
)

// D is shorthand for decimal.NewFromFloat, mostly for constants and tests.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// Int is shorthand for decimal.NewFromInt.
func Int(v int) decimal.Decimal { return decimal.NewFromInt(int64(v)) }

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Percent returns value * ratePercent / 100.
func Percent(value, ratePercent decimal.Decimal) decimal.Decimal {
	return value.Mul(ratePercent).Div(Hundred)
}

// Ratio returns a/b, or zero when b is zero.
func Ratio(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// =============================================================================
// LINE ITEM - One named number in a calculation result
// =============================================================================

// LineItem is a single auditable value of a calculation. Key is a stable
// snake_case identifier; Label is the display text. Quantity carries the
// day count, rate or factor the amount was derived from, when there is one.
type LineItem struct {
	Key      string
	Label    string
	Amount   decimal.Decimal
	Quantity decimal.NullDecimal
}

func Line(key, label string, amount decimal.Decimal) LineItem {
	return LineItem{Key: key, Label: label, Amount: amount}
}

// WithQuantity returns a copy of the line carrying q.
func (l LineItem) WithQuantity(q decimal.Decimal) LineItem {
	l.Quantity = decimal.NullDecimal{Decimal: q, Valid: true}
	return l
}

// FindLine returns the line with the given key.
func FindLine(lines []LineItem, key string) (LineItem, bool) {
	for _, l := range lines {
		if l.Key == key {
			return l, true
		}
	}
	return LineItem{}, false
}
