/*
bracket.go - Bracket tables and the single bracket resolver

PURPOSE:
  Every tax in the engine is a lookup into an ordered bracket table followed
  by a small formula. This file holds the one implementation of that lookup;
  calculators never scan brackets themselves.

MODES:
  Progressive (monthly/annual ISR):
    tax = (income - lowerBound) * rate/100 + fixedQuota
    The last bracket is unbounded.

  Flat (simplified regime bands):
    tax = income * rate/100
    Bands are finite; income above the last band uses FallbackRatePercent.

CONTIGUITY:
  Published tables step by one cent between rows (844.59 -> 844.60). An
  income that falls inside that sub-cent step resolves to the lower row, so
  every positive income matches exactly one bracket.

EXAMPLE:
  res := generic.Resolve(decimal.NewFromInt(25000), tables.MonthlyISR)
  res.Tax          // (25000 - 17533.65) * 21.36% + 1856.84
  res.RatePercent  // 21.36
*/
package generic

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BRACKET TABLE
// =============================================================================

type Mode string

const (
	ModeProgressive Mode = "progressive"
	ModeFlat        Mode = "flat"
)

// Bracket is one row of a table. Upper is ignored when Unbounded is set.
type Bracket struct {
	Lower       decimal.Decimal
	Upper       decimal.Decimal
	Unbounded   bool
	FixedQuota  decimal.Decimal
	RatePercent decimal.Decimal
}

// Contains reports whether Lower <= income <= Upper.
func (b Bracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.Lower) {
		return false
	}
	return b.Unbounded || income.LessThanOrEqual(b.Upper)
}

// BracketTable is an ordered, immutable set of brackets. It is loaded once
// from configuration and never mutated by the engine.
type BracketTable struct {
	Name                string
	Mode                Mode
	Brackets            []Bracket
	FallbackRatePercent decimal.Decimal
}

// Validate checks ordering, contiguity and the bound of the last row.
func (t BracketTable) Validate() error {
	if len(t.Brackets) == 0 {
		return &TableError{Table: t.Name, Index: -1, Reason: "no brackets"}
	}
	last := len(t.Brackets) - 1
	for i, b := range t.Brackets {
		if !InRange(b.Lower) || !InRange(b.Upper) || !InRange(b.FixedQuota) || !InRange(b.RatePercent) {
			return &TableError{Table: t.Name, Index: i, Reason: "value out of range"}
		}
		if b.Lower.IsNegative() {
			return &TableError{Table: t.Name, Index: i, Reason: "negative lower bound"}
		}
		if b.RatePercent.IsNegative() || b.FixedQuota.IsNegative() {
			return &TableError{Table: t.Name, Index: i, Reason: "negative rate or fixed quota"}
		}
		if !b.Unbounded && b.Upper.LessThan(b.Lower) {
			return &TableError{Table: t.Name, Index: i, Reason: "upper bound below lower bound"}
		}
		if b.Unbounded && i != last {
			return &TableError{Table: t.Name, Index: i, Reason: "only the last bracket may be unbounded"}
		}
		if i == 0 {
			continue
		}
		prev := t.Brackets[i-1]
		step := b.Lower.Sub(prev.Upper)
		if !step.IsPositive() {
			return &TableError{Table: t.Name, Index: i, Reason: fmt.Sprintf("overlaps previous bracket (%s <= %s)", b.Lower, prev.Upper)}
		}
		if step.GreaterThan(Cent) {
			return &TableError{Table: t.Name, Index: i, Reason: fmt.Sprintf("gap after previous bracket (%s -> %s)", prev.Upper, b.Lower)}
		}
	}

	switch t.mode() {
	case ModeProgressive:
		if !t.Brackets[last].Unbounded {
			return &TableError{Table: t.Name, Index: last, Reason: "last progressive bracket must be unbounded"}
		}
	case ModeFlat:
		if !InRange(t.FallbackRatePercent) {
			return &TableError{Table: t.Name, Index: -1, Reason: "fallback rate out of range"}
		}
		if t.Brackets[last].Unbounded {
			return &TableError{Table: t.Name, Index: last, Reason: "last flat-rate band must be finite"}
		}
		if t.FallbackRatePercent.IsNegative() {
			return &TableError{Table: t.Name, Index: -1, Reason: "negative fallback rate"}
		}
	default:
		return &TableError{Table: t.Name, Index: -1, Reason: fmt.Sprintf("unknown mode %q", t.Mode)}
	}
	return nil
}

func (t BracketTable) mode() Mode {
	if t.Mode == "" {
		return ModeProgressive
	}
	return t.Mode
}

// Find returns the index of the bracket that applies to income: the row with
// the greatest lower bound not above income. A positive income below the
// first lower bound belongs to the first row. Income above a finite last row
// matches nothing.
func (t BracketTable) Find(income decimal.Decimal) (int, bool) {
	if len(t.Brackets) == 0 || !income.IsPositive() {
		return -1, false
	}
	idx := sort.Search(len(t.Brackets), func(i int) bool {
		return t.Brackets[i].Lower.GreaterThan(income)
	}) - 1
	if idx < 0 {
		return 0, true
	}
	b := t.Brackets[idx]
	if !b.Unbounded && income.GreaterThan(b.Upper) && idx == len(t.Brackets)-1 {
		return -1, false
	}
	return idx, true
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolution is the outcome of resolving an income against a table.
type Resolution struct {
	Income      decimal.Decimal
	Bracket     *Bracket // nil when no bracket was selected
	Index       int
	RatePercent decimal.Decimal
	FixedQuota  decimal.Decimal
	Excess      decimal.Decimal // income - lower bound (progressive only)
	MarginalTax decimal.Decimal // rate applied to excess (progressive) or to income (flat)
	Tax         decimal.Decimal
	Fallback    bool // flat table: income above the last band
}

// Matched reports whether a bracket was selected.
func (r Resolution) Matched() bool { return r.Bracket != nil }

// Resolve selects the bracket for income and computes the tax due according
// to the table's mode. Income <= 0 yields zero tax and no bracket. The tax
// is never negative.
func Resolve(income decimal.Decimal, t BracketTable) Resolution {
	res := Resolution{Income: income, Index: -1}
	if !income.IsPositive() {
		return res
	}

	idx, ok := t.Find(income)
	if !ok {
		if t.mode() == ModeFlat {
			res.Fallback = true
			res.RatePercent = t.FallbackRatePercent
			res.MarginalTax = Percent(income, t.FallbackRatePercent)
			res.Tax = res.MarginalTax
		}
		return res
	}

	b := t.Brackets[idx]
	res.Bracket = &b
	res.Index = idx
	res.RatePercent = b.RatePercent

	switch t.mode() {
	case ModeFlat:
		res.MarginalTax = Percent(income, b.RatePercent)
		res.Tax = res.MarginalTax
	default:
		res.FixedQuota = b.FixedQuota
		res.Excess = income.Sub(b.Lower)
		res.MarginalTax = Percent(res.Excess, b.RatePercent)
		res.Tax = NonNegative(res.MarginalTax.Add(b.FixedQuota))
	}
	return res
}
