/*
Package report renders calculation results for people: es-MX number
formatting and PDF statements.

PURPOSE:
  The calculators return unrounded decimals and ordered line items. This
  package is the only place that rounds for display, so any result with a
  Lines() method can be rendered the same way.

USAGE:
  report.Money(d)                       // "$25,000.00"
  report.Value(line)                    // money, percent or plain count by key
  report.WriteStatement(w, statement)   // PDF

SEE ALSO:
  - generic/types.go: LineItem
  - api/handlers.go: the PDF endpoint
*/
package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/milana/payroll-engine/generic"
)

// Locale is the display locale of every statement.
var Locale = language.MustParse("es-MX")

// Kind tells how a line amount is displayed.
type Kind int

const (
	KindMoney Kind = iota
	KindPercent
	KindCount
)

// Line keys whose amount is not money.
var kinds = map[string]Kind{
	"rate":              KindPercent,
	"marginal_rate":     KindPercent,
	"effective_rate":    KindPercent,
	"retention_rate":    KindPercent,
	"annual_rate":       KindPercent,
	"interest_percent":  KindPercent,
	"completed_years":   KindCount,
	"proportional_days": KindCount,
	"vacation_days":     KindCount,
	"payments":          KindCount,
	"weeks_contributed": KindCount,
	"missing_weeks":     KindCount,
}

// KindOf returns the display kind of a line key.
func KindOf(key string) Kind {
	if k, ok := kinds[key]; ok {
		return k
	}
	return KindMoney
}

func printer() *message.Printer {
	return message.NewPrinter(Locale)
}

// Money formats d as pesos with two decimals.
func Money(d decimal.Decimal) string {
	s := "$" + printer().Sprint(number.Decimal(d.Round(2).Abs().InexactFloat64(), number.Scale(2)))
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

// Percent formats a rate already expressed in percent ("21.36" -> "21.36%").
func Percent(d decimal.Decimal) string {
	return printer().Sprint(number.Decimal(d.Round(4).InexactFloat64(), number.MaxFractionDigits(4))) + "%"
}

// Count formats a day, week or year count. Fractions keep up to two digits.
func Count(d decimal.Decimal) string {
	return printer().Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

// Value formats a line amount according to its key.
func Value(l generic.LineItem) string {
	switch KindOf(l.Key) {
	case KindPercent:
		return Percent(l.Amount)
	case KindCount:
		return Count(l.Amount)
	default:
		return Money(l.Amount)
	}
}

// Quantity formats the line's quantity, or "" when it has none.
func Quantity(l generic.LineItem) string {
	if !l.Quantity.Valid {
		return ""
	}
	return Count(l.Quantity.Decimal)
}
