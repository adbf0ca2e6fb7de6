/*
Package payroll implements the Mexican payroll and labor-benefit calculators.

PURPOSE:
  Each calculator is a pure function of an explicit input struct and a
  *statutory.TableSet. No calculator reads a clock, a global constant or
  shared mutable state, so any number of calculations may run concurrently
  against the same TableSet.

CALCULATORS:
  Withholding   monthly ISR withholding with employment subsidy      (isr)
  Finiquito     settlement on resignation                            (finiquito)
  Liquidacion   settlement on unjustified dismissal                  (liquidacion)
  Aguinaldo     year-end bonus with exemption and ISR                (aguinaldo)
  Resico        simplified-regime flat tax vs. progressive ISR       (resico)
  PTU           profit-sharing share, cap, exemption and ISR         (ptu)
  NetPay        gross-to-net monthly and annual                      (bruto-neto)
  Vacation      statutory vacation days, pay and premium             (vacaciones)
  Loan          fixed-rate annuity amortization                      (infonavit)
  Pension       simplified retirement projection                     (pension)

INSUFFICIENT INPUT:
  A missing or non-positive primary input (salary, dates, principal) is not
  computed. Calculators return a *generic.InsufficientInputError naming the
  field instead of a zeroed result.

RESULTS:
  Every result exposes Lines() in display order so callers can render any
  calculator uniformly. Amounts are not rounded; callers round for display.

SEE ALSO:
  - generic/bracket.go: the single bracket resolver every tax goes through
  - statutory/types.go: TableSet and Constants
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
)

// Calculator IDs. They double as URL segments in the HTTP API.
const (
	CalcFiniquito   = "finiquito"
	CalcLiquidacion = "liquidacion"
	CalcAguinaldo   = "aguinaldo"
	CalcISR         = "isr"
	CalcResico      = "resico"
	CalcPTU         = "ptu"
	CalcNetPay      = "bruto-neto"
	CalcVacation    = "vacaciones"
	CalcLoan        = "infonavit"
	CalcPension     = "pension"
)

func init() {
	for _, d := range []generic.Descriptor{
		{ID: CalcFiniquito, Name: "Finiquito", Description: "Settlement due on voluntary resignation"},
		{ID: CalcLiquidacion, Name: "Liquidación", Description: "Settlement due on unjustified dismissal"},
		{ID: CalcAguinaldo, Name: "Aguinaldo", Description: "Year-end bonus with ISR exemption"},
		{ID: CalcISR, Name: "ISR mensual", Description: "Monthly income-tax withholding with employment subsidy"},
		{ID: CalcResico, Name: "RESICO", Description: "Simplified-regime flat-rate tax compared to progressive withholding"},
		{ID: CalcPTU, Name: "PTU", Description: "Profit-sharing estimate with cap and exemption"},
		{ID: CalcNetPay, Name: "Bruto a neto", Description: "Gross-to-net salary, monthly and annual"},
		{ID: CalcVacation, Name: "Vacaciones", Description: "Statutory vacation days, pay and premium by tenure"},
		{ID: CalcLoan, Name: "Crédito Infonavit", Description: "Fixed-payment mortgage amortization"},
		{ID: CalcPension, Name: "Pensión", Description: "Simplified retirement pension projection"},
	} {
		generic.RegisterCalculator(d)
	}
}

// Result is implemented by every calculator result.
type Result interface {
	Lines() []generic.LineItem
}

// Caveated results carry notes on what the figures leave out.
type Caveated interface {
	Caveats() []string
}

// Caveats returns r's caveats, if it has any.
func Caveats(r Result) []string {
	if c, ok := r.(Caveated); ok {
		return c.Caveats()
	}
	return nil
}

// dailyWage is the monthly salary over a 30-day month.
func dailyWage(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Div(generic.DaysPerMonth)
}

func requirePositive(calc, field string, v decimal.Decimal) error {
	if !generic.InRange(v) {
		return generic.Insufficient(calc, field, "is out of range")
	}
	if !v.IsPositive() {
		return generic.Insufficient(calc, field, "must be positive")
	}
	return nil
}
