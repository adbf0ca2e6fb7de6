package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// RESICO - Simplified-regime flat tax compared to progressive ISR
// =============================================================================

type ResicoInput struct {
	MonthlyIncome decimal.Decimal
}

type ResicoResult struct {
	Income decimal.Decimal

	Band        generic.Resolution // flat-rate band (Fallback set above the last band)
	RatePercent decimal.Decimal
	ISR         decimal.Decimal
	VAT         decimal.Decimal // informative: VAT charged on the invoiced income
	TotalTaxes  decimal.Decimal
	Net         decimal.Decimal

	General        generic.Resolution // progressive monthly table, no subsidy
	GeneralISR     decimal.Decimal
	MonthlySavings decimal.Decimal // GeneralISR - ISR; negative when RESICO costs more

	AnnualIncome  decimal.Decimal
	AnnualISR     decimal.Decimal
	AnnualNet     decimal.Decimal
	AnnualSavings decimal.Decimal
}

// Resico computes the simplified-regime tax on a monthly income and the
// difference against the progressive table on the same income.
func Resico(in ResicoInput, ts *statutory.TableSet) (*ResicoResult, error) {
	if err := requirePositive(CalcResico, "monthly_income", in.MonthlyIncome); err != nil {
		return nil, err
	}
	income := in.MonthlyIncome

	r := &ResicoResult{Income: income}
	r.Band = generic.Resolve(income, ts.Resico)
	r.RatePercent = r.Band.RatePercent
	r.ISR = r.Band.Tax
	r.VAT = generic.Percent(income, ts.Constants.VATRatePercent)
	r.TotalTaxes = r.ISR.Add(r.VAT)
	r.Net = income.Sub(r.ISR)

	r.General = generic.Resolve(income, ts.MonthlyISR)
	r.GeneralISR = r.General.Tax
	r.MonthlySavings = r.GeneralISR.Sub(r.ISR)

	r.AnnualIncome = income.Mul(generic.MonthsPerYear)
	r.AnnualISR = r.ISR.Mul(generic.MonthsPerYear)
	r.AnnualNet = r.Net.Mul(generic.MonthsPerYear)
	r.AnnualSavings = r.MonthlySavings.Mul(generic.MonthsPerYear)
	return r, nil
}

func (r *ResicoResult) Lines() []generic.LineItem {
	return []generic.LineItem{
		generic.Line("income", "Ingreso mensual", r.Income),
		generic.Line("rate", "Tasa RESICO (%)", r.RatePercent),
		generic.Line("tax_withheld", "ISR RESICO mensual", r.ISR),
		generic.Line("vat", "IVA mensual (informativo)", r.VAT),
		generic.Line("net_total", "Neto después de ISR", r.Net),
		generic.Line("general_isr", "ISR régimen general", r.GeneralISR),
		generic.Line("monthly_savings", "Ahorro mensual con RESICO", r.MonthlySavings),
		generic.Line("annual_income", "Ingreso anual", r.AnnualIncome),
		generic.Line("annual_tax", "ISR anual RESICO", r.AnnualISR),
		generic.Line("annual_net", "Neto anual", r.AnnualNet),
		generic.Line("annual_savings", "Ahorro anual", r.AnnualSavings),
	}
}

func (r *ResicoResult) Caveats() []string {
	caveats := []string{"The general-regime comparison applies the monthly table without the employment subsidy."}
	if r.Band.Fallback {
		caveats = append(caveats, "Income exceeds the last RESICO band; the fallback rate was applied.")
	}
	return caveats
}
