package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// WITHHOLDING - Monthly ISR with employment subsidy
// =============================================================================

type WithholdingInput struct {
	MonthlyGross decimal.Decimal
}

type WithholdingResult struct {
	Gross      decimal.Decimal
	Resolution generic.Resolution // progressive ISR on the gross

	ISR            decimal.Decimal // tax before subsidy
	SubsidyApplied bool
	Subsidy        decimal.Decimal
	NetTax         decimal.Decimal // max(ISR - subsidy, 0)
	NetPay         decimal.Decimal

	EffectiveRatePercent decimal.Decimal // NetTax / Gross * 100
	AnnualGross          decimal.Decimal
	AnnualTax            decimal.Decimal
	AnnualNet            decimal.Decimal
}

// Withholding computes the monthly ISR to withhold from a salary.
func Withholding(in WithholdingInput, ts *statutory.TableSet) (*WithholdingResult, error) {
	if err := requirePositive(CalcISR, "monthly_salary", in.MonthlyGross); err != nil {
		return nil, err
	}
	r := withhold(in.MonthlyGross, ts)
	return &r, nil
}

// withhold is Withholding without the input check, for calculators that
// have already validated the gross.
func withhold(gross decimal.Decimal, ts *statutory.TableSet) WithholdingResult {
	res := generic.Resolve(gross, ts.MonthlyISR)

	r := WithholdingResult{
		Gross:      gross,
		Resolution: res,
		ISR:        res.Tax,
		Subsidy:    decimal.Zero,
	}
	if gross.IsPositive() && gross.LessThanOrEqual(ts.SubsidyThreshold()) {
		r.SubsidyApplied = true
		r.Subsidy = ts.Constants.EmploymentSubsidy
	}
	r.NetTax = generic.NonNegative(r.ISR.Sub(r.Subsidy))
	r.NetPay = gross.Sub(r.NetTax)
	r.EffectiveRatePercent = generic.Ratio(r.NetTax, gross).Mul(generic.Hundred)
	r.AnnualGross = gross.Mul(generic.MonthsPerYear)
	r.AnnualTax = r.NetTax.Mul(generic.MonthsPerYear)
	r.AnnualNet = r.NetPay.Mul(generic.MonthsPerYear)
	return r
}

func (r *WithholdingResult) Lines() []generic.LineItem {
	lines := []generic.LineItem{
		generic.Line("gross", "Ingreso mensual bruto", r.Gross),
		generic.Line("marginal_rate", "Tasa marginal (%)", r.Resolution.RatePercent),
		generic.Line("fixed_quota", "Cuota fija del rango", r.Resolution.FixedQuota),
		generic.Line("isr", "ISR causado", r.ISR),
	}
	if r.SubsidyApplied {
		lines = append(lines, generic.Line("employment_subsidy", "Subsidio al empleo", r.Subsidy.Neg()))
	}
	return append(lines,
		generic.Line("tax_withheld", "ISR a retener mensual", r.NetTax),
		generic.Line("net_total", "Sueldo neto mensual", r.NetPay),
		generic.Line("effective_rate", "Tasa efectiva (%)", r.EffectiveRatePercent),
		generic.Line("annual_gross", "Ingreso anual bruto", r.AnnualGross),
		generic.Line("annual_tax", "ISR anual", r.AnnualTax),
		generic.Line("annual_net", "Neto anual", r.AnnualNet),
	)
}
