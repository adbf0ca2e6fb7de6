package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// NET PAY - Gross to net, monthly and annual
// =============================================================================

type NetPayInput struct {
	MonthlyGross decimal.Decimal
}

type NetPayResult struct {
	Gross           decimal.Decimal
	DailyWage       decimal.Decimal
	Withholding     WithholdingResult
	ISR             decimal.Decimal
	IMSS            decimal.Decimal // employee social-security quota, estimated
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	Hourly          decimal.Decimal

	Aguinaldo       decimal.Decimal // statutory bonus days
	VacationPremium decimal.Decimal // first-year vacation days * premium
	AnnualIncome    decimal.Decimal
	AnnualISR       decimal.Decimal
	AnnualIMSS      decimal.Decimal
	AnnualNet       decimal.Decimal

	RetentionPercent decimal.Decimal
}

// NetPay converts a monthly gross salary into take-home pay.
func NetPay(in NetPayInput, ts *statutory.TableSet) (*NetPayResult, error) {
	if err := requirePositive(CalcNetPay, "monthly_salary", in.MonthlyGross); err != nil {
		return nil, err
	}
	c := ts.Constants
	gross := in.MonthlyGross

	r := &NetPayResult{Gross: gross, DailyWage: dailyWage(gross)}
	r.Withholding = withhold(gross, ts)
	r.ISR = r.Withholding.NetTax
	r.IMSS = generic.Percent(gross, c.IMSSEmployeeRatePercent)
	r.TotalDeductions = r.ISR.Add(r.IMSS)
	r.Net = gross.Sub(r.TotalDeductions)
	r.Hourly = r.Net.Div(c.WorkHoursPerMonth)

	r.Aguinaldo = r.DailyWage.Mul(generic.Int(c.AguinaldoDays))
	r.VacationPremium = generic.Percent(r.DailyWage.Mul(generic.Int(ts.Vacation.DaysFor(1))), c.VacationPremiumPercent)
	r.AnnualIncome = gross.Mul(generic.MonthsPerYear).Add(r.Aguinaldo).Add(r.VacationPremium)
	r.AnnualISR = r.ISR.Mul(generic.MonthsPerYear)
	r.AnnualIMSS = r.IMSS.Mul(generic.MonthsPerYear)
	r.AnnualNet = r.AnnualIncome.Sub(r.AnnualISR).Sub(r.AnnualIMSS)

	r.RetentionPercent = generic.Ratio(r.TotalDeductions, gross).Mul(generic.Hundred)
	return r, nil
}

func (r *NetPayResult) Lines() []generic.LineItem {
	return []generic.LineItem{
		generic.Line("gross", "Salario bruto mensual", r.Gross),
		generic.Line("tax_withheld", "ISR retenido", r.ISR),
		generic.Line("imss", "Cuota IMSS obrera", r.IMSS),
		generic.Line("total_deductions", "Total deducciones", r.TotalDeductions),
		generic.Line("net_total", "Sueldo neto mensual", r.Net),
		generic.Line("hourly", "Ingreso por hora", r.Hourly),
		generic.Line("christmas_bonus", "Aguinaldo (15 días)", r.Aguinaldo),
		generic.Line("vacation_premium", "Prima vacacional", r.VacationPremium),
		generic.Line("annual_income", "Ingreso anual total", r.AnnualIncome),
		generic.Line("annual_tax", "ISR anual", r.AnnualISR),
		generic.Line("annual_imss", "IMSS anual", r.AnnualIMSS),
		generic.Line("annual_net", "Neto anual", r.AnnualNet),
		generic.Line("retention_rate", "Tasa de retención (%)", r.RetentionPercent),
	}
}

func (r *NetPayResult) Caveats() []string {
	return []string{
		"IMSS employee quota is a flat estimate of the gross salary.",
		"Annual ISR is twelve monthly withholdings; the annual adjustment is not computed.",
	}
}
