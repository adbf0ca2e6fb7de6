package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// AGUINALDO - Year-end bonus
// =============================================================================

type AguinaldoInput struct {
	MonthlySalary decimal.Decimal
	BonusDays     int               // <= 0 uses the statutory minimum
	HireDate      generic.TimePoint // zero: worked the full year
	AsOf          generic.TimePoint // reference date; zero: Dec 31 of the hire year
}

type AguinaldoResult struct {
	DailyWage        decimal.Decimal
	BonusDays        int
	ProportionalDays int
	GrossBonus       decimal.Decimal
	Exemption        decimal.Decimal // 30 UMA days
	ExemptPortion    decimal.Decimal
	Taxable          decimal.Decimal
	Tax              generic.Resolution
	ISR              decimal.Decimal
	Net              decimal.Decimal
}

// Aguinaldo computes the year-end bonus, its exempt portion and the ISR on
// the taxable excess.
func Aguinaldo(in AguinaldoInput, ts *statutory.TableSet) (*AguinaldoResult, error) {
	if err := requirePositive(CalcAguinaldo, "monthly_salary", in.MonthlySalary); err != nil {
		return nil, err
	}
	c := ts.Constants

	r := &AguinaldoResult{
		DailyWage:        dailyWage(in.MonthlySalary),
		BonusDays:        in.BonusDays,
		ProportionalDays: proportionalDays(in.HireDate, in.AsOf),
	}
	if r.BonusDays <= 0 {
		r.BonusDays = c.AguinaldoDays
	}

	r.GrossBonus = r.DailyWage.Mul(generic.Int(r.BonusDays)).
		Mul(generic.Int(r.ProportionalDays)).Div(generic.DaysPerYear)
	r.Exemption = ts.AguinaldoExemption()
	r.ExemptPortion = decimal.Min(r.GrossBonus, r.Exemption)
	r.Taxable = generic.NonNegative(r.GrossBonus.Sub(r.Exemption))
	r.Tax = generic.Resolve(r.Taxable, ts.MonthlyISR)
	r.ISR = r.Tax.Tax
	r.Net = r.GrossBonus.Sub(r.ISR)
	return r, nil
}

// proportionalDays counts the days of the reference year on payroll, from
// the later of hire date and Jan 1 through the earlier of as-of and Dec 31.
// Without a hire date the full year counts. A hire date before the reference
// year with as-of at year end also counts the full year.
func proportionalDays(hire, asOf generic.TimePoint) int {
	const fullYear = 365
	if hire.IsZero() {
		return fullYear
	}
	year := hire.Year()
	if !asOf.IsZero() {
		year = asOf.Year()
	}
	start := generic.StartOfYear(year)
	end := generic.EndOfYear(year)
	if !asOf.IsZero() && asOf.Before(end) {
		end = asOf
	}
	if hire.Before(start) && end.Equal(generic.EndOfYear(year)) {
		return fullYear
	}

	days := generic.DaysBetween(generic.Later(hire, start), end)
	switch {
	case days < 0:
		return 0
	case days > fullYear:
		return fullYear
	}
	return days
}

func (r *AguinaldoResult) Lines() []generic.LineItem {
	return []generic.LineItem{
		generic.Line("daily_wage", "Salario diario", r.DailyWage),
		generic.Line("proportional_days", "Días proporcionales trabajados", generic.Int(r.ProportionalDays)),
		generic.Line("christmas_bonus", "Aguinaldo bruto", r.GrossBonus).WithQuantity(generic.Int(r.BonusDays)),
		generic.Line("exempt_portion", "Exención ISR (30 UMAs)", r.ExemptPortion),
		generic.Line("taxable", "Parte gravada", r.Taxable),
		generic.Line("tax_withheld", "ISR del aguinaldo", r.ISR),
		generic.Line("net_total", "Aguinaldo neto", r.Net),
	}
}
