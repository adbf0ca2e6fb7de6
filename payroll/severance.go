package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// SEVERANCE - Finiquito (resignation) and liquidación (dismissal)
// =============================================================================
//
// Both settlements share the same base: unpaid days, the calendar-year share
// of the year-end bonus, and the prorated vacation entitlement with its
// premium. Finiquito adds a seniority premium only from the seniority
// threshold on; liquidación adds an indemnity block whose seniority premium
// always applies with a minimum of one year.

type SeveranceInput struct {
	MonthlySalary       decimal.Decimal
	HireDate            generic.TimePoint
	ExitDate            generic.TimePoint
	UnpaidDays          int // worked days not yet paid
	PendingVacationDays int // accrued vacation days from previous years not yet taken
}

// Settlement is the part both severance calculations share.
type Settlement struct {
	DailyWage      decimal.Decimal
	TenureDays     int
	CompletedYears int

	UnpaidDays     int
	ProratedSalary decimal.Decimal

	YearPeriod     generic.ProrationPeriod // later of hire / Jan 1 through exit
	YearDays       int
	YearFraction   decimal.Decimal
	ChristmasBonus decimal.Decimal

	VacationDaysForYear int             // entitlement for the tenure year in progress
	VacationDays        decimal.Decimal // prorated entitlement plus pending days
	VacationPay         decimal.Decimal
	VacationPremium     decimal.Decimal
}

// Subtotal sums the shared components.
func (s Settlement) Subtotal() decimal.Decimal {
	return s.ProratedSalary.Add(s.ChristmasBonus).Add(s.VacationPay).Add(s.VacationPremium)
}

func (s Settlement) lines() []generic.LineItem {
	return []generic.LineItem{
		generic.Line("daily_wage", "Salario diario", s.DailyWage),
		generic.Line("completed_years", "Años completos", generic.Int(s.CompletedYears)),
		generic.Line("prorated_salary", "Días trabajados no pagados", s.ProratedSalary).WithQuantity(generic.Int(s.UnpaidDays)),
		generic.Line("christmas_bonus", "Aguinaldo proporcional", s.ChristmasBonus).WithQuantity(generic.Int(s.YearDays)),
		generic.Line("vacation_pay", "Vacaciones proporcionales", s.VacationPay).WithQuantity(s.VacationDays),
		generic.Line("vacation_premium", "Prima vacacional", s.VacationPremium),
	}
}

func settle(calc string, in SeveranceInput, ts *statutory.TableSet) (Settlement, error) {
	if err := requirePositive(calc, "monthly_salary", in.MonthlySalary); err != nil {
		return Settlement{}, err
	}
	if in.HireDate.IsZero() {
		return Settlement{}, generic.Insufficient(calc, "hire_date", "is required")
	}
	if in.ExitDate.IsZero() {
		return Settlement{}, generic.Insufficient(calc, "exit_date", "is required")
	}
	if in.ExitDate.Before(in.HireDate) {
		return Settlement{}, generic.Insufficient(calc, "exit_date", "precedes hire_date")
	}

	c := ts.Constants
	tenure := generic.ProrationPeriod{Start: in.HireDate, End: in.ExitDate}
	year := generic.CalendarYearPeriod(in.HireDate, in.ExitDate)

	s := Settlement{
		DailyWage:      dailyWage(in.MonthlySalary),
		TenureDays:     tenure.ElapsedDays(),
		CompletedYears: tenure.CompletedYears(),
		UnpaidDays:     in.UnpaidDays,
		YearPeriod:     year,
		YearDays:       year.ElapsedDays(),
		YearFraction:   year.YearFraction(),
	}
	s.ProratedSalary = s.DailyWage.Mul(generic.Int(in.UnpaidDays))

	// (bonus days / 365) * days in the year * daily wage
	s.ChristmasBonus = generic.Int(c.AguinaldoDays).Div(generic.DaysPerYear).
		Mul(generic.Int(s.YearDays)).Mul(s.DailyWage)

	s.VacationDaysForYear = ts.Vacation.DaysFor(s.CompletedYears + 1)
	s.VacationDays = generic.Int(s.VacationDaysForYear).Mul(s.YearFraction).Add(generic.Int(in.PendingVacationDays))
	s.VacationPay = s.VacationDays.Mul(s.DailyWage)
	s.VacationPremium = generic.Percent(s.VacationPay, c.VacationPremiumPercent)
	return s, nil
}

// seniorityPremium is days-per-year * min(daily wage, cap) * years.
func seniorityPremium(daily decimal.Decimal, years int, ts *statutory.TableSet) (capped, premium decimal.Decimal) {
	capped = decimal.Min(daily, ts.SeniorityDailyCap())
	premium = ts.Constants.SeniorityDaysPerYear.Mul(capped).Mul(generic.Int(years))
	return capped, premium
}

// =============================================================================
// FINIQUITO
// =============================================================================

type FiniquitoResult struct {
	Settlement

	SeniorityApplies   bool
	SeniorityDailyWage decimal.Decimal
	SeniorityPremium   decimal.Decimal

	GrossTotal  decimal.Decimal
	Tax         generic.Resolution // monthly table on the gross total
	TaxWithheld decimal.Decimal
	NetTotal    decimal.Decimal
}

// Finiquito computes the settlement due on voluntary resignation.
func Finiquito(in SeveranceInput, ts *statutory.TableSet) (*FiniquitoResult, error) {
	s, err := settle(CalcFiniquito, in, ts)
	if err != nil {
		return nil, err
	}

	r := &FiniquitoResult{Settlement: s, SeniorityPremium: decimal.Zero}
	if s.CompletedYears >= ts.Constants.SeniorityMinYears {
		r.SeniorityApplies = true
		r.SeniorityDailyWage, r.SeniorityPremium = seniorityPremium(s.DailyWage, s.CompletedYears, ts)
	}

	r.GrossTotal = s.Subtotal().Add(r.SeniorityPremium)
	// Simplification: the whole settlement is taxed as one month's income.
	r.Tax = generic.Resolve(r.GrossTotal, ts.MonthlyISR)
	r.TaxWithheld = r.Tax.Tax
	r.NetTotal = r.GrossTotal.Sub(r.TaxWithheld)
	return r, nil
}

func (r *FiniquitoResult) Lines() []generic.LineItem {
	return append(r.Settlement.lines(),
		generic.Line("seniority_premium", "Prima de antigüedad", r.SeniorityPremium),
		generic.Line("gross_total", "Total bruto", r.GrossTotal),
		generic.Line("tax_withheld", "ISR estimado", r.TaxWithheld),
		generic.Line("net_total", "Total neto estimado", r.NetTotal),
	)
}

func (r *FiniquitoResult) Caveats() []string {
	return []string{
		"ISR estimated by taxing the whole settlement as a single month of income.",
	}
}

// =============================================================================
// LIQUIDACION
// =============================================================================

type LiquidacionResult struct {
	Settlement

	IntegrationFactor   decimal.Decimal
	IntegratedDailyWage decimal.Decimal // SDI

	ConstitutionalIndemnity decimal.Decimal // 90 days of SDI
	IndemnityYears          int             // max(completed years, 1)
	YearlyIndemnity         decimal.Decimal // 20 days of SDI per year
	SeniorityDailyWage      decimal.Decimal
	SeniorityPremium        decimal.Decimal

	FiniquitoSubtotal decimal.Decimal
	IndemnitySubtotal decimal.Decimal
	GrandTotal        decimal.Decimal
}

// Liquidacion computes the settlement due on unjustified dismissal. The
// totals are gross: severance exemptions are not applied.
func Liquidacion(in SeveranceInput, ts *statutory.TableSet) (*LiquidacionResult, error) {
	s, err := settle(CalcLiquidacion, in, ts)
	if err != nil {
		return nil, err
	}
	c := ts.Constants

	r := &LiquidacionResult{Settlement: s}

	// 1 + bonus days/365 + vacation days * premium% / 365
	r.IntegrationFactor = decimal.NewFromInt(1).
		Add(generic.Int(c.AguinaldoDays).Div(generic.DaysPerYear)).
		Add(generic.Percent(generic.Int(s.VacationDaysForYear), c.VacationPremiumPercent).Div(generic.DaysPerYear))
	r.IntegratedDailyWage = s.DailyWage.Mul(r.IntegrationFactor)

	r.IndemnityYears = generic.MaxInt(s.CompletedYears, 1)
	r.ConstitutionalIndemnity = r.IntegratedDailyWage.Mul(c.ConstitutionalIndemnityDays)
	r.YearlyIndemnity = r.IntegratedDailyWage.Mul(c.IndemnityDaysPerYear).Mul(generic.Int(r.IndemnityYears))
	r.SeniorityDailyWage, r.SeniorityPremium = seniorityPremium(s.DailyWage, r.IndemnityYears, ts)

	r.FiniquitoSubtotal = s.Subtotal()
	r.IndemnitySubtotal = r.ConstitutionalIndemnity.Add(r.YearlyIndemnity).Add(r.SeniorityPremium)
	r.GrandTotal = r.FiniquitoSubtotal.Add(r.IndemnitySubtotal)
	return r, nil
}

func (r *LiquidacionResult) Lines() []generic.LineItem {
	return append(r.Settlement.lines(),
		generic.Line("finiquito_subtotal", "Subtotal finiquito", r.FiniquitoSubtotal),
		generic.Line("integrated_daily_wage", "Salario diario integrado", r.IntegratedDailyWage).WithQuantity(r.IntegrationFactor),
		generic.Line("constitutional_indemnity", "Indemnización constitucional (90 días)", r.ConstitutionalIndemnity),
		generic.Line("yearly_indemnity", "Indemnización 20 días por año", r.YearlyIndemnity).WithQuantity(generic.Int(r.IndemnityYears)),
		generic.Line("seniority_premium", "Prima de antigüedad", r.SeniorityPremium),
		generic.Line("indemnity_subtotal", "Subtotal indemnización", r.IndemnitySubtotal),
		generic.Line("gross_total", "Total bruto", r.GrandTotal),
	)
}

func (r *LiquidacionResult) Caveats() []string {
	return []string{
		"Gross amounts: statutory ISR exemptions on severance are not applied.",
	}
}
