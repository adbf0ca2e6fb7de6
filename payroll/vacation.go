package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// VACATION - Statutory days, pay and premium by tenure
// =============================================================================

// MaxTenureYears bounds the tenure accepted for a vacation lookup and its
// listing.
const MaxTenureYears = 100

type VacationInput struct {
	TenureYears   int
	MonthlySalary decimal.Decimal // optional; zero yields zero pay lines
}

type VacationResult struct {
	TenureYears int
	Days        int
	DailyWage   decimal.Decimal
	Pay         decimal.Decimal
	Premium     decimal.Decimal
	Total       decimal.Decimal
	Schedule    []statutory.VacationEntry // years 1..max(tenure+5, 10)
}

// Vacation looks up the vacation entitlement for a tenure year.
func Vacation(in VacationInput, ts *statutory.TableSet) (*VacationResult, error) {
	if in.TenureYears <= 0 {
		return nil, generic.Insufficient(CalcVacation, "tenure_years", "must be positive")
	}
	if in.TenureYears > MaxTenureYears {
		return nil, generic.Insufficient(CalcVacation, "tenure_years", fmt.Sprintf("must not exceed %d", MaxTenureYears))
	}
	if !generic.InRange(in.MonthlySalary) {
		return nil, generic.Insufficient(CalcVacation, "monthly_salary", "is out of range")
	}
	salary := generic.NonNegative(in.MonthlySalary)

	r := &VacationResult{
		TenureYears: in.TenureYears,
		Days:        ts.Vacation.DaysFor(in.TenureYears),
		DailyWage:   dailyWage(salary),
	}
	r.Pay = r.DailyWage.Mul(generic.Int(r.Days))
	r.Premium = generic.Percent(r.Pay, ts.Constants.VacationPremiumPercent)
	r.Total = r.Pay.Add(r.Premium)
	r.Schedule = ts.Vacation.Schedule(1, generic.MaxInt(in.TenureYears+5, 10))
	return r, nil
}

func (r *VacationResult) Lines() []generic.LineItem {
	return []generic.LineItem{
		generic.Line("vacation_days", "Días de vacaciones", generic.Int(r.Days)).WithQuantity(generic.Int(r.TenureYears)),
		generic.Line("vacation_pay", "Pago de vacaciones", r.Pay),
		generic.Line("vacation_premium", "Prima vacacional", r.Premium),
		generic.Line("total", "Total a recibir", r.Total),
	}
}
