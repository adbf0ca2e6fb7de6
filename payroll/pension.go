package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// PENSION - Simplified retirement projection (individual account regime)
// =============================================================================

type PensionInput struct {
	MonthlySalary    decimal.Decimal
	Age              int
	WeeksContributed int
}

type PensionResult struct {
	WeeksContributed int
	MinWeeks         int
	Eligible         bool
	MissingWeeks     int

	YearsContributed    decimal.Decimal // weeks / 52
	MonthlyContribution decimal.Decimal
	EstimatedBalance    decimal.Decimal

	PayoutYears    int // life expectancy - max(age, retirement age)
	AccountPension decimal.Decimal
	MinimumPension decimal.Decimal
	Pension        decimal.Decimal
}

// Pension projects a monthly pension from the accumulated account balance,
// floored at the guaranteed minimum when the weeks threshold is met.
func Pension(in PensionInput, ts *statutory.TableSet) (*PensionResult, error) {
	if err := requirePositive(CalcPension, "monthly_salary", in.MonthlySalary); err != nil {
		return nil, err
	}
	if in.Age <= 0 {
		return nil, generic.Insufficient(CalcPension, "age", "must be positive")
	}
	c := ts.Constants
	weeks := in.WeeksContributed
	if weeks < 0 {
		weeks = 0
	}

	r := &PensionResult{
		WeeksContributed: weeks,
		MinWeeks:         c.PensionMinWeeks,
		Eligible:         weeks >= c.PensionMinWeeks,
		MissingWeeks:     generic.MaxInt(c.PensionMinWeeks-weeks, 0),
		MinimumPension:   ts.MinimumPension(),
	}

	r.YearsContributed = generic.Int(weeks).Div(generic.WeeksPerYear)
	r.MonthlyContribution = generic.Percent(in.MonthlySalary, c.AforeContributionPercent)
	yield := decimal.NewFromInt(1).Add(c.AforeYieldPercent.Div(generic.Hundred))
	r.EstimatedBalance = r.MonthlyContribution.Mul(generic.MonthsPerYear).Mul(r.YearsContributed).Mul(yield)

	r.PayoutYears = c.PensionLifeExpectancy - generic.MaxInt(in.Age, c.PensionRetirementAge)
	r.AccountPension = decimal.Zero
	if r.PayoutYears > 0 {
		r.AccountPension = r.EstimatedBalance.Div(generic.Int(r.PayoutYears * 12))
	}

	floor := decimal.Zero
	if r.Eligible {
		floor = r.MinimumPension
	}
	r.Pension = decimal.Max(r.AccountPension, floor)
	return r, nil
}

func (r *PensionResult) Lines() []generic.LineItem {
	return []generic.LineItem{
		generic.Line("weeks_contributed", "Semanas cotizadas", generic.Int(r.WeeksContributed)),
		generic.Line("missing_weeks", "Semanas faltantes", generic.Int(r.MissingWeeks)),
		generic.Line("monthly_contribution", "Aportación mensual estimada", r.MonthlyContribution),
		generic.Line("estimated_balance", "Saldo AFORE estimado", r.EstimatedBalance).WithQuantity(r.YearsContributed),
		generic.Line("account_pension", "Pensión AFORE estimada", r.AccountPension),
		generic.Line("minimum_pension", "Pensión mínima garantizada", r.MinimumPension),
		generic.Line("pension", "Pensión mensual estimada", r.Pension),
	}
}

func (r *PensionResult) Caveats() []string {
	return []string{
		"Rough projection: the balance compounds one year of yield and the annuity divides it evenly to age 85.",
	}
}
