package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// PTU - Profit sharing
// =============================================================================
//
// The pool is split in halves. The days half is shared by days worked over
// headcount * 365. The salary half uses headcount * the employee's own annual
// salary as the aggregate payroll: no aggregate payroll input exists, so the
// requesting employee stands in for the average.

type PTUInput struct {
	MonthlySalary decimal.Decimal
	DaysWorked    int // <= 0 means the full year
	CompanyProfit decimal.Decimal
	Headcount     int // <= 0 means 1
}

type PTUResult struct {
	DaysWorked int
	Headcount  int

	Pool       decimal.Decimal // profit * pool %
	DaysPool   decimal.Decimal
	SalaryPool decimal.Decimal

	DaysShare   decimal.Decimal
	SalaryShare decimal.Decimal
	GrossShare  decimal.Decimal

	Cap    decimal.Decimal // months of salary
	Capped bool
	Share  decimal.Decimal

	Exemption decimal.Decimal
	Taxable   decimal.Decimal
	Tax       generic.Resolution
	ISR       decimal.Decimal
	Net       decimal.Decimal
}

// PTU estimates an employee's profit-sharing payment.
func PTU(in PTUInput, ts *statutory.TableSet) (*PTUResult, error) {
	if err := requirePositive(CalcPTU, "monthly_salary", in.MonthlySalary); err != nil {
		return nil, err
	}
	if err := requirePositive(CalcPTU, "company_profit", in.CompanyProfit); err != nil {
		return nil, err
	}
	c := ts.Constants
	two := decimal.NewFromInt(2)

	r := &PTUResult{DaysWorked: in.DaysWorked, Headcount: in.Headcount}
	if r.DaysWorked <= 0 {
		r.DaysWorked = 365
	}
	if r.Headcount <= 0 {
		r.Headcount = 1
	}
	days := generic.Int(r.DaysWorked)
	headcount := generic.Int(r.Headcount)
	salary := in.MonthlySalary

	r.Pool = generic.Percent(in.CompanyProfit, c.PTUPoolPercent)
	r.DaysPool = r.Pool.Div(two)
	r.SalaryPool = r.Pool.Div(two)

	r.DaysShare = r.DaysPool.Div(headcount.Mul(generic.DaysPerYear)).Mul(days)
	aggregateSalary := headcount.Mul(salary).Mul(generic.MonthsPerYear)
	earned := salary.Mul(days).Div(generic.DaysPerMonth)
	r.SalaryShare = r.SalaryPool.Div(aggregateSalary).Mul(earned)
	r.GrossShare = r.DaysShare.Add(r.SalaryShare)

	r.Cap = salary.Mul(c.PTUCapMonths)
	r.Share = r.GrossShare
	if r.GrossShare.GreaterThan(r.Cap) {
		r.Capped = true
		r.Share = r.Cap
	}

	r.Exemption = ts.PTUExemption()
	r.Taxable = generic.NonNegative(r.Share.Sub(r.Exemption))
	r.Tax = generic.Resolve(r.Taxable, ts.MonthlyISR)
	r.ISR = r.Tax.Tax
	r.Net = r.Share.Sub(r.ISR)
	return r, nil
}

func (r *PTUResult) Lines() []generic.LineItem {
	return []generic.LineItem{
		generic.Line("pool", "10% de utilidades a repartir", r.Pool),
		generic.Line("days_share", "Parte por días trabajados", r.DaysShare).WithQuantity(generic.Int(r.DaysWorked)),
		generic.Line("salary_share", "Parte por salario", r.SalaryShare),
		generic.Line("gross_share", "PTU calculada", r.GrossShare),
		generic.Line("cap", "Tope (3 meses de salario)", r.Cap),
		generic.Line("ptu", "PTU a recibir", r.Share),
		generic.Line("exemption", "Exención (15 UMAs)", r.Exemption),
		generic.Line("taxable", "Parte gravada", r.Taxable),
		generic.Line("tax_withheld", "ISR", r.ISR),
		generic.Line("net_total", "PTU neta", r.Net),
	}
}

func (r *PTUResult) Caveats() []string {
	return []string{
		"Estimate: the employee's own salary stands in for the company's average salary.",
	}
}
