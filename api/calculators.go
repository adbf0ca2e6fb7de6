package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/payroll"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// FORM DISPATCH - Calculator ID to form and calculator
// =============================================================================

// calcForm is implemented by every calculator form.
type calcForm interface {
	Calculate(ts *statutory.TableSet) (payroll.Result, error)
}

// forms builds an empty form per calculator ID.
var forms = map[string]func() calcForm{
	payroll.CalcFiniquito:   func() calcForm { return &SeveranceForm{} },
	payroll.CalcLiquidacion: func() calcForm { return &SeveranceForm{dismissal: true} },
	payroll.CalcAguinaldo:   func() calcForm { return &AguinaldoForm{} },
	payroll.CalcISR:         func() calcForm { return &SalaryForm{} },
	payroll.CalcResico:      func() calcForm { return &ResicoForm{} },
	payroll.CalcPTU:         func() calcForm { return &PTUForm{} },
	payroll.CalcNetPay:      func() calcForm { return &SalaryForm{netPay: true} },
	payroll.CalcVacation:    func() calcForm { return &VacationForm{} },
	payroll.CalcLoan:        func() calcForm { return &LoanForm{} },
	payroll.CalcPension:     func() calcForm { return &PensionForm{} },
}

func newForm(id string) (calcForm, error) {
	build, ok := forms[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, generic.ErrUnknownCalculator)
	}
	return build(), nil
}

// =============================================================================
// FORM CONVERSION
// =============================================================================

func (v FormValue) decimalValue() decimal.Decimal { return generic.ParseDecimal(string(v)) }

func (v FormValue) intValue() int { return generic.ParseIntOr(string(v), 0) }

// dateValue returns the zero date for an empty field. Text that is not a
// YYYY-MM-DD date is insufficient input for calc, like a missing date.
func (v FormValue) dateValue(calc, field string) (generic.TimePoint, error) {
	if v == "" {
		return generic.TimePoint{}, nil
	}
	tp, ok := generic.ParseDate(string(v))
	if !ok {
		return generic.TimePoint{}, generic.Insufficient(calc, field, "is not a valid YYYY-MM-DD date")
	}
	return tp, nil
}

func (f *SeveranceForm) Calculate(ts *statutory.TableSet) (payroll.Result, error) {
	calc := payroll.CalcFiniquito
	if f.dismissal {
		calc = payroll.CalcLiquidacion
	}
	hire, err := f.HireDate.dateValue(calc, "hire_date")
	if err != nil {
		return nil, err
	}
	exit, err := f.ExitDate.dateValue(calc, "exit_date")
	if err != nil {
		return nil, err
	}
	in := payroll.SeveranceInput{
		MonthlySalary:       f.MonthlySalary.decimalValue(),
		HireDate:            hire,
		ExitDate:            exit,
		UnpaidDays:          f.UnpaidDays.intValue(),
		PendingVacationDays: f.PendingVacationDays.intValue(),
	}
	if f.dismissal {
		r, err := payroll.Liquidacion(in, ts)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	r, err := payroll.Finiquito(in, ts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *SalaryForm) Calculate(ts *statutory.TableSet) (payroll.Result, error) {
	salary := f.MonthlySalary.decimalValue()
	if f.netPay {
		r, err := payroll.NetPay(payroll.NetPayInput{MonthlyGross: salary}, ts)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	r, err := payroll.Withholding(payroll.WithholdingInput{MonthlyGross: salary}, ts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *AguinaldoForm) Calculate(ts *statutory.TableSet) (payroll.Result, error) {
	hire, err := f.HireDate.dateValue(payroll.CalcAguinaldo, "hire_date")
	if err != nil {
		return nil, err
	}
	asOf, err := f.AsOf.dateValue(payroll.CalcAguinaldo, "as_of")
	if err != nil {
		return nil, err
	}
	r, err := payroll.Aguinaldo(payroll.AguinaldoInput{
		MonthlySalary: f.MonthlySalary.decimalValue(),
		BonusDays:     f.BonusDays.intValue(),
		HireDate:      hire,
		AsOf:          asOf,
	}, ts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *ResicoForm) Calculate(ts *statutory.TableSet) (payroll.Result, error) {
	r, err := payroll.Resico(payroll.ResicoInput{MonthlyIncome: f.MonthlyIncome.decimalValue()}, ts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *PTUForm) Calculate(ts *statutory.TableSet) (payroll.Result, error) {
	r, err := payroll.PTU(payroll.PTUInput{
		MonthlySalary: f.MonthlySalary.decimalValue(),
		DaysWorked:    f.DaysWorked.intValue(),
		CompanyProfit: f.CompanyProfit.decimalValue(),
		Headcount:     f.Headcount.intValue(),
	}, ts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *VacationForm) Calculate(ts *statutory.TableSet) (payroll.Result, error) {
	r, err := payroll.Vacation(payroll.VacationInput{
		TenureYears:   f.TenureYears.intValue(),
		MonthlySalary: f.MonthlySalary.decimalValue(),
	}, ts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *LoanForm) Calculate(ts *statutory.TableSet) (payroll.Result, error) {
	rate, rateGiven := generic.ParseDecimalOK(string(f.AnnualRate))
	in := payroll.DefaultLoanInput(payroll.LoanInput{
		Principal:         f.Principal.decimalValue(),
		AnnualRatePercent: rate,
		TermYears:         f.TermYears.intValue(),
		WithSchedule:      f.Schedule,
	}, rateGiven, ts)
	r, err := payroll.Loan(in, ts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *PensionForm) Calculate(ts *statutory.TableSet) (payroll.Result, error) {
	r, err := payroll.Pension(payroll.PensionInput{
		MonthlySalary:    f.MonthlySalary.decimalValue(),
		Age:              f.Age.intValue(),
		WeeksContributed: f.WeeksContributed.intValue(),
	}, ts)
	if err != nil {
		return nil, err
	}
	return r, nil
}
