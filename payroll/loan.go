package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// LOAN - Fixed-rate annuity amortization
// =============================================================================
//
// payment = P * r * (1+r)^n / ((1+r)^n - 1), r = annual rate / 12,
// n = years * 12. A zero rate degenerates to P / n.

// MaxLoanTermYears bounds the term so that (1+r)^n stays a tractable decimal.
const MaxLoanTermYears = 100

type LoanInput struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	TermYears         int
	WithSchedule      bool
}

type Installment struct {
	Number    int
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

type LoanResult struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	MonthlyRate       decimal.Decimal
	TermYears         int
	Payments          int

	MonthlyPayment  decimal.Decimal
	TotalPaid       decimal.Decimal
	TotalInterest   decimal.Decimal
	InterestPercent decimal.Decimal // of the principal

	Schedule []Installment // cent-rounded; empty unless requested
}

// Loan computes the fixed monthly payment of a loan and its total cost.
func Loan(in LoanInput, ts *statutory.TableSet) (*LoanResult, error) {
	if err := requirePositive(CalcLoan, "principal", in.Principal); err != nil {
		return nil, err
	}
	if in.TermYears <= 0 {
		return nil, generic.Insufficient(CalcLoan, "term_years", "must be positive")
	}
	if in.TermYears > MaxLoanTermYears {
		return nil, generic.Insufficient(CalcLoan, "term_years", fmt.Sprintf("must not exceed %d", MaxLoanTermYears))
	}
	if !generic.InRange(in.AnnualRatePercent) {
		return nil, generic.Insufficient(CalcLoan, "annual_rate", "is out of range")
	}
	if in.AnnualRatePercent.IsNegative() {
		return nil, generic.Insufficient(CalcLoan, "annual_rate", "must not be negative")
	}

	r := &LoanResult{
		Principal:         in.Principal,
		AnnualRatePercent: in.AnnualRatePercent,
		MonthlyRate:       in.AnnualRatePercent.Div(generic.Hundred).Div(generic.MonthsPerYear),
		TermYears:         in.TermYears,
		Payments:          in.TermYears * 12,
	}
	n := generic.Int(r.Payments)

	if r.MonthlyRate.IsZero() {
		r.MonthlyPayment = in.Principal.Div(n)
	} else {
		growth, err := decimal.NewFromInt(1).Add(r.MonthlyRate).PowInt32(int32(r.Payments))
		if err != nil {
			return nil, generic.Insufficient(CalcLoan, "term_years", err.Error())
		}
		r.MonthlyPayment = in.Principal.Mul(r.MonthlyRate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
	}
	r.TotalPaid = r.MonthlyPayment.Mul(n)
	r.TotalInterest = r.TotalPaid.Sub(in.Principal)
	r.InterestPercent = generic.Ratio(r.TotalInterest, in.Principal).Mul(generic.Hundred)

	if in.WithSchedule {
		r.Schedule = amortize(in.Principal, r.MonthlyRate, r.MonthlyPayment, r.Payments)
	}
	return r, nil
}

// amortize builds the month-by-month table rounded to cents. The last
// installment pays off whatever balance the rounding left.
func amortize(principal, rate, payment decimal.Decimal, payments int) []Installment {
	schedule := make([]Installment, 0, payments)
	balance := principal.Round(2)
	pay := payment.Round(2)
	for i := 1; i <= payments; i++ {
		inst := Installment{Number: i, Interest: balance.Mul(rate).Round(2)}
		if i == payments {
			inst.Principal = balance
			inst.Payment = balance.Add(inst.Interest)
		} else {
			inst.Payment = pay
			inst.Principal = pay.Sub(inst.Interest)
		}
		balance = balance.Sub(inst.Principal)
		inst.Balance = balance
		schedule = append(schedule, inst)
	}
	return schedule
}

// DefaultLoanInput fills a missing rate or term from the table set's constants.
func DefaultLoanInput(in LoanInput, rateGiven bool, ts *statutory.TableSet) LoanInput {
	if !rateGiven {
		in.AnnualRatePercent = ts.Constants.LoanRatePercent
	}
	if in.TermYears <= 0 {
		in.TermYears = ts.Constants.LoanTermYears
	}
	return in
}

func (r *LoanResult) Lines() []generic.LineItem {
	return []generic.LineItem{
		generic.Line("principal", "Monto del crédito", r.Principal),
		generic.Line("annual_rate", "Tasa anual (%)", r.AnnualRatePercent),
		generic.Line("payments", "Número de pagos", generic.Int(r.Payments)),
		generic.Line("monthly_payment", "Pago mensual", r.MonthlyPayment),
		generic.Line("total_paid", "Total a pagar", r.TotalPaid),
		generic.Line("total_interest", "Total en intereses", r.TotalInterest),
		generic.Line("interest_percent", "Intereses sobre el crédito (%)", r.InterestPercent),
	}
}

func (r *LoanResult) Caveats() []string {
	return []string{
		"Fixed monthly payments; VSM or point-based credits amortize differently.",
	}
}
