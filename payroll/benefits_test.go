package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/payroll"
)

// =============================================================================
// AGUINALDO
// =============================================================================

func TestAguinaldo_FullYear(t *testing.T) {
	// GIVEN: 18,000/month, no hire date (worked the whole year)
	// THEN: 15 days of 600, 30 UMA days exempt, ISR on the excess

	r, err := payroll.Aguinaldo(payroll.AguinaldoInput{MonthlySalary: d("18000")}, tables2026())
	require.NoError(t, err)

	assert.Equal(t, 15, r.BonusDays)
	assert.Equal(t, 365, r.ProportionalDays)
	assertMoney(t, "9000", r.GrossBonus)
	assert.True(t, r.Exemption.Equal(d("3519.3")))
	assert.True(t, r.ExemptPortion.Equal(r.Exemption))
	assertMoney(t, "5480.70", r.Taxable)
	assertMoney(t, "312.93", r.ISR)
	assertMoney(t, "8687.07", r.Net)
}

func TestAguinaldo_ProportionalFromHireDate(t *testing.T) {
	// GIVEN: Hired 2026-03-01, evaluated at year end
	r, err := payroll.Aguinaldo(payroll.AguinaldoInput{
		MonthlySalary: d("18000"),
		HireDate:      date("2026-03-01"),
		AsOf:          date("2026-12-31"),
	}, tables2026())
	require.NoError(t, err)

	assert.Equal(t, 305, r.ProportionalDays)
	assertMoney(t, "7520.55", r.GrossBonus)
	assertMoney(t, "218.25", r.ISR)
}

func TestAguinaldo_ProportionalDays(t *testing.T) {
	tests := []struct {
		name       string
		hire, asOf string
		want       int
	}{
		{"hired mid-year, no as-of date", "2026-03-01", "", 305},
		{"hired mid-year, as-of before year end", "2026-03-01", "2026-06-30", 121},
		{"hired in an earlier year, as-of year end", "2019-05-10", "2026-12-31", 365},
		{"hired in an earlier year, mid-year", "2019-05-10", "2026-07-20", 200},
		{"hired after the as-of date", "2026-09-01", "2026-06-30", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := payroll.AguinaldoInput{MonthlySalary: d("10000"), HireDate: date(tt.hire)}
			if tt.asOf != "" {
				in.AsOf = date(tt.asOf)
			}
			r, err := payroll.Aguinaldo(in, tables2026())
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.ProportionalDays)
		})
	}
}

func TestAguinaldo_CustomDaysAndLowSalary(t *testing.T) {
	// GIVEN: 30 bonus days on a small salary stays under the exemption
	r, err := payroll.Aguinaldo(payroll.AguinaldoInput{MonthlySalary: d("3000"), BonusDays: 30}, tables2026())
	require.NoError(t, err)

	assert.Equal(t, 30, r.BonusDays)
	assertMoney(t, "3000", r.GrossBonus)
	assert.True(t, r.Taxable.IsZero())
	assert.True(t, r.ISR.IsZero())
	assert.False(t, r.Tax.Matched())
}

func TestAguinaldo_InsufficientInput(t *testing.T) {
	_, err := payroll.Aguinaldo(payroll.AguinaldoInput{}, tables2026())
	requireInsufficient(t, err, "monthly_salary")
}

// =============================================================================
// RESICO
// =============================================================================

func TestResico_FlatRateAndComparison(t *testing.T) {
	r, err := payroll.Resico(payroll.ResicoInput{MonthlyIncome: d("40000")}, tables2026())
	require.NoError(t, err)

	assert.True(t, r.RatePercent.Equal(d("1.1")))
	assert.True(t, r.ISR.Equal(d("440")))
	assert.True(t, r.VAT.Equal(d("6400")))
	assert.True(t, r.Net.Equal(d("39560")))
	assert.True(t, r.GeneralISR.Equal(d("6755.820032")))
	assert.True(t, r.MonthlySavings.Equal(d("6315.820032")))
	assertMoney(t, "75789.84", r.AnnualSavings)
	assert.Len(t, payroll.Caveats(r), 1)
}

func TestResico_ComparisonReusesResolver(t *testing.T) {
	ts := tables2026()
	r, err := payroll.Resico(payroll.ResicoInput{MonthlyIncome: d("12345.67")}, ts)
	require.NoError(t, err)

	assert.Equal(t, generic.Resolve(d("12345.67"), ts.MonthlyISR), r.General)
	assert.Equal(t, generic.Resolve(d("12345.67"), ts.Resico), r.Band)
}

func TestResico_AboveLastBand_UsesFallbackRate(t *testing.T) {
	r, err := payroll.Resico(payroll.ResicoInput{MonthlyIncome: d("300000")}, tables2026())
	require.NoError(t, err)

	assert.True(t, r.Band.Fallback)
	assert.True(t, r.RatePercent.Equal(d("2.5")))
	assert.True(t, r.ISR.Equal(d("7500")))
	assert.Len(t, payroll.Caveats(r), 2)
}

func TestResico_InsufficientInput(t *testing.T) {
	_, err := payroll.Resico(payroll.ResicoInput{}, tables2026())
	requireInsufficient(t, err, "monthly_income")
}

// =============================================================================
// PTU
// =============================================================================

func TestPTU_SplitsPoolByDaysAndSalary(t *testing.T) {
	// GIVEN: 5M profit, 50 employees, 15,000/month, full year
	r, err := payroll.PTU(payroll.PTUInput{
		MonthlySalary: d("15000"),
		CompanyProfit: d("5000000"),
		Headcount:     50,
	}, tables2026())
	require.NoError(t, err)

	assert.Equal(t, 365, r.DaysWorked)
	assert.True(t, r.Pool.Equal(d("500000")))
	assertMoney(t, "5000", r.DaysShare)
	assertMoney(t, "5069.44", r.SalaryShare)
	assertMoney(t, "10069.44", r.GrossShare)
	assert.False(t, r.Capped)
	assert.True(t, r.Exemption.Equal(d("1759.65")))
	assertMoney(t, "8309.79", r.Taxable)
	assertMoney(t, "545.12", r.ISR)
	assertMoney(t, "9524.32", r.Net)
}

func TestPTU_CappedAtThreeMonths(t *testing.T) {
	r, err := payroll.PTU(payroll.PTUInput{
		MonthlySalary: d("15000"),
		CompanyProfit: d("5000000"),
		Headcount:     5,
	}, tables2026())
	require.NoError(t, err)

	assert.True(t, r.Capped)
	assert.True(t, r.Share.Equal(d("45000")))
	assert.True(t, r.GrossShare.GreaterThan(r.Share))
}

func TestPTU_Defaults(t *testing.T) {
	r, err := payroll.PTU(payroll.PTUInput{MonthlySalary: d("15000"), CompanyProfit: d("100000")}, tables2026())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Headcount)
	assert.Equal(t, 365, r.DaysWorked)
}

func TestPTU_InsufficientInput(t *testing.T) {
	_, err := payroll.PTU(payroll.PTUInput{MonthlySalary: d("15000")}, tables2026())
	requireInsufficient(t, err, "company_profit")

	_, err = payroll.PTU(payroll.PTUInput{CompanyProfit: d("15000")}, tables2026())
	requireInsufficient(t, err, "monthly_salary")
}

// =============================================================================
// NET PAY
// =============================================================================

func TestNetPay_30000(t *testing.T) {
	r, err := payroll.NetPay(payroll.NetPayInput{MonthlyGross: d("30000")}, tables2026())
	require.NoError(t, err)

	assert.True(t, r.ISR.Equal(d("4519.65236")))
	assert.True(t, r.IMSS.Equal(d("750")))
	assertMoney(t, "24730.35", r.Net)
	assertMoney(t, "154.56", r.Hourly)
	assertMoney(t, "15000", r.Aguinaldo)
	assertMoney(t, "3000", r.VacationPremium)
	assertMoney(t, "378000", r.AnnualIncome)
	assertMoney(t, "314764.17", r.AnnualNet)
	assertMoney(t, "17.57", r.RetentionPercent)
}

func TestNetPay_SubsidyFlowsThrough(t *testing.T) {
	r, err := payroll.NetPay(payroll.NetPayInput{MonthlyGross: d("8000")}, tables2026())
	require.NoError(t, err)

	assert.True(t, r.Withholding.SubsidyApplied)
	assert.True(t, r.ISR.IsZero())
	assert.True(t, r.Net.Equal(d("7800")))
}

// =============================================================================
// VACATION
// =============================================================================

func TestVacation_ThreeYears(t *testing.T) {
	r, err := payroll.Vacation(payroll.VacationInput{TenureYears: 3, MonthlySalary: d("20000")}, tables2026())
	require.NoError(t, err)

	assert.Equal(t, 16, r.Days)
	assertMoney(t, "10666.67", r.Pay)
	assertMoney(t, "2666.67", r.Premium)
	assertMoney(t, "13333.33", r.Total)
	require.Len(t, r.Schedule, 10)
	assert.Equal(t, 22, r.Schedule[9].Days)
}

func TestVacation_LongTenureScheduleAndNoSalary(t *testing.T) {
	r, err := payroll.Vacation(payroll.VacationInput{TenureYears: 40}, tables2026())
	require.NoError(t, err)

	assert.Equal(t, 32, r.Days)
	assert.True(t, r.Total.IsZero())
	assert.Len(t, r.Schedule, 45)
}

func TestVacation_InsufficientInput(t *testing.T) {
	_, err := payroll.Vacation(payroll.VacationInput{TenureYears: 0, MonthlySalary: d("20000")}, tables2026())
	requireInsufficient(t, err, "tenure_years")

	_, err = payroll.Vacation(payroll.VacationInput{TenureYears: 1_000_000_000}, tables2026())
	requireInsufficient(t, err, "tenure_years")

	r, err := payroll.Vacation(payroll.VacationInput{TenureYears: payroll.MaxTenureYears}, tables2026())
	require.NoError(t, err)
	assert.Len(t, r.Schedule, payroll.MaxTenureYears+5)
}

// =============================================================================
// LOAN
// =============================================================================

func TestLoan_800k_20Years(t *testing.T) {
	in := payroll.LoanInput{Principal: d("800000"), AnnualRatePercent: d("10.45"), TermYears: 20}
	r, err := payroll.Loan(in, tables2026())
	require.NoError(t, err)

	assert.Equal(t, 240, r.Payments)
	assert.Equal(t, "7960.19", r.MonthlyPayment.StringFixed(2))
	assert.True(t, r.TotalPaid.Equal(r.MonthlyPayment.Mul(generic.Int(240))))
	assert.True(t, r.TotalPaid.Sub(r.Principal).Equal(r.TotalInterest))
	assertMoney(t, "1110445.14", r.TotalInterest)
	assertMoney(t, "138.81", r.InterestPercent)
	assert.Empty(t, r.Schedule)

	again, err := payroll.Loan(in, tables2026())
	require.NoError(t, err)
	assert.True(t, again.MonthlyPayment.Equal(r.MonthlyPayment), "deterministic")
}

func TestLoan_ZeroRate(t *testing.T) {
	r, err := payroll.Loan(payroll.LoanInput{Principal: d("120000"), TermYears: 10}, tables2026())
	require.NoError(t, err)

	assert.True(t, r.MonthlyPayment.Equal(d("1000")))
	assert.True(t, r.TotalInterest.IsZero())
}

func TestLoan_Schedule_PaysOffPrincipal(t *testing.T) {
	r, err := payroll.Loan(payroll.LoanInput{
		Principal: d("800000"), AnnualRatePercent: d("10.45"), TermYears: 20, WithSchedule: true,
	}, tables2026())
	require.NoError(t, err)
	require.Len(t, r.Schedule, 240)

	first := r.Schedule[0]
	assert.True(t, first.Interest.Equal(d("6966.67")))
	assert.True(t, first.Payment.Equal(d("7960.19")))
	assert.True(t, first.Principal.Equal(d("993.52")))

	paid := generic.D(0)
	for _, inst := range r.Schedule {
		paid = paid.Add(inst.Principal)
		assert.False(t, inst.Balance.IsNegative())
	}
	assert.True(t, paid.Equal(d("800000")))
	assert.True(t, r.Schedule[239].Balance.IsZero())
	assert.True(t, r.Schedule[239].Payment.Sub(first.Payment).Abs().LessThan(d("1")), "last payment absorbs only rounding")
}

func TestLoan_ExtremeRateAndTerm(t *testing.T) {
	// GIVEN: 1000% a year over the longest accepted term
	// WHEN: The growth factor (1+r)^1200 far exceeds the float64 range
	// THEN: The payment converges to principal * monthly rate, with no panic

	r, err := payroll.Loan(payroll.LoanInput{
		Principal: d("800000"), AnnualRatePercent: d("1000"), TermYears: payroll.MaxLoanTermYears, WithSchedule: true,
	}, tables2026())
	require.NoError(t, err)

	assert.Equal(t, 1200, r.Payments)
	assert.Equal(t, "666666.67", r.MonthlyPayment.StringFixed(2))
	require.Len(t, r.Schedule, 1200)
	assert.True(t, r.Schedule[1199].Balance.IsZero())
}

func TestLoan_InsufficientInput(t *testing.T) {
	_, err := payroll.Loan(payroll.LoanInput{TermYears: 20}, tables2026())
	requireInsufficient(t, err, "principal")

	_, err = payroll.Loan(payroll.LoanInput{Principal: d("1000")}, tables2026())
	requireInsufficient(t, err, "term_years")

	_, err = payroll.Loan(payroll.LoanInput{Principal: d("800000"), AnnualRatePercent: d("10"), TermYears: 10000}, tables2026())
	requireInsufficient(t, err, "term_years")

	_, err = payroll.Loan(payroll.LoanInput{Principal: d("800000"), AnnualRatePercent: decimal.New(1, 40), TermYears: 20}, tables2026())
	requireInsufficient(t, err, "annual_rate")
}

func TestDefaultLoanInput(t *testing.T) {
	ts := tables2026()
	in := payroll.DefaultLoanInput(payroll.LoanInput{Principal: d("800000")}, false, ts)
	assert.True(t, in.AnnualRatePercent.Equal(d("10.45")))
	assert.Equal(t, 20, in.TermYears)

	in = payroll.DefaultLoanInput(payroll.LoanInput{Principal: d("800000"), TermYears: 5}, true, ts)
	assert.True(t, in.AnnualRatePercent.IsZero())
	assert.Equal(t, 5, in.TermYears)
}

// =============================================================================
// PENSION
// =============================================================================

func TestPension_BelowMinimumWeeks(t *testing.T) {
	r, err := payroll.Pension(payroll.PensionInput{MonthlySalary: d("25000"), Age: 35, WeeksContributed: 520}, tables2026())
	require.NoError(t, err)

	assert.False(t, r.Eligible)
	assert.Equal(t, 305, r.MissingWeeks)
	assert.True(t, r.YearsContributed.Equal(d("10")))
	assert.True(t, r.MonthlyContribution.Equal(d("1625")))
	assert.True(t, r.EstimatedBalance.Equal(d("202800")))
	assert.Equal(t, 20, r.PayoutYears)
	assert.True(t, r.AccountPension.Equal(d("845")))
	assert.True(t, r.Pension.Equal(d("845")), "no floor without the minimum weeks")
}

func TestPension_EligibleGetsMinimumFloor(t *testing.T) {
	r, err := payroll.Pension(payroll.PensionInput{MonthlySalary: d("25000"), Age: 35, WeeksContributed: 1300}, tables2026())
	require.NoError(t, err)

	assert.True(t, r.Eligible)
	assert.Equal(t, 0, r.MissingWeeks)
	assert.True(t, r.AccountPension.Equal(d("2112.5")))
	assert.True(t, r.MinimumPension.Equal(d("9451.2")))
	assert.True(t, r.Pension.Equal(r.MinimumPension))
}

func TestPension_PastLifeExpectancy(t *testing.T) {
	r, err := payroll.Pension(payroll.PensionInput{MonthlySalary: d("25000"), Age: 90, WeeksContributed: 1300}, tables2026())
	require.NoError(t, err)

	assert.Equal(t, -5, r.PayoutYears)
	assert.True(t, r.AccountPension.IsZero())
	assert.True(t, r.Pension.Equal(r.MinimumPension))
}

func TestPension_InsufficientInput(t *testing.T) {
	_, err := payroll.Pension(payroll.PensionInput{MonthlySalary: d("25000")}, tables2026())
	requireInsufficient(t, err, "age")

	_, err = payroll.Pension(payroll.PensionInput{Age: 40}, tables2026())
	requireInsufficient(t, err, "monthly_salary")
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestCalculatorsRegistered(t *testing.T) {
	ids := make([]string, 0)
	for _, c := range generic.ListCalculators() {
		ids = append(ids, c.ID)
	}
	assert.Subset(t, ids, []string{
		payroll.CalcFiniquito, payroll.CalcLiquidacion, payroll.CalcAguinaldo, payroll.CalcISR,
		payroll.CalcResico, payroll.CalcPTU, payroll.CalcNetPay, payroll.CalcVacation,
		payroll.CalcLoan, payroll.CalcPension,
	})
}
