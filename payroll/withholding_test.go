package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/payroll"
)

func TestWithholding_25000_UsesConfiguredBracket(t *testing.T) {
	// GIVEN: 25,000 monthly falls in the 17,533.65 - 35,362.83 row
	// THEN: ISR = (25000 - 17533.65) * 21.36% + 1856.84, no subsidy

	ts := tables2026()
	r, err := payroll.Withholding(payroll.WithholdingInput{MonthlyGross: d("25000")}, ts)
	require.NoError(t, err)

	row := ts.MonthlyISR.Brackets[5]
	expected := d("25000").Sub(row.Lower).Mul(row.RatePercent).Div(generic.Hundred).Add(row.FixedQuota)

	assert.True(t, r.ISR.Equal(expected), "got %s", r.ISR)
	assert.True(t, r.ISR.Equal(d("3451.65236")))
	assert.False(t, r.SubsidyApplied)
	assert.True(t, r.NetTax.Equal(r.ISR))
	assert.True(t, r.Resolution.RatePercent.Equal(d("21.36")))
	assert.True(t, r.Resolution.FixedQuota.Equal(d("1856.84")))
	assertMoney(t, "21548.35", r.NetPay)
	assertMoney(t, "13.81", r.EffectiveRatePercent)
	assertMoney(t, "41419.83", r.AnnualTax)
}

func TestWithholding_SubsidyOffsetsLowIncome(t *testing.T) {
	ts := tables2026()

	// 8,000: ISR 511.42 is wiped out by the 536.22 subsidy
	r, err := payroll.Withholding(payroll.WithholdingInput{MonthlyGross: d("8000")}, ts)
	require.NoError(t, err)
	assert.True(t, r.SubsidyApplied)
	assertMoney(t, "511.42", r.ISR)
	assert.True(t, r.NetTax.IsZero(), "never negative")

	// 10,000: still under 117.31 * 3 * 30.4 = 10,698.67
	r, err = payroll.Withholding(payroll.WithholdingInput{MonthlyGross: d("10000")}, ts)
	require.NoError(t, err)
	assert.True(t, r.SubsidyApplied)
	assertMoney(t, "192.80", r.NetTax)

	// 11,000: above the threshold
	r, err = payroll.Withholding(payroll.WithholdingInput{MonthlyGross: d("11000")}, ts)
	require.NoError(t, err)
	assert.False(t, r.SubsidyApplied)
	assert.True(t, r.NetTax.Equal(r.ISR))
}

func TestWithholding_MonotonicAboveSubsidyThreshold(t *testing.T) {
	ts := tables2026()
	prev := generic.D(0)
	for gross := 10700; gross <= 500000; gross += 250 {
		r, err := payroll.Withholding(payroll.WithholdingInput{MonthlyGross: generic.Int(gross)}, ts)
		require.NoError(t, err)
		assert.True(t, r.NetTax.GreaterThanOrEqual(prev), "gross %d", gross)
		prev = r.NetTax
	}
}

func TestWithholding_NonPositiveGross_IsInsufficient(t *testing.T) {
	_, err := payroll.Withholding(payroll.WithholdingInput{MonthlyGross: d("0")}, tables2026())
	requireInsufficient(t, err, "monthly_salary")
}

func TestWithholding_Lines(t *testing.T) {
	r, err := payroll.Withholding(payroll.WithholdingInput{MonthlyGross: d("9000")}, tables2026())
	require.NoError(t, err)

	subsidy := line(t, r, "employment_subsidy")
	assert.True(t, subsidy.Amount.Equal(d("-536.22")))
	assert.True(t, line(t, r, "tax_withheld").Amount.Equal(r.NetTax))
}
