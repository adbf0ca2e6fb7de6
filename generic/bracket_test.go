package generic_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milana/payroll-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want, got decimal.Decimal, tolerance string) {
	t.Helper()
	diff := want.Sub(got).Abs()
	assert.True(t, diff.LessThanOrEqual(d(tolerance)), "want %s, got %s (tolerance %s)", want, got, tolerance)
}

func row(lower, upper, quota, rate string) generic.Bracket {
	b := generic.Bracket{Lower: d(lower), FixedQuota: d(quota), RatePercent: d(rate)}
	if upper == "" {
		b.Unbounded = true
	} else {
		b.Upper = d(upper)
	}
	return b
}

// First four rows of the 2026 monthly withholding table plus an open top row.
func progressiveTable() generic.BracketTable {
	return generic.BracketTable{
		Name: "monthly",
		Mode: generic.ModeProgressive,
		Brackets: []generic.Bracket{
			row("0.01", "844.59", "0", "1.92"),
			row("844.60", "7168.51", "16.22", "6.40"),
			row("7168.52", "12598.02", "420.95", "10.88"),
			row("12598.03", "", "1011.68", "16.00"),
		},
	}
}

func flatTable() generic.BracketTable {
	return generic.BracketTable{
		Name: "resico",
		Mode: generic.ModeFlat,
		Brackets: []generic.Bracket{
			row("0.01", "25000.00", "0", "1.00"),
			row("25000.01", "50000.00", "0", "1.10"),
			row("50000.01", "83333.33", "0", "1.50"),
		},
		FallbackRatePercent: d("2.5"),
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestBracketTable_Validate_WellFormed(t *testing.T) {
	require.NoError(t, progressiveTable().Validate())
	require.NoError(t, flatTable().Validate())
}

func TestBracketTable_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*generic.BracketTable)
	}{
		{"empty", func(tb *generic.BracketTable) { tb.Brackets = nil }},
		{"gap", func(tb *generic.BracketTable) { tb.Brackets[1].Lower = d("900.00") }},
		{"overlap", func(tb *generic.BracketTable) { tb.Brackets[1].Lower = d("800.00") }},
		{"unbounded in the middle", func(tb *generic.BracketTable) { tb.Brackets[1].Unbounded = true }},
		{"bounded top", func(tb *generic.BracketTable) {
			tb.Brackets[3].Unbounded = false
			tb.Brackets[3].Upper = d("20000")
		}},
		{"negative rate", func(tb *generic.BracketTable) { tb.Brackets[2].RatePercent = d("-1") }},
		{"unknown mode", func(tb *generic.BracketTable) { tb.Mode = "stepped" }},
		{"huge exponent", func(tb *generic.BracketTable) { tb.Brackets[2].Lower = decimal.New(1, 50000000) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := progressiveTable()
			tt.mutate(&tb)
			err := tb.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, generic.ErrInvalidTable))

			var tableErr *generic.TableError
			require.True(t, errors.As(err, &tableErr))
			assert.Equal(t, "monthly", tableErr.Table)
		})
	}
}

func TestBracketTable_Validate_FlatTopMustBeFinite(t *testing.T) {
	tb := flatTable()
	tb.Brackets[2].Unbounded = true
	assert.ErrorIs(t, tb.Validate(), generic.ErrInvalidTable)
}

// =============================================================================
// PROGRESSIVE RESOLUTION TESTS
// =============================================================================

func TestResolve_Progressive_MarginalFormula(t *testing.T) {
	// GIVEN: Income of 10,000 falls in the 7168.52-12598.02 row
	// WHEN: Resolving against the progressive table
	// THEN: Tax = (10000 - 7168.52) * 10.88% + 420.95

	res := generic.Resolve(d("10000"), progressiveTable())

	require.True(t, res.Matched())
	assert.Equal(t, 2, res.Index)
	assert.True(t, res.RatePercent.Equal(d("10.88")))
	assert.True(t, res.FixedQuota.Equal(d("420.95")))
	assert.True(t, res.Excess.Equal(d("2831.48")))
	assert.True(t, res.Tax.Equal(d("729.015024")), "got %s", res.Tax)
}

func TestResolve_NonPositiveIncome_NoBracket(t *testing.T) {
	for _, income := range []string{"0", "-1500"} {
		res := generic.Resolve(d(income), progressiveTable())
		assert.False(t, res.Matched())
		assert.Equal(t, -1, res.Index)
		assert.True(t, res.Tax.IsZero())
	}
}

func TestResolve_ExactBoundaries(t *testing.T) {
	tb := progressiveTable()

	upper := generic.Resolve(d("844.59"), tb)
	assert.Equal(t, 0, upper.Index)

	lower := generic.Resolve(d("844.60"), tb)
	assert.Equal(t, 1, lower.Index)
	assert.True(t, lower.Tax.Equal(d("16.22")))
}

func TestResolve_SubCentStep_ResolvesToLowerRow(t *testing.T) {
	// GIVEN: 844.595 is between the published 844.59 and 844.60
	// THEN: It resolves to the first row instead of matching nothing

	res := generic.Resolve(d("844.595"), progressiveTable())
	require.True(t, res.Matched())
	assert.Equal(t, 0, res.Index)
}

func TestResolve_BelowFirstLowerBound_UsesFirstRow(t *testing.T) {
	res := generic.Resolve(d("0.005"), progressiveTable())
	require.True(t, res.Matched())
	assert.Equal(t, 0, res.Index)
	assert.False(t, res.Tax.IsNegative())
}

func TestResolve_ExactlyOneBracketForPositiveIncome(t *testing.T) {
	tb := progressiveTable()
	for _, income := range []string{"0.01", "1", "500", "844.59", "844.6", "5000", "7168.515", "12598.03", "1000000"} {
		idx, ok := tb.Find(d(income))
		require.True(t, ok, income)

		matches := 0
		for i, b := range tb.Brackets {
			if b.Contains(d(income)) {
				matches++
				assert.Equal(t, i, idx, income)
			}
		}
		assert.LessOrEqual(t, matches, 1, income)
	}
}

func TestResolve_ContinuityAtBoundaries(t *testing.T) {
	// GIVEN: Each published row's fixed quota approximates the tax at its lower bound
	// THEN: The step between consecutive rows stays within a few cents

	tb := progressiveTable()
	for i := 1; i < len(tb.Brackets); i++ {
		below := generic.Resolve(tb.Brackets[i-1].Upper, tb)
		at := generic.Resolve(tb.Brackets[i].Lower, tb)
		assertDecimal(t, below.Tax, at.Tax, "0.05")
	}
}

func TestResolve_MonotonicInIncome(t *testing.T) {
	tb := progressiveTable()
	prev := decimal.Zero
	for income := 100; income <= 30000; income += 100 {
		res := generic.Resolve(generic.Int(income), tb)
		assert.True(t, res.Tax.GreaterThanOrEqual(prev), "income %d", income)
		prev = res.Tax
	}
}

// =============================================================================
// FLAT RESOLUTION TESTS
// =============================================================================

func TestResolve_Flat_AppliesRateToFullIncome(t *testing.T) {
	res := generic.Resolve(d("40000"), flatTable())

	require.True(t, res.Matched())
	assert.Equal(t, 1, res.Index)
	assert.True(t, res.Tax.Equal(d("440")))
	assert.True(t, res.FixedQuota.IsZero())
	assert.True(t, res.Excess.IsZero())
}

func TestResolve_Flat_AboveLastBand_UsesFallbackRate(t *testing.T) {
	res := generic.Resolve(d("100000"), flatTable())

	assert.False(t, res.Matched())
	assert.True(t, res.Fallback)
	assert.True(t, res.RatePercent.Equal(d("2.5")))
	assert.True(t, res.Tax.Equal(d("2500")))
}

func TestResolve_Flat_WithinSubCentStepOfLastBand(t *testing.T) {
	res := generic.Resolve(d("83333.335"), flatTable())
	assert.True(t, res.Fallback)

	res = generic.Resolve(d("83333.33"), flatTable())
	assert.False(t, res.Fallback)
	assert.Equal(t, 2, res.Index)
}
