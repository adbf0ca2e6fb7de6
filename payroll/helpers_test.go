package payroll_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milana/payroll-engine/factory"
	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func tables2026() *statutory.TableSet {
	return factory.MustDefault(2026)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) generic.TimePoint { return generic.MustParseDate(s) }

// assertMoney compares to the cent. Calculators divide by 30 and 365, so
// exact decimal equality is not expected.
func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	diff := d(want).Sub(got).Abs()
	assert.True(t, diff.LessThanOrEqual(d("0.01")), append([]interface{}{"want %s, got %s", want, got.StringFixed(6)}, msgAndArgs...)...)
}

func requireInsufficient(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, generic.ErrInsufficientInput), "got %v", err)

	var inputErr *generic.InsufficientInputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, field, inputErr.Field)
}

func line(t *testing.T, r interface{ Lines() []generic.LineItem }, key string) generic.LineItem {
	t.Helper()
	l, ok := generic.FindLine(r.Lines(), key)
	require.True(t, ok, "line %q missing", key)
	return l
}
