package generic_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milana/payroll-engine/generic"
)

func TestCalculatorRegistry_KeepsRegistrationOrder(t *testing.T) {
	generic.RegisterCalculator(generic.Descriptor{ID: "zz-test-b", Name: "B"})
	generic.RegisterCalculator(generic.Descriptor{ID: "zz-test-a", Name: "A"})
	generic.RegisterCalculator(generic.Descriptor{ID: "zz-test-b", Name: "B2"})

	var ids []string
	for _, c := range generic.ListCalculators() {
		ids = append(ids, c.ID)
	}
	assert.Subset(t, ids, []string{"zz-test-a", "zz-test-b"})

	posA, posB := -1, -1
	for i, id := range ids {
		switch id {
		case "zz-test-a":
			posA = i
		case "zz-test-b":
			posB = i
		}
	}
	assert.Less(t, posB, posA)

	got, ok := generic.LookupCalculator("zz-test-b")
	assert.True(t, ok)
	assert.Equal(t, "B2", got.Name)
}

func TestInsufficientInputError_Unwraps(t *testing.T) {
	err := generic.Insufficient("loan", "principal", "must be positive")

	assert.True(t, errors.Is(err, generic.ErrInsufficientInput))
	assert.True(t, generic.IsClientError(err))
	assert.False(t, generic.IsNotFound(err))
	assert.Contains(t, err.Error(), "principal")
}
