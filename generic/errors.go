/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Calculators and loaders wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors - the caller did not supply enough to calculate
  2. Table errors - a bracket/vacation table breaks its invariants
  3. Lookup errors - no statutory table set for the requested year

USAGE:
  result, err := payroll.Finiquito(in, tables)
  if errors.Is(err, generic.ErrInsufficientInput) {
      // prompt the user again instead of showing zeros
  }

SEE ALSO:
  - bracket.go: returns TableError from Validate
  - payroll/: returns InsufficientInputError
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInsufficientInput is returned when a primary input is missing or
	// non-positive, so no meaningful result can be produced.
	ErrInsufficientInput = errors.New("insufficient input")

	// ErrInvalidTable is returned when a configuration table breaks its invariants.
	ErrInvalidTable = errors.New("invalid table")

	// ErrTableSetNotFound is returned when no table set exists for a year.
	ErrTableSetNotFound = errors.New("table set not found")

	// ErrInvalidDate is returned when a date is not ISO 8601 (YYYY-MM-DD).
	ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

	// ErrUnknownCalculator is returned for an unregistered calculator ID.
	ErrUnknownCalculator = errors.New("unknown calculator")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientInputError names the calculator and the field that stopped it.
type InsufficientInputError struct {
	Calculator string
	Field      string
	Reason     string
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("%s: insufficient input: %s %s", e.Calculator, e.Field, e.Reason)
}

func (e *InsufficientInputError) Unwrap() error {
	return ErrInsufficientInput
}

// Insufficient builds an InsufficientInputError.
func Insufficient(calculator, field, reason string) error {
	return &InsufficientInputError{Calculator: calculator, Field: field, Reason: reason}
}

// TableError points at the row of a table that breaks an invariant.
// Index is -1 when the problem concerns the table as a whole.
type TableError struct {
	Table  string
	Index  int
	Reason string
}

func (e *TableError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid table %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("invalid table %s: row %d: %s", e.Table, e.Index, e.Reason)
}

func (e *TableError) Unwrap() error {
	return ErrInvalidTable
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientInput) ||
		errors.Is(err, ErrInvalidTable) ||
		errors.Is(err, ErrInvalidDate)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTableSetNotFound) ||
		errors.Is(err, ErrUnknownCalculator)
}
