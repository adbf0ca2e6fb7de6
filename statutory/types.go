/*
Package statutory holds the versioned statutory configuration the payroll
calculators consume.

PURPOSE:
  Tax brackets, flat-rate bands, the vacation tier table and the named
  constants (minimum wage, reference daily unit, subsidy, defaults) change
  every statutory year. They are data, not code: a TableSet bundles one
  year's values and is passed explicitly to every calculation.

KEY CONCEPTS:
  TableSet:  one statutory year's tables and constants, immutable once built
  Registry:  the process-wide set of TableSets with an atomically swapped
             snapshot, so reloads never expose a partial update
  Store:     persistence of the source documents the TableSets are built from

LIFECYCLE:
  1. factory parses a YAML/JSON document into a TableSet
  2. TableSet.Validate() checks every table and constant
  3. Registry.Put / Registry.Replace publish it
  4. Calculators read Registry.Current() (or ForYear) once per call

SEE ALSO:
  - factory/tables.go: document <-> TableSet conversion
  - payroll/: calculators taking *TableSet
*/
package statutory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milana/payroll-engine/generic"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Constants are the named statutory values for one year. Percentages are
// expressed as percent (16 means 16%).
type Constants struct {
	MinimumWage       decimal.Decimal // general zone, daily
	MinimumWageBorder decimal.Decimal // northern border zone, daily
	UMADaily          decimal.Decimal
	UMAMonthly        decimal.Decimal
	UMAAnnual         decimal.Decimal

	EmploymentSubsidy    decimal.Decimal // monthly credit
	SubsidyThresholdUMAs decimal.Decimal
	SubsidyMonthDays     decimal.Decimal

	LoanRatePercent decimal.Decimal
	LoanTermYears   int

	VATRatePercent          decimal.Decimal
	IMSSEmployeeRatePercent decimal.Decimal
	WorkHoursPerMonth       decimal.Decimal

	AforeContributionPercent decimal.Decimal
	AforeYieldPercent        decimal.Decimal
	PensionMinWeeks          int
	PensionRetirementAge     int
	PensionLifeExpectancy    int

	PTUPoolPercent      decimal.Decimal
	PTUCapMonths        decimal.Decimal
	PTUExemptUMAs       decimal.Decimal
	AguinaldoDays       int
	AguinaldoExemptUMAs decimal.Decimal

	VacationPremiumPercent      decimal.Decimal
	SeniorityDaysPerYear        decimal.Decimal
	SeniorityCapUMAs            decimal.Decimal
	SeniorityMinYears           int
	ConstitutionalIndemnityDays decimal.Decimal
	IndemnityDaysPerYear        decimal.Decimal
}

// Validate requires every amount and count to be positive. Rates may be zero
// (a zero loan rate is a valid degenerate configuration).
func (c Constants) Validate() error {
	type named struct {
		name  string
		value decimal.Decimal
	}
	positive := []named{
		{"minimum_wage", c.MinimumWage},
		{"minimum_wage_border", c.MinimumWageBorder},
		{"uma_daily", c.UMADaily},
		{"uma_monthly", c.UMAMonthly},
		{"uma_annual", c.UMAAnnual},
		{"employment_subsidy", c.EmploymentSubsidy},
		{"subsidy_threshold_umas", c.SubsidyThresholdUMAs},
		{"subsidy_month_days", c.SubsidyMonthDays},
		{"work_hours_per_month", c.WorkHoursPerMonth},
		{"ptu_cap_months", c.PTUCapMonths},
		{"ptu_exempt_umas", c.PTUExemptUMAs},
		{"aguinaldo_exempt_umas", c.AguinaldoExemptUMAs},
		{"seniority_days_per_year", c.SeniorityDaysPerYear},
		{"seniority_cap_umas", c.SeniorityCapUMAs},
		{"constitutional_indemnity_days", c.ConstitutionalIndemnityDays},
		{"indemnity_days_per_year", c.IndemnityDaysPerYear},
	}
	for _, n := range positive {
		if !generic.InRange(n.value) {
			return &generic.TableError{Table: "constants", Index: -1, Reason: n.name + " out of range"}
		}
		if !n.value.IsPositive() {
			return &generic.TableError{Table: "constants", Index: -1, Reason: n.name + " must be positive"}
		}
	}
	rates := []named{
		{"loan_rate_percent", c.LoanRatePercent},
		{"vat_rate_percent", c.VATRatePercent},
		{"imss_employee_rate_percent", c.IMSSEmployeeRatePercent},
		{"afore_contribution_percent", c.AforeContributionPercent},
		{"afore_yield_percent", c.AforeYieldPercent},
		{"ptu_pool_percent", c.PTUPoolPercent},
		{"vacation_premium_percent", c.VacationPremiumPercent},
	}
	for _, n := range rates {
		if !generic.InRange(n.value) {
			return &generic.TableError{Table: "constants", Index: -1, Reason: n.name + " out of range"}
		}
		if n.value.IsNegative() {
			return &generic.TableError{Table: "constants", Index: -1, Reason: n.name + " must not be negative"}
		}
	}
	counts := []struct {
		name  string
		value int
	}{
		{"loan_term_years", c.LoanTermYears},
		{"pension_min_weeks", c.PensionMinWeeks},
		{"pension_retirement_age", c.PensionRetirementAge},
		{"pension_life_expectancy", c.PensionLifeExpectancy},
		{"aguinaldo_days", c.AguinaldoDays},
		{"seniority_min_years", c.SeniorityMinYears},
	}
	for _, n := range counts {
		if n.value <= 0 {
			return &generic.TableError{Table: "constants", Index: -1, Reason: n.name + " must be positive"}
		}
	}
	return nil
}

// =============================================================================
// TABLE SET
// =============================================================================

// TableSet is one statutory year's configuration. It is never mutated after
// validation; a new year or a correction produces a new TableSet.
type TableSet struct {
	Year       int
	Name       string
	Source     string
	MonthlyISR generic.BracketTable
	AnnualISR  generic.BracketTable
	Resico     generic.BracketTable
	Vacation   VacationTable
	Constants  Constants
}

// Validate checks every table and constant.
func (ts *TableSet) Validate() error {
	if ts.Year <= 0 {
		return &generic.TableError{Table: "table_set", Index: -1, Reason: fmt.Sprintf("invalid year %d", ts.Year)}
	}
	if ts.MonthlyISR.Mode != generic.ModeProgressive || ts.AnnualISR.Mode != generic.ModeProgressive {
		return &generic.TableError{Table: "table_set", Index: -1, Reason: "withholding tables must be progressive"}
	}
	if ts.Resico.Mode != generic.ModeFlat {
		return &generic.TableError{Table: "table_set", Index: -1, Reason: "resico table must be flat"}
	}
	for _, t := range []generic.BracketTable{ts.MonthlyISR, ts.AnnualISR, ts.Resico} {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("table set %d: %w", ts.Year, err)
		}
	}
	if ts.Vacation.Len() == 0 {
		return &generic.TableError{Table: "vacation", Index: -1, Reason: "empty"}
	}
	if err := ts.Constants.Validate(); err != nil {
		return fmt.Errorf("table set %d: %w", ts.Year, err)
	}
	return nil
}

// SubsidyThreshold is the monthly gross at or below which the employment
// subsidy applies: UMA daily * threshold UMAs * month days.
func (ts *TableSet) SubsidyThreshold() decimal.Decimal {
	c := ts.Constants
	return c.UMADaily.Mul(c.SubsidyThresholdUMAs).Mul(c.SubsidyMonthDays)
}

// SeniorityDailyCap is the daily wage ceiling for the seniority premium.
func (ts *TableSet) SeniorityDailyCap() decimal.Decimal {
	return ts.Constants.UMADaily.Mul(ts.Constants.SeniorityCapUMAs)
}

// AguinaldoExemption is the exempt portion of the year-end bonus.
func (ts *TableSet) AguinaldoExemption() decimal.Decimal {
	return ts.Constants.UMADaily.Mul(ts.Constants.AguinaldoExemptUMAs)
}

// PTUExemption is the exempt portion of a profit-sharing payment.
func (ts *TableSet) PTUExemption() decimal.Decimal {
	return ts.Constants.UMADaily.Mul(ts.Constants.PTUExemptUMAs)
}

// MinimumPension is the guaranteed monthly floor: minimum wage * 30.
func (ts *TableSet) MinimumPension() decimal.Decimal {
	return ts.Constants.MinimumWage.Mul(generic.DaysPerMonth)
}
