package statutory

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/milana/payroll-engine/generic"
)

// =============================================================================
// VACATION TABLE - Tenure year -> statutory vacation days
// =============================================================================

// VacationTier grants Days to every tenure year from FromYear until the next
// tier starts. Tiers must start at year 1 and be listed in ascending order.
//
// Example (2023 reform):
//
//	{FromYear: 1, Days: 12}, {FromYear: 2, Days: 14}, ... {FromYear: 6, Days: 22},
//	{FromYear: 11, Days: 24}, ... {FromYear: 31, Days: 32}
type VacationTier struct {
	FromYear int
	Days     int
}

// VacationTable is the expanded, immutable lookup. Tenure beyond the defined
// range saturates at the last value.
type VacationTable struct {
	tiers []VacationTier
	days  []int // days[i] is the entitlement for tenure year i+1
}

// VacationEntry is one row of a listing.
type VacationEntry struct {
	Year int
	Days int
}

// NewVacationTable expands tiers through throughYear. throughYear must reach
// at least the start of the last tier.
// MaxVacationYears bounds the tenure range a vacation table may cover.
const MaxVacationYears = 100

func NewVacationTable(tiers []VacationTier, throughYear int) (VacationTable, error) {
	if len(tiers) == 0 {
		return VacationTable{}, &generic.TableError{Table: "vacation", Index: -1, Reason: "no tiers"}
	}
	if tiers[0].FromYear != 1 {
		return VacationTable{}, &generic.TableError{Table: "vacation", Index: 0, Reason: "first tier must start at year 1"}
	}
	for i, tier := range tiers {
		if tier.Days <= 0 {
			return VacationTable{}, &generic.TableError{Table: "vacation", Index: i, Reason: "days must be positive"}
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if tier.FromYear <= prev.FromYear {
			return VacationTable{}, &generic.TableError{Table: "vacation", Index: i, Reason: fmt.Sprintf("year %d does not follow %d", tier.FromYear, prev.FromYear)}
		}
		if tier.Days < prev.Days {
			return VacationTable{}, &generic.TableError{Table: "vacation", Index: i, Reason: "days must be non-decreasing"}
		}
	}
	last := tiers[len(tiers)-1]
	if throughYear > MaxVacationYears {
		return VacationTable{}, &generic.TableError{Table: "vacation", Index: -1, Reason: fmt.Sprintf("range ends at year %d, past the %d-year limit", throughYear, MaxVacationYears)}
	}
	if throughYear < last.FromYear {
		return VacationTable{}, &generic.TableError{Table: "vacation", Index: -1, Reason: fmt.Sprintf("range ends at year %d before the last tier starts (%d)", throughYear, last.FromYear)}
	}

	days := make([]int, throughYear)
	tier := 0
	for year := 1; year <= throughYear; year++ {
		for tier+1 < len(tiers) && tiers[tier+1].FromYear <= year {
			tier++
		}
		days[year-1] = tiers[tier].Days
	}
	return VacationTable{tiers: append([]VacationTier(nil), tiers...), days: days}, nil
}

// MustVacationTable panics on invalid tiers. Use in tests and fixtures only.
func MustVacationTable(tiers []VacationTier, throughYear int) VacationTable {
	t, err := NewVacationTable(tiers, throughYear)
	if err != nil {
		panic(err)
	}
	return t
}

// DaysFor returns the vacation days for the given tenure year:
// 0 below year 1, direct lookup inside the range, the maximum beyond it.
func (t VacationTable) DaysFor(tenureYear int) int {
	if tenureYear < 1 || len(t.days) == 0 {
		return 0
	}
	if tenureYear > len(t.days) {
		return t.days[len(t.days)-1]
	}
	return t.days[tenureYear-1]
}

// Len is the number of tenure years the table defines.
func (t VacationTable) Len() int { return len(t.days) }

// Max is the saturating value.
func (t VacationTable) Max() int { return t.DaysFor(len(t.days)) }

// Tiers returns a copy of the tier definition.
func (t VacationTable) Tiers() []VacationTier {
	return append([]VacationTier(nil), t.tiers...)
}

// Schedule lists the entitlement for tenure years from..to inclusive.
func (t VacationTable) Schedule(from, to int) []VacationEntry {
	if from < 1 {
		from = 1
	}
	if to < from {
		return nil
	}
	return lo.Map(lo.RangeFrom(from, to-from+1), func(year int, _ int) VacationEntry {
		return VacationEntry{Year: year, Days: t.DaysFor(year)}
	})
}
