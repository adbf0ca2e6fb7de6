package generic

import "github.com/shopspring/decimal"

// =============================================================================
// PRORATION PERIOD - Elapsed days and year fraction between two dates
// =============================================================================

// ProrationPeriod is a pair of calendar dates. ElapsedDays counts End - Start;
// the start day itself is not counted. No ordering is enforced here: a period
// whose End precedes Start yields negative results and callers decide what to
// do with them.
//
// Examples:
//   - Tenure: hire date to exit date
//   - Calendar-year share: max(hire, Jan 1) to exit date
type ProrationPeriod struct {
	Start TimePoint
	End   TimePoint
}

// ElapsedDays returns End - Start in calendar days.
func (p ProrationPeriod) ElapsedDays() int {
	return DaysBetween(p.Start, p.End)
}

// YearFraction returns ElapsedDays / 365.
func (p ProrationPeriod) YearFraction() decimal.Decimal {
	return Int(p.ElapsedDays()).Div(DaysPerYear)
}

// CompletedYears returns floor(ElapsedDays / 365).
func (p ProrationPeriod) CompletedYears() int {
	days := p.ElapsedDays()
	years := days / 365
	if days < 0 && days%365 != 0 {
		years--
	}
	return years
}

// IsOrdered reports whether End is not before Start.
func (p ProrationPeriod) IsOrdered() bool {
	return !p.End.Before(p.Start)
}

// String returns a string representation of the period.
func (p ProrationPeriod) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// CalendarYearPeriod returns the part of the exit date's calendar year the
// employee was on payroll: from the later of hire date and January 1st,
// through the exit date.
func CalendarYearPeriod(hire, exit TimePoint) ProrationPeriod {
	return ProrationPeriod{
		Start: Later(hire, StartOfYear(exit.Year())),
		End:   exit,
	}
}
