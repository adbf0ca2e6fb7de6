package generic

import (
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - A calendar date (day granularity, UTC)
// =============================================================================

const DateLayout = "2006-01-02"

// MinYear is the earliest year a parsed date may carry. Year 1 is the zero
// TimePoint, which callers read as "not provided".
const MinYear = 1900

// TimePoint is a calendar date. Time-of-day is always midnight UTC so that
// day arithmetic never depends on the process time zone.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar date.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO 8601 date (YYYY-MM-DD). Empty or malformed text,
// and years before MinYear, report ok=false.
func ParseDate(s string) (TimePoint, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimePoint{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Year() < MinYear {
		return TimePoint{}, false
	}
	return FromTime(t), true
}

// MustParseDate panics on malformed input. Use in tests and fixtures only.
func MustParseDate(s string) TimePoint {
	tp, ok := ParseDate(s)
	if !ok {
		panic("invalid date: " + s)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool  { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool  { return tp.Time.After(other.Time) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint  { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddYears(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(n, 0, 0)} }

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(DateLayout)
}

func (tp TimePoint) MarshalText() ([]byte, error) { return []byte(tp.String()), nil }

func (tp *TimePoint) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*tp = TimePoint{}
		return nil
	}
	parsed, ok := ParseDate(string(b))
	if !ok {
		return ErrInvalidDate
	}
	*tp = parsed
	return nil
}

// Later returns whichever of a and b is later.
func Later(a, b TimePoint) TimePoint {
	if a.After(b) {
		return a
	}
	return b
}

// Earlier returns whichever of a and b is earlier.
func Earlier(a, b TimePoint) TimePoint {
	if a.Before(b) {
		return a
	}
	return b
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// DaysBetween returns the number of calendar days from `from` to `to`.
// The result is negative when `to` precedes `from`. Unix seconds keep spans
// longer than a time.Duration exact.
func DaysBetween(from, to TimePoint) int {
	return int((to.Time.Unix() - from.Time.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func StartOfYear(year int) TimePoint { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint   { return NewTimePoint(year, time.December, 31) }
