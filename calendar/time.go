/*
Package calendar provides the date primitives the balance engine is built on.

PURPOSE:
  Every fact in the planner is keyed by a calendar date: a work entry on
  2026-03-10, a closure from 2026-12-24 to 2026-12-31, a holiday on
  2026-04-27. This package gives those dates a single representation and
  the handful of operations the engine needs.

KEY CONCEPTS IN THIS FILE (time.go):
  - Day: A civil date (year, month, day) with no time zone attached
  - ISO keys: "YYYY-MM-DD" strings used as map keys throughout the engine
  - Weekday index: Monday=0 .. Sunday=6 (NOT time.Weekday, where Sunday=0)

TIME ZONES:
  A Day is built from the calendar fields of whatever time.Time it is given
  (t.Year(), t.Month(), t.Day()). It is never converted to UTC first, so a
  local 00:30 on March 10 stays March 10. Internally the value is pinned to
  UTC midnight so that arithmetic never crosses a DST boundary.

USAGE:
  d := calendar.NewDay(2026, time.January, 2)
  d.String()       // "2026-01-02"
  d.WeekdayIndex() // 4 (Friday)

SEE ALSO:
  - period.go: Inclusive date ranges
  - holidays.go: Public holiday providers
*/
package calendar

import (
	"fmt"
	"time"
)

// ISOLayout is the layout of every date key in the engine.
const ISOLayout = "2006-01-02"

// =============================================================================
// DAY - Civil date
// =============================================================================

// Day is a calendar date without a time of day or location.
// The zero value is not a valid date; check with IsZero.
type Day struct {
	t time.Time
}

// NewDay builds a Day. Out-of-range values normalize the way time.Date does
// (NewDay(2026, time.January, 32) is February 1).
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the Day that t falls on in t's own location.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// Today returns the current local date.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses an ISO "YYYY-MM-DD" date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return Day{t: t}, nil
}

// MustParseDay is ParseDay for literals in tests and presets.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Properties
func (d Day) Year() int             { return d.t.Year() }
func (d Day) Month() time.Month     { return d.t.Month() }
func (d Day) DayOfMonth() int       { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) IsZero() bool          { return d.t.IsZero() }
func (d Day) Time() time.Time       { return d.t }

// WeekdayIndex returns 0 for Monday through 6 for Sunday.
func (d Day) WeekdayIndex() int { return WeekdayIndex(d.t) }

// IsWeekend reports Saturday or Sunday.
func (d Day) IsWeekend() bool { return d.WeekdayIndex() >= 5 }

// MonthKey returns "YYYY-MM".
func (d Day) MonthKey() string { return d.t.Format("2006-01") }

// String returns the ISO key.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// Comparison
func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.t.After(other.t) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.t.Before(other.t) }

// Arithmetic
func (d Day) AddDays(n int) Day   { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{t: d.t.AddDate(0, n, 0)} }
func (d Day) AddYears(n int) Day  { return Day{t: d.t.AddDate(n, 0, 0)} }

// DaysSince returns the number of days from other to d (negative when d is
// before other).
func (d Day) DaysSince(other Day) int {
	return int(d.t.Sub(other.t).Hours() / 24)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty string yields
// the zero Day.
func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// FormatLocalDate formats t as "YYYY-MM-DD" using t's own calendar fields.
func FormatLocalDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// WeekdayIndex maps time.Weekday onto Monday=0 .. Sunday=6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday index (Monday=0) of the 1st.
func FirstWeekdayOfMonth(year int, month time.Month) int {
	return NewDay(year, month, 1).WeekdayIndex()
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	return NewDay(year, time.December, 31).t.YearDay()
}

func StartOfYear(year int) Day                    { return NewDay(year, time.January, 1) }
func EndOfYear(year int) Day                      { return NewDay(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) Day { return NewDay(year, month, 1) }

func EndOfMonth(year int, month time.Month) Day {
	return NewDay(year, month, DaysInMonth(year, month))
}
