package calendar

import "time"

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is the inclusive range [Start, End].
//
// Closures and vacations are stored as periods; the balance series walks the
// period of one calendar year. A period whose End is before its Start is
// empty, not an error.
type Period struct {
	Start Day
	End   Day
}

// NewPeriod returns [start, end].
func NewPeriod(start, end Day) Period {
	return Period{Start: start, End: end}
}

// YearPeriod returns Jan 1 - Dec 31 of year.
func YearPeriod(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// MonthPeriod returns the first through last day of a month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// IsEmpty reports whether the period contains no days.
func (p Period) IsEmpty() bool {
	return p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start)
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Day) bool {
	if p.IsEmpty() {
		return false
	}
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every day in the period in ascending order.
func (p Period) Days() []Day {
	if p.IsEmpty() {
		return nil
	}
	days := make([]Day, 0, p.Len())
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Len returns the number of days in the period.
func (p Period) Len() int {
	if p.IsEmpty() {
		return 0
	}
	return p.End.DaysSince(p.Start) + 1
}

// Years returns the distinct calendar years the period touches.
func (p Period) Years() []int {
	if p.IsEmpty() {
		return nil
	}
	var years []int
	for y := p.Start.Year(); y <= p.End.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// Intersect returns the overlap of two periods (possibly empty).
func (p Period) Intersect(other Period) Period {
	start, end := p.Start, p.End
	if other.Start.After(start) {
		start = other.Start
	}
	if other.End.Before(end) {
		end = other.End
	}
	return Period{Start: start, End: end}
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// MONTH GRID - Cells of a Monday-first month view
// =============================================================================

// Cell is one square of a month grid.
type Cell struct {
	Day     Day
	InMonth bool
}

// MonthGrid returns the leading days of the previous month needed to start
// the grid on a Monday, followed by every day of the month.
func MonthGrid(year int, month time.Month) []Cell {
	first := StartOfMonth(year, month)
	lead := first.WeekdayIndex()
	total := DaysInMonth(year, month)

	cells := make([]Cell, 0, lead+total)
	for i := lead; i > 0; i-- {
		cells = append(cells, Cell{Day: first.AddDays(-i)})
	}
	for d := 0; d < total; d++ {
		cells = append(cells, Cell{Day: first.AddDays(d), InMonth: true})
	}
	return cells
}
