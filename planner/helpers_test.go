package planner_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(iso string) calendar.Day {
	return calendar.MustParseDay(iso)
}

func hours(v float64) decimal.Decimal {
	return planner.H(v)
}

func assertHours(t *testing.T, want float64, got decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	if got.Equal(planner.H(want)) {
		return true
	}
	return assert.Fail(t, "hours differ: expected "+planner.H(want).String()+", got "+got.String(), msgAndArgs...)
}

func work(id, iso string, h float64, status planner.EntryStatus) planner.WorkEntry {
	return planner.WorkEntry{
		ID:        id,
		UserID:    "user-1",
		WorkDate:  day(iso),
		Hours:     hours(h),
		Status:    status,
		ShiftType: planner.ShiftDay,
	}
}

func leave(id, iso string, h float64, lt planner.LeaveType) planner.LeaveEntry {
	return planner.LeaveEntry{
		ID:        id,
		UserID:    "user-1",
		LeaveDate: day(iso),
		Hours:     hours(h),
		LeaveType: lt,
	}
}

func closure(id, start, end string, canWork bool) planner.Closure {
	return planner.Closure{
		ID:        id,
		UserID:    "user-1",
		StartDate: day(start),
		EndDate:   day(end),
		Reason:    "closed",
		CanWork:   canWork,
	}
}

func pointAt(t *testing.T, series []planner.BalancePoint, iso string) planner.BalancePoint {
	t.Helper()
	for _, p := range series {
		if p.ISO == iso {
			return p
		}
	}
	t.Fatalf("no point for %s", iso)
	return planner.BalancePoint{}
}

// fixedHolidays serves a static list regardless of year.
type fixedHolidays []calendar.Holiday

func (f fixedHolidays) Holidays(int) []calendar.Holiday { return f }
