package planner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
	"github.com/warp/hours-engine/planner/store"
)

// =============================================================================
// SNAPSHOT LOADING
// =============================================================================

func TestLoadSnapshot_DefaultsForMissingSettings(t *testing.T) {
	// GIVEN: A user who never saved profile, year settings or leave balances
	// WHEN: Loading a snapshot
	// THEN: Contract 20h/week, carryover 0, no entitlement

	ctx := context.Background()
	mem := store.NewMemory()

	snap, err := planner.LoadSnapshot(ctx, mem, "new-user", 2026)
	require.NoError(t, err)

	assertHours(t, 20, snap.Profile.ContractHoursWeek)
	assertHours(t, 0, snap.YearSettings.CarryoverHours)
	assert.Equal(t, 2026, snap.YearSettings.Year)
	assertHours(t, 0, snap.LeaveBalances.RegularHours)
	assert.Empty(t, snap.WorkEntries)
}

func TestLoadSnapshot_ReadsSavedRecords(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.SaveProfile(ctx, planner.ProfileSettings{UserID: "user-1", ContractHoursWeek: hours(32)}))
	require.NoError(t, mem.SaveYearSettings(ctx, planner.YearSettings{UserID: "user-1", Year: 2026, CarryoverHours: hours(12.5)}))
	require.NoError(t, mem.SaveWorkEntry(ctx, work("w1", "2026-01-02", 8, planner.StatusFinal)))

	snap, err := planner.LoadSnapshot(ctx, mem, "user-1", 2026)
	require.NoError(t, err)

	assertHours(t, 32, snap.Profile.ContractHoursWeek)
	assertHours(t, 12.5, snap.YearSettings.CarryoverHours)
	require.Len(t, snap.WorkEntries, 1)
}

type failingReader struct {
	planner.Reader
}

func (failingReader) WorkEntries(context.Context, string) ([]planner.WorkEntry, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadSnapshot_PropagatesStoreErrors(t *testing.T) {
	_, err := planner.LoadSnapshot(context.Background(), failingReader{Reader: store.NewMemory()}, "user-1", 2026)

	assert.EqualError(t, err, "disk on fire")
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestCompute_EndToEnd(t *testing.T) {
	// GIVEN: Contract 20h/week, carryover 10h, 8h worked on Jan 2,
	//   4h regular leave on Jan 6, closure Dec 24-31, a vacation from Dec 2025
	// WHEN: Computing the 2026 dashboard as of Jan 6
	// THEN: Balance as of Jan 6 is 10 - 4 (Jan 5) + 0 (Jan 6 leave = planned) = 6

	snap := planner.Snapshot{
		UserID:       "user-1",
		Year:         2026,
		WorkEntries:  []planner.WorkEntry{work("w1", "2026-01-02", 8, planner.StatusFinal)},
		LeaveEntries: []planner.LeaveEntry{leave("l1", "2026-01-06", 4, planner.LeaveRegular)},
		Closures:     []planner.Closure{closure("xmas", "2026-12-24", "2026-12-31", false)},
		Vacations: []planner.Vacation{{
			ID: "v1", StartDate: day("2025-12-19"), EndDate: day("2026-01-04"), Name: "Kerstvakantie", Kind: planner.VacationRegion,
		}},
		Profile:       planner.ProfileSettings{UserID: "user-1", ContractHoursWeek: hours(20)},
		YearSettings:  planner.YearSettings{UserID: "user-1", Year: 2026, CarryoverHours: hours(10)},
		LeaveBalances: planner.LeaveBalances{UserID: "user-1", Year: 2026, RegularHours: hours(100)},
	}
	provider := fixedHolidays{{Date: day("2026-01-01"), Name: "Nieuwjaarsdag"}}

	d := planner.Compute(snap, planner.DashboardOptions{
		AsOf:     day("2026-01-06"),
		Filter:   planner.AllStatuses,
		Holidays: provider,
	})

	require.Len(t, d.Series, 365)
	assertHours(t, 6, d.BalanceAsOf)
	assert.Equal(t, "2026-01-06", d.AsOf.String())

	// Closed weekdays Dec 24, 25, 28-31 leave 255 planned weekdays * 4h = 1020h
	assertHours(t, 10+8+4-1020, d.YearEndBalance)
	assertHours(t, 1020, d.YTD.Planned)
	assertHours(t, 12, d.YTD.Actual)

	assert.Equal(t, "Nieuwjaarsdag", d.Holidays["2026-01-01"])
	assert.Len(t, d.Closures, 8)
	assert.Len(t, d.Vacations, 4, "vacation clipped to the year")
	assert.Len(t, d.MonthlyPoints, 12)
	assertHours(t, 4, d.LeaveTaken.Regular)
	assertHours(t, 96, d.LeaveRemaining.Regular)
	assert.False(t, d.UsesBaseSchedule)
}

func TestCompute_FilterHidesDrafts(t *testing.T) {
	snap := planner.Snapshot{
		Year: 2026,
		WorkEntries: []planner.WorkEntry{
			work("w1", "2026-01-05", 8, planner.StatusDraft),
			work("w2", "2026-01-06", 8, planner.StatusFinal),
		},
		Profile: planner.ProfileSettings{ContractHoursWeek: hours(0)},
	}

	d := planner.Compute(snap, planner.DashboardOptions{
		AsOf:   day("2026-12-31"),
		Filter: planner.StatusFilter{ShowFinal: true},
	})

	assertHours(t, 8, d.YearEndBalance)
	assert.Empty(t, d.Holidays)
}

func TestCompute_ZeroAsOfMeansToday(t *testing.T) {
	d := planner.Compute(planner.Snapshot{Year: 2026}, planner.DashboardOptions{})

	assert.Equal(t, calendar.Today(), d.AsOf)
}
