package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
	"github.com/warp/hours-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func d(iso string) calendar.Day { return calendar.MustParseDay(iso) }

func h(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func workEntry(id, iso, hours string) planner.WorkEntry {
	return planner.WorkEntry{
		ID:        id,
		UserID:    "user-1",
		WorkDate:  d(iso),
		Hours:     h(hours),
		Status:    planner.StatusFinal,
		ShiftType: planner.ShiftDay,
	}
}

// =============================================================================
// MIGRATIONS
// =============================================================================

func TestNew_MigratesToLatestVersion(t *testing.T) {
	store := newTestStore(t)

	version, dirty, err := store.SchemaVersion()
	require.NoError(t, err)

	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

// =============================================================================
// WORK ENTRIES
// =============================================================================

func TestWorkEntries_RoundTripKeepsDecimalHours(t *testing.T) {
	// GIVEN: An entry of 7.33h saved as decimal text
	// WHEN: Reading it back
	// THEN: The value is exactly 7.33 and the date is unchanged

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveWorkEntry(ctx, workEntry("w1", "2026-02-28", "7.33")))

	got, err := store.WorkEntry(ctx, "user-1", "w1")
	require.NoError(t, err)
	assert.True(t, got.Hours.Equal(h("7.33")))
	assert.Equal(t, "2026-02-28", got.WorkDate.String())
	assert.Equal(t, planner.ShiftDay, got.ShiftType)
}

func TestWorkEntries_OrderedByDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveWorkEntries(ctx, []planner.WorkEntry{
		workEntry("b", "2026-03-10", "4"),
		workEntry("a", "2026-01-02", "8"),
		workEntry("c", "2026-03-10", "2"),
	}))

	entries, err := store.WorkEntries(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
	assert.Equal(t, "c", entries[2].ID)
}

func TestSaveWorkEntries_ConflictRollsBack(t *testing.T) {
	// GIVEN: Entry "a" exists
	// WHEN: A batch contains a new entry and a duplicate of "a"
	// THEN: ErrConflict; the new entry is not stored

	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorkEntry(ctx, workEntry("a", "2026-01-02", "8")))

	err := store.SaveWorkEntries(ctx, []planner.WorkEntry{
		workEntry("new", "2026-01-05", "8"),
		workEntry("a", "2026-01-06", "8"),
	})

	assert.ErrorIs(t, err, planner.ErrConflict)
	_, err = store.WorkEntry(ctx, "user-1", "new")
	assert.ErrorIs(t, err, planner.ErrNotFound)
}

func TestDeleteWorkEntriesInPeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorkEntries(ctx, []planner.WorkEntry{
		workEntry("a", "2026-01-05", "8"),
		workEntry("b", "2026-01-05", "2"),
		workEntry("c", "2026-01-06", "8"),
	}))

	n, err := store.DeleteWorkEntriesInPeriod(ctx, "user-1", calendar.NewPeriod(d("2026-01-05"), d("2026-01-05")))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, _ := store.WorkEntries(ctx, "user-1")
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].ID)
}

func TestDelete_MissingIsNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.DeleteWorkEntry(ctx, "user-1", "nope"), planner.ErrNotFound)
	assert.ErrorIs(t, store.DeleteLeaveEntry(ctx, "user-1", "nope"), planner.ErrNotFound)
	assert.ErrorIs(t, store.DeleteMonthTemplate(ctx, "user-1", "nope"), planner.ErrNotFound)
}

// =============================================================================
// SCHEDULE, CLOSURES, TEMPLATES, SETTINGS
// =============================================================================

func TestBaseSchedule_UpsertPerWeekday(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveBaseScheduleEntry(ctx, planner.BaseScheduleEntry{UserID: "user-1", Weekday: 0, PlannedHours: h("8"), Active: true}))
	require.NoError(t, store.SaveBaseScheduleEntry(ctx, planner.BaseScheduleEntry{UserID: "user-1", Weekday: 0, PlannedHours: h("6.5"), Active: false}))

	schedule, err := store.BaseSchedule(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.True(t, schedule[0].PlannedHours.Equal(h("6.5")))
	assert.False(t, schedule[0].Active)
}

func TestClosuresAndVacations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveClosure(ctx, planner.Closure{
		ID: "c1", UserID: "user-1", StartDate: d("2026-12-24"), EndDate: d("2026-12-31"), Reason: "Kerst", CanWork: true,
	}))
	require.NoError(t, store.SaveVacation(ctx, planner.Vacation{
		ID: "v1", UserID: "user-1", StartDate: d("2026-07-18"), EndDate: d("2026-08-30"), Kind: planner.VacationRegion,
	}))

	closures, err := store.Closures(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, closures, 1)
	assert.True(t, closures[0].CanWork)
	assert.Equal(t, "2026-12-31", closures[0].EndDate.String())

	vacations, err := store.Vacations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, vacations, 1)
	assert.Equal(t, planner.DefaultVacationName, vacations[0].DisplayName())
}

func TestMonthTemplate_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tpl := planner.MonthTemplate{
		ID:          "tpl-1",
		UserID:      "user-1",
		Name:        "Weekend roster",
		MonthLength: 31,
		Days:        []planner.MonthTemplateDay{{Day: 15, Hours: h("4")}},
		Rules: []planner.MonthTemplateRule{
			{RuleType: planner.RuleWeekly, Weekdays: []int{0, 2}, Hours: h("7.5")},
			{RuleType: planner.RuleBiweekly, Weekdays: []int{5}, Hours: h("6"), IntervalWeeks: 2, StartsOn: d("2026-01-03")},
		},
	}
	require.NoError(t, store.SaveMonthTemplate(ctx, tpl))

	got, err := store.MonthTemplate(ctx, "user-1", "tpl-1")
	require.NoError(t, err)

	assert.Equal(t, "Weekend roster", got.Name)
	require.Len(t, got.Days, 1)
	assert.True(t, got.Days[0].Hours.Equal(h("4")))
	require.Len(t, got.Rules, 2)
	assert.Equal(t, []int{0, 2}, got.Rules[0].Weekdays)
	assert.True(t, got.Rules[0].StartsOn.IsZero())
	assert.Equal(t, "2026-01-03", got.Rules[1].StartsOn.String())
	assert.Equal(t, 2, got.Rules[1].IntervalWeeks)
}

func TestSettings_MissingAndSaved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Profile(ctx, "user-1")
	assert.ErrorIs(t, err, planner.ErrNotFound)

	require.NoError(t, store.SaveProfile(ctx, planner.ProfileSettings{UserID: "user-1", ContractHoursWeek: h("32")}))
	require.NoError(t, store.SaveYearSettings(ctx, planner.YearSettings{UserID: "user-1", Year: 2026, CarryoverHours: h("-3.25")}))
	require.NoError(t, store.SaveLeaveBalances(ctx, planner.LeaveBalances{UserID: "user-1", Year: 2026, RegularHours: h("144"), BalanceHours: h("12")}))

	snap, err := planner.LoadSnapshot(ctx, store, "user-1", 2026)
	require.NoError(t, err)
	assert.True(t, snap.Profile.ContractHoursWeek.Equal(h("32")))
	assert.True(t, snap.YearSettings.CarryoverHours.Equal(h("-3.25")))
	assert.True(t, snap.LeaveBalances.RegularHours.Equal(h("144")))

	_, err = store.YearSettings(ctx, "user-1", 2027)
	assert.ErrorIs(t, err, planner.ErrNotFound)
}

func TestUserIDsAndReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveWorkEntry(ctx, workEntry("a", "2026-01-02", "8")))
	require.NoError(t, store.SaveProfile(ctx, planner.ProfileSettings{UserID: "user-2", ContractHoursWeek: h("20")}))

	ids, err := store.UserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, ids)

	require.NoError(t, store.Reset(ctx))
	ids, err = store.UserIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUserIDsCoversEveryTable(t *testing.T) {
	// GIVEN: Users that only have a vacation or only leave balances
	// WHEN: Listing users
	// THEN: Both are listed, so rollover reaches them

	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveVacation(ctx, planner.Vacation{
		ID: "v1", UserID: "user-v", Name: "Summer",
		StartDate: d("2026-07-04"), EndDate: d("2026-08-16"), Kind: planner.VacationRegion,
	}))
	require.NoError(t, store.SaveLeaveBalances(ctx, planner.LeaveBalances{UserID: "user-b", Year: 2026, RegularHours: h("120"), BalanceHours: h("0")}))

	ids, err := store.UserIDs(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"user-b", "user-v"}, ids)
}
