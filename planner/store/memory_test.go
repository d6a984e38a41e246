package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
	"github.com/warp/hours-engine/planner/store"
)

func entry(id, iso string, h int64) planner.WorkEntry {
	return planner.WorkEntry{
		ID:       id,
		UserID:   "user-1",
		WorkDate: calendar.MustParseDay(iso),
		Hours:    decimal.NewFromInt(h),
		Status:   planner.StatusFinal,
	}
}

func TestMemory_WorkEntriesOrderedByDate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.SaveWorkEntry(ctx, entry("b", "2026-03-02", 4)))
	require.NoError(t, mem.SaveWorkEntry(ctx, entry("a", "2026-03-02", 3)))
	require.NoError(t, mem.SaveWorkEntry(ctx, entry("c", "2026-01-15", 8)))

	entries, err := mem.WorkEntries(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestMemory_SaveWorkEntriesIsAtomic(t *testing.T) {
	// GIVEN: An existing entry "a"
	// WHEN: Saving a batch that contains "b" and a duplicate "a"
	// THEN: ErrConflict and "b" is not stored

	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveWorkEntry(ctx, entry("a", "2026-03-02", 3)))

	err := mem.SaveWorkEntries(ctx, []planner.WorkEntry{
		entry("b", "2026-03-03", 4),
		entry("a", "2026-03-04", 5),
	})

	assert.ErrorIs(t, err, planner.ErrConflict)
	_, err = mem.WorkEntry(ctx, "user-1", "b")
	assert.ErrorIs(t, err, planner.ErrNotFound)
}

func TestMemory_DeleteWorkEntriesInPeriod(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveWorkEntries(ctx, []planner.WorkEntry{
		entry("a", "2025-12-31", 3),
		entry("b", "2026-01-01", 3),
		entry("c", "2026-12-31", 3),
	}))

	n, err := mem.DeleteWorkEntriesInPeriod(ctx, "user-1", calendar.YearPeriod(2026))
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	remaining, _ := mem.WorkEntries(ctx, "user-1")
	require.Len(t, remaining, 1)
	assert.Equal(t, "a", remaining[0].ID)
}

func TestMemory_MissingRecords(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	_, err := mem.Profile(ctx, "nobody")
	assert.True(t, planner.IsNotFound(err))
	_, err = mem.YearSettings(ctx, "nobody", 2026)
	assert.True(t, planner.IsNotFound(err))
	assert.ErrorIs(t, mem.DeleteClosure(ctx, "nobody", "x"), planner.ErrNotFound)
}

func TestMemory_BaseScheduleUniquePerWeekday(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.SaveBaseScheduleEntry(ctx, planner.BaseScheduleEntry{UserID: "user-1", Weekday: 0, PlannedHours: decimal.NewFromInt(8), Active: true}))
	require.NoError(t, mem.SaveBaseScheduleEntry(ctx, planner.BaseScheduleEntry{UserID: "user-1", Weekday: 0, PlannedHours: decimal.NewFromInt(6), Active: true}))

	schedule, err := mem.BaseSchedule(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.True(t, schedule[0].PlannedHours.Equal(decimal.NewFromInt(6)))
}

func TestMemory_UserIDsAndReset(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveWorkEntry(ctx, entry("a", "2026-03-02", 3)))
	require.NoError(t, mem.SaveProfile(ctx, planner.ProfileSettings{UserID: "user-2", ContractHoursWeek: decimal.NewFromInt(24)}))

	ids, err := mem.UserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, ids)

	require.NoError(t, mem.Reset(ctx))
	ids, _ = mem.UserIDs(ctx)
	assert.Empty(t, ids)
}

func TestMemory_UserIDsCoversEveryRecordKind(t *testing.T) {
	// GIVEN: One user with only a vacation, one with only leave balances,
	//        and one whose single work entry was deleted
	// WHEN: Listing users
	// THEN: The first two are listed and the emptied user is not

	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveVacation(ctx, planner.Vacation{
		ID: "v1", UserID: "user-v", Name: "Summer",
		StartDate: calendar.MustParseDay("2026-07-04"), EndDate: calendar.MustParseDay("2026-08-16"),
		Kind: planner.VacationRegion,
	}))
	require.NoError(t, mem.SaveLeaveBalances(ctx, planner.LeaveBalances{UserID: "user-b", Year: 2026, RegularHours: decimal.NewFromInt(120)}))
	require.NoError(t, mem.SaveWorkEntry(ctx, entry("a", "2026-03-02", 3)))
	require.NoError(t, mem.DeleteWorkEntry(ctx, "user-1", "a"))

	ids, err := mem.UserIDs(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"user-b", "user-v"}, ids)
}
