package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
)

// =============================================================================
// WORK / LEAVE INDEXERS
// =============================================================================

func TestIndexWorkTotals_SumsEntriesOnSameDate(t *testing.T) {
	// GIVEN: Two shifts on the same day, 3h draft and 5h final
	// WHEN: Indexing with all statuses visible
	// THEN: One total of 8h carrying both status flags

	entries := []planner.WorkEntry{
		work("a", "2026-03-02", 3, planner.StatusDraft),
		work("b", "2026-03-02", 5, planner.StatusFinal),
		work("c", "2026-03-03", 7.5, planner.StatusFinal),
	}

	totals := planner.IndexWorkTotals(entries, planner.AllStatuses)

	require.Len(t, totals, 2)
	assertHours(t, 8, totals["2026-03-02"].Hours)
	assert.True(t, totals["2026-03-02"].HasDraft)
	assert.True(t, totals["2026-03-02"].HasFinal)
	assertHours(t, 7.5, totals["2026-03-03"].Hours)
	assert.False(t, totals["2026-03-03"].HasDraft)
}

func TestIndexWorkTotals_FilterDropsHiddenStatus(t *testing.T) {
	entries := []planner.WorkEntry{
		work("a", "2026-03-02", 3, planner.StatusDraft),
		work("b", "2026-03-02", 5, planner.StatusFinal),
		work("c", "2026-03-04", 4, planner.StatusDraft),
	}

	totals := planner.IndexWorkTotals(entries, planner.StatusFilter{ShowFinal: true})

	require.Len(t, totals, 1)
	assertHours(t, 5, totals["2026-03-02"].Hours)
	assert.False(t, totals["2026-03-02"].HasDraft)
	_, ok := totals["2026-03-04"]
	assert.False(t, ok, "draft-only date should be absent")
}

func TestIndexWorkTotals_RoundsEachInsertion(t *testing.T) {
	// GIVEN: Two entries of 0.005h on one date
	// THEN: 0.005 rounds to 0.01, then 0.01 + 0.005 rounds to 0.02

	entries := []planner.WorkEntry{
		work("a", "2026-03-02", 0.005, planner.StatusFinal),
		work("b", "2026-03-02", 0.005, planner.StatusFinal),
	}

	totals := planner.IndexWorkTotals(entries, planner.AllStatuses)

	assertHours(t, 0.02, totals["2026-03-02"].Hours)
}

func TestIndexLeaveTotals_SplitsByType(t *testing.T) {
	entries := []planner.LeaveEntry{
		leave("l1", "2026-05-04", 4, planner.LeaveRegular),
		leave("l2", "2026-05-04", 2.5, planner.LeaveBalance),
	}

	totals := planner.IndexLeaveTotals(entries)

	lt := totals["2026-05-04"]
	assertHours(t, 6.5, lt.Hours)
	assertHours(t, 4, lt.Regular)
	assertHours(t, 2.5, lt.Balance)
}

// =============================================================================
// RANGE EXPANSION
// =============================================================================

func TestExpandRanges_InclusiveAndOverlapping(t *testing.T) {
	closures := []planner.Closure{
		closure("c1", "2026-12-24", "2026-12-26", false),
		closure("c2", "2026-12-26", "2026-12-26", true),
	}

	m := planner.ExpandRanges(closures)

	assert.Len(t, m, 3)
	assert.Len(t, m["2026-12-24"], 1)
	assert.Len(t, m["2026-12-26"], 2)
}

func TestExpandRanges_EndBeforeStartCoversNothing(t *testing.T) {
	m := planner.ExpandRanges([]planner.Closure{closure("c1", "2026-05-10", "2026-05-01", false)})

	assert.Empty(t, m)
}

func TestExpandRangesWithin_ClipsToVisiblePeriod(t *testing.T) {
	vac := planner.Vacation{
		ID:        "v1",
		StartDate: day("2025-12-20"),
		EndDate:   day("2026-01-04"),
		Kind:      planner.VacationRegion,
	}

	m := planner.ExpandRangesWithin([]planner.Vacation{vac}, calendar.YearPeriod(2026))

	assert.Len(t, m, 4)
	_, ok := m["2025-12-31"]
	assert.False(t, ok)
	assert.Equal(t, planner.DefaultVacationName, m["2026-01-01"][0].DisplayName())
}

func TestHardClosedDates_IgnoresCanWork(t *testing.T) {
	m := planner.ExpandRanges([]planner.Closure{
		closure("hard", "2026-07-01", "2026-07-02", false),
		closure("soft", "2026-07-03", "2026-07-03", true),
	})

	closed := planner.HardClosedDates(m)

	assert.Equal(t, map[string]bool{"2026-07-01": true, "2026-07-02": true}, closed)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestIndexHolidays_LimitedToVisiblePeriod(t *testing.T) {
	provider := fixedHolidays{
		{Date: day("2026-04-27"), Name: "Koningsdag"},
		{Date: day("2026-12-25"), Name: "Eerste Kerstdag"},
	}
	visible := calendar.MonthPeriod(2026, 4)

	m := planner.IndexHolidays(provider, visible.Years(), visible)

	assert.Equal(t, map[string]string{"2026-04-27": "Koningsdag"}, m)
}

func TestIndexHolidays_NilProvider(t *testing.T) {
	m := planner.IndexHolidays(nil, []int{2026}, calendar.YearPeriod(2026))

	assert.NotNil(t, m)
	assert.Empty(t, m)
}
