package planner_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/planner"
)

func contractSeries(year int, contract, carryover float64, work []planner.WorkEntry, lv []planner.LeaveEntry) []planner.BalancePoint {
	return planner.BuildBalanceSeries(planner.SeriesInput{
		Year:           year,
		WorkTotals:     planner.IndexWorkTotals(work, planner.AllStatuses),
		LeaveTotals:    planner.IndexLeaveTotals(lv),
		Resolver:       planner.NewPlannedResolver(nil, hours(contract), nil),
		CarryoverHours: hours(carryover),
	})
}

// =============================================================================
// SERIES SHAPE
// =============================================================================

func TestBuildBalanceSeries_OnePointPerDay(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2026, 365},
		{2028, 366},
	}
	for _, tt := range tests {
		series := contractSeries(tt.year, 20, 0, nil, nil)

		require.Len(t, series, tt.want)
		assert.Equal(t, "01-01", series[0].ISO[5:])
		assert.Equal(t, "12-31", series[len(series)-1].ISO[5:])
		for i := 1; i < len(series); i++ {
			if !assert.Less(t, series[i-1].ISO, series[i].ISO) {
				break
			}
		}
	}
}

// =============================================================================
// RUNNING BALANCE
// =============================================================================

func TestBuildBalanceSeries_CarryoverAndFirstDays(t *testing.T) {
	// GIVEN: 2026, carryover 10h, contract 20h/week, 8h final on Friday Jan 2
	// WHEN: Building the series
	// THEN: Jan 1 (Thursday) is 10 - 4 = 6, Jan 2 is 6 + 8 - 4 = 10

	series := contractSeries(2026, 20, 10,
		[]planner.WorkEntry{work("w1", "2026-01-02", 8, planner.StatusFinal)}, nil)

	jan1 := pointAt(t, series, "2026-01-01")
	assertHours(t, 4, jan1.Planned)
	assertHours(t, 0, jan1.Actual)
	assertHours(t, 6, jan1.Cumulative)

	jan2 := pointAt(t, series, "2026-01-02")
	assertHours(t, 8, jan2.Actual)
	assertHours(t, 10, jan2.Cumulative)

	assertHours(t, 10, planner.BalanceAt(series, "2026-01-02"))
	assertHours(t, 10, pointAt(t, series, "2026-01-03").Cumulative, "Saturday plans nothing")
}

func TestBuildBalanceSeries_LeaveCountsAsWorked(t *testing.T) {
	// GIVEN: 4h regular leave on a 4h-planned Tuesday
	// THEN: The day's delta is zero

	series := contractSeries(2026, 20, 0, nil,
		[]planner.LeaveEntry{leave("l1", "2026-01-06", 4, planner.LeaveRegular)})

	p := pointAt(t, series, "2026-01-06")
	assertHours(t, 4, p.Actual)
	assertHours(t, 0, p.Delta())
}

func TestBuildBalanceSeries_ClosureZeroesPlanned(t *testing.T) {
	closures := planner.ExpandRanges([]planner.Closure{closure("c", "2026-01-05", "2026-01-09", false)})
	series := planner.BuildBalanceSeries(planner.SeriesInput{
		Year:     2026,
		Resolver: planner.NewPlannedResolver(nil, hours(20), closures),
	})

	for _, iso := range []string{"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09"} {
		assertHours(t, 0, pointAt(t, series, iso).Planned, iso)
	}
	assertHours(t, 4, pointAt(t, series, "2026-01-12").Planned)
}

func TestBuildBalanceSeries_NilResolverPlansNothing(t *testing.T) {
	series := planner.BuildBalanceSeries(planner.SeriesInput{Year: 2026, CarryoverHours: hours(3)})

	assertHours(t, 3, planner.YearEndBalance(series))
}

func TestBuildBalanceSeries_StepRoundingDiffersFromFinalRounding(t *testing.T) {
	// GIVEN: A base schedule planning 0.005h on Mondays
	// WHEN: Two Mondays pass
	// THEN: Step rounding gives -0.01 then -0.02 (half away from zero);
	//       rounding the exact sum (-0.01) once would give -0.01

	schedule := []planner.BaseScheduleEntry{{Weekday: 0, PlannedHours: hours(0.005), Active: true}}
	series := planner.BuildBalanceSeries(planner.SeriesInput{
		Year:     2026,
		Resolver: planner.NewPlannedResolver(schedule, hours(20), nil),
	})

	assertHours(t, -0.01, planner.BalanceAt(series, "2026-01-05"))
	assertHours(t, -0.02, planner.BalanceAt(series, "2026-01-12"))

	exact := decimal.Zero
	for _, p := range series[:12] {
		exact = exact.Add(p.Delta())
	}
	assertHours(t, -0.01, planner.Round2(exact))
}

func TestBuildBalanceSeries_Idempotent(t *testing.T) {
	entries := []planner.WorkEntry{
		work("w1", "2026-02-03", 7.25, planner.StatusFinal),
		work("w2", "2026-02-03", 1.1, planner.StatusDraft),
	}

	first := contractSeries(2026, 36.67, -2.5, entries, nil)
	second := contractSeries(2026, 36.67, -2.5, entries, nil)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ISO, second[i].ISO)
		if !first[i].Cumulative.Equal(second[i].Cumulative) {
			t.Fatalf("cumulative differs on %s: %s vs %s", first[i].ISO, first[i].Cumulative, second[i].Cumulative)
		}
	}
}

func TestBuildBalanceSeries_EntriesOutsideYearIgnored(t *testing.T) {
	series := contractSeries(2026, 0, 0,
		[]planner.WorkEntry{work("w1", "2025-12-31", 8, planner.StatusFinal)}, nil)

	assertHours(t, 0, planner.YearEndBalance(series))
}
