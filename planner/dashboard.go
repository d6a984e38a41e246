package planner

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
)

// =============================================================================
// DASHBOARD - The whole pipeline in one call
// =============================================================================

// DashboardOptions selects what to compute from a snapshot.
type DashboardOptions struct {
	// AsOf is the date the "balance today" figure is read at.
	// Zero means today.
	AsOf calendar.Day

	// Filter hides drafts or finals from the work totals.
	Filter StatusFilter

	// Holidays is optional; nil means no holiday names.
	Holidays calendar.HolidayProvider
}

// Dashboard is every derived value for one user's year.
type Dashboard struct {
	Year int
	AsOf calendar.Day

	Series         []BalancePoint
	BalanceAsOf    decimal.Decimal
	YearEndBalance decimal.Decimal
	YTD            Totals
	MonthDeltas    map[string]decimal.Decimal
	MonthlyPoints  []MonthPoint

	WorkTotals  map[string]WorkTotal
	LeaveTotals map[string]LeaveTotal
	Holidays    map[string]string
	Closures    map[string][]Closure
	Vacations   map[string][]Vacation

	LeaveTaken     LeaveSplit
	LeaveRemaining LeaveSplit

	UsesBaseSchedule bool
}

// Compute runs indexers, resolver, series and aggregators over a snapshot.
func Compute(snap Snapshot, opts DashboardOptions) Dashboard {
	year := snap.Year
	visible := calendar.YearPeriod(year)

	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = calendar.Today()
	}

	workTotals := IndexWorkTotals(snap.WorkEntries, opts.Filter)
	leaveTotals := IndexLeaveTotals(snap.LeaveEntries)
	closureMap := ExpandRanges(snap.Closures)

	resolver := NewPlannedResolver(snap.BaseSchedule, snap.Profile.ContractHoursWeek, closureMap)
	series := BuildBalanceSeries(SeriesInput{
		Year:           year,
		WorkTotals:     workTotals,
		LeaveTotals:    leaveTotals,
		Resolver:       resolver,
		CarryoverHours: snap.YearSettings.CarryoverHours,
	})

	taken := LeaveYearTotals(snap.LeaveEntries, year)

	return Dashboard{
		Year:             year,
		AsOf:             asOf,
		Series:           series,
		BalanceAsOf:      BalanceAt(series, asOf.String()),
		YearEndBalance:   YearEndBalance(series),
		YTD:              YTDTotals(series, fmt.Sprintf("%04d-12-31", year)),
		MonthDeltas:      MonthDeltaMap(series, year),
		MonthlyPoints:    MonthlyBalancePoints(series, year),
		WorkTotals:       workTotals,
		LeaveTotals:      leaveTotals,
		Holidays:         IndexHolidays(opts.Holidays, visible.Years(), visible),
		Closures:         closureMap,
		Vacations:        ExpandRangesWithin(snap.Vacations, visible),
		LeaveTaken:       taken,
		LeaveRemaining:   LeaveRemaining(snap.LeaveBalances, taken),
		UsesBaseSchedule: resolver.UsesBaseSchedule(),
	}
}
