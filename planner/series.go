/*
series.go - The daily balance series

PURPOSE:
  Walks every day of a calendar year and keeps a running balance of
  actual minus planned hours, seeded with the carryover from last year.
  Every dashboard number is derived from this series.

KEY INSIGHT:
  The running total is rounded to 2 places after EVERY day:

    running(d) = round2(running(d-1) + actual(d) - planned(d))
    running(-1) = carryover

  Rounding once at the end gives different results on long series with
  fractional planned hours (38/5 = 7.6 is exact; 36.67/5 is not). Keep it.

ACTUAL HOURS:
  actual = work hours + leave hours. Leave counts as worked: taking a day
  of leave does not push the balance down.

DENSITY:
  The series has one point per day (365 or 366), in date order, even on
  days with no facts at all.

EXAMPLE:
  Year 2026, carryover 10, contract 20h (4h/weekday), 8h worked on Jan 2:
    2026-01-01  planned 4  actual 0  cumulative 6
    2026-01-02  planned 4  actual 8  cumulative 10
*/
package planner

import (
	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
)

// BalancePoint is one day of the series.
type BalancePoint struct {
	ISO        string
	Date       calendar.Day
	Planned    decimal.Decimal
	Actual     decimal.Decimal
	Cumulative decimal.Decimal
}

// Delta returns actual minus planned for the day.
func (p BalancePoint) Delta() decimal.Decimal {
	return p.Actual.Sub(p.Planned)
}

// SeriesInput contains everything the series depends on.
type SeriesInput struct {
	Year           int
	WorkTotals     map[string]WorkTotal
	LeaveTotals    map[string]LeaveTotal
	Resolver       *PlannedResolver
	CarryoverHours decimal.Decimal
}

// BuildBalanceSeries generates the dense daily series for a year.
// A nil Resolver plans zero hours everywhere.
func BuildBalanceSeries(input SeriesInput) []BalancePoint {
	period := calendar.YearPeriod(input.Year)
	points := make([]BalancePoint, 0, period.Len())

	running := input.CarryoverHours
	for _, day := range period.Days() {
		iso := day.String()

		planned := decimal.Zero
		if input.Resolver != nil {
			planned = input.Resolver.Planned(day)
		}
		actual := input.WorkTotals[iso].Hours.Add(input.LeaveTotals[iso].Hours)

		running = Round2(running.Add(actual.Sub(planned)))
		points = append(points, BalancePoint{
			ISO:        iso,
			Date:       day,
			Planned:    planned,
			Actual:     actual,
			Cumulative: running,
		})
	}
	return points
}
