package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SERIES AGGREGATORS
// =============================================================================

// BalanceAt returns the cumulative balance on an ISO date, or zero when the
// date is not part of the series.
func BalanceAt(series []BalancePoint, iso string) decimal.Decimal {
	for _, p := range series {
		if p.ISO == iso {
			return p.Cumulative
		}
	}
	return decimal.Zero
}

// YearEndBalance returns the last cumulative value, or zero for an empty series.
func YearEndBalance(series []BalancePoint) decimal.Decimal {
	if len(series) == 0 {
		return decimal.Zero
	}
	return series[len(series)-1].Cumulative
}

// Totals are planned and actual hours over a stretch of the series.
type Totals struct {
	Planned decimal.Decimal
	Actual  decimal.Decimal
	Delta   decimal.Decimal
}

// YTDTotals sums planned and actual over points on or before cutoffISO.
// The sums are exact; each figure is rounded once at the end.
func YTDTotals(series []BalancePoint, cutoffISO string) Totals {
	planned, actual := decimal.Zero, decimal.Zero
	for _, p := range series {
		if p.ISO > cutoffISO {
			break
		}
		planned = planned.Add(p.Planned)
		actual = actual.Add(p.Actual)
	}
	return Totals{
		Planned: Round2(planned),
		Actual:  Round2(actual),
		Delta:   Round2(actual.Sub(planned)),
	}
}

// MonthKey returns "YYYY-MM" for a year and month.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthDeltaMap sums actual minus planned per "YYYY-MM" for the given year,
// rounding after each addition.
func MonthDeltaMap(series []BalancePoint, year int) map[string]decimal.Decimal {
	prefix := fmt.Sprintf("%04d-", year)
	deltas := make(map[string]decimal.Decimal)
	for _, p := range series {
		if !strings.HasPrefix(p.ISO, prefix) {
			continue
		}
		key := p.ISO[:7]
		deltas[key] = Round2(deltas[key].Add(p.Delta()))
	}
	return deltas
}

// MonthPoint is the balance at the end of a month.
type MonthPoint struct {
	Key   string
	Month time.Month
	Value decimal.Decimal
}

// MonthlyBalancePoints returns twelve points, one per month of the year,
// each holding the cumulative value of the last point seen for that month.
// Months without points hold zero.
func MonthlyBalancePoints(series []BalancePoint, year int) []MonthPoint {
	last := make(map[string]decimal.Decimal)
	for _, p := range series {
		last[p.ISO[:7]] = p.Cumulative
	}
	points := make([]MonthPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		key := MonthKey(year, m)
		points = append(points, MonthPoint{Key: key, Month: m, Value: last[key]})
	}
	return points
}

// PlannedByDate indexes the planned hours of each point. The leave form
// suggests this value as the hours to book for a selected date.
func PlannedByDate(series []BalancePoint) map[string]decimal.Decimal {
	planned := make(map[string]decimal.Decimal, len(series))
	for _, p := range series {
		planned[p.ISO] = p.Planned
	}
	return planned
}

// =============================================================================
// LEAVE ENTITLEMENT
// =============================================================================

// LeaveSplit is an amount of leave split by type.
type LeaveSplit struct {
	Regular decimal.Decimal
	Balance decimal.Decimal
}

// LeaveYearTotals sums the leave taken in a year, per type.
func LeaveYearTotals(entries []LeaveEntry, year int) LeaveSplit {
	regular, balance := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.LeaveDate.Year() != year {
			continue
		}
		if e.LeaveType == LeaveRegular {
			regular = regular.Add(e.Hours)
		} else {
			balance = balance.Add(e.Hours)
		}
	}
	return LeaveSplit{Regular: Round2(regular), Balance: Round2(balance)}
}

// LeaveRemaining subtracts leave taken from the year's starting entitlement.
func LeaveRemaining(start LeaveBalances, taken LeaveSplit) LeaveSplit {
	return LeaveSplit{
		Regular: Round2(start.RegularHours.Sub(taken.Regular)),
		Balance: Round2(start.BalanceHours.Sub(taken.Balance)),
	}
}
