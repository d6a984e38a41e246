package planner

import (
	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
)

// =============================================================================
// FACT INDEXERS - Flat record lists to per-date lookups
// =============================================================================

// WorkTotal is the aggregate of all work entries on one date.
type WorkTotal struct {
	Hours    decimal.Decimal
	HasDraft bool
	HasFinal bool
}

// LeaveTotal is the aggregate of all leave entries on one date.
type LeaveTotal struct {
	Hours   decimal.Decimal
	Regular decimal.Decimal
	Balance decimal.Decimal
}

// StatusFilter selects which work entries take part in the totals.
type StatusFilter struct {
	ShowDraft bool
	ShowFinal bool
}

// AllStatuses includes drafts and finals.
var AllStatuses = StatusFilter{ShowDraft: true, ShowFinal: true}

// Allows reports whether an entry with the given status passes the filter.
func (f StatusFilter) Allows(status EntryStatus) bool {
	switch status {
	case StatusDraft:
		return f.ShowDraft
	case StatusFinal:
		return f.ShowFinal
	default:
		return true
	}
}

// IndexWorkTotals groups work entries by date. Entries hidden by the filter
// are dropped first; the running sum per date is rounded on every insertion.
func IndexWorkTotals(entries []WorkEntry, filter StatusFilter) map[string]WorkTotal {
	totals := make(map[string]WorkTotal)
	for _, e := range entries {
		if !filter.Allows(e.Status) {
			continue
		}
		key := e.WorkDate.String()
		current := totals[key]
		totals[key] = WorkTotal{
			Hours:    Round2(current.Hours.Add(e.Hours)),
			HasDraft: current.HasDraft || e.Status == StatusDraft,
			HasFinal: current.HasFinal || e.Status == StatusFinal,
		}
	}
	return totals
}

// IndexLeaveTotals groups leave entries by date, split by leave type.
func IndexLeaveTotals(entries []LeaveEntry) map[string]LeaveTotal {
	totals := make(map[string]LeaveTotal)
	for _, e := range entries {
		key := e.LeaveDate.String()
		current := totals[key]
		regular, balance := current.Regular, current.Balance
		switch e.LeaveType {
		case LeaveRegular:
			regular = regular.Add(e.Hours)
		case LeaveBalance:
			balance = balance.Add(e.Hours)
		}
		totals[key] = LeaveTotal{
			Hours:   Round2(current.Hours.Add(e.Hours)),
			Regular: Round2(regular),
			Balance: Round2(balance),
		}
	}
	return totals
}

// Ranged is any record that covers an inclusive date range.
type Ranged interface {
	DateRange() calendar.Period
}

// ExpandRanges appends every record to the bucket of each date it covers.
// A record whose end precedes its start covers no dates.
func ExpandRanges[R Ranged](ranges []R) map[string][]R {
	buckets := make(map[string][]R)
	for _, r := range ranges {
		for _, d := range r.DateRange().Days() {
			key := d.String()
			buckets[key] = append(buckets[key], r)
		}
	}
	return buckets
}

// ExpandRangesWithin is ExpandRanges limited to the visible period.
func ExpandRangesWithin[R Ranged](ranges []R, visible calendar.Period) map[string][]R {
	buckets := make(map[string][]R)
	for _, r := range ranges {
		for _, d := range r.DateRange().Intersect(visible).Days() {
			key := d.String()
			buckets[key] = append(buckets[key], r)
		}
	}
	return buckets
}

// IsHardClosed reports whether any of the closures blocks work.
func IsHardClosed(closures []Closure) bool {
	for _, c := range closures {
		if !c.CanWork {
			return true
		}
	}
	return false
}

// HardClosedDates returns the set of ISO dates with a blocking closure.
func HardClosedDates(closureMap map[string][]Closure) map[string]bool {
	closed := make(map[string]bool)
	for iso, list := range closureMap {
		if IsHardClosed(list) {
			closed[iso] = true
		}
	}
	return closed
}

// IndexHolidays returns holiday names by date for the requested years,
// limited to the visible period. A nil provider yields an empty map.
func IndexHolidays(provider calendar.HolidayProvider, years []int, visible calendar.Period) map[string]string {
	holidays := make(map[string]string)
	if provider == nil {
		return holidays
	}
	seen := make(map[int]bool)
	for _, year := range years {
		if seen[year] {
			continue
		}
		seen[year] = true
		for _, h := range provider.Holidays(year) {
			if !visible.Contains(h.Date) {
				continue
			}
			holidays[h.Date.String()] = h.Name
		}
	}
	return holidays
}
