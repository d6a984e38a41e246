package planner

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
)

// =============================================================================
// ROLLOVER - Carry a year's closing balance into the next year
// =============================================================================

// RolloverResult is the carryover written (or kept) for one user.
type RolloverResult struct {
	UserID         string
	FromYear       int
	ToYear         int
	CarryoverHours decimal.Decimal
	Skipped        bool
}

// RollOver sets the carryover of fromYear+1 to the year-end balance of
// fromYear, counting drafts and finals. An existing next-year setting is
// kept, and the result marked Skipped, unless overwrite is set. A user with
// nothing recorded in fromYear is skipped too: planned hours alone would
// turn an unused year into a large negative carryover.
func RollOver(ctx context.Context, s Store, userID string, fromYear int, overwrite bool) (RolloverResult, error) {
	result := RolloverResult{UserID: userID, FromYear: fromYear, ToYear: fromYear + 1}

	existing, err := s.YearSettings(ctx, userID, result.ToYear)
	switch {
	case err == nil && !overwrite:
		result.CarryoverHours = existing.CarryoverHours
		result.Skipped = true
		return result, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return result, err
	}

	snap, err := LoadSnapshot(ctx, s, userID, fromYear)
	if err != nil {
		return result, err
	}
	active, err := hasYearRecords(ctx, s, snap)
	if err != nil {
		return result, err
	}
	if !active {
		result.Skipped = true
		return result, nil
	}
	dash := Compute(snap, DashboardOptions{
		AsOf:   calendar.EndOfYear(fromYear),
		Filter: AllStatuses,
	})
	result.CarryoverHours = dash.YearEndBalance

	err = s.SaveYearSettings(ctx, YearSettings{
		UserID:         userID,
		Year:           result.ToYear,
		CarryoverHours: result.CarryoverHours,
	})
	return result, err
}

// hasYearRecords reports whether the user worked, took leave or saved
// settings in the snapshot's year.
func hasYearRecords(ctx context.Context, r Reader, snap Snapshot) (bool, error) {
	for _, e := range snap.WorkEntries {
		if e.WorkDate.Year() == snap.Year {
			return true, nil
		}
	}
	for _, e := range snap.LeaveEntries {
		if e.LeaveDate.Year() == snap.Year {
			return true, nil
		}
	}
	_, err := r.YearSettings(ctx, snap.UserID, snap.Year)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
