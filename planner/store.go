/*
store.go - Persistence contract for planner records

PURPOSE:
  The engine never talks to a database. It receives full-year snapshots of
  plain records. This file defines what a persistence collaborator must
  offer so the application layer can build those snapshots and write back
  what the user (or the template generator) produces.

KEY INTERFACES:
  Reader: per-user lists ordered by date ascending, single settings records
  Writer: save/delete single records, atomic batch insert of work entries
  Store:  both

MISSING SETTINGS:
  Profile, YearSettings and LeaveBalances return ErrNotFound when the user
  never saved them. LoadSnapshot replaces them with defaults (20 h/week,
  carryover 0, no leave entitlement) rather than failing.

IMPLEMENTATIONS:
  - planner/store/memory.go: In-memory for testing
  - store/sqlite/sqlite.go: SQLite with embedded migrations
*/
package planner

import (
	"context"
	"errors"

	"github.com/warp/hours-engine/calendar"
)

// =============================================================================
// STORE - Read/write contract
// =============================================================================

// Reader loads a user's records.
type Reader interface {
	// UserIDs returns every user with at least one stored record.
	UserIDs(ctx context.Context) ([]string, error)

	WorkEntries(ctx context.Context, userID string) ([]WorkEntry, error)
	WorkEntry(ctx context.Context, userID, id string) (*WorkEntry, error)
	LeaveEntries(ctx context.Context, userID string) ([]LeaveEntry, error)
	BaseSchedule(ctx context.Context, userID string) ([]BaseScheduleEntry, error)
	Closures(ctx context.Context, userID string) ([]Closure, error)
	Vacations(ctx context.Context, userID string) ([]Vacation, error)
	MonthTemplates(ctx context.Context, userID string) ([]MonthTemplate, error)
	MonthTemplate(ctx context.Context, userID, id string) (*MonthTemplate, error)

	Profile(ctx context.Context, userID string) (*ProfileSettings, error)
	YearSettings(ctx context.Context, userID string, year int) (*YearSettings, error)
	LeaveBalances(ctx context.Context, userID string, year int) (*LeaveBalances, error)
}

// Writer persists a user's records. Save methods insert or replace by key.
type Writer interface {
	SaveWorkEntry(ctx context.Context, e WorkEntry) error
	// SaveWorkEntries inserts all entries or none.
	SaveWorkEntries(ctx context.Context, entries []WorkEntry) error
	DeleteWorkEntry(ctx context.Context, userID, id string) error
	DeleteWorkEntriesInPeriod(ctx context.Context, userID string, period calendar.Period) (int, error)

	SaveLeaveEntry(ctx context.Context, e LeaveEntry) error
	DeleteLeaveEntry(ctx context.Context, userID, id string) error

	SaveBaseScheduleEntry(ctx context.Context, e BaseScheduleEntry) error

	SaveClosure(ctx context.Context, c Closure) error
	DeleteClosure(ctx context.Context, userID, id string) error

	SaveVacation(ctx context.Context, v Vacation) error
	DeleteVacation(ctx context.Context, userID, id string) error

	SaveMonthTemplate(ctx context.Context, t MonthTemplate) error
	DeleteMonthTemplate(ctx context.Context, userID, id string) error

	SaveProfile(ctx context.Context, p ProfileSettings) error
	SaveYearSettings(ctx context.Context, s YearSettings) error
	SaveLeaveBalances(ctx context.Context, b LeaveBalances) error

	// Reset removes every record. Development and demo scenarios only.
	Reset(ctx context.Context) error
}

// Store is the full persistence collaborator.
type Store interface {
	Reader
	Writer
}

// =============================================================================
// SNAPSHOT - Everything one user's year depends on
// =============================================================================

// Snapshot is a read-only copy of a user's records for one year.
type Snapshot struct {
	UserID        string
	Year          int
	WorkEntries   []WorkEntry
	LeaveEntries  []LeaveEntry
	BaseSchedule  []BaseScheduleEntry
	Closures      []Closure
	Vacations     []Vacation
	Profile       ProfileSettings
	YearSettings  YearSettings
	LeaveBalances LeaveBalances
}

// LoadSnapshot reads every record the year's computations depend on.
func LoadSnapshot(ctx context.Context, r Reader, userID string, year int) (Snapshot, error) {
	snap := Snapshot{UserID: userID, Year: year}
	var err error

	if snap.WorkEntries, err = r.WorkEntries(ctx, userID); err != nil {
		return Snapshot{}, err
	}
	if snap.LeaveEntries, err = r.LeaveEntries(ctx, userID); err != nil {
		return Snapshot{}, err
	}
	if snap.BaseSchedule, err = r.BaseSchedule(ctx, userID); err != nil {
		return Snapshot{}, err
	}
	if snap.Closures, err = r.Closures(ctx, userID); err != nil {
		return Snapshot{}, err
	}
	if snap.Vacations, err = r.Vacations(ctx, userID); err != nil {
		return Snapshot{}, err
	}

	profile, err := r.Profile(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		snap.Profile = ProfileSettings{UserID: userID, ContractHoursWeek: DefaultContractHoursWeek}
	case err != nil:
		return Snapshot{}, err
	default:
		snap.Profile = *profile
	}

	settings, err := r.YearSettings(ctx, userID, year)
	switch {
	case errors.Is(err, ErrNotFound):
		snap.YearSettings = YearSettings{UserID: userID, Year: year}
	case err != nil:
		return Snapshot{}, err
	default:
		snap.YearSettings = *settings
	}

	balances, err := r.LeaveBalances(ctx, userID, year)
	switch {
	case errors.Is(err, ErrNotFound):
		snap.LeaveBalances = LeaveBalances{UserID: userID, Year: year}
	case err != nil:
		return Snapshot{}, err
	default:
		snap.LeaveBalances = *balances
	}

	return snap, nil
}
