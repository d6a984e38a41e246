/*
Package sqlite provides a SQLite-backed implementation of planner.Store.

PURPOSE:
  Persists the records the balance engine reads: work and leave entries,
  the weekly base schedule, closures, vacations, month templates and the
  per-user / per-year settings.

KEY TABLES:
  work_entries:    Worked shifts, several per date allowed
  leave_entries:   Leave hours per date, regular or balance
  base_schedule:   Planned hours per (user, weekday)
  closures:        Company closures with a can_work flag
  vacations:       Display-only vacation ranges
  month_templates: Templates, day overrides and rules as JSON
  profiles, year_settings, leave_balances: Settings rows

STORAGE FORMATS:
  Dates are stored as "YYYY-MM-DD" text so they sort and compare as dates.
  Hours are stored as decimal text; no float ever touches a stored value.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and a single open connection so an
  in-memory database is shared by every query.

MIGRATION:
  Schema is managed by golang-migrate with the SQL files embedded from
  migrations/. New() migrates to the latest version.

USAGE:
  store, err := sqlite.New("./data/hours.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - planner/store.go: Interface definitions
  - planner/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
)

// Store implements planner.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ planner.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// WORK ENTRIES
// =============================================================================

const workColumns = `id, user_id, work_date, hours, status, shift_type, notes`

func (s *Store) WorkEntries(ctx context.Context, userID string) ([]planner.WorkEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workColumns+` FROM work_entries WHERE user_id = ? ORDER BY work_date ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query work entries: %w", err)
	}
	defer rows.Close()

	var entries []planner.WorkEntry
	for rows.Next() {
		e, err := scanWorkEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) WorkEntry(ctx context.Context, userID, id string) (*planner.WorkEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+workColumns+` FROM work_entries WHERE user_id = ? AND id = ?`, userID, id)
	e, err := scanWorkEntry(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkEntry(row scanner) (planner.WorkEntry, error) {
	var (
		e     planner.WorkEntry
		date  string
		hours string
	)
	err := row.Scan(&e.ID, &e.UserID, &date, &hours, &e.Status, &e.ShiftType, &e.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return e, planner.ErrNotFound
	}
	if err != nil {
		return e, fmt.Errorf("failed to scan work entry: %w", err)
	}
	e.WorkDate = parseDay(date)
	e.Hours = parseDecimal(hours)
	return e, nil
}

func (s *Store) SaveWorkEntry(ctx context.Context, e planner.WorkEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_entries (`+workColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			work_date = excluded.work_date,
			hours = excluded.hours,
			status = excluded.status,
			shift_type = excluded.shift_type,
			notes = excluded.notes`,
		e.ID, e.UserID, e.WorkDate.String(), e.Hours.String(), e.Status, e.ShiftType, e.Notes, now())
	if err != nil {
		return fmt.Errorf("failed to save work entry: %w", err)
	}
	return nil
}

// SaveWorkEntries inserts a batch in one transaction. Any existing id
// aborts the whole batch with ErrConflict.
func (s *Store) SaveWorkEntries(ctx context.Context, entries []planner.WorkEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	createdAt := now()
	for _, e := range entries {
		if err := insertWorkEntry(ctx, sqlTx, e, createdAt); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

func insertWorkEntry(ctx context.Context, db execer, e planner.WorkEntry, createdAt string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO work_entries (`+workColumns+`, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.WorkDate.String(), e.Hours.String(), e.Status, e.ShiftType, e.Notes, createdAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: work entry %s", planner.ErrConflict, e.ID)
		}
		return fmt.Errorf("failed to insert work entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteWorkEntry(ctx context.Context, userID, id string) error {
	return s.deleteOne(ctx, `DELETE FROM work_entries WHERE user_id = ? AND id = ?`, userID, id)
}

func (s *Store) DeleteWorkEntriesInPeriod(ctx context.Context, userID string, period calendar.Period) (int, error) {
	if period.IsEmpty() {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM work_entries WHERE user_id = ? AND work_date >= ? AND work_date <= ?`,
		userID, period.Start.String(), period.End.String())
	if err != nil {
		return 0, fmt.Errorf("failed to delete work entries: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// =============================================================================
// LEAVE ENTRIES
// =============================================================================

func (s *Store) LeaveEntries(ctx context.Context, userID string) ([]planner.LeaveEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, leave_date, hours, leave_type, notes
		FROM leave_entries WHERE user_id = ? ORDER BY leave_date ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave entries: %w", err)
	}
	defer rows.Close()

	var entries []planner.LeaveEntry
	for rows.Next() {
		var (
			e     planner.LeaveEntry
			date  string
			hours string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &date, &hours, &e.LeaveType, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan leave entry: %w", err)
		}
		e.LeaveDate = parseDay(date)
		e.Hours = parseDecimal(hours)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) SaveLeaveEntry(ctx context.Context, e planner.LeaveEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_entries (id, user_id, leave_date, hours, leave_type, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			leave_date = excluded.leave_date,
			hours = excluded.hours,
			leave_type = excluded.leave_type,
			notes = excluded.notes`,
		e.ID, e.UserID, e.LeaveDate.String(), e.Hours.String(), e.LeaveType, e.Notes, now())
	if err != nil {
		return fmt.Errorf("failed to save leave entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteLeaveEntry(ctx context.Context, userID, id string) error {
	return s.deleteOne(ctx, `DELETE FROM leave_entries WHERE user_id = ? AND id = ?`, userID, id)
}

// =============================================================================
// BASE SCHEDULE
// =============================================================================

func (s *Store) BaseSchedule(ctx context.Context, userID string) ([]planner.BaseScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, weekday, planned_hours, active, notes
		FROM base_schedule WHERE user_id = ? ORDER BY weekday ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query base schedule: %w", err)
	}
	defer rows.Close()

	var schedule []planner.BaseScheduleEntry
	for rows.Next() {
		var (
			e     planner.BaseScheduleEntry
			hours string
		)
		if err := rows.Scan(&e.UserID, &e.Weekday, &hours, &e.Active, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan base schedule: %w", err)
		}
		e.PlannedHours = parseDecimal(hours)
		schedule = append(schedule, e)
	}
	return schedule, rows.Err()
}

func (s *Store) SaveBaseScheduleEntry(ctx context.Context, e planner.BaseScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO base_schedule (user_id, weekday, planned_hours, active, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, weekday) DO UPDATE SET
			planned_hours = excluded.planned_hours,
			active = excluded.active,
			notes = excluded.notes`,
		e.UserID, e.Weekday, e.PlannedHours.String(), e.Active, e.Notes)
	if err != nil {
		return fmt.Errorf("failed to save base schedule: %w", err)
	}
	return nil
}

// =============================================================================
// CLOSURES & VACATIONS
// =============================================================================

func (s *Store) Closures(ctx context.Context, userID string) ([]planner.Closure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, start_date, end_date, reason, can_work
		FROM closures WHERE user_id = ? ORDER BY start_date ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query closures: %w", err)
	}
	defer rows.Close()

	var closures []planner.Closure
	for rows.Next() {
		var (
			c          planner.Closure
			start, end string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &start, &end, &c.Reason, &c.CanWork); err != nil {
			return nil, fmt.Errorf("failed to scan closure: %w", err)
		}
		c.StartDate, c.EndDate = parseDay(start), parseDay(end)
		closures = append(closures, c)
	}
	return closures, rows.Err()
}

func (s *Store) SaveClosure(ctx context.Context, c planner.Closure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO closures (id, user_id, start_date, end_date, reason, can_work)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.StartDate.String(), c.EndDate.String(), c.Reason, c.CanWork)
	if err != nil {
		return fmt.Errorf("failed to save closure: %w", err)
	}
	return nil
}

func (s *Store) DeleteClosure(ctx context.Context, userID, id string) error {
	return s.deleteOne(ctx, `DELETE FROM closures WHERE user_id = ? AND id = ?`, userID, id)
}

func (s *Store) Vacations(ctx context.Context, userID string) ([]planner.Vacation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, start_date, end_date, name, kind
		FROM vacations WHERE user_id = ? ORDER BY start_date ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vacations: %w", err)
	}
	defer rows.Close()

	var vacations []planner.Vacation
	for rows.Next() {
		var (
			v          planner.Vacation
			start, end string
		)
		if err := rows.Scan(&v.ID, &v.UserID, &start, &end, &v.Name, &v.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan vacation: %w", err)
		}
		v.StartDate, v.EndDate = parseDay(start), parseDay(end)
		vacations = append(vacations, v)
	}
	return vacations, rows.Err()
}

func (s *Store) SaveVacation(ctx context.Context, v planner.Vacation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO vacations (id, user_id, start_date, end_date, name, kind)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.UserID, v.StartDate.String(), v.EndDate.String(), v.Name, v.Kind)
	if err != nil {
		return fmt.Errorf("failed to save vacation: %w", err)
	}
	return nil
}

func (s *Store) DeleteVacation(ctx context.Context, userID, id string) error {
	return s.deleteOne(ctx, `DELETE FROM vacations WHERE user_id = ? AND id = ?`, userID, id)
}

// =============================================================================
// MONTH TEMPLATES
// =============================================================================

type templateDayRecord struct {
	Day   int             `json:"day"`
	Hours decimal.Decimal `json:"hours"`
}

type templateRuleRecord struct {
	RuleType      planner.RuleType `json:"rule_type"`
	Weekdays      []int            `json:"weekdays"`
	Hours         decimal.Decimal  `json:"hours"`
	IntervalWeeks int              `json:"interval_weeks,omitempty"`
	StartsOn      calendar.Day     `json:"starts_on,omitempty"`
}

func (s *Store) MonthTemplates(ctx context.Context, userID string) ([]planner.MonthTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, month_length, days_json, rules_json
		FROM month_templates WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []planner.MonthTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *Store) MonthTemplate(ctx context.Context, userID, id string) (*planner.MonthTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, month_length, days_json, rules_json
		FROM month_templates WHERE user_id = ? AND id = ?`, userID, id)
	t, err := scanTemplate(row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTemplate(row scanner) (planner.MonthTemplate, error) {
	var (
		t                   planner.MonthTemplate
		daysJSON, rulesJSON string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.MonthLength, &daysJSON, &rulesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return t, planner.ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("failed to scan template: %w", err)
	}

	var days []templateDayRecord
	if err := json.Unmarshal([]byte(daysJSON), &days); err != nil {
		return t, fmt.Errorf("failed to decode template days: %w", err)
	}
	for _, d := range days {
		t.Days = append(t.Days, planner.MonthTemplateDay{Day: d.Day, Hours: d.Hours})
	}

	var rules []templateRuleRecord
	if err := json.Unmarshal([]byte(rulesJSON), &rules); err != nil {
		return t, fmt.Errorf("failed to decode template rules: %w", err)
	}
	for _, r := range rules {
		t.Rules = append(t.Rules, planner.MonthTemplateRule{
			RuleType:      r.RuleType,
			Weekdays:      r.Weekdays,
			Hours:         r.Hours,
			IntervalWeeks: r.IntervalWeeks,
			StartsOn:      r.StartsOn,
		})
	}
	return t, nil
}

func (s *Store) SaveMonthTemplate(ctx context.Context, t planner.MonthTemplate) error {
	days := make([]templateDayRecord, 0, len(t.Days))
	for _, d := range t.Days {
		days = append(days, templateDayRecord{Day: d.Day, Hours: d.Hours})
	}
	rules := make([]templateRuleRecord, 0, len(t.Rules))
	for _, r := range t.Rules {
		rules = append(rules, templateRuleRecord{
			RuleType:      r.RuleType,
			Weekdays:      r.Weekdays,
			Hours:         r.Hours,
			IntervalWeeks: r.IntervalWeeks,
			StartsOn:      r.StartsOn,
		})
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return err
	}
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO month_templates (id, user_id, name, month_length, days_json, rules_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			month_length = excluded.month_length,
			days_json = excluded.days_json,
			rules_json = excluded.rules_json,
			updated_at = excluded.updated_at`,
		t.ID, t.UserID, t.Name, t.MonthLength, string(daysJSON), string(rulesJSON), now())
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

func (s *Store) DeleteMonthTemplate(ctx context.Context, userID, id string) error {
	return s.deleteOne(ctx, `DELETE FROM month_templates WHERE user_id = ? AND id = ?`, userID, id)
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) Profile(ctx context.Context, userID string) (*planner.ProfileSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var contract string
	err := s.db.QueryRowContext(ctx,
		`SELECT contract_hours_week FROM profiles WHERE user_id = ?`, userID).Scan(&contract)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, planner.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &planner.ProfileSettings{UserID: userID, ContractHoursWeek: parseDecimal(contract)}, nil
}

func (s *Store) SaveProfile(ctx context.Context, p planner.ProfileSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, contract_hours_week) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET contract_hours_week = excluded.contract_hours_week`,
		p.UserID, p.ContractHoursWeek.String())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *Store) YearSettings(ctx context.Context, userID string, year int) (*planner.YearSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var carryover string
	err := s.db.QueryRowContext(ctx,
		`SELECT carryover_hours FROM year_settings WHERE user_id = ? AND year = ?`, userID, year).Scan(&carryover)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, planner.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get year settings: %w", err)
	}
	return &planner.YearSettings{UserID: userID, Year: year, CarryoverHours: parseDecimal(carryover)}, nil
}

func (s *Store) SaveYearSettings(ctx context.Context, ys planner.YearSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO year_settings (user_id, year, carryover_hours) VALUES (?, ?, ?)
		ON CONFLICT(user_id, year) DO UPDATE SET carryover_hours = excluded.carryover_hours`,
		ys.UserID, ys.Year, ys.CarryoverHours.String())
	if err != nil {
		return fmt.Errorf("failed to save year settings: %w", err)
	}
	return nil
}

func (s *Store) LeaveBalances(ctx context.Context, userID string, year int) (*planner.LeaveBalances, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var regular, balance string
	err := s.db.QueryRowContext(ctx,
		`SELECT regular_hours, balance_hours FROM leave_balances WHERE user_id = ? AND year = ?`,
		userID, year).Scan(&regular, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, planner.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}
	return &planner.LeaveBalances{
		UserID:       userID,
		Year:         year,
		RegularHours: parseDecimal(regular),
		BalanceHours: parseDecimal(balance),
	}, nil
}

func (s *Store) SaveLeaveBalances(ctx context.Context, b planner.LeaveBalances) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_balances (user_id, year, regular_hours, balance_hours) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, year) DO UPDATE SET
			regular_hours = excluded.regular_hours,
			balance_hours = excluded.balance_hours`,
		b.UserID, b.Year, b.RegularHours.String(), b.BalanceHours.String())
	if err != nil {
		return fmt.Errorf("failed to save leave balances: %w", err)
	}
	return nil
}

// =============================================================================
// ADMIN
// =============================================================================

// UserIDs returns every user with at least one stored record.
func (s *Store) UserIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id FROM work_entries
		UNION SELECT user_id FROM leave_entries
		UNION SELECT user_id FROM base_schedule
		UNION SELECT user_id FROM closures
		UNION SELECT user_id FROM vacations
		UNION SELECT user_id FROM month_templates
		UNION SELECT user_id FROM profiles
		UNION SELECT user_id FROM year_settings
		UNION SELECT user_id FROM leave_balances
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Reset clears all data (for demo purposes).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"work_entries", "leave_entries", "base_schedule", "closures", "vacations",
		"month_templates", "profiles", "year_settings", "leave_balances",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) deleteOne(ctx context.Context, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return planner.ErrNotFound
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseDay reads a stored date; a malformed value becomes the zero Day.
func parseDay(s string) calendar.Day {
	d, _ := calendar.ParseDay(s)
	return d
}

// parseDecimal reads stored hours; a malformed value counts as zero.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
