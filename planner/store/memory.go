// Package store provides planner.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	work          map[string]map[string]planner.WorkEntry // user -> id -> entry
	leave         map[string]map[string]planner.LeaveEntry
	schedule      map[string]map[int]planner.BaseScheduleEntry
	closures      map[string]map[string]planner.Closure
	vacations     map[string]map[string]planner.Vacation
	templates     map[string]map[string]planner.MonthTemplate
	profiles      map[string]planner.ProfileSettings
	yearSettings  map[yearKey]planner.YearSettings
	leaveBalances map[yearKey]planner.LeaveBalances
}

type yearKey struct {
	UserID string
	Year   int
}

var _ planner.Store = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{}
	m.init()
	return m
}

func (m *Memory) init() {
	m.work = make(map[string]map[string]planner.WorkEntry)
	m.leave = make(map[string]map[string]planner.LeaveEntry)
	m.schedule = make(map[string]map[int]planner.BaseScheduleEntry)
	m.closures = make(map[string]map[string]planner.Closure)
	m.vacations = make(map[string]map[string]planner.Vacation)
	m.templates = make(map[string]map[string]planner.MonthTemplate)
	m.profiles = make(map[string]planner.ProfileSettings)
	m.yearSettings = make(map[yearKey]planner.YearSettings)
	m.leaveBalances = make(map[yearKey]planner.LeaveBalances)
}

// bucket returns the per-user map, creating it on first write.
func bucket[K comparable, V any](m map[string]map[K]V, userID string) map[K]V {
	b, ok := m[userID]
	if !ok {
		b = make(map[K]V)
		m[userID] = b
	}
	return b
}

// collectUsers marks users whose bucket still holds a record.
func collectUsers[K comparable, V any](seen map[string]bool, m map[string]map[K]V) {
	for u, b := range m {
		if len(b) > 0 {
			seen[u] = true
		}
	}
}

func values[K comparable, V any](b map[K]V) []V {
	out := make([]V, 0, len(b))
	for _, v := range b {
		out = append(out, v)
	}
	return out
}

// =============================================================================
// READER
// =============================================================================

func (m *Memory) UserIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	collectUsers(seen, m.work)
	collectUsers(seen, m.leave)
	collectUsers(seen, m.schedule)
	collectUsers(seen, m.closures)
	collectUsers(seen, m.vacations)
	collectUsers(seen, m.templates)
	for u := range m.profiles {
		seen[u] = true
	}
	for k := range m.yearSettings {
		seen[k.UserID] = true
	}
	for k := range m.leaveBalances {
		seen[k.UserID] = true
	}
	ids := make([]string, 0, len(seen))
	for u := range seen {
		ids = append(ids, u)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) WorkEntries(_ context.Context, userID string) ([]planner.WorkEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := values(m.work[userID])
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].WorkDate.Equal(result[j].WorkDate) {
			return result[i].WorkDate.Before(result[j].WorkDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) WorkEntry(_ context.Context, userID, id string) (*planner.WorkEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.work[userID][id]
	if !ok {
		return nil, planner.ErrNotFound
	}
	return &e, nil
}

func (m *Memory) LeaveEntries(_ context.Context, userID string) ([]planner.LeaveEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := values(m.leave[userID])
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].LeaveDate.Equal(result[j].LeaveDate) {
			return result[i].LeaveDate.Before(result[j].LeaveDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) BaseSchedule(_ context.Context, userID string) ([]planner.BaseScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := values(m.schedule[userID])
	sort.Slice(result, func(i, j int) bool { return result[i].Weekday < result[j].Weekday })
	return result, nil
}

func (m *Memory) Closures(_ context.Context, userID string) ([]planner.Closure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := values(m.closures[userID])
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) Vacations(_ context.Context, userID string) ([]planner.Vacation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := values(m.vacations[userID])
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) MonthTemplates(_ context.Context, userID string) ([]planner.MonthTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := values(m.templates[userID])
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) MonthTemplate(_ context.Context, userID, id string) (*planner.MonthTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.templates[userID][id]
	if !ok {
		return nil, planner.ErrNotFound
	}
	return &t, nil
}

func (m *Memory) Profile(_ context.Context, userID string) (*planner.ProfileSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, planner.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) YearSettings(_ context.Context, userID string, year int) (*planner.YearSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.yearSettings[yearKey{UserID: userID, Year: year}]
	if !ok {
		return nil, planner.ErrNotFound
	}
	return &s, nil
}

func (m *Memory) LeaveBalances(_ context.Context, userID string, year int) (*planner.LeaveBalances, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.leaveBalances[yearKey{UserID: userID, Year: year}]
	if !ok {
		return nil, planner.ErrNotFound
	}
	return &b, nil
}

// =============================================================================
// WRITER
// =============================================================================

func (m *Memory) SaveWorkEntry(_ context.Context, e planner.WorkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket(m.work, e.UserID)[e.ID] = e
	return nil
}

// SaveWorkEntries adds multiple entries atomically.
func (m *Memory) SaveWorkEntries(_ context.Context, entries []planner.WorkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check all ids first (atomic check)
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return planner.ErrConflict
		}
		if _, exists := m.work[e.UserID][e.ID]; exists {
			return planner.ErrConflict
		}
		seen[e.ID] = true
	}

	for _, e := range entries {
		bucket(m.work, e.UserID)[e.ID] = e
	}
	return nil
}

func (m *Memory) DeleteWorkEntry(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.work[userID][id]; !ok {
		return planner.ErrNotFound
	}
	delete(m.work[userID], id)
	return nil
}

func (m *Memory) DeleteWorkEntriesInPeriod(_ context.Context, userID string, period calendar.Period) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, e := range m.work[userID] {
		if period.Contains(e.WorkDate) {
			delete(m.work[userID], id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *Memory) SaveLeaveEntry(_ context.Context, e planner.LeaveEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket(m.leave, e.UserID)[e.ID] = e
	return nil
}

func (m *Memory) DeleteLeaveEntry(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.leave[userID][id]; !ok {
		return planner.ErrNotFound
	}
	delete(m.leave[userID], id)
	return nil
}

func (m *Memory) SaveBaseScheduleEntry(_ context.Context, e planner.BaseScheduleEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket(m.schedule, e.UserID)[e.Weekday] = e
	return nil
}

func (m *Memory) SaveClosure(_ context.Context, c planner.Closure) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket(m.closures, c.UserID)[c.ID] = c
	return nil
}

func (m *Memory) DeleteClosure(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.closures[userID][id]; !ok {
		return planner.ErrNotFound
	}
	delete(m.closures[userID], id)
	return nil
}

func (m *Memory) SaveVacation(_ context.Context, v planner.Vacation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket(m.vacations, v.UserID)[v.ID] = v
	return nil
}

func (m *Memory) DeleteVacation(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vacations[userID][id]; !ok {
		return planner.ErrNotFound
	}
	delete(m.vacations[userID], id)
	return nil
}

func (m *Memory) SaveMonthTemplate(_ context.Context, t planner.MonthTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket(m.templates, t.UserID)[t.ID] = t
	return nil
}

func (m *Memory) DeleteMonthTemplate(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.templates[userID][id]; !ok {
		return planner.ErrNotFound
	}
	delete(m.templates[userID], id)
	return nil
}

func (m *Memory) SaveProfile(_ context.Context, p planner.ProfileSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[p.UserID] = p
	return nil
}

func (m *Memory) SaveYearSettings(_ context.Context, s planner.YearSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.yearSettings[yearKey{UserID: s.UserID, Year: s.Year}] = s
	return nil
}

func (m *Memory) SaveLeaveBalances(_ context.Context, b planner.LeaveBalances) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leaveBalances[yearKey{UserID: b.UserID, Year: b.Year}] = b
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.init()
	return nil
}
