/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the store with realistic
  data for demos. Every scenario writes records for the user "demo" in
  2026 and exercises a different way planned hours are resolved.

AVAILABLE SCENARIOS:
  part-time-contract:  Contract hours only, closures, leave and carryover
  base-schedule:       Weekday schedule replaces the contract fallback
  template-generation: Year of drafts generated from an alternating-weekend template

HOW SCENARIOS WORK:
 1. Reset store (clear all data)
 2. Save profile, year settings and leave balances
 3. Save schedule, closures, vacations
 4. Add work and leave entries (or generate them from a template)

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "base-schedule"}

NOTE:
  Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - factory/template.go: Template JSON presets
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/factory"
	"github.com/warp/hours-engine/planner"
)

// DemoUserID owns every record a scenario writes.
const DemoUserID = "demo"

const scenarioYear = 2026

var errUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "part-time-contract",
		Name:        "Part-Time Contract",
		Description: "24h/week contract without schedule: closures, leave and a carried-in surplus",
	},
	{
		ID:          "base-schedule",
		Name:        "Base Schedule",
		Description: "Monday to Thursday 8h schedule with a deficit carried in from last year",
	},
	{
		ID:          "template-generation",
		Name:        "Template Generation",
		Description: "Drafts generated from a weekday plus alternating-weekend template",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.loadScenario(r.Context(), req.ScenarioID); err != nil {
		if errors.Is(err, errUnknownScenario) {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		h.fail(w, r, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.Log.WithField("scenario", req.ScenarioID).Info("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase removes every record.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset store", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) loadScenario(ctx context.Context, id string) error {
	var load func(context.Context) error
	switch id {
	case "part-time-contract":
		load = h.loadPartTimeContractScenario
	case "base-schedule":
		load = h.loadBaseScheduleScenario
	case "template-generation":
		load = h.loadTemplateGenerationScenario
	default:
		return fmt.Errorf("%w: %q", errUnknownScenario, id)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		return err
	}
	h.currentScenario = id
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadPartTimeContractScenario(ctx context.Context) error {
	// 24h/week, no schedule: 4.8h planned every weekday
	if err := h.saveSettings(ctx, 24, 6, 120, 16); err != nil {
		return err
	}

	closures := []planner.Closure{
		{ID: "closure-xmas", StartDate: demoDay(12, 24), EndDate: demoDay(12, 31), Reason: "Kerstsluiting"},
		{ID: "closure-inventory", StartDate: demoDay(7, 17), EndDate: demoDay(7, 17), Reason: "Inventaris", CanWork: true},
	}
	for _, c := range closures {
		c.UserID = DemoUserID
		if err := h.Store.SaveClosure(ctx, c); err != nil {
			return err
		}
	}
	if err := h.Store.SaveVacation(ctx, planner.Vacation{
		ID: "vacation-summer", UserID: DemoUserID,
		StartDate: demoDay(7, 18), EndDate: demoDay(8, 30), Kind: planner.VacationRegion,
	}); err != nil {
		return err
	}

	// Three weeks of January: long Mondays, short Fridays
	var entries []planner.WorkEntry
	for week := 0; week < 3; week++ {
		monday := demoDay(1, 5).AddDays(7 * week)
		entries = append(entries,
			demoWork(fmt.Sprintf("w-%d-mon", week), monday, 7.5, planner.StatusFinal, planner.ShiftDay),
			demoWork(fmt.Sprintf("w-%d-wed", week), monday.AddDays(2), 4.8, planner.StatusFinal, planner.ShiftDay),
			demoWork(fmt.Sprintf("w-%d-thu", week), monday.AddDays(3), 4, planner.StatusFinal, planner.ShiftEvening),
			demoWork(fmt.Sprintf("w-%d-fri", week), monday.AddDays(4), 2.25, planner.StatusDraft, planner.ShiftKTO),
		)
	}
	if err := h.Store.SaveWorkEntries(ctx, entries); err != nil {
		return err
	}

	leave := []planner.LeaveEntry{
		{ID: "leave-1", LeaveDate: demoDay(1, 6), Hours: planner.H(4.8), LeaveType: planner.LeaveRegular, Notes: "Tandarts"},
		{ID: "leave-2", LeaveDate: demoDay(2, 16), Hours: planner.H(4.8), LeaveType: planner.LeaveBalance},
	}
	for _, l := range leave {
		l.UserID = DemoUserID
		if err := h.Store.SaveLeaveEntry(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadBaseScheduleScenario(ctx context.Context) error {
	if err := h.saveSettings(ctx, 32, -4, 160, 0); err != nil {
		return err
	}

	for weekday := 0; weekday < 7; weekday++ {
		hours := 0.0
		if weekday < 4 {
			hours = 8
		}
		err := h.Store.SaveBaseScheduleEntry(ctx, planner.BaseScheduleEntry{
			UserID:       DemoUserID,
			Weekday:      weekday,
			PlannedHours: planner.H(hours),
			Active:       true,
		})
		if err != nil {
			return err
		}
	}

	// January worked to plan, with an extra Friday and one short day
	var entries []planner.WorkEntry
	for _, day := range calendar.MonthPeriod(scenarioYear, 1).Days() {
		wd := day.WeekdayIndex()
		if wd >= 4 || day.DayOfMonth() == 1 {
			continue
		}
		hours := 8.0
		if day.DayOfMonth() == 14 {
			hours = 5.5
		}
		entries = append(entries, demoWork("w-"+day.String(), day, hours, planner.StatusFinal, planner.ShiftDay))
	}
	entries = append(entries, demoWork("w-extra-friday", demoDay(1, 16), 6, planner.StatusFinal, planner.ShiftDay))
	return h.Store.SaveWorkEntries(ctx, entries)
}

func (h *Handler) loadTemplateGenerationScenario(ctx context.Context) error {
	if err := h.saveSettings(ctx, 32, 0, 128, 8); err != nil {
		return err
	}
	if err := h.Store.SaveClosure(ctx, planner.Closure{
		ID: "closure-xmas", UserID: DemoUserID,
		StartDate: demoDay(12, 25), EndDate: demoDay(12, 31), Reason: "Kerstsluiting",
	}); err != nil {
		return err
	}

	tplJSON := factory.AlternatingWeekendsJSON("Alternating weekends", 5.6, 4, demoDay(1, 3))
	tpl, err := h.createTemplateFromJSON(ctx, tplJSON)
	if err != nil {
		return err
	}

	closures, err := h.Store.Closures(ctx, DemoUserID)
	if err != nil {
		return err
	}
	entries, err := planner.GenerateYear(planner.GenerateInput{
		UserID:   DemoUserID,
		Year:     scenarioYear,
		Template: tpl,
		Policy:   planner.PolicySkip,
		Closures: planner.ExpandRanges(closures),
	})
	if err != nil {
		return err
	}
	return h.Store.SaveWorkEntries(ctx, entries)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) saveSettings(ctx context.Context, contract, carryover, regularLeave, balanceLeave float64) error {
	if err := h.Store.SaveProfile(ctx, planner.ProfileSettings{
		UserID: DemoUserID, ContractHoursWeek: planner.H(contract),
	}); err != nil {
		return err
	}
	if err := h.Store.SaveYearSettings(ctx, planner.YearSettings{
		UserID: DemoUserID, Year: scenarioYear, CarryoverHours: planner.H(carryover),
	}); err != nil {
		return err
	}
	return h.Store.SaveLeaveBalances(ctx, planner.LeaveBalances{
		UserID: DemoUserID, Year: scenarioYear,
		RegularHours: planner.H(regularLeave), BalanceHours: planner.H(balanceLeave),
	})
}

func (h *Handler) createTemplateFromJSON(ctx context.Context, jsonStr string) (*planner.MonthTemplate, error) {
	tpl, err := h.Templates.ParseTemplate(jsonStr)
	if err != nil {
		return nil, err
	}
	tpl.UserID = DemoUserID
	if err := h.Store.SaveMonthTemplate(ctx, *tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func demoWork(id string, day calendar.Day, hours float64, status planner.EntryStatus, shift planner.ShiftType) planner.WorkEntry {
	return planner.WorkEntry{
		ID:        id,
		UserID:    DemoUserID,
		WorkDate:  day,
		Hours:     planner.H(hours),
		Status:    status,
		ShiftType: shift,
	}
}

func demoDay(month, day int) calendar.Day {
	return calendar.NewDay(scenarioYear, time.Month(month), day)
}
