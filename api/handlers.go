/*
handlers.go - HTTP API handlers for the hours balance engine

PURPOSE:
  Exposes the planner via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the planner package for every derived
  value. Handlers never compute balances themselves.

ENDPOINTS:
  Derived (all accept ?year=, dashboard/balance also ?as_of=&show_draft=&show_final=):
    GET    /api/users/{userID}/dashboard       Full year view
    GET    /api/users/{userID}/balance         Balance today, year end, YTD
    GET    /api/users/{userID}/series          Daily balance series
    GET    /api/users/{userID}/months          Month deltas and month-end balances
    GET    /api/users/{userID}/holidays        Public holidays of the year

  Records:
    GET|POST        /api/users/{userID}/work-entries
    GET|PUT|DELETE  /api/users/{userID}/work-entries/{id}
    GET|POST        /api/users/{userID}/leave-entries      (POST replaces the date's work)
    DELETE          /api/users/{userID}/leave-entries/{id}
    GET|PUT         /api/users/{userID}/base-schedule
    GET|POST        /api/users/{userID}/closures,  DELETE .../closures/{id}
    GET|POST        /api/users/{userID}/vacations, DELETE .../vacations/{id}
    GET|PUT         /api/users/{userID}/profile
    GET|PUT         /api/users/{userID}/years/{year}/settings
    GET|PUT         /api/users/{userID}/years/{year}/leave-balances

  Templates:
    GET|POST        /api/users/{userID}/templates
    GET|DELETE      /api/users/{userID}/templates/{id}
    POST            /api/users/{userID}/generate

  Rollover:
    POST   /api/users/{userID}/rollover        Carry one user's year end forward
    POST   /api/rollover                       Same for every user

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: planner.Store (SQLite in production, memory in tests)
  - Holidays: display-only holiday calendar
  - Templates: JSON to MonthTemplate conversion

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (duplicate id)
  - 500: Internal errors (logged)

SECURITY NOTE:
  No authentication. The user id in the path is trusted.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/factory"
	"github.com/warp/hours-engine/planner"
)

// Years the API accepts in a year parameter.
const (
	MinYear = 2026
	MaxYear = 2030
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     planner.Store
	Holidays  calendar.HolidayProvider
	Templates *factory.TemplateFactory
	Log       logrus.FieldLogger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store and holidays.
func NewHandler(store planner.Store, holidays calendar.HolidayProvider) *Handler {
	if holidays == nil {
		holidays = calendar.NoHolidays{}
	}
	return &Handler{
		Store:     store,
		Holidays:  holidays,
		Templates: factory.NewTemplateFactory(),
		Log:       logrus.StandardLogger(),
	}
}

// =============================================================================
// DERIVED VALUE HANDLERS
// =============================================================================

// GetDashboard returns the full year view.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, dash, err := h.compute(r)
	if err != nil {
		h.fail(w, r, "Failed to compute dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, DashboardDTO{
		BalanceDTO:       toBalanceDTO(userID, dash),
		UsesBaseSchedule: dash.UsesBaseSchedule,
		Months:           toMonthDTOs(dash),
		Days:             toDayDTOs(dash),
		LeaveTaken:       toLeaveSplitDTO(dash.LeaveTaken),
		LeaveRemaining:   toLeaveSplitDTO(dash.LeaveRemaining),
	})
}

// GetBalance returns balance as of a date, year end and year-to-date totals.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, dash, err := h.compute(r)
	if err != nil {
		h.fail(w, r, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(userID, dash))
}

// GetSeries returns the daily balance series.
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	_, dash, err := h.compute(r)
	if err != nil {
		h.fail(w, r, "Failed to compute series", err)
		return
	}
	writeJSON(w, http.StatusOK, toSeriesDTOs(dash.Series))
}

// GetMonths returns the twelve month deltas and month-end balances.
func (h *Handler) GetMonths(w http.ResponseWriter, r *http.Request) {
	_, dash, err := h.compute(r)
	if err != nil {
		h.fail(w, r, "Failed to compute months", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthDTOs(dash))
}

// ListHolidays returns the public holidays of a year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	dtos := []HolidayDTO{}
	for _, hol := range h.Holidays.Holidays(year) {
		dtos = append(dtos, HolidayDTO{Date: hol.Date.String(), Name: hol.Name})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) compute(r *http.Request) (string, planner.Dashboard, error) {
	userID := chi.URLParam(r, "userID")
	year, err := yearParam(r)
	if err != nil {
		return userID, planner.Dashboard{}, err
	}
	opts, err := dashboardOptions(r)
	if err != nil {
		return userID, planner.Dashboard{}, err
	}
	opts.Holidays = h.Holidays

	snap, err := planner.LoadSnapshot(r.Context(), h.Store, userID, year)
	if err != nil {
		return userID, planner.Dashboard{}, err
	}
	return userID, planner.Compute(snap, opts), nil
}

// =============================================================================
// WORK ENTRY HANDLERS
// =============================================================================

// ListWorkEntries returns a user's work entries, optionally for one ?year=.
func (h *Handler) ListWorkEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.WorkEntries(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Failed to list work entries", err)
		return
	}
	year, err := optionalYearParam(r)
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	dtos := []WorkEntryDTO{}
	for _, e := range entries {
		if year == 0 || e.WorkDate.Year() == year {
			dtos = append(dtos, toWorkEntryDTO(e))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorkEntry returns a single work entry.
func (h *Handler) GetWorkEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.WorkEntry(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Work entry not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkEntryDTO(*e))
}

// CreateWorkEntry adds a work entry. A client-chosen id that already exists is a conflict.
func (h *Handler) CreateWorkEntry(w http.ResponseWriter, r *http.Request) {
	var req WorkEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := req.toEntry(chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Invalid work entry", err)
		return
	}
	if err := h.Store.SaveWorkEntries(r.Context(), []planner.WorkEntry{entry}); err != nil {
		h.fail(w, r, "Failed to create work entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkEntryDTO(entry))
}

// UpdateWorkEntry replaces an existing work entry.
func (h *Handler) UpdateWorkEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, id := chi.URLParam(r, "userID"), chi.URLParam(r, "id")

	if _, err := h.Store.WorkEntry(ctx, userID, id); err != nil {
		h.fail(w, r, "Work entry not found", err)
		return
	}

	var req WorkEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = id

	entry, err := req.toEntry(userID)
	if err != nil {
		h.fail(w, r, "Invalid work entry", err)
		return
	}
	if err := h.Store.SaveWorkEntry(ctx, entry); err != nil {
		h.fail(w, r, "Failed to update work entry", err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkEntryDTO(entry))
}

// DeleteWorkEntry removes a work entry.
func (h *Handler) DeleteWorkEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteWorkEntry(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete work entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE ENTRY HANDLERS
// =============================================================================

// ListLeaveEntries returns a user's leave entries, optionally for one ?year=.
func (h *Handler) ListLeaveEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.LeaveEntries(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Failed to list leave entries", err)
		return
	}
	year, err := optionalYearParam(r)
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	dtos := []LeaveEntryDTO{}
	for _, e := range entries {
		if year == 0 || e.LeaveDate.Year() == year {
			dtos = append(dtos, toLeaveEntryDTO(e))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeaveEntry saves leave and removes the work entries on the same date.
func (h *Handler) CreateLeaveEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	var req LeaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	entry, err := req.toEntry(userID)
	if err != nil {
		h.fail(w, r, "Invalid leave entry", err)
		return
	}

	// Delete before save so a failed save never leaves work and leave on one date.
	removed, err := h.Store.DeleteWorkEntriesInPeriod(ctx, userID, calendar.NewPeriod(entry.LeaveDate, entry.LeaveDate))
	if err != nil {
		h.fail(w, r, "Failed to replace work entries", err)
		return
	}
	if err := h.Store.SaveLeaveEntry(ctx, entry); err != nil {
		h.fail(w, r, "Failed to create leave entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, LeaveEntryResponse{
		Entry:              toLeaveEntryDTO(entry),
		RemovedWorkEntries: removed,
	})
}

// DeleteLeaveEntry removes a leave entry.
func (h *Handler) DeleteLeaveEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteLeaveEntry(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete leave entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BASE SCHEDULE, CLOSURE AND VACATION HANDLERS
// =============================================================================

// GetBaseSchedule returns the stored weekday plan.
func (h *Handler) GetBaseSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.Store.BaseSchedule(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Failed to get base schedule", err)
		return
	}

	dtos := make([]BaseScheduleEntryDTO, len(schedule))
	for i, e := range schedule {
		dtos[i] = toBaseScheduleDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PutBaseSchedule upserts weekday rows. All rows are validated before any is saved.
func (h *Handler) PutBaseSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	var req []BaseScheduleEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entries := make([]planner.BaseScheduleEntry, 0, len(req))
	for _, d := range req {
		e, err := d.toEntry(userID)
		if err != nil {
			h.fail(w, r, "Invalid base schedule", err)
			return
		}
		entries = append(entries, e)
	}
	for _, e := range entries {
		if err := h.Store.SaveBaseScheduleEntry(ctx, e); err != nil {
			h.fail(w, r, "Failed to save base schedule", err)
			return
		}
	}

	h.GetBaseSchedule(w, r)
}

// ListClosures returns a user's closures.
func (h *Handler) ListClosures(w http.ResponseWriter, r *http.Request) {
	closures, err := h.Store.Closures(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Failed to list closures", err)
		return
	}

	dtos := make([]ClosureDTO, len(closures))
	for i, c := range closures {
		dtos[i] = toClosureDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClosure saves a closure.
func (h *Handler) CreateClosure(w http.ResponseWriter, r *http.Request) {
	var req ClosureDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	c, err := req.toClosure(chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Invalid closure", err)
		return
	}
	if err := h.Store.SaveClosure(r.Context(), c); err != nil {
		h.fail(w, r, "Failed to save closure", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClosureDTO(c))
}

// DeleteClosure removes a closure.
func (h *Handler) DeleteClosure(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteClosure(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete closure", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVacations returns a user's vacations.
func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	vacations, err := h.Store.Vacations(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Failed to list vacations", err)
		return
	}

	dtos := make([]VacationDTO, len(vacations))
	for i, v := range vacations {
		dtos[i] = toVacationDTO(v)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateVacation saves a vacation.
func (h *Handler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	var req VacationDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	v, err := req.toVacation(chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Invalid vacation", err)
		return
	}
	if err := h.Store.SaveVacation(r.Context(), v); err != nil {
		h.fail(w, r, "Failed to save vacation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toVacationDTO(v))
}

// DeleteVacation removes a vacation.
func (h *Handler) DeleteVacation(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteVacation(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete vacation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetProfile returns the profile, or the defaults if none was saved.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.Profile(r.Context(), chi.URLParam(r, "userID"))
	switch {
	case planner.IsNotFound(err):
		writeJSON(w, http.StatusOK, ProfileDTO{ContractHoursWeek: toFloat(planner.DefaultContractHoursWeek)})
	case err != nil:
		h.fail(w, r, "Failed to get profile", err)
	default:
		writeJSON(w, http.StatusOK, ProfileDTO{ContractHoursWeek: toFloat(p.ContractHoursWeek)})
	}
}

// PutProfile saves the profile.
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ContractHoursWeek < 0 {
		h.fail(w, r, "Invalid profile", &planner.FieldError{Field: "contract_hours_week", Message: "must not be negative"})
		return
	}

	err := h.Store.SaveProfile(r.Context(), planner.ProfileSettings{
		UserID:            chi.URLParam(r, "userID"),
		ContractHoursWeek: planner.H(req.ContractHoursWeek),
	})
	if err != nil {
		h.fail(w, r, "Failed to save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// GetYearSettings returns the carryover of a year (0 if never saved).
func (h *Handler) GetYearSettings(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	dto := YearSettingsDTO{Year: year}
	s, err := h.Store.YearSettings(r.Context(), chi.URLParam(r, "userID"), year)
	switch {
	case err == nil:
		dto.CarryoverHours = toFloat(s.CarryoverHours)
	case !planner.IsNotFound(err):
		h.fail(w, r, "Failed to get year settings", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// PutYearSettings saves the carryover of a year. Negative carryover is allowed.
func (h *Handler) PutYearSettings(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	var req YearSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.Year = year

	err = h.Store.SaveYearSettings(r.Context(), planner.YearSettings{
		UserID:         chi.URLParam(r, "userID"),
		Year:           year,
		CarryoverHours: planner.H(req.CarryoverHours),
	})
	if err != nil {
		h.fail(w, r, "Failed to save year settings", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// GetLeaveBalances returns the leave entitlement of a year (0 if never saved).
func (h *Handler) GetLeaveBalances(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	dto := LeaveBalancesDTO{Year: year}
	b, err := h.Store.LeaveBalances(r.Context(), chi.URLParam(r, "userID"), year)
	switch {
	case err == nil:
		dto.RegularHours = toFloat(b.RegularHours)
		dto.BalanceHours = toFloat(b.BalanceHours)
	case !planner.IsNotFound(err):
		h.fail(w, r, "Failed to get leave balances", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// PutLeaveBalances saves the leave entitlement of a year.
func (h *Handler) PutLeaveBalances(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	var req LeaveBalancesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.RegularHours < 0 || req.BalanceHours < 0 {
		h.fail(w, r, "Invalid leave balances", &planner.FieldError{Field: "regular_hours", Message: "leave hours must not be negative"})
		return
	}
	req.Year = year

	err = h.Store.SaveLeaveBalances(r.Context(), planner.LeaveBalances{
		UserID:       chi.URLParam(r, "userID"),
		Year:         year,
		RegularHours: planner.H(req.RegularHours),
		BalanceHours: planner.H(req.BalanceHours),
	})
	if err != nil {
		h.fail(w, r, "Failed to save leave balances", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// TEMPLATE HANDLERS
// =============================================================================

// ListTemplates returns a user's month templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Store.MonthTemplates(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, "Failed to list templates", err)
		return
	}

	dtos := make([]factory.TemplateJSON, len(templates))
	for i := range templates {
		dtos[i] = h.Templates.ToJSON(&templates[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTemplate returns a single month template.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.Store.MonthTemplate(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Template not found", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Templates.ToJSON(tpl))
}

// CreateTemplate validates and saves a month template from JSON.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req factory.TemplateJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tpl, err := h.Templates.FromJSON(req)
	if err != nil {
		h.fail(w, r, "Invalid template", err)
		return
	}
	tpl.UserID = chi.URLParam(r, "userID")

	if err := h.Store.SaveMonthTemplate(r.Context(), *tpl); err != nil {
		h.fail(w, r, "Failed to save template", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.Templates.ToJSON(tpl))
}

// DeleteTemplate removes a month template.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteMonthTemplate(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Generate fills a year with draft work entries from a saved template.
//
// With policy overwrite the year's work entries are deleted first. With
// skip or only_empty, dates that already have work are left alone.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		req.Year = calendar.Today().Year()
	}
	if err := checkYear(req.Year); err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	if req.TemplateID == "" {
		h.fail(w, r, "Template required", planner.ErrTemplateRequired)
		return
	}

	tpl, err := h.Store.MonthTemplate(ctx, userID, req.TemplateID)
	if err != nil {
		h.fail(w, r, "Template not found", err)
		return
	}
	in := planner.GenerateInput{
		UserID:   userID,
		Year:     req.Year,
		Template: tpl,
		Policy:   planner.GeneratePolicy(orDefault(req.Policy, string(planner.PolicySkip))),
	}
	if err := planner.ValidateGeneration(in); err != nil {
		h.fail(w, r, "Invalid generation request", err)
		return
	}

	resp := GenerateResponse{Year: req.Year, Policy: string(in.Policy)}
	if in.Policy.Destructive() {
		if resp.Deleted, err = h.Store.DeleteWorkEntriesInPeriod(ctx, userID, calendar.YearPeriod(req.Year)); err != nil {
			h.fail(w, r, "Failed to clear year", err)
			return
		}
	}

	existing, err := h.Store.WorkEntries(ctx, userID)
	if err != nil {
		h.fail(w, r, "Failed to load work entries", err)
		return
	}
	closures, err := h.Store.Closures(ctx, userID)
	if err != nil {
		h.fail(w, r, "Failed to load closures", err)
		return
	}
	in.Existing = planner.CountByDate(existing)
	in.Closures = planner.ExpandRanges(closures)

	entries, err := planner.GenerateYear(in)
	if err != nil {
		h.fail(w, r, "Failed to generate entries", err)
		return
	}
	if err := h.Store.SaveWorkEntries(ctx, entries); err != nil {
		h.fail(w, r, "Failed to save generated entries", err)
		return
	}
	resp.Created = len(entries)

	h.Log.WithFields(logrus.Fields{
		"user_id":  userID,
		"template": tpl.ID,
		"year":     req.Year,
		"policy":   in.Policy,
		"deleted":  resp.Deleted,
		"created":  resp.Created,
	}).Info("generated work entries from template")

	writeJSON(w, http.StatusCreated, resp)
}

// =============================================================================
// ROLLOVER HANDLERS
// =============================================================================

// RolloverRequest selects the year to close. Defaults to last year.
type RolloverRequest struct {
	FromYear  int  `json:"from_year,omitempty"`
	Overwrite bool `json:"overwrite,omitempty"`
}

// TriggerUserRollover carries one user's year-end balance into the next year.
func (h *Handler) TriggerUserRollover(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRolloverRequest(r)
	if err != nil {
		h.fail(w, r, "Invalid rollover request", err)
		return
	}

	result, err := planner.RollOver(r.Context(), h.Store, chi.URLParam(r, "userID"), req.FromYear, req.Overwrite)
	if err != nil {
		h.fail(w, r, "Failed to roll over", err)
		return
	}
	writeJSON(w, http.StatusOK, toRolloverDTO(result))
}

// TriggerRollover carries every user's year-end balance into the next year.
func (h *Handler) TriggerRollover(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRolloverRequest(r)
	if err != nil {
		h.fail(w, r, "Invalid rollover request", err)
		return
	}

	results, err := rollOverAll(r.Context(), h.Store, h.Log, req.FromYear, req.Overwrite)
	if err != nil {
		h.fail(w, r, "Failed to roll over", err)
		return
	}

	dtos := make([]RolloverResultDTO, len(results))
	for i, res := range results {
		dtos[i] = toRolloverDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func decodeRolloverRequest(r *http.Request) (RolloverRequest, error) {
	var req RolloverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: %v", planner.ErrInvalidRecord, err)
	}
	if req.FromYear == 0 {
		req.FromYear = calendar.Today().Year() - 1
	}
	if err := checkYear(req.FromYear + 1); err != nil {
		return req, &planner.FieldError{
			Field:   "from_year",
			Message: fmt.Sprintf("must be between %d and %d", MinYear-1, MaxYear-1),
		}
	}
	return req, nil
}

func toRolloverDTO(res planner.RolloverResult) RolloverResultDTO {
	return RolloverResultDTO{
		UserID:         res.UserID,
		FromYear:       res.FromYear,
		ToYear:         res.ToYear,
		CarryoverHours: toFloat(res.CarryoverHours),
		Skipped:        res.Skipped,
	}
}

// ListUsers returns every user with stored records.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Store.UserIDs(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list users", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps planner errors to a status code. Server errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case planner.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case planner.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case planner.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		h.Log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func checkYear(year int) error {
	if year < MinYear || year > MaxYear {
		return &planner.FieldError{Field: "year", Message: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear)}
	}
	return nil
}

// yearParam reads {year} from the path or ?year=, defaulting to this year.
func yearParam(r *http.Request) (int, error) {
	year, err := optionalYearParam(r)
	if err != nil || year != 0 {
		return year, err
	}
	return calendar.Today().Year(), nil
}

func optionalYearParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "year")
	if raw == "" {
		raw = r.URL.Query().Get("year")
	}
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &planner.FieldError{Field: "year", Message: "must be a number"}
	}
	return year, checkYear(year)
}

func dashboardOptions(r *http.Request) (planner.DashboardOptions, error) {
	q := r.URL.Query()
	opts := planner.DashboardOptions{Filter: planner.AllStatuses}

	if raw := q.Get("as_of"); raw != "" {
		day, err := parseDateField("as_of", raw)
		if err != nil {
			return opts, err
		}
		opts.AsOf = day
	}

	var err error
	if opts.Filter.ShowDraft, err = boolParam(r, "show_draft", true); err != nil {
		return opts, err
	}
	if opts.Filter.ShowFinal, err = boolParam(r, "show_final", true); err != nil {
		return opts, err
	}
	return opts, nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, &planner.FieldError{Field: name, Message: "must be true or false"}
	}
	return v, nil
}
