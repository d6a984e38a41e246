/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Hours travel as JSON
  numbers and dates as YYYY-MM-DD strings; the planner works on decimals
  and calendar.Day. The conversion happens here, in one place.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Records:
    WorkEntryDTO, LeaveEntryDTO, BaseScheduleEntryDTO, ClosureDTO,
    VacationDTO, ProfileDTO, YearSettingsDTO, LeaveBalancesDTO

  Derived:
    DashboardDTO, BalanceDTO, BalancePointDTO, MonthDTO, HolidayDTO

  Generation:
    GenerateRequest, GenerateResponse (templates use factory.TemplateJSON)

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Request types convert themselves into planner records and return a
  planner.FieldError for the first bad field. Handlers map that to 400.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/template.go: TemplateJSON type
*/
package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
)

// =============================================================================
// WORK AND LEAVE
// =============================================================================

// WorkEntryDTO represents a worked shift.
type WorkEntryDTO struct {
	ID        string  `json:"id"`
	WorkDate  string  `json:"work_date"`
	Hours     float64 `json:"hours"`
	Status    string  `json:"status"`
	ShiftType string  `json:"shift_type"`
	Notes     string  `json:"notes,omitempty"`
}

// WorkEntryRequest creates or replaces a work entry.
// Status defaults to draft, shift type to none.
type WorkEntryRequest struct {
	ID        string  `json:"id,omitempty"`
	WorkDate  string  `json:"work_date"`
	Hours     float64 `json:"hours"`
	Status    string  `json:"status,omitempty"`
	ShiftType string  `json:"shift_type,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// LeaveEntryDTO represents hours of leave on a date.
type LeaveEntryDTO struct {
	ID        string  `json:"id"`
	LeaveDate string  `json:"leave_date"`
	Hours     float64 `json:"hours"`
	LeaveType string  `json:"leave_type"`
	Notes     string  `json:"notes,omitempty"`
}

// LeaveEntryRequest creates a leave entry. Leave type defaults to regular.
type LeaveEntryRequest struct {
	ID        string  `json:"id,omitempty"`
	LeaveDate string  `json:"leave_date"`
	Hours     float64 `json:"hours"`
	LeaveType string  `json:"leave_type,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// LeaveEntryResponse reports the saved leave and the work entries it replaced.
type LeaveEntryResponse struct {
	Entry              LeaveEntryDTO `json:"entry"`
	RemovedWorkEntries int           `json:"removed_work_entries"`
}

func (req WorkEntryRequest) toEntry(userID string) (planner.WorkEntry, error) {
	date, err := parseDateField("work_date", req.WorkDate)
	if err != nil {
		return planner.WorkEntry{}, err
	}
	if req.Hours <= 0 {
		return planner.WorkEntry{}, &planner.FieldError{Field: "hours", Message: "must be positive"}
	}
	status := planner.EntryStatus(orDefault(req.Status, string(planner.StatusDraft)))
	if !status.Valid() {
		return planner.WorkEntry{}, &planner.FieldError{Field: "status", Message: "must be draft or final"}
	}
	shift := planner.ShiftType(orDefault(req.ShiftType, string(planner.ShiftNone)))
	if !shift.Valid() {
		return planner.WorkEntry{}, &planner.FieldError{Field: "shift_type", Message: "must be day, evening, night, kto or none"}
	}
	return planner.WorkEntry{
		ID:        orDefault(req.ID, uuid.NewString()),
		UserID:    userID,
		WorkDate:  date,
		Hours:     planner.H(req.Hours),
		Status:    status,
		ShiftType: shift,
		Notes:     strings.TrimSpace(req.Notes),
	}, nil
}

func (req LeaveEntryRequest) toEntry(userID string) (planner.LeaveEntry, error) {
	date, err := parseDateField("leave_date", req.LeaveDate)
	if err != nil {
		return planner.LeaveEntry{}, err
	}
	if req.Hours <= 0 {
		return planner.LeaveEntry{}, &planner.FieldError{Field: "hours", Message: "must be positive"}
	}
	lt := planner.LeaveType(orDefault(req.LeaveType, string(planner.LeaveRegular)))
	if !lt.Valid() {
		return planner.LeaveEntry{}, &planner.FieldError{Field: "leave_type", Message: "must be regular or balance"}
	}
	return planner.LeaveEntry{
		ID:        orDefault(req.ID, uuid.NewString()),
		UserID:    userID,
		LeaveDate: date,
		Hours:     planner.H(req.Hours),
		LeaveType: lt,
		Notes:     strings.TrimSpace(req.Notes),
	}, nil
}

func toWorkEntryDTO(e planner.WorkEntry) WorkEntryDTO {
	return WorkEntryDTO{
		ID:        e.ID,
		WorkDate:  e.WorkDate.String(),
		Hours:     toFloat(e.Hours),
		Status:    string(e.Status),
		ShiftType: string(e.ShiftType),
		Notes:     e.Notes,
	}
}

func toLeaveEntryDTO(e planner.LeaveEntry) LeaveEntryDTO {
	return LeaveEntryDTO{
		ID:        e.ID,
		LeaveDate: e.LeaveDate.String(),
		Hours:     toFloat(e.Hours),
		LeaveType: string(e.LeaveType),
		Notes:     e.Notes,
	}
}

// =============================================================================
// SCHEDULE, CLOSURES, VACATIONS
// =============================================================================

// BaseScheduleEntryDTO is the standing plan for one weekday (0 = Monday).
type BaseScheduleEntryDTO struct {
	Weekday      int     `json:"weekday"`
	PlannedHours float64 `json:"planned_hours"`
	Active       bool    `json:"active"`
	Notes        string  `json:"notes,omitempty"`
}

func (d BaseScheduleEntryDTO) toEntry(userID string) (planner.BaseScheduleEntry, error) {
	if d.Weekday < 0 || d.Weekday > 6 {
		return planner.BaseScheduleEntry{}, &planner.FieldError{Field: "weekday", Message: "must be 0 (Monday) to 6 (Sunday)"}
	}
	if d.PlannedHours < 0 {
		return planner.BaseScheduleEntry{}, &planner.FieldError{Field: "planned_hours", Message: "must not be negative"}
	}
	return planner.BaseScheduleEntry{
		UserID:       userID,
		Weekday:      d.Weekday,
		PlannedHours: planner.H(d.PlannedHours),
		Active:       d.Active,
		Notes:        strings.TrimSpace(d.Notes),
	}, nil
}

func toBaseScheduleDTO(e planner.BaseScheduleEntry) BaseScheduleEntryDTO {
	return BaseScheduleEntryDTO{
		Weekday:      e.Weekday,
		PlannedHours: toFloat(e.PlannedHours),
		Active:       e.Active,
		Notes:        e.Notes,
	}
}

// ClosureDTO represents a company closure.
type ClosureDTO struct {
	ID        string `json:"id,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
	CanWork   bool   `json:"can_work"`
}

func (d ClosureDTO) toClosure(userID string) (planner.Closure, error) {
	start, end, err := parseRange(d.StartDate, d.EndDate)
	if err != nil {
		return planner.Closure{}, err
	}
	return planner.Closure{
		ID:        orDefault(d.ID, uuid.NewString()),
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(d.Reason),
		CanWork:   d.CanWork,
	}, nil
}

func toClosureDTO(c planner.Closure) ClosureDTO {
	return ClosureDTO{
		ID:        c.ID,
		StartDate: c.StartDate.String(),
		EndDate:   c.EndDate.String(),
		Reason:    c.Reason,
		CanWork:   c.CanWork,
	}
}

// VacationDTO represents a regional or personal vacation.
type VacationDTO struct {
	ID        string `json:"id,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
}

func (d VacationDTO) toVacation(userID string) (planner.Vacation, error) {
	start, end, err := parseRange(d.StartDate, d.EndDate)
	if err != nil {
		return planner.Vacation{}, err
	}
	kind := planner.VacationKind(orDefault(d.Kind, string(planner.VacationRegion)))
	if !kind.Valid() {
		return planner.Vacation{}, &planner.FieldError{Field: "kind", Message: "must be region or personal"}
	}
	return planner.Vacation{
		ID:        orDefault(d.ID, uuid.NewString()),
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Name:      strings.TrimSpace(d.Name),
		Kind:      kind,
	}, nil
}

func toVacationDTO(v planner.Vacation) VacationDTO {
	return VacationDTO{
		ID:        v.ID,
		StartDate: v.StartDate.String(),
		EndDate:   v.EndDate.String(),
		Name:      v.DisplayName(),
		Kind:      string(v.Kind),
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

// ProfileDTO holds per-user settings.
type ProfileDTO struct {
	ContractHoursWeek float64 `json:"contract_hours_week"`
}

// YearSettingsDTO holds the hours carried into a year.
type YearSettingsDTO struct {
	Year           int     `json:"year"`
	CarryoverHours float64 `json:"carryover_hours"`
}

// LeaveBalancesDTO is the leave entitlement a year starts with.
type LeaveBalancesDTO struct {
	Year         int     `json:"year"`
	RegularHours float64 `json:"regular_hours"`
	BalanceHours float64 `json:"balance_hours"`
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// BalancePointDTO is one day of the balance series.
type BalancePointDTO struct {
	Date       string  `json:"date"`
	Planned    float64 `json:"planned"`
	Actual     float64 `json:"actual"`
	Delta      float64 `json:"delta"`
	Cumulative float64 `json:"cumulative"`
}

// MonthDTO is one month of the year overview.
type MonthDTO struct {
	Month   string  `json:"month"` // YYYY-MM
	Delta   float64 `json:"delta"`
	Balance float64 `json:"balance"`
}

// TotalsDTO are planned and actual hours over a stretch of the year.
type TotalsDTO struct {
	Planned float64 `json:"planned"`
	Actual  float64 `json:"actual"`
	Delta   float64 `json:"delta"`
}

// LeaveSplitDTO is leave hours split by type.
type LeaveSplitDTO struct {
	Regular float64 `json:"regular"`
	Balance float64 `json:"balance"`
}

// HolidayDTO is a named public holiday.
type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// DayDTO is everything known about one date of the year.
type DayDTO struct {
	Date      string   `json:"date"`
	Planned   float64  `json:"planned"`
	Worked    float64  `json:"worked"`
	Leave     float64  `json:"leave"`
	HasDraft  bool     `json:"has_draft,omitempty"`
	HasFinal  bool     `json:"has_final,omitempty"`
	Holiday   string   `json:"holiday,omitempty"`
	Closed    bool     `json:"closed,omitempty"`
	Vacations []string `json:"vacations,omitempty"`
}

// BalanceDTO is the headline balance summary.
type BalanceDTO struct {
	UserID         string    `json:"user_id"`
	Year           int       `json:"year"`
	AsOf           string    `json:"as_of"`
	BalanceAsOf    float64   `json:"balance_as_of"`
	YearEndBalance float64   `json:"year_end_balance"`
	YTD            TotalsDTO `json:"ytd"`
}

// DashboardDTO is the full year view.
type DashboardDTO struct {
	BalanceDTO
	UsesBaseSchedule bool          `json:"uses_base_schedule"`
	Months           []MonthDTO    `json:"months"`
	Days             []DayDTO      `json:"days"`
	LeaveTaken       LeaveSplitDTO `json:"leave_taken"`
	LeaveRemaining   LeaveSplitDTO `json:"leave_remaining"`
}

func toBalanceDTO(userID string, d planner.Dashboard) BalanceDTO {
	return BalanceDTO{
		UserID:         userID,
		Year:           d.Year,
		AsOf:           d.AsOf.String(),
		BalanceAsOf:    toFloat(d.BalanceAsOf),
		YearEndBalance: toFloat(d.YearEndBalance),
		YTD: TotalsDTO{
			Planned: toFloat(d.YTD.Planned),
			Actual:  toFloat(d.YTD.Actual),
			Delta:   toFloat(d.YTD.Delta),
		},
	}
}

func toMonthDTOs(d planner.Dashboard) []MonthDTO {
	months := make([]MonthDTO, len(d.MonthlyPoints))
	for i, mp := range d.MonthlyPoints {
		months[i] = MonthDTO{
			Month:   mp.Key,
			Delta:   toFloat(d.MonthDeltas[mp.Key]),
			Balance: toFloat(mp.Value),
		}
	}
	return months
}

func toSeriesDTOs(series []planner.BalancePoint) []BalancePointDTO {
	points := make([]BalancePointDTO, len(series))
	for i, p := range series {
		points[i] = BalancePointDTO{
			Date:       p.ISO,
			Planned:    toFloat(p.Planned),
			Actual:     toFloat(p.Actual),
			Delta:      toFloat(planner.Round2(p.Delta())),
			Cumulative: toFloat(p.Cumulative),
		}
	}
	return points
}

func toDayDTOs(d planner.Dashboard) []DayDTO {
	closed := planner.HardClosedDates(d.Closures)
	days := make([]DayDTO, len(d.Series))
	for i, p := range d.Series {
		work := d.WorkTotals[p.ISO]
		day := DayDTO{
			Date:     p.ISO,
			Planned:  toFloat(p.Planned),
			Worked:   toFloat(work.Hours),
			Leave:    toFloat(d.LeaveTotals[p.ISO].Hours),
			HasDraft: work.HasDraft,
			HasFinal: work.HasFinal,
			Holiday:  d.Holidays[p.ISO],
			Closed:   closed[p.ISO],
		}
		for _, v := range d.Vacations[p.ISO] {
			day.Vacations = append(day.Vacations, v.DisplayName())
		}
		days[i] = day
	}
	return days
}

func toLeaveSplitDTO(s planner.LeaveSplit) LeaveSplitDTO {
	return LeaveSplitDTO{Regular: toFloat(s.Regular), Balance: toFloat(s.Balance)}
}

// =============================================================================
// GENERATION
// =============================================================================

// GenerateRequest asks for a year of drafts from a saved template.
type GenerateRequest struct {
	TemplateID string `json:"template_id"`
	Year       int    `json:"year"`
	Policy     string `json:"policy"` // overwrite, skip, only_empty
}

// GenerateResponse reports what a generation run changed.
type GenerateResponse struct {
	Year    int    `json:"year"`
	Policy  string `json:"policy"`
	Deleted int    `json:"deleted"`
	Created int    `json:"created"`
}

// RolloverResultDTO reports one user's carryover into the next year.
type RolloverResultDTO struct {
	UserID         string  `json:"user_id"`
	FromYear       int     `json:"from_year"`
	ToYear         int     `json:"to_year"`
	CarryoverHours float64 `json:"carryover_hours"`
	Skipped        bool    `json:"skipped,omitempty"`
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// HELPERS
// =============================================================================

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func parseDateField(field, value string) (calendar.Day, error) {
	if value == "" {
		return calendar.Day{}, &planner.FieldError{Field: field, Message: "required"}
	}
	day, err := calendar.ParseDay(value)
	if err != nil {
		return calendar.Day{}, &planner.FieldError{Field: field, Message: "use YYYY-MM-DD"}
	}
	return day, nil
}

func parseRange(startValue, endValue string) (calendar.Day, calendar.Day, error) {
	start, err := parseDateField("start_date", startValue)
	if err != nil {
		return start, start, err
	}
	end, err := parseDateField("end_date", endValue)
	if err != nil {
		return start, end, err
	}
	if end.Before(start) {
		return start, end, &planner.FieldError{Field: "end_date", Message: "must not be before start_date"}
	}
	return start, end, nil
}
