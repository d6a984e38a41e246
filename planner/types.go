/*
Package planner is the work-hour balance engine.

PURPOSE:
  Turns a sparse set of date-keyed facts (work entries, leave, a weekly base
  schedule or contract hours, closures, carryover) into a dense, date-ordered
  running balance of hours worked versus hours planned, plus the aggregates
  a dashboard shows (balance on a date, year-end projection, year-to-date
  totals, month deltas) and a template-driven generator for draft entries.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: decimal quantities, rounded to 2 places at every accumulation
  - Entities: immutable records supplied by the persistence collaborator
  - Enumerations: entry status, shift type, leave type, vacation kind

PIPELINE:
  records --> indexers (index.go) --> resolver (planned.go)
          --> series (series.go) --> aggregators (aggregate.go)

  Every step is a pure function of its inputs. Nothing here performs I/O;
  see store.go for the read/write contract the application layer fulfils.

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal, never float64, for hours
  2. Step rounding: running totals are rounded after EVERY addition, which
     is not the same as rounding the final sum
  3. Silent defaults: unparsable numbers and missing dates count as zero

SEE ALSO:
  - calendar package: Day and Period
  - series.go: The balance series generator
*/
package planner

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
)

// =============================================================================
// HOURS - Decimal quantities
// =============================================================================

// HoursPrecision is the number of decimal places kept at each step.
const HoursPrecision = 2

// Round2 rounds to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(HoursPrecision)
}

// H builds an hours value from a float literal.
func H(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// ParseHours parses a user-entered number. Anything unparsable is zero.
// A decimal comma ("7,5") is accepted.
func ParseHours(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// ENUMERATIONS
// =============================================================================

type EntryStatus string

const (
	StatusDraft EntryStatus = "draft"
	StatusFinal EntryStatus = "final"
)

func (s EntryStatus) Valid() bool { return s == StatusDraft || s == StatusFinal }

type ShiftType string

const (
	ShiftDay     ShiftType = "day"
	ShiftEvening ShiftType = "evening"
	ShiftNight   ShiftType = "night"
	ShiftKTO     ShiftType = "kto" // short-notice shift
	ShiftNone    ShiftType = "none"
)

func (s ShiftType) Valid() bool {
	switch s {
	case ShiftDay, ShiftEvening, ShiftNight, ShiftKTO, ShiftNone:
		return true
	}
	return false
}

type LeaveType string

const (
	LeaveRegular LeaveType = "regular"
	LeaveBalance LeaveType = "balance" // leave taken against the hours balance
)

func (t LeaveType) Valid() bool { return t == LeaveRegular || t == LeaveBalance }

type VacationKind string

const (
	VacationRegion   VacationKind = "region"
	VacationPersonal VacationKind = "personal"
)

func (k VacationKind) Valid() bool { return k == VacationRegion || k == VacationPersonal }

// =============================================================================
// ENTITIES
// =============================================================================

// WorkEntry is one worked shift. Several entries may share a date.
type WorkEntry struct {
	ID        string
	UserID    string
	WorkDate  calendar.Day
	Hours     decimal.Decimal
	Status    EntryStatus
	ShiftType ShiftType
	Notes     string
}

// LeaveEntry is hours off on a date. Leave counts as worked for the balance.
type LeaveEntry struct {
	ID        string
	UserID    string
	LeaveDate calendar.Day
	Hours     decimal.Decimal
	LeaveType LeaveType
	Notes     string
}

// BaseScheduleEntry is the standing planned hours for one weekday.
// Weekday is 0 (Monday) .. 6 (Sunday) and unique per user.
type BaseScheduleEntry struct {
	UserID       string
	Weekday      int
	PlannedHours decimal.Decimal
	Active       bool
	Notes        string
}

// Closure is a company closure. Planned hours drop to zero on its dates
// unless CanWork is set.
type Closure struct {
	ID        string
	UserID    string
	StartDate calendar.Day
	EndDate   calendar.Day
	Reason    string
	CanWork   bool
}

// DateRange implements Ranged.
func (c Closure) DateRange() calendar.Period { return calendar.NewPeriod(c.StartDate, c.EndDate) }

// Vacation is a school/regional or personal vacation. Display only.
type Vacation struct {
	ID        string
	UserID    string
	StartDate calendar.Day
	EndDate   calendar.Day
	Name      string
	Kind      VacationKind
}

// DateRange implements Ranged.
func (v Vacation) DateRange() calendar.Period { return calendar.NewPeriod(v.StartDate, v.EndDate) }

// DefaultVacationName is shown for vacations saved without a name.
const DefaultVacationName = "Vakantie"

// DisplayName returns the name or the default.
func (v Vacation) DisplayName() string {
	if strings.TrimSpace(v.Name) == "" {
		return DefaultVacationName
	}
	return v.Name
}

// DefaultContractHoursWeek is used for a profile that was never saved.
var DefaultContractHoursWeek = decimal.NewFromInt(20)

// ProfileSettings holds per-user settings.
type ProfileSettings struct {
	UserID            string
	ContractHoursWeek decimal.Decimal
}

// YearSettings holds the balance carried into a year.
type YearSettings struct {
	UserID         string
	Year           int
	CarryoverHours decimal.Decimal
}

// LeaveBalances is the leave entitlement a year starts with.
type LeaveBalances struct {
	UserID       string
	Year         int
	RegularHours decimal.Decimal
	BalanceHours decimal.Decimal
}

// =============================================================================
// MONTH TEMPLATES
// =============================================================================

type RuleType string

const (
	RuleWeekly   RuleType = "weekly"
	RuleBiweekly RuleType = "biweekly"
)

// MonthTemplate is a reusable pattern for generating a year of drafts.
type MonthTemplate struct {
	ID          string
	UserID      string
	Name        string
	MonthLength int
	Days        []MonthTemplateDay
	Rules       []MonthTemplateRule
}

// MonthTemplateDay overrides the hours of one day of the month.
// Zero hours means "no override".
type MonthTemplateDay struct {
	Day   int
	Hours decimal.Decimal
}

// MonthTemplateRule plans hours on recurring weekdays.
type MonthTemplateRule struct {
	RuleType      RuleType
	Weekdays      []int
	Hours         decimal.Decimal
	IntervalWeeks int          // biweekly only
	StartsOn      calendar.Day // biweekly anchor
}

// DayOverride returns the explicit hours for a day of the month, or zero.
func (t MonthTemplate) DayOverride(dayOfMonth int) decimal.Decimal {
	if t.MonthLength > 0 && dayOfMonth > t.MonthLength {
		return decimal.Zero
	}
	for _, d := range t.Days {
		if d.Day == dayOfMonth {
			return d.Hours
		}
	}
	return decimal.Zero
}

// HasWeekday reports whether the rule applies to a weekday index.
func (r MonthTemplateRule) HasWeekday(weekday int) bool {
	for _, w := range r.Weekdays {
		if w == weekday {
			return true
		}
	}
	return false
}
