/*
planned.go - Planned hours for a date

PURPOSE:
  Answers "how many hours should have been worked on this date?". The answer
  is a priority chain, not a blend: exactly one source decides.

PRIORITY CHAIN:
  1. Hard closure:    a covering closure with can_work=false    -> 0
  2. Month template:  day-of-month override, else matching rules (generation only)
  3. Base schedule:   the active entry for the weekday, else    -> 0
  4. Contract:        contract_hours_week / 5 Monday-Friday, weekends 0

TWO RESOLVERS:
  PlannedResolver drives the live balance series and never looks at a
  template (steps 1, 3, 4). TemplateResolver drives year generation
  (steps 1, 2). Keeping them apart means generating drafts can never change
  what the balance expects.

EXAMPLE:
  r := NewPlannedResolver(nil, decimal.NewFromInt(20), closures)
  r.Planned(calendar.MustParseDay("2026-01-06")) // 4 (Tuesday, 20/5)
  r.Planned(calendar.MustParseDay("2026-01-10")) // 0 (Saturday)
*/
package planner

import (
	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
)

var workdaysPerWeek = decimal.NewFromInt(5)

// =============================================================================
// PLANNED RESOLVER - Balance-series path
// =============================================================================

// PlannedResolver resolves planned hours from closures, the base schedule
// and the weekly contract.
type PlannedResolver struct {
	closures    map[string][]Closure
	weekdays    map[int]decimal.Decimal
	hasSchedule bool
	perWorkday  decimal.Decimal
}

// NewPlannedResolver builds the weekday lookup once. Inactive schedule
// entries are ignored; if none is active the contract fallback applies.
func NewPlannedResolver(schedule []BaseScheduleEntry, contractHoursWeek decimal.Decimal, closures map[string][]Closure) *PlannedResolver {
	r := &PlannedResolver{
		closures:   closures,
		weekdays:   make(map[int]decimal.Decimal),
		perWorkday: contractHoursWeek.Div(workdaysPerWeek),
	}
	for _, e := range schedule {
		if !e.Active {
			continue
		}
		r.hasSchedule = true
		r.weekdays[e.Weekday] = e.PlannedHours
	}
	return r
}

// HardClosed reports whether a blocking closure covers the date.
func (r *PlannedResolver) HardClosed(day calendar.Day) bool {
	return IsHardClosed(r.closures[day.String()])
}

// UsesBaseSchedule reports whether any active schedule entry exists.
func (r *PlannedResolver) UsesBaseSchedule() bool { return r.hasSchedule }

// Planned returns the planned hours for a date.
func (r *PlannedResolver) Planned(day calendar.Day) decimal.Decimal {
	if r.HardClosed(day) {
		return decimal.Zero
	}
	if r.hasSchedule {
		if hours, ok := r.weekdays[day.WeekdayIndex()]; ok {
			return hours
		}
		return decimal.Zero
	}
	if day.IsWeekend() {
		return decimal.Zero
	}
	return r.perWorkday
}

// =============================================================================
// TEMPLATE RESOLVER - Generation path
// =============================================================================

// TemplateResolver resolves the hours a month template plans for a date.
type TemplateResolver struct {
	template MonthTemplate
	closures map[string][]Closure
}

// NewTemplateResolver wraps a template and the closure map.
func NewTemplateResolver(template MonthTemplate, closures map[string][]Closure) *TemplateResolver {
	return &TemplateResolver{template: template, closures: closures}
}

// HardClosed reports whether a blocking closure covers the date.
func (r *TemplateResolver) HardClosed(day calendar.Day) bool {
	return IsHardClosed(r.closures[day.String()])
}

// Hours returns the template hours for a date: zero when hard closed, the
// day override when set, otherwise the sum over matching rules.
func (r *TemplateResolver) Hours(day calendar.Day) decimal.Decimal {
	if r.HardClosed(day) {
		return decimal.Zero
	}
	if override := r.template.DayOverride(day.DayOfMonth()); override.IsPositive() {
		return override
	}
	total := decimal.Zero
	for _, rule := range r.template.Rules {
		if RuleMatchesDate(rule, day) {
			total = total.Add(rule.Hours)
		}
	}
	return total
}

// RuleMatchesDate reports whether a rule plans hours on the date.
// Weekly rules match on weekday alone. Biweekly rules also require the date
// to fall on or after the anchor, in a week that is a multiple of the
// interval away from it.
func RuleMatchesDate(rule MonthTemplateRule, day calendar.Day) bool {
	if !rule.HasWeekday(day.WeekdayIndex()) {
		return false
	}
	switch rule.RuleType {
	case RuleWeekly:
		return true
	case RuleBiweekly:
		if rule.StartsOn.IsZero() {
			return false
		}
		since := day.DaysSince(rule.StartsOn)
		if since < 0 {
			return false
		}
		interval := rule.IntervalWeeks
		if interval < 1 {
			interval = 1
		}
		return (since/7)%interval == 0
	default:
		return false
	}
}
