/*
Package factory provides JSON to Go month-template conversion.

PURPOSE:
  Converts JSON month templates into planner.MonthTemplate values. Rosters
  are edited in a form or pasted as JSON, and the factory turns them into
  validated templates the year generator can run.

JSON SCHEMA:
  {
    "id": "tpl-weekdays",
    "name": "Weekdays",
    "month_length": 31,
    "days": [
      {"day": 15, "hours": 4}
    ],
    "rules": [
      {"rule_type": "weekly", "weekdays": [0, 1, 2, 3, 4], "hours": 8},
      {"rule_type": "biweekly", "weekdays": [5], "hours": 6,
       "interval_weeks": 2, "starts_on": "2026-01-03"}
    ]
  }

DEFAULTS:
  - month_length omitted: 31
  - interval_weeks omitted on a biweekly rule: 2
  - id omitted: a new uuid
  - days with hours 0 are dropped (0 means "no override")
  - hours may be a number or a string; "7,5" reads as 7.5 and an
    unreadable string as 0

USAGE:
  factory := NewTemplateFactory()

  // From JSON string
  tpl, err := factory.ParseTemplate(jsonString)

  // From a preset
  tpl, err := factory.ParseTemplate(WeekdayTemplateJSON("Weekdays", 7.6))

SEE ALSO:
  - planner/types.go: MonthTemplate
  - planner/generate.go: ValidateTemplate and GenerateYear
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/calendar"
	"github.com/warp/hours-engine/planner"
)

const (
	defaultMonthLength   = 31
	defaultBiweeklyWeeks = 2
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TemplateJSON is the JSON representation of a month template.
type TemplateJSON struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	MonthLength int        `json:"month_length,omitempty"`
	Days        []DayJSON  `json:"days,omitempty"`
	Rules       []RuleJSON `json:"rules,omitempty"`
}

// DayJSON is a day-of-month override.
type DayJSON struct {
	Day   int   `json:"day"`
	Hours Hours `json:"hours"`
}

// RuleJSON is a recurring weekday rule.
type RuleJSON struct {
	RuleType      string `json:"rule_type"` // weekly, biweekly
	Weekdays      []int  `json:"weekdays"`  // 0 = Monday
	Hours         Hours  `json:"hours"`
	IntervalWeeks int    `json:"interval_weeks,omitempty"`
	StartsOn      string `json:"starts_on,omitempty"` // YYYY-MM-DD
}

// Hours is an hour value in template JSON. Numbers and strings are both
// accepted and read through planner.ParseHours.
type Hours struct {
	decimal.Decimal
}

// HoursOf wraps a float literal.
func HoursOf(v float64) Hours {
	return Hours{decimal.NewFromFloat(v)}
}

func (h *Hours) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		h.Decimal = decimal.Zero
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	h.Decimal = planner.ParseHours(raw)
	return nil
}

// MarshalJSON writes a plain JSON number.
func (h Hours) MarshalJSON() ([]byte, error) {
	return []byte(h.Decimal.String()), nil
}

// =============================================================================
// TEMPLATE FACTORY
// =============================================================================

// TemplateFactory converts JSON templates to planner templates.
type TemplateFactory struct{}

// NewTemplateFactory creates a new template factory.
func NewTemplateFactory() *TemplateFactory {
	return &TemplateFactory{}
}

// ParseTemplate parses and validates a JSON template.
func (f *TemplateFactory) ParseTemplate(jsonStr string) (*planner.MonthTemplate, error) {
	var tj TemplateJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return nil, fmt.Errorf("%w: failed to parse template JSON: %v", planner.ErrInvalidTemplate, err)
	}
	return f.FromJSON(tj)
}

// FromJSON converts TemplateJSON to a validated planner.MonthTemplate.
func (f *TemplateFactory) FromJSON(tj TemplateJSON) (*planner.MonthTemplate, error) {
	if tj.Name == "" {
		return nil, &planner.FieldError{Field: "name", Message: "required"}
	}

	tpl := &planner.MonthTemplate{
		ID:          tj.ID,
		Name:        tj.Name,
		MonthLength: tj.MonthLength,
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if tpl.MonthLength == 0 {
		tpl.MonthLength = defaultMonthLength
	}

	for _, dj := range tj.Days {
		if dj.Hours.IsZero() {
			continue
		}
		tpl.Days = append(tpl.Days, planner.MonthTemplateDay{Day: dj.Day, Hours: dj.Hours.Decimal})
	}

	for i, rj := range tj.Rules {
		rule, err := parseRule(rj)
		if err != nil {
			return nil, &planner.RuleError{Index: i, Err: err}
		}
		tpl.Rules = append(tpl.Rules, rule)
	}

	if err := planner.ValidateTemplate(tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// ToJSON converts a template to TemplateJSON.
func (f *TemplateFactory) ToJSON(tpl *planner.MonthTemplate) TemplateJSON {
	tj := TemplateJSON{
		ID:          tpl.ID,
		Name:        tpl.Name,
		MonthLength: tpl.MonthLength,
	}
	for _, d := range tpl.Days {
		tj.Days = append(tj.Days, DayJSON{Day: d.Day, Hours: Hours{d.Hours}})
	}
	for _, r := range tpl.Rules {
		rj := RuleJSON{
			RuleType: string(r.RuleType),
			Weekdays: r.Weekdays,
			Hours:    Hours{r.Hours},
			StartsOn: r.StartsOn.String(),
		}
		if r.RuleType == planner.RuleBiweekly {
			rj.IntervalWeeks = r.IntervalWeeks
		}
		tj.Rules = append(tj.Rules, rj)
	}
	return tj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseRule(rj RuleJSON) (planner.MonthTemplateRule, error) {
	rule := planner.MonthTemplateRule{
		RuleType: planner.RuleType(rj.RuleType),
		Weekdays: rj.Weekdays,
		Hours:    rj.Hours.Decimal,
	}
	if rule.RuleType == "" {
		rule.RuleType = planner.RuleWeekly
	}

	if rule.RuleType == planner.RuleBiweekly {
		rule.IntervalWeeks = rj.IntervalWeeks
		if rule.IntervalWeeks == 0 {
			rule.IntervalWeeks = defaultBiweeklyWeeks
		}
	}

	if rj.StartsOn != "" {
		day, err := calendar.ParseDay(rj.StartsOn)
		if err != nil {
			return rule, fmt.Errorf("%w: starts_on: %v", planner.ErrInvalidTemplate, err)
		}
		rule.StartsOn = day
	}
	return rule, nil
}

// =============================================================================
// PRESETS
// =============================================================================

// WeekdayTemplateJSON plans the same hours Monday through Friday.
func WeekdayTemplateJSON(name string, hoursPerDay float64) string {
	return mustJSON(TemplateJSON{
		Name:        name,
		MonthLength: defaultMonthLength,
		Rules: []RuleJSON{
			{RuleType: string(planner.RuleWeekly), Weekdays: []int{0, 1, 2, 3, 4}, Hours: HoursOf(hoursPerDay)},
		},
	})
}

// AlternatingWeekendsJSON plans weekday hours plus every other weekend,
// starting with the weekend of anchor (a Saturday).
func AlternatingWeekendsJSON(name string, weekdayHours, weekendHours float64, anchor calendar.Day) string {
	return mustJSON(TemplateJSON{
		Name:        name,
		MonthLength: defaultMonthLength,
		Rules: []RuleJSON{
			{RuleType: string(planner.RuleWeekly), Weekdays: []int{0, 1, 2, 3, 4}, Hours: HoursOf(weekdayHours)},
			{
				RuleType:      string(planner.RuleBiweekly),
				Weekdays:      []int{5, 6},
				Hours:         HoursOf(weekendHours),
				IntervalWeeks: defaultBiweeklyWeeks,
				StartsOn:      anchor.String(),
			},
		},
	})
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
