/*
generate.go - Bulk draft generation from a month template

PURPOSE:
  Fills a year with draft work entries from a month template, so a user
  with a fixed roster does not enter 200 shifts by hand.

POLICIES:
  overwrite:   every non-closed date with template hours > 0 gets a draft.
               The caller deletes the year's existing entries first, so this
               policy is destructive and must be confirmed by the user.
  skip:        only dates without any existing entry get a draft.
  only_empty:  same outcome as skip today (see DESIGN.md, open question).

  Hard-closed dates are never generated, whatever the policy.

VALIDATION:
  ValidateGeneration rejects input before anything is generated:
  - no template selected            -> ErrTemplateRequired
  - biweekly rule without start date -> ErrRuleAnchorRequired
  - unknown policy                  -> ErrUnknownPolicy

SEE ALSO:
  - planned.go: TemplateResolver and RuleMatchesDate
  - factory/template.go: JSON templates
*/
package planner

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/warp/hours-engine/calendar"
)

// GeneratePolicy controls how existing entries are treated.
type GeneratePolicy string

const (
	PolicyOverwrite GeneratePolicy = "overwrite"
	PolicySkip      GeneratePolicy = "skip"
	PolicyOnlyEmpty GeneratePolicy = "only_empty"
)

// Valid reports whether the policy is one of the known values.
func (p GeneratePolicy) Valid() bool {
	switch p {
	case PolicyOverwrite, PolicySkip, PolicyOnlyEmpty:
		return true
	}
	return false
}

// Destructive reports whether the caller must delete existing entries first.
func (p GeneratePolicy) Destructive() bool { return p == PolicyOverwrite }

// skipsExisting reports whether dates with entries are left alone.
func (p GeneratePolicy) skipsExisting() bool {
	return p == PolicySkip || p == PolicyOnlyEmpty
}

// GenerateInput contains all inputs for year generation.
type GenerateInput struct {
	UserID   string
	Year     int
	Template *MonthTemplate
	Policy   GeneratePolicy

	// Number of existing work entries per ISO date.
	Existing map[string]int

	// Closures expanded per ISO date (see ExpandRanges).
	Closures map[string][]Closure
}

// ValidateTemplate checks a template's rules.
func ValidateTemplate(t *MonthTemplate) error {
	if t == nil {
		return ErrTemplateRequired
	}
	if t.MonthLength < 28 || t.MonthLength > 31 {
		return fmt.Errorf("%w: month length %d (want 28-31)", ErrInvalidTemplate, t.MonthLength)
	}
	for _, d := range t.Days {
		if d.Day < 1 || d.Day > t.MonthLength {
			return fmt.Errorf("%w: day %d outside 1-%d", ErrInvalidTemplate, d.Day, t.MonthLength)
		}
		if d.Hours.IsNegative() {
			return fmt.Errorf("%w: negative hours on day %d", ErrInvalidTemplate, d.Day)
		}
	}
	for i, r := range t.Rules {
		switch r.RuleType {
		case RuleWeekly:
		case RuleBiweekly:
			if r.StartsOn.IsZero() {
				return &RuleError{Index: i, Err: ErrRuleAnchorRequired}
			}
			if r.IntervalWeeks < 1 {
				return &RuleError{Index: i, Err: fmt.Errorf("%w: interval must be at least 1 week", ErrInvalidTemplate)}
			}
		default:
			return &RuleError{Index: i, Err: fmt.Errorf("%w: rule type %q", ErrInvalidTemplate, r.RuleType)}
		}
		for _, w := range r.Weekdays {
			if w < 0 || w > 6 {
				return &RuleError{Index: i, Err: fmt.Errorf("%w: weekday %d", ErrInvalidTemplate, w)}
			}
		}
		if r.Hours.IsNegative() {
			return &RuleError{Index: i, Err: fmt.Errorf("%w: negative hours", ErrInvalidTemplate)}
		}
	}
	return nil
}

// ValidateGeneration checks generation input before any entry is built.
func ValidateGeneration(in GenerateInput) error {
	if in.Template == nil {
		return ErrTemplateRequired
	}
	if !in.Policy.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, in.Policy)
	}
	return ValidateTemplate(in.Template)
}

// GenerateYear builds the draft entries a template produces for a year.
// Entries are returned in date order and are not persisted.
func GenerateYear(in GenerateInput) ([]WorkEntry, error) {
	if err := ValidateGeneration(in); err != nil {
		return nil, err
	}

	resolver := NewTemplateResolver(*in.Template, in.Closures)
	notes := "Template: " + in.Template.Name

	var entries []WorkEntry
	for _, day := range calendar.YearPeriod(in.Year).Days() {
		if resolver.HardClosed(day) {
			continue
		}
		iso := day.String()
		if in.Policy.skipsExisting() && in.Existing[iso] > 0 {
			continue
		}
		hours := resolver.Hours(day)
		if !hours.IsPositive() {
			continue
		}
		entries = append(entries, WorkEntry{
			ID:        uuid.NewString(),
			UserID:    in.UserID,
			WorkDate:  day,
			Hours:     hours,
			Status:    StatusDraft,
			ShiftType: ShiftNone,
			Notes:     notes,
		})
	}
	return entries, nil
}

// CountByDate counts work entries per ISO date.
func CountByDate(entries []WorkEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.WorkDate.String()]++
	}
	return counts
}
