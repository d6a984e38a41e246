package planner_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/planner"
)

func weekdayTemplate() *planner.MonthTemplate {
	return &planner.MonthTemplate{
		ID:          "tpl-1",
		UserID:      "user-1",
		Name:        "Weekdays",
		MonthLength: 31,
		Rules: []planner.MonthTemplateRule{
			{RuleType: planner.RuleWeekly, Weekdays: []int{0, 1, 2, 3, 4}, Hours: hours(8)},
		},
	}
}

// =============================================================================
// GENERATION
// =============================================================================

func TestGenerateYear_WeekdayTemplate(t *testing.T) {
	// GIVEN: Mon-Fri 8h template, no existing entries, no closures
	// WHEN: Generating 2026
	// THEN: One draft per weekday (261), each 8h with the template note

	entries, err := planner.GenerateYear(planner.GenerateInput{
		UserID:   "user-1",
		Year:     2026,
		Template: weekdayTemplate(),
		Policy:   planner.PolicySkip,
	})
	require.NoError(t, err)

	require.Len(t, entries, 261)
	first := entries[0]
	assert.Equal(t, "2026-01-01", first.WorkDate.String())
	assert.Equal(t, planner.StatusDraft, first.Status)
	assert.Equal(t, planner.ShiftNone, first.ShiftType)
	assert.Equal(t, "Template: Weekdays", first.Notes)
	assert.Equal(t, "user-1", first.UserID)
	assert.NotEmpty(t, first.ID)
	assertHours(t, 8, first.Hours)

	ids := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, e.WorkDate.IsWeekend(), e.WorkDate.String())
		assert.False(t, ids[e.ID], "duplicate id")
		ids[e.ID] = true
	}
}

func TestGenerateYear_SkipNeverTouchesExistingDates(t *testing.T) {
	// GIVEN: An existing entry on Monday 2026-01-05
	// WHEN: Generating with skip
	// THEN: No draft on 2026-01-05; the rest of the week is generated

	existing := planner.CountByDate([]planner.WorkEntry{work("w1", "2026-01-05", 2, planner.StatusFinal)})

	for _, policy := range []planner.GeneratePolicy{planner.PolicySkip, planner.PolicyOnlyEmpty} {
		t.Run(string(policy), func(t *testing.T) {
			entries, err := planner.GenerateYear(planner.GenerateInput{
				Year:     2026,
				Template: weekdayTemplate(),
				Policy:   policy,
				Existing: existing,
			})
			require.NoError(t, err)

			generated := planner.CountByDate(entries)
			assert.Zero(t, generated["2026-01-05"])
			assert.Equal(t, 1, generated["2026-01-06"])
			assert.Len(t, entries, 260)
		})
	}
}

func TestGenerateYear_OverwriteIgnoresExisting(t *testing.T) {
	existing := map[string]int{"2026-01-05": 1}

	entries, err := planner.GenerateYear(planner.GenerateInput{
		Year:     2026,
		Template: weekdayTemplate(),
		Policy:   planner.PolicyOverwrite,
		Existing: existing,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, planner.CountByDate(entries)["2026-01-05"])
	assert.True(t, planner.PolicyOverwrite.Destructive())
	assert.False(t, planner.PolicySkip.Destructive())
}

func TestGenerateYear_ClosuresExcluded(t *testing.T) {
	// GIVEN: A hard closure over Christmas week and a can-work closure on Jan 2
	closures := planner.ExpandRanges([]planner.Closure{
		closure("xmas", "2026-12-21", "2026-12-25", false),
		closure("soft", "2026-01-02", "2026-01-02", true),
	})

	entries, err := planner.GenerateYear(planner.GenerateInput{
		Year:     2026,
		Template: weekdayTemplate(),
		Policy:   planner.PolicySkip,
		Closures: closures,
	})
	require.NoError(t, err)

	byDate := planner.CountByDate(entries)
	for _, iso := range []string{"2026-12-21", "2026-12-22", "2026-12-23", "2026-12-24", "2026-12-25"} {
		assert.Zero(t, byDate[iso], iso)
	}
	assert.Equal(t, 1, byDate["2026-01-02"])
	assert.Len(t, entries, 256)
}

func TestGenerateYear_BiweeklyAndOverride(t *testing.T) {
	// GIVEN: Biweekly Saturday 6h from 2026-01-03, and day 15 fixed at 4h
	tpl := &planner.MonthTemplate{
		Name:        "Weekend roster",
		MonthLength: 31,
		Days:        []planner.MonthTemplateDay{{Day: 15, Hours: hours(4)}},
		Rules: []planner.MonthTemplateRule{
			{RuleType: planner.RuleBiweekly, Weekdays: []int{5}, Hours: hours(6), IntervalWeeks: 2, StartsOn: day("2026-01-03")},
		},
	}

	entries, err := planner.GenerateYear(planner.GenerateInput{Year: 2026, Template: tpl, Policy: planner.PolicySkip})
	require.NoError(t, err)

	byDate := make(map[string]string)
	for _, e := range entries {
		byDate[e.WorkDate.String()] = e.Hours.String()
	}
	assert.Equal(t, "6", byDate["2026-01-03"])
	assert.NotContains(t, byDate, "2026-01-10")
	assert.Equal(t, "6", byDate["2026-01-17"])
	assert.Equal(t, "4", byDate["2026-01-15"])
	assert.Equal(t, "4", byDate["2026-02-15"])
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidateGeneration_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   planner.GenerateInput
		want error
	}{
		{
			name: "no template",
			in:   planner.GenerateInput{Year: 2026, Policy: planner.PolicySkip},
			want: planner.ErrTemplateRequired,
		},
		{
			name: "unknown policy",
			in:   planner.GenerateInput{Year: 2026, Template: weekdayTemplate(), Policy: "merge"},
			want: planner.ErrUnknownPolicy,
		},
		{
			name: "biweekly without anchor",
			in: planner.GenerateInput{Year: 2026, Policy: planner.PolicySkip, Template: &planner.MonthTemplate{
				MonthLength: 31,
				Rules:       []planner.MonthTemplateRule{{RuleType: planner.RuleBiweekly, Weekdays: []int{0}, IntervalWeeks: 2}},
			}},
			want: planner.ErrRuleAnchorRequired,
		},
		{
			name: "bad month length",
			in:   planner.GenerateInput{Year: 2026, Policy: planner.PolicySkip, Template: &planner.MonthTemplate{MonthLength: 40}},
			want: planner.ErrInvalidTemplate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := planner.GenerateYear(tt.in)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, entries)
			assert.True(t, planner.IsClientError(err))
		})
	}
}

func TestValidateTemplate_RuleErrorPointsAtRule(t *testing.T) {
	tpl := weekdayTemplate()
	tpl.Rules = append(tpl.Rules, planner.MonthTemplateRule{RuleType: planner.RuleWeekly, Weekdays: []int{7}})

	err := planner.ValidateTemplate(tpl)

	var ruleErr *planner.RuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, 1, ruleErr.Index)
	assert.Contains(t, err.Error(), "rule 2")
}
