package planner_test

import (
	"testing"

	"github.com/warp/hours-engine/planner"
)

func TestParseHours(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"7.5", 7.5},
		{"7,5", 7.5},
		{" 8 ", 8},
		{"", 0},
		{"abc", 0},
		{"-3", -3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assertHours(t, tt.want, planner.ParseHours(tt.in))
		})
	}
}
