package calendar

import (
	"errors"
	"sort"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/nl"
)

// =============================================================================
// HOLIDAY CALENDAR - Public holidays per country
// =============================================================================

// ErrUnknownCountry is returned for a country code with no holiday set.
var ErrUnknownCountry = errors.New("unknown holiday country")

// DefaultCountry is the holiday set used when none is configured.
const DefaultCountry = "NL"

// Holiday is a named public holiday on a specific date.
type Holiday struct {
	Date Day
	Name string
}

// HolidayProvider returns the public holidays of a year.
// Holidays are display information; they never change planned hours.
type HolidayProvider interface {
	Holidays(year int) []Holiday
}

// NoHolidays is a provider for when holidays are disabled.
type NoHolidays struct{}

func (NoHolidays) Holidays(int) []Holiday { return nil }

var countries = map[string][]*cal.Holiday{
	"NL":    nl.Holidays,
	"DE-BW": de.HolidaysBW,
}

// Countries lists the supported country codes.
func Countries() []string {
	codes := make([]string, 0, len(countries))
	for code := range countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// NationalCalendar serves the public holidays of one country.
type NationalCalendar struct {
	country  string
	holidays []*cal.Holiday
}

// NewNationalCalendar returns the calendar for a country code such as "NL".
func NewNationalCalendar(country string) (*NationalCalendar, error) {
	code := strings.ToUpper(strings.TrimSpace(country))
	if code == "" {
		code = DefaultCountry
	}
	holidays, ok := countries[code]
	if !ok {
		return nil, ErrUnknownCountry
	}
	return &NationalCalendar{country: code, holidays: holidays}, nil
}

// Country returns the normalized country code.
func (c *NationalCalendar) Country() string { return c.country }

// Holidays returns the year's holidays ordered by date. Holidays that do not
// occur in the year (outside their start/end years) are left out.
func (c *NationalCalendar) Holidays(year int) []Holiday {
	var result []Holiday
	for _, h := range c.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		result = append(result, Holiday{Date: DayOf(actual), Name: h.Name})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}
