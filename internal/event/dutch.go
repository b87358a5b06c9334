package event

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MonthNames lists the Dutch month names in calendar order, as used in
// rommelmarkten.be listing URLs.
var MonthNames = []string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// WeekdayNames lists the full Dutch weekday names, Monday first.
var WeekdayNames = []string{
	"maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag", "zondag",
}

// dutchMonths maps Dutch month names and their common abbreviations to month
// numbers. The listing site mixes full names and abbreviations freely.
var dutchMonths = map[string]time.Month{
	"januari": time.January, "jan": time.January,
	"februari": time.February, "feb": time.February,
	"maart": time.March, "mrt": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mei": time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"augustus": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"oktober": time.October, "okt": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// MonthNumber resolves a Dutch month name or abbreviation to a time.Month.
func MonthNumber(token string) (time.Month, bool) {
	m, ok := dutchMonths[strings.ToLower(strings.TrimSpace(token))]
	return m, ok
}

// MakeDate builds a calendar date, rejecting combinations that do not exist
// (time.Date would silently normalize "30 februari" into early March).
func MakeDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

var dutchTitle = cases.Title(language.Dutch)

// TitleCase renders a string in display title casing ("TEMSE" → "Temse").
func TitleCase(s string) string {
	return dutchTitle.String(s)
}
