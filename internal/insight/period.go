package insight

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tally-dev/tally/internal/calendar"
)

// PeriodKind says how a query selects its period.
type PeriodKind int

const (
	PeriodUnspecified PeriodKind = iota
	PeriodYear
	PeriodMonth
	PeriodLastMonth
	PeriodThisMonth
)

// Period is a resolved period request.
type Period struct {
	Kind  PeriodKind
	Year  int
	Month time.Month
}

var (
	yearRe      = regexp.MustCompile(`20\d{2}`)
	yearWordsRe = regexp.MustCompile(`year|overall|summary`)
	monthRe     = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s*(\d{4})?`)
)

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// ParsePeriod reads a period request from a free-text query. A year
// request needs a 20xx token plus "year", "overall" or "summary". Month
// names take an optional year, defaulting to today's.
func ParsePeriod(query string, today calendar.Date) Period {
	q := strings.ToLower(query)

	if y := yearRe.FindString(q); y != "" && yearWordsRe.MatchString(q) {
		year, _ := strconv.Atoi(y)
		return Period{Kind: PeriodYear, Year: year}
	}

	if m := monthRe.FindStringSubmatch(q); m != nil {
		year := today.Year()
		if m[2] != "" {
			year, _ = strconv.Atoi(m[2])
		}
		return Period{Kind: PeriodMonth, Year: year, Month: monthNames[m[1]]}
	}

	switch {
	case strings.Contains(q, "last month"):
		prev := today.FirstOfPreviousMonth()
		return Period{Kind: PeriodLastMonth, Year: prev.Year(), Month: prev.Month()}
	case strings.Contains(q, "this month"), strings.Contains(q, "current month"):
		return Period{Kind: PeriodThisMonth, Year: today.Year(), Month: today.Month()}
	}
	return Period{Kind: PeriodUnspecified}
}

// MonthKey returns the month a month-scoped period names. ok is false for
// year and unspecified periods.
func (p Period) MonthKey() (calendar.MonthKey, bool) {
	switch p.Kind {
	case PeriodMonth, PeriodLastMonth, PeriodThisMonth:
		return calendar.NewMonthKey(p.Year, p.Month), true
	}
	return "", false
}
