// Package calendar provides timezone-free calendar dates and the reference
// clock used for relative-date resolution and future-date checks.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the ISO calendar date format used on the wire.
const Layout = "2006-01-02"

// MonthLayout is the format of month keys ("YYYY-MM").
const MonthLayout = "2006-01"

// Date is a civil date with no time-of-day or location.
type Date struct {
	t time.Time // always midnight UTC
}

// New returns the date for year, month, day. Out-of-range values normalize
// the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime takes the calendar date of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, m, d)
}

// Parse parses a "YYYY-MM-DD" string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals in tests and tables.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int            { return d.t.Year() }
func (d Date) Month() time.Month    { return d.t.Month() }
func (d Date) Day() int             { return d.t.Day() }
func (d Date) IsZero() bool         { return d.t.IsZero() }
func (d Date) String() string       { return d.t.Format(Layout) }
func (d Date) Before(o Date) bool   { return d.t.Before(o.t) }
func (d Date) After(o Date) bool    { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool    { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Month1() Date         { return New(d.Year(), d.Month(), 1) }
func (d Date) MonthKey() MonthKey   { return MonthKey(d.t.Format(MonthLayout)) }
func (d Date) Time() time.Time      { return d.t }

// FirstOfPreviousMonth returns the first day of the calendar month before d.
func (d Date) FirstOfPreviousMonth() Date {
	return d.Month1().AddDays(-1).Month1()
}

// MonthKey identifies a calendar month as "YYYY-MM". Keys sort
// chronologically as plain strings.
type MonthKey string

// NewMonthKey formats year and month as a key.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, int(month)))
}

func (k MonthKey) String() string { return string(k) }
