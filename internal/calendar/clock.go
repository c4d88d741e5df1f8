package calendar

import "time"

// Clock supplies the reference "today".
type Clock interface {
	Today() Date
}

// FixedClock always reports the same day.
type FixedClock Date

// Today implements Clock.
func (c FixedClock) Today() Date { return Date(c) }

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

// Today implements Clock.
func (c SystemClock) Today() Date {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	} else {
		now = now.UTC()
	}
	return FromTime(now)
}
