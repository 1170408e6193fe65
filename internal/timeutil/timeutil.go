// Package timeutil classifies task dates against an injectable "now".
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// ReminderDefaultTime is when an untimed task is due for reminder purposes.
	ReminderDefaultTime = "09:00"
	// OverdueDefaultTime is when an untimed task becomes overdue.
	OverdueDefaultTime = "23:59"
	// TimelineDefaultTime places untimed tasks at the start of their day.
	TimelineDefaultTime = "00:00"

	weekWindow = 7 * 24 * time.Hour
)

// Oracle answers date questions relative to the instant returned by its
// clock. The zero value uses time.Now.
type Oracle struct {
	now func() time.Time
}

func New(now func() time.Time) Oracle {
	return Oracle{now: now}
}

// Fixed returns an Oracle frozen at t.
func Fixed(t time.Time) Oracle {
	return Oracle{now: func() time.Time { return t }}
}

func (o Oracle) Now() time.Time {
	if o.now == nil {
		return time.Now()
	}
	return o.now()
}

// ParseDate parses a YYYY-MM-DD date at local midnight of loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
}

// ParseClock validates an HH:MM time of day.
func ParseClock(clock string) (time.Time, error) {
	return time.Parse(ClockLayout, strings.TrimSpace(clock))
}

// Instant combines date and clock in loc. An empty clock is replaced by
// fallback.
func Instant(date, clock, fallback string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(clock) == "" {
		clock = fallback
	}
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// Instant is Instant evaluated in the location of the oracle's clock.
func (o Oracle) Instant(date, clock, fallback string) (time.Time, error) {
	return Instant(date, clock, fallback, o.Now().Location())
}

func (o Oracle) IsSameCalendarDay(date string) bool {
	now := o.Now()
	d, err := ParseDate(date, now.Location())
	if err != nil {
		return false
	}
	y1, m1, d1 := now.Date()
	y2, m2, d2 := d.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsWithinWeekWindow reports whether midnight of date lies within seven
// days either side of now, bounds included.
func (o Oracle) IsWithinWeekWindow(date string) bool {
	now := o.Now()
	d, err := ParseDate(date, now.Location())
	if err != nil {
		return false
	}
	start := now.Add(-weekWindow)
	end := now.Add(weekWindow)
	return !d.Before(start) && !d.After(end)
}

// IsOverdue reports whether the instant for date and clock is strictly
// before now. Untimed tasks fall due at OverdueDefaultTime.
func (o Oracle) IsOverdue(date, clock string) bool {
	due, err := o.Instant(date, clock, OverdueDefaultTime)
	if err != nil {
		return false
	}
	return due.Before(o.Now())
}
