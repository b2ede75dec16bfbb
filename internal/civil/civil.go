// Package civil projects absolute instants into the wall-clock calendar of a
// named timezone and back. It is the only place in the engine that performs
// timezone math; every component that needs "what day is it for the user" or
// "9am on this day" goes through a Projector.
package civil

import (
	"fmt"
	"time"
)

// Civil is the wall-clock decomposition of an instant in some timezone.
type Civil struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Weekday time.Weekday
}

// Projector converts between absolute instants and civil time in one zone.
// It is stateless and safe for concurrent use.
type Projector struct {
	loc *time.Location
}

// NewProjector creates a Projector for the given IANA timezone name.
// An empty name means UTC.
func NewProjector(timezone string) (*Projector, error) {
	if timezone == "" {
		return &Projector{loc: time.UTC}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	return &Projector{loc: loc}, nil
}

// MustProjector is NewProjector that panics on error. For tests and
// hard-coded zones only.
func MustProjector(timezone string) *Projector {
	p, err := NewProjector(timezone)
	if err != nil {
		panic(err)
	}
	return p
}

// Location returns the underlying timezone location.
func (p *Projector) Location() *time.Location {
	return p.loc
}

// Project decomposes an instant into civil fields in the projector's zone.
func (p *Projector) Project(t time.Time) Civil {
	local := t.In(p.loc)
	return Civil{
		Year:    local.Year(),
		Month:   local.Month(),
		Day:     local.Day(),
		Hour:    local.Hour(),
		Minute:  local.Minute(),
		Weekday: local.Weekday(),
	}
}

// Date composes an instant from civil fields in the projector's zone.
// Across a DST transition time.Date resolves to the intended wall-clock
// time, which is exactly the behavior working-hours math needs.
func (p *Projector) Date(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, p.loc)
}

// At returns the instant on the same civil day as t with the given
// wall-clock hour and minute.
func (p *Projector) At(t time.Time, hour, minute int) time.Time {
	c := p.Project(t)
	return p.Date(c.Year, c.Month, c.Day, hour, minute)
}

// StartOfDay returns midnight of t's civil day.
func (p *Projector) StartOfDay(t time.Time) time.Time {
	return p.At(t, 0, 0)
}

// NextDay returns midnight of the civil day after t.
func (p *Projector) NextDay(t time.Time) time.Time {
	c := p.Project(t)
	return p.Date(c.Year, c.Month, c.Day+1, 0, 0)
}

// AddDays returns midnight of t's civil day shifted by n days.
func (p *Projector) AddDays(t time.Time, n int) time.Time {
	c := p.Project(t)
	return p.Date(c.Year, c.Month, c.Day+n, 0, 0)
}

// SameDay returns true if a and b fall on the same civil day.
func (p *Projector) SameDay(a, b time.Time) bool {
	ca, cb := p.Project(a), p.Project(b)
	return ca.Year == cb.Year && ca.Month == cb.Month && ca.Day == cb.Day
}

// DaysBetween returns the number of civil-day boundaries between a and b.
// Same day is 0, tomorrow is 1. Negative when b precedes a.
func (p *Projector) DaysBetween(a, b time.Time) int {
	sa, sb := p.StartOfDay(a), p.StartOfDay(b)
	return int(sb.Sub(sa).Hours() / 24)
}

// NextWeekday returns midnight of the next occurrence of the given weekday
// strictly after t's civil day.
func (p *Projector) NextWeekday(t time.Time, target time.Weekday) time.Time {
	c := p.Project(t)
	days := int(target) - int(c.Weekday)
	if days <= 0 {
		days += 7
	}
	return p.Date(c.Year, c.Month, c.Day+days, 0, 0)
}

// StartOfNextMonth returns midnight of the first day of the month after t.
func (p *Projector) StartOfNextMonth(t time.Time) time.Time {
	c := p.Project(t)
	return p.Date(c.Year, c.Month+1, 1, 0, 0)
}

// EndOfDay returns 23:59 of t's civil day.
func (p *Projector) EndOfDay(t time.Time) time.Time {
	return p.At(t, 23, 59)
}
