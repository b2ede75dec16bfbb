// Package hours resolves per-weekday working-hour windows.
package hours

import (
	"fmt"
	"strings"
	"time"
)

// Window is a same-day [StartHour, EndHour) working window in 24-hour
// wall-clock hours.
type Window struct {
	StartHour int `toml:"start_hour"`
	EndHour   int `toml:"end_hour"`
}

// Minutes returns the window length in minutes.
func (w Window) Minutes() int {
	return (w.EndHour - w.StartHour) * 60
}

// Valid reports whether the window is a sane same-day range.
func (w Window) Valid() bool {
	return w.StartHour >= 0 && w.EndHour <= 24 && w.StartHour < w.EndHour
}

// Default is the window used when no configuration exists at all.
var Default = Window{StartHour: 9, EndHour: 17}

// WeekHours maps lowercase weekday names to an optional working window.
// A nil or empty map means every day uses Default. A non-empty map with a
// missing (or nil) entry for a day means that day is a configured day off.
type WeekHours map[string]*Window

// Resolve returns the working window for the given weekday.
// The second return is false when the day has no working hours.
func (h WeekHours) Resolve(weekday time.Weekday) (Window, bool) {
	if len(h) == 0 {
		return Default, true
	}
	w, ok := h[strings.ToLower(weekday.String())]
	if !ok || w == nil {
		return Window{}, false
	}
	return *w, true
}

// Uniform builds a WeekHours with the same window every day of the week.
func Uniform(w Window) WeekHours {
	out := make(WeekHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		win := w
		out[strings.ToLower(d.String())] = &win
	}
	return out
}

// Validate checks weekday keys and window ranges.
func (h WeekHours) Validate() error {
	for day, w := range h {
		if !validWeekdays[strings.ToLower(day)] {
			return fmt.Errorf("invalid weekday: %s", day)
		}
		if w != nil && !w.Valid() {
			return fmt.Errorf("invalid window for %s: %d-%d", day, w.StartHour, w.EndHour)
		}
	}
	return nil
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// ParseWeekday converts a weekday name to time.Weekday, case-insensitive.
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("invalid weekday: %s", name)
	}
}
