package task

import (
	"fmt"
	"time"
)

// TimeSlot is a half-open interval [Start, End) of absolute instants.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// NewTimeSlot builds a slot from a start instant and a duration.
func NewTimeSlot(start time.Time, d time.Duration) TimeSlot {
	return TimeSlot{Start: start, End: start.Add(d)}
}

// Overlaps returns true if two slots share any instant.
// Half-open semantics: touching endpoints do not overlap.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Contains returns true if the instant falls within the slot.
func (s TimeSlot) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Duration returns the slot length.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// IsZero returns true for the zero slot.
func (s TimeSlot) IsZero() bool {
	return s.Start.IsZero() && s.End.IsZero()
}

// String formats the slot for feedback messages.
func (s TimeSlot) String() string {
	return fmt.Sprintf("%s - %s",
		s.Start.UTC().Format("2006-01-02 15:04"),
		s.End.UTC().Format("2006-01-02 15:04"))
}
