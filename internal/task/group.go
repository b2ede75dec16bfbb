package task

import "slotter/internal/hours"

// Group is an optional scheduling policy owner. When AutoSchedule is
// enabled its Hours take precedence over the caller's default hours for
// tasks in the group.
type Group struct {
	ID           string
	Name         string
	AutoSchedule bool
	Hours        hours.WeekHours
}

// ScheduleHours returns the group's hours map if the group participates in
// auto-scheduling, nil otherwise.
func (g *Group) ScheduleHours() hours.WeekHours {
	if g == nil || !g.AutoSchedule {
		return nil
	}
	return g.Hours
}
