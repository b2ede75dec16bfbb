package engine

import (
	"fmt"
	"time"

	"slotter/internal/task"
)

// PullForward backfills a day's free capacity from one group's future
// backlog: the group's unlocked, non-terminal tasks booked on later days
// (within the look-ahead window) are greedily pulled into the target day's
// gaps in start order, stopping at the first one that does not fit. Free
// capacity is computed against every booking on the day, not just the
// group's own.
func (e *Engine) PullForward(snap *task.Snapshot, day time.Time, groupID string) (*Result, error) {
	res := &Result{}

	g := snap.Group(groupID)
	if g == nil {
		return res, fmt.Errorf("%w: %s", task.ErrGroupNotFound, groupID)
	}

	hrs := g.ScheduleHours()
	if hrs == nil {
		hrs = e.opts.DefaultHours
	}

	now := e.clock.Now()
	dayStart := e.proj.StartOfDay(day)
	win, ok := hrs.Resolve(e.proj.Project(dayStart).Weekday)
	if !ok {
		res.say("group %q has no working hours on %s", g.Name, e.proj.Project(dayStart).Weekday)
		return res, ErrNoSlot
	}
	winStart := e.proj.At(dayStart, win.StartHour, 0)
	winEnd := e.proj.At(dayStart, win.EndHour, 0)

	from := winStart
	if e.proj.SameDay(dayStart, now) {
		from = laterOf(from, roundUpToGrid(now))
	}

	// Every booking on the target day is an obstacle.
	var busy []task.TimeSlot
	for _, t := range snap.Tasks {
		if t.Obstacle() && e.proj.SameDay(t.Slot().Start, dayStart) {
			busy = append(busy, t.Slot())
		}
	}

	candidates := e.backlog(snap, dayStart, groupID)
	for _, c := range candidates {
		start, fits := firstFit(c.Duration(), busy, from, winEnd)
		if !fits {
			res.say("%q does not fit in the remaining capacity; stopping", c.Title)
			break
		}
		slot := task.NewTimeSlot(start, c.Duration())
		busy = append(busy, slot)
		res.Displaced = append(res.Displaced, Displacement{TaskID: c.ID, Slot: slot})
		res.say("pulled %q forward to %s", c.Title, slot)
	}

	if len(res.Displaced) == 0 {
		res.say("nothing to pull forward for group %q", g.Name)
	}
	return res, nil
}

// backlog returns the group's movable, scheduled tasks booked on days
// after the target day, within the look-ahead window, in start order.
func (e *Engine) backlog(snap *task.Snapshot, dayStart time.Time, groupID string) []*task.Task {
	var out []*task.Task
	for _, t := range snap.Tasks {
		if t.GroupID != groupID || !t.Movable() || !t.Scheduled() || !t.HasDuration() {
			continue
		}
		days := e.proj.DaysBetween(dayStart, t.Slot().Start)
		if days <= 0 || days > e.opts.LookaheadDays {
			continue
		}
		out = append(out, t)
	}
	task.SortByStart(out)
	return out
}
