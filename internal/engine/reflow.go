package engine

import (
	"time"

	"slotter/internal/task"
)

// ReflowDay re-packs one calendar day: fixed tasks (locked, in progress,
// or cancelled-but-still-booked) stay put as obstacles, movable tasks are
// re-seated in start order from a cursor at "now" (when the day is today)
// or the day's window start. A movable task whose group disallows work on
// the day, or that no longer fits before its window end, cascades to the
// next valid day for its group; cascaded days are re-packed the same way,
// bounded by MaxCascadeDays and the wall-clock budget.
func (e *Engine) ReflowDay(snap *task.Snapshot, day time.Time) (*Result, error) {
	res := &Result{}
	now := e.clock.Now()
	started := time.Now()
	origin := e.proj.StartOfDay(day)

	// Intervals as rearranged so far, and tasks carried into later days.
	current := make(map[string]task.TimeSlot)
	carried := make(map[int][]*task.Task) // day offset from origin -> tasks

	for offset := 0; offset < e.opts.MaxCascadeDays; offset++ {
		if time.Since(started) > e.opts.Budget {
			res.say("reflow stopped early after %s; moves so far remain valid", e.opts.Budget)
			return res, ErrTimeout
		}

		// Only the requested day and days that received an overflow are
		// re-packed; bookings elsewhere stay untouched.
		if offset > 0 && len(carried[offset]) == 0 {
			continue
		}

		dayStart := e.proj.AddDays(origin, offset)
		fixed, movable := e.splitDay(snap, dayStart, current)
		movable = append(movable, carried[offset]...)
		if len(movable) == 0 {
			continue
		}
		task.SortByStart(movable)

		cursorFloor := dayStart
		if e.proj.SameDay(dayStart, now) {
			cursorFloor = roundUpToGrid(now)
		}

		busy := make([]task.TimeSlot, 0, len(fixed))
		for _, f := range fixed {
			busy = append(busy, f.Slot())
		}

		for _, m := range movable {
			hrs := e.hoursFor(m, snap)
			win, ok := hrs.Resolve(e.proj.Project(dayStart).Weekday)
			if !ok {
				e.carryToNextDay(snap, m, origin, offset, carried, res)
				continue
			}
			winStart := e.proj.At(dayStart, win.StartHour, 0)
			winEnd := e.proj.At(dayStart, win.EndHour, 0)

			d := m.Duration()
			if d <= 0 {
				d = m.Slot().Duration()
			}
			start, fits := firstFit(d, busy, laterOf(winStart, cursorFloor), winEnd)
			if !fits {
				e.carryToNextDay(snap, m, origin, offset, carried, res)
				continue
			}

			slot := task.NewTimeSlot(start, d)
			busy = append(busy, slot)
			if !slot.Start.Equal(*m.ScheduledStart) || !slot.End.Equal(*m.ScheduledEnd) {
				current[m.ID] = slot
				res.Displaced = append(res.Displaced, Displacement{TaskID: m.ID, Slot: slot})
				res.say("moved %q to %s", m.Title, slot)
			}
		}
	}

	for offset, rest := range carried {
		if offset >= e.opts.MaxCascadeDays {
			for _, m := range rest {
				res.say("could not re-place %q within %d days; it keeps its old slot", m.Title, e.opts.MaxCascadeDays)
			}
		}
	}

	return res, nil
}

// splitDay collects the tasks currently booked on the given civil day,
// split into fixed obstacles and movable candidates. Tasks already carried
// to another day in this run are skipped via the current map.
func (e *Engine) splitDay(snap *task.Snapshot, dayStart time.Time, current map[string]task.TimeSlot) (fixed, movable []*task.Task) {
	for _, t := range snap.Tasks {
		if !t.Scheduled() {
			continue
		}
		start := *t.ScheduledStart
		if s, ok := current[t.ID]; ok {
			// Already re-seated this run; its new slot decides membership,
			// and it may not move twice.
			if e.proj.SameDay(s.Start, dayStart) {
				fixed = append(fixed, shadowTask(t, s))
			}
			continue
		}
		if !e.proj.SameDay(start, dayStart) {
			continue
		}
		switch {
		case t.Fixed(), t.Status == task.StatusCancelled:
			// Cancelled tasks are fixed only in that their old booking
			// still occupies the slot for reflow purposes.
			fixed = append(fixed, t)
		case t.Status.Terminal():
			// Completed/rescheduled tasks vanish from the board.
		case t.Movable() && t.HasDuration():
			movable = append(movable, t)
		}
	}
	return fixed, movable
}

// carryToNextDay queues a movable task for the next day its group allows
// work on, within the cascade bound.
func (e *Engine) carryToNextDay(snap *task.Snapshot, m *task.Task, origin time.Time, fromOffset int, carried map[int][]*task.Task, res *Result) {
	hrs := e.hoursFor(m, snap)
	for offset := fromOffset + 1; offset < e.opts.MaxCascadeDays; offset++ {
		dayStart := e.proj.AddDays(origin, offset)
		if _, ok := hrs.Resolve(e.proj.Project(dayStart).Weekday); ok {
			carried[offset] = append(carried[offset], m)
			res.say("pushing %q to %s", m.Title, dayStart.Format("2006-01-02"))
			return
		}
	}
	carried[e.opts.MaxCascadeDays] = append(carried[e.opts.MaxCascadeDays], m)
}

// shadowTask is a copy of t booked at slot s, used to treat an
// already-moved task as a fixed obstacle for the rest of the run.
func shadowTask(t *task.Task, s task.TimeSlot) *task.Task {
	dup := *t
	dup.SetSlot(s)
	return &dup
}
