package engine

import (
	"time"

	"slotter/internal/hours"
	"slotter/internal/task"
)

// gridStep is the placement grid: every returned slot starts on a
// 15-minute boundary.
const gridStep = 15 * time.Minute

// afterHoursLimit is the wall-clock hour up to which a task may still be
// placed on the current day after the working window has closed.
const afterHoursLimit = 23

// roundUpToGrid rounds an instant up to the next 15-minute boundary.
func roundUpToGrid(t time.Time) time.Time {
	t = t.Truncate(time.Second)
	rounded := t.Truncate(gridStep)
	if rounded.Equal(t) {
		return t
	}
	return rounded.Add(gridStep)
}

// roundDownToGrid rounds an instant down to the previous 15-minute boundary.
func roundDownToGrid(t time.Time) time.Time {
	return t.Truncate(gridStep)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// findForward walks forward from lower in 15-minute steps and returns the
// first [start, start+d) interval that sits inside a working window (or
// the after-hours allowance when the day is today), does not collide with
// any busy interval, and ends at or before upper when upper is set.
//
// A colliding candidate jumps directly past the latest conflicting end,
// which clears every currently-overlapping interval at once. The search
// gives up maxDays past lower.
func (e *Engine) findForward(d time.Duration, busy []task.TimeSlot, lower, upper time.Time, hrs hours.WeekHours, maxDays int, res *Result) (task.TimeSlot, error) {
	now := e.clock.Now()
	start := roundUpToGrid(laterOf(lower, now))
	horizon := lower.AddDate(0, 0, maxDays)

	for start.Before(horizon) {
		if !upper.IsZero() && start.After(upper) {
			return task.TimeSlot{}, ErrNoSlot
		}

		c := e.proj.Project(start)
		win, ok := hrs.Resolve(c.Weekday)
		if !ok {
			start = e.proj.NextDay(start)
			continue
		}

		dayStart := e.proj.At(start, win.StartHour, 0)
		if start.Before(dayStart) {
			start = dayStart
			continue
		}

		// The day's hard end: the window end, stretched to 23:00 local
		// when the candidate day is today.
		limit := e.proj.At(start, win.EndHour, 0)
		if e.proj.SameDay(start, now) {
			if afterHours := e.proj.At(start, afterHoursLimit, 0); afterHours.After(limit) {
				limit = afterHours
			}
		}
		if !start.Before(limit) {
			start = e.proj.NextDay(start)
			continue
		}

		end := start.Add(d)
		if end.After(limit) {
			start = e.proj.NextDay(start)
			continue
		}

		cand := task.TimeSlot{Start: start, End: end}
		if latest := latestConflictEnd(cand, busy); !latest.IsZero() {
			start = roundUpToGrid(latest)
			continue
		}

		if !upper.IsZero() && end.After(upper) {
			return task.TimeSlot{}, ErrNoSlot
		}
		return cand, nil
	}

	if res != nil {
		res.say("no free slot within %d days of %s", maxDays, lower.Format("2006-01-02 15:04"))
	}
	return task.TimeSlot{}, ErrNoSlot
}

// findBackward searches from the due instant backward, day by day, and
// returns the latest feasible [start, start+d) with end at or before due,
// inside working hours, not colliding with busy intervals, and not
// starting before lower (the dependency/now floor).
func (e *Engine) findBackward(d time.Duration, busy []task.TimeSlot, due, lower time.Time, hrs hours.WeekHours, maxDays int, res *Result) (task.TimeSlot, error) {
	now := e.clock.Now()
	floor := roundUpToGrid(laterOf(lower, now))
	day := due

	for i := 0; i < maxDays; i++ {
		c := e.proj.Project(day)
		win, ok := hrs.Resolve(c.Weekday)
		if ok {
			dayStart := e.proj.At(day, win.StartHour, 0)
			limitEnd := e.proj.At(day, win.EndHour, 0)
			if e.proj.SameDay(day, due) && due.Before(limitEnd) {
				limitEnd = due
			}
			if limitEnd.Before(floor) {
				// Every earlier day is earlier still.
				break
			}

			earliest := laterOf(dayStart, floor)
			cand := roundDownToGrid(limitEnd.Add(-d))
			for !cand.Before(earliest) {
				slot := task.TimeSlot{Start: cand, End: cand.Add(d)}
				conflict := earliestConflictStart(slot, busy)
				if conflict.IsZero() {
					return slot, nil
				}
				cand = roundDownToGrid(conflict.Add(-d))
			}
		}
		day = e.proj.Date(c.Year, c.Month, c.Day-1, 23, 59)
	}

	if res != nil {
		res.say("no free slot before %s", due.Format("2006-01-02 15:04"))
	}
	return task.TimeSlot{}, ErrNoSlot
}

// firstFit finds the earliest grid-aligned start at or after from whose
// [start, start+d) interval avoids every busy slot and ends by limit.
func firstFit(d time.Duration, busy []task.TimeSlot, from, limit time.Time) (time.Time, bool) {
	cand := roundUpToGrid(from)
	for {
		if cand.Add(d).After(limit) {
			return time.Time{}, false
		}
		slot := task.TimeSlot{Start: cand, End: cand.Add(d)}
		latest := latestConflictEnd(slot, busy)
		if latest.IsZero() {
			return cand, true
		}
		cand = roundUpToGrid(latest)
	}
}

// latestConflictEnd returns the latest end among busy intervals that
// overlap the candidate, or the zero time when none do.
func latestConflictEnd(cand task.TimeSlot, busy []task.TimeSlot) time.Time {
	var latest time.Time
	for _, b := range busy {
		if b.Overlaps(cand) && b.End.After(latest) {
			latest = b.End
		}
	}
	return latest
}

// earliestConflictStart returns the earliest start among busy intervals
// that overlap the candidate, or the zero time when none do.
func earliestConflictStart(cand task.TimeSlot, busy []task.TimeSlot) time.Time {
	var earliest time.Time
	for _, b := range busy {
		if b.Overlaps(cand) && (earliest.IsZero() || b.Start.Before(earliest)) {
			earliest = b.Start
		}
	}
	return earliest
}

// busySlots projects a task list onto its scheduled intervals.
func busySlots(tasks []*task.Task) []task.TimeSlot {
	out := make([]task.TimeSlot, 0, len(tasks))
	for _, t := range tasks {
		if t.Scheduled() {
			out = append(out, t.Slot())
		}
	}
	return out
}
