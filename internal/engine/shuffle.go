package engine

import (
	"time"

	"slotter/internal/task"
)

// scheduleASAP places the target task at the earliest working-hours slot,
// ignoring existing bookings, then displaces every conflicting movable
// task forward, depth-first. Locked and in-progress tasks are never moved;
// their residual conflicts are reported in the feedback for the caller.
//
// The cascade is an explicit work-list with a visited set (a task is
// displaced at most once per run, which also breaks cycles), a depth
// ceiling per branch, and a wall-clock budget checked between steps.
// Exceeding either bound returns the moves made so far together with
// ErrDepthLimit or ErrTimeout.
func (e *Engine) scheduleASAP(snap *task.Snapshot, t *task.Task, constraint time.Time, res *Result) (*Result, error) {
	now := e.clock.Now()
	started := time.Now()

	lower := now
	if constraint.After(lower) {
		lower = constraint
	}

	hrs := e.hoursFor(t, snap)
	slot, err := e.findForward(t.Duration(), nil, lower, time.Time{}, hrs, e.opts.MaxDays, res)
	if err != nil {
		return res, err
	}
	res.Slot = slot
	res.say("placed %q at %s", t.Title, slot)

	// Working view of every interval as the cascade rearranges them.
	current := make(map[string]task.TimeSlot)
	for _, o := range snap.Obstacles(t.ID) {
		current[o.ID] = o.Slot()
	}
	current[t.ID] = slot

	visited := map[string]bool{t.ID: true}
	skipped := make(map[string]bool)

	type frame struct {
		id    string
		depth int
	}
	stack := []frame{{id: t.ID, depth: 0}}

	for len(stack) > 0 {
		if time.Since(started) > e.opts.Budget {
			res.say("shuffle stopped early after %s; displacements so far remain valid", e.opts.Budget)
			return res, ErrTimeout
		}

		f := stack[len(stack)-1]
		next := nextConflict(snap, current[f.id], f.id, current, visited, skipped)
		if next == nil {
			stack = stack[:len(stack)-1]
			continue
		}

		if !next.Movable() {
			skipped[next.ID] = true
			res.say("%q cannot be moved (%s); conflict with %q is left unresolved", next.Title, immovableReason(next), titleOf(snap, f.id))
			continue
		}
		if f.depth+1 > e.opts.MaxShuffleDepth {
			res.say("displacement depth limit reached; %q stays in place", next.Title)
			return res, ErrDepthLimit
		}

		visited[next.ID] = true
		moved, err := e.reseat(snap, next, now, current[f.id].End, current, visited, skipped, res)
		if err != nil {
			res.say("could not re-seat %q; it keeps its old slot", next.Title)
			continue
		}
		current[next.ID] = moved
		res.Displaced = append(res.Displaced, Displacement{TaskID: next.ID, Slot: moved})
		res.say("moved %q to %s", next.Title, moved)
		stack = append(stack, frame{id: next.ID, depth: f.depth + 1})
	}

	return res, nil
}

// reseat finds a displaced task's next feasible slot, honoring its own
// group's hours, starting no earlier than the end of the interval that
// displaced it. Only immovable and already-settled intervals are avoided;
// landing on a not-yet-moved movable task is allowed and produces the next
// conflict of the cascade.
func (e *Engine) reseat(snap *task.Snapshot, t *task.Task, now time.Time, displacedBy time.Time, current map[string]task.TimeSlot, visited, skipped map[string]bool, res *Result) (task.TimeSlot, error) {
	lower := laterOf(now, displacedBy)
	d := t.Duration()
	if d <= 0 {
		d = t.Slot().Duration()
	}
	var busy []task.TimeSlot
	for id, s := range current {
		if id == t.ID {
			continue
		}
		other := snap.Task(id)
		settled := visited[id] || skipped[id]
		if settled || (other != nil && !other.Movable()) {
			busy = append(busy, s)
		}
	}
	return e.findForward(d, busy, lower, time.Time{}, e.hoursFor(t, snap), e.opts.MaxDays, res)
}

// nextConflict returns the earliest-starting task whose current interval
// overlaps cur and that has not been displaced or skipped in this run.
func nextConflict(snap *task.Snapshot, cur task.TimeSlot, selfID string, current map[string]task.TimeSlot, visited, skipped map[string]bool) *task.Task {
	var best *task.Task
	var bestSlot task.TimeSlot
	for id, s := range current {
		if id == selfID || visited[id] || skipped[id] || !s.Overlaps(cur) {
			continue
		}
		t := snap.Task(id)
		if t == nil {
			continue
		}
		if best == nil || earlierConflict(s, t, bestSlot, best) {
			best, bestSlot = t, s
		}
	}
	return best
}

// earlierConflict orders conflicts by start, then creation time, then id,
// so the cascade is deterministic.
func earlierConflict(s task.TimeSlot, t *task.Task, bestSlot task.TimeSlot, best *task.Task) bool {
	if !s.Start.Equal(bestSlot.Start) {
		return s.Start.Before(bestSlot.Start)
	}
	if !t.CreatedAt.Equal(best.CreatedAt) {
		return t.CreatedAt.Before(best.CreatedAt)
	}
	return t.ID < best.ID
}

func immovableReason(t *task.Task) string {
	if t.Locked {
		return "locked"
	}
	if t.Status == task.StatusInProgress {
		return "in progress"
	}
	return string(t.Status)
}

func titleOf(snap *task.Snapshot, id string) string {
	if t := snap.Task(id); t != nil {
		return t.Title
	}
	return id
}
