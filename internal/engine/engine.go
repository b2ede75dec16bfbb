// Package engine decides when a task with a fixed duration should occupy a
// calendar interval, given existing commitments, per-weekday working hours,
// a user timezone, dependencies, and a scheduling mode. It also displaces
// conflicting movable tasks (shuffle), re-packs whole days (reflow), and
// backfills free capacity from a group's backlog (pull-forward).
//
// Every operation is a pure function over an in-memory snapshot: the
// engine never mutates the snapshot's tasks and never touches I/O. Callers
// apply the returned intervals.
package engine

import (
	"fmt"
	"time"

	"slotter/internal/civil"
	"slotter/internal/hours"
	"slotter/internal/task"
)

// Options bound the engine's work.
type Options struct {
	// MaxDays is the forward/backward search horizon in days.
	MaxDays int
	// MaxCascadeDays bounds how many days a reflow may cascade across.
	MaxCascadeDays int
	// MaxShuffleDepth bounds the displacement chain of one shuffle run.
	MaxShuffleDepth int
	// Budget is the wall-clock allowance for shuffle and reflow runs.
	Budget time.Duration
	// LookaheadDays bounds how far ahead pull-forward collects backlog.
	LookaheadDays int
	// DefaultHours are the user's working hours when a task's group has
	// none. Nil means 9-17 every day.
	DefaultHours hours.WeekHours
	// AwakeHours is the today/tomorrow fallback window used when the
	// effective hours leave the target day with no working window.
	AwakeHours *hours.Window
}

// DefaultOptions returns the standard tunables.
func DefaultOptions() Options {
	return Options{
		MaxDays:         30,
		MaxCascadeDays:  7,
		MaxShuffleDepth: 100,
		Budget:          30 * time.Second,
		LookaheadDays:   14,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.MaxDays <= 0 {
		o.MaxDays = def.MaxDays
	}
	if o.MaxCascadeDays <= 0 {
		o.MaxCascadeDays = def.MaxCascadeDays
	}
	if o.MaxShuffleDepth <= 0 {
		o.MaxShuffleDepth = def.MaxShuffleDepth
	}
	if o.Budget == 0 {
		o.Budget = def.Budget
	}
	if o.LookaheadDays <= 0 {
		o.LookaheadDays = def.LookaheadDays
	}
	return o
}

// Engine is the scheduling engine. It is stateless across calls and safe
// for concurrent use; callers serialize writes to the same task set
// themselves.
type Engine struct {
	proj  *civil.Projector
	clock Clock
	opts  Options
}

// New creates an Engine for the given timezone projector and clock.
func New(proj *civil.Projector, clock Clock, opts Options) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{proj: proj, clock: clock, opts: opts.normalized()}
}

// hoursFor resolves the effective working hours for a task: the group's
// schedule hours when its group auto-schedules, otherwise the default.
func (e *Engine) hoursFor(t *task.Task, snap *task.Snapshot) hours.WeekHours {
	if h := snap.GroupHours(t); h != nil {
		return h
	}
	return e.opts.DefaultHours
}

// Schedule places one task according to the given mode and returns its
// interval, any displacements (asap mode only), and a feedback log.
func (e *Engine) Schedule(snap *task.Snapshot, taskID string, mode Mode) (*Result, error) {
	res := &Result{}

	t := snap.Task(taskID)
	if t == nil {
		return res, fmt.Errorf("%w: %s", task.ErrTaskNotFound, taskID)
	}
	if !t.HasDuration() {
		return res, fmt.Errorf("%w: %s", ErrNoDuration, t.ID)
	}

	constraint, err := e.earliestStart(t, snap)
	if err != nil {
		res.say("cannot schedule %q yet: a dependency has no schedule", t.Title)
		return res, err
	}
	if !constraint.IsZero() {
		res.say("dependencies hold %q until %s", t.Title, constraint.Format("2006-01-02 15:04"))
	}

	if mode == ModeASAP {
		return e.scheduleASAP(snap, t, constraint, res)
	}
	if mode == ModeDueDate {
		return e.scheduleBeforeDue(snap, t, constraint, res)
	}

	now := e.clock.Now()
	hrs := e.hoursFor(t, snap)

	var lower, upper time.Time
	switch mode {
	case ModeNow:
		lower = now
		upper = now.AddDate(0, 0, e.opts.MaxDays)
	case ModeToday:
		lower = now
		upper = e.proj.EndOfDay(now)
		hrs = e.dayFallbackHours(hrs, now, res)
	case ModeTomorrow:
		tomorrow := e.proj.NextDay(now)
		hrs = e.dayFallbackHours(hrs, tomorrow, res)
		lower = tomorrow
		if win, ok := hrs.Resolve(e.proj.Project(tomorrow).Weekday); ok {
			lower = e.proj.At(tomorrow, win.StartHour, 0)
		}
		upper = e.proj.EndOfDay(tomorrow)
	case ModeNextWeek:
		lower = e.proj.NextWeekday(now, time.Monday)
		upper = lower.AddDate(0, 0, e.opts.MaxDays)
	case ModeNextMonth:
		lower = e.proj.StartOfNextMonth(now)
		upper = lower.AddDate(0, 0, 60)
	case ModeOptimal:
		lower = now
		horizon := 7
		if t.DueDate != nil {
			if d := e.proj.DaysBetween(now, *t.DueDate); d >= 0 {
				horizon = min(e.opts.MaxDays, max(d, 1))
			}
		}
		upper = now.AddDate(0, 0, horizon)
	default:
		return res, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	if constraint.After(lower) {
		lower = constraint
	}
	if lower.After(upper) {
		res.say("dependency constraint %s falls outside the %s window", constraint.Format("2006-01-02 15:04"), mode)
		return res, fmt.Errorf("%w: dependencies end after the %s window", ErrNoSlot, mode)
	}

	busy := busySlots(snap.Obstacles(t.ID))
	slot, err := e.findForward(t.Duration(), busy, lower, upper, hrs, e.opts.MaxDays, res)
	if err != nil {
		return res, err
	}

	res.Slot = slot
	res.say("placed %q at %s", t.Title, slot)
	return res, nil
}

// scheduleBeforeDue seeks backward from the task's due date.
func (e *Engine) scheduleBeforeDue(snap *task.Snapshot, t *task.Task, constraint time.Time, res *Result) (*Result, error) {
	if t.DueDate == nil {
		return res, fmt.Errorf("%w: %s", ErrNoDueDate, t.ID)
	}
	due := *t.DueDate

	if constraint.After(due) {
		res.say("dependencies of %q finish after its due date %s", t.Title, due.Format("2006-01-02 15:04"))
		return res, ErrDependencyAfterDeadline
	}

	hrs := e.hoursFor(t, snap)
	busy := busySlots(snap.Obstacles(t.ID))
	slot, err := e.findBackward(t.Duration(), busy, due, constraint, hrs, e.opts.MaxDays, res)
	if err != nil {
		return res, err
	}

	res.Slot = slot
	res.say("placed %q at %s, before its due date", t.Title, slot)
	return res, nil
}

// dayFallbackHours substitutes the user's awake hours when the effective
// hours leave the target day without a window. Today/tomorrow placements
// should not fail just because a group takes the day off.
func (e *Engine) dayFallbackHours(hrs hours.WeekHours, day time.Time, res *Result) hours.WeekHours {
	if _, ok := hrs.Resolve(e.proj.Project(day).Weekday); ok {
		return hrs
	}
	if e.opts.AwakeHours != nil {
		res.say("no working hours on %s, falling back to awake hours", e.proj.Project(day).Weekday)
		return hours.Uniform(*e.opts.AwakeHours)
	}
	return hrs
}
