package engine

import (
	"fmt"

	"slotter/internal/task"
)

// Displacement records one task moved aside during a shuffle or reflow.
type Displacement struct {
	TaskID string
	Slot   task.TimeSlot
}

// Result is the output of an engine operation: the placed interval (when
// one task was being placed), every displaced task's new interval in
// displacement order, and a human-readable feedback log. On error the
// already-computed parts remain valid so the caller can decide whether to
// apply them.
type Result struct {
	Slot      task.TimeSlot
	Displaced []Displacement
	Feedback  []string
}

func (r *Result) say(format string, args ...any) {
	r.Feedback = append(r.Feedback, fmt.Sprintf(format, args...))
}

// Updates flattens the result into a batch of slot updates for the
// repository, target first.
func (r *Result) Updates(targetID string) []task.SlotUpdate {
	var out []task.SlotUpdate
	if !r.Slot.IsZero() && targetID != "" {
		out = append(out, task.SlotUpdate{TaskID: targetID, Slot: r.Slot})
	}
	for _, d := range r.Displaced {
		out = append(out, task.SlotUpdate{TaskID: d.TaskID, Slot: d.Slot})
	}
	return out
}
