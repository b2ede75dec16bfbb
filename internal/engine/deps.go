package engine

import (
	"fmt"
	"time"

	"slotter/internal/task"
)

// earliestStart computes the dependency constraint for a task: the latest
// scheduled end among its incomplete dependencies. The zero time means the
// task is unconstrained. ErrDependencyUnresolved is returned when an
// incomplete dependency has no schedule, because no safe lower bound
// exists yet.
func (e *Engine) earliestStart(t *task.Task, snap *task.Snapshot) (time.Time, error) {
	var latest time.Time
	for _, id := range snap.DependenciesOf(t) {
		dep := snap.Task(id)
		if dep == nil {
			// Dangling edge; nothing to wait for.
			continue
		}
		if dep.Status == task.StatusCompleted {
			continue
		}
		if !dep.Scheduled() {
			return time.Time{}, fmt.Errorf("%w: %s", ErrDependencyUnresolved, dep.ID)
		}
		if dep.ScheduledEnd.After(latest) {
			latest = *dep.ScheduledEnd
		}
	}
	return latest, nil
}
