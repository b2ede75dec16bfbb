package task

import (
	"sort"

	"slotter/internal/hours"
)

// DependencyMap maps a task id to the ids it depends on. It is merged with
// each task's own DependsOn field; both sources are honored.
type DependencyMap map[string][]string

// Snapshot is the engine's in-memory view of the world: every task and
// group for one user, plus external dependency edges. The engine never
// mutates a snapshot's tasks; it returns new intervals for the caller to
// apply.
type Snapshot struct {
	Tasks        []*Task
	Groups       map[string]*Group
	Dependencies DependencyMap

	byID map[string]*Task
}

// NewSnapshot builds a snapshot with an id index.
func NewSnapshot(tasks []*Task, groups map[string]*Group, deps DependencyMap) *Snapshot {
	byID := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	if groups == nil {
		groups = map[string]*Group{}
	}
	return &Snapshot{Tasks: tasks, Groups: groups, Dependencies: deps, byID: byID}
}

// Task returns the task with the given id, or nil.
func (s *Snapshot) Task(id string) *Task {
	return s.byID[id]
}

// Group returns the group with the given id, or nil.
func (s *Snapshot) Group(id string) *Group {
	if id == "" {
		return nil
	}
	return s.Groups[id]
}

// GroupHours returns the schedule hours of a task's group, or nil when the
// task has no group or the group does not auto-schedule.
func (s *Snapshot) GroupHours(t *Task) hours.WeekHours {
	return s.Group(t.GroupID).ScheduleHours()
}

// DependenciesOf returns the union of the task's own DependsOn list and
// the snapshot's dependency map entry, deduplicated, order preserved.
func (s *Snapshot) DependenciesOf(t *Task) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(ids []string) {
		for _, id := range ids {
			if id == "" || id == t.ID || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	add(t.DependsOn)
	add(s.Dependencies[t.ID])
	return out
}

// Obstacles returns every task that blocks a placement for the task with
// the given id: scheduled, non-terminal, and not the task itself.
func (s *Snapshot) Obstacles(excludeID string) []*Task {
	var out []*Task
	for _, t := range s.Tasks {
		if t.ID == excludeID {
			continue
		}
		if t.Obstacle() {
			out = append(out, t)
		}
	}
	return out
}

// SortByStart orders tasks by scheduled start, breaking ties by creation
// time and then id for stability.
func SortByStart(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.Scheduled() && !b.Scheduled():
			return true
		case !a.Scheduled() && b.Scheduled():
			return false
		case a.Scheduled() && b.Scheduled() && !a.ScheduledStart.Equal(*b.ScheduledStart):
			return a.ScheduledStart.Before(*b.ScheduledStart)
		case !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.ID < b.ID
		}
	})
}
