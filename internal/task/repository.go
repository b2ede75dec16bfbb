package task

import (
	"context"

	"slotter/internal/hours"
)

// SlotUpdate represents one task interval change in a batch apply.
type SlotUpdate struct {
	TaskID string
	Slot   TimeSlot
}

// Repository defines the storage interface for tasks and groups.
type Repository interface {
	// CreateTask adds a new task.
	CreateTask(ctx context.Context, t *Task) error

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if missing.
	GetTask(ctx context.Context, id string) (*Task, error)

	// ListTasks returns every task, ordered by scheduled start then
	// creation time.
	ListTasks(ctx context.Context) ([]*Task, error)

	// UpdateTaskStatus changes a task's status.
	UpdateTaskStatus(ctx context.Context, id string, status Status) error

	// SetTaskLocked toggles the lock flag.
	SetTaskLocked(ctx context.Context, id string, locked bool) error

	// ApplySlots atomically applies a batch of interval changes, as
	// produced by a schedule, shuffle, or reflow run. It validates the
	// no-overlap invariant over the final state before committing and
	// returns ErrSlotOverlap when it would be violated.
	ApplySlots(ctx context.Context, updates []SlotUpdate) error

	// CreateGroup adds a new group.
	CreateGroup(ctx context.Context, g *Group) error

	// GetGroup retrieves a group by ID. Returns ErrGroupNotFound if missing.
	GetGroup(ctx context.Context, id string) (*Group, error)

	// ListGroups returns every group.
	ListGroups(ctx context.Context) ([]*Group, error)

	// SetGroupHours replaces a group's schedule hours.
	SetGroupHours(ctx context.Context, id string, h hours.WeekHours) error

	// AddDependency records that task depends on another task.
	AddDependency(ctx context.Context, taskID, dependsOnID string) error

	// ListDependencies returns all dependency edges.
	ListDependencies(ctx context.Context) (DependencyMap, error)

	// Close releases any resources held by the repository.
	Close() error
}
