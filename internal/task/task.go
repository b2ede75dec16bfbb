// Package task defines the core domain types for slotter.
package task

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
	ErrEndBeforeStart   = errors.New("scheduled end must be after scheduled start")
	ErrHalfScheduled    = errors.New("scheduled start and end must both be set or both be empty")
)

// Domain errors.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrSlotOverlap   = errors.New("time slot overlaps with existing task")
)

// Status represents the state of a task.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusRescheduled:
		return true
	default:
		return false
	}
}

// Terminal returns true for statuses whose tasks never act as scheduling
// obstacles: their old interval is free for others even though the record
// keeps it.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRescheduled:
		return true
	default:
		return false
	}
}

// Task represents a unit of work to be placed on a calendar.
type Task struct {
	ID              string
	Title           string
	DurationMinutes int // 0 means no duration set; such tasks are not schedulable
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	Status          Status
	Locked          bool
	DueDate         *time.Time
	GroupID         string
	DependsOn       []string
	CreatedAt       time.Time
}

// New creates a pending Task with validation. The ID is assigned by the
// caller (commands use uuids, tests use short strings).
func New(id, title string, durationMinutes int) (*Task, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if durationMinutes < 0 {
		return nil, ErrInvalidDuration
	}
	return &Task{
		ID:              id,
		Title:           title,
		DurationMinutes: durationMinutes,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Validate checks the task's internal consistency.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.DurationMinutes < 0 {
		return ErrInvalidDuration
	}
	if (t.ScheduledStart == nil) != (t.ScheduledEnd == nil) {
		return ErrHalfScheduled
	}
	if t.ScheduledStart != nil && !t.ScheduledStart.Before(*t.ScheduledEnd) {
		return ErrEndBeforeStart
	}
	return nil
}

// HasDuration returns true if the task has a duration and can be scheduled.
func (t *Task) HasDuration() bool {
	return t.DurationMinutes > 0
}

// Duration returns the task duration.
func (t *Task) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

// Scheduled returns true if the task occupies a calendar interval.
func (t *Task) Scheduled() bool {
	return t.ScheduledStart != nil && t.ScheduledEnd != nil
}

// Slot returns the task's scheduled interval. Only valid when Scheduled().
func (t *Task) Slot() TimeSlot {
	return TimeSlot{Start: *t.ScheduledStart, End: *t.ScheduledEnd}
}

// SetSlot assigns a scheduled interval to the task.
func (t *Task) SetSlot(s TimeSlot) {
	start, end := s.Start, s.End
	t.ScheduledStart = &start
	t.ScheduledEnd = &end
}

// Obstacle returns true if the task blocks other placements: it is
// scheduled and its status is not terminal.
func (t *Task) Obstacle() bool {
	return t.Scheduled() && !t.Status.Terminal()
}

// Movable returns true if the task may be displaced by the shuffler or
// reflow: unlocked, not in progress, not terminal.
func (t *Task) Movable() bool {
	return !t.Locked && t.Status != StatusInProgress && !t.Status.Terminal()
}

// Fixed returns true if the task acts as an immovable obstacle for reflow:
// locked or in progress. Terminal tasks are neither fixed nor movable;
// they simply vanish from the board.
func (t *Task) Fixed() bool {
	return t.Locked || t.Status == StatusInProgress
}
