package engine

import "errors"

// Engine error kinds. All are returned as values, never panics; partial
// progress stays in the Result alongside the error.
var (
	ErrNoDuration              = errors.New("task has no duration set")
	ErrNoSlot                  = errors.New("no feasible slot found")
	ErrNoDueDate               = errors.New("task has no due date")
	ErrDependencyUnresolved    = errors.New("incomplete dependency is not scheduled")
	ErrDependencyAfterDeadline = errors.New("dependency completes after the due date")
	ErrTimeout                 = errors.New("scheduling budget exceeded")
	ErrDepthLimit              = errors.New("displacement depth limit reached")
	ErrUnknownMode             = errors.New("unknown scheduling mode")
)
