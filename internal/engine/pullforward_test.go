package engine

import (
	"errors"
	"testing"

	"slotter/internal/hours"
	"slotter/internal/task"
)

func groupSnap(tasks []*task.Task, g *task.Group) *task.Snapshot {
	return task.NewSnapshot(tasks, map[string]*task.Group{g.ID: g}, nil)
}

func inGroup(t *task.Task, groupID string) *task.Task {
	t.GroupID = groupID
	return t
}

func TestPullForwardFillsFreeCapacity(t *testing.T) {
	e := testEngine(day(6, 9, 0))
	g := &task.Group{ID: "g", Name: "work"}

	// Monday holds one foreign booking; f1 from Tuesday fits after it.
	foreign := booked("x", 60, day(6, 9, 0))
	f1 := inGroup(booked("f1", 60, day(7, 9, 0)), "g")

	res, err := e.PullForward(groupSnap([]*task.Task{foreign, f1}, g), day(6, 0, 0), "g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Displaced) != 1 || res.Displaced[0].TaskID != "f1" {
		t.Fatalf("expected f1 pulled, got %+v", res.Displaced)
	}
	// Capacity is computed against all bookings, not just the group's.
	wantSlot(t, res.Displaced[0].Slot, day(6, 10, 0), day(6, 11, 0))
}

func TestPullForwardStopsAtFirstMisfit(t *testing.T) {
	e := testEngine(day(6, 9, 0))
	g := &task.Group{ID: "g", Name: "work"}

	f1 := inGroup(booked("f1", 60, day(7, 9, 0)), "g")
	huge := inGroup(booked("huge", 450, day(7, 10, 0)), "g") // cannot fit after f1
	f3 := inGroup(booked("f3", 30, day(8, 9, 0)), "g")       // would fit, but comes after the misfit

	res, err := e.PullForward(groupSnap([]*task.Task{f1, huge, f3}, g), day(6, 0, 0), "g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Displaced) != 1 || res.Displaced[0].TaskID != "f1" {
		t.Fatalf("expected only f1 pulled, got %+v", res.Displaced)
	}
}

func TestPullForwardSkipsLockedAndTerminal(t *testing.T) {
	e := testEngine(day(6, 9, 0))
	g := &task.Group{ID: "g", Name: "work"}

	locked := inGroup(booked("locked", 60, day(7, 9, 0)), "g")
	locked.Locked = true
	done := inGroup(booked("done", 60, day(7, 10, 0)), "g")
	done.Status = task.StatusCompleted
	ok := inGroup(booked("ok", 60, day(7, 11, 0)), "g")

	res, err := e.PullForward(groupSnap([]*task.Task{locked, done, ok}, g), day(6, 0, 0), "g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Displaced) != 1 || res.Displaced[0].TaskID != "ok" {
		t.Fatalf("expected only ok pulled, got %+v", res.Displaced)
	}
}

func TestPullForwardRespectsLookahead(t *testing.T) {
	e := testEngine(day(6, 9, 0))
	g := &task.Group{ID: "g", Name: "work"}

	far := inGroup(booked("far", 60, day(28, 9, 0)), "g") // 22 days out

	res, err := e.PullForward(groupSnap([]*task.Task{far}, g), day(6, 0, 0), "g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Displaced) != 0 {
		t.Errorf("task beyond the look-ahead window was pulled: %+v", res.Displaced)
	}
}

func TestPullForwardIgnoresSameDayTasks(t *testing.T) {
	e := testEngine(day(6, 9, 0))
	g := &task.Group{ID: "g", Name: "work"}

	today := inGroup(booked("today", 60, day(6, 14, 0)), "g")

	res, err := e.PullForward(groupSnap([]*task.Task{today}, g), day(6, 0, 0), "g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Displaced) != 0 {
		t.Errorf("same-day task is not backlog: %+v", res.Displaced)
	}
}

func TestPullForwardGroupDayOff(t *testing.T) {
	e := testEngine(day(6, 9, 0))
	g := &task.Group{
		ID: "g", Name: "tuesdays", AutoSchedule: true,
		Hours: hours.WeekHours{"tuesday": &hours.Window{StartHour: 9, EndHour: 17}},
	}
	f1 := inGroup(booked("f1", 60, day(7, 9, 0)), "g")

	_, err := e.PullForward(groupSnap([]*task.Task{f1}, g), day(6, 0, 0), "g")
	if !errors.Is(err, ErrNoSlot) {
		t.Fatalf("expected ErrNoSlot on the group's day off, got %v", err)
	}
}

func TestPullForwardUnknownGroup(t *testing.T) {
	e := testEngine(day(6, 9, 0))

	_, err := e.PullForward(snapOf(), day(6, 0, 0), "nope")
	if !errors.Is(err, task.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
