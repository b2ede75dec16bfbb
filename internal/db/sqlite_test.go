package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"slotter/internal/hours"
	"slotter/internal/task"
)

func testRepo(t *testing.T) *SQLite {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func at(day, hour, min int) time.Time {
	return time.Date(2025, time.January, day, hour, min, 0, 0, time.UTC)
}

func newTask(t *testing.T, id, title string, minutes int) *task.Task {
	t.Helper()
	tk, err := task.New(id, title, minutes)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	return tk
}

func TestCreateAndGetTask(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	tk := newTask(t, "t1", "write report", 90)
	due := at(10, 17, 0)
	tk.DueDate = &due
	tk.SetSlot(task.NewTimeSlot(at(6, 9, 0), 90*time.Minute))

	if err := repo.CreateTask(ctx, tk); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Title != "write report" || got.DurationMinutes != 90 {
		t.Errorf("got %q/%d", got.Title, got.DurationMinutes)
	}
	if got.Status != task.StatusPending {
		t.Errorf("Status = %q", got.Status)
	}
	if !got.Scheduled() || !got.Slot().Start.Equal(at(6, 9, 0)) {
		t.Errorf("Slot = %+v", got.Slot())
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v", got.DueDate)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetTask(context.Background(), "missing")
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestListTasksOrder(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	unscheduled := newTask(t, "u", "someday", 30)
	late := newTask(t, "late", "afternoon", 60)
	late.SetSlot(task.NewTimeSlot(at(6, 14, 0), time.Hour))
	early := newTask(t, "early", "morning", 60)
	early.SetSlot(task.NewTimeSlot(at(6, 9, 0), time.Hour))

	for _, tk := range []*task.Task{unscheduled, late, early} {
		if err := repo.CreateTask(ctx, tk); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	got, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	// Scheduled tasks first by start, unscheduled last.
	if got[0].ID != "early" || got[1].ID != "late" || got[2].ID != "u" {
		t.Errorf("order = %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	tk := newTask(t, "t1", "thing", 30)
	if err := repo.CreateTask(ctx, tk); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := repo.UpdateTaskStatus(ctx, "t1", task.StatusCompleted); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	got, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != task.StatusCompleted {
		t.Errorf("Status = %q", got.Status)
	}

	if err := repo.UpdateTaskStatus(ctx, "t1", task.Status("bogus")); !errors.Is(err, task.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if err := repo.UpdateTaskStatus(ctx, "nope", task.StatusCompleted); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSetTaskLocked(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	tk := newTask(t, "t1", "thing", 30)
	if err := repo.CreateTask(ctx, tk); err != nil {
		t.Fatal(err)
	}

	if err := repo.SetTaskLocked(ctx, "t1", true); err != nil {
		t.Fatalf("SetTaskLocked: %v", err)
	}
	got, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Locked {
		t.Error("task should be locked")
	}

	if err := repo.SetTaskLocked(ctx, "nope", true); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestApplySlots(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := newTask(t, "a", "first", 60)
	a.SetSlot(task.NewTimeSlot(at(6, 9, 0), time.Hour))
	b := newTask(t, "b", "second", 60)
	b.SetSlot(task.NewTimeSlot(at(6, 10, 0), time.Hour))
	for _, tk := range []*task.Task{a, b} {
		if err := repo.CreateTask(ctx, tk); err != nil {
			t.Fatal(err)
		}
	}

	// Swap the two intervals in one batch.
	updates := []task.SlotUpdate{
		{TaskID: "a", Slot: task.NewTimeSlot(at(6, 10, 0), time.Hour)},
		{TaskID: "b", Slot: task.NewTimeSlot(at(6, 9, 0), time.Hour)},
	}
	if err := repo.ApplySlots(ctx, updates); err != nil {
		t.Fatalf("ApplySlots: %v", err)
	}

	got, err := repo.GetTask(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Slot().Start.Equal(at(6, 10, 0)) {
		t.Errorf("a start = %s", got.Slot().Start)
	}
}

func TestApplySlotsRejectsOverlap(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := newTask(t, "a", "first", 60)
	a.SetSlot(task.NewTimeSlot(at(6, 9, 0), time.Hour))
	b := newTask(t, "b", "second", 60)
	b.SetSlot(task.NewTimeSlot(at(6, 10, 0), time.Hour))
	for _, tk := range []*task.Task{a, b} {
		if err := repo.CreateTask(ctx, tk); err != nil {
			t.Fatal(err)
		}
	}

	// Moving a onto b must fail and leave both rows untouched.
	updates := []task.SlotUpdate{
		{TaskID: "a", Slot: task.NewTimeSlot(at(6, 10, 30), time.Hour)},
	}
	if err := repo.ApplySlots(ctx, updates); !errors.Is(err, task.ErrSlotOverlap) {
		t.Fatalf("expected ErrSlotOverlap, got %v", err)
	}

	got, err := repo.GetTask(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Slot().Start.Equal(at(6, 9, 0)) {
		t.Errorf("a was modified despite rollback: start = %s", got.Slot().Start)
	}
}

func TestApplySlotsIgnoresTerminalOverlap(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	done := newTask(t, "done", "finished", 60)
	done.SetSlot(task.NewTimeSlot(at(6, 9, 0), time.Hour))
	if err := repo.CreateTask(ctx, done); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateTaskStatus(ctx, "done", task.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	a := newTask(t, "a", "new", 60)
	a.SetSlot(task.NewTimeSlot(at(6, 14, 0), time.Hour))
	if err := repo.CreateTask(ctx, a); err != nil {
		t.Fatal(err)
	}

	// A completed task's old interval is free.
	updates := []task.SlotUpdate{
		{TaskID: "a", Slot: task.NewTimeSlot(at(6, 9, 0), time.Hour)},
	}
	if err := repo.ApplySlots(ctx, updates); err != nil {
		t.Fatalf("ApplySlots: %v", err)
	}
}

func TestApplySlotsUnknownTask(t *testing.T) {
	repo := testRepo(t)

	updates := []task.SlotUpdate{
		{TaskID: "ghost", Slot: task.NewTimeSlot(at(6, 9, 0), time.Hour)},
	}
	if err := repo.ApplySlots(context.Background(), updates); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestGroupRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	g := &task.Group{
		ID: "g1", Name: "deep work", AutoSchedule: true,
		Hours: hours.WeekHours{
			"monday":  &hours.Window{StartHour: 9, EndHour: 13},
			"tuesday": &hours.Window{StartHour: 10, EndHour: 18},
		},
	}
	if err := repo.CreateGroup(ctx, g); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	got, err := repo.GetGroup(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGroup: %v", err)
	}
	if got.Name != "deep work" || !got.AutoSchedule {
		t.Errorf("got %+v", got)
	}
	win, ok := got.Hours.Resolve(time.Monday)
	if !ok || win.StartHour != 9 || win.EndHour != 13 {
		t.Errorf("monday window = %+v, %v", win, ok)
	}
	if _, ok := got.Hours.Resolve(time.Friday); ok {
		t.Error("friday should be a day off")
	}

	_, err = repo.GetGroup(ctx, "missing")
	if !errors.Is(err, task.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestSetGroupHours(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	g := &task.Group{ID: "g1", Name: "ops", AutoSchedule: true}
	if err := repo.CreateGroup(ctx, g); err != nil {
		t.Fatal(err)
	}

	h := hours.WeekHours{"friday": &hours.Window{StartHour: 8, EndHour: 12}}
	if err := repo.SetGroupHours(ctx, "g1", h); err != nil {
		t.Fatalf("SetGroupHours: %v", err)
	}

	got, err := repo.GetGroup(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	win, ok := got.Hours.Resolve(time.Friday)
	if !ok || win.StartHour != 8 {
		t.Errorf("friday window = %+v, %v", win, ok)
	}

	if err := repo.SetGroupHours(ctx, "nope", h); !errors.Is(err, task.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestDependencies(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := newTask(t, "a", "draft", 60)
	b := newTask(t, "b", "review", 30)
	b.DependsOn = []string{"a"}
	for _, tk := range []*task.Task{a, b} {
		if err := repo.CreateTask(ctx, tk); err != nil {
			t.Fatal(err)
		}
	}
	// Duplicate edges are ignored.
	if err := repo.AddDependency(ctx, "b", "a"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	deps, err := repo.ListDependencies(ctx)
	if err != nil {
		t.Fatalf("ListDependencies: %v", err)
	}
	if len(deps["b"]) != 1 || deps["b"][0] != "a" {
		t.Errorf("deps[b] = %v", deps["b"])
	}

	got, err := repo.GetTask(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.DependsOn) != 1 || got.DependsOn[0] != "a" {
		t.Errorf("DependsOn = %v", got.DependsOn)
	}
}
