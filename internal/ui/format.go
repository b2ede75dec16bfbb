package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"slotter/internal/engine"
	"slotter/internal/task"
)

var (
	pendingMark    = color.New(color.FgYellow).Sprint("○")
	inProgressMark = color.New(color.FgCyan).Sprint("◐")
	completedMark  = color.New(color.FgGreen).Sprint("●")
	cancelledMark  = color.New(color.FgRed).Sprint("✗")
	movedMark      = color.New(color.FgMagenta).Sprint("→")
)

func statusSymbol(s task.Status) string {
	switch s {
	case task.StatusPending:
		return pendingMark
	case task.StatusInProgress:
		return inProgressMark
	case task.StatusCompleted:
		return completedMark
	case task.StatusCancelled:
		return cancelledMark
	case task.StatusRescheduled:
		return movedMark
	default:
		return "?"
	}
}

// shortID abbreviates uuids in listings; short test-style ids pass through.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseDate parses YYYY-MM-DD as midnight in the user's timezone.
func (a *App) parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), a.proj.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func (a *App) formatSlot(s task.TimeSlot) string {
	start := a.proj.Project(s.Start)
	end := a.proj.Project(s.End)
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d-%02d:%02d",
		start.Year, start.Month, start.Day,
		start.Hour, start.Minute, end.Hour, end.Minute)
}

func printFeedback(res *engine.Result) {
	for _, line := range res.Feedback {
		fmt.Printf("  %s\n", line)
	}
}

func (a *App) printPlacement(snap *task.Snapshot, targetID string, res *engine.Result) {
	// The feedback already narrates the run; this is the summary block.
	fmt.Println()
	if t := snap.Task(targetID); t != nil {
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(t.Title), a.formatSlot(res.Slot))
	}
	a.printDisplacements(snap, res)
}

func (a *App) printDisplacements(snap *task.Snapshot, res *engine.Result) {
	for _, d := range res.Displaced {
		title := d.TaskID
		if t := snap.Task(d.TaskID); t != nil {
			title = t.Title
		}
		fmt.Printf("  %s %s %s\n", movedMark, title, a.formatSlot(d.Slot))
	}
}
