package engine

import "fmt"

// Mode selects how the dispatcher computes the search bounds for a
// placement. The set is closed so a switch over it can be exhaustive.
type Mode int

const (
	ModeNow Mode = iota
	ModeToday
	ModeTomorrow
	ModeNextWeek
	ModeNextMonth
	ModeDueDate
	ModeASAP
	ModeOptimal
)

var modeNames = map[Mode]string{
	ModeNow:       "now",
	ModeToday:     "today",
	ModeTomorrow:  "tomorrow",
	ModeNextWeek:  "next-week",
	ModeNextMonth: "next-month",
	ModeDueDate:   "due-date",
	ModeASAP:      "asap",
	ModeOptimal:   "optimal",
}

// String returns the mode's wire name.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
