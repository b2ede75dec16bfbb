package engine

import "time"

// Clock supplies the current instant, keeping placement decisions a pure
// function of their inputs. The one exception is the wall-clock budget,
// which measures real elapsed time via time.Now.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Fixed returns a Clock frozen at the given instant. For tests.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }
