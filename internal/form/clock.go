package form

import "time"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Useful for hosts that replay a form.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
