package form

import (
	"time"

	"lacasita/internal/models"
)

type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// StartOfWeek returns midnight of the Sunday on or before t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeekDates returns start and the six calendar days after it.
func WeekDates(start time.Time) [models.DaysInWeek]time.Time {
	var dates [models.DaysInWeek]time.Time
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// WeekNavigator pages through Sunday-anchored weeks, never earlier than the current one.
type WeekNavigator struct {
	clock Clock
	start time.Time
}

func NewWeekNavigator(clock Clock) *WeekNavigator {
	if clock == nil {
		clock = RealClock{}
	}
	return &WeekNavigator{clock: clock, start: StartOfWeek(clock.Now())}
}

// Floor is the Sunday of the present week.
func (w *WeekNavigator) Floor() time.Time {
	return StartOfWeek(w.clock.Now())
}

func (w *WeekNavigator) Start() time.Time {
	return w.start
}

// Navigate moves the window a whole week. It reports whether the window moved.
func (w *WeekNavigator) Navigate(dir Direction) bool {
	switch dir {
	case Next:
		w.start = w.start.AddDate(0, 0, models.DaysInWeek)
		return true
	case Prev:
		candidate := w.start.AddDate(0, 0, -models.DaysInWeek)
		if candidate.Before(w.Floor()) {
			return false
		}
		w.start = candidate
		return true
	default:
		return false
	}
}

func (w *WeekNavigator) Dates() []string {
	week := WeekDates(w.start)
	out := make([]string, len(week))
	for i, d := range week {
		out[i] = d.Format(models.DateLayout)
	}
	return out
}

func (w *WeekNavigator) Contains(date string) bool {
	for _, d := range w.Dates() {
		if d == date {
			return true
		}
	}
	return false
}

// ShowWeekOf moves the window to the week containing date. Weeks before the floor are ignored.
func (w *WeekNavigator) ShowWeekOf(date string) bool {
	t, err := time.ParseInLocation(models.DateLayout, date, w.start.Location())
	if err != nil {
		return false
	}
	return w.Restore(StartOfWeek(t))
}

// Restore sets the window start from a persisted value, re-anchored to Sunday and clamped to the floor.
func (w *WeekNavigator) Restore(start time.Time) bool {
	if start.IsZero() {
		return false
	}
	start = StartOfWeek(start.In(w.start.Location()))
	if floor := w.Floor(); start.Before(floor) {
		w.start = floor
		return false
	}
	w.start = start
	return true
}
