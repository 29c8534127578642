package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Meridiem is the AM/PM designator of a 12-hour time.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

var ErrInvalidTime = errors.New("invalid time")

// Time is a 12-hour wall-clock value built from three independent parts.
type Time struct {
	Hour   int      `json:"hour"`
	Minute int      `json:"minute"`
	AMPM   Meridiem `json:"ampm"`
}

// DefaultTime is the evening slot offered to a fresh draft.
func DefaultTime() Time {
	return Time{Hour: DefaultHour, Minute: DefaultMinute, AMPM: PM}
}

// HourOptions returns the selectable hours 1..12.
func HourOptions() []int {
	hours := make([]int, 0, 12)
	for h := 1; h <= 12; h++ {
		hours = append(hours, h)
	}
	return hours
}

// MinuteOptions returns the selectable minutes 0..59.
func MinuteOptions() []int {
	minutes := make([]int, 0, 60)
	for m := 0; m < 60; m++ {
		minutes = append(minutes, m)
	}
	return minutes
}

func (t *Time) SetHour(h int) error {
	if h < 1 || h > 12 {
		return fmt.Errorf("%w: hour %d", ErrInvalidTime, h)
	}
	t.Hour = h
	return nil
}

func (t *Time) SetMinute(m int) error {
	if m < 0 || m > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidTime, m)
	}
	t.Minute = m
	return nil
}

func (t *Time) SetMeridiem(m Meridiem) error {
	if m != AM && m != PM {
		return fmt.Errorf("%w: meridiem %q", ErrInvalidTime, m)
	}
	t.AMPM = m
	return nil
}

// ToggleMeridiem flips AM and PM.
func (t *Time) ToggleMeridiem() {
	if t.AMPM == AM {
		t.AMPM = PM
		return
	}
	t.AMPM = AM
}

// String formats the value as "H:MM AM". This is the wire format of the backend.
func (t Time) String() string {
	return fmt.Sprintf("%d:%02d %s", t.Hour, t.Minute, t.AMPM)
}

// Clock24 returns the value as "HH:MM" on a 24-hour clock.
func (t Time) Clock24() string {
	h := t.Hour % 12
	if t.AMPM == PM {
		h += 12
	}
	return fmt.Sprintf("%02d:%02d", h, t.Minute)
}

// Valid reports whether every part is inside its option set.
func (t Time) Valid() bool {
	return t.Hour >= 1 && t.Hour <= 12 && t.Minute >= 0 && t.Minute <= 59 && (t.AMPM == AM || t.AMPM == PM)
}

// ParseTime is the inverse of Time.String.
func ParseTime(s string) (Time, error) {
	clock, ampm, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hourStr, minuteStr, ok := strings.Cut(clock, ":")
	if !ok {
		return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return Time{}, fmt.Errorf("%w: hour %q", ErrInvalidTime, hourStr)
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		return Time{}, fmt.Errorf("%w: minute %q", ErrInvalidTime, minuteStr)
	}

	t := Time{Hour: hour, Minute: minute, AMPM: Meridiem(strings.ToUpper(strings.TrimSpace(ampm)))}
	if !t.Valid() {
		return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t, nil
}
