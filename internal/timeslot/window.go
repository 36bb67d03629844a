// Package timeslot provides slot arithmetic for the operating window shared
// by every scheduling component: candidate generation, validation, and both
// solvers all index time the same way.
package timeslot

import "fmt"

// Window describes the operating day as a sequence of fixed-length slots.
// Slot i covers real minutes [DayStart + i*SlotMinutes, DayStart + (i+1)*SlotMinutes).
type Window struct {
	DayStart    int // minutes from midnight
	DayEnd      int // minutes from midnight
	SlotMinutes int
}

// DefaultWindow is the 05:00-22:00, 15-minute-resolution window from spec.md §4.1.
var DefaultWindow = Window{DayStart: 300, DayEnd: 1320, SlotMinutes: 15}

// Validate reports a ConfigurationError-class problem, per spec.md §7:
// day_end <= day_start or a non-positive slot length.
func (w Window) Validate() error {
	if w.SlotMinutes <= 0 {
		return fmt.Errorf("timeslot: slot_minutes must be positive, got %d", w.SlotMinutes)
	}
	if w.DayEnd <= w.DayStart {
		return fmt.Errorf("timeslot: day_end (%d) must be after day_start (%d)", w.DayEnd, w.DayStart)
	}
	return nil
}

// Slots returns S, the number of slots in the window.
func (w Window) Slots() int {
	return (w.DayEnd - w.DayStart) / w.SlotMinutes
}

// Minutes converts a slot count to real minutes.
func (w Window) Minutes(slots int) int {
	return slots * w.SlotMinutes
}

// RoundUpToSlot rounds minutes up to the next whole multiple of SlotMinutes,
// per spec.md §4.1: "any policy value not a multiple of slot_minutes rounds
// up to the next slot."
func (w Window) RoundUpToSlot(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	rem := minutes % w.SlotMinutes
	if rem == 0 {
		return minutes
	}
	return minutes + (w.SlotMinutes - rem)
}

// SlotsFor converts a minute duration to a whole number of slots, rounding
// up first so partial slots are never silently truncated.
func (w Window) SlotsFor(minutes int) int {
	return w.RoundUpToSlot(minutes) / w.SlotMinutes
}
