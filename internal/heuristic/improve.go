package heuristic

import "github.com/workforce-eng/shiftsched/internal/model"

// Improve runs Phase C: for each assigned shift, try sliding its lunch and
// each break by one slot in either direction, keeping the move only if it
// strictly increases total weighted coverage and the span stays inside the
// shift's own bounds. A moved lunch also stays within maxLunchSlack slots
// of the shift's midpoint and off every break; a moved break stays off the
// lunch and the other breaks. It never changes a shift's start, end, or
// work minutes, so it cannot introduce a SHIFT_BOUNDS, LUNCH, or BREAK
// violation the candidate itself didn't already avoid.
func Improve(shifts map[string]model.AssignedShift, numSlots int, weights Weights) {
	coverage := make([]int, numSlots)
	for _, s := range shifts {
		for t := s.StartSlot; t < s.EndSlot && t < numSlots; t++ {
			if s.OnFloor(t) {
				coverage[t]++
			}
		}
	}

	for id, shift := range shifts {
		shift = slideLunch(shift, coverage, numSlots, weights)
		shift = slideBreaks(shift, coverage, numSlots, weights)
		shifts[id] = shift
	}
}

// maxLunchSlack is the widest lunch slack candidate generation uses (busy
// days), measured in slots from the shift's midpoint.
const maxLunchSlack = 4

func slideLunch(shift model.AssignedShift, coverage []int, numSlots int, weights Weights) model.AssignedShift {
	if shift.Lunch == nil {
		return shift
	}
	mid := (shift.StartSlot + shift.EndSlot) / 2
	for _, delta := range []int{-1, 1} {
		moved := *shift.Lunch
		moved.Start += delta
		if moved.Start < shift.StartSlot || moved.End() > shift.EndSlot {
			continue
		}
		if moved.Start < mid-maxLunchSlack || moved.Start > mid+maxLunchSlack || overlapsAny(moved, shift.Breaks, -1) {
			continue
		}
		candidate := shift
		candidate.Lunch = &moved
		if objectiveDelta(shift, candidate, coverage, numSlots, weights) > 0 {
			applyShiftDelta(coverage, shift, candidate, numSlots)
			shift = candidate
		}
	}
	return shift
}

func slideBreaks(shift model.AssignedShift, coverage []int, numSlots int, weights Weights) model.AssignedShift {
	for i := range shift.Breaks {
		for _, delta := range []int{-1, 1} {
			moved := append([]model.BreakSpan{}, shift.Breaks...)
			moved[i].Start += delta
			if moved[i].Start < shift.StartSlot || moved[i].End() > shift.EndSlot {
				continue
			}
			if overlapsAny(moved[i], moved, i) || (shift.Lunch != nil && overlapsSpan(moved[i], *shift.Lunch)) {
				continue
			}
			candidate := shift
			candidate.Breaks = moved
			if objectiveDelta(shift, candidate, coverage, numSlots, weights) > 0 {
				applyShiftDelta(coverage, shift, candidate, numSlots)
				shift = candidate
			}
		}
	}
	return shift
}

func overlapsAny(span model.BreakSpan, all []model.BreakSpan, skip int) bool {
	for j, other := range all {
		if j == skip {
			continue
		}
		if overlapsSpan(span, other) {
			return true
		}
	}
	return false
}

func overlapsSpan(a, b model.BreakSpan) bool {
	return a.Start < b.End() && b.Start < a.End()
}

// objectiveDelta computes the change in Σw(t)·coverage(t) − λ·overstaff(t)
// from replacing before with after, without mutating the shared coverage
// vector.
func objectiveDelta(before, after model.AssignedShift, coverage []int, numSlots int, weights Weights) float64 {
	delta := 0.0
	for t := before.StartSlot; t < before.EndSlot && t < numSlots; t++ {
		onBefore := before.OnFloor(t)
		onAfter := after.OnFloor(t)
		if onBefore == onAfter {
			continue
		}
		w := weights.At(t)
		if onAfter && !onBefore {
			oldOver := weights.Overstaff(t, coverage[t])
			newOver := weights.Overstaff(t, coverage[t]+1)
			delta += w - weights.Lambda*(newOver-oldOver)
		} else {
			oldOver := weights.Overstaff(t, coverage[t])
			newOver := weights.Overstaff(t, coverage[t]-1)
			delta -= w - weights.Lambda*(oldOver-newOver)
		}
	}
	return delta
}

func applyShiftDelta(coverage []int, before, after model.AssignedShift, numSlots int) {
	for t := before.StartSlot; t < before.EndSlot && t < numSlots; t++ {
		onBefore := before.OnFloor(t)
		onAfter := after.OnFloor(t)
		if onAfter && !onBefore {
			coverage[t]++
		} else if onBefore && !onAfter {
			coverage[t]--
		}
	}
}
