// Package candidate enumerates every feasible ShiftCandidate for an
// associate on a date, per spec.md §4.2. This is the only place shift,
// lunch, and break placement rules are combined into concrete slot
// triples; solvers and the validator never re-derive placement — they
// only ever check it.
package candidate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
)

// Config carries the per-request knobs candidate generation needs beyond
// the policy set: the lunch- and break-placement slack windows.
type Config struct {
	// LunchSlackSlots is T from spec.md §4.2 point 5: 2 slots normally, 4
	// on busy days (set by the weekly coordinator per spec.md §4.6 point 4).
	LunchSlackSlots int
	// BreakSlackSlots is the ± radius for break placement around its
	// anchor point (spec.md §4.2 point 6): fixed at 2 slots.
	BreakSlackSlots int
}

// DefaultConfig is the non-busy-day configuration.
var DefaultConfig = Config{LunchSlackSlots: 2, BreakSlackSlots: 2}

// BusyConfig is used on days in the weekly request's busy_days set.
var BusyConfig = Config{LunchSlackSlots: 4, BreakSlackSlots: 2}

// Generate returns every feasible ShiftCandidate for assoc within avail,
// sorted by decreasing work minutes with ties broken by earlier start
// slot, per spec.md §4.2's determinism rule.
func Generate(avail model.Availability, assoc model.Associate, win timeslot.Window, pol policy.Set, cfg Config) []model.ShiftCandidate {
	if avail.IsOff() {
		return nil
	}

	seen := make(map[string]struct{})
	var out []model.ShiftCandidate

	maxDaily := assoc.MaxMinutesPerDay
	if maxDaily <= 0 {
		maxDaily = pol.Shift.MaxWork
	}

	// Candidate lunch durations are exactly the policy's possible outputs:
	// 0, the short duration, and the long duration (spec.md §4.1).
	lunchDurations := dedupInts(0, pol.Lunch.ShortLunchDuration, pol.Lunch.LongLunchDuration)

	for start := avail.StartSlot; start < avail.EndSlot; start++ {
		for end := start + 1; end <= avail.EndSlot; end++ {
			spanSlots := end - start
			spanMinutes := win.Minutes(spanSlots)

			for _, lunchMin := range lunchDurations {
				workMinutes := spanMinutes - lunchMin
				if workMinutes <= 0 {
					continue
				}
				// Consistency: the work minutes this lunch duration implies
				// must, fed back through the lunch policy, demand exactly
				// that duration (spec.md §9 "Lunch-length fixpoint").
				if pol.Lunch.Minutes(workMinutes) != lunchMin {
					continue
				}
				if !pol.Shift.Admits(workMinutes) {
					continue
				}
				if workMinutes > maxDaily {
					continue
				}

				breaksNeeded := pol.Break.Count(workMinutes)
				lunchSlots := lunchMin / win.SlotMinutes

				for _, lunch := range lunchPlacements(start, end, lunchSlots, cfg.LunchSlackSlots) {
					var lunchSpan *model.BreakSpan
					avoid := []model.BreakSpan{}
					if lunch != nil {
						lunchSpan = lunch
						avoid = append(avoid, *lunch)
					}

					breakDuration := pol.Break.BreakDuration / win.SlotMinutes
					if pol.Break.BreakDuration%win.SlotMinutes != 0 {
						breakDuration++
					}

					for _, breaks := range breakPlacements(start, end, breaksNeeded, breakDuration, cfg.BreakSlackSlots, avoid) {
						cand := model.ShiftCandidate{
							StartSlot:   start,
							EndSlot:     end,
							WorkMinutes: workMinutes,
							Lunch:       lunchSpan,
							Breaks:      breaks,
						}
						key := candidateKey(cand)
						if _, dup := seen[key]; dup {
							continue
						}
						seen[key] = struct{}{}
						out = append(out, cand)
					}
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkMinutes != out[j].WorkMinutes {
			return out[i].WorkMinutes > out[j].WorkMinutes
		}
		return out[i].StartSlot < out[j].StartSlot
	})
	return out
}

// lunchPlacements returns every admissible lunch BreakSpan (or a single
// nil for "no lunch required") for a shift [start,end) with the given
// lunch length in slots and placement slack T.
func lunchPlacements(start, end, lunchSlots, slack int) []*model.BreakSpan {
	if lunchSlots == 0 {
		return []*model.BreakSpan{nil}
	}
	mid := (start + end) / 2
	var out []*model.BreakSpan
	for pos := mid - slack; pos <= mid+slack; pos++ {
		if pos < start || pos+lunchSlots > end {
			continue
		}
		span := model.BreakSpan{Start: pos, Duration: lunchSlots}
		out = append(out, &span)
	}
	return out
}

// breakPlacements returns every admissible combination of break spans for
// a shift [start,end) requiring `count` breaks of `duration` slots each,
// each within ±slack of its anchor (spec.md §4.2 point 6), avoiding the
// spans in avoid (lunch) with at least a 1-slot gap, and not overlapping
// each other.
func breakPlacements(start, end, count, duration, slack int, avoid []model.BreakSpan) [][]model.BreakSpan {
	if count == 0 {
		return [][]model.BreakSpan{{}}
	}

	anchors := make([]int, count)
	span := end - start
	switch count {
	case 1:
		anchors[0] = (start + end) / 2
	case 2:
		anchors[0] = start + span/3
		anchors[1] = start + (2*span)/3
	default:
		for i := range anchors {
			anchors[i] = start + (i+1)*span/(count+1)
		}
	}

	positionsPerAnchor := make([][]int, count)
	for i, anchor := range anchors {
		for pos := anchor - slack; pos <= anchor+slack; pos++ {
			if pos < start || pos+duration > end {
				continue
			}
			if overlapsWithGap(pos, duration, avoid, 1) {
				continue
			}
			positionsPerAnchor[i] = append(positionsPerAnchor[i], pos)
		}
	}

	var combos [][]model.BreakSpan
	var rec func(i int, acc []model.BreakSpan)
	rec = func(i int, acc []model.BreakSpan) {
		if i == count {
			combos = append(combos, append([]model.BreakSpan{}, acc...))
			return
		}
		for _, pos := range positionsPerAnchor[i] {
			span := model.BreakSpan{Start: pos, Duration: duration}
			if spansOverlap(span, acc) {
				continue
			}
			rec(i+1, append(acc, span))
		}
	}
	rec(0, nil)
	return combos
}

func overlapsWithGap(pos, duration int, spans []model.BreakSpan, gap int) bool {
	for _, s := range spans {
		if pos < s.End()+gap && s.Start < pos+duration+gap {
			return true
		}
	}
	return false
}

func spansOverlap(cand model.BreakSpan, existing []model.BreakSpan) bool {
	for _, s := range existing {
		if cand.Start < s.End() && s.Start < cand.End() {
			return true
		}
	}
	return false
}

func dedupInts(vals ...int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func candidateKey(c model.ShiftCandidate) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%d-%d", c.StartSlot, c.EndSlot)
	if c.Lunch != nil {
		fmt.Fprintf(&b, "|L%d:%d", c.Lunch.Start, c.Lunch.Duration)
	} else {
		b.WriteString("|L-")
	}
	breaks := append([]model.BreakSpan{}, c.Breaks...)
	sort.Slice(breaks, func(i, j int) bool { return breaks[i].Start < breaks[j].Start })
	for _, br := range breaks {
		fmt.Fprintf(&b, "|B%d:%d", br.Start, br.Duration)
	}
	return b.String()
}
