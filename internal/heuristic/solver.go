// Package heuristic implements the default greedy solver (spec.md §4.4):
// Phase A picks one shift candidate per associate by marginal coverage
// gain, Phase B assigns roles slot by slot, and Phase C performs a bounded
// local improvement pass. It trades optimality for speed; it backs the
// default heuristic engine and is the per-day fallback of the hybrid
// engine (see internal/engine).
package heuristic

import (
	"sort"

	"github.com/workforce-eng/shiftsched/internal/model"
)

// CandidatesByAssociate indexes candidate.Generate's output by associate id.
type CandidatesByAssociate map[string][]model.ShiftCandidate

// Stats reports Phase A telemetry surfaced alongside, not instead of, the
// selected shifts — useful for a CLI summary or dashboard, never consulted
// by the validator. Grounded on freedakipad-paiban's solver.Statistics
// struct (FillRate/Iterations/TotalHours), adapted to this solver's own
// counters (SPEC_FULL.md supplemented features).
type Stats struct {
	// Iterations is the number of outer commit rounds Phase A ran.
	Iterations int
	// CandidatesConsidered is the total number of (associate, candidate)
	// pairs scored across every round, including ones that lost a tiebreak.
	CandidatesConsidered int
	// AssociatesAssigned is len(assigned) once the loop terminates.
	AssociatesAssigned int
	// ObjectiveValue is the running sum of each round's committed marginal
	// gain: the heuristic's realized value of Σ w(t)·coverage(t) − λ·Σ
	// overstaff(t) plus any bias terms.
	ObjectiveValue float64
}

// SelectShifts runs Phase A: repeatedly commit the (associate, candidate)
// pair with the highest marginal-gain-per-work-minute ratio until no
// associate has a positive-gain candidate left or every associate is
// assigned. associateOrder fixes the iteration order spec.md §5 requires
// for determinism; it need not be sorted.
func SelectShifts(associateOrder []string, candidates CandidatesByAssociate, numSlots int, weights Weights) map[string]model.ShiftCandidate {
	picks, _ := SelectShiftsStats(associateOrder, candidates, numSlots, weights)
	return picks
}

// SelectShiftsStats is SelectShifts plus the Stats telemetry described
// above; the two share one implementation so the counters can never drift
// from what the solver actually did.
func SelectShiftsStats(associateOrder []string, candidates CandidatesByAssociate, numSlots int, weights Weights) (map[string]model.ShiftCandidate, Stats) {
	coverage := make([]int, numSlots)
	assigned := make(map[string]model.ShiftCandidate)
	remaining := make(map[string]bool, len(associateOrder))
	for _, id := range associateOrder {
		if len(candidates[id]) > 0 {
			remaining[id] = true
		}
	}

	var stats Stats

	for len(remaining) > 0 {
		var best *pick
		stats.Iterations++

		for _, id := range associateOrder {
			if !remaining[id] {
				continue
			}
			for _, cand := range candidates[id] {
				stats.CandidatesConsidered++
				gain := marginalGain(weights, coverage, cand, numSlots) + weights.BiasFor(id)*float64(cand.WorkMinutes)
				if gain <= 0 {
					continue
				}
				ratio := gain / float64(cand.WorkMinutes)
				if betterPick(best, id, cand, ratio, gain) {
					best = &pick{id: id, cand: cand, ratio: ratio, gain: gain}
				}
			}
		}

		if best == nil {
			break
		}

		assigned[best.id] = best.cand
		applyCoverage(coverage, best.cand, numSlots)
		delete(remaining, best.id)
		stats.ObjectiveValue += best.gain
	}

	stats.AssociatesAssigned = len(assigned)
	return assigned, stats
}

// pick is Phase A's running best-candidate record.
type pick struct {
	id    string
	cand  model.ShiftCandidate
	ratio float64
	gain  float64
}

// betterPick applies spec.md §4.4's tiebreak order: highest ratio, then
// highest raw gain, then longer shift, then earlier start, then associate id.
func betterPick(cur *pick, id string, cand model.ShiftCandidate, ratio, gain float64) bool {
	if cur == nil {
		return true
	}
	if ratio != cur.ratio {
		return ratio > cur.ratio
	}
	if gain != cur.gain {
		return gain > cur.gain
	}
	if cand.WorkMinutes != cur.cand.WorkMinutes {
		return cand.WorkMinutes > cur.cand.WorkMinutes
	}
	if cand.StartSlot != cur.cand.StartSlot {
		return cand.StartSlot < cur.cand.StartSlot
	}
	return id < cur.id
}

func marginalGain(weights Weights, coverage []int, cand model.ShiftCandidate, numSlots int) float64 {
	gain := 0.0
	for t := cand.StartSlot; t < cand.EndSlot && t < numSlots; t++ {
		if !cand.OnFloor(t) {
			continue
		}
		w := weights.At(t)
		oldOver := weights.Overstaff(t, coverage[t])
		newOver := weights.Overstaff(t, coverage[t]+1)
		gain += w - weights.Lambda*(newOver-oldOver)
	}
	return gain
}

func applyCoverage(coverage []int, cand model.ShiftCandidate, numSlots int) {
	for t := cand.StartSlot; t < cand.EndSlot && t < numSlots; t++ {
		if cand.OnFloor(t) {
			coverage[t]++
		}
	}
}

// RoleCaps is the per-role ceiling in force for a slot; a role absent from
// the map has no cap (spec.md's PICKING overflow behavior).
type RoleCaps map[model.JobRole]int

func (c RoleCaps) capFor(r model.JobRole) int {
	if v, ok := c[r]; ok {
		return v
	}
	return 1 << 30
}

// AssignRoles runs Phase B over a committed set of shifts, mutating each
// AssignedShift's Roles map in place. Slots are visited in decreasing
// coverage order (ties broken by slot index) so the busiest moments of the
// day get first claim on scarce specialist roles.
func AssignRoles(associates map[string]model.Associate, shifts map[string]model.AssignedShift, caps RoleCaps, numSlots int) {
	coverage := make([]int, numSlots)
	for _, s := range shifts {
		for t := s.StartSlot; t < s.EndSlot && t < numSlots; t++ {
			if s.OnFloor(t) {
				coverage[t]++
			}
		}
	}

	order := make([]int, numSlots)
	for t := range order {
		order[t] = t
	}
	sort.Slice(order, func(i, j int) bool {
		if coverage[order[i]] != coverage[order[j]] {
			return coverage[order[i]] > coverage[order[j]]
		}
		return order[i] < order[j]
	})

	ids := make([]string, 0, len(shifts))
	for id := range shifts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, t := range order {
		roleCountAtT := make(map[model.JobRole]int)
		for _, id := range ids {
			shift := shifts[id]
			if !shift.OnFloor(t) {
				continue
			}
			assoc := associates[id]
			eligible := assoc.EligibleRoles()
			if len(eligible) == 0 {
				continue
			}

			chosen := chooseRole(assoc, shift, eligible, roleCountAtT, caps, t)
			if chosen == "" {
				continue
			}
			if shift.Roles == nil {
				shift.Roles = make(map[int]model.JobRole)
			}
			shift.Roles[t] = chosen
			shifts[id] = shift
			roleCountAtT[chosen]++
		}
	}
}

func chooseRole(assoc model.Associate, shift model.AssignedShift, eligible map[model.JobRole]bool, roleCountAtT map[model.JobRole]int, caps RoleCaps, t int) model.JobRole {
	// Continuity: keep the role held at the adjacent on-floor slot, since
	// OnFloor(t-1) being true already implies no lunch/break boundary
	// between t-1 and t.
	if shift.OnFloor(t-1) && shift.Roles != nil {
		if role, ok := shift.Roles[t-1]; ok && eligible[role] && roleCountAtT[role] < caps.capFor(role) {
			return role
		}
	}

	var preferred []model.JobRole
	var others []model.JobRole
	for _, r := range model.AllRoles {
		if !eligible[r] || r == model.RolePicking {
			continue
		}
		if assoc.PreferenceFor(r) == model.PreferenceWant {
			preferred = append(preferred, r)
		} else {
			others = append(others, r)
		}
	}
	for _, r := range preferred {
		if roleCountAtT[r] < caps.capFor(r) {
			return r
		}
	}
	for _, r := range others {
		if roleCountAtT[r] < caps.capFor(r) {
			return r
		}
	}
	// PICKING is unlimited overflow (spec.md DATA MODEL): try it last, and
	// only if the associate is actually eligible for it.
	if eligible[model.RolePicking] && roleCountAtT[model.RolePicking] < caps.capFor(model.RolePicking) {
		return model.RolePicking
	}
	return ""
}
