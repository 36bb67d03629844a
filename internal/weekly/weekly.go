// Package weekly implements the multi-day coordinator (spec.md §4.6): it
// layers weekly hour caps, days-off patterns, busy-day slack, and fairness
// weighting on top of one heuristic solve per day, threading running
// per-associate totals through the calls in date order since weekly caps
// couple the days together (spec.md §5 "Shared resources").
package weekly

import (
	"math"
	"sort"

	"github.com/workforce-eng/shiftsched/internal/candidate"
	"github.com/workforce-eng/shiftsched/internal/heuristic"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
)

// FairnessConfig carries the load-targeting and fairness-scoring knobs
// named in spec.md §4.6.
type FairnessConfig struct {
	TargetWeeklyMinutes int
	MinWeeklyMinutes    int
	MaxHoursVariance    float64
	WeightHoursBalance  float64
	WeightDaysBalance   float64
}

// DefaultFairnessConfig matches the moderate weighting spec.md's "balanced"
// language implies: hours and days balance contribute equally.
var DefaultFairnessConfig = FairnessConfig{
	TargetWeeklyMinutes: 2400,
	MinWeeklyMinutes:    0,
	MaxHoursVariance:    0,
	WeightHoursBalance:  1.0,
	WeightDaysBalance:   1.0,
}

// Request bundles a multi-day scheduling request (spec.md §4.6).
type Request struct {
	StartDate       model.Date
	EndDate         model.Date
	Associates      []model.Associate
	Window          timeslot.Window
	Policies        policy.Set
	JobCaps         map[model.JobRole]int
	DaysOffPattern  model.DaysOffPattern
	RequiredDaysOff int
	BusyDays        map[string]bool // keyed by Date.String()
	Fairness        FairnessConfig
	Demand          map[string]model.DemandCurve // optional, keyed by Date.String()
	Seed            int64
}

// Validate reports a ConfigurationError-class problem (spec.md §7).
func (r Request) Validate() error {
	if r.EndDate.Before(r.StartDate) {
		return model.NewConfigurationError("end_date", model.ErrInvalidDateRange)
	}
	if err := r.Window.Validate(); err != nil {
		return model.NewConfigurationError("window", err)
	}
	if err := r.Policies.Validate(); err != nil {
		return model.NewConfigurationError("policies", err)
	}
	if len(r.JobCaps) == 0 {
		return model.NewConfigurationError("roles", model.ErrEmptyRoleSet)
	}
	return nil
}

// dates returns every calendar day from start to end inclusive.
func (r Request) dates() []model.Date {
	var out []model.Date
	for d := r.StartDate; d.Before(r.EndDate) || d.Equal(r.EndDate); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// Solve runs the weekly coordination procedure in spec.md §4.6: pattern
// feasibility, then one heuristic solve per day in order, biased by load
// targeting and constrained by running weekly caps, producing a
// WeeklySchedule with a fairness score.
func Solve(req Request) (*model.WeeklySchedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dates := req.dates()
	numSlots := req.Window.Slots()
	fairness := req.Fairness
	if fairness.TargetWeeklyMinutes == 0 {
		fairness = DefaultFairnessConfig
	}
	requiredOff := req.RequiredDaysOff
	if requiredOff <= 0 {
		requiredOff = 2
	}

	offDays := planDaysOff(req, dates, requiredOff)

	associatesByID := make(map[string]model.Associate, len(req.Associates))
	order := make([]string, 0, len(req.Associates))
	for _, a := range req.Associates {
		associatesByID[a.ID] = a
		order = append(order, a.ID)
	}
	sort.Strings(order)

	weekly := &model.WeeklySchedule{
		MinutesByAssoc: make(map[string]int),
		DaysByAssoc:    make(map[string]int),
	}

	for _, day := range dates {
		sched := model.NewSchedule(day, numSlots, req.JobCaps)

		cfg := candidate.DefaultConfig
		if req.BusyDays[day.String()] {
			cfg = candidate.BusyConfig
		}

		candidates := make(heuristic.CandidatesByAssociate, len(order))
		for _, id := range order {
			assoc := associatesByID[id]
			if offDays[id][day.String()] {
				continue
			}
			av, ok := assoc.AvailabilityOn(day)
			if !ok || av.IsOff() {
				continue
			}
			cands := candidate.Generate(av, assoc, req.Window, req.Policies, cfg)
			remaining := assoc.MaxMinutesPerWeek - weekly.MinutesByAssoc[id]
			if assoc.MaxMinutesPerWeek > 0 {
				cands = dropOverCap(cands, remaining)
			}
			if len(cands) > 0 {
				candidates[id] = cands
			}
		}

		bias := loadBias(req, fairness, associatesByID, order, weekly, requiredOff)
		weights := heuristic.Weights{Bias: bias}
		if curve, ok := req.Demand[day.String()]; ok {
			weights.Demand = &curve
			weights.Lambda = 1.0
		}

		picks := heuristic.SelectShifts(order, candidates, numSlots, weights)
		shifts := make(map[string]model.AssignedShift, len(picks))
		for id, cand := range picks {
			shifts[id] = model.AssignedShift{
				AssociateID: id,
				StartSlot:   cand.StartSlot,
				EndSlot:     cand.EndSlot,
				WorkMinutes: cand.WorkMinutes,
				Lunch:       cand.Lunch,
				Breaks:      cand.Breaks,
			}
		}

		caps := heuristic.RoleCaps(req.JobCaps)
		heuristic.AssignRoles(associatesByID, shifts, caps, numSlots)
		heuristic.Improve(shifts, numSlots, weights)

		for id, s := range shifts {
			sched.Shifts[id] = s
			weekly.MinutesByAssoc[id] += s.OnFloorMinutes(req.Window.SlotMinutes)
			weekly.DaysByAssoc[id]++
		}

		weekly.Days = append(weekly.Days, sched)
	}

	weekly.FairnessScore = fairnessScore(weekly, order)
	return weekly, nil
}

// dropOverCap filters out candidates that would push an associate past
// their remaining weekly budget (spec.md §4.6 point 3).
func dropOverCap(cands []model.ShiftCandidate, remaining int) []model.ShiftCandidate {
	if remaining <= 0 {
		return nil
	}
	out := make([]model.ShiftCandidate, 0, len(cands))
	for _, c := range cands {
		if c.WorkMinutes <= remaining {
			out = append(out, c)
		}
	}
	return out
}

// loadBias computes the per-associate Phase A bias term from spec.md §4.6
// point 2: alpha*(target-minutes_so_far)/target + beta*(required_days_off -
// days_worked_so_far), normalized to a small per-minute scale so it nudges
// rather than dominates the coverage objective.
func loadBias(req Request, fc FairnessConfig, byID map[string]model.Associate, order []string, weekly *model.WeeklySchedule, requiredOff int) map[string]float64 {
	target := fc.TargetWeeklyMinutes
	if target <= 0 {
		target = 1
	}
	out := make(map[string]float64, len(order))
	for _, id := range order {
		minutesSoFar := weekly.MinutesByAssoc[id]
		daysSoFar := weekly.DaysByAssoc[id]
		hoursTerm := fc.WeightHoursBalance * float64(target-minutesSoFar) / float64(target)
		daysTerm := fc.WeightDaysBalance * float64(requiredOff-daysSoFar)
		// Scale down so the bias nudges ties rather than overriding raw
		// coverage gain; both terms are already O(1), divide by a large
		// constant to keep bias*work_minutes comparable to a fraction of a
		// slot's weight.
		out[id] = (hoursTerm + daysTerm) / 1000
	}
	return out
}

// planDaysOff assigns each associate a set of off-dates satisfying the
// request's pattern, per spec.md §4.6 point 1. This is a deterministic
// constructive assignment rather than a full subset enumeration: it
// chooses a starting offset from the associate's position in sorted id
// order and the request seed, so results are reproducible and off-days are
// spread across the roster.
func planDaysOff(req Request, dates []model.Date, requiredOff int) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(req.Associates))
	if len(dates) == 0 {
		return out
	}

	ids := make([]string, 0, len(req.Associates))
	byID := make(map[string]model.Associate, len(req.Associates))
	for _, a := range req.Associates {
		ids = append(ids, a.ID)
		byID[a.ID] = a
	}
	sort.Strings(ids)

	for i, id := range ids {
		assoc := byID[id]
		off := make(map[string]bool)

		// Availability-driven off-days always count first.
		for _, d := range dates {
			av, ok := assoc.AvailabilityOn(d)
			if !ok || av.IsOff() {
				off[d.String()] = true
			}
		}

		need := requiredOff - len(off)
		if need <= 0 {
			out[id] = off
			continue
		}

		offset := int((req.Seed + int64(i)) % int64(len(dates)))
		switch req.DaysOffPattern {
		case model.DaysOffTwoConsecutive:
			assignConsecutive(dates, off, offset, min2(need, len(dates)))
		case model.DaysOffOneWeekendDay:
			assignWeekend(dates, off)
			need = requiredOff - len(off)
			if need > 0 {
				assignSpread(dates, off, offset, need)
			}
		case model.DaysOffEveryOtherDay:
			assignAlternating(dates, off, offset)
		default:
			assignSpread(dates, off, offset, need)
		}

		out[id] = off
	}
	return out
}

func assignConsecutive(dates []model.Date, off map[string]bool, offset, need int) {
	n := len(dates)
	if n == 0 {
		return
	}
	added := 0
	for k := 0; k < n && added < need; k++ {
		idx := (offset + k) % n
		key := dates[idx].String()
		if !off[key] {
			off[key] = true
			added++
		}
	}
}

func assignWeekend(dates []model.Date, off map[string]bool) {
	for _, d := range dates {
		wd := d.Weekday()
		if wd == 6 || wd == 0 {
			off[d.String()] = true
			return
		}
	}
}

func assignSpread(dates []model.Date, off map[string]bool, offset, need int) {
	n := len(dates)
	if n == 0 || need <= 0 {
		return
	}
	step := n / (need + 1)
	if step < 1 {
		step = 1
	}
	added := 0
	for k := 0; k < n && added < need; k++ {
		idx := (offset + k*step) % n
		key := dates[idx].String()
		if !off[key] {
			off[key] = true
			added++
		}
	}
}

func assignAlternating(dates []model.Date, off map[string]bool, offset int) {
	for i, d := range dates {
		if (i+offset)%2 == 0 {
			off[d.String()] = true
		}
	}
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// fairnessScore computes spec.md §4.6 point 5's 0-100 balance metric from
// the spread of weekly minutes and days worked across the roster.
func fairnessScore(weekly *model.WeeklySchedule, order []string) float64 {
	if len(order) == 0 {
		return 100
	}
	hours := make([]float64, 0, len(order))
	days := make([]float64, 0, len(order))
	for _, id := range order {
		hours = append(hours, float64(weekly.MinutesByAssoc[id]))
		days = append(days, float64(weekly.DaysByAssoc[id]))
	}

	hoursCV := coefficientOfVariation(hours)
	daysCV := coefficientOfVariation(days)

	score := 100 - (hoursCV*50 + daysCV*50)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// coefficientOfVariation returns sigma/mu for vals, 0 when mu is 0.
func coefficientOfVariation(vals []float64) float64 {
	n := float64(len(vals))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= n
	return math.Sqrt(variance) / mean
}
