// Package validate implements the single source of truth for constraint
// semantics (spec.md §4.3). No solver may short-circuit or duplicate this
// logic; they aim not to produce violations, and this package confirms it.
package validate

import (
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
)

// AssociatesByID is the caller-supplied lookup spec.md §9 "Back
// references" requires: the Schedule only ever holds associate ids.
type AssociatesByID map[string]model.Associate

// Request bundles the context a single-day validation needs: the window,
// policies, and job role caps in force.
type Request struct {
	Window   timeslot.Window
	Policies policy.Set
	JobCaps  map[model.JobRole]int
}

// Day validates a single Schedule against every hard rule in spec.md §4.3,
// in order, without short-circuiting.
func Day(sched *model.Schedule, req Request, associates AssociatesByID) model.ValidationResult {
	result := model.ValidationResult{IsValid: true}

	for id, shift := range sched.Shifts {
		assoc, ok := associates[id]
		if !ok {
			result.AddViolation(model.ViolationAvailability, id, nil, "no associate record found for assigned shift")
			continue
		}
		checkWindow(&result, sched, id, shift)
		checkAvailability(&result, sched, assoc, id, shift)
		checkShiftBounds(&result, req.Policies, id, shift)
		checkLunch(&result, req, id, shift)
		checkBreaks(&result, req, id, shift)
		checkRoleEligibility(&result, assoc, id, shift)
		checkDailyHours(&result, req, assoc, id, shift)
	}

	checkRoleCaps(&result, sched, req.JobCaps)

	return result
}

func checkWindow(result *model.ValidationResult, sched *model.Schedule, id string, shift model.AssignedShift) {
	inWindow := func(start, end int) bool {
		return start >= 0 && end <= sched.NumSlots && start <= end
	}
	if !inWindow(shift.StartSlot, shift.EndSlot) {
		result.AddViolation(model.ViolationWindow, id, nil, "shift lies outside [0,S)")
	}
	if shift.Lunch != nil && !inWindow(shift.Lunch.Start, shift.Lunch.End()) {
		result.AddViolation(model.ViolationWindow, id, nil, "lunch lies outside [0,S)")
	}
	for _, b := range shift.Breaks {
		if !inWindow(b.Start, b.End()) {
			result.AddViolation(model.ViolationWindow, id, nil, "break lies outside [0,S)")
		}
	}
}

func checkAvailability(result *model.ValidationResult, sched *model.Schedule, assoc model.Associate, id string, shift model.AssignedShift) {
	av, ok := assoc.AvailabilityOn(sched.Day)
	if !ok || av.IsOff() {
		result.AddViolation(model.ViolationAvailability, id, nil, "associate has no availability on this date")
		return
	}
	if !av.Contains(shift.StartSlot, shift.EndSlot) {
		result.AddViolation(model.ViolationAvailability, id, nil, "shift exceeds associate availability window")
	}
}

func checkShiftBounds(result *model.ValidationResult, pol policy.Set, id string, shift model.AssignedShift) {
	if !pol.Shift.Admits(shift.WorkMinutes) {
		result.AddViolation(model.ViolationShiftBounds, id, nil, "work minutes outside shift policy bounds")
	}
}

func checkLunch(result *model.ValidationResult, req Request, id string, shift model.AssignedShift) {
	wantMinutes := req.Policies.Lunch.Minutes(shift.WorkMinutes)
	switch {
	case wantMinutes == 0 && shift.Lunch != nil:
		result.AddViolation(model.ViolationLunch, id, nil, "lunch present but policy requires none")
	case wantMinutes > 0 && shift.Lunch == nil:
		result.AddViolation(model.ViolationLunch, id, nil, "lunch required but absent")
	case wantMinutes > 0 && shift.Lunch != nil:
		gotMinutes := shift.Lunch.Duration * req.Window.SlotMinutes
		if gotMinutes != wantMinutes {
			result.AddViolation(model.ViolationLunch, id, nil, "lunch duration does not match policy")
		}
		if shift.Lunch.Start < shift.StartSlot || shift.Lunch.End() > shift.EndSlot {
			result.AddViolation(model.ViolationLunch, id, nil, "lunch lies outside shift bounds")
		}
		mid := (shift.StartSlot + shift.EndSlot) / 2
		if abs(shift.Lunch.Start-mid) > maxLunchSlack {
			result.AddViolation(model.ViolationLunch, id, nil, "lunch outside placement window")
		}
	}
}

// maxLunchSlack is the widest T the candidate generator ever uses (busy
// days); the validator accepts anything within it since it does not know
// which T a given day used.
const maxLunchSlack = 4

func checkBreaks(result *model.ValidationResult, req Request, id string, shift model.AssignedShift) {
	wantCount := req.Policies.Break.Count(shift.WorkMinutes)
	if len(shift.Breaks) != wantCount {
		result.AddViolation(model.ViolationBreak, id, nil, "break count does not match policy")
	}
	for i, b := range shift.Breaks {
		gotMinutes := b.Duration * req.Window.SlotMinutes
		if gotMinutes != req.Policies.Break.BreakDuration {
			result.AddViolation(model.ViolationBreak, id, nil, "break duration does not match policy")
		}
		if b.Start < shift.StartSlot || b.End() > shift.EndSlot {
			result.AddViolation(model.ViolationBreak, id, nil, "break lies outside shift bounds")
		}
		if shift.Lunch != nil && overlapsGap(b, *shift.Lunch, 0) {
			result.AddViolation(model.ViolationBreak, id, nil, "break overlaps lunch")
		}
		for j, other := range shift.Breaks {
			if i == j {
				continue
			}
			if overlapsGap(b, other, 0) {
				result.AddViolation(model.ViolationBreak, id, nil, "breaks overlap each other")
			}
		}
	}
}

func checkRoleEligibility(result *model.ValidationResult, assoc model.Associate, id string, shift model.AssignedShift) {
	eligible := assoc.EligibleRoles()
	for t, role := range shift.Roles {
		if !eligible[role] {
			slot := t
			result.AddViolation(model.ViolationRoleEligibility, id, &slot, "assigned role not in associate's eligible set")
		}
	}
}

func checkRoleCaps(result *model.ValidationResult, sched *model.Schedule, jobCaps map[model.JobRole]int) {
	for t := 0; t < sched.NumSlots; t++ {
		for _, role := range model.AllRoles {
			cap, ok := jobCaps[role]
			if !ok {
				continue
			}
			count := sched.RoleCounts(role, t)
			if count > cap {
				slot := t
				result.AddViolation(model.ViolationRoleCap, "", &slot, "role cap exceeded")
			}
		}
	}
}

func checkDailyHours(result *model.ValidationResult, req Request, assoc model.Associate, id string, shift model.AssignedShift) {
	onFloorMinutes := shift.OnFloorMinutes(req.Window.SlotMinutes)
	maxDaily := assoc.MaxMinutesPerDay
	if maxDaily > 0 && onFloorMinutes > maxDaily {
		result.AddViolation(model.ViolationDailyHours, id, nil, "on-floor minutes exceed max_minutes_per_day")
	}
}

// WeeklyRules carries the weekly-scope rules layered on top of per-day
// validation: caps per associate and the days-off pattern each must satisfy
// (spec.md §4.3 "(weekly)" rows, pattern defined in §4.6).
type WeeklyRules struct {
	MaxWeeklyByAssoc map[string]int
	Pattern          model.DaysOffPattern
	RequiredDaysOff  int
}

// Weekly validates a WeeklySchedule: every per-day check above, plus
// weekly hours and days-off pattern (spec.md §4.3 "(weekly)" rows).
func Weekly(weekly *model.WeeklySchedule, req Request, associates AssociatesByID, rules WeeklyRules) model.ValidationResult {
	result := model.ValidationResult{IsValid: true}
	for _, day := range weekly.Days {
		dayResult := Day(day, req, associates)
		result.Violations = append(result.Violations, dayResult.Violations...)
		if !dayResult.IsValid {
			result.IsValid = false
		}
	}

	totals := make(map[string]int)
	for _, day := range weekly.Days {
		for id, shift := range day.Shifts {
			totals[id] += shift.OnFloorMinutes(req.Window.SlotMinutes)
		}
	}
	for id, total := range totals {
		if max, ok := rules.MaxWeeklyByAssoc[id]; ok && max > 0 && total > max {
			result.AddViolation(model.ViolationWeeklyHours, id, nil, "weekly on-floor minutes exceed max_minutes_per_week")
		}
	}

	checkDaysOff(&result, weekly, associates, rules)

	return result
}

// checkDaysOff confirms each associate's worked/off days across the week
// satisfy the coordinator's pattern (spec.md §4.6). An associate absent
// from every day of the schedule (e.g. off-availability throughout) is
// exempt: the pattern governs associates the coordinator actually placed.
func checkDaysOff(result *model.ValidationResult, weekly *model.WeeklySchedule, associates AssociatesByID, rules WeeklyRules) {
	if rules.Pattern == "" || rules.Pattern == model.DaysOffNone || len(weekly.Days) == 0 {
		return
	}

	for id := range associates {
		working := make([]bool, len(weekly.Days))
		anyWorked := false
		for i, day := range weekly.Days {
			if _, ok := day.Shifts[id]; ok {
				working[i] = true
				anyWorked = true
			}
		}
		if !anyWorked {
			continue
		}

		switch rules.Pattern {
		case model.DaysOffTwoConsecutive:
			if !hasConsecutiveOff(working, 2) {
				result.AddViolation(model.ViolationDaysOff, id, nil, "no two consecutive days off in the week")
			}
		case model.DaysOffOneWeekendDay:
			if !hasWeekendOff(weekly, working) {
				result.AddViolation(model.ViolationDaysOff, id, nil, "neither Saturday nor Sunday is off")
			}
		case model.DaysOffEveryOtherDay:
			if hasConsecutiveOff(invert(working), 2) {
				result.AddViolation(model.ViolationDaysOff, id, nil, "two consecutive working days violate every-other-day pattern")
			}
		}
	}
}

func invert(working []bool) []bool {
	out := make([]bool, len(working))
	for i, w := range working {
		out[i] = !w
	}
	return out
}

func hasConsecutiveOff(working []bool, run int) bool {
	streak := 0
	for _, w := range working {
		if w {
			streak = 0
			continue
		}
		streak++
		if streak >= run {
			return true
		}
	}
	return false
}

func hasWeekendOff(weekly *model.WeeklySchedule, working []bool) bool {
	for i, day := range weekly.Days {
		wd := day.Day.Weekday()
		if (wd == 6 || wd == 0) && !working[i] {
			return true
		}
	}
	return false
}

func overlapsGap(a, b model.BreakSpan, gap int) bool {
	return a.Start < b.End()+gap && b.Start < a.End()+gap
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
