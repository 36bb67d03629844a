package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
)

func baseRequest() Request {
	return Request{
		Window:   timeslot.DefaultWindow,
		Policies: policy.DefaultSet,
		JobCaps:  map[model.JobRole]int{model.RolePicking: 1000, model.RoleGMDSM: 1},
	}
}

func TestDay_ValidSixHourShiftPasses(t *testing.T) {
	day := model.DateFromYMD(2026, 1, 5)
	sched := model.NewSchedule(day, timeslot.DefaultWindow.Slots(), baseRequest().JobCaps)

	roles := make(map[int]model.JobRole)
	for t := 0; t < 26; t++ {
		if t >= 12 && t < 14 { // lunch slots carry no role
			continue
		}
		roles[t] = model.RolePicking
	}
	shift := model.AssignedShift{
		AssociateID: "a1",
		StartSlot:   0,
		EndSlot:     26,
		WorkMinutes: 360,
		Lunch:       &model.BreakSpan{Start: 12, Duration: 2},
		Breaks:      []model.BreakSpan{{Start: 6, Duration: 1}},
		Roles:       roles,
	}
	sched.Shifts["a1"] = shift

	assoc := model.Associate{
		ID:                "a1",
		MaxMinutesPerDay:  360,
		MaxMinutesPerWeek: 2400,
		Availability:      map[string]model.Availability{day.String(): {StartSlot: 0, EndSlot: 68}},
		SupervisorAllowed: map[model.JobRole]bool{model.RolePicking: true},
	}

	result := Day(sched, baseRequest(), AssociatesByID{"a1": assoc})
	assert.True(t, result.IsValid, "%+v", result.Violations)
}

func TestDay_RoleCapExceededReportsViolation(t *testing.T) {
	day := model.DateFromYMD(2026, 1, 5)
	req := baseRequest()
	req.JobCaps = map[model.JobRole]int{model.RoleGMDSM: 1}
	sched := model.NewSchedule(day, timeslot.DefaultWindow.Slots(), req.JobCaps)

	mkRoles := func() map[int]model.JobRole {
		r := make(map[int]model.JobRole)
		for t := 0; t < 26; t++ {
			r[t] = model.RoleGMDSM
		}
		return r
	}

	for _, id := range []string{"a1", "a2"} {
		sched.Shifts[id] = model.AssignedShift{
			AssociateID: id,
			StartSlot:   0,
			EndSlot:     26,
			WorkMinutes: 360,
			Roles:       mkRoles(),
		}
	}

	associates := AssociatesByID{}
	for _, id := range []string{"a1", "a2"} {
		associates[id] = model.Associate{
			ID:                id,
			MaxMinutesPerDay:  480,
			Availability:      map[string]model.Availability{day.String(): {StartSlot: 0, EndSlot: 68}},
			SupervisorAllowed: map[model.JobRole]bool{model.RoleGMDSM: true},
		}
	}

	result := Day(sched, req, associates)
	require.False(t, result.IsValid)
	foundCap := false
	for _, v := range result.Violations {
		if v.Kind == model.ViolationRoleCap {
			foundCap = true
		}
	}
	assert.True(t, foundCap)
}

func TestDay_OffDayAssociateNotScheduledProducesNoViolation(t *testing.T) {
	day := model.DateFromYMD(2026, 1, 5)
	sched := model.NewSchedule(day, timeslot.DefaultWindow.Slots(), baseRequest().JobCaps)
	// no shift recorded for the off-day associate at all
	assoc := model.Associate{
		ID:           "a1",
		Availability: map[string]model.Availability{day.String(): {StartSlot: 0, EndSlot: 0}},
	}
	result := Day(sched, baseRequest(), AssociatesByID{"a1": assoc})
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Violations)
}
