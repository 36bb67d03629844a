package weekly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
)

func fullWeekAvailability(start model.Date, numSlots int) map[string]model.Availability {
	out := make(map[string]model.Availability)
	for i := 0; i < 7; i++ {
		out[start.AddDays(i).String()] = model.Availability{StartSlot: 0, EndSlot: numSlots}
	}
	return out
}

func TestSolve_TwoConsecutiveDaysOff(t *testing.T) {
	start := model.DateFromYMD(2026, 1, 5)
	end := start.AddDays(6)
	win := timeslot.DefaultWindow

	assoc := model.Associate{
		ID:                "a1",
		Availability:       fullWeekAvailability(start, win.Slots()),
		MaxMinutesPerDay:   480,
		MaxMinutesPerWeek:  2400,
		SupervisorAllowed:  map[model.JobRole]bool{model.RolePicking: true},
	}

	req := Request{
		StartDate:       start,
		EndDate:         end,
		Associates:      []model.Associate{assoc},
		Window:          win,
		Policies:        policy.DefaultSet,
		JobCaps:         map[model.JobRole]int{model.RolePicking: 100},
		DaysOffPattern:  model.DaysOffTwoConsecutive,
		RequiredDaysOff: 2,
	}

	result, err := Solve(req)
	require.NoError(t, err)
	require.Len(t, result.Days, 7)

	workedDays := 0
	offIdx := []int{}
	for i, day := range result.Days {
		if _, ok := day.Shifts["a1"]; ok {
			workedDays++
		} else {
			offIdx = append(offIdx, i)
		}
	}
	assert.Equal(t, 5, workedDays)
	require.Len(t, offIdx, 2)
	assert.Equal(t, 1, offIdx[1]-offIdx[0], "the two off days must be consecutive")
	assert.LessOrEqual(t, result.MinutesByAssoc["a1"], 2400)
}

func TestSolve_OffAvailabilityNeverScheduled(t *testing.T) {
	start := model.DateFromYMD(2026, 1, 5)
	end := start.AddDays(1)
	win := timeslot.DefaultWindow

	assoc := model.Associate{
		ID: "a1",
		Availability: map[string]model.Availability{
			start.String():          {StartSlot: 0, EndSlot: win.Slots()},
			start.AddDays(1).String(): {StartSlot: 0, EndSlot: 0},
		},
		MaxMinutesPerDay:  480,
		MaxMinutesPerWeek: 2400,
		SupervisorAllowed: map[model.JobRole]bool{model.RolePicking: true},
	}

	req := Request{
		StartDate:  start,
		EndDate:    end,
		Associates: []model.Associate{assoc},
		Window:     win,
		Policies:   policy.DefaultSet,
		JobCaps:    map[model.JobRole]int{model.RolePicking: 100},
	}

	result, err := Solve(req)
	require.NoError(t, err)
	require.Len(t, result.Days, 2)
	_, workedFirst := result.Days[0].Shifts["a1"]
	_, workedSecond := result.Days[1].Shifts["a1"]
	assert.True(t, workedFirst)
	assert.False(t, workedSecond)
}

func TestSolve_RejectsInvalidDateRange(t *testing.T) {
	start := model.DateFromYMD(2026, 1, 5)
	end := start.AddDays(-1)
	_, err := Solve(Request{StartDate: start, EndDate: end, Window: timeslot.DefaultWindow, Policies: policy.DefaultSet})
	assert.Error(t, err)
}

func TestSolve_RejectsEmptyRoleSet(t *testing.T) {
	start := model.DateFromYMD(2026, 1, 5)
	end := start
	_, err := Solve(Request{StartDate: start, EndDate: end, Window: timeslot.DefaultWindow, Policies: policy.DefaultSet})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptyRoleSet)
}
