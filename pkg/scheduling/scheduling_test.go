package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
)

func oneAssociate(day model.Date, numSlots int) model.Associate {
	return model.Associate{
		ID:                "a1",
		Availability:      map[string]model.Availability{day.String(): {StartSlot: 0, EndSlot: numSlots}},
		MaxMinutesPerDay:  480,
		MaxMinutesPerWeek: 2400,
		SupervisorAllowed: map[model.JobRole]bool{model.RolePicking: true},
	}
}

func TestGenerateSchedule_RejectsEmptyRoleSet(t *testing.T) {
	day := model.DateFromYMD(2026, 1, 5)
	win := timeslot.DefaultWindow
	req := DailyRequest{
		Day:        day,
		Associates: []model.Associate{oneAssociate(day, win.Slots())},
		Window:     win,
		Policies:   policy.DefaultSet,
	}

	_, err := GenerateSchedule(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptyRoleSet)
}

func TestGenerateSchedule_ProducesValidatableSchedule(t *testing.T) {
	day := model.DateFromYMD(2026, 1, 5)
	win := timeslot.DefaultWindow
	assoc := oneAssociate(day, win.Slots())

	req := DailyRequest{
		Day:        day,
		Associates: []model.Associate{assoc},
		Window:     win,
		Policies:   policy.DefaultSet,
		JobCaps:    map[model.JobRole]int{model.RolePicking: 10},
	}

	sched, err := GenerateSchedule(req)
	require.NoError(t, err)
	require.NotNil(t, sched)

	result := Validate(sched, win, policy.DefaultSet, req.JobCaps, map[string]model.Associate{"a1": assoc})
	assert.True(t, result.IsValid, "violations: %+v", result.Violations)
}

func TestGenerateScheduleStats_AgreesWithGenerateSchedule(t *testing.T) {
	day := model.DateFromYMD(2026, 1, 5)
	win := timeslot.DefaultWindow
	assoc := oneAssociate(day, win.Slots())

	req := DailyRequest{
		Day:        day,
		Associates: []model.Associate{assoc},
		Window:     win,
		Policies:   policy.DefaultSet,
		JobCaps:    map[model.JobRole]int{model.RolePicking: 10},
	}

	sched, stats, err := GenerateScheduleStats(req)
	require.NoError(t, err)
	require.NotNil(t, sched)
	assert.Equal(t, 1, stats.AssociatesAssigned)
	assert.Greater(t, stats.Iterations, 0)

	again, err := GenerateSchedule(req)
	require.NoError(t, err)
	assert.Equal(t, sched.Shifts, again.Shifts, "both entry points should run the identical deterministic solve")
}

func TestGenerateWeekly_FacadeDelegatesToCoordinator(t *testing.T) {
	start := model.DateFromYMD(2026, 1, 5)
	end := start.AddDays(6)
	win := timeslot.DefaultWindow

	avail := make(map[string]model.Availability)
	for i := 0; i < 7; i++ {
		avail[start.AddDays(i).String()] = model.Availability{StartSlot: 0, EndSlot: win.Slots()}
	}
	assoc := model.Associate{
		ID:                "a1",
		Availability:      avail,
		MaxMinutesPerDay:  480,
		MaxMinutesPerWeek: 2400,
		SupervisorAllowed: map[model.JobRole]bool{model.RolePicking: true},
	}

	sched, err := GenerateWeekly(WeeklyRequest{
		StartDate:  start,
		EndDate:    end,
		Associates: []model.Associate{assoc},
		Window:     win,
		Policies:   policy.DefaultSet,
		JobCaps:    map[model.JobRole]int{model.RolePicking: 10},
	})
	require.NoError(t, err)
	assert.Len(t, sched.Days, 7)
}

func TestEngineHealth_ReportsKnownEngines(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status, err := EngineHealth(ctx, "heuristic")
	require.NoError(t, err)
	assert.True(t, status.Healthy)

	_, err = EngineHealth(ctx, "nonexistent")
	assert.Error(t, err)
}
