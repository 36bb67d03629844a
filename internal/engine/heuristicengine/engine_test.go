package heuristicengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
	"github.com/workforce-eng/shiftsched/internal/weekly"
)

func TestMetadataAndType(t *testing.T) {
	e := New()
	assert.Equal(t, sdk.EngineTypeHeuristic, e.Type())
	meta := e.Metadata()
	assert.Equal(t, "builtin.heuristic", meta.ID)
	assert.NotEmpty(t, meta.Description)
}

func TestHealthCheckAlwaysHealthy(t *testing.T) {
	e := New()
	status := e.HealthCheck(context.Background())
	assert.True(t, status.Healthy)
}

func TestShutdownIsNoop(t *testing.T) {
	e := New()
	assert.NoError(t, e.Shutdown(context.Background()))
}

func TestSolveDelegatesToWeeklySolve(t *testing.T) {
	win := timeslot.DefaultWindow
	start := model.DateFromYMD(2026, 1, 5)
	assoc := model.Associate{
		ID:                "a1",
		Availability:      map[string]model.Availability{start.String(): {StartSlot: 0, EndSlot: win.Slots()}},
		MaxMinutesPerDay:  480,
		MaxMinutesPerWeek: 2400,
		SupervisorAllowed: map[model.JobRole]bool{model.RolePicking: true},
	}
	req := weekly.Request{
		StartDate:  start,
		EndDate:    start,
		Associates: []model.Associate{assoc},
		Window:     win,
		Policies:   policy.DefaultSet,
		JobCaps:    map[model.JobRole]int{model.RolePicking: 100},
	}

	e := New()
	sched, err := e.Solve(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, sched.Days, 1)
	_, worked := sched.Days[0].Shifts["a1"]
	assert.True(t, worked)
}

func TestSolveRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New()
	_, err := e.Solve(ctx, weekly.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
