// Package scheduling is the sole import surface consumers use (spec.md
// §6): it composes candidate generation, the greedy heuristic, the
// weekly coordinator, the demand module, and the validator behind four
// entry points, the way the teacher's top-level packages present a small
// facade over a larger internal tree.
package scheduling

import (
	"context"
	"fmt"

	"github.com/workforce-eng/shiftsched/internal/candidate"
	"github.com/workforce-eng/shiftsched/internal/demand"
	"github.com/workforce-eng/shiftsched/internal/engine/cpsatengine"
	"github.com/workforce-eng/shiftsched/internal/engine/heuristicengine"
	"github.com/workforce-eng/shiftsched/internal/engine/hybridengine"
	"github.com/workforce-eng/shiftsched/internal/engine/registry"
	"github.com/workforce-eng/shiftsched/internal/engine/runtime"
	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
	"github.com/workforce-eng/shiftsched/internal/heuristic"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
	"github.com/workforce-eng/shiftsched/internal/validate"
	"github.com/workforce-eng/shiftsched/internal/weekly"
)

// DailyRequest is a single day's scheduling request (spec.md §4.4).
type DailyRequest struct {
	Day        model.Date
	Associates []model.Associate
	Window     timeslot.Window
	Policies   policy.Set
	JobCaps    map[model.JobRole]int
	Demand     *model.DemandCurve
}

// GenerateSchedule runs candidate generation, the greedy heuristic, and
// role assignment for one day, returning a Schedule (spec.md §4.2-§4.4).
func GenerateSchedule(req DailyRequest) (*model.Schedule, error) {
	sched, _, err := generateScheduleStats(req)
	return sched, err
}

// GenerateScheduleStats is GenerateSchedule plus the Phase A solver
// telemetry (SPEC_FULL.md supplemented features: surfaced for a CLI
// summary, never consulted by the validator).
func GenerateScheduleStats(req DailyRequest) (*model.Schedule, heuristic.Stats, error) {
	return generateScheduleStats(req)
}

func generateScheduleStats(req DailyRequest) (*model.Schedule, heuristic.Stats, error) {
	if err := req.Window.Validate(); err != nil {
		return nil, heuristic.Stats{}, model.NewConfigurationError("window", err)
	}
	if err := req.Policies.Validate(); err != nil {
		return nil, heuristic.Stats{}, model.NewConfigurationError("policies", err)
	}
	if len(req.JobCaps) == 0 {
		return nil, heuristic.Stats{}, model.NewConfigurationError("roles", model.ErrEmptyRoleSet)
	}

	numSlots := req.Window.Slots()
	byID := make(map[string]model.Associate, len(req.Associates))
	order := make([]string, 0, len(req.Associates))
	for _, a := range req.Associates {
		byID[a.ID] = a
		order = append(order, a.ID)
	}

	candidates := make(heuristic.CandidatesByAssociate, len(order))
	for _, id := range order {
		assoc := byID[id]
		av, ok := assoc.AvailabilityOn(req.Day)
		if !ok || av.IsOff() {
			continue
		}
		cands := candidate.Generate(av, assoc, req.Window, req.Policies, candidate.DefaultConfig)
		if len(cands) > 0 {
			candidates[id] = cands
		}
	}

	weights := heuristic.UniformWeights
	if req.Demand != nil {
		weights.Demand = req.Demand
		weights.Lambda = 1.0
	}

	picks, stats := heuristic.SelectShiftsStats(order, candidates, numSlots, weights)
	sched := model.NewSchedule(req.Day, numSlots, req.JobCaps)
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
	heuristic.AssignRoles(byID, shifts, caps, numSlots)
	heuristic.Improve(shifts, numSlots, weights)

	for id, s := range shifts {
		sched.Shifts[id] = s
	}
	return sched, stats, nil
}

// WeeklyRequest is an alias for the weekly coordinator's request type, so
// callers never need to import internal/weekly directly.
type WeeklyRequest = weekly.Request

// GenerateWeekly runs the multi-day coordinator (spec.md §4.6).
func GenerateWeekly(req WeeklyRequest) (*model.WeeklySchedule, error) {
	return weekly.Solve(req)
}

// DemandAwareConfig configures a demand-matched weekly solve (spec.md
// Supplemented features: demand-curve scoring layered over the weekly
// coordinator).
type DemandAwareConfig struct {
	// Engine selects which backend solves each day: "heuristic" (default),
	// "cpsat", or "hybrid" (CP-SAT per day, falling back to the heuristic
	// day result when CP-SAT times out or is infeasible — spec.md §4.5's
	// "hybrid strategy").
	Engine string
	CPSAT  cpsatengine.Config
}

// WeeklyResult bundles a demand-aware solve's schedule with its per-day
// demand match scores (spec.md §7's demand module outputs).
type WeeklyResult struct {
	Schedule    *model.WeeklySchedule
	MatchScores map[string]demand.MatchScore // keyed by Date.String()
}

// GenerateDemandAware runs the weekly coordinator (optionally through the
// CP-SAT engine) against a supplied demand curve and scores the result.
func GenerateDemandAware(ctx context.Context, req WeeklyRequest, weeklyDemand map[string]model.DemandCurve, cfg DemandAwareConfig) (*WeeklyResult, error) {
	req.Demand = weeklyDemand

	reg := registry.New(nil)
	if err := reg.RegisterBuiltin(heuristicengine.New()); err != nil {
		return nil, err
	}
	if err := reg.RegisterBuiltin(cpsatengine.New(cfg.CPSAT)); err != nil {
		return nil, err
	}
	if err := reg.RegisterBuiltin(hybridengine.New(hybridengine.Config{Mode: cfg.CPSAT.Mode, Weights: cfg.CPSAT.Weights})); err != nil {
		return nil, err
	}
	exec := runtime.NewExecutor(reg, nil, nil, runtime.DefaultExecutorConfig())

	engineID := "builtin.heuristic"
	switch cfg.Engine {
	case "cpsat":
		engineID = "builtin.cpsat"
	case "hybrid":
		engineID = "builtin.hybrid"
	}

	sched, err := exec.Solve(ctx, engineID, req)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]demand.MatchScore, len(sched.Days))
	for _, day := range sched.Days {
		curve, ok := weeklyDemand[day.Day.String()]
		if !ok {
			continue
		}
		scores[day.Day.String()] = demand.Score(day, curve)
	}

	return &WeeklyResult{Schedule: sched, MatchScores: scores}, nil
}

// Validate checks a single day's Schedule against every hard rule
// (spec.md §4.3).
func Validate(sched *model.Schedule, window timeslot.Window, pol policy.Set, jobCaps map[model.JobRole]int, associates map[string]model.Associate) model.ValidationResult {
	return validate.Day(sched, validate.Request{Window: window, Policies: pol, JobCaps: jobCaps}, associates)
}

// ValidateWeekly checks a WeeklySchedule against every hard rule plus the
// weekly hours and days-off pattern (spec.md §4.3, §4.6).
func ValidateWeekly(weeklySched *model.WeeklySchedule, window timeslot.Window, pol policy.Set, jobCaps map[model.JobRole]int, associates map[string]model.Associate, rules validate.WeeklyRules) model.ValidationResult {
	return validate.Weekly(weeklySched, validate.Request{Window: window, Policies: pol, JobCaps: jobCaps}, associates, rules)
}

// EngineHealth reports health for the named built-in engine ("heuristic",
// "cpsat", or "hybrid"), useful for a CLI health-check verb.
func EngineHealth(ctx context.Context, name string) (sdk.HealthStatus, error) {
	reg := registry.New(nil)
	if err := reg.RegisterBuiltin(heuristicengine.New()); err != nil {
		return sdk.HealthStatus{}, err
	}
	if err := reg.RegisterBuiltin(cpsatengine.New(cpsatengine.DefaultConfig)); err != nil {
		return sdk.HealthStatus{}, err
	}
	if err := reg.RegisterBuiltin(hybridengine.New(hybridengine.DefaultConfig)); err != nil {
		return sdk.HealthStatus{}, err
	}
	exec := runtime.NewExecutor(reg, nil, nil, runtime.DefaultExecutorConfig())

	engineID := "builtin." + name
	if !reg.Has(engineID) {
		return sdk.HealthStatus{}, fmt.Errorf("unknown engine %q", name)
	}
	return exec.HealthCheck(ctx, engineID)
}
