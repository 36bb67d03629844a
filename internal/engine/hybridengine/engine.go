// Package hybridengine implements spec.md §4.5/§6's "hybrid" solver
// strategy: run CP-SAT per day, and whenever it comes back
// StatusTimeout or StatusInfeasible without a usable schedule, fall back
// to that day's greedy heuristic result instead of leaving the day
// empty. It is grounded on cpsatengine.Engine's per-day loop, with the
// heuristic fallback built the same way internal/weekly's per-day body
// assembles a Schedule from candidates, roles, and the local-search pass.
package hybridengine

import (
	"context"
	"sort"

	"github.com/workforce-eng/shiftsched/internal/candidate"
	"github.com/workforce-eng/shiftsched/internal/cpsat"
	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
	"github.com/workforce-eng/shiftsched/internal/heuristic"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/weekly"
)

// Config selects the CP-SAT objective mode and weights used for the CP
// pass of each day, the same knobs cpsatengine.Config exposes.
type Config struct {
	Mode    cpsat.OptimizationMode
	Weights cpsat.Weights
}

// DefaultConfig matches cpsatengine.DefaultConfig.
var DefaultConfig = Config{Mode: cpsat.ModeBalanced}

// Engine wraps a CP-SAT-first, heuristic-fallback per-day solver as an
// sdk.Engine.
type Engine struct {
	cfg Config
}

// New returns a hybrid engine using cfg for its CP-SAT pass.
func New(cfg Config) *Engine { return &Engine{cfg: cfg} }

func (e *Engine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:          "builtin.hybrid",
		Name:        "Hybrid CP-SAT/Heuristic Solver",
		Version:     "1.0.0",
		Description: "CP-SAT per day, falling back to the greedy heuristic when CP-SAT times out or is infeasible (spec.md §4.5)",
	}
}

func (e *Engine) Type() sdk.EngineType { return sdk.EngineTypeHybrid }

func (e *Engine) Solve(ctx context.Context, req weekly.Request) (*model.WeeklySchedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	numSlots := req.Window.Slots()
	order := make([]string, 0, len(req.Associates))
	byID := make(map[string]model.Associate, len(req.Associates))
	for _, a := range req.Associates {
		order = append(order, a.ID)
		byID[a.ID] = a
	}
	sort.Strings(order)

	out := &model.WeeklySchedule{
		MinutesByAssoc: make(map[string]int),
		DaysByAssoc:    make(map[string]int),
	}

	for d := req.StartDate; d.Before(req.EndDate) || d.Equal(req.EndDate); d = d.AddDays(1) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidates := make(heuristic.CandidatesByAssociate, len(order))
		for _, id := range order {
			assoc := byID[id]
			av, ok := assoc.AvailabilityOn(d)
			if !ok || av.IsOff() {
				continue
			}
			cands := candidate.Generate(av, assoc, req.Window, req.Policies, candidate.DefaultConfig)
			if assoc.MaxMinutesPerWeek > 0 {
				remaining := assoc.MaxMinutesPerWeek - out.MinutesByAssoc[id]
				cands = filterOverCap(cands, remaining)
			}
			if len(cands) > 0 {
				candidates[id] = cands
			}
		}

		var demand *model.DemandCurve
		if curve, ok := req.Demand[d.String()]; ok {
			demand = &curve
		}

		problem := cpsat.Problem{
			Day:        d,
			NumSlots:   numSlots,
			Associates: byID,
			Order:      order,
			Candidates: candidates,
			JobCaps:    req.JobCaps,
			Demand:     demand,
			Mode:       e.cfg.Mode,
			Weights:    e.cfg.Weights,
		}

		sol, err := cpsat.Solve(ctx, problem)
		if err != nil {
			return nil, err
		}

		sched := sol.Schedule
		if sched == nil && (sol.Status == cpsat.StatusTimeout || sol.Status == cpsat.StatusInfeasible || sol.Status == cpsat.StatusUnknown) {
			sched = solveHeuristicDay(d, byID, order, candidates, numSlots, req.JobCaps, demand)
		}
		if sched == nil {
			sched = model.NewSchedule(d, numSlots, req.JobCaps)
		}

		for id, shift := range sched.Shifts {
			out.MinutesByAssoc[id] += shift.OnFloorMinutes(req.Window.SlotMinutes)
			out.DaysByAssoc[id]++
		}
		out.Days = append(out.Days, sched)
	}

	return out, nil
}

// solveHeuristicDay runs the same candidate-selection/role-assignment
// pass internal/weekly uses per day, for a single day that CP-SAT could
// not solve in time.
func solveHeuristicDay(day model.Date, byID map[string]model.Associate, order []string, candidates heuristic.CandidatesByAssociate, numSlots int, jobCaps map[model.JobRole]int, demand *model.DemandCurve) *model.Schedule {
	weights := heuristic.UniformWeights
	if demand != nil {
		weights.Demand = demand
		weights.Lambda = 1.0
	}

	picks := heuristic.SelectShifts(order, candidates, numSlots, weights)
	sched := model.NewSchedule(day, numSlots, jobCaps)
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

	caps := heuristic.RoleCaps(jobCaps)
	heuristic.AssignRoles(byID, shifts, caps, numSlots)
	heuristic.Improve(shifts, numSlots, weights)

	for id, s := range shifts {
		sched.Shifts[id] = s
	}
	return sched
}

func filterOverCap(cands []model.ShiftCandidate, remaining int) []model.ShiftCandidate {
	if remaining <= 0 {
		return nil
	}
	kept := make([]model.ShiftCandidate, 0, len(cands))
	for _, c := range cands {
		if c.WorkMinutes <= remaining {
			kept = append(kept, c)
		}
	}
	return kept
}

func (e *Engine) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.NewHealthStatus(true, "hybrid engine is always available")
}

func (e *Engine) Shutdown(ctx context.Context) error { return nil }
