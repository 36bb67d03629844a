// Package cpsatengine adapts internal/cpsat's per-day constraint solver to
// the sdk.Engine interface. It runs one CP-SAT solve per day in date
// order, threading running weekly-minute totals the same way
// internal/weekly does for the heuristic coordinator (spec.md §4.5's
// "hybrid strategy" treats CP-SAT as the per-day alternative, not a
// replacement for the weekly pattern/fairness layer, which stays
// heuristic-only — see DESIGN.md).
package cpsatengine

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

// Config selects the CP-SAT objective mode and weights. It carries no time
// limit; a solve is bounded only by ctx.
type Config struct {
	Mode    cpsat.OptimizationMode
	Weights cpsat.Weights
}

// DefaultConfig matches the balanced objective the CLI defaults to.
var DefaultConfig = Config{Mode: cpsat.ModeBalanced}

// Engine wraps the CP-SAT per-day solver as an sdk.Engine.
type Engine struct {
	cfg Config
}

// New returns a CP-SAT engine using cfg.
func New(cfg Config) *Engine { return &Engine{cfg: cfg} }

func (e *Engine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:          "builtin.cpsat",
		Name:        "CP-SAT Constraint Solver",
		Version:     "1.0.0",
		Description: "Exact constraint solve via or-tools CP-SAT (spec.md §4.5)",
	}
}

func (e *Engine) Type() sdk.EngineType { return sdk.EngineTypeCPSAT }

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
	return sdk.NewHealthStatus(true, "cp-sat engine is always available")
}

func (e *Engine) Shutdown(ctx context.Context) error { return nil }
