// Package cpsat formulates the candidate-selection and role-assignment
// problem (spec.md §4.5) as a 0/1 constraint model and hands it to the real
// CP-SAT engine (github.com/google/or-tools/ortools/sat/go/cpmodel),
// grounded on other_examples' nurses_sat.go sample for the
// BoolVar/AddExactlyOne/AddAtMostOne/AddLessOrEqual idiom. It interprets the
// returned solution back into the shared model.Schedule so the validator
// and every downstream consumer never need to know a solve came from CP
// instead of the heuristic.
package cpsat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/workforce-eng/shiftsched/internal/heuristic"
	"github.com/workforce-eng/shiftsched/internal/model"
)

// OptimizationMode selects which terms of spec.md §4.5's weighted
// objective are active.
type OptimizationMode string

const (
	ModeMaximizeCoverage    OptimizationMode = "maximize_coverage"
	ModeMatchDemand         OptimizationMode = "match_demand"
	ModeMinimizeUndercover  OptimizationMode = "minimize_undercoverage"
	ModeBalanced            OptimizationMode = "balanced"
)

// Weights are the five integer objective coefficients named in spec.md §6's
// SolverConfig.
type Weights struct {
	Coverage       int
	Demand         int
	Undercoverage  int
	Overcoverage   int
	SoftPreference int
}

// ResolveWeights maps an OptimizationMode to concrete weights, per spec.md
// §4.5 "Optimization modes map weights".
func ResolveWeights(mode OptimizationMode, cfg Weights) Weights {
	switch mode {
	case ModeMaximizeCoverage:
		return Weights{Coverage: nonZero(cfg.Coverage, 1), SoftPreference: cfg.SoftPreference}
	case ModeMatchDemand:
		return Weights{Demand: nonZero(cfg.Demand, 1), Undercoverage: nonZero(cfg.Undercoverage, 1), SoftPreference: cfg.SoftPreference}
	case ModeMinimizeUndercover:
		return Weights{Undercoverage: nonZero(cfg.Undercoverage, 10), SoftPreference: cfg.SoftPreference}
	case ModeBalanced:
		return Weights{
			Coverage:       nonZero(cfg.Coverage, 1),
			Demand:         nonZero(cfg.Demand, 1),
			Undercoverage:  nonZero(cfg.Undercoverage, 2),
			Overcoverage:   nonZero(cfg.Overcoverage, 1),
			SoftPreference: cfg.SoftPreference,
		}
	default:
		return cfg
	}
}

func nonZero(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

// Status is the solver outcome, per spec.md §7.
type Status string

const (
	StatusOptimal     Status = "OPTIMAL"
	StatusFeasible    Status = "FEASIBLE"
	StatusInfeasible  Status = "INFEASIBLE"
	StatusTimeout     Status = "TIMEOUT"
	StatusUnknown     Status = "UNKNOWN"
)

// Problem bundles everything one day's CP-SAT formulation needs.
type Problem struct {
	Day         model.Date
	NumSlots    int
	Associates  map[string]model.Associate
	Order       []string // deterministic associate iteration order
	Candidates  heuristic.CandidatesByAssociate
	JobCaps     map[model.JobRole]int
	Demand      *model.DemandCurve
	Mode        OptimizationMode
	Weights     Weights
	// AvoidPenalty scores how much associate a dislikes holding role r,
	// feeding the soft-preference tie-breaker term (spec.md §4.5).
	AvoidPenalty func(associateID string, role model.JobRole) float64
}

// Solution is the CP adapter's result, interpreted back into the shared
// data model per spec.md §4.5's closing paragraph.
type Solution struct {
	Status         Status
	Schedule       *model.Schedule
	ObjectiveValue float64
	// Stats carries solve telemetry for a CLI summary, the CP-SAT
	// counterpart to heuristic.Stats (SPEC_FULL.md supplemented features).
	// CP-SAT is a black box once handed the model, so only variable counts
	// and wall-clock are available — there is no per-iteration trace to
	// surface the way the greedy solver has.
	Stats Stats
}

// Stats reports how large a model this solve built and how long the
// underlying engine call took.
type Stats struct {
	XVars     int
	YVars     int
	WallClock time.Duration
}

// xKey and yKey index the CP model's decision variables: x[a,k] (which
// candidate shift, if any, associate a holds) and y[a,t,r] (whether
// associate a holds role r at slot t).
type xKey struct {
	assoc string
	idx   int
}

type yKey struct {
	assoc string
	slot  int
	role  model.JobRole
}

// Solve builds and solves the CP-SAT model for one day. It respects ctx's
// deadline cooperatively: the underlying solve runs in a goroutine, and if
// ctx expires first, Solve returns StatusTimeout without a schedule (the
// goroutine is abandoned, matching the real binding's lack of a
// context-aware solve entrypoint — spec.md §5 requires the adapter "return
// cooperatively", not that it kill the underlying solver thread).
func Solve(ctx context.Context, p Problem) (*Solution, error) {
	type result struct {
		sol *Solution
		err error
	}
	ch := make(chan result, 1)
	go func() {
		sol, err := solveSync(p)
		ch <- result{sol, err}
	}()

	select {
	case r := <-ch:
		return r.sol, r.err
	case <-ctx.Done():
		return &Solution{Status: StatusTimeout}, nil
	}
}

func solveSync(p Problem) (*Solution, error) {
	start := time.Now()
	builder := cpmodel.NewCpModelBuilder()

	x := make(map[xKey]cpmodel.BoolVar)

	for _, a := range p.Order {
		cands := p.Candidates[a]
		if len(cands) == 0 {
			continue
		}
		var vars []cpmodel.BoolVar
		for k := range cands {
			v := builder.NewBoolVar().WithName(fmt.Sprintf("x_%s_%d", a, k))
			x[xKey{a, k}] = v
			vars = append(vars, v)
		}
		// Σ_k x[a,k] ≤ 1 (spec.md §4.5 constraint 1).
		builder.AddAtMostOne(vars...)
	}

	// on[a,t] as a 0/1 int var, tied to Σ_k x[a,k]·mask_k[t] (spec.md §4.5's
	// "Auxiliary on[a,t]").
	on := make(map[string][]cpmodel.IntVar) // associate -> per-slot var
	for _, a := range p.Order {
		cands := p.Candidates[a]
		if len(cands) == 0 {
			continue
		}
		slots := make([]cpmodel.IntVar, p.NumSlots)
		for t := 0; t < p.NumSlots; t++ {
			v := builder.NewIntVar(0, 1).WithName(fmt.Sprintf("on_%s_%d", a, t))
			expr := cpmodel.NewLinearExpr()
			for k, cand := range cands {
				if cand.OnFloor(t) {
					expr.AddTerm(x[xKey{a, k}], 1)
				}
			}
			builder.AddEquality(v, expr)
			slots[t] = v
		}
		on[a] = slots
	}

	// total_on_floor[t], the headcount auxiliary the objective's demand,
	// undercoverage and overcoverage terms are built from (spec.md §4.5).
	activeAssociates := len(on)
	totalOnFloor := make([]cpmodel.IntVar, p.NumSlots)
	for t := 0; t < p.NumSlots; t++ {
		v := builder.NewIntVar(0, int64(activeAssociates)).WithName(fmt.Sprintf("total_on_floor_%d", t))
		expr := cpmodel.NewLinearExpr()
		for _, a := range p.Order {
			if slots, ok := on[a]; ok {
				expr.AddTerm(slots[t], 1)
			}
		}
		builder.AddEquality(v, expr)
		totalOnFloor[t] = v
	}

	// y[a,t,r], restricted to eligible roles per associate (spec.md §4.5
	// constraint 3: ineligible roles are simply never modeled).
	y := make(map[yKey]cpmodel.BoolVar)
	for _, a := range p.Order {
		if _, ok := on[a]; !ok {
			continue
		}
		eligible := p.Associates[a].EligibleRoles()
		for t := 0; t < p.NumSlots; t++ {
			var roleVars []cpmodel.BoolVar
			for _, r := range model.AllRoles {
				if !eligible[r] {
					continue
				}
				v := builder.NewBoolVar().WithName(fmt.Sprintf("y_%s_%d_%s", a, t, r))
				y[yKey{a, t, r}] = v
				roleVars = append(roleVars, v)
			}
			// Σ_r y[a,t,r] = on[a,t] (spec.md §4.5 constraint 2).
			expr := cpmodel.NewLinearExpr()
			for _, v := range roleVars {
				expr.AddTerm(v, 1)
			}
			builder.AddEquality(on[a][t], expr)
		}
	}

	// Σ_a y[a,t,r] ≤ job_caps[r] (spec.md §4.5 constraint 4).
	for t := 0; t < p.NumSlots; t++ {
		for _, r := range model.AllRoles {
			cap, ok := p.JobCaps[r]
			if !ok {
				continue
			}
			expr := cpmodel.NewLinearExpr()
			for _, a := range p.Order {
				if v, ok := y[yKey{a, t, r}]; ok {
					expr.AddTerm(v, 1)
				}
			}
			builder.AddLessOrEqual(expr, cpmodel.NewConstant(int64(cap)))
		}
	}

	// Role continuity (spec.md §4.5 constraint 5), applied across every
	// adjacent on-floor pair. on[a,t] is 0 during lunch and break slots, so
	// the equality never links the slots on either side of a lunch or break
	// and a role may change there (see DESIGN.md).
	for _, a := range p.Order {
		onSlots, ok := on[a]
		if !ok {
			continue
		}
		eligible := p.Associates[a].EligibleRoles()
		for t := 1; t < p.NumSlots; t++ {
			for _, r := range model.AllRoles {
				if !eligible[r] {
					continue
				}
				cur, curOK := y[yKey{a, t, r}]
				prev, prevOK := y[yKey{a, t - 1, r}]
				if !curOK || !prevOK {
					continue
				}
				builder.AddEquality(cur, prev).OnlyEnforceIf(onSlots[t]).OnlyEnforceIf(onSlots[t-1])
			}
		}
	}

	objective := buildObjective(builder, p, totalOnFloor, y)
	builder.Maximize(objective)

	m, err := builder.Model()
	if err != nil {
		return nil, fmt.Errorf("cpsat: build model: %w", err)
	}
	response, err := cpmodel.SolveCpModel(m)
	if err != nil {
		return nil, fmt.Errorf("cpsat: solve: %w", err)
	}

	stats := Stats{XVars: len(x), YVars: len(y), WallClock: time.Since(start)}

	status := mapStatus(response.GetStatus().String())
	if status == StatusInfeasible || status == StatusUnknown {
		return &Solution{Status: status, Stats: stats}, nil
	}

	sched := model.NewSchedule(p.Day, p.NumSlots, p.JobCaps)
	for _, a := range p.Order {
		cands := p.Candidates[a]
		if len(cands) == 0 {
			continue
		}
		for k, cand := range cands {
			v, ok := x[xKey{a, k}]
			if !ok || !cpmodel.SolutionBooleanValue(response, v) {
				continue
			}
			shift := model.AssignedShift{
				AssociateID: a,
				StartSlot:   cand.StartSlot,
				EndSlot:     cand.EndSlot,
				WorkMinutes: cand.WorkMinutes,
				Lunch:       cand.Lunch,
				Breaks:      cand.Breaks,
				Roles:       make(map[int]model.JobRole),
			}
			for t := 0; t < p.NumSlots; t++ {
				for _, r := range model.AllRoles {
					yv, ok := y[yKey{a, t, r}]
					if ok && cpmodel.SolutionBooleanValue(response, yv) {
						shift.Roles[t] = r
						break
					}
				}
			}
			sched.Shifts[a] = shift
			break
		}
	}

	return &Solution{
		Status:         status,
		Schedule:       sched,
		ObjectiveValue: response.GetObjectiveValue(),
		Stats:          stats,
	}, nil
}

// buildObjective assembles spec.md §4.5's weighted objective:
//
//	+coverage_weight·Σon_floor
//	+demand_weight·Σmatch(t)                      where match(t)=min(on_floor(t),demand(t))
//	-undercoverage_weight·Σmax(demand(t)-on_floor(t),0)
//	-overcoverage_weight·Σmax(on_floor(t)-demand(t),0)
//	-ε·avoid_penalty
//
// match/undercoverage/overcoverage are themselves linear only once paired
// with an auxiliary var and a one-sided inequality tying it to on_floor(t)
// and demand(t); each is built here the same way the role-cap and
// on[a,t]-defining constraints above tie an IntVar to a Σ of terms.
func buildObjective(builder *cpmodel.CpModelBuilder, p Problem, totalOnFloor []cpmodel.IntVar, y map[yKey]cpmodel.BoolVar) cpmodel.LinearExpr {
	w := ResolveWeights(p.Mode, p.Weights)
	expr := cpmodel.NewLinearExpr()

	if w.Coverage != 0 {
		for _, v := range totalOnFloor {
			expr.AddTerm(v, int64(w.Coverage))
		}
	}

	needsDemandTerms := p.Demand != nil && (w.Demand != 0 || w.Undercoverage != 0 || w.Overcoverage != 0)
	if needsDemandTerms {
		for t, total := range totalOnFloor {
			d := int64(p.Demand.At(t))

			if w.Demand != 0 {
				// match(t) = min(on_floor(t), demand(t)): an IntVar bounded
				// above by both quantities, maximized by the objective so it
				// settles at the tighter bound.
				m := builder.NewIntVar(0, d).WithName(fmt.Sprintf("match_%d", t))
				builder.AddLessOrEqual(m, total)
				builder.AddLessOrEqual(m, cpmodel.NewConstant(d))
				expr.AddTerm(m, int64(w.Demand))
			}

			if w.Undercoverage != 0 {
				// under(t) = max(demand(t)-on_floor(t), 0): demand(t) <=
				// on_floor(t)+under(t), driven down to the true max at
				// optimality because the objective penalizes it.
				u := builder.NewIntVar(0, d).WithName(fmt.Sprintf("undercoverage_%d", t))
				sum := cpmodel.NewLinearExpr()
				sum.AddTerm(total, 1)
				sum.AddTerm(u, 1)
				builder.AddLessOrEqual(cpmodel.NewConstant(d), sum)
				expr.AddTerm(u, -int64(w.Undercoverage))
			}

			if w.Overcoverage != 0 {
				// over(t) = max(on_floor(t)-demand(t), 0): on_floor(t)-over(t)
				// <= demand(t), driven down to the true max the same way.
				o := builder.NewIntVar(0, int64(len(p.Order))).WithName(fmt.Sprintf("overcoverage_%d", t))
				diff := cpmodel.NewLinearExpr()
				diff.AddTerm(total, 1)
				diff.AddTerm(o, -1)
				builder.AddLessOrEqual(diff, cpmodel.NewConstant(d))
				expr.AddTerm(o, -int64(w.Overcoverage))
			}
		}
	}

	if w.SoftPreference != 0 && p.AvoidPenalty != nil {
		for key, v := range y {
			penalty := p.AvoidPenalty(key.assoc, key.role)
			if penalty == 0 {
				continue
			}
			expr.AddTerm(v, -int64(float64(w.SoftPreference)*penalty))
		}
	}

	return expr
}

func mapStatus(raw string) Status {
	switch raw {
	case "OPTIMAL":
		return StatusOptimal
	case "FEASIBLE":
		return StatusFeasible
	case "INFEASIBLE":
		return StatusInfeasible
	default:
		return StatusUnknown
	}
}
