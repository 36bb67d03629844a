package heuristic

import "github.com/workforce-eng/shiftsched/internal/model"

// Weights parameterizes Phase A's coverage objective (spec.md §4.4):
// Σ w(t)·coverage(t) − λ·Σ overstaff(t), where w(t)=1 without a demand
// curve or w(t)=demand(t) with one, and overstaff(t)=max(coverage(t)-
// demand(t),0).
type Weights struct {
	Demand *model.DemandCurve
	Lambda float64
	// Bias maps associate id to a per-minute objective bias (spec.md §4.6
	// point 2): the weekly coordinator adds bias_a·work_minutes_a to Phase
	// A's objective so load targeting and days-off fairness steer shift
	// selection without changing feasibility. Nil or a missing id means 0.
	Bias map[string]float64
}

// BiasFor returns the per-minute bias for associate id, 0 if unset.
func (w Weights) BiasFor(id string) float64 {
	if w.Bias == nil {
		return 0
	}
	return w.Bias[id]
}

// UniformWeights is the no-demand-curve case: w(t)=1 everywhere, no
// overstaffing penalty.
var UniformWeights = Weights{}

// At returns w(t).
func (w Weights) At(t int) float64 {
	if w.Demand == nil {
		return 1
	}
	return float64(w.Demand.At(t))
}

// Overstaff returns overstaff(t) for a given coverage count.
func (w Weights) Overstaff(t, coverage int) float64 {
	if w.Demand == nil {
		return 0
	}
	over := coverage - w.Demand.At(t)
	if over < 0 {
		return 0
	}
	return float64(over)
}
