// Package heuristicengine adapts internal/weekly's greedy coordinator to
// the sdk.Engine interface, so it can be registered and called the same
// way as any other solver backend.
package heuristicengine

import (
	"context"

	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/weekly"
)

// Engine wraps weekly.Solve as an sdk.Engine.
type Engine struct{}

// New returns the heuristic engine.
func New() *Engine { return &Engine{} }

func (e *Engine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:          "builtin.heuristic",
		Name:        "Greedy Heuristic Solver",
		Version:     "1.0.0",
		Description: "Deterministic marginal-gain heuristic (spec.md §4.4)",
	}
}

func (e *Engine) Type() sdk.EngineType { return sdk.EngineTypeHeuristic }

func (e *Engine) Solve(ctx context.Context, req weekly.Request) (*model.WeeklySchedule, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return weekly.Solve(req)
}

func (e *Engine) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.NewHealthStatus(true, "heuristic engine is always available")
}

func (e *Engine) Shutdown(ctx context.Context) error { return nil }
