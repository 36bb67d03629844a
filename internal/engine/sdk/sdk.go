// Package sdk provides the core interfaces solver engines implement. An
// engine is a pluggable component that can take a weekly.Request and
// produce a WeeklySchedule; the registry and runtime packages manage
// engine lifecycle and execution the same way regardless of which
// algorithm backs a given engine (spec.md §4.5's "hybrid strategy":
// CP-SAT first, with the heuristic as the per-day fallback when CP-SAT
// returns no schedule).
package sdk

import (
	"context"

	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/weekly"
)

// EngineType identifies which solving strategy an engine implements.
type EngineType string

const (
	EngineTypeHeuristic EngineType = "heuristic"
	EngineTypeCPSAT     EngineType = "cpsat"
	EngineTypeHybrid    EngineType = "hybrid"
)

// String returns the string representation of the engine type.
func (t EngineType) String() string { return string(t) }

// IsValid reports whether t is one of the known engine types.
func (t EngineType) IsValid() bool {
	return t == EngineTypeHeuristic || t == EngineTypeCPSAT || t == EngineTypeHybrid
}

// EngineMetadata identifies an engine and its capabilities.
type EngineMetadata struct {
	ID          string
	Name        string
	Version     string
	Description string
}

// Engine is the interface every solver backend implements. The
// implementations are the in-process heuristicengine, cpsatengine and
// hybridengine; the grpcsolver plugin Client does not implement it.
type Engine interface {
	Metadata() EngineMetadata
	Type() EngineType

	// Solve produces a weekly schedule for req.
	Solve(ctx context.Context, req weekly.Request) (*model.WeeklySchedule, error)

	// HealthCheck reports whether the engine is able to serve requests.
	HealthCheck(ctx context.Context) HealthStatus

	// Shutdown releases any resources the engine holds.
	Shutdown(ctx context.Context) error
}

// EngineFactory creates engine instances, letting the registry defer
// instantiation until an engine is actually requested.
type EngineFactory func() (Engine, error)

// HealthStatus is an engine's current health.
type HealthStatus struct {
	Healthy bool
	Message string
}

// NewHealthStatus builds a HealthStatus.
func NewHealthStatus(healthy bool, message string) HealthStatus {
	return HealthStatus{Healthy: healthy, Message: message}
}
