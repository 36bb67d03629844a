// Package runtime executes solver engine calls behind a circuit breaker
// and a deadline, recording per-engine metrics, the way the teacher's
// engine runtime isolates plugin calls from the rest of the process.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/workforce-eng/shiftsched/internal/engine/registry"
	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/weekly"
)

// ExecutorConfig configures the executor's protective behavior.
type ExecutorConfig struct {
	CircuitBreakerEnabled bool
	MaxRequests           uint32
	Interval              time.Duration
	Timeout               time.Duration
	FailureThreshold      uint32
	DefaultDeadline       time.Duration
}

// DefaultExecutorConfig mirrors the shape of a production solver executor:
// a handful of consecutive failures trips the breaker for a short cooldown.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CircuitBreakerEnabled: true,
		MaxRequests:           3,
		Interval:              10 * time.Second,
		Timeout:               30 * time.Second,
		FailureThreshold:      5,
		DefaultDeadline:       30 * time.Second,
	}
}

// Executor runs engine Solve calls with circuit breaker protection, a
// per-call deadline, and metrics collection.
type Executor struct {
	registry *registry.Registry
	breakers map[string]*gobreaker.CircuitBreaker[any]
	metrics  *MetricsCollector
	logger   *slog.Logger
	config   ExecutorConfig
}

// NewExecutor builds an Executor over reg.
func NewExecutor(reg *registry.Registry, metrics *MetricsCollector, logger *slog.Logger, config ExecutorConfig) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetricsCollector()
	}
	return &Executor{
		registry: reg,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		metrics:  metrics,
		logger:   logger,
		config:   config,
	}
}

func (e *Executor) getBreaker(engineID string) *gobreaker.CircuitBreaker[any] {
	if !e.config.CircuitBreakerEnabled {
		return nil
	}
	if b, ok := e.breakers[engineID]; ok {
		return b
	}
	settings := gobreaker.Settings{
		Name:        engineID,
		MaxRequests: e.config.MaxRequests,
		Interval:    e.config.Interval,
		Timeout:     e.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= e.config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Info("circuit breaker state changed", "engine_id", name, "from", from.String(), "to", to.String())
			e.metrics.RecordCircuitBreakerChange(name, to.String())
		},
	}
	b := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[engineID] = b
	return b
}

// Solve runs engineID's Solve(req) with breaker protection and a deadline
// bounded by config.DefaultDeadline (or ctx's existing deadline, if tighter).
func (e *Executor) Solve(ctx context.Context, engineID string, req weekly.Request) (*model.WeeklySchedule, error) {
	engine, err := e.registry.Get(engineID)
	if err != nil {
		return nil, err
	}

	deadline := e.config.DefaultDeadline
	if deadline <= 0 {
		deadline = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	start := time.Now()
	breaker := e.getBreaker(engineID)

	fn := func() (any, error) {
		return engine.Solve(callCtx, req)
	}

	var result any
	if breaker != nil {
		result, err = breaker.Execute(fn)
		if err == gobreaker.ErrOpenState {
			e.metrics.RecordCircuitOpen(engineID)
			e.metrics.RecordOperation(engineID, time.Since(start), sdk.ErrCircuitOpen)
			return nil, sdk.ErrCircuitOpen
		}
	} else {
		result, err = fn()
	}

	e.metrics.RecordOperation(engineID, time.Since(start), err)
	if err != nil {
		return nil, sdk.NewExecutionError(engineID, "solve", err, callCtx.Err() == context.DeadlineExceeded)
	}
	return result.(*model.WeeklySchedule), nil
}

// HealthCheck reports an engine's health.
func (e *Executor) HealthCheck(ctx context.Context, engineID string) (sdk.HealthStatus, error) {
	engine, err := e.registry.Get(engineID)
	if err != nil {
		return sdk.HealthStatus{Healthy: false, Message: err.Error()}, err
	}
	return engine.HealthCheck(ctx), nil
}

// GetMetrics returns a snapshot of per-engine call metrics.
func (e *Executor) GetMetrics() map[string]EngineMetrics {
	return e.metrics.GetAll()
}

// GetCircuitBreakerState returns the breaker state for engineID, or "none"
// if no breaker has been created for it yet.
func (e *Executor) GetCircuitBreakerState(engineID string) string {
	b := e.breakers[engineID]
	if b == nil {
		return "none"
	}
	return b.State().String()
}

// ResetCircuitBreaker discards engineID's breaker, forcing a fresh closed
// state on next use.
func (e *Executor) ResetCircuitBreaker(engineID string) {
	delete(e.breakers, engineID)
	e.logger.Info("circuit breaker reset", "engine_id", engineID)
}
