package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-eng/shiftsched/internal/engine/registry"
	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/weekly"
)

type fakeEngine struct {
	id      string
	err     error
	delay   time.Duration
	result  *model.WeeklySchedule
}

func (f *fakeEngine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{ID: f.id}
}
func (f *fakeEngine) Type() sdk.EngineType { return sdk.EngineTypeHeuristic }
func (f *fakeEngine) Solve(ctx context.Context, req weekly.Request) (*model.WeeklySchedule, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &model.WeeklySchedule{}, nil
}
func (f *fakeEngine) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.NewHealthStatus(true, "ok")
}
func (f *fakeEngine) Shutdown(ctx context.Context) error { return nil }

func newTestExecutor(t *testing.T, eng sdk.Engine, cfg ExecutorConfig) *Executor {
	t.Helper()
	reg := registry.New(nil)
	require.NoError(t, reg.RegisterBuiltin(eng))
	return NewExecutor(reg, NewMetricsCollector(), nil, cfg)
}

func TestExecutorSolveSuccessRecordsMetrics(t *testing.T) {
	want := &model.WeeklySchedule{FairnessScore: 87}
	eng := &fakeEngine{id: "e1", result: want}
	cfg := DefaultExecutorConfig()
	cfg.CircuitBreakerEnabled = false
	exec := newTestExecutor(t, eng, cfg)

	got, err := exec.Solve(context.Background(), "e1", weekly.Request{})
	require.NoError(t, err)
	assert.Same(t, want, got)

	metrics := exec.GetMetrics()["e1"]
	assert.Equal(t, int64(1), metrics.TotalCalls)
	assert.Equal(t, int64(1), metrics.SuccessfulCalls)
	assert.Equal(t, int64(0), metrics.FailedCalls)
}

func TestExecutorSolveUnknownEngineReturnsNotFound(t *testing.T) {
	exec := newTestExecutor(t, &fakeEngine{id: "e1"}, DefaultExecutorConfig())
	_, err := exec.Solve(context.Background(), "missing", weekly.Request{})
	assert.ErrorIs(t, err, sdk.ErrEngineNotFound)
}

func TestExecutorSolveWrapsEngineErrorAsExecutionError(t *testing.T) {
	boom := errors.New("solver blew up")
	eng := &fakeEngine{id: "e1", err: boom}
	cfg := DefaultExecutorConfig()
	cfg.CircuitBreakerEnabled = false
	exec := newTestExecutor(t, eng, cfg)

	_, err := exec.Solve(context.Background(), "e1", weekly.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, sdk.IsRetryable(err), "a plain engine error, not a deadline, should not be marked retryable")
}

func TestExecutorSolveTripsCircuitAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("down")
	eng := &fakeEngine{id: "e1", err: boom}
	cfg := ExecutorConfig{
		CircuitBreakerEnabled: true,
		MaxRequests:           1,
		Interval:              time.Minute,
		Timeout:               time.Minute,
		FailureThreshold:      2,
		DefaultDeadline:       time.Second,
	}
	exec := newTestExecutor(t, eng, cfg)

	for i := 0; i < 2; i++ {
		_, err := exec.Solve(context.Background(), "e1", weekly.Request{})
		assert.Error(t, err)
	}

	_, err := exec.Solve(context.Background(), "e1", weekly.Request{})
	assert.ErrorIs(t, err, sdk.ErrCircuitOpen)
	assert.Equal(t, "open", exec.GetCircuitBreakerState("e1"))
}

func TestExecutorHealthCheckDelegatesToEngine(t *testing.T) {
	exec := newTestExecutor(t, &fakeEngine{id: "e1"}, DefaultExecutorConfig())
	status, err := exec.HealthCheck(context.Background(), "e1")
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

func TestGetCircuitBreakerStateDefaultsToNone(t *testing.T) {
	exec := newTestExecutor(t, &fakeEngine{id: "e1"}, DefaultExecutorConfig())
	assert.Equal(t, "none", exec.GetCircuitBreakerState("e1"))
}

func TestResetCircuitBreakerClearsState(t *testing.T) {
	boom := errors.New("down")
	eng := &fakeEngine{id: "e1", err: boom}
	cfg := ExecutorConfig{
		CircuitBreakerEnabled: true,
		MaxRequests:           1,
		Interval:              time.Minute,
		Timeout:               time.Minute,
		FailureThreshold:      1,
		DefaultDeadline:       time.Second,
	}
	exec := newTestExecutor(t, eng, cfg)

	_, _ = exec.Solve(context.Background(), "e1", weekly.Request{})
	_, err := exec.Solve(context.Background(), "e1", weekly.Request{})
	assert.ErrorIs(t, err, sdk.ErrCircuitOpen)

	exec.ResetCircuitBreaker("e1")
	assert.Equal(t, "none", exec.GetCircuitBreakerState("e1"))
}
