package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL",
		"SHIFTSCHED_DAY_START_MINUTE", "SHIFTSCHED_DAY_END_MINUTE", "SHIFTSCHED_SLOT_MINUTES",
		"SHIFTSCHED_ENGINE", "SHIFTSCHED_SOLVER_TIME_LIMIT", "SHIFTSCHED_OPTIMIZATION_MODE",
		"SHIFTSCHED_WEIGHT_COVERAGE", "SHIFTSCHED_WEIGHT_DEMAND", "SHIFTSCHED_WEIGHT_UNDERCOVERAGE",
		"SHIFTSCHED_WEIGHT_OVERCOVERAGE", "SHIFTSCHED_WEIGHT_SOFT_PREFERENCE",
		"SHIFTSCHED_TARGET_WEEKLY_MINUTES", "SHIFTSCHED_REQUIRED_DAYS_OFF", "SHIFTSCHED_DAYS_OFF_PATTERN",
		"SHIFTSCHED_CIRCUIT_BREAKER_ENABLED", "SHIFTSCHED_CIRCUIT_FAILURE_THRESHOLD", "SHIFTSCHED_CIRCUIT_OPEN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 300, cfg.DayStartMinute)
	assert.Equal(t, 1320, cfg.DayEndMinute)
	assert.Equal(t, 15, cfg.SlotMinutes)
	assert.Equal(t, "heuristic", cfg.DefaultEngine)
	assert.Equal(t, 10*time.Second, cfg.SolverTimeLimit)
	assert.Equal(t, "balanced", cfg.OptimizationMode)
	assert.Equal(t, 2400, cfg.TargetWeeklyMinutes)
	assert.Equal(t, 2, cfg.RequiredDaysOff)
	assert.Equal(t, "TWO_CONSECUTIVE", cfg.DaysOffPattern)
	assert.True(t, cfg.CircuitBreakerEnabled)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadHonorsEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SHIFTSCHED_SLOT_MINUTES", "30")
	t.Setenv("SHIFTSCHED_SOLVER_TIME_LIMIT", "5s")
	t.Setenv("SHIFTSCHED_CIRCUIT_BREAKER_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, 5*time.Second, cfg.SolverTimeLimit)
	assert.False(t, cfg.CircuitBreakerEnabled)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestIntEnvFallsBackOnUnparsable(t *testing.T) {
	t.Setenv("SHIFTSCHED_SLOT_MINUTES", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.SlotMinutes)
}

func TestBoolEnvFallsBackOnUnparsable(t *testing.T) {
	t.Setenv("SHIFTSCHED_CIRCUIT_BREAKER_ENABLED", "not-a-bool")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.CircuitBreakerEnabled)
}
