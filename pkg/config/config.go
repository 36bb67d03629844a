// Package config loads solver and operating-window defaults from the
// environment, the same getEnv/getIntEnv/getDurationEnv pattern the
// teacher uses, backed by a .env file via godotenv.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-wide defaults for the scheduling engine.
type Config struct {
	AppEnv   string
	LogLevel string

	// Operating window (spec.md DATA MODEL).
	DayStartMinute int
	DayEndMinute   int
	SlotMinutes    int

	// Solver defaults (spec.md §6 SolverConfig).
	DefaultEngine      string // "heuristic" or "cpsat"
	SolverTimeLimit    time.Duration
	OptimizationMode   string
	WeightCoverage     int
	WeightDemand       int
	WeightUndercover   int
	WeightOvercover    int
	WeightSoftPref     int

	// Weekly coordinator defaults (spec.md §4.6).
	TargetWeeklyMinutes int
	RequiredDaysOff     int
	DaysOffPattern      string

	// Executor protection (spec.md §5 runtime isolation).
	CircuitBreakerEnabled  bool
	CircuitFailureThreshold int
	CircuitOpenTimeout      time.Duration
}

// Load reads configuration from the environment, loading a .env file
// first if one is present (ignored if missing).
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DayStartMinute: getIntEnv("SHIFTSCHED_DAY_START_MINUTE", 300),
		DayEndMinute:   getIntEnv("SHIFTSCHED_DAY_END_MINUTE", 1320),
		SlotMinutes:    getIntEnv("SHIFTSCHED_SLOT_MINUTES", 15),

		DefaultEngine:    getEnv("SHIFTSCHED_ENGINE", "heuristic"),
		SolverTimeLimit:  getDurationEnv("SHIFTSCHED_SOLVER_TIME_LIMIT", 10*time.Second),
		OptimizationMode: getEnv("SHIFTSCHED_OPTIMIZATION_MODE", "balanced"),
		WeightCoverage:   getIntEnv("SHIFTSCHED_WEIGHT_COVERAGE", 1),
		WeightDemand:     getIntEnv("SHIFTSCHED_WEIGHT_DEMAND", 1),
		WeightUndercover: getIntEnv("SHIFTSCHED_WEIGHT_UNDERCOVERAGE", 2),
		WeightOvercover:  getIntEnv("SHIFTSCHED_WEIGHT_OVERCOVERAGE", 1),
		WeightSoftPref:   getIntEnv("SHIFTSCHED_WEIGHT_SOFT_PREFERENCE", 0),

		TargetWeeklyMinutes: getIntEnv("SHIFTSCHED_TARGET_WEEKLY_MINUTES", 2400),
		RequiredDaysOff:     getIntEnv("SHIFTSCHED_REQUIRED_DAYS_OFF", 2),
		DaysOffPattern:      getEnv("SHIFTSCHED_DAYS_OFF_PATTERN", "TWO_CONSECUTIVE"),

		CircuitBreakerEnabled:   getBoolEnv("SHIFTSCHED_CIRCUIT_BREAKER_ENABLED", true),
		CircuitFailureThreshold: getIntEnv("SHIFTSCHED_CIRCUIT_FAILURE_THRESHOLD", 5),
		CircuitOpenTimeout:      getDurationEnv("SHIFTSCHED_CIRCUIT_OPEN_TIMEOUT", 30*time.Second),
	}, nil
}

// IsDevelopment reports whether AppEnv is "development".
func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

// IsProduction reports whether AppEnv is "production".
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
