// Package policy implements the three pure labor-rule functions from
// spec.md §4.1: shift bounds, lunch minutes, and break count/duration, all
// evaluated on work minutes (time on floor plus break time, lunch
// excluded). Policies are values so the validator and both solvers can
// share the exact same rule objects, per spec.md §9 "Plugin points".
package policy

import "fmt"

// ShiftPolicy bounds total work minutes a single shift may contain.
type ShiftPolicy struct {
	MinWork int
	MaxWork int
}

// DefaultShiftPolicy matches spec.md §4.1 defaults.
var DefaultShiftPolicy = ShiftPolicy{MinWork: 240, MaxWork: 480}

// Validate reports a ConfigurationError-class problem: an inverted or
// degenerate bound.
func (p ShiftPolicy) Validate() error {
	if p.MinWork <= 0 || p.MaxWork <= 0 {
		return fmt.Errorf("policy: shift work bounds must be positive (min=%d max=%d)", p.MinWork, p.MaxWork)
	}
	if p.MinWork > p.MaxWork {
		return fmt.Errorf("policy: shift min_work (%d) exceeds max_work (%d)", p.MinWork, p.MaxWork)
	}
	return nil
}

// Admits reports whether workMinutes satisfies the shift bounds.
func (p ShiftPolicy) Admits(workMinutes int) bool {
	return workMinutes >= p.MinWork && workMinutes <= p.MaxWork
}

// LunchPolicy derives lunch duration from work minutes. Lunch is computed
// from work minutes directly (never span), avoiding the iterative fixpoint
// spec.md §9 warns against: span = work + LunchMinutes(work) is solved in
// one step because the right-hand side does not depend on span.
type LunchPolicy struct {
	NoLunchThreshold    int
	ShortLunchThreshold int
	ShortLunchDuration  int
	LongLunchDuration   int
}

// DefaultLunchPolicy matches spec.md §4.1 defaults.
var DefaultLunchPolicy = LunchPolicy{
	NoLunchThreshold:    360,
	ShortLunchThreshold: 390,
	ShortLunchDuration:  30,
	LongLunchDuration:   60,
}

// Validate reports an inconsistent threshold ordering.
func (p LunchPolicy) Validate() error {
	if p.ShortLunchThreshold < p.NoLunchThreshold {
		return fmt.Errorf("policy: short_lunch_threshold (%d) below no_lunch_threshold (%d)", p.ShortLunchThreshold, p.NoLunchThreshold)
	}
	if p.ShortLunchDuration <= 0 || p.LongLunchDuration <= 0 {
		return fmt.Errorf("policy: lunch durations must be positive")
	}
	if p.ShortLunchDuration > p.LongLunchDuration {
		return fmt.Errorf("policy: short_lunch_duration (%d) exceeds long_lunch_duration (%d)", p.ShortLunchDuration, p.LongLunchDuration)
	}
	return nil
}

// Minutes returns the required lunch duration for a shift with the given
// work minutes.
func (p LunchPolicy) Minutes(workMinutes int) int {
	switch {
	case workMinutes < p.NoLunchThreshold:
		return 0
	case workMinutes < p.ShortLunchThreshold:
		return p.ShortLunchDuration
	default:
		return p.LongLunchDuration
	}
}

// BreakPolicy derives the number of mandated breaks, each of fixed
// duration, from work minutes.
type BreakPolicy struct {
	OneBreakThreshold int
	TwoBreakThreshold int
	BreakDuration     int
}

// DefaultBreakPolicy matches spec.md §4.1 defaults.
var DefaultBreakPolicy = BreakPolicy{
	OneBreakThreshold: 300,
	TwoBreakThreshold: 480,
	BreakDuration:     15,
}

// Validate reports an inconsistent threshold ordering.
func (p BreakPolicy) Validate() error {
	if p.TwoBreakThreshold < p.OneBreakThreshold {
		return fmt.Errorf("policy: two_break_threshold (%d) below one_break_threshold (%d)", p.TwoBreakThreshold, p.OneBreakThreshold)
	}
	if p.BreakDuration <= 0 {
		return fmt.Errorf("policy: break_duration must be positive")
	}
	return nil
}

// Count returns the number of breaks required for the given work minutes.
func (p BreakPolicy) Count(workMinutes int) int {
	switch {
	case workMinutes < p.OneBreakThreshold:
		return 0
	case workMinutes < p.TwoBreakThreshold:
		return 1
	default:
		return 2
	}
}

// Set bundles the three policies used throughout candidate generation,
// solving, and validation, so every component draws its rules from one
// shared value.
type Set struct {
	Shift ShiftPolicy
	Lunch LunchPolicy
	Break BreakPolicy
}

// DefaultSet matches the defaults named throughout spec.md §4.1.
var DefaultSet = Set{
	Shift: DefaultShiftPolicy,
	Lunch: DefaultLunchPolicy,
	Break: DefaultBreakPolicy,
}

// Validate checks all three policies for ConfigurationError-class problems.
func (s Set) Validate() error {
	if err := s.Shift.Validate(); err != nil {
		return err
	}
	if err := s.Lunch.Validate(); err != nil {
		return err
	}
	return s.Break.Validate()
}

// Span returns the total shift length in minutes implied by workMinutes:
// work time plus the lunch this policy set mandates. Breaks count against
// work minutes already, per spec.md §4.1's work-minutes definition
// ("time on floor + break time; lunch excluded").
func (s Set) Span(workMinutes int) int {
	return workMinutes + s.Lunch.Minutes(workMinutes)
}
