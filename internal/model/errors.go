package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal, ConfigurationError-class conditions named
// in spec.md §7. A caller sees one of these (or one wrapping one of
// these) when a request can never be solved regardless of input data.
var (
	ErrInconsistentPolicy = errors.New("inconsistent policy thresholds")
	ErrEmptyRoleSet       = errors.New("empty role set")
	ErrInvalidDateRange   = errors.New("end_date before start_date")
	ErrInvalidWindow      = errors.New("invalid operating window")
)

// ConfigurationError wraps one of the sentinels above with the offending
// field, mirroring the teacher's engine error idiom (an error interface
// with Unwrap so callers can errors.Is against the sentinel).
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError builds a ConfigurationError for field, wrapping one
// of the sentinel errors above (or any other cause).
func NewConfigurationError(field string, cause error) error {
	return &ConfigurationError{Field: field, Err: cause}
}

// InfeasibilityWarning is non-fatal: an associate had no feasible
// candidate on a day. The solver proceeds leaving them unscheduled; the
// Schedule simply has no entry for that associate id (spec.md §7).
type InfeasibilityWarning struct {
	AssociateID string
	Date        Date
	Reason      string
}

func (w InfeasibilityWarning) Error() string {
	return fmt.Sprintf("associate %s has no feasible shift on %s: %s", w.AssociateID, w.Date, w.Reason)
}
