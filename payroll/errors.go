/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The engine's contract is strict: return a precise error or a precise
  number, never an ambiguous default standing in for a real failure.
  Genuinely absent data (no events in a period) yields explicit zero.

ERROR CATEGORIES:
  1. Validation errors - Malformed input (missing staff, bad period)
  2. Not-found errors  - Unknown staff or event references
  3. Conflict errors   - Adjustments that violate shift invariants,
                         days already reconciled
  4. Computation guards - Division-by-zero cases yield rate 0, never
                          an error and never a crash

SEE ALSO:
  - adjust.go: Uses the conflict errors
  - compiler.go: Uses validation and not-found errors
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrStaffNotFound is returned when a referenced staff member doesn't exist.
	ErrStaffNotFound = errors.New("staff not found")

	// ErrEventNotFound is returned when a referenced attendance event doesn't exist.
	ErrEventNotFound = errors.New("attendance event not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start,
	// or missing boundary).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrMissingStaffID is returned when an operation requires a staff id.
	ErrMissingStaffID = errors.New("staff id is required")

	// ErrUnpairedEvents is returned when an adjustment references two events
	// that do not form a resolved shift.
	ErrUnpairedEvents = errors.New("events do not form a clock-in/clock-out pair")

	// ErrInvalidAdjustment is returned when adjusted timestamps violate shift
	// invariants (clock-out not after clock-in, or the pair crosses midnight).
	ErrInvalidAdjustment = errors.New("invalid adjustment")

	// ErrAlreadyReconciled is returned when reconciliation is asked to close a
	// day that has already been reconciled for a staff member.
	ErrAlreadyReconciled = errors.New("day already reconciled")

	// ErrPayslipExists is returned when saving a payslip for a period that
	// already has a history row. Saved payslips are write-once.
	ErrPayslipExists = errors.New("payslip already saved for period")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AdjustmentConflictError reports why a shift adjustment was rejected.
type AdjustmentConflictError struct {
	ClockInID  EventID
	ClockOutID EventID
	Reason     string
}

func (e *AdjustmentConflictError) Error() string {
	return fmt.Sprintf("adjustment conflict for pair (%s, %s): %s",
		e.ClockInID, e.ClockOutID, e.Reason)
}

func (e *AdjustmentConflictError) Unwrap() error { return ErrInvalidAdjustment }

// PeriodError reports a malformed date range with the offending boundaries.
type PeriodError struct {
	Period Period
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("invalid period %s", e.Period)
}

func (e *PeriodError) Unwrap() error { return ErrInvalidPeriod }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStaffNotFound) ||
		errors.Is(err, ErrEventNotFound)
}

// IsConflict returns true if the error indicates a state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUnpairedEvents) ||
		errors.Is(err, ErrInvalidAdjustment) ||
		errors.Is(err, ErrAlreadyReconciled) ||
		errors.Is(err, ErrPayslipExists)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrMissingStaffID) ||
		IsConflict(err)
}
