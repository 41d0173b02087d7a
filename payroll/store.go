/*
store.go - Persistence interfaces for the payroll engine

PURPOSE:
  Defines the interface between the engine and the record store. The engine
  never touches a database directly; it computes over already-fetched,
  bounded event lists. Different implementations can use SQLite, PostgreSQL,
  or in-memory storage.

KEY INTERFACES:
  EventStore:        Attendance event stream (append-mostly)
  CompensationStore: Compensation terms on the staff record
  OvertimeStore:     Approved overtime requests
  FinanceStore:      Approved advance/loan sums
  PayslipStore:      Write-once payslip history
  RunStore:          Reconciliation run records

MUTATION CONTRACT:
  The event stream is append-mostly: AppendEvent is the normal write path,
  and UpdateEvent exists ONLY for the adjustment gateway and reconciliation.
  There is no delete. Multi-row writes that must be atomic are wrapped in a
  single storage transaction by the implementation; partial failure rolls
  back the whole unit.

CONCURRENCY:
  The reconciliation job and the adjustment gateway mutate the store
  concurrently with ongoing reads. No cross-operation isolation is assumed
  beyond single-write atomicity; a mid-mutation read may observe pre- or
  post-adjustment state for a given day.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - payroll/store/memory.go: In-memory for testing

SEE ALSO:
  - compiler.go: Reads through these interfaces
  - reconcile.go, adjust.go: The only writers besides event capture
*/
package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENT STORE - Append-mostly attendance stream
// =============================================================================

// EventStore handles persistence of attendance events.
type EventStore interface {
	// ListEvents returns events in [from, to] ordered by (staff, timestamp).
	// Empty staffID means all staff.
	ListEvents(ctx context.Context, staffID StaffID, period Period) ([]AttendanceEvent, error)

	// GetEvent returns one event by id, or ErrEventNotFound.
	GetEvent(ctx context.Context, id EventID) (AttendanceEvent, error)

	// AppendEvent persists a new clock event.
	AppendEvent(ctx context.Context, e AttendanceEvent) error

	// UpdateEvent overwrites an existing event's timestamp, provenance and
	// note in place. Reserved for the adjustment gateway and reconciliation.
	UpdateEvent(ctx context.Context, e AttendanceEvent) error
}

// =============================================================================
// RECORD STORES - Compensation, overtime, financial requests
// =============================================================================

// CompensationStore reads compensation terms off the staff record.
type CompensationStore interface {
	// GetCompensationTerms returns terms for a staff member, or ErrStaffNotFound.
	GetCompensationTerms(ctx context.Context, staffID StaffID) (CompensationTerms, error)
}

// OvertimeStore reads approved overtime requests.
type OvertimeStore interface {
	// ListApprovedOvertime returns only approved requests in the period.
	// Pending and rejected rows are filtered by the store, never returned.
	ListApprovedOvertime(ctx context.Context, staffID StaffID, period Period) ([]OvertimeRequest, error)
}

// FinanceStore sums approved financial requests (advances, loans).
type FinanceStore interface {
	// SumApprovedFinancialRequests returns the total approved amount of one
	// kind within the period. Absent data is zero, never an error.
	SumApprovedFinancialRequests(ctx context.Context, staffID StaffID, kind FinancialKind, period Period) (decimal.Decimal, error)
}

// =============================================================================
// PAYSLIP HISTORY - Write-once rows
// =============================================================================

// PayslipStore persists compiled payslips. A saved payslip is immutable:
// saving twice for the same staff+period returns ErrPayslipExists.
type PayslipStore interface {
	SavePayslip(ctx context.Context, p Payslip) error
	ListPayslips(ctx context.Context, staffID StaffID) ([]Payslip, error)
}

// =============================================================================
// RECONCILIATION RUNS - Job audit records
// =============================================================================

// ReconciliationRun records one sweep of the auto-reconciliation job.
type ReconciliationRun struct {
	ID         string
	Date       Date
	Reconciled int
	Failed     int
	Error      string
	StartedAt  string
	FinishedAt string
}

// RunStore persists reconciliation run records for audit and UI display.
type RunStore interface {
	SaveRun(ctx context.Context, run ReconciliationRun) error
	ListRuns(ctx context.Context, limit int) ([]ReconciliationRun, error)
}
