/*
reconcile.go - Auto-reconciliation of forgotten clock-outs

PURPOSE:
  Daily sweep that closes unmatched clock-ins. For every staff member whose
  last event of the date is a clock_in, insert a synthetic clock_out at the
  policy's reconciliation cutoff with provenance=system.

STATE MACHINE (per staff per day):
  {no events} -> {open: unmatched clock_in} -> {closed: clock_out present}
  Only "open" staff are acted on, which makes re-running safe: the second
  run finds every staff closed and does nothing. A date that already holds
  a system-provenance clock_out is never given a second one, even when a
  trailing after-cutoff clock_in keeps the day reading open; such staff
  are reported with ErrAlreadyReconciled instead.

FAILURE SEMANTICS:
  Per-staff failures do not abort the batch. The sweep reports a
  partial-success count and collects failures; peers are never rolled back.

SEE ALSO:
  - api/scheduler.go: Cron trigger that runs this after hours
  - shift.go: ReconstructShifts consumes the synthetic clock-outs
*/
package payroll

import (
	"context"
	"fmt"
)

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler closes open attendance days with synthetic clock-outs.
type Reconciler struct {
	Events EventStore
	Policy WorkdayPolicy

	// NewEventID mints ids for synthetic events. Injected so tests are
	// deterministic.
	NewEventID func() EventID
}

// StaffFailure records one staff member the sweep could not reconcile.
type StaffFailure struct {
	StaffID StaffID
	Err     error
}

// ReconcileResult reports one sweep over one date.
type ReconcileResult struct {
	Date       Date
	Reconciled int
	Failures   []StaffFailure
}

// Reconcile sweeps one date. Staff whose last event of the date is a
// clock_in get a synthetic clock_out at the cutoff time. Idempotent:
// already-closed staff are skipped, and a date already carrying a
// synthetic close is reported as ErrAlreadyReconciled, never closed twice.
func (r *Reconciler) Reconcile(ctx context.Context, date Date) (ReconcileResult, error) {
	result := ReconcileResult{Date: date}
	if date.IsZero() {
		return result, &PeriodError{}
	}

	day := Period{Start: date, End: date}
	events, err := r.Events.ListEvents(ctx, "", day)
	if err != nil {
		return result, fmt.Errorf("listing events for %s: %w", date, err)
	}

	// Last event per staff decides open/closed. ListEvents orders by
	// (staff, timestamp) so a plain overwrite keeps the latest. A clock_in
	// after the cutoff would read "open" forever - the synthetic clock_out
	// sorts before it - so existing system closes are tracked separately
	// to keep reruns from inserting duplicates.
	lastByStaff := make(map[StaffID]AttendanceEvent)
	systemClosed := make(map[StaffID]bool)
	var order []StaffID
	for _, e := range events {
		if _, seen := lastByStaff[e.StaffID]; !seen {
			order = append(order, e.StaffID)
		}
		lastByStaff[e.StaffID] = e
		if e.Type == EventClockOut && e.Provenance == ProvenanceSystem {
			systemClosed[e.StaffID] = true
		}
	}

	cutoff := r.Policy.ReconcileCutoff.At(date)

	for _, staffID := range order {
		last := lastByStaff[staffID]
		if last.Type != EventClockIn {
			continue // already closed
		}
		if systemClosed[staffID] {
			// The date already holds a synthetic close; the trailing
			// clock_in happened after the cutoff. Never insert a second.
			result.Failures = append(result.Failures, StaffFailure{StaffID: staffID, Err: ErrAlreadyReconciled})
			continue
		}
		synthetic := AttendanceEvent{
			ID:         r.mintID(),
			StaffID:    staffID,
			Type:       EventClockOut,
			Timestamp:  cutoff,
			Provenance: ProvenanceSystem,
			Note:       "auto-reconciled: missing clock_out",
		}
		if err := r.Events.AppendEvent(ctx, synthetic); err != nil {
			result.Failures = append(result.Failures, StaffFailure{StaffID: staffID, Err: err})
			continue
		}
		result.Reconciled++
	}

	return result, nil
}

func (r *Reconciler) mintID() EventID {
	if r.NewEventID != nil {
		return r.NewEventID()
	}
	return ""
}
