/*
adjust.go - Manual shift adjustment gateway

PURPOSE:
  Authorized correction of a resolved shift's timestamps. Given the clock-in
  and clock-out event ids of one shift, overwrite both timestamps, set
  provenance=adjusted, and attach an audit note (actor, date, reason).
  Original timestamps are not retained beyond the note.

PRECONDITIONS:
  - Both ids reference existing events (ErrEventNotFound otherwise)
  - The events form a clock_in/clock_out pair for one staff member
    (ErrUnpairedEvents otherwise)
  - newClockOut is strictly after newClockIn and on the same calendar date
    (AdjustmentConflictError otherwise - shifts never cross midnight)

SIDE EFFECT:
  Future shift reconstructor reads reflect the new timestamps.
*/
package payroll

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// ADJUSTMENT GATEWAY
// =============================================================================

// Adjuster overwrites shift timestamps through the event store.
type Adjuster struct {
	Events EventStore
}

// Adjustment describes one correction.
type Adjustment struct {
	ClockInID   EventID
	ClockOutID  EventID
	NewClockIn  time.Time
	NewClockOut time.Time
	Reason      string
	Actor       string

	// AdjustedAt stamps the audit note. Injected, not read from the clock.
	AdjustedAt Date
}

// AdjustShift applies the correction. Both events are rewritten; the audit
// note records actor, date and reason on each.
func (a *Adjuster) AdjustShift(ctx context.Context, adj Adjustment) error {
	clockIn, err := a.Events.GetEvent(ctx, adj.ClockInID)
	if err != nil {
		return fmt.Errorf("clock-in %s: %w", adj.ClockInID, err)
	}
	clockOut, err := a.Events.GetEvent(ctx, adj.ClockOutID)
	if err != nil {
		return fmt.Errorf("clock-out %s: %w", adj.ClockOutID, err)
	}

	if clockIn.Type != EventClockIn || clockOut.Type != EventClockOut ||
		clockIn.StaffID != clockOut.StaffID {
		return ErrUnpairedEvents
	}

	if !adj.NewClockOut.After(adj.NewClockIn) {
		return &AdjustmentConflictError{
			ClockInID:  adj.ClockInID,
			ClockOutID: adj.ClockOutID,
			Reason:     "clock-out must be after clock-in",
		}
	}
	if !DateOf(adj.NewClockIn).Equal(DateOf(adj.NewClockOut)) {
		return &AdjustmentConflictError{
			ClockInID:  adj.ClockInID,
			ClockOutID: adj.ClockOutID,
			Reason:     "adjusted shift must not cross midnight",
		}
	}

	note := fmt.Sprintf("adjusted by %s on %s: %s", adj.Actor, adj.AdjustedAt, adj.Reason)

	clockIn.Timestamp = adj.NewClockIn
	clockIn.Provenance = ProvenanceAdjusted
	clockIn.Note = note
	if err := a.Events.UpdateEvent(ctx, clockIn); err != nil {
		return fmt.Errorf("updating clock-in %s: %w", adj.ClockInID, err)
	}

	clockOut.Timestamp = adj.NewClockOut
	clockOut.Provenance = ProvenanceAdjusted
	clockOut.Note = note
	if err := a.Events.UpdateEvent(ctx, clockOut); err != nil {
		return fmt.Errorf("updating clock-out %s: %w", adj.ClockOutID, err)
	}

	return nil
}
