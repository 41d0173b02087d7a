package payroll_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payroll/store"
)

func seedShift(t *testing.T, mem *store.Memory) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, mem.AppendEvent(ctx, clockIn("in-1", "staff-1", ts(2, 8, 0))))
	require.NoError(t, mem.AppendEvent(ctx, clockOut("out-1", "staff-1", ts(2, 17, 0))))
}

func TestAdjustShift_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedShift(t, mem)
	adjuster := &payroll.Adjuster{Events: mem}

	err := adjuster.AdjustShift(ctx, payroll.Adjustment{
		ClockInID:   "in-1",
		ClockOutID:  "out-1",
		NewClockIn:  ts(2, 9, 0),
		NewClockOut: ts(2, 15, 30),
		Reason:      "badge reader outage",
		Actor:       "hr-admin",
		AdjustedAt:  payroll.NewDate(2026, time.March, 3),
	})
	require.NoError(t, err)

	// A fresh reconstructor read reflects exactly the new timestamps.
	date := payroll.NewDate(2026, time.March, 2)
	events, err := mem.ListEvents(ctx, "staff-1", payroll.Period{Start: date, End: date})
	require.NoError(t, err)
	shifts := payroll.ReconstructShifts(events)
	require.Len(t, shifts, 1)

	shift := shifts[0]
	require.False(t, shift.Open())
	assert.Equal(t, ts(2, 9, 0), shift.ClockIn.Timestamp)
	assert.Equal(t, ts(2, 15, 30), shift.ClockOut.Timestamp)
	assert.Equal(t, payroll.ProvenanceAdjusted, shift.ClockIn.Provenance)
	assert.Equal(t, payroll.ProvenanceAdjusted, shift.ClockOut.Provenance)

	// Audit note carries actor, date and reason.
	assert.True(t, strings.Contains(shift.ClockIn.Note, "hr-admin"))
	assert.True(t, strings.Contains(shift.ClockIn.Note, "2026-03-03"))
	assert.True(t, strings.Contains(shift.ClockIn.Note, "badge reader outage"))
}

func TestAdjustShift_UnknownEvents(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedShift(t, mem)
	adjuster := &payroll.Adjuster{Events: mem}

	err := adjuster.AdjustShift(ctx, payroll.Adjustment{
		ClockInID:   "missing",
		ClockOutID:  "out-1",
		NewClockIn:  ts(2, 9, 0),
		NewClockOut: ts(2, 15, 0),
	})
	assert.ErrorIs(t, err, payroll.ErrEventNotFound)
}

func TestAdjustShift_UnpairedEvents(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedShift(t, mem)
	// A clock-out belonging to someone else.
	require.NoError(t, mem.AppendEvent(ctx, clockOut("out-2", "staff-2", ts(2, 17, 0))))
	adjuster := &payroll.Adjuster{Events: mem}

	// Two clock-ins are not a pair.
	err := adjuster.AdjustShift(ctx, payroll.Adjustment{
		ClockInID:   "in-1",
		ClockOutID:  "in-1",
		NewClockIn:  ts(2, 9, 0),
		NewClockOut: ts(2, 15, 0),
	})
	assert.ErrorIs(t, err, payroll.ErrUnpairedEvents)

	// Events from different staff are not a pair either.
	err = adjuster.AdjustShift(ctx, payroll.Adjustment{
		ClockInID:   "in-1",
		ClockOutID:  "out-2",
		NewClockIn:  ts(2, 9, 0),
		NewClockOut: ts(2, 15, 0),
	})
	assert.ErrorIs(t, err, payroll.ErrUnpairedEvents)
}

func TestAdjustShift_RejectsInvertedTimestamps(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedShift(t, mem)
	adjuster := &payroll.Adjuster{Events: mem}

	err := adjuster.AdjustShift(ctx, payroll.Adjustment{
		ClockInID:   "in-1",
		ClockOutID:  "out-1",
		NewClockIn:  ts(2, 15, 0),
		NewClockOut: ts(2, 9, 0),
	})

	var conflict *payroll.AdjustmentConflictError
	require.ErrorAs(t, err, &conflict)
	assert.True(t, payroll.IsConflict(err))

	// Nothing was written.
	original, err := mem.GetEvent(ctx, "in-1")
	require.NoError(t, err)
	assert.Equal(t, ts(2, 8, 0), original.Timestamp)
	assert.Equal(t, payroll.ProvenanceUser, original.Provenance)
}

func TestAdjustShift_RejectsMidnightCrossing(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedShift(t, mem)
	adjuster := &payroll.Adjuster{Events: mem}

	err := adjuster.AdjustShift(ctx, payroll.Adjustment{
		ClockInID:   "in-1",
		ClockOutID:  "out-1",
		NewClockIn:  ts(2, 22, 0),
		NewClockOut: ts(3, 2, 0),
	})

	var conflict *payroll.AdjustmentConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Reason, "midnight")
}
