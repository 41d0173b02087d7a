package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payroll/store"
)

func newReconciler(mem *store.Memory) *payroll.Reconciler {
	return &payroll.Reconciler{
		Events:     mem,
		Policy:     payroll.DefaultWorkdayPolicy(),
		NewEventID: mem.NextEventID,
	}
}

func TestReconcile_ClosesOpenStaff(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	date := payroll.NewDate(2026, time.March, 2)

	// staff-1 forgot to clock out; staff-2 has a complete day.
	require.NoError(t, mem.AppendEvent(ctx, clockIn("e1", "staff-1", ts(2, 8, 0))))
	require.NoError(t, mem.AppendEvent(ctx, clockIn("e2", "staff-2", ts(2, 8, 0))))
	require.NoError(t, mem.AppendEvent(ctx, clockOut("e3", "staff-2", ts(2, 16, 30))))

	result, err := newReconciler(mem).Reconcile(ctx, date)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Reconciled)
	assert.Empty(t, result.Failures)

	events, err := mem.ListEvents(ctx, "staff-1", payroll.Period{Start: date, End: date})
	require.NoError(t, err)
	require.Len(t, events, 2)

	synthetic := events[1]
	assert.Equal(t, payroll.EventClockOut, synthetic.Type)
	assert.Equal(t, payroll.ProvenanceSystem, synthetic.Provenance)
	assert.Equal(t, ts(2, 17, 0), synthetic.Timestamp)
	assert.NotEmpty(t, synthetic.Note)

	// The closed day now earns pay.
	days := payroll.RollupDays(payroll.ReconstructShifts(events), payroll.DefaultWorkdayPolicy())
	require.Len(t, days, 1)
	assert.Equal(t, int64(25200), days[0].PayableSeconds)
}

func TestReconcile_Idempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	date := payroll.NewDate(2026, time.March, 2)
	reconciler := newReconciler(mem)

	require.NoError(t, mem.AppendEvent(ctx, clockIn("e1", "staff-1", ts(2, 8, 0))))

	first, err := reconciler.Reconcile(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Reconciled)

	// Second run finds every staff closed and does nothing.
	second, err := reconciler.Reconcile(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Reconciled)

	events, err := mem.ListEvents(ctx, "staff-1", payroll.Period{Start: date, End: date})
	require.NoError(t, err)
	assert.Len(t, events, 2, "exactly one synthetic clock-out should exist")
}

func TestReconcile_AfterCutoffClockInStaysIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	date := payroll.NewDate(2026, time.March, 2)
	reconciler := newReconciler(mem)

	// Clock-in after the 17:00 cutoff: the synthetic clock-out sorts
	// before it, so the day still reads open after the first sweep.
	require.NoError(t, mem.AppendEvent(ctx, clockIn("e1", "staff-1", ts(2, 18, 0))))

	first, err := reconciler.Reconcile(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Reconciled)

	// The rerun must not insert a second synthetic close.
	second, err := reconciler.Reconcile(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Reconciled)
	require.Len(t, second.Failures, 1)
	assert.ErrorIs(t, second.Failures[0].Err, payroll.ErrAlreadyReconciled)

	events, err := mem.ListEvents(ctx, "staff-1", payroll.Period{Start: date, End: date})
	require.NoError(t, err)
	assert.Len(t, events, 2, "synthetic clock-outs must not accumulate")
}

func TestReconcile_OnlyTargetDate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	// Open clock-in on March 3 must not be touched by a March 2 sweep.
	require.NoError(t, mem.AppendEvent(ctx, clockIn("e1", "staff-1", ts(3, 8, 0))))

	result, err := newReconciler(mem).Reconcile(ctx, payroll.NewDate(2026, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Reconciled)
}

func TestReconcile_ZeroDateRejected(t *testing.T) {
	mem := store.NewMemory()

	_, err := newReconciler(mem).Reconcile(context.Background(), payroll.Date{})
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

// failingEventStore wraps Memory and fails appends for one staff member.
type failingEventStore struct {
	*store.Memory
	failFor payroll.StaffID
}

func (f *failingEventStore) AppendEvent(ctx context.Context, e payroll.AttendanceEvent) error {
	if e.StaffID == f.failFor {
		return errors.New("storage unavailable")
	}
	return f.Memory.AppendEvent(ctx, e)
}

func TestReconcile_PerStaffFailureDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	date := payroll.NewDate(2026, time.March, 2)

	require.NoError(t, mem.AppendEvent(ctx, clockIn("e1", "staff-1", ts(2, 8, 0))))
	require.NoError(t, mem.AppendEvent(ctx, clockIn("e2", "staff-2", ts(2, 9, 0))))

	reconciler := &payroll.Reconciler{
		Events:     &failingEventStore{Memory: mem, failFor: "staff-1"},
		Policy:     payroll.DefaultWorkdayPolicy(),
		NewEventID: mem.NextEventID,
	}

	result, err := reconciler.Reconcile(ctx, date)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Reconciled)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, payroll.StaffID("staff-1"), result.Failures[0].StaffID)

	// The peer's synthetic clock-out survived.
	events, err := mem.ListEvents(ctx, "staff-2", payroll.Period{Start: date, End: date})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
