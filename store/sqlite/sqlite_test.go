package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func event(id string, staff payroll.StaffID, typ payroll.EventType, at time.Time) payroll.AttendanceEvent {
	return payroll.AttendanceEvent{
		ID:         payroll.EventID(id),
		StaffID:    staff,
		Type:       typ,
		Timestamp:  at,
		Provenance: payroll.ProvenanceUser,
	}
}

func TestStaffRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	staff := Staff{
		ID:    "staff-1",
		Name:  "Ada",
		Email: "ada@example.com",
		Terms: payroll.CompensationTerms{
			StaffID:        "staff-1",
			HourlyRate:     decimal.NewFromFloat(27.5),
			MonthlySalary:  decimal.NewFromInt(4400),
			Bonus:          decimal.NewFromInt(100),
			SocialSecurity: decimal.NewFromInt(40),
		},
	}
	require.NoError(t, store.SaveStaff(ctx, staff))

	got, err := store.GetStaff(ctx, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.True(t, got.Terms.HourlyRate.Equal(decimal.NewFromFloat(27.5)))
	assert.True(t, got.Terms.MonthlySalary.Equal(decimal.NewFromInt(4400)))

	terms, err := store.GetCompensationTerms(ctx, "staff-1")
	require.NoError(t, err)
	assert.True(t, terms.Bonus.Equal(decimal.NewFromInt(100)))

	_, err = store.GetStaff(ctx, "nobody")
	assert.ErrorIs(t, err, payroll.ErrStaffNotFound)

	all, err := store.ListStaff(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEventStream(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendEvent(ctx, event("e2", "staff-1", payroll.EventClockOut, day.Add(17*time.Hour))))
	require.NoError(t, store.AppendEvent(ctx, event("e1", "staff-1", payroll.EventClockIn, day.Add(8*time.Hour))))
	require.NoError(t, store.AppendEvent(ctx, event("e3", "staff-2", payroll.EventClockIn, day.Add(9*time.Hour))))

	period := payroll.Period{
		Start: payroll.NewDate(2026, time.March, 2),
		End:   payroll.NewDate(2026, time.March, 2),
	}

	// Ordered by (staff, timestamp) regardless of insert order.
	events, err := store.ListEvents(ctx, "", period)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, payroll.EventID("e1"), events[0].ID)
	assert.Equal(t, payroll.EventID("e2"), events[1].ID)
	assert.Equal(t, payroll.EventID("e3"), events[2].ID)

	// Staff filter.
	events, err = store.ListEvents(ctx, "staff-2", period)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, payroll.StaffID("staff-2"), events[0].StaffID)

	// The period's end date is inclusive.
	nextDay := payroll.Period{
		Start: payroll.NewDate(2026, time.March, 3),
		End:   payroll.NewDate(2026, time.March, 3),
	}
	events, err = store.ListEvents(ctx, "", nextDay)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	at := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendEvent(ctx, event("e1", "staff-1", payroll.EventClockIn, at)))

	adjusted := event("e1", "staff-1", payroll.EventClockIn, at.Add(30*time.Minute))
	adjusted.Provenance = payroll.ProvenanceAdjusted
	adjusted.Note = "adjusted by hr-admin on 2026-03-03: badge reader outage"
	require.NoError(t, store.UpdateEvent(ctx, adjusted))

	got, err := store.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, got.Timestamp.Equal(at.Add(30*time.Minute)))
	assert.Equal(t, payroll.ProvenanceAdjusted, got.Provenance)
	assert.Contains(t, got.Note, "hr-admin")

	err = store.UpdateEvent(ctx, event("missing", "staff-1", payroll.EventClockIn, at))
	assert.ErrorIs(t, err, payroll.ErrEventNotFound)

	_, err = store.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrEventNotFound)
}

func TestOvertimeApprovalFiltering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := payroll.OvertimeRequest{
		StaffID:     "staff-1",
		Date:        payroll.NewDate(2026, time.March, 7),
		HoursWorked: decimal.NewFromInt(3),
		Type:        payroll.OvertimeNormal,
	}

	pending := base
	pending.ID = "ot-1"
	pending.Status = payroll.StatusPending
	require.NoError(t, store.SaveOvertimeRequest(ctx, pending))

	rejected := base
	rejected.ID = "ot-2"
	rejected.Status = payroll.StatusRejected
	require.NoError(t, store.SaveOvertimeRequest(ctx, rejected))

	period := payroll.Period{
		Start: payroll.NewDate(2026, time.March, 1),
		End:   payroll.NewDate(2026, time.March, 31),
	}

	// Only approved rows come back.
	approved, err := store.ListApprovedOvertime(ctx, "staff-1", period)
	require.NoError(t, err)
	assert.Empty(t, approved)

	require.NoError(t, store.SetOvertimeStatus(ctx, "ot-1", payroll.StatusApproved))
	approved, err = store.ListApprovedOvertime(ctx, "staff-1", period)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, payroll.RequestID("ot-1"), approved[0].ID)
	assert.True(t, approved[0].HoursWorked.Equal(decimal.NewFromInt(3)))
}

func TestFinancialSums(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	save := func(id string, kind payroll.FinancialKind, amount int64, status payroll.ApprovalStatus) {
		require.NoError(t, store.SaveFinancialRequest(ctx, payroll.FinancialRequest{
			ID: payroll.RequestID(id), StaffID: "staff-1", Kind: kind,
			Amount: decimal.NewFromInt(amount),
			Date:   payroll.NewDate(2026, time.February, 10),
			Status: status,
		}))
	}
	save("fin-1", payroll.KindAdvance, 60, payroll.StatusApproved)
	save("fin-2", payroll.KindAdvance, 40, payroll.StatusApproved)
	save("fin-3", payroll.KindAdvance, 500, payroll.StatusPending)
	save("fin-4", payroll.KindLoan, 200, payroll.StatusApproved)

	ytd := payroll.YearToDate(payroll.NewDate(2026, time.March, 31))

	advances, err := store.SumApprovedFinancialRequests(ctx, "staff-1", payroll.KindAdvance, ytd)
	require.NoError(t, err)
	assert.True(t, advances.Equal(decimal.NewFromInt(100)), "expected 100, got %s", advances)

	loans, err := store.SumApprovedFinancialRequests(ctx, "staff-1", payroll.KindLoan, ytd)
	require.NoError(t, err)
	assert.True(t, loans.Equal(decimal.NewFromInt(200)))

	// Absent data is zero, never an error.
	none, err := store.SumApprovedFinancialRequests(ctx, "staff-2", payroll.KindLoan, ytd)
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}

func TestPayslipWriteOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	slip := payroll.Payslip{
		StaffID: "staff-1",
		Period: payroll.Period{
			Start: payroll.NewDate(2026, time.March, 1),
			End:   payroll.NewDate(2026, time.March, 31),
		},
		Earnings: payroll.Earnings{Basic: decimal.NewFromInt(140)},
	}
	slip.Summarize()

	require.NoError(t, store.SavePayslip(ctx, slip))

	err := store.SavePayslip(ctx, slip)
	assert.ErrorIs(t, err, payroll.ErrPayslipExists)

	saved, err := store.ListPayslips(ctx, "staff-1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Earnings.Basic.Equal(decimal.NewFromInt(140)))
	assert.True(t, saved[0].Summary.NetIncome.Equal(decimal.NewFromInt(140)))
}

func TestReconciliationRuns(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i, started := range []string{"2026-03-01T22:00:00Z", "2026-03-02T22:00:00Z"} {
		require.NoError(t, store.SaveRun(ctx, payroll.ReconciliationRun{
			ID:         "run-" + started,
			Date:       payroll.NewDate(2026, time.March, 1+i),
			Reconciled: i,
			StartedAt:  started,
			FinishedAt: started,
		}))
	}

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Most recent first.
	assert.Equal(t, payroll.NewDate(2026, time.March, 2), runs[0].Date)
	assert.Equal(t, 1, runs[0].Reconciled)
}
