package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

func overtimeRequest(hours int64, typ payroll.OvertimeType, status payroll.ApprovalStatus) payroll.OvertimeRequest {
	return payroll.OvertimeRequest{
		ID:          "ot-1",
		StaffID:     "staff-1",
		Date:        payroll.NewDate(2026, time.March, 7),
		HoursWorked: decimal.NewFromInt(hours),
		Type:        typ,
		Status:      status,
	}
}

func TestAggregateOvertime_SumsByType(t *testing.T) {
	requests := []payroll.OvertimeRequest{
		overtimeRequest(2, payroll.OvertimeNormal, payroll.StatusApproved),
		overtimeRequest(1, payroll.OvertimeNormal, payroll.StatusApproved),
		overtimeRequest(4, payroll.OvertimeSunday, payroll.StatusApproved),
	}

	totals := payroll.AggregateOvertime(requests)

	if !totals.NormalHours.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected 3 normal hours, got %s", totals.NormalHours)
	}
	if !totals.SundayHours.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected 4 sunday hours, got %s", totals.SundayHours)
	}
}

func TestAggregateOvertime_PendingAndRejectedContributeZero(t *testing.T) {
	requests := []payroll.OvertimeRequest{
		overtimeRequest(40, payroll.OvertimeNormal, payroll.StatusPending),
		overtimeRequest(40, payroll.OvertimeSunday, payroll.StatusRejected),
	}

	totals := payroll.AggregateOvertime(requests)

	if !totals.NormalHours.IsZero() || !totals.SundayHours.IsZero() {
		t.Errorf("non-approved requests must contribute 0, got %s/%s",
			totals.NormalHours, totals.SundayHours)
	}
}

func TestOvertimePay(t *testing.T) {
	policy := payroll.DefaultWorkdayPolicy()
	totals := payroll.OvertimeTotals{
		NormalHours: decimal.NewFromInt(3),
		SundayHours: decimal.NewFromInt(2),
	}

	normal, sunday := totals.OvertimePay(decimal.NewFromInt(20), policy)

	// 3 x 20 x 1.5 = 90
	if !normal.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected normal overtime pay 90, got %s", normal)
	}
	// 2 x 20 x 2.0 = 80
	if !sunday.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected sunday overtime pay 80, got %s", sunday)
	}
}
