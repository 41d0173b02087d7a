package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

func TestEffectiveHourlyRate_HourlyStaff(t *testing.T) {
	terms := payroll.CompensationTerms{
		StaffID:    "staff-1",
		HourlyRate: decimal.NewFromInt(30),
	}

	rate := payroll.EffectiveHourlyRate(terms, payroll.NewDate(2026, time.February, 15))

	if !rate.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected rate 30, got %s", rate)
	}
}

func TestEffectiveHourlyRate_SalariedNormalization(t *testing.T) {
	// February 2026 has 20 non-weekend days: target = 20 x 8 = 160h.
	// 4400 / 160 = 27.5.
	terms := payroll.CompensationTerms{
		StaffID:       "staff-1",
		HourlyRate:    decimal.NewFromInt(30),
		MonthlySalary: decimal.NewFromInt(4400),
	}

	rate := payroll.EffectiveHourlyRate(terms, payroll.NewDate(2026, time.February, 15))

	if !rate.Equal(decimal.NewFromFloat(27.5)) {
		t.Errorf("expected rate 27.5, got %s", rate)
	}
}

func TestEffectiveHourlyRate_SalaryTakesPrecedence(t *testing.T) {
	terms := payroll.CompensationTerms{
		StaffID:       "staff-1",
		HourlyRate:    decimal.NewFromInt(100),
		MonthlySalary: decimal.NewFromInt(4400),
	}

	rate := payroll.EffectiveHourlyRate(terms, payroll.NewDate(2026, time.February, 1))

	if rate.Equal(decimal.NewFromInt(100)) {
		t.Error("stored hourly rate should not be used when a salary is set")
	}
}

func TestEffectiveHourlyRate_StableAcrossMonth(t *testing.T) {
	terms := payroll.CompensationTerms{
		StaffID:       "staff-1",
		MonthlySalary: decimal.NewFromInt(4400),
	}

	first := payroll.EffectiveHourlyRate(terms, payroll.NewDate(2026, time.February, 1))
	last := payroll.EffectiveHourlyRate(terms, payroll.NewDate(2026, time.February, 28))

	if !first.Equal(last) {
		t.Errorf("rate should be stable across the month: %s vs %s", first, last)
	}
}

func TestOvertimeAnchorRate_IgnoresSalary(t *testing.T) {
	// Overtime multipliers always anchor on the stored hourly rate.
	terms := payroll.CompensationTerms{
		StaffID:       "staff-1",
		HourlyRate:    decimal.NewFromInt(20),
		MonthlySalary: decimal.NewFromInt(4400),
	}

	if rate := payroll.OvertimeAnchorRate(terms); !rate.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected anchor rate 20, got %s", rate)
	}
}

func TestWorkingDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.February, 20},
		{2026, time.March, 22},
		{2026, time.August, 21},
	}
	for _, tt := range tests {
		if got := payroll.WorkingDaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("WorkingDaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
