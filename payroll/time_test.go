package payroll_test

import (
	"testing"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

func TestDateOf_TruncatesToUTCDay(t *testing.T) {
	d := payroll.DateOf(time.Date(2026, time.March, 2, 23, 59, 59, 0, time.UTC))
	if !d.Equal(payroll.NewDate(2026, time.March, 2)) {
		t.Errorf("expected 2026-03-02, got %s", d)
	}
}

func TestParseDate(t *testing.T) {
	d, err := payroll.ParseDate("2026-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2026-03-02" {
		t.Errorf("round-trip failed: %s", d)
	}

	if _, err := payroll.ParseDate("02/03/2026"); err == nil {
		t.Error("expected error for wrong format")
	}
}

func TestPeriodValidAndContains(t *testing.T) {
	p := payroll.Period{
		Start: payroll.NewDate(2026, time.March, 1),
		End:   payroll.NewDate(2026, time.March, 31),
	}

	if !p.Valid() {
		t.Error("expected valid period")
	}
	if !p.Contains(payroll.NewDate(2026, time.March, 1)) || !p.Contains(payroll.NewDate(2026, time.March, 31)) {
		t.Error("period boundaries are inclusive")
	}
	if p.Contains(payroll.NewDate(2026, time.April, 1)) {
		t.Error("April 1 is outside the period")
	}

	backwards := payroll.Period{Start: p.End, End: p.Start}
	if backwards.Valid() {
		t.Error("end before start should be invalid")
	}
	if (payroll.Period{}).Valid() {
		t.Error("zero period should be invalid")
	}
}

func TestYearToDate(t *testing.T) {
	ytd := payroll.YearToDate(payroll.NewDate(2026, time.March, 15))
	if !ytd.Start.Equal(payroll.NewDate(2026, time.January, 1)) {
		t.Errorf("expected start Jan 1, got %s", ytd.Start)
	}
	if !ytd.End.Equal(payroll.NewDate(2026, time.March, 15)) {
		t.Errorf("expected end Mar 15, got %s", ytd.End)
	}
}

func TestClockTimeAt(t *testing.T) {
	at := payroll.ClockTime{Hour: 17, Minute: 30}.At(payroll.NewDate(2026, time.March, 2))
	want := time.Date(2026, time.March, 2, 17, 30, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("expected %s, got %s", want, at)
	}
}

func TestEndOfMonth(t *testing.T) {
	if got := payroll.EndOfMonth(2026, time.February); got.Day() != 28 {
		t.Errorf("Feb 2026 should end on 28, got %d", got.Day())
	}
	if got := payroll.EndOfMonth(2024, time.February); got.Day() != 29 {
		t.Errorf("Feb 2024 should end on 29, got %d", got.Day())
	}
}
