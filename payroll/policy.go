/*
policy.go - Payable-time workday policy

PURPOSE:
  Converts a closed shift into payable seconds under the core-hours/lunch/cap
  rules. Pay reflects time within standard business hours only; lunch is
  unpaid regardless of whether a break was actually taken.

RULES (per shift):
  1. Clip [clockIn, clockOut] to core hours [08:00,17:00) of the clock-in date
  2. Subtract overlap with the lunch window [12:00,14:00) of the same date
  3. payableSeconds = max(0, clippedDuration - lunchOverlap)

  Per day: sum shift results, then re-cap at the daily cap (8h = 28800s).
  Result is always in [0, DailyCapSeconds].

CONFIGURATION:
  Every window and cutoff is explicit injected configuration. The engine
  never reads the system clock - required for deterministic testing.

SEE ALSO:
  - shift.go: RollupDays applies the per-day re-cap
  - reconcile.go: Uses ReconcileCutoff for synthetic clock-outs
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WORKDAY POLICY - Injected configuration
// =============================================================================

// WorkdayPolicy holds the fixed daily windows and pay multipliers. One policy
// applies to all staff; there are no per-staff shift patterns.
type WorkdayPolicy struct {
	CoreStart  ClockTime // inclusive
	CoreEnd    ClockTime // exclusive
	LunchStart ClockTime // inclusive
	LunchEnd   ClockTime // exclusive

	// DailyCapSeconds caps payable time per day after summing shifts.
	DailyCapSeconds int64

	// ReconcileCutoff is the clock time at which the auto-reconciliation job
	// closes forgotten clock-ins with a synthetic clock-out.
	ReconcileCutoff ClockTime

	// Overtime multipliers, anchored on the stored hourly rate.
	NormalOvertimeMultiplier decimal.Decimal
	SundayOvertimeMultiplier decimal.Decimal
}

// DefaultWorkdayPolicy returns the standard policy: core hours 08:00-17:00,
// lunch 12:00-14:00, 8h daily cap, reconciliation cutoff at core end,
// overtime at 1.5x/2.0x.
func DefaultWorkdayPolicy() WorkdayPolicy {
	return WorkdayPolicy{
		CoreStart:                ClockTime{Hour: 8},
		CoreEnd:                  ClockTime{Hour: 17},
		LunchStart:               ClockTime{Hour: 12},
		LunchEnd:                 ClockTime{Hour: 14},
		DailyCapSeconds:          8 * 3600,
		ReconcileCutoff:          ClockTime{Hour: 17},
		NormalOvertimeMultiplier: decimal.NewFromFloat(1.5),
		SundayOvertimeMultiplier: decimal.NewFromFloat(2.0),
	}
}

// =============================================================================
// PAYABLE TIME
// =============================================================================

// PayableSeconds computes payable time for one shift. Open shifts earn 0.
// The result is clamped to [0, DailyCapSeconds]; the per-day re-cap after
// summing multiple shifts happens in RollupDays.
func (p WorkdayPolicy) PayableSeconds(s Shift) int64 {
	if s.Open() {
		return 0
	}

	coreStart := p.CoreStart.At(s.Date)
	coreEnd := p.CoreEnd.At(s.Date)

	clipped := overlapSeconds(s.ClockIn.Timestamp, s.ClockOut.Timestamp, coreStart, coreEnd)
	if clipped == 0 {
		return 0
	}

	// Lunch overlap is measured against the clipped interval so a shift
	// straddling core boundaries is not double-deducted.
	in := maxTime(s.ClockIn.Timestamp, coreStart)
	out := minTime(s.ClockOut.Timestamp, coreEnd)
	lunch := overlapSeconds(in, out, p.LunchStart.At(s.Date), p.LunchEnd.At(s.Date))

	payable := clipped - lunch
	if payable < 0 {
		payable = 0
	}
	return p.CapDay(payable)
}

// CapDay clamps a daily total to [0, DailyCapSeconds].
func (p WorkdayPolicy) CapDay(seconds int64) int64 {
	if seconds < 0 {
		return 0
	}
	if seconds > p.DailyCapSeconds {
		return p.DailyCapSeconds
	}
	return seconds
}

// HoursFromSeconds converts payable seconds to decimal hours.
func HoursFromSeconds(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600))
}

// overlapSeconds returns the length of the intersection of [aStart, aEnd)
// and [bStart, bEnd) in whole seconds, 0 when they don't intersect.
func overlapSeconds(aStart, aEnd, bStart, bEnd time.Time) int64 {
	start := maxTime(aStart, bStart)
	end := minTime(aEnd, bEnd)
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
