/*
shift.go - Shift reconstruction from the raw event stream

PURPOSE:
  Pairs clock-in/clock-out events per staff per calendar date into Shifts.
  The stream is ambiguous by nature: forgotten clock-outs, double clock-ins,
  multiple shifts per day. Reconstruction must give every day a well-defined
  outcome regardless.

ALGORITHM:
  Explicit two-pass: sort the materialized events by (staff, timestamp),
  then a single linear scan. A clock_in opens a shift. If the next event for
  that staff is a clock_out on the same date, it closes the shift. If the
  next event is another clock_in, the prior shift remains open (no pay).
  A clock_out with no open shift is ignored. Shifts never cross midnight:
  a clock_out on a later date does not close the previous day's shift.

  The two-pass shape is deliberate - it is portable across storage backends
  and does not depend on a relational engine's window-function semantics.

SEE ALSO:
  - policy.go: Converts closed shifts into payable seconds
  - reconcile.go: Closes trailing open shifts with synthetic clock-outs
*/
package payroll

import (
	"sort"
)

// =============================================================================
// SHIFT RECONSTRUCTOR
// =============================================================================

// ReconstructShifts pairs events into shifts. Input may be unordered and may
// span multiple staff; output is ordered by (staff, clock-in time). One Shift
// is produced per clock_in. Unmatched trailing clock-ins yield open shifts.
func ReconstructShifts(events []AttendanceEvent) []Shift {
	sorted := make([]AttendanceEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StaffID != sorted[j].StaffID {
			return sorted[i].StaffID < sorted[j].StaffID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var shifts []Shift
	var open *Shift

	flush := func() {
		if open != nil {
			shifts = append(shifts, *open)
			open = nil
		}
	}

	for i := range sorted {
		e := sorted[i]
		if open != nil && open.StaffID != e.StaffID {
			flush()
		}

		switch e.Type {
		case EventClockIn:
			// A second clock_in abandons the prior open shift (no pay).
			flush()
			open = &Shift{StaffID: e.StaffID, Date: e.Date(), ClockIn: e}

		case EventClockOut:
			if open == nil {
				// Stray clock_out with nothing to close.
				continue
			}
			if !e.Date().Equal(open.Date) || !e.Timestamp.After(open.ClockIn.Timestamp) {
				// Crosses midnight or is not strictly after the clock_in:
				// the open shift stays open, the clock_out is dropped.
				flush()
				continue
			}
			out := e
			open.ClockOut = &out
			flush()
		}
	}
	flush()

	return shifts
}

// =============================================================================
// DAILY ROLLUP - Per-(staff,date) reporting view
// =============================================================================

// DaySummary is the per-staff-per-date reporting rollup: first clock-in,
// last clock-out, total payable seconds, and the provenance of the closing
// event (how the day ended up closed: user, system, or adjusted).
type DaySummary struct {
	StaffID           StaffID
	Date              Date
	FirstClockIn      AttendanceEvent
	LastClockOut      *AttendanceEvent
	Shifts            int
	OpenShifts        int
	PayableSeconds    int64
	ClosingProvenance Provenance // zero value when the day has an open shift and no closes
}

// RollupDays aggregates shifts into per-day summaries under a workday policy.
// Payable seconds are summed per day and re-capped at the daily cap.
// Output is ordered by (staff, date).
func RollupDays(shifts []Shift, policy WorkdayPolicy) []DaySummary {
	type dayKey struct {
		staff StaffID
		date  Date
	}

	byDay := make(map[dayKey]*DaySummary)
	var order []dayKey

	for _, s := range shifts {
		k := dayKey{staff: s.StaffID, date: s.Date}
		summary, ok := byDay[k]
		if !ok {
			summary = &DaySummary{StaffID: s.StaffID, Date: s.Date, FirstClockIn: s.ClockIn}
			byDay[k] = summary
			order = append(order, k)
		}

		summary.Shifts++
		if s.ClockIn.Timestamp.Before(summary.FirstClockIn.Timestamp) {
			summary.FirstClockIn = s.ClockIn
		}
		if s.Open() {
			summary.OpenShifts++
			continue
		}
		if summary.LastClockOut == nil || s.ClockOut.Timestamp.After(summary.LastClockOut.Timestamp) {
			summary.LastClockOut = s.ClockOut
			summary.ClosingProvenance = s.ClockOut.Provenance
		}
		summary.PayableSeconds += policy.PayableSeconds(s)
	}

	result := make([]DaySummary, 0, len(order))
	for _, k := range order {
		summary := byDay[k]
		summary.PayableSeconds = policy.CapDay(summary.PayableSeconds)
		result = append(result, *summary)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StaffID != result[j].StaffID {
			return result[i].StaffID < result[j].StaffID
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result
}
