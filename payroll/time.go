package payroll

import (
	"time"
)

// =============================================================================
// DATE - Calendar date (day granularity, UTC)
// =============================================================================

// Date is a calendar date. All attendance semantics are day-scoped: shifts
// never cross midnight, reconciliation sweeps one date, payroll periods are
// inclusive date ranges.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsWorkday() bool { return !d.IsWeekend() }
func (d Date) IsZero() bool    { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// CLOCK TIME - Time of day, for policy windows and cutoffs
// =============================================================================

// ClockTime is a wall-clock time of day. Policy windows (core hours, lunch)
// and the reconciliation cutoff are ClockTimes anchored to a specific date
// at evaluation time, never read from the system clock inside the engine.
type ClockTime struct {
	Hour   int
	Minute int
}

// At anchors the clock time to a date, producing an absolute timestamp.
func (c ClockTime) At(d Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

func (c ClockTime) String() string {
	return time.Date(0, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format("15:04")
}

// =============================================================================
// PERIOD - Inclusive date range for payroll computation
// =============================================================================

// Period is an inclusive [Start, End] date range. Pay is ALWAYS computed for
// a period, not at a point in time.
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Valid reports whether the period is well-formed.
func (p Period) Valid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && p.Start.BeforeOrEqual(p.End)
}

// Days returns all days in the period.
func (p Period) Days() []Date {
	var days []Date
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// YearToDate returns the window from January 1 of the end date's year through
// the end date. Advance/loan deductions sum approved requests in this window.
func YearToDate(end Date) Period {
	return Period{Start: NewDate(end.Year(), time.January, 1), End: end}
}

// =============================================================================
// CALENDAR UTILITIES
// =============================================================================

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

func EndOfMonth(year int, month time.Month) Date {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}

// WorkingDaysInMonth counts non-weekend days in a calendar month. Salary
// normalization divides the monthly salary by workingDays*8 hours.
func WorkingDaysInMonth(year int, month time.Month) int {
	count := 0
	current := StartOfMonth(year, month)
	end := EndOfMonth(year, month)
	for current.BeforeOrEqual(end) {
		if current.IsWorkday() {
			count++
		}
		current = current.AddDays(1)
	}
	return count
}
