/*
Package payroll provides the attendance-to-payroll computation engine.

PURPOSE:
  This package contains the domain types and algorithms for turning a raw
  clock-in/clock-out event stream plus compensation terms and approved
  overtime into exact pay for arbitrary date ranges. It handles the messy
  reality of attendance data: forgotten clock-outs, multiple shifts per
  day, and month-boundary salary normalization.

KEY CONCEPTS IN THIS FILE (types.go):
  - AttendanceEvent: A timestamped clock_in/clock_out with provenance
  - Shift: A reconstructed in/out pair for one staff member on one date
  - CompensationTerms: Per-staff pay configuration (rate or salary)
  - OvertimeRequest: Approved overtime hours by type
  - Payslip: The compiled earnings/deductions document

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all money and hour arithmetic
  2. Determinism: Every policy window and cutoff is injected configuration
  3. Type Safety: Strong typing for IDs prevents mixing staff/event IDs
  4. Auditability: Every event carries provenance (user/system/adjusted)

SEE ALSO:
  - shift.go: Shift reconstruction from the event stream
  - policy.go: Payable-time rules (core hours, lunch, daily cap)
  - compiler.go: Payslip compilation
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StaffID string
type EventID string
type RequestID string

// =============================================================================
// ATTENDANCE EVENT - Raw clock stream
// =============================================================================

type EventType string

const (
	EventClockIn  EventType = "clock_in"
	EventClockOut EventType = "clock_out"
)

// Provenance records how an event entered the stream.
type Provenance string

const (
	ProvenanceUser     Provenance = "user"     // Recorded by the staff member
	ProvenanceSystem   Provenance = "system"   // Synthesized by auto-reconciliation
	ProvenanceAdjusted Provenance = "adjusted" // Overwritten via the adjustment gateway
)

// AttendanceEvent is one entry in the clock stream. Events are immutable
// except through the adjustment gateway, which overwrites timestamp,
// provenance and note in place. Duplicates are tolerated, not deduplicated.
type AttendanceEvent struct {
	ID         EventID
	StaffID    StaffID
	Type       EventType
	Timestamp  time.Time
	Provenance Provenance
	Note       string
}

// Date returns the calendar date the event belongs to.
func (e AttendanceEvent) Date() Date { return DateOf(e.Timestamp) }

// =============================================================================
// SHIFT - Derived, never stored
// =============================================================================

// Shift is a reconstructed clock-in/clock-out pair for one staff member on
// one calendar date. Shifts never cross midnight.
//
// Invariant: when ClockOut is present, ClockIn.Timestamp < ClockOut.Timestamp.
type Shift struct {
	StaffID  StaffID
	Date     Date
	ClockIn  AttendanceEvent
	ClockOut *AttendanceEvent
}

// Open reports whether the shift is missing its clock-out. Open shifts earn
// no pay until closed by reconciliation or manual adjustment.
func (s Shift) Open() bool { return s.ClockOut == nil }

// =============================================================================
// COMPENSATION TERMS - Per-staff pay configuration
// =============================================================================

// CompensationTerms holds the pay configuration stored on the staff record.
// MonthlySalary > 0 takes precedence over HourlyRate for regular pay.
type CompensationTerms struct {
	StaffID          StaffID
	HourlyRate       decimal.Decimal
	MonthlySalary    decimal.Decimal
	Bonus            decimal.Decimal
	HousingAllowance decimal.Decimal
	MedicalAllowance decimal.Decimal
	OtherAllowance   decimal.Decimal
	SocialSecurity   decimal.Decimal
}

// =============================================================================
// OVERTIME
// =============================================================================

type OvertimeType string

const (
	OvertimeNormal OvertimeType = "Normal"
	OvertimeSunday OvertimeType = "Sunday"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// OvertimeRequest is a claim for overtime hours on a date. Only approved
// requests ever contribute to pay.
type OvertimeRequest struct {
	ID          RequestID
	StaffID     StaffID
	Date        Date
	HoursWorked decimal.Decimal
	Type        OvertimeType
	Status      ApprovalStatus
}

// =============================================================================
// FINANCIAL REQUESTS - Advances and loans deducted from pay
// =============================================================================

type FinancialKind string

const (
	KindAdvance FinancialKind = "advance"
	KindLoan    FinancialKind = "loan"
)

type FinancialRequest struct {
	ID      RequestID
	StaffID StaffID
	Kind    FinancialKind
	Amount  decimal.Decimal
	Date    Date
	Status  ApprovalStatus
}

// =============================================================================
// PAYROLL RESULT - Output of ComputePayroll
// =============================================================================

// PayrollResult summarizes pay for one staff member over one period.
type PayrollResult struct {
	StaffID             StaffID
	Period              Period
	BaseHourlyRate      decimal.Decimal // effective rate used for regular pay
	RegularHours        decimal.Decimal
	NormalOvertimeHours decimal.Decimal
	SundayOvertimeHours decimal.Decimal
	RegularPay          decimal.Decimal
	NormalOvertimePay   decimal.Decimal
	SundayOvertimePay   decimal.Decimal
	TotalPay            decimal.Decimal
}

// =============================================================================
// PAYSLIP - Compiled earnings/deductions document
// =============================================================================

type Earnings struct {
	Basic             decimal.Decimal
	NormalOvertimePay decimal.Decimal
	SundayOvertimePay decimal.Decimal
	Bonus             decimal.Decimal
	HousingAllowance  decimal.Decimal
	MedicalAllowance  decimal.Decimal
	OtherAllowance    decimal.Decimal
}

func (e Earnings) Total() decimal.Decimal {
	return e.Basic.
		Add(e.NormalOvertimePay).
		Add(e.SundayOvertimePay).
		Add(e.Bonus).
		Add(e.HousingAllowance).
		Add(e.MedicalAllowance).
		Add(e.OtherAllowance)
}

type Deductions struct {
	Advance        decimal.Decimal
	Loan           decimal.Decimal
	SocialSecurity decimal.Decimal
	Tax            decimal.Decimal
}

func (d Deductions) Total() decimal.Decimal {
	return d.Advance.Add(d.Loan).Add(d.SocialSecurity).Add(d.Tax)
}

type PayslipSummary struct {
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	GrossIncome     decimal.Decimal
	NetIncome       decimal.Decimal
}

// Payslip is computed on demand and immutable once explicitly saved to history.
type Payslip struct {
	StaffID    StaffID
	Period     Period
	Earnings   Earnings
	Deductions Deductions
	Summary    PayslipSummary
}

// Summarize fills the summary block from the earnings and deductions.
func (p *Payslip) Summarize() {
	earnings := p.Earnings.Total()
	deductions := p.Deductions.Total()
	p.Summary = PayslipSummary{
		TotalEarnings:   earnings,
		TotalDeductions: deductions,
		GrossIncome:     earnings,
		NetIncome:       earnings.Sub(deductions),
	}
}
