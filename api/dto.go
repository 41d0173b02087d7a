/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

// =============================================================================
// STAFF
// =============================================================================

// StaffDTO represents a staff record with compensation fields.
type StaffDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	HourlyRate       string `json:"hourly_rate"`
	MonthlySalary    string `json:"monthly_salary"`
	Bonus            string `json:"bonus"`
	HousingAllowance string `json:"housing_allowance"`
	MedicalAllowance string `json:"medical_allowance"`
	OtherAllowance   string `json:"other_allowance"`
	SocialSecurity   string `json:"social_security"`
}

// CreateStaffRequest is the request to create or replace a staff record.
type CreateStaffRequest struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	HourlyRate       string `json:"hourly_rate"`
	MonthlySalary    string `json:"monthly_salary"`
	Bonus            string `json:"bonus"`
	HousingAllowance string `json:"housing_allowance"`
	MedicalAllowance string `json:"medical_allowance"`
	OtherAllowance   string `json:"other_allowance"`
	SocialSecurity   string `json:"social_security"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// RecordEventRequest records one clock event.
type RecordEventRequest struct {
	StaffID   string `json:"staff_id"`
	Type      string `json:"type"` // clock_in | clock_out
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
}

// EventDTO represents an attendance event.
type EventDTO struct {
	ID         string `json:"id"`
	StaffID    string `json:"staff_id"`
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	Provenance string `json:"provenance"`
	Note       string `json:"note,omitempty"`
}

// DaySummaryDTO is one per-staff-per-day attendance rollup row.
type DaySummaryDTO struct {
	StaffID           string `json:"staff_id"`
	Date              string `json:"date"`
	FirstClockIn      string `json:"first_clock_in"`
	LastClockOut      string `json:"last_clock_out,omitempty"`
	Shifts            int    `json:"shifts"`
	OpenShifts        int    `json:"open_shifts"`
	PayableSeconds    int64  `json:"payable_seconds"`
	ClosingProvenance string `json:"closing_provenance,omitempty"`
}

// =============================================================================
// PAYROLL
// =============================================================================

// PayrollResultDTO is the ComputePayroll response.
type PayrollResultDTO struct {
	StaffID             string `json:"staff_id"`
	PeriodStart         string `json:"period_start"`
	PeriodEnd           string `json:"period_end"`
	BaseHourlyRate      string `json:"base_hourly_rate"`
	RegularHours        string `json:"regular_hours"`
	NormalOvertimeHours string `json:"normal_overtime_hours"`
	SundayOvertimeHours string `json:"sunday_overtime_hours"`
	RegularPay          string `json:"regular_pay"`
	NormalOvertimePay   string `json:"normal_overtime_pay"`
	SundayOvertimePay   string `json:"sunday_overtime_pay"`
	TotalPay            string `json:"total_pay"`
}

// PayslipDTO is the compiled payslip skeleton.
type PayslipDTO struct {
	StaffID     string            `json:"staff_id"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	Earnings    map[string]string `json:"earnings"`
	Deductions  map[string]string `json:"deductions"`
	Summary     map[string]string `json:"summary"`
}

// =============================================================================
// OVERTIME + FINANCE
// =============================================================================

// SubmitOvertimeRequest submits an overtime claim.
type SubmitOvertimeRequest struct {
	ID          string `json:"id"`
	StaffID     string `json:"staff_id"`
	Date        string `json:"date"`
	HoursWorked string `json:"hours_worked"`
	Type        string `json:"type"` // Normal | Sunday
}

// SubmitFinancialRequest submits an advance/loan claim.
type SubmitFinancialRequest struct {
	ID      string `json:"id"`
	StaffID string `json:"staff_id"`
	Kind    string `json:"kind"` // advance | loan
	Amount  string `json:"amount"`
	Date    string `json:"date"`
}

// =============================================================================
// ADMIN
// =============================================================================

// ReconcileRequest triggers an immediate reconciliation sweep.
type ReconcileRequest struct {
	Date string `json:"date"`
}

// ReconcileResponse reports a sweep.
type ReconcileResponse struct {
	Date       string   `json:"date"`
	Reconciled int      `json:"reconciled"`
	Failures   []string `json:"failures,omitempty"`
}

// AdjustShiftRequest corrects a resolved shift's timestamps.
type AdjustShiftRequest struct {
	ClockInID   string `json:"clock_in_id"`
	ClockOutID  string `json:"clock_out_id"`
	NewClockIn  string `json:"new_clock_in"`
	NewClockOut string `json:"new_clock_out"`
	Reason      string `json:"reason"`
	Actor       string `json:"actor"`
}

// RunDTO is one reconciliation run record.
type RunDTO struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Reconciled int    `json:"reconciled"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
