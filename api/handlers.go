/*
handlers.go - HTTP API handlers for the attendance-to-payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Staff:
    GET    /api/staff                       List staff with compensation
    POST   /api/staff                       Create/replace staff record
    GET    /api/staff/{id}/payroll          Compute payroll for a period
    GET    /api/staff/{id}/payslip          Initial payslip data
    GET    /api/staff/{id}/payslips         Saved payslip history
    POST   /api/staff/{id}/payslips         Save payslip (write-once)

  Attendance:
    POST   /api/events                      Record a clock event
    GET    /api/attendance/summary          Per-day rollups

  Requests:
    POST   /api/overtime                    Submit overtime claim
    POST   /api/overtime/{id}/approve       Approve
    POST   /api/overtime/{id}/reject        Reject
    POST   /api/finance                     Submit advance/loan claim
    POST   /api/finance/{id}/approve        Approve
    POST   /api/finance/{id}/reject         Reject

  Admin:
    POST   /api/admin/reconcile             Run reconciliation sweep now
    GET    /api/admin/reconcile/runs        Recent run records
    POST   /api/admin/adjustments           Manual shift adjustment

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Staff or event not found
  - 409: Conflict (bad adjustment pair, write-once payslip)
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. Authorization is an external collaborator.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Scheduled reconciliation
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *payroll.Engine
	Policy payroll.WorkdayPolicy
}

// NewHandler creates a new handler with the given store and workday policy.
func NewHandler(store *sqlite.Store, policy payroll.WorkdayPolicy) *Handler {
	return &Handler{
		Store:  store,
		Engine: payroll.NewEngine(store, store, store, store, policy),
		Policy: policy,
	}
}

func newEventID() payroll.EventID {
	return payroll.EventID(fmt.Sprintf("evt-%d", time.Now().UnixNano()))
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns all staff records.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Store.ListStaff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}

	dtos := make([]StaffDTO, len(staff))
	for i, st := range staff {
		dtos[i] = toStaffDTO(st)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStaff creates or replaces a staff record with compensation terms.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	st := sqlite.Staff{
		ID:    payroll.StaffID(req.ID),
		Name:  req.Name,
		Email: req.Email,
		Terms: payroll.CompensationTerms{
			StaffID:          payroll.StaffID(req.ID),
			HourlyRate:       parseDecimalField(req.HourlyRate),
			MonthlySalary:    parseDecimalField(req.MonthlySalary),
			Bonus:            parseDecimalField(req.Bonus),
			HousingAllowance: parseDecimalField(req.HousingAllowance),
			MedicalAllowance: parseDecimalField(req.MedicalAllowance),
			OtherAllowance:   parseDecimalField(req.OtherAllowance),
			SocialSecurity:   parseDecimalField(req.SocialSecurity),
		},
	}

	if err := h.Store.SaveStaff(r.Context(), st); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save staff", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(st))
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// RecordEvent records one clock event.
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.StaffID == "" {
		writeError(w, http.StatusBadRequest, "staff_id is required", nil)
		return
	}
	eventType := payroll.EventType(req.Type)
	if eventType != payroll.EventClockIn && eventType != payroll.EventClockOut {
		writeError(w, http.StatusBadRequest, "type must be clock_in or clock_out", nil)
		return
	}
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timestamp (use RFC3339)", err)
		return
	}

	// Reject events for unknown staff up front.
	if _, err := h.Store.GetStaff(r.Context(), payroll.StaffID(req.StaffID)); err != nil {
		writeError(w, http.StatusNotFound, "Staff not found", err)
		return
	}

	event := payroll.AttendanceEvent{
		ID:         newEventID(),
		StaffID:    payroll.StaffID(req.StaffID),
		Type:       eventType,
		Timestamp:  ts.UTC(),
		Provenance: payroll.ProvenanceUser,
		Note:       req.Note,
	}
	if err := h.Store.AppendEvent(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record event", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(event))
}

// AttendanceSummary returns per-day rollups for a date range.
// Query params: start, end (YYYY-MM-DD, required), staff_id (optional).
func (h *Handler) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	staffID := payroll.StaffID(r.URL.Query().Get("staff_id"))

	days, err := h.Engine.AttendanceSummary(r.Context(), staffID, period)
	if err != nil {
		writeDomainError(w, "Failed to compute summary", err)
		return
	}

	dtos := make([]DaySummaryDTO, len(days))
	for i, d := range days {
		dto := DaySummaryDTO{
			StaffID:           string(d.StaffID),
			Date:              d.Date.String(),
			FirstClockIn:      d.FirstClockIn.Timestamp.Format(time.RFC3339),
			Shifts:            d.Shifts,
			OpenShifts:        d.OpenShifts,
			PayableSeconds:    d.PayableSeconds,
			ClosingProvenance: string(d.ClosingProvenance),
		}
		if d.LastClockOut != nil {
			dto.LastClockOut = d.LastClockOut.Timestamp.Format(time.RFC3339)
		}
		dtos[i] = dto
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ComputePayroll computes pay for a staff member over a period.
// Query params: start, end (YYYY-MM-DD, required).
func (h *Handler) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	staffID := payroll.StaffID(chi.URLParam(r, "id"))
	period, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	result, err := h.Engine.ComputePayroll(r.Context(), staffID, period)
	if err != nil {
		writeDomainError(w, "Failed to compute payroll", err)
		return
	}

	writeJSON(w, http.StatusOK, PayrollResultDTO{
		StaffID:             string(result.StaffID),
		PeriodStart:         result.Period.Start.String(),
		PeriodEnd:           result.Period.End.String(),
		BaseHourlyRate:      result.BaseHourlyRate.String(),
		RegularHours:        result.RegularHours.String(),
		NormalOvertimeHours: result.NormalOvertimeHours.String(),
		SundayOvertimeHours: result.SundayOvertimeHours.String(),
		RegularPay:          result.RegularPay.String(),
		NormalOvertimePay:   result.NormalOvertimePay.String(),
		SundayOvertimePay:   result.SundayOvertimePay.String(),
		TotalPay:            result.TotalPay.String(),
	})
}

// InitialPayslip returns the earnings/deductions skeleton for the month
// ending at period_end. Tax policy comes from the caller: tax_percent for
// a flat percentage, tax_amount for a manual figure, neither for zero tax.
func (h *Handler) InitialPayslip(w http.ResponseWriter, r *http.Request) {
	staffID := payroll.StaffID(chi.URLParam(r, "id"))
	periodEnd, err := payroll.ParseDate(r.URL.Query().Get("period_end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period_end (use YYYY-MM-DD)", err)
		return
	}

	tax, err := taxPolicyFromQuery(r.URL.Query().Get("tax_percent"), r.URL.Query().Get("tax_amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tax parameter", err)
		return
	}

	slip, err := h.Engine.InitialPayslipData(r.Context(), staffID, periodEnd, tax)
	if err != nil {
		writeDomainError(w, "Failed to compile payslip", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayslipDTO(slip))
}

// SavePayslip compiles and persists a payslip. Write-once per staff+period.
func (h *Handler) SavePayslip(w http.ResponseWriter, r *http.Request) {
	staffID := payroll.StaffID(chi.URLParam(r, "id"))
	periodEnd, err := payroll.ParseDate(r.URL.Query().Get("period_end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period_end (use YYYY-MM-DD)", err)
		return
	}
	tax, err := taxPolicyFromQuery(r.URL.Query().Get("tax_percent"), r.URL.Query().Get("tax_amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tax parameter", err)
		return
	}

	slip, err := h.Engine.InitialPayslipData(r.Context(), staffID, periodEnd, tax)
	if err != nil {
		writeDomainError(w, "Failed to compile payslip", err)
		return
	}
	if err := h.Store.SavePayslip(r.Context(), slip); err != nil {
		writeDomainError(w, "Failed to save payslip", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayslipDTO(slip))
}

// ListPayslips returns saved payslip history for a staff member.
func (h *Handler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	staffID := payroll.StaffID(chi.URLParam(r, "id"))
	slips, err := h.Store.ListPayslips(r.Context(), staffID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payslips", err)
		return
	}
	dtos := make([]PayslipDTO, len(slips))
	for i, p := range slips {
		dtos[i] = toPayslipDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// OVERTIME + FINANCE HANDLERS
// =============================================================================

// SubmitOvertime records a pending overtime request.
func (h *Handler) SubmitOvertime(w http.ResponseWriter, r *http.Request) {
	var req SubmitOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	otType := payroll.OvertimeType(req.Type)
	if otType != payroll.OvertimeNormal && otType != payroll.OvertimeSunday {
		writeError(w, http.StatusBadRequest, "type must be Normal or Sunday", nil)
		return
	}

	request := payroll.OvertimeRequest{
		ID:          payroll.RequestID(req.ID),
		StaffID:     payroll.StaffID(req.StaffID),
		Date:        date,
		HoursWorked: parseDecimalField(req.HoursWorked),
		Type:        otType,
		Status:      payroll.StatusPending,
	}
	if err := h.Store.SaveOvertimeRequest(r.Context(), request); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save request", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     string(request.ID),
		"status": string(request.Status),
	})
}

// ApproveOvertime marks a request approved.
func (h *Handler) ApproveOvertime(w http.ResponseWriter, r *http.Request) {
	h.setOvertimeStatus(w, r, payroll.StatusApproved)
}

// RejectOvertime marks a request rejected.
func (h *Handler) RejectOvertime(w http.ResponseWriter, r *http.Request) {
	h.setOvertimeStatus(w, r, payroll.StatusRejected)
}

func (h *Handler) setOvertimeStatus(w http.ResponseWriter, r *http.Request, status payroll.ApprovalStatus) {
	id := payroll.RequestID(chi.URLParam(r, "id"))
	if err := h.Store.SetOvertimeStatus(r.Context(), id, status); err != nil {
		writeDomainError(w, "Failed to update request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": string(id), "status": string(status)})
}

// SubmitFinancial records a pending advance/loan request.
func (h *Handler) SubmitFinancial(w http.ResponseWriter, r *http.Request) {
	var req SubmitFinancialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	kind := payroll.FinancialKind(req.Kind)
	if kind != payroll.KindAdvance && kind != payroll.KindLoan {
		writeError(w, http.StatusBadRequest, "kind must be advance or loan", nil)
		return
	}

	request := payroll.FinancialRequest{
		ID:      payroll.RequestID(req.ID),
		StaffID: payroll.StaffID(req.StaffID),
		Kind:    kind,
		Amount:  parseDecimalField(req.Amount),
		Date:    date,
		Status:  payroll.StatusPending,
	}
	if err := h.Store.SaveFinancialRequest(r.Context(), request); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save request", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     string(request.ID),
		"status": string(request.Status),
	})
}

// ApproveFinancial marks a request approved.
func (h *Handler) ApproveFinancial(w http.ResponseWriter, r *http.Request) {
	h.setFinancialStatus(w, r, payroll.StatusApproved)
}

// RejectFinancial marks a request rejected.
func (h *Handler) RejectFinancial(w http.ResponseWriter, r *http.Request) {
	h.setFinancialStatus(w, r, payroll.StatusRejected)
}

func (h *Handler) setFinancialStatus(w http.ResponseWriter, r *http.Request, status payroll.ApprovalStatus) {
	id := payroll.RequestID(chi.URLParam(r, "id"))
	if err := h.Store.SetFinancialStatus(r.Context(), id, status); err != nil {
		writeDomainError(w, "Failed to update request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": string(id), "status": string(status)})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// RunReconciliation sweeps one date immediately and records a run.
func (h *Handler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	reconciler := &payroll.Reconciler{
		Events:     h.Store,
		Policy:     h.Policy,
		NewEventID: newEventID,
	}

	started := time.Now().UTC()
	result, err := reconciler.Reconcile(r.Context(), date)
	if err != nil {
		writeDomainError(w, "Reconciliation failed", err)
		return
	}

	run := payroll.ReconciliationRun{
		ID:         fmt.Sprintf("run-%d", started.UnixNano()),
		Date:       date,
		Reconciled: result.Reconciled,
		Failed:     len(result.Failures),
		StartedAt:  started.Format(time.RFC3339),
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if len(result.Failures) > 0 {
		run.Error = result.Failures[0].Err.Error()
	}
	if err := h.Store.SaveRun(r.Context(), run); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record run", err)
		return
	}

	resp := ReconcileResponse{Date: date.String(), Reconciled: result.Reconciled}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, fmt.Sprintf("%s: %v", f.StaffID, f.Err))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListReconciliationRuns returns recent run records.
func (h *Handler) ListReconciliationRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = RunDTO{
			ID:         run.ID,
			Date:       run.Date.String(),
			Reconciled: run.Reconciled,
			Failed:     run.Failed,
			Error:      run.Error,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AdjustShift corrects a resolved shift's timestamps with an audit note.
func (h *Handler) AdjustShift(w http.ResponseWriter, r *http.Request) {
	var req AdjustShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	newIn, err := time.Parse(time.RFC3339, req.NewClockIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid new_clock_in (use RFC3339)", err)
		return
	}
	newOut, err := time.Parse(time.RFC3339, req.NewClockOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid new_clock_out (use RFC3339)", err)
		return
	}

	adjuster := &payroll.Adjuster{Events: h.Store}
	err = adjuster.AdjustShift(r.Context(), payroll.Adjustment{
		ClockInID:   payroll.EventID(req.ClockInID),
		ClockOutID:  payroll.EventID(req.ClockOutID),
		NewClockIn:  newIn.UTC(),
		NewClockOut: newOut.UTC(),
		Reason:      req.Reason,
		Actor:       req.Actor,
		AdjustedAt:  payroll.DateOf(time.Now().UTC()),
	})
	if err != nil {
		writeDomainError(w, "Adjustment rejected", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "adjusted"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parsePeriod(start, end string) (payroll.Period, error) {
	s, err := payroll.ParseDate(start)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("start: %w", err)
	}
	e, err := payroll.ParseDate(end)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("end: %w", err)
	}
	return payroll.Period{Start: s, End: e}, nil
}

func parseDecimalField(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func taxPolicyFromQuery(percent, amount string) (payroll.TaxPolicy, error) {
	switch {
	case percent != "":
		p, err := decimal.NewFromString(percent)
		if err != nil {
			return nil, fmt.Errorf("tax_percent: %w", err)
		}
		return payroll.FlatRateTax{Percent: p}, nil
	case amount != "":
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("tax_amount: %w", err)
		}
		return payroll.ManualTax{Amount: a}, nil
	default:
		return payroll.NoTax{}, nil
	}
}

func toStaffDTO(st sqlite.Staff) StaffDTO {
	return StaffDTO{
		ID:               string(st.ID),
		Name:             st.Name,
		Email:            st.Email,
		HourlyRate:       st.Terms.HourlyRate.String(),
		MonthlySalary:    st.Terms.MonthlySalary.String(),
		Bonus:            st.Terms.Bonus.String(),
		HousingAllowance: st.Terms.HousingAllowance.String(),
		MedicalAllowance: st.Terms.MedicalAllowance.String(),
		OtherAllowance:   st.Terms.OtherAllowance.String(),
		SocialSecurity:   st.Terms.SocialSecurity.String(),
	}
}

func toEventDTO(e payroll.AttendanceEvent) EventDTO {
	return EventDTO{
		ID:         string(e.ID),
		StaffID:    string(e.StaffID),
		Type:       string(e.Type),
		Timestamp:  e.Timestamp.Format(time.RFC3339),
		Provenance: string(e.Provenance),
		Note:       e.Note,
	}
}

func toPayslipDTO(p payroll.Payslip) PayslipDTO {
	return PayslipDTO{
		StaffID:     string(p.StaffID),
		PeriodStart: p.Period.Start.String(),
		PeriodEnd:   p.Period.End.String(),
		Earnings: map[string]string{
			"basic":               p.Earnings.Basic.String(),
			"normal_overtime_pay": p.Earnings.NormalOvertimePay.String(),
			"sunday_overtime_pay": p.Earnings.SundayOvertimePay.String(),
			"bonus":               p.Earnings.Bonus.String(),
			"housing_allowance":   p.Earnings.HousingAllowance.String(),
			"medical_allowance":   p.Earnings.MedicalAllowance.String(),
			"other_allowance":     p.Earnings.OtherAllowance.String(),
		},
		Deductions: map[string]string{
			"advance":         p.Deductions.Advance.String(),
			"loan":            p.Deductions.Loan.String(),
			"social_security": p.Deductions.SocialSecurity.String(),
			"tax":             p.Deductions.Tax.String(),
		},
		Summary: map[string]string{
			"total_earnings":   p.Summary.TotalEarnings.String(),
			"total_deductions": p.Summary.TotalDeductions.String(),
			"gross_income":     p.Summary.GrossIncome.String(),
			"net_income":       p.Summary.NetIncome.String(),
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case payroll.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case payroll.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case payroll.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
