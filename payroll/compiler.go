/*
compiler.go - Payroll compilation

PURPOSE:
  Combines shift reconstruction, the payable-time policy, rate resolution,
  overtime aggregation, and financial deductions into payroll results and
  payslips. This is the top of the computation pipeline:

    Event Store -> Shift Reconstructor -> Payable-Time Policy
      (+ Rate Resolver + Overtime Aggregator) -> Payroll Compiler -> Payslip

  Computation is synchronous and sequential per request over an
  already-fetched, bounded event list. Nothing is cached across requests,
  so correctness is independent of request ordering.

TAX:
  Tax policy is explicitly caller-supplied via the TaxPolicy interface.
  FlatRateTax applies a percentage of total earnings; ManualTax carries a
  figure entered elsewhere; NoTax is the explicit zero policy.

SEE ALSO:
  - shift.go, policy.go, rate.go, overtime.go: The pipeline stages
  - store.go: The record store surface consumed here
*/
package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX POLICY - Caller-supplied
// =============================================================================

// TaxPolicy computes the tax deduction for a payslip's total earnings.
type TaxPolicy interface {
	Tax(totalEarnings decimal.Decimal) decimal.Decimal
}

// FlatRateTax deducts a flat percentage of total earnings.
type FlatRateTax struct {
	Percent decimal.Decimal
}

func (t FlatRateTax) Tax(totalEarnings decimal.Decimal) decimal.Decimal {
	return totalEarnings.Mul(t.Percent).Div(decimal.NewFromInt(100))
}

// ManualTax carries a manually supplied tax figure.
type ManualTax struct {
	Amount decimal.Decimal
}

func (t ManualTax) Tax(decimal.Decimal) decimal.Decimal { return t.Amount }

// NoTax is the explicit zero-tax policy.
type NoTax struct{}

func (NoTax) Tax(decimal.Decimal) decimal.Decimal { return decimal.Zero }

// =============================================================================
// ENGINE - The payroll compiler
// =============================================================================

// Engine computes payroll over the record store. All policy windows are
// injected; the engine holds no mutable state.
type Engine struct {
	Events       EventStore
	Compensation CompensationStore
	Overtime     OvertimeStore
	Finance      FinanceStore
	Policy       WorkdayPolicy
}

func NewEngine(events EventStore, comp CompensationStore, overtime OvertimeStore, finance FinanceStore, policy WorkdayPolicy) *Engine {
	return &Engine{
		Events:       events,
		Compensation: comp,
		Overtime:     overtime,
		Finance:      finance,
		Policy:       policy,
	}
}

// ComputePayroll computes pay for one staff member over an inclusive period.
// No events in the period yields explicit zeros, never an error.
func (e *Engine) ComputePayroll(ctx context.Context, staffID StaffID, period Period) (PayrollResult, error) {
	if staffID == "" {
		return PayrollResult{}, ErrMissingStaffID
	}
	if !period.Valid() {
		return PayrollResult{}, &PeriodError{Period: period}
	}

	terms, err := e.Compensation.GetCompensationTerms(ctx, staffID)
	if err != nil {
		return PayrollResult{}, err
	}

	regularHours, err := e.regularHours(ctx, staffID, period)
	if err != nil {
		return PayrollResult{}, err
	}

	// Reference month for salary normalization: the period start's month.
	rate := EffectiveHourlyRate(terms, period.Start)
	regularPay := regularHours.Mul(rate)

	requests, err := e.Overtime.ListApprovedOvertime(ctx, staffID, period)
	if err != nil {
		return PayrollResult{}, err
	}
	totals := AggregateOvertime(requests)
	normalPay, sundayPay := totals.OvertimePay(OvertimeAnchorRate(terms), e.Policy)

	return PayrollResult{
		StaffID:             staffID,
		Period:              period,
		BaseHourlyRate:      rate,
		RegularHours:        regularHours,
		NormalOvertimeHours: totals.NormalHours,
		SundayOvertimeHours: totals.SundayHours,
		RegularPay:          regularPay,
		NormalOvertimePay:   normalPay,
		SundayOvertimePay:   sundayPay,
		TotalPay:            regularPay.Add(normalPay).Add(sundayPay),
	}, nil
}

// regularHours reconstructs shifts in the period and sums capped daily
// payable time into decimal hours.
func (e *Engine) regularHours(ctx context.Context, staffID StaffID, period Period) (decimal.Decimal, error) {
	events, err := e.Events.ListEvents(ctx, staffID, period)
	if err != nil {
		return decimal.Zero, err
	}

	var totalSeconds int64
	for _, day := range RollupDays(ReconstructShifts(events), e.Policy) {
		totalSeconds += day.PayableSeconds
	}
	return HoursFromSeconds(totalSeconds), nil
}

// AttendanceSummary returns per-day rollups for a period. Empty staffID
// covers all staff with events in range.
func (e *Engine) AttendanceSummary(ctx context.Context, staffID StaffID, period Period) ([]DaySummary, error) {
	if !period.Valid() {
		return nil, &PeriodError{Period: period}
	}
	events, err := e.Events.ListEvents(ctx, staffID, period)
	if err != nil {
		return nil, err
	}
	return RollupDays(ReconstructShifts(events), e.Policy), nil
}

// InitialPayslipData compiles the earnings/deductions skeleton for the
// month ending at periodEnd. Advance and loan deductions sum approved
// requests year-to-date through periodEnd.
func (e *Engine) InitialPayslipData(ctx context.Context, staffID StaffID, periodEnd Date, tax TaxPolicy) (Payslip, error) {
	if staffID == "" {
		return Payslip{}, ErrMissingStaffID
	}
	if periodEnd.IsZero() {
		return Payslip{}, &PeriodError{}
	}
	if tax == nil {
		tax = NoTax{}
	}

	period := Period{Start: StartOfMonth(periodEnd.Year(), periodEnd.Month()), End: periodEnd}

	result, err := e.ComputePayroll(ctx, staffID, period)
	if err != nil {
		return Payslip{}, err
	}

	terms, err := e.Compensation.GetCompensationTerms(ctx, staffID)
	if err != nil {
		return Payslip{}, err
	}

	ytd := YearToDate(periodEnd)
	advance, err := e.Finance.SumApprovedFinancialRequests(ctx, staffID, KindAdvance, ytd)
	if err != nil {
		return Payslip{}, fmt.Errorf("summing advances: %w", err)
	}
	loan, err := e.Finance.SumApprovedFinancialRequests(ctx, staffID, KindLoan, ytd)
	if err != nil {
		return Payslip{}, fmt.Errorf("summing loans: %w", err)
	}

	slip := Payslip{
		StaffID: staffID,
		Period:  period,
		Earnings: Earnings{
			Basic:             result.RegularPay,
			NormalOvertimePay: result.NormalOvertimePay,
			SundayOvertimePay: result.SundayOvertimePay,
			Bonus:             terms.Bonus,
			HousingAllowance:  terms.HousingAllowance,
			MedicalAllowance:  terms.MedicalAllowance,
			OtherAllowance:    terms.OtherAllowance,
		},
		Deductions: Deductions{
			Advance:        advance,
			Loan:           loan,
			SocialSecurity: terms.SocialSecurity,
		},
	}
	slip.Deductions.Tax = tax.Tax(slip.Earnings.Total())
	slip.Summarize()
	return slip, nil
}
