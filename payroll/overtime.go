/*
overtime.go - Overtime aggregation

PURPOSE:
  Sums approved overtime hours by type within a period and prices them.
  Pay = normalHours x rate x 1.5 + sundayHours x rate x 2.0 (multipliers
  from the workday policy, rate is always the stored hourly rate).

HARD INVARIANT:
  Pending and rejected requests contribute 0 unconditionally, regardless of
  hoursWorked. The store contract already filters to approved rows; the
  aggregator re-checks status as defense against a misbehaving store.
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// OVERTIME AGGREGATOR
// =============================================================================

// OvertimeTotals holds summed approved hours by type.
type OvertimeTotals struct {
	NormalHours decimal.Decimal
	SundayHours decimal.Decimal
}

// AggregateOvertime sums approved request hours by type. Requests whose
// status is not approved are skipped.
func AggregateOvertime(requests []OvertimeRequest) OvertimeTotals {
	totals := OvertimeTotals{
		NormalHours: decimal.Zero,
		SundayHours: decimal.Zero,
	}
	for _, r := range requests {
		if r.Status != StatusApproved {
			continue
		}
		switch r.Type {
		case OvertimeSunday:
			totals.SundayHours = totals.SundayHours.Add(r.HoursWorked)
		default:
			totals.NormalHours = totals.NormalHours.Add(r.HoursWorked)
		}
	}
	return totals
}

// OvertimePay prices the totals against the anchor rate and the policy
// multipliers. Returns (normalPay, sundayPay).
func (t OvertimeTotals) OvertimePay(anchorRate decimal.Decimal, policy WorkdayPolicy) (decimal.Decimal, decimal.Decimal) {
	normal := t.NormalHours.Mul(anchorRate).Mul(policy.NormalOvertimeMultiplier)
	sunday := t.SundayHours.Mul(anchorRate).Mul(policy.SundayOvertimeMultiplier)
	return normal, sunday
}
