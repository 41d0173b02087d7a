/*
rate.go - Effective hourly rate resolution

PURPOSE:
  Determines the hourly rate used for regular pay. Hourly staff use their
  stored rate directly. Salaried staff get a normalized rate: the monthly
  salary divided by the month's target hours (non-weekend days x 8), which
  stays stable across the whole month regardless of attendance irregularities.

REFERENCE MONTH:
  For periods spanning two calendar months the normalization month is the
  calendar month of the PERIOD START date. This is a fixed, documented
  policy choice (see DESIGN.md), not an inference.

OVERTIME ANCHOR:
  Overtime pay always uses the STORED hourly rate, never the salary-derived
  rate. This keeps overtime multipliers anchored independent of salary
  normalization.
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE RESOLVER
// =============================================================================

var hoursPerWorkday = decimal.NewFromInt(8)

// EffectiveHourlyRate resolves the rate used for regular pay.
//
// MonthlySalary > 0 takes precedence: rate = salary / (workingDays * 8) for
// the reference date's calendar month. Zero target hours yields rate 0,
// never a division error. Otherwise the stored hourly rate is returned.
func EffectiveHourlyRate(terms CompensationTerms, reference Date) decimal.Decimal {
	if terms.MonthlySalary.IsPositive() {
		workingDays := WorkingDaysInMonth(reference.Year(), reference.Month())
		targetHours := decimal.NewFromInt(int64(workingDays)).Mul(hoursPerWorkday)
		if targetHours.IsZero() {
			return decimal.Zero
		}
		return terms.MonthlySalary.Div(targetHours)
	}
	return terms.HourlyRate
}

// OvertimeAnchorRate returns the rate overtime multipliers apply to: always
// the stored hourly rate.
func OvertimeAnchorRate(terms CompensationTerms) decimal.Decimal {
	return terms.HourlyRate
}
