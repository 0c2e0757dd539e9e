/*
Package payroll holds the per-calculation accumulator and turns it into a pay
breakdown.

PURPOSE:
  One calculation owns exactly one Context. The day loop and the rule program
  write into it; Aggregate reads it once and produces the immutable Result.
  Nothing in this package is shared between calculations.

KEY CONCEPTS IN THIS FILE (salary.go):
  - SalaryInfo: base salary, overtime rate and policy inputs
  - Multipliers: per-band overtime pay multipliers

SEE ALSO:
  - context.go: The accumulator
  - aggregate.go: Context -> Result
  - result.go: Output shape
*/
package payroll

import (
	"errors"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrMissingSalary is the one hard failure: without a base salary no result
// can be produced.
var ErrMissingSalary = errors.New("missing salary configuration: no base salary")

// NoticeMissingAttendance marks a degenerate result for a period with no rows.
const NoticeMissingAttendance = "missing_attendance"

// =============================================================================
// OVERTIME BANDS
// =============================================================================

// Band is an overtime pay band.
type Band string

const (
	BandNormal  Band = "normal"
	BandWeekend Band = "weekend"
	BandHoliday Band = "holiday"
)

// Bands lists the bands in output order.
var Bands = []Band{BandNormal, BandWeekend, BandHoliday}

// Multipliers are the per-band overtime pay multipliers. Zero means unset.
type Multipliers struct {
	Normal  decimal.Decimal
	Weekend decimal.Decimal
	Holiday decimal.Decimal
}

// Effective resolves unset multipliers: a zero band falls back to normal and
// a zero normal falls back to 1.
func (m Multipliers) Effective() Multipliers {
	eff := m
	if !eff.Normal.IsPositive() {
		eff.Normal = decimal.NewFromInt(1)
	}
	if !eff.Weekend.IsPositive() {
		eff.Weekend = eff.Normal
	}
	if !eff.Holiday.IsPositive() {
		eff.Holiday = eff.Normal
	}
	return eff
}

// For returns the multiplier for a band.
func (m Multipliers) For(b Band) decimal.Decimal {
	switch b {
	case BandWeekend:
		return m.Weekend
	case BandHoliday:
		return m.Holiday
	default:
		return m.Normal
	}
}

// =============================================================================
// SALARY INFO
// =============================================================================

// SalaryInfo is the employee's salary configuration for one calculation.
type SalaryInfo struct {
	// BaseSalary is invalid (unset) when the employee has no salary at all.
	BaseSalary      decimal.NullDecimal
	OvertimeRate    decimal.Decimal // per hour
	OvertimeEnabled bool

	// WorkingDays overrides the calendar-derived count when positive.
	WorkingDays int

	// RoundingMinutes is the overtime rounding interval; <= 0 means 1.
	RoundingMinutes int

	Multipliers Multipliers
}

// Validate checks the hard requirements.
func (s SalaryInfo) Validate() error {
	if !s.BaseSalary.Valid {
		return ErrMissingSalary
	}
	return nil
}
