package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// RESULT - Output shape (field names are relied upon by renderers)
// =============================================================================

// Result is the pay breakdown for one employee and period. Immutable once returned.
type Result struct {
	StandardPay         decimal.Decimal            `json:"standardPay"`
	OvertimePay         decimal.Decimal            `json:"overtimePay"`
	TotalPay            decimal.Decimal            `json:"totalPay"`
	DeductionsBreakdown map[string]decimal.Decimal `json:"deductionsBreakdown"`
	AllowancesBreakdown map[string]decimal.Decimal `json:"allowancesBreakdown"`
	OvertimeDetails     OvertimeDetails            `json:"overtimeDetails"`
	AttendanceStats     AttendanceStats            `json:"attendanceStats"`
	WorkingDays         int                        `json:"workingDays"`
	Notice              string                     `json:"notice,omitempty"`
}

// OvertimeDetails are credited minutes per band.
type OvertimeDetails struct {
	NormalMinutes  int `json:"normalMinutes"`
	WeekendMinutes int `json:"weekendMinutes"`
	HolidayMinutes int `json:"holidayMinutes"`
}

// AttendanceStats are the raw counters from the context.
type AttendanceStats struct {
	LateCount             int                        `json:"lateCount"`
	EarlyDepartureCount   int                        `json:"earlyDepartureCount"`
	MissedPunch           int                        `json:"missedPunch"`
	MissedFullPunch       int                        `json:"missedFullPunch"`
	TotalLatenessMinutes  int                        `json:"totalLatenessMinutes"`
	EarlyDepartureMinutes int                        `json:"earlyDepartureMinutes"`
	NoReasonFullAbsence   int                        `json:"noReasonFullAbsence"`
	NoReasonHalfAbsence   int                        `json:"noReasonHalfAbsence"`
	LeaveDays             map[calendar.LeaveKind]int `json:"leaveDays"`
}

// TotalDeductions sums the deduction breakdown.
func (r Result) TotalDeductions() decimal.Decimal {
	total := decimal.Zero
	for _, v := range r.DeductionsBreakdown {
		total = total.Add(v)
	}
	return total
}
