package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/calendar"
)

// MoneyPlaces is the number of decimal places money is rounded to in a Result.
const MoneyPlaces = 2

var minutesPerHour = decimal.NewFromInt(60)

// LeaveDeductionName is the breakdown key for a leave kind's cost.
func LeaveDeductionName(kind calendar.LeaveKind) string {
	return "leave_" + string(kind)
}

// =============================================================================
// AGGREGATE
// =============================================================================

// Aggregate turns a finished context into the result. The context is not
// modified.
func Aggregate(ctx *Context) Result {
	deductions := roundedBreakdown(ctx.Deductions)
	for kind, amount := range LeaveDeductions(ctx) {
		name := LeaveDeductionName(kind)
		deductions[name] = deductions[name].Add(amount.Round(MoneyPlaces))
	}
	allowances := roundedBreakdown(ctx.Allowances)

	standard := ctx.BaseSalary.Add(sum(allowances)).Sub(sum(deductions))
	standard = clampZero(standard).Round(MoneyPlaces)

	overtime := clampZero(OvertimePay(ctx)).Round(MoneyPlaces)

	return Result{
		StandardPay:         standard,
		OvertimePay:         overtime,
		TotalPay:            standard.Add(overtime),
		DeductionsBreakdown: deductions,
		AllowancesBreakdown: allowances,
		OvertimeDetails: OvertimeDetails{
			NormalMinutes:  ctx.BandMinutes(BandNormal),
			WeekendMinutes: ctx.BandMinutes(BandWeekend),
			HolidayMinutes: ctx.BandMinutes(BandHoliday),
		},
		AttendanceStats: stats(ctx),
		WorkingDays:     ctx.WorkingDays,
		Notice:          ctx.Notice,
	}
}

// Degenerate is the result for a period with nothing to evaluate: the base
// salary is paid as is and the notice explains why.
func Degenerate(ctx *Context, notice string) Result {
	standard := clampZero(ctx.BaseSalary).Round(MoneyPlaces)
	return Result{
		StandardPay:         standard,
		OvertimePay:         decimal.Zero,
		TotalPay:            standard,
		DeductionsBreakdown: map[string]decimal.Decimal{},
		AllowancesBreakdown: map[string]decimal.Decimal{},
		AttendanceStats:     AttendanceStats{LeaveDays: map[calendar.LeaveKind]int{}},
		WorkingDays:         ctx.WorkingDays,
		Notice:              notice,
	}
}

// LeaveDeductions computes, per leave kind with a configured cost,
// n x rate x dailyRate + n x flat.
func LeaveDeductions(ctx *Context) map[calendar.LeaveKind]decimal.Decimal {
	out := make(map[calendar.LeaveKind]decimal.Decimal)
	daily := ctx.DailyRate()
	for kind, cost := range ctx.LeaveCosts {
		n := ctx.LeaveReductions[kind]
		if n <= 0 {
			continue
		}
		days := decimal.NewFromInt(int64(n))
		amount := days.Mul(cost.Rate).Mul(daily).Add(days.Mul(cost.Flat))
		if amount.IsPositive() {
			out[kind] = amount
		}
	}
	return out
}

// OvertimePay sums band minutes / 60 x rate x effective multiplier. It is
// zero when overtime is disabled.
func OvertimePay(ctx *Context) decimal.Decimal {
	if !ctx.OvertimeEnabled {
		return decimal.Zero
	}
	mult := ctx.Multipliers.Effective()
	total := decimal.Zero
	for _, band := range Bands {
		minutes := ctx.BandMinutes(band)
		if minutes <= 0 {
			continue
		}
		hours := decimal.NewFromInt(int64(minutes)).Div(minutesPerHour)
		total = total.Add(hours.Mul(ctx.OvertimeRate).Mul(mult.For(band)))
	}
	return total
}

// =============================================================================
// HELPERS
// =============================================================================

func stats(ctx *Context) AttendanceStats {
	leaveDays := make(map[calendar.LeaveKind]int, len(ctx.LeaveDays))
	for k, v := range ctx.LeaveDays {
		leaveDays[k] = v
	}
	m := ctx.Missed
	return AttendanceStats{
		LateCount:             ctx.LateCount(),
		EarlyDepartureCount:   ctx.EarlyCount(),
		MissedPunch:           m.NoReasonHalf + m.NoReasonFull,
		MissedFullPunch:       m.DocumentedFull,
		TotalLatenessMinutes:  ctx.LatenessMinutes(),
		EarlyDepartureMinutes: ctx.EarlyMinutes(),
		NoReasonFullAbsence:   m.NoReasonFull,
		NoReasonHalfAbsence:   m.NoReasonHalf,
		LeaveDays:             leaveDays,
	}
}

func roundedBreakdown(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for name, v := range in {
		r := v.Round(MoneyPlaces)
		if r.IsPositive() {
			out[name] = r
		}
	}
	return out
}

func sum(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
