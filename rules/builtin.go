package rules

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// BUILT-IN RULE IDS
// =============================================================================

const (
	LateGrace           ID = 1
	EarlyGrace          ID = 2
	OvertimeMinimum     ID = 3
	OvertimeDailyCap    ID = 4
	OvertimeLateOffset  ID = 5
	RestDayReplacement  ID = 6
	LatePerIncident     ID = 7
	LatePerMinute       ID = 8
	LateAfterFreeCount  ID = 9
	LateProgressive     ID = 10
	LateTiered          ID = 11
	EarlyPerIncident    ID = 12
	EarlyPerMinute      ID = 13
	MissedPunchPenalty  ID = 14
	AbsencePenalty      ID = 15
	LateCountToAbsence  ID = 16
	AbsenceSalary       ID = 17
	DocumentedAbsence   ID = 18
	SickLeaveCost       ID = 19
	OtherLeaveCost      ID = 20
	FullAttendanceBonus ID = 21
)

// Names double as deduction and allowance breakdown keys.
const (
	NameLateGrace         = "late_grace_minutes"
	NameEarlyGrace        = "early_leave_grace_minutes"
	NameOvertimeMinimum   = "overtime_minimum_minutes"
	NameOvertimeCap       = "overtime_daily_cap_minutes"
	NameOvertimeOffset    = "overtime_lateness_offset"
	NameRestDayReplace    = "rest_day_replacement"
	NameLatePerIncident   = "late_penalty_per_incident"
	NameLatePerMinute     = "late_penalty_per_minute"
	NameLateAfterFree     = "late_penalty_after_free_count"
	NameLateProgressive   = "late_penalty_progressive"
	NameLateTiered        = "late_penalty_tiered"
	NameEarlyPerIncident  = "early_leave_penalty_per_incident"
	NameEarlyPerMinute    = "early_leave_penalty_per_minute"
	NameMissedPunch       = "missed_punch_penalty_per_incident"
	NameAbsencePenalty    = "absence_penalty_per_day"
	NameLateToAbsence     = "late_count_to_absence"
	NameAbsenceSalary     = "absence_salary_deduction"
	NameDocumentedAbsence = "documented_absence_deduction"
	NameSickLeaveCost     = "sick_leave_cost"
	NameOtherLeaveCost    = "other_leave_cost"
	NameFullAttendance    = "full_attendance_bonus"
)

var (
	one     = decimal.NewFromInt(1)
	oneHalf = decimal.NewFromFloat(0.5)
)

// =============================================================================
// DECODERS
// =============================================================================

func builtins() []Definition {
	return []Definition{
		{LateGrace, NameLateGrace, PhaseAdjust, minutesParam(func(m int) Policy { return graceLate{m} })},
		{EarlyGrace, NameEarlyGrace, PhaseAdjust, minutesParam(func(m int) Policy { return graceEarly{m} })},
		{OvertimeMinimum, NameOvertimeMinimum, PhaseAdjust, minutesParam(func(m int) Policy { return overtimeMinimum{m} })},
		{OvertimeDailyCap, NameOvertimeCap, PhaseAdjust, decodeOvertimeCap},
		{OvertimeLateOffset, NameOvertimeOffset, PhaseAdjust, func(Params) (Policy, error) { return latenessOffset{}, nil }},
		{RestDayReplacement, NameRestDayReplace, PhaseAdjust, decodeRestDayReplacement},

		{LatePerIncident, NameLatePerIncident, PhaseCharge, amountParam(func(a decimal.Decimal) Policy { return latePerIncident{a} })},
		{LatePerMinute, NameLatePerMinute, PhaseCharge, amountParam(func(a decimal.Decimal) Policy { return latePerMinute{a} })},
		{LateAfterFreeCount, NameLateAfterFree, PhaseCharge, decodeLateAfterFree},
		{LateProgressive, NameLateProgressive, PhaseCharge, amountParam(func(a decimal.Decimal) Policy { return lateProgressive{a} })},
		{LateTiered, NameLateTiered, PhaseCharge, decodeLateTiered},
		{EarlyPerIncident, NameEarlyPerIncident, PhaseCharge, amountParam(func(a decimal.Decimal) Policy { return earlyPerIncident{a} })},
		{EarlyPerMinute, NameEarlyPerMinute, PhaseCharge, amountParam(func(a decimal.Decimal) Policy { return earlyPerMinute{a} })},
		{MissedPunchPenalty, NameMissedPunch, PhaseCharge, amountParam(func(a decimal.Decimal) Policy { return missedPunchPenalty{a} })},
		{AbsencePenalty, NameAbsencePenalty, PhaseCharge, amountParam(func(a decimal.Decimal) Policy { return absencePenalty{a} })},
		{LateCountToAbsence, NameLateToAbsence, PhaseCharge, decodeLateToAbsence},
		{AbsenceSalary, NameAbsenceSalary, PhaseCharge, decodeAbsenceSalary},
		{DocumentedAbsence, NameDocumentedAbsence, PhaseCharge, decodeDocumentedAbsence},
		{SickLeaveCost, NameSickLeaveCost, PhaseCharge, leaveCostParam(calendar.LeaveSick)},
		{OtherLeaveCost, NameOtherLeaveCost, PhaseCharge, leaveCostParam(calendar.LeaveOther)},
		{FullAttendanceBonus, NameFullAttendance, PhaseCharge, amountParam(func(a decimal.Decimal) Policy { return fullAttendanceBonus{a} })},
	}
}

// minutesParam decodes param1 as a whole number of minutes.
func minutesParam(build func(int) Policy) Decoder {
	return func(p Params) (Policy, error) {
		m, err := p.Int(1)
		if err != nil {
			return nil, err
		}
		return build(m), nil
	}
}

// amountParam decodes param1 as a non-negative amount.
func amountParam(build func(decimal.Decimal) Policy) Decoder {
	return func(p Params) (Policy, error) {
		a, err := p.Decimal(1)
		if err != nil {
			return nil, err
		}
		return build(a), nil
	}
}

func leaveCostParam(kind calendar.LeaveKind) Decoder {
	return func(p Params) (Policy, error) {
		rate, err := p.Decimal(1)
		if err != nil {
			return nil, err
		}
		flat, err := p.DecimalOr(2, decimal.Zero)
		if err != nil {
			return nil, err
		}
		return leaveCost{Kind: kind, Cost: payroll.LeaveCost{Rate: rate, Flat: flat}}, nil
	}
}

func decodeOvertimeCap(p Params) (Policy, error) {
	m, err := p.Int(1)
	if err != nil {
		return nil, err
	}
	if err := positive(1, m); err != nil {
		return nil, err
	}
	return overtimeCap{m}, nil
}

func decodeRestDayReplacement(p Params) (Policy, error) {
	maxDays, err := p.IntOr(1, 0)
	if err != nil {
		return nil, err
	}
	return restDayReplacement{MaxDays: maxDays}, nil
}

func decodeLateAfterFree(p Params) (Policy, error) {
	free, err := p.Int(1)
	if err != nil {
		return nil, err
	}
	amount, err := p.Decimal(2)
	if err != nil {
		return nil, err
	}
	return lateAfterFree{Free: free, Amount: amount}, nil
}

func decodeLateTiered(p Params) (Policy, error) {
	var tiers []LateTier
	if err := p.JSON(1, &tiers); err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return nil, slotError(1, ErrMissingParam)
	}
	for _, t := range tiers {
		if t.OverMinutes < 0 || t.Amount.IsNegative() {
			return nil, slotError(1, ErrInvalidParam)
		}
	}
	sortTiers(tiers)
	return lateTiered{Tiers: tiers}, nil
}

func decodeLateToAbsence(p Params) (Policy, error) {
	every, err := p.Int(1)
	if err != nil {
		return nil, err
	}
	if err := positive(1, every); err != nil {
		return nil, err
	}
	fraction, err := p.DecimalOr(2, oneHalf)
	if err != nil {
		return nil, err
	}
	return lateToAbsence{Every: every, Fraction: fraction}, nil
}

func decodeAbsenceSalary(p Params) (Policy, error) {
	fraction, err := p.DecimalOr(1, oneHalf)
	if err != nil {
		return nil, err
	}
	return absenceSalary{HalfFraction: fraction}, nil
}

func decodeDocumentedAbsence(p Params) (Policy, error) {
	fraction, err := p.DecimalOr(1, one)
	if err != nil {
		return nil, err
	}
	return documentedAbsence{Fraction: fraction}, nil
}
