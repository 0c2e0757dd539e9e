package rules

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/payroll"
)

func count(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// =============================================================================
// LATENESS PENALTIES
// =============================================================================

type latePerIncident struct{ Amount decimal.Decimal }

func (p latePerIncident) Apply(ctx *payroll.Context) {
	ctx.AddDeduction(NameLatePerIncident, p.Amount.Mul(count(ctx.LateCount())))
}

type latePerMinute struct{ Amount decimal.Decimal }

func (p latePerMinute) Apply(ctx *payroll.Context) {
	ctx.AddDeduction(NameLatePerMinute, p.Amount.Mul(count(ctx.LatenessMinutes())))
}

// lateAfterFree charges each late incident beyond the first Free.
type lateAfterFree struct {
	Free   int
	Amount decimal.Decimal
}

func (p lateAfterFree) Apply(ctx *payroll.Context) {
	charged := ctx.LateCount() - p.Free
	if charged <= 0 {
		return
	}
	ctx.AddDeduction(NameLateAfterFree, p.Amount.Mul(count(charged)))
}

// lateProgressive escalates with the square of the late count.
type lateProgressive struct{ Amount decimal.Decimal }

func (p lateProgressive) Apply(ctx *payroll.Context) {
	n := ctx.LateCount()
	ctx.AddDeduction(NameLateProgressive, p.Amount.Mul(count(n*n)))
}

// LateTier charges Amount for an incident longer than OverMinutes.
type LateTier struct {
	OverMinutes int             `json:"over_minutes"`
	Amount      decimal.Decimal `json:"amount"`
}

// lateTiered charges each incident the amount of the highest tier it exceeds.
// Tiers are sorted ascending by OverMinutes.
type lateTiered struct{ Tiers []LateTier }

func (p lateTiered) Apply(ctx *payroll.Context) {
	total := decimal.Zero
	for _, incident := range ctx.Lates {
		for i := len(p.Tiers) - 1; i >= 0; i-- {
			if incident.Minutes > p.Tiers[i].OverMinutes {
				total = total.Add(p.Tiers[i].Amount)
				break
			}
		}
	}
	ctx.AddDeduction(NameLateTiered, total)
}

func sortTiers(tiers []LateTier) {
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].OverMinutes < tiers[j].OverMinutes })
}

// =============================================================================
// EARLY DEPARTURE AND MISSED PUNCH PENALTIES
// =============================================================================

type earlyPerIncident struct{ Amount decimal.Decimal }

func (p earlyPerIncident) Apply(ctx *payroll.Context) {
	ctx.AddDeduction(NameEarlyPerIncident, p.Amount.Mul(count(ctx.EarlyCount())))
}

type earlyPerMinute struct{ Amount decimal.Decimal }

func (p earlyPerMinute) Apply(ctx *payroll.Context) {
	ctx.AddDeduction(NameEarlyPerMinute, p.Amount.Mul(count(ctx.EarlyMinutes())))
}

// missedPunchPenalty charges undocumented half-day misses.
type missedPunchPenalty struct{ Amount decimal.Decimal }

func (p missedPunchPenalty) Apply(ctx *payroll.Context) {
	ctx.AddDeduction(NameMissedPunch, p.Amount.Mul(count(ctx.Missed.NoReasonHalf)))
}

// absencePenalty charges undocumented full-day absences.
type absencePenalty struct{ Amount decimal.Decimal }

func (p absencePenalty) Apply(ctx *payroll.Context) {
	ctx.AddDeduction(NameAbsencePenalty, p.Amount.Mul(count(ctx.Missed.NoReasonFull)))
}

// =============================================================================
// SALARY-PROPORTIONAL DEDUCTIONS
// =============================================================================

// lateToAbsence turns every Every late incidents into Fraction of a day's pay.
type lateToAbsence struct {
	Every    int
	Fraction decimal.Decimal
}

func (p lateToAbsence) Apply(ctx *payroll.Context) {
	days := ctx.LateCount() / p.Every
	ctx.AddDeduction(NameLateToAbsence, count(days).Mul(p.Fraction).Mul(ctx.DailyRate()))
}

// absenceSalary deducts a day's pay per undocumented full absence and
// HalfFraction of it per undocumented half-day miss.
type absenceSalary struct{ HalfFraction decimal.Decimal }

func (p absenceSalary) Apply(ctx *payroll.Context) {
	daily := ctx.DailyRate()
	full := count(ctx.Missed.NoReasonFull).Mul(daily)
	half := count(ctx.Missed.NoReasonHalf).Mul(p.HalfFraction).Mul(daily)
	ctx.AddDeduction(NameAbsenceSalary, full.Add(half))
}

// documentedAbsence deducts Fraction of a day's pay per documented (cut)
// full miss, and half that per documented half miss.
type documentedAbsence struct{ Fraction decimal.Decimal }

func (p documentedAbsence) Apply(ctx *payroll.Context) {
	days := count(ctx.Missed.DocumentedFull).Add(count(ctx.Missed.DocumentedHalf).Mul(oneHalf))
	ctx.AddDeduction(NameDocumentedAbsence, days.Mul(p.Fraction).Mul(ctx.DailyRate()))
}

// =============================================================================
// LEAVE COSTS
// =============================================================================

// leaveCost configures what a deductible leave day costs; the aggregator
// charges it.
type leaveCost struct {
	Kind calendar.LeaveKind
	Cost payroll.LeaveCost
}

func (p leaveCost) Apply(ctx *payroll.Context) {
	ctx.SetLeaveCost(p.Kind, p.Cost)
}

// =============================================================================
// ALLOWANCES
// =============================================================================

// fullAttendanceBonus pays Amount when nothing was recorded against the employee.
type fullAttendanceBonus struct{ Amount decimal.Decimal }

func (p fullAttendanceBonus) Apply(ctx *payroll.Context) {
	if ctx.HasAttendanceIssues() {
		return
	}
	ctx.AddAllowance(NameFullAttendance, p.Amount)
}
