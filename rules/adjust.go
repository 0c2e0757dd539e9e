package rules

import (
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// INCIDENT ADJUSTMENTS
// =============================================================================

// graceLate forgives late incidents of at most Minutes.
type graceLate struct{ Minutes int }

func (g graceLate) Apply(ctx *payroll.Context) {
	ctx.Lates = forgive(ctx.Lates, g.Minutes)
}

// graceEarly forgives early departures of at most Minutes.
type graceEarly struct{ Minutes int }

func (g graceEarly) Apply(ctx *payroll.Context) {
	ctx.Earlies = forgive(ctx.Earlies, g.Minutes)
}

func forgive(incidents []payroll.Incident, grace int) []payroll.Incident {
	kept := incidents[:0]
	for _, i := range incidents {
		if i.Minutes > grace {
			kept = append(kept, i)
		}
	}
	return kept
}

// =============================================================================
// OVERTIME ADJUSTMENTS
// =============================================================================

// overtimeMinimum drops entries shorter than Minutes.
type overtimeMinimum struct{ Minutes int }

func (o overtimeMinimum) Apply(ctx *payroll.Context) {
	for i := range ctx.Overtime {
		if ctx.Overtime[i].Minutes < o.Minutes {
			ctx.Overtime[i].Minutes = 0
		}
	}
}

// overtimeCap limits each entry to Minutes, rounded down to the interval.
type overtimeCap struct{ Minutes int }

func (o overtimeCap) Apply(ctx *payroll.Context) {
	limit := ctx.RoundDown(o.Minutes)
	for i := range ctx.Overtime {
		if ctx.Overtime[i].Minutes > limit {
			ctx.Overtime[i].Minutes = limit
		}
	}
}

// latenessOffset takes total lateness out of normal-band overtime, earliest
// entries first. Touched entries round down to the interval.
type latenessOffset struct{}

func (latenessOffset) Apply(ctx *payroll.Context) {
	remaining := ctx.LatenessMinutes()
	for i := range ctx.Overtime {
		if remaining <= 0 {
			return
		}
		e := &ctx.Overtime[i]
		if e.Band != payroll.BandNormal || e.Minutes == 0 {
			continue
		}
		take := min(e.Minutes, remaining)
		remaining -= take
		e.Minutes = ctx.RoundDown(e.Minutes - take)
	}
}

// restDayReplacement banks worked rest days as replacement days instead of
// paying them. MaxDays of 0 means no limit.
type restDayReplacement struct{ MaxDays int }

func (r restDayReplacement) Apply(ctx *payroll.Context) {
	banked := 0
	for i := range ctx.Overtime {
		e := &ctx.Overtime[i]
		if !e.RestDay || e.Minutes == 0 {
			continue
		}
		if r.MaxDays > 0 && banked >= r.MaxDays {
			return
		}
		ctx.ReplacementDays = append(ctx.ReplacementDays, payroll.ReplacementDay{
			Date:    e.Date,
			Band:    e.Band,
			Minutes: e.Minutes,
		})
		e.Minutes = 0
		banked++
	}
}
