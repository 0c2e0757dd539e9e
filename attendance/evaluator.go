package attendance

import (
	"log/slog"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// EVALUATOR - One day's contribution to the payroll context
// =============================================================================

// Evaluator evaluates days for one employee. It holds no per-day state and
// writes only to the context it is handed.
type Evaluator struct {
	calendar  *calendar.Calendar
	resolver  *Resolver
	documents Documents
	logger    *slog.Logger
}

// NewEvaluator wires the classifier, schedule and documents for one employee.
func NewEvaluator(cal *calendar.Calendar, resolver *Resolver, docs Documents, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if docs == nil {
		docs = Documents{}
	}
	return &Evaluator{calendar: cal, resolver: resolver, documents: docs, logger: logger}
}

// day bundles what the steps of one evaluation share.
type day struct {
	rec       Record
	cat       calendar.Category
	window    Window
	hasWindow bool
	doc       PunchDocument
	hasDoc    bool
}

func (d day) authorized() bool { return d.hasDoc && !d.doc.CutSalary }
func (d day) cut() bool        { return d.hasDoc && d.doc.CutSalary }

// Evaluate applies one day to the context. Leave only counts on days that
// would otherwise be worked; leave over a weekend or holiday is evaluated as
// that rest day.
func (e *Evaluator) Evaluate(ctx *payroll.Context, rec Record) {
	d := day{rec: rec, cat: e.calendar.Classify(rec.Date)}
	if d.cat.IsLeave() {
		if base := e.calendar.BaseCategory(rec.Date); !base.IsWorking() {
			d.cat = base
		}
	}
	d.window, d.hasWindow = e.resolver.Resolve(rec.Date, d.cat)
	d.doc, d.hasDoc = e.documents.Lookup(rec.Date)

	if d.cat.IsLeave() {
		ctx.LeaveDays[d.cat.Leave]++
	}

	documentedFull := false
	if d.cat.IsRestDay() {
		e.restDaySpan(ctx, d)
	} else if d.hasWindow {
		if !d.cat.IsLeave() {
			e.lateness(ctx, d)
			e.earlyDeparture(ctx, d)
		}
		documentedFull = e.missedPunches(ctx, d)
	}

	e.overtimePunches(ctx, d)

	if d.cat.IsLeave() && d.cat.Leave.IsDeductible() && !rec.HasCorePunch() {
		if documentedFull && ctx.Missed.DocumentedFull > 0 {
			ctx.Missed.DocumentedFull--
		}
		ctx.LeaveReductions[d.cat.Leave]++
	}
}

// =============================================================================
// REST DAYS
// =============================================================================

// restDaySpan credits a worked weekend or holiday. The span is clamped to the
// standard window with the lunch gap excluded.
func (e *Evaluator) restDaySpan(ctx *payroll.Context, d day) {
	if !ctx.OvertimeEnabled || !d.rec.HasCorePunch() {
		return
	}
	if d.cut() {
		e.logger.Debug("rest day credit suppressed by document", "date", d.rec.Date.String())
		return
	}
	if e.calendar.IsReplacementSource(d.rec.Date) {
		e.logger.Debug("rest day already exchanged for a replacement day", "date", d.rec.Date.String())
		return
	}

	in, out := d.rec.Core[0], d.rec.LastOut()
	complete := in.Present() && out.Present() && out > in

	minutes := 0
	switch {
	case complete && d.hasWindow:
		minutes = d.window.Worked(in, out)
	case complete:
		minutes = out.Sub(in)
	case d.authorized() && d.hasWindow:
		minutes = d.window.Minutes()
	}

	ctx.CreditOvertime(payroll.OvertimeEntry{
		Date:    d.rec.Date,
		Band:    bandFor(d.cat),
		Minutes: minutes,
		RestDay: true,
	})
}

// =============================================================================
// WORKDAYS
// =============================================================================

func (e *Evaluator) lateness(ctx *payroll.Context, d day) {
	w, core := d.window, d.rec.Core
	if core[0].Present() && core[0] > w.Start() {
		ctx.AddLate(d.rec.Date, 0, core[0].Sub(w.Start()))
	}
	if w.IsSplit() && core[2].Present() && core[2] > w.StartPM {
		ctx.AddLate(d.rec.Date, 2, core[2].Sub(w.StartPM))
	}
}

func (e *Evaluator) earlyDeparture(ctx *payroll.Context, d day) {
	w, core := d.window, d.rec.Core
	if w.IsSplit() {
		if core[1].Present() && core[1] < w.EndAM {
			ctx.AddEarly(d.rec.Date, 1, w.EndAM.Sub(core[1]))
		}
		if core[3].Present() && core[3] < w.EndPM {
			ctx.AddEarly(d.rec.Date, 3, w.EndPM.Sub(core[3]))
		}
		return
	}
	if out := d.rec.LastOut(); out.Present() && out < w.End() {
		ctx.AddEarly(d.rec.Date, 3, w.End().Sub(out))
	}
}

// missedPunches records full or partial absence and reports whether a
// documented full missed punch was recorded for the day.
func (e *Evaluator) missedPunches(ctx *payroll.Context, d day) bool {
	present, expected := e.expectedPunches(d)

	switch {
	case present == 0:
		switch {
		case d.cut():
			ctx.Missed.DocumentedFull++
			return true
		case d.cat.IsLeave(), d.authorized():
			// excused
		default:
			ctx.Missed.NoReasonFull++
		}
	case present < expected:
		switch {
		case d.cat.IsLeave(), d.authorized():
			// excused
		case d.cut():
			ctx.Missed.DocumentedHalf++
		default:
			ctx.Missed.NoReasonHalf++
		}
	}
	return false
}

// expectedPunches counts present and expected punches for the window shape.
// A continuous shift expects an in on slot 0 and an out on any later slot.
func (e *Evaluator) expectedPunches(d day) (present, expected int) {
	if d.window.IsSplit() {
		return d.rec.CorePresent(), CoreSlots
	}
	if !d.rec.HasCorePunch() {
		return 0, 2
	}
	if d.rec.Core[0].Present() {
		present++
	}
	if d.rec.LastOut().Present() {
		present++
	}
	return present, 2
}

// =============================================================================
// OVERTIME PUNCHES
// =============================================================================

// overtimePunches credits the overtime pair. The start never precedes the
// window's overtime start, and overnight spans wrap.
func (e *Evaluator) overtimePunches(ctx *payroll.Context, d day) {
	if !ctx.OvertimeEnabled || !d.rec.HasOvertimePair() {
		return
	}
	in, out := d.rec.Overtime[0], d.rec.Overtime[1]

	elapsed := out.Sub(in)
	if elapsed < 0 {
		elapsed += MinutesPerDay
	}
	if d.hasWindow && d.window.OvertimeStart.Present() && in < d.window.OvertimeStart {
		elapsed -= d.window.OvertimeStart.Sub(in)
	}

	ctx.CreditOvertime(payroll.OvertimeEntry{
		Date:    d.rec.Date,
		Band:    bandFor(d.cat),
		Minutes: elapsed,
	})
}

// bandFor maps a category to its overtime band. General-day overrides and
// leave days are ordinary days.
func bandFor(cat calendar.Category) payroll.Band {
	switch cat.Kind {
	case calendar.KindWeekend:
		return payroll.BandWeekend
	case calendar.KindHoliday:
		return payroll.BandHoliday
	default:
		return payroll.BandNormal
	}
}
