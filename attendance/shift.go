package attendance

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// WINDOW - What the employee is expected to do on one day
// =============================================================================

// Window is an expected shift. A split shift has all four core times; a
// continuous shift leaves EndAM and StartPM absent. OvertimeStart is the
// earliest time overtime punches may count from (Absent = no clamp).
type Window struct {
	StartAM       Clock
	EndAM         Clock
	StartPM       Clock
	EndPM         Clock
	OvertimeStart Clock
}

// ContinuousWindow builds a single-span window.
func ContinuousWindow(start, end, overtimeStart Clock) Window {
	return Window{StartAM: start, EndAM: Absent, StartPM: Absent, EndPM: end, OvertimeStart: overtimeStart}
}

// SplitWindow builds a window with a lunch gap.
func SplitWindow(startAM, endAM, startPM, endPM, overtimeStart Clock) Window {
	return Window{StartAM: startAM, EndAM: endAM, StartPM: startPM, EndPM: endPM, OvertimeStart: overtimeStart}
}

// IsSplit reports whether the window has a lunch gap.
func (w Window) IsSplit() bool {
	return w.StartAM.Present() && w.EndAM.Present() && w.StartPM.Present() && w.EndPM.Present()
}

// Start is the first expected punch-in.
func (w Window) Start() Clock { return EarlierOf(w.StartAM, w.StartPM) }

// End is the last expected punch-out.
func (w Window) End() Clock { return LaterOf(w.EndPM, w.EndAM) }

// Valid reports whether the window has a usable start and end.
func (w Window) Valid() bool {
	return w.Start().Present() && w.End().Present() && w.End() > w.Start()
}

// Minutes is the paid length of the window, lunch gap excluded.
func (w Window) Minutes() int {
	if !w.Valid() {
		return 0
	}
	return w.Worked(w.Start(), w.End())
}

// Worked returns the minutes in [in, out] that fall inside the window,
// excluding the lunch gap of a split shift.
func (w Window) Worked(in, out Clock) int {
	in = LaterOf(in, w.Start())
	out = EarlierOf(out, w.End())
	if out <= in {
		return 0
	}
	minutes := out.Sub(in)
	if w.IsSplit() && w.StartPM > w.EndAM {
		gapStart := LaterOf(in, w.EndAM)
		gapEnd := EarlierOf(out, w.StartPM)
		if gapEnd > gapStart {
			minutes -= gapEnd.Sub(gapStart)
		}
	}
	return minutes
}

func (w Window) String() string {
	if w.IsSplit() {
		return fmt.Sprintf("%s-%s/%s-%s", w.StartAM, w.EndAM, w.StartPM, w.EndPM)
	}
	return fmt.Sprintf("%s-%s", w.Start(), w.End())
}

// =============================================================================
// SHIFT CONFIG
// =============================================================================

// Mode selects where windows come from.
type Mode string

const (
	ModeNormal  Mode = "normal"
	ModeSpecial Mode = "special"
)

// SpecialShift is a per-date schedule with weekday templates and an optional
// window for general-day overrides.
type SpecialShift struct {
	Dates    map[calendar.Date]Window
	Weekdays map[time.Weekday]Window
	Override *Window
}

// ShiftConfig is the employee's shift configuration.
type ShiftConfig struct {
	Mode    Mode
	Normal  Window
	Special SpecialShift
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver resolves the expected window for a date. It never fails; a date
// it cannot resolve has no expectation.
type Resolver struct {
	cfg ShiftConfig
}

// NewResolver creates a resolver over the shift config.
func NewResolver(cfg ShiftConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve returns the window for the date and whether one applies.
func (r *Resolver) Resolve(d calendar.Date, cat calendar.Category) (Window, bool) {
	if r.cfg.Mode != ModeSpecial {
		return r.cfg.Normal, r.cfg.Normal.Valid()
	}

	special := r.cfg.Special
	if w, ok := special.Dates[d]; ok && w.Valid() {
		return w, true
	}

	switch cat.Kind {
	case calendar.KindWorkday, calendar.KindLeave:
		if w, ok := special.Weekdays[d.Weekday()]; ok && w.Valid() {
			return w, true
		}
	case calendar.KindGeneralOverride:
		if w, ok := special.Weekdays[d.Weekday()]; ok && w.Valid() {
			return w, true
		}
		if special.Override != nil && special.Override.Valid() {
			return *special.Override, true
		}
	}
	return Window{}, false
}
