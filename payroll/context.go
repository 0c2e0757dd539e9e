package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// FACTS RECORDED DURING THE DAY LOOP
// =============================================================================

// Incident is one late arrival or early departure.
type Incident struct {
	Date    calendar.Date
	Slot    int // core punch slot the incident was measured on
	Minutes int
}

// OvertimeEntry is credited overtime for one date and band. Minutes is always
// a multiple of the rounding interval.
type OvertimeEntry struct {
	Date    calendar.Date
	Band    Band
	Minutes int
	RestDay bool // worked weekend/holiday span, not overtime punches
}

// MissedPunches counts missing-punch outcomes.
type MissedPunches struct {
	NoReasonHalf   int // some expected punches missing, no document
	NoReasonFull   int // no punches, no document, no leave
	DocumentedHalf int // some punches missing, document with cut flag
	DocumentedFull int // no punches, document with cut flag
}

// LeaveCost is the configured cost of one deductible leave day.
type LeaveCost struct {
	Rate decimal.Decimal // fraction of the daily rate
	Flat decimal.Decimal // flat amount per day
}

// ReplacementDay is a worked rest day banked as a future day off instead of
// being paid as overtime. The engine returns these; callers persist them.
type ReplacementDay struct {
	Date    calendar.Date `json:"date"`
	Band    Band          `json:"band"`
	Minutes int           `json:"minutes"`
}

// =============================================================================
// CONTEXT - The per-calculation accumulator
// =============================================================================

// Settings are copied into the context before the day loop.
type Settings struct {
	Salary      SalaryInfo
	WorkingDays int
}

// Context accumulates one calculation. It is never shared between calls.
type Context struct {
	// Configuration
	BaseSalary      decimal.Decimal
	OvertimeRate    decimal.Decimal
	OvertimeEnabled bool
	WorkingDays     int
	RoundingMinutes int
	Multipliers     Multipliers

	// Accumulated state
	Deductions      map[string]decimal.Decimal
	Allowances      map[string]decimal.Decimal
	Overtime        []OvertimeEntry
	Lates           []Incident
	Earlies         []Incident
	Missed          MissedPunches
	LeaveDays       map[calendar.LeaveKind]int
	LeaveReductions map[calendar.LeaveKind]int
	LeaveCosts      map[calendar.LeaveKind]LeaveCost
	ReplacementDays []ReplacementDay
	Notice          string
}

// NewContext creates an empty context for one calculation.
func NewContext(s Settings) *Context {
	working := s.WorkingDays
	if s.Salary.WorkingDays > 0 {
		working = s.Salary.WorkingDays
	}
	return &Context{
		BaseSalary:      s.Salary.BaseSalary.Decimal,
		OvertimeRate:    s.Salary.OvertimeRate,
		OvertimeEnabled: s.Salary.OvertimeEnabled,
		WorkingDays:     working,
		RoundingMinutes: s.Salary.RoundingMinutes,
		Multipliers:     s.Salary.Multipliers,
		Deductions:      make(map[string]decimal.Decimal),
		Allowances:      make(map[string]decimal.Decimal),
		LeaveDays:       make(map[calendar.LeaveKind]int),
		LeaveReductions: make(map[calendar.LeaveKind]int),
		LeaveCosts:      make(map[calendar.LeaveKind]LeaveCost),
	}
}

// =============================================================================
// MONEY
// =============================================================================

// DailyRate is base salary divided by working days, zero when there are none.
func (c *Context) DailyRate() decimal.Decimal {
	if c.WorkingDays <= 0 {
		return decimal.Zero
	}
	return c.BaseSalary.Div(decimal.NewFromInt(int64(c.WorkingDays)))
}

// AddDeduction adds to a named deduction. Non-positive amounts are ignored.
func (c *Context) AddDeduction(name string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	c.Deductions[name] = c.Deductions[name].Add(amount)
}

// AddAllowance adds to a named allowance. Non-positive amounts are ignored.
func (c *Context) AddAllowance(name string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	c.Allowances[name] = c.Allowances[name].Add(amount)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (c *Context) AddLate(d calendar.Date, slot, minutes int) {
	if minutes <= 0 {
		return
	}
	c.Lates = append(c.Lates, Incident{Date: d, Slot: slot, Minutes: minutes})
}

func (c *Context) AddEarly(d calendar.Date, slot, minutes int) {
	if minutes <= 0 {
		return
	}
	c.Earlies = append(c.Earlies, Incident{Date: d, Slot: slot, Minutes: minutes})
}

func (c *Context) LateCount() int  { return len(c.Lates) }
func (c *Context) EarlyCount() int { return len(c.Earlies) }

// LatenessMinutes is the total of all late incidents.
func (c *Context) LatenessMinutes() int { return sumMinutes(c.Lates) }

// EarlyMinutes is the total of all early departures.
func (c *Context) EarlyMinutes() int { return sumMinutes(c.Earlies) }

func sumMinutes(incidents []Incident) int {
	total := 0
	for _, i := range incidents {
		total += i.Minutes
	}
	return total
}

// HasAttendanceIssues is true when anything was recorded against the employee.
func (c *Context) HasAttendanceIssues() bool {
	m := c.Missed
	return len(c.Lates) > 0 || len(c.Earlies) > 0 ||
		m.NoReasonHalf+m.NoReasonFull+m.DocumentedHalf+m.DocumentedFull > 0
}

// =============================================================================
// OVERTIME
// =============================================================================

// Interval is the rounding interval in minutes, at least 1.
func (c *Context) Interval() int {
	if c.RoundingMinutes <= 0 {
		return 1
	}
	return c.RoundingMinutes
}

// RoundDown rounds minutes down to the interval; negatives become zero.
func (c *Context) RoundDown(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	iv := c.Interval()
	return minutes / iv * iv
}

// CreditOvertime rounds and records an overtime entry. Zero entries are dropped.
func (c *Context) CreditOvertime(e OvertimeEntry) {
	e.Minutes = c.RoundDown(e.Minutes)
	if e.Minutes == 0 {
		return
	}
	c.Overtime = append(c.Overtime, e)
}

// BandMinutes sums credited minutes for a band.
func (c *Context) BandMinutes(b Band) int {
	total := 0
	for _, e := range c.Overtime {
		if e.Band == b {
			total += e.Minutes
		}
	}
	return total
}

// CompactOvertime drops entries reduced to zero and keeps date order.
func (c *Context) CompactOvertime() {
	kept := c.Overtime[:0]
	for _, e := range c.Overtime {
		if e.Minutes > 0 {
			kept = append(kept, e)
		}
	}
	c.Overtime = kept
	sort.SliceStable(c.Overtime, func(i, j int) bool {
		return c.Overtime[i].Date.Before(c.Overtime[j].Date)
	})
}

// =============================================================================
// LEAVE
// =============================================================================

// SetLeaveCost configures the cost of a deductible leave kind.
func (c *Context) SetLeaveCost(kind calendar.LeaveKind, cost LeaveCost) {
	c.LeaveCosts[kind] = cost
}
