package calendar

import "time"

// =============================================================================
// CALENDAR CONFIG - Employee calendar as supplied by the caller
// =============================================================================

// Replacement maps a worked rest day (Date) to the day off taken for it (RDate).
type Replacement struct {
	Date  Date `json:"date"`
	RDate Date `json:"rdate"`
}

// Config is the raw calendar configuration for one employee.
type Config struct {
	Holidays     []Date
	GeneralDays  []Date
	Weekend      []time.Weekday // empty means Saturday and Sunday
	Leaves       map[LeaveKind][]Date
	Replacements []Replacement
}

// DefaultWeekend is used when a config names no weekend weekdays.
var DefaultWeekend = []time.Weekday{time.Saturday, time.Sunday}

// =============================================================================
// CALENDAR - The classifier
// =============================================================================

// Calendar classifies dates for one employee. It is immutable after New and
// safe for concurrent use.
type Calendar struct {
	holidays    DateSet
	generalDays DateSet
	weekend     [7]bool
	leaves      map[LeaveKind]DateSet
	sources     DateSet // rest days already exchanged for a replacement day
}

// New indexes a calendar config.
func New(cfg Config) *Calendar {
	c := &Calendar{
		holidays:    NewDateSet(cfg.Holidays...),
		generalDays: NewDateSet(cfg.GeneralDays...),
		leaves:      make(map[LeaveKind]DateSet, len(LeaveOrder)),
		sources:     NewDateSet(),
	}

	weekend := cfg.Weekend
	if len(weekend) == 0 {
		weekend = DefaultWeekend
	}
	for _, wd := range weekend {
		if wd >= time.Sunday && wd <= time.Saturday {
			c.weekend[wd] = true
		}
	}

	for kind, dates := range cfg.Leaves {
		set, ok := c.leaves[kind]
		if !ok {
			set = NewDateSet()
			c.leaves[kind] = set
		}
		for _, d := range dates {
			set.Add(d)
		}
	}

	if len(cfg.Replacements) > 0 {
		set, ok := c.leaves[LeaveReplacement]
		if !ok {
			set = NewDateSet()
			c.leaves[LeaveReplacement] = set
		}
		for _, r := range cfg.Replacements {
			set.Add(r.RDate)
			c.sources.Add(r.Date)
		}
	}

	return c
}

// Classify returns the one category that governs the date.
//
// Precedence: leave (in LeaveOrder) > general override > holiday > weekend > workday.
func (c *Calendar) Classify(d Date) Category {
	if kind, ok := c.LeaveOn(d); ok {
		return Leave(kind)
	}
	return c.BaseCategory(d)
}

// BaseCategory classifies the date ignoring leave.
func (c *Calendar) BaseCategory(d Date) Category {
	switch {
	case c.generalDays.Contains(d):
		return GeneralOverride
	case c.holidays.Contains(d):
		return Holiday
	case c.weekend[d.Weekday()]:
		return Weekend
	default:
		return Workday
	}
}

// LeaveOn returns the highest-precedence leave kind booked on the date.
func (c *Calendar) LeaveOn(d Date) (LeaveKind, bool) {
	for _, kind := range LeaveOrder {
		if set, ok := c.leaves[kind]; ok && set.Contains(d) {
			return kind, true
		}
	}
	return "", false
}

// IsReplacementSource reports whether a worked rest day has already been
// exchanged for a replacement day off.
func (c *Calendar) IsReplacementSource(d Date) bool {
	return c.sources.Contains(d)
}

// IsWeekendDay reports whether the weekday is configured as weekend.
func (c *Calendar) IsWeekendDay(wd time.Weekday) bool {
	return c.weekend[wd]
}

// WorkingDays counts the days in the period that carry a work expectation,
// leave days included (leave is taken out of working days).
func (c *Calendar) WorkingDays(p Period) int {
	n := 0
	for _, d := range p.Days() {
		if c.BaseCategory(d).IsWorking() {
			n++
		}
	}
	return n
}
