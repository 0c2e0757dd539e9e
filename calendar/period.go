package calendar

import (
	"errors"
	"fmt"
	"time"
)

// MaxPeriodDays bounds range-mode periods so a single calculation stays small.
const MaxPeriodDays = 62

var (
	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrPeriodTooLong is returned when a range period exceeds MaxPeriodDays.
	ErrPeriodTooLong = errors.New("invalid period: range too long")
)

// =============================================================================
// PERIOD - The date range one payroll result covers
// =============================================================================

// Period is an inclusive date range [Start, End].
type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// MonthPeriod returns the pay period that is paid in the given month.
//
// With startDay <= 1 this is the calendar month. Otherwise the period starts
// on startDay of the previous month and ends the day before startDay of
// month, e.g. startDay 26 for March gives Feb 26 - Mar 25. When the previous
// month is too short to hold startDay the period starts on the 1st, and when
// month itself is too short it ends on its last day, so consecutive periods
// never overlap.
func MonthPeriod(year int, month time.Month, startDay int) Period {
	if startDay <= 1 {
		return Period{
			Start: NewDate(year, month, 1),
			End:   NewDate(year, month, DaysInMonth(year, month)),
		}
	}

	first := NewDate(year, month, 1)
	prev := first.AddMonths(-1)
	start := first
	if startDay <= DaysInMonth(prev.Year(), prev.Month()) {
		start = NewDate(prev.Year(), prev.Month(), startDay)
	}
	endInMonth := min(startDay, DaysInMonth(year, month)+1) - 1

	return Period{
		Start: start,
		End:   NewDate(year, month, endInMonth),
	}
}

// RangePeriod returns an explicit [start, end] period.
func RangePeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	if DaysBetween(start, end)+1 > MaxPeriodDays {
		return Period{}, fmt.Errorf("%w: %d days (max %d)", ErrPeriodTooLong, DaysBetween(start, end)+1, MaxPeriodDays)
	}
	return Period{Start: start, End: end}, nil
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every date in the period in order.
func (p Period) Days() []Date {
	if p.Start.IsZero() || p.End.Before(p.Start) {
		return nil
	}
	days := make([]Date, 0, p.Len())
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of days in the period.
func (p Period) Len() int {
	if p.Start.IsZero() || p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// DatesForDay returns every date in the period carrying the day number.
// Periods longer than a month can carry a day number twice.
func (p Period) DatesForDay(day int) []Date {
	if day < 1 || day > 31 {
		return nil
	}
	var out []Date
	for _, d := range p.Days() {
		if d.Day() == day {
			out = append(out, d)
		}
	}
	return out
}

// DateForDay maps a day-of-month to the unique date in the period carrying
// that day number. ok is false when no date or more than one date matches.
func (p Period) DateForDay(day int) (Date, bool) {
	dates := p.DatesForDay(day)
	if len(dates) != 1 {
		return Date{}, false
	}
	return dates[0], true
}

// Validate checks the period is usable for a calculation.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: missing start or end", ErrInvalidPeriod)
	}
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	if p.Len() > MaxPeriodDays {
		return fmt.Errorf("%w: %d days (max %d)", ErrPeriodTooLong, p.Len(), MaxPeriodDays)
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
