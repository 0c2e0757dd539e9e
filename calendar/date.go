/*
Package calendar classifies payroll days.

PURPOSE:
  Every day in a pay period is governed by exactly one category: an ordinary
  workday, a weekend, a public holiday, a "general day" override that forces a
  rest day back to work, or one of the leave kinds. Deduction and overtime
  treatment downstream depends only on that category.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: a calendar day with no time-of-day component
  - DateSet: membership lookups for configured date lists

SEE ALSO:
  - period.go: Pay period construction (calendar month, shifted month, range)
  - category.go: Category and leave kind definitions
  - calendar.go: The classifier itself
*/
package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// DATE - A calendar day (UTC midnight)
// =============================================================================

// DateLayout is the text form used on the wire and in storage.
const DateLayout = "2006-01-02"

// Date is a calendar day. The zero value is "no date".
type Date struct {
	t time.Time
}

// NewDate returns the date for year/month/day, normalizing overflow the way
// time.Date does (e.g. Feb 30 becomes Mar 2).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar day in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for fixtures and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int              { return d.t.Year() }
func (d Date) Month() time.Month      { return d.t.Month() }
func (d Date) Day() int               { return d.t.Day() }
func (d Date) Weekday() time.Weekday  { return d.t.Weekday() }
func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Time() time.Time        { return d.t }
func (d Date) String() string         { return d.t.Format(DateLayout) }

// DaysBetween returns the number of days from a to b (negative if b < a).
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t).Hours() / 24)
}

// DaysInMonth returns the length of the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// DATE SET
// =============================================================================

// DateSet is an unordered set of dates.
type DateSet map[Date]struct{}

// NewDateSet builds a set from a list, ignoring zero dates.
func NewDateSet(dates ...Date) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

func (s DateSet) Add(d Date) {
	if d.IsZero() {
		return
	}
	s[d] = struct{}{}
}

func (s DateSet) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

func (s DateSet) Len() int { return len(s) }
