/*
Package store defines the persistence collaborators around the payroll engine.

PURPOSE:
  The engine is pure: it never reads or writes storage. Two collaborators
  sit next to it:

    HolidayStore         company holidays merged into each request calendar
    ReplacementDayStore  banked replacement days reported in Outcome

  Memory (this package) and sqlite.Store implement both.

KEY CONCEPTS:
  - Holiday: a dated or recurring (same month/day every year) day off.
    CompanyID "" means global.
  - ReplacementDay: an engine fact persisted once per employee and date;
    recording the same date again updates it.

SEE ALSO:
  - engine/replacement.go: ReplacementDayRecorder port
  - store/sqlite/sqlite.go: SQLite implementation
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
)

// ErrNotFound is returned when deleting or fetching a missing record.
var ErrNotFound = errors.New("not found")

// =============================================================================
// HOLIDAYS
// =============================================================================

// Holiday is a stored company holiday.
type Holiday struct {
	ID        string        `json:"id"`
	CompanyID string        `json:"company_id,omitempty"` // empty = global
	Date      calendar.Date `json:"date"`
	Name      string        `json:"name"`
	Recurring bool          `json:"recurring"` // same month/day every year
}

// OccurrencesIn returns the dates the holiday falls on within p. A recurring
// Feb 29 holiday does not occur in non-leap years.
func (h Holiday) OccurrencesIn(p calendar.Period) []calendar.Date {
	if !h.Recurring {
		if p.Contains(h.Date) {
			return []calendar.Date{h.Date}
		}
		return nil
	}

	var out []calendar.Date
	for year := p.Start.Year(); year <= p.End.Year(); year++ {
		d := calendar.NewDate(year, h.Date.Month(), h.Date.Day())
		if d.Month() != h.Date.Month() {
			continue
		}
		if p.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

// HolidayStore manages company holidays.
type HolidayStore interface {
	// SaveHoliday inserts a holiday, assigning an ID when empty. Saving the
	// same (company, date, name) again updates Recurring and keeps the ID.
	SaveHoliday(ctx context.Context, h Holiday) (Holiday, error)

	DeleteHoliday(ctx context.Context, id string) error

	// ListHolidays returns the company's and the global holidays by date.
	ListHolidays(ctx context.Context, companyID string) ([]Holiday, error)

	// HolidaysIn returns every holiday date (recurring ones expanded) in p.
	HolidaysIn(ctx context.Context, companyID string, p calendar.Period) ([]calendar.Date, error)
}

// =============================================================================
// REPLACEMENT DAYS
// =============================================================================

// ReplacementDay is a persisted replacement-day fact.
type ReplacementDay struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employee_id"`
	Date       calendar.Date `json:"date"`
	Band       payroll.Band  `json:"band"`
	Minutes    int           `json:"minutes"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// ReplacementDayStore persists replacement days.
type ReplacementDayStore interface {
	engine.ReplacementDayRecorder

	// ListReplacementDays returns an employee's replacement days by date.
	ListReplacementDays(ctx context.Context, employeeID string) ([]ReplacementDay, error)
}

// Store is the full collaborator set the HTTP adapter needs.
type Store interface {
	HolidayStore
	ReplacementDayStore
	Close() error
}
