/*
Package sqlite provides a SQLite-backed implementation of the store interfaces.

PURPOSE:
  Implements store.HolidayStore and store.ReplacementDayStore using SQLite.
  The engine never touches this package; the HTTP adapter reads holidays
  before a calculation and records replacement days after it.

INTERFACES IMPLEMENTED:
  store.HolidayStore:        Company and global holidays
  store.ReplacementDayStore: Banked replacement days (engine.ReplacementDayRecorder)

KEY TABLES:
  holidays:         Dated or recurring holidays, unique per (company, date, name)
  replacement_days: One row per (employee, date); re-recording updates it

INDEXES:
  - idx_holidays_unique: Upsert target for SaveHoliday
  - idx_replacement_days_unique: Upsert target for RecordReplacementDay

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of WAL mode:
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  st, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

  dates, _ := st.HolidaysIn(ctx, "", req.Period)
  req.Calendar.Holidays = append(req.Calendar.Holidays, dates...)
  out, _ := calc.Calculate(req)
  _ = engine.Record(ctx, st, out.EmployeeID, out.ReplacementDays)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - store/store.go: Interface definitions
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection; used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Holidays (company-specific and global)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_company_date
		ON holidays(company_id, date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(company_id, date, name);

	-- Replacement days banked by rest-day work
	CREATE TABLE IF NOT EXISTS replacement_days (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		band TEXT NOT NULL,
		minutes INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_replacement_days_unique
		ON replacement_days(employee_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// SaveHoliday saves a holiday to the database.
func (s *Store) SaveHoliday(ctx context.Context, h store.Holiday) (store.Holiday, error) {
	if h.Date.IsZero() || h.Name == "" {
		return store.Holiday{}, errors.New("holiday requires a date and a name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	query := `
		INSERT INTO holidays (id, company_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, date, name) DO UPDATE SET
			recurring = excluded.recurring
	`
	if _, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.CompanyID,
		h.Date.String(),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return store.Holiday{}, fmt.Errorf("save holiday: %w", err)
	}

	// On conflict the original row keeps its ID.
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM holidays WHERE company_id = ? AND date = ? AND name = ?",
		h.CompanyID, h.Date.String(), h.Name,
	).Scan(&h.ID)
	if err != nil {
		return store.Holiday{}, fmt.Errorf("save holiday: %w", err)
	}
	return h, nil
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("holiday %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// ListHolidays returns company-specific and global holidays.
func (s *Store) ListHolidays(ctx context.Context, companyID string) ([]store.Holiday, error) {
	return s.queryHolidays(ctx, `
		SELECT id, company_id, date, name, recurring
		FROM holidays
		WHERE company_id = ? OR company_id = ''
		ORDER BY date ASC, name ASC
	`, companyID)
}

// HolidaysIn returns every holiday date in p, recurring holidays included.
func (s *Store) HolidaysIn(ctx context.Context, companyID string, p calendar.Period) ([]calendar.Date, error) {
	hs, err := s.queryHolidays(ctx, `
		SELECT id, company_id, date, name, recurring
		FROM holidays
		WHERE (company_id = ? OR company_id = '')
		  AND (recurring = TRUE OR date BETWEEN ? AND ?)
		ORDER BY date ASC
	`, companyID, p.Start.String(), p.End.String())
	if err != nil {
		return nil, err
	}
	return store.ExpandHolidays(hs, p), nil
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]store.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []store.Holiday
	for rows.Next() {
		var h store.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &h.CompanyID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// REPLACEMENT DAY STORE
// =============================================================================

// RecordReplacementDay implements engine.ReplacementDayRecorder. Recording
// the same employee and date again updates band and minutes.
func (s *Store) RecordReplacementDay(ctx context.Context, employeeID string, day payroll.ReplacementDay) error {
	if employeeID == "" || day.Date.IsZero() {
		return errors.New("replacement day requires an employee and a date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO replacement_days (id, employee_id, date, band, minutes, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			band = excluded.band,
			minutes = excluded.minutes,
			recorded_at = excluded.recorded_at
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		employeeID,
		day.Date.String(),
		string(day.Band),
		day.Minutes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record replacement day: %w", err)
	}
	return nil
}

// ListReplacementDays returns an employee's replacement days by date.
func (s *Store) ListReplacementDays(ctx context.Context, employeeID string) ([]store.ReplacementDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, band, minutes, recorded_at
		FROM replacement_days
		WHERE employee_id = ?
		ORDER BY date ASC
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("query replacement days: %w", err)
	}
	defer rows.Close()

	var days []store.ReplacementDay
	for rows.Next() {
		var d store.ReplacementDay
		var dateStr, band, recordedAt string
		if err := rows.Scan(&d.ID, &d.EmployeeID, &dateStr, &band, &d.Minutes, &recordedAt); err != nil {
			return nil, err
		}
		if d.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("replacement day %s: %w", d.ID, err)
		}
		d.Band = payroll.Band(band)
		d.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		days = append(days, d)
	}
	return days, rows.Err()
}

// Reset clears all data (for testing).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"holidays", "replacement_days"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
