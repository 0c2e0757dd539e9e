package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is a Store backed by maps. Safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	holidays    map[string]Holiday
	replacement map[replacementKey]ReplacementDay
	now         func() time.Time
}

type replacementKey struct {
	EmployeeID string
	Date       calendar.Date
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		holidays:    make(map[string]Holiday),
		replacement: make(map[replacementKey]ReplacementDay),
		now:         time.Now,
	}
}

func (m *Memory) Close() error { return nil }

// SaveHoliday upserts on (company, date, name).
func (m *Memory) SaveHoliday(_ context.Context, h Holiday) (Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.holidays {
		if existing.CompanyID == h.CompanyID && existing.Date.Equal(h.Date) && existing.Name == h.Name {
			existing.Recurring = h.Recurring
			m.holidays[id] = existing
			return existing, nil
		}
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	m.holidays[h.ID] = h
	return h, nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.holidays[id]; !ok {
		return ErrNotFound
	}
	delete(m.holidays, id)
	return nil
}

func (m *Memory) ListHolidays(_ context.Context, companyID string) ([]Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Holiday
	for _, h := range m.holidays {
		if h.CompanyID == companyID || h.CompanyID == "" {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) HolidaysIn(ctx context.Context, companyID string, p calendar.Period) ([]calendar.Date, error) {
	hs, err := m.ListHolidays(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return ExpandHolidays(hs, p), nil
}

// RecordReplacementDay implements engine.ReplacementDayRecorder.
func (m *Memory) RecordReplacementDay(_ context.Context, employeeID string, day payroll.ReplacementDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := replacementKey{EmployeeID: employeeID, Date: day.Date}
	rec, ok := m.replacement[k]
	if !ok {
		rec = ReplacementDay{ID: uuid.NewString(), EmployeeID: employeeID, Date: day.Date}
	}
	rec.Band = day.Band
	rec.Minutes = day.Minutes
	rec.RecordedAt = m.now().UTC()
	m.replacement[k] = rec
	return nil
}

func (m *Memory) ListReplacementDays(_ context.Context, employeeID string) ([]ReplacementDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ReplacementDay
	for k, rec := range m.replacement {
		if k.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ExpandHolidays flattens holidays into sorted, de-duplicated dates within p.
func ExpandHolidays(hs []Holiday, p calendar.Period) []calendar.Date {
	set := calendar.NewDateSet()
	for _, h := range hs {
		for _, d := range h.OccurrencesIn(p) {
			set.Add(d)
		}
	}
	out := make([]calendar.Date, 0, set.Len())
	for d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
