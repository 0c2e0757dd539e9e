package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store"
)

func date(s string) calendar.Date { return calendar.MustParseDate(s) }

func TestHoliday_OccurrencesIn(t *testing.T) {
	pay := calendar.MonthPeriod(2025, time.January, 26) // 2024-12-26 .. 2025-01-25

	tests := []struct {
		name    string
		holiday store.Holiday
		want    []calendar.Date
	}{
		{
			name:    "dated inside",
			holiday: store.Holiday{Date: date("2025-01-01")},
			want:    []calendar.Date{date("2025-01-01")},
		},
		{
			name:    "dated outside",
			holiday: store.Holiday{Date: date("2024-01-01")},
		},
		{
			name:    "recurring across year boundary",
			holiday: store.Holiday{Date: date("2019-12-31"), Recurring: true},
			want:    []calendar.Date{date("2024-12-31")},
		},
		{
			name:    "recurring leap day skipped in non-leap year",
			holiday: store.Holiday{Date: date("2024-02-29"), Recurring: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.holiday.OccurrencesIn(pay))
		})
	}
}

func TestMemory_Holidays(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	// GIVEN: a global holiday, a company holiday and another company's holiday
	global, err := m.SaveHoliday(ctx, store.Holiday{Date: date("2025-05-01"), Name: "Labour Day"})
	require.NoError(t, err)
	assert.NotEmpty(t, global.ID)
	_, err = m.SaveHoliday(ctx, store.Holiday{CompanyID: "acme", Date: date("2025-05-12"), Name: "Founders Day"})
	require.NoError(t, err)
	_, err = m.SaveHoliday(ctx, store.Holiday{CompanyID: "other", Date: date("2025-05-13"), Name: "Other"})
	require.NoError(t, err)

	// WHEN: the global holiday is saved again as recurring
	again, err := m.SaveHoliday(ctx, store.Holiday{Date: date("2025-05-01"), Name: "Labour Day", Recurring: true})
	require.NoError(t, err)

	// THEN
	assert.Equal(t, global.ID, again.ID)
	hs, err := m.ListHolidays(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.True(t, hs[0].Recurring)
	assert.Equal(t, "Founders Day", hs[1].Name)

	dates, err := m.HolidaysIn(ctx, "acme", calendar.MonthPeriod(2026, time.May, 1))
	require.NoError(t, err)
	assert.Equal(t, []calendar.Date{date("2026-05-01")}, dates)

	require.NoError(t, m.DeleteHoliday(ctx, global.ID))
	assert.ErrorIs(t, m.DeleteHoliday(ctx, global.ID), store.ErrNotFound)
}

func TestMemory_RecordsReplacementDays(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	facts := []payroll.ReplacementDay{
		{Date: date("2025-04-12"), Band: payroll.BandWeekend, Minutes: 480},
		{Date: date("2025-04-05"), Band: payroll.BandWeekend, Minutes: 240},
	}

	// WHEN: recorded twice through the engine port
	require.NoError(t, engine.Record(ctx, m, "E1", facts))
	facts[0].Minutes = 420
	require.NoError(t, engine.Record(ctx, m, "E1", facts))

	// THEN: one row per date, last write wins, sorted by date
	days, err := m.ListReplacementDays(ctx, "E1")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, date("2025-04-05"), days[0].Date)
	assert.Equal(t, 420, days[1].Minutes)
	assert.Equal(t, "E1", days[1].EmployeeID)

	other, err := m.ListReplacementDays(ctx, "E2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
