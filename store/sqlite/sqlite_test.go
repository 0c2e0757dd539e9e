package sqlite_test

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
	"github.com/warp/payroll-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func date(s string) calendar.Date { return calendar.MustParseDate(s) }

func TestStore_SaveAndListHolidays(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	// GIVEN
	h, err := st.SaveHoliday(ctx, store.Holiday{Date: date("2025-04-18"), Name: "Good Friday"})
	require.NoError(t, err)
	_, err = st.SaveHoliday(ctx, store.Holiday{CompanyID: "acme", Date: date("2025-01-01"), Name: "New Year", Recurring: true})
	require.NoError(t, err)
	_, err = st.SaveHoliday(ctx, store.Holiday{CompanyID: "other", Date: date("2025-04-02"), Name: "Other"})
	require.NoError(t, err)

	// WHEN: upsert on (company, date, name)
	again, err := st.SaveHoliday(ctx, store.Holiday{Date: date("2025-04-18"), Name: "Good Friday", Recurring: true})
	require.NoError(t, err)

	// THEN
	assert.Equal(t, h.ID, again.ID)
	hs, err := st.ListHolidays(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "New Year", hs[0].Name)
	assert.True(t, hs[0].Recurring)
	assert.True(t, hs[1].Recurring)
	assert.Equal(t, date("2025-04-18"), hs[1].Date)
}

func TestStore_HolidaysIn(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	for _, h := range []store.Holiday{
		{Date: date("2025-04-18"), Name: "Good Friday"},
		{Date: date("2025-05-01"), Name: "Labour Day"},
		{Date: date("2020-04-25"), Name: "Anniversary", Recurring: true},
		{CompanyID: "other", Date: date("2025-04-02"), Name: "Other"},
	} {
		_, err := st.SaveHoliday(ctx, h)
		require.NoError(t, err)
	}

	dates, err := st.HolidaysIn(ctx, "acme", calendar.MonthPeriod(2025, time.April, 1))

	require.NoError(t, err)
	assert.Equal(t, []calendar.Date{date("2025-04-18"), date("2025-04-25")}, dates)
}

func TestStore_DeleteHoliday(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	h, err := st.SaveHoliday(ctx, store.Holiday{Date: date("2025-04-18"), Name: "Good Friday"})
	require.NoError(t, err)

	require.NoError(t, st.DeleteHoliday(ctx, h.ID))
	assert.ErrorIs(t, st.DeleteHoliday(ctx, h.ID), store.ErrNotFound)

	hs, err := st.ListHolidays(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestStore_SaveHolidayRequiresDateAndName(t *testing.T) {
	_, err := newStore(t).SaveHoliday(context.Background(), store.Holiday{Name: "Undated"})
	assert.Error(t, err)
}

func TestStore_ReplacementDays(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	facts := []payroll.ReplacementDay{
		{Date: date("2025-04-12"), Band: payroll.BandWeekend, Minutes: 480},
		{Date: date("2025-04-18"), Band: payroll.BandHoliday, Minutes: 300},
	}

	// WHEN: the same facts are recorded twice, the second time amended
	require.NoError(t, engine.Record(ctx, st, "E1", facts))
	facts[1].Minutes = 360
	require.NoError(t, engine.Record(ctx, st, "E1", facts))

	// THEN
	days, err := st.ListReplacementDays(ctx, "E1")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, payroll.BandWeekend, days[0].Band)
	assert.Equal(t, 480, days[0].Minutes)
	assert.Equal(t, payroll.BandHoliday, days[1].Band)
	assert.Equal(t, 360, days[1].Minutes)
	assert.NotEmpty(t, days[1].ID)
	assert.False(t, days[1].RecordedAt.IsZero())

	assert.Error(t, st.RecordReplacementDay(ctx, "", facts[0]))
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	_, err := st.SaveHoliday(ctx, store.Holiday{Date: date("2025-04-18"), Name: "Good Friday"})
	require.NoError(t, err)
	require.NoError(t, st.RecordReplacementDay(ctx, "E1", payroll.ReplacementDay{Date: date("2025-04-12"), Band: payroll.BandWeekend, Minutes: 60}))

	require.NoError(t, st.Reset(ctx))

	hs, _ := st.ListHolidays(ctx, "")
	days, _ := st.ListReplacementDays(ctx, "E1")
	assert.Empty(t, hs)
	assert.Empty(t, days)
	assert.NoError(t, st.Ping(ctx))
}
