package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) calendar.Date {
	return calendar.NewDate(year, month, day)
}

// =============================================================================
// CLASSIFIER
// =============================================================================

func TestClassify_Precedence(t *testing.T) {
	// GIVEN: March 2025; the 1st is a Saturday, the 3rd a Monday
	sat := date(2025, time.March, 1)
	mon := date(2025, time.March, 3)
	tue := date(2025, time.March, 4)
	wed := date(2025, time.March, 5)

	cal := calendar.New(calendar.Config{
		Holidays:    []calendar.Date{sat, mon, wed},
		GeneralDays: []calendar.Date{mon, sat},
		Leaves: map[calendar.LeaveKind][]calendar.Date{
			calendar.LeaveSick: {mon, tue},
		},
	})

	tests := []struct {
		name string
		day  calendar.Date
		want calendar.Category
	}{
		{"leave beats general override and holiday", mon, calendar.Leave(calendar.LeaveSick)},
		{"general override beats holiday and weekend", sat, calendar.GeneralOverride},
		{"leave on plain workday", tue, calendar.Leave(calendar.LeaveSick)},
		{"holiday on weekday", wed, calendar.Holiday},
		{"weekend", date(2025, time.March, 2), calendar.Weekend},
		{"workday", date(2025, time.March, 6), calendar.Workday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.Classify(tt.day))
		})
	}
}

func TestClassify_HolidayAndGeneralDayIsGeneralOverride(t *testing.T) {
	d := date(2025, time.May, 1)
	cal := calendar.New(calendar.Config{
		Holidays:    []calendar.Date{d},
		GeneralDays: []calendar.Date{d},
	})

	got := cal.Classify(d)
	assert.Equal(t, calendar.GeneralOverride, got)
	assert.True(t, got.IsWorking())
	assert.False(t, got.IsRestDay())
}

func TestClassify_LeaveOrderIsFixed(t *testing.T) {
	// GIVEN: the same date booked as sick, other and annual leave
	d := date(2025, time.June, 10)
	cal := calendar.New(calendar.Config{
		Leaves: map[calendar.LeaveKind][]calendar.Date{
			calendar.LeaveOther:  {d},
			calendar.LeaveSick:   {d},
			calendar.LeaveAnnual: {d},
		},
	})

	// THEN: annual wins
	assert.Equal(t, calendar.Leave(calendar.LeaveAnnual), cal.Classify(d))

	cal = calendar.New(calendar.Config{
		Leaves: map[calendar.LeaveKind][]calendar.Date{
			calendar.LeaveOther: {d},
			calendar.LeaveSick:  {d},
		},
	})
	assert.Equal(t, calendar.Leave(calendar.LeaveSick), cal.Classify(d))
}

func TestClassify_CustomWeekend(t *testing.T) {
	// Friday/Saturday weekend
	cal := calendar.New(calendar.Config{Weekend: []time.Weekday{time.Friday, time.Saturday}})

	assert.Equal(t, calendar.Weekend, cal.Classify(date(2025, time.March, 7)))  // Fri
	assert.Equal(t, calendar.Workday, cal.Classify(date(2025, time.March, 9)))  // Sun
	assert.True(t, cal.IsWeekendDay(time.Saturday))
	assert.False(t, cal.IsWeekendDay(time.Sunday))
}

func TestClassify_ReplacementDayIsLeave(t *testing.T) {
	worked := date(2025, time.March, 8) // Saturday
	off := date(2025, time.March, 12)

	cal := calendar.New(calendar.Config{
		Replacements: []calendar.Replacement{{Date: worked, RDate: off}},
	})

	assert.Equal(t, calendar.Leave(calendar.LeaveReplacement), cal.Classify(off))
	assert.True(t, cal.IsReplacementSource(worked))
	assert.False(t, cal.IsReplacementSource(off))
}

func TestClassify_TotalOverPeriod(t *testing.T) {
	cal := calendar.New(calendar.Config{
		Holidays: []calendar.Date{date(2025, time.January, 1)},
	})

	for _, d := range calendar.MonthPeriod(2025, time.January, 1).Days() {
		c := cal.Classify(d)
		assert.NotEmpty(t, c.Kind, "every date maps to a category: %s", d)
	}
}

func TestWorkingDays(t *testing.T) {
	// March 2025 has 21 weekdays
	p := calendar.MonthPeriod(2025, time.March, 1)

	cal := calendar.New(calendar.Config{})
	assert.Equal(t, 21, cal.WorkingDays(p))

	// A holiday removes a day, a general override on a Saturday adds one,
	// leave on a workday does not change the count.
	cal = calendar.New(calendar.Config{
		Holidays:    []calendar.Date{date(2025, time.March, 3)},
		GeneralDays: []calendar.Date{date(2025, time.March, 1)},
		Leaves: map[calendar.LeaveKind][]calendar.Date{
			calendar.LeaveSick: {date(2025, time.March, 4)},
		},
	})
	assert.Equal(t, 21, cal.WorkingDays(p))
}

// =============================================================================
// PERIODS
// =============================================================================

func TestMonthPeriod(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		startDay  int
		wantStart calendar.Date
		wantEnd   calendar.Date
	}{
		{"calendar month", 2025, time.February, 1, date(2025, time.February, 1), date(2025, time.February, 28)},
		{"zero start day", 2024, time.February, 0, date(2024, time.February, 1), date(2024, time.February, 29)},
		{"shifted month", 2025, time.March, 26, date(2025, time.February, 26), date(2025, time.March, 25)},
		{"shifted across year", 2025, time.January, 21, date(2024, time.December, 21), date(2025, time.January, 20)},
		{"short previous month", 2025, time.March, 31, date(2025, time.March, 1), date(2025, time.March, 30)},
		{"short current month", 2025, time.February, 31, date(2025, time.January, 31), date(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := calendar.MonthPeriod(tt.year, tt.month, tt.startDay)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEnd, p.End)
		})
	}
}

func TestMonthPeriod_ConsecutivePeriodsDoNotOverlap(t *testing.T) {
	for _, startDay := range []int{1, 15, 26, 29, 30, 31} {
		for m := time.January; m < time.December; m++ {
			cur := calendar.MonthPeriod(2024, m, startDay)
			next := calendar.MonthPeriod(2024, m+1, startDay)
			assert.Equal(t, cur.End.AddDays(1), next.Start, "startDay=%d month=%s", startDay, m)
		}
	}
}

func TestRangePeriod(t *testing.T) {
	p, err := calendar.RangePeriod(date(2025, time.March, 10), date(2025, time.March, 20))
	require.NoError(t, err)
	assert.Equal(t, 11, p.Len())
	assert.Len(t, p.Days(), 11)

	_, err = calendar.RangePeriod(date(2025, time.March, 20), date(2025, time.March, 10))
	assert.ErrorIs(t, err, calendar.ErrInvalidPeriod)

	_, err = calendar.RangePeriod(date(2025, time.January, 1), date(2025, time.June, 1))
	assert.ErrorIs(t, err, calendar.ErrPeriodTooLong)
}

func TestPeriod_DateForDay(t *testing.T) {
	p := calendar.MonthPeriod(2025, time.March, 26)

	d, ok := p.DateForDay(26)
	require.True(t, ok)
	assert.Equal(t, date(2025, time.February, 26), d)

	d, ok = p.DateForDay(3)
	require.True(t, ok)
	assert.Equal(t, date(2025, time.March, 3), d)

	_, ok = calendar.MonthPeriod(2025, time.February, 1).DateForDay(30)
	assert.False(t, ok)
}

func TestPeriod_DateForDayAmbiguous(t *testing.T) {
	// GIVEN: a range that carries day 10 in both March and April
	p, err := calendar.RangePeriod(date(2025, time.March, 5), date(2025, time.April, 20))
	require.NoError(t, err)

	// THEN
	assert.Equal(t, []calendar.Date{date(2025, time.March, 10), date(2025, time.April, 10)}, p.DatesForDay(10))
	_, ok := p.DateForDay(10)
	assert.False(t, ok)

	d, ok := p.DateForDay(2)
	require.True(t, ok)
	assert.Equal(t, date(2025, time.April, 2), d)
}

func TestDate_JSON(t *testing.T) {
	d := date(2025, time.March, 9)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-03-09"`, string(b))

	var back calendar.Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, d.Equal(back))

	assert.Error(t, json.Unmarshal([]byte(`"09/03/2025"`), &back))
}
