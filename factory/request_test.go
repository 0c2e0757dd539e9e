package factory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/rules"
)

// Mon 7 Apr - Fri 11 Apr 2025, Friday is a holiday: 4 working days.
const bundleJSON = `{
  "employee_id": "E-1001",
  "period": {"start": "2025-04-07", "end": "2025-04-11"},
  "attendance": [
    [7, "09:00", "12:00", "13:00", "18:00"],
    [8, "09:20", "12:00", "13:00", "18:00"],
    {"day": 10, "punches": ["09:00", "12:00", "13:00", "18:00", "18:00", "19:45"]}
  ],
  "salary_info": {
    "base_salary": "1000",
    "overtime_rate": 20,
    "overtime_enabled": true,
    "rounding_minutes": 30,
    "multipliers": {"normal": 1.5, "weekend": 2, "holiday": 3}
  },
  "salary_rules": {
    "rules": [
      {"rule_id": 7, "status": "enabled", "param1": 10},
      {"rule_id": 17, "status": "active"},
      {"rule_id": 12, "status": "disabled", "param1": 99}
    ],
    "holidays": ["2025-04-11"],
    "weekend_weekdays": ["sat", 0],
    "leave_dates": {"annual": ["2025-04-21"]}
  },
  "shift": {
    "mode": "normal",
    "normal": {"start_am": "09:00", "end_am": "12:00", "start_pm": "13:00", "end_pm": "18:00", "overtime_start": "18:00"}
  }
}`

const bundleYAML = `
employee_id: E-1001
period:
  start: 2025-04-07
  end: 2025-04-11
attendance:
  - [7, "09:00", "12:00", "13:00", "18:00"]
  - [8, "09:20", "12:00", "13:00", "18:00"]
  - day: 10
    punches: ["09:00", "12:00", "13:00", "18:00", "18:00", "19:45"]
salary_info:
  base_salary: "1000"
  overtime_rate: 20
  overtime_enabled: true
  rounding_minutes: 30
  multipliers: {normal: 1.5, weekend: 2, holiday: 3}
salary_rules:
  rules:
    - {rule_id: 7, status: enabled, param1: 10}
    - {rule_id: 17, status: active}
    - {rule_id: 12, status: disabled, param1: 99}
  holidays: [2025-04-11]
  weekend_weekdays: [sat, 0]
  leave_dates:
    annual: [2025-04-21]
shift:
  mode: normal
  normal:
    start_am: "09:00"
    end_am: "12:00"
    start_pm: "13:00"
    end_pm: "18:00"
    overtime_start: "18:00"
`

func newFactory() *factory.RequestFactory {
	return factory.NewRequestFactory(rules.DefaultRegistry())
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// PARSING
// =============================================================================

func TestParseJSON_BuildsRequest(t *testing.T) {
	// WHEN
	req, gaps, err := newFactory().ParseJSON([]byte(bundleJSON))

	// THEN
	require.NoError(t, err)
	assert.Empty(t, gaps)
	assert.Equal(t, "E-1001", req.EmployeeID)
	assert.Equal(t, calendar.MustParseDate("2025-04-07"), req.Period.Start)
	assert.Equal(t, calendar.MustParseDate("2025-04-11"), req.Period.End)
	assert.Len(t, req.Attendance, 3)
	assert.Equal(t, 10, req.Attendance[2].Day)

	require.True(t, req.Salary.BaseSalary.Valid)
	assert.True(t, dec("1000").Equal(req.Salary.BaseSalary.Decimal))
	assert.True(t, dec("1.5").Equal(req.Salary.Multipliers.Normal))
	assert.Equal(t, 30, req.Salary.RoundingMinutes)

	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, req.Calendar.Weekend)
	assert.Equal(t, []calendar.Date{calendar.MustParseDate("2025-04-11")}, req.Calendar.Holidays)
	assert.Len(t, req.Calendar.Leaves[calendar.LeaveAnnual], 1)

	assert.Equal(t, attendance.ModeNormal, req.Shift.Mode)
	assert.True(t, req.Shift.Normal.IsSplit())
	assert.Equal(t, attendance.MustParseClock("18:00"), req.Shift.Normal.OvertimeStart)
	assert.Len(t, req.Rules, 3)
}

func TestParseJSON_EndToEnd(t *testing.T) {
	// GIVEN: 4 working days at 1000 -> daily rate 250
	req, _, err := newFactory().ParseJSON([]byte(bundleJSON))
	require.NoError(t, err)

	// WHEN
	out, err := engine.New().Calculate(req)

	// THEN: one late (10), one undocumented absence (250), 105 OT minutes -> 90
	require.NoError(t, err)
	r := out.Result
	assert.True(t, dec("10").Equal(r.DeductionsBreakdown["late_penalty_per_incident"]))
	assert.True(t, dec("250").Equal(r.DeductionsBreakdown["absence_salary_deduction"]))
	assert.NotContains(t, r.DeductionsBreakdown, "early_leave_penalty_per_incident")
	assert.True(t, dec("740").Equal(r.StandardPay), "standard %s", r.StandardPay)
	assert.Equal(t, 90, r.OvertimeDetails.NormalMinutes)
	assert.True(t, dec("45").Equal(r.OvertimePay), "overtime %s", r.OvertimePay)
	assert.True(t, dec("785").Equal(r.TotalPay))
	assert.Equal(t, 4, r.WorkingDays)
}

func TestParseYAML_MatchesJSON(t *testing.T) {
	// GIVEN: the same bundle in both formats
	f := newFactory()
	fromJSON, _, err := f.ParseJSON([]byte(bundleJSON))
	require.NoError(t, err)
	fromYAML, gaps, err := f.ParseYAML([]byte(bundleYAML))
	require.NoError(t, err)
	assert.Empty(t, gaps)

	// WHEN
	a, err := engine.New().Calculate(fromJSON)
	require.NoError(t, err)
	b, err := engine.New().Calculate(fromYAML)
	require.NoError(t, err)

	// THEN
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.JSONEq(t, string(ja), string(jb))
	assert.Equal(t, fromJSON.Calendar, fromYAML.Calendar)
	assert.Equal(t, fromJSON.Shift, fromYAML.Shift)
}

func TestYAMLToJSON_StringifiesKeys(t *testing.T) {
	b, err := factory.YAMLToJSON([]byte("weekdays:\n  1: a\n  2025-04-07: b\n"))

	require.NoError(t, err)
	assert.JSONEq(t, `{"weekdays": {"1": "a", "2025-04-07": "b"}}`, string(b))
}

func TestFromJSON_MonthPeriod(t *testing.T) {
	rj := factory.RequestJSON{Period: factory.PeriodJSON{Year: 2025, Month: 3, StartDay: 26}}

	req, _, err := newFactory().FromJSON(rj)

	require.NoError(t, err)
	assert.Equal(t, calendar.MonthPeriod(2025, time.March, 26), req.Period)
	assert.Equal(t, "2025-02-26", req.Period.Start.String())
}

func TestFromJSON_MissingSalaryIsLeftToEngine(t *testing.T) {
	rj := factory.RequestJSON{Period: factory.PeriodJSON{Year: 2025, Month: 4}}

	req, _, err := newFactory().FromJSON(rj)

	require.NoError(t, err)
	assert.False(t, req.Salary.BaseSalary.Valid)
}

// =============================================================================
// SPECIAL SHIFTS
// =============================================================================

func TestFromJSON_SpecialShift(t *testing.T) {
	data := `{
	  "period": {"year": 2025, "month": 4},
	  "shift": {
	    "mode": "special",
	    "special": {
	      "dates": {"2025-04-12": {"start_am": "10:00", "end_pm": "14:00"}},
	      "weekdays": {"monday": {"start_am": "08:00", "end_pm": "16:00"}, "2": {"start_am": "09:00", "end_pm": "17:00"}},
	      "override": {"start_am": "09:30", "end_pm": "15:30"}
	    }
	  }
	}`

	req, _, err := newFactory().ParseJSON([]byte(data))

	require.NoError(t, err)
	sp := req.Shift.Special
	assert.Equal(t, attendance.ModeSpecial, req.Shift.Mode)
	assert.Equal(t, attendance.MustParseClock("10:00"), sp.Dates[calendar.MustParseDate("2025-04-12")].Start())
	assert.Equal(t, attendance.MustParseClock("08:00"), sp.Weekdays[time.Monday].Start())
	assert.Equal(t, attendance.MustParseClock("17:00"), sp.Weekdays[time.Tuesday].End())
	require.NotNil(t, sp.Override)
	assert.False(t, sp.Override.IsSplit())
	assert.Equal(t, 360, sp.Override.Minutes())
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestFromJSON_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"no period", `{}`},
		{"bad month", `{"period": {"year": 2025, "month": 13}}`},
		{"range reversed", `{"period": {"start": "2025-04-10", "end": "2025-04-01"}}`},
		{"range too long", `{"period": {"start": "2025-01-01", "end": "2025-06-01"}}`},
		{"unknown leave kind", `{"period": {"year": 2025, "month": 4}, "salary_rules": {"leave_dates": {"unpaid": ["2025-04-01"]}}}`},
		{"bad weekday", `{"period": {"year": 2025, "month": 4}, "salary_rules": {"weekend_weekdays": ["someday"]}}`},
		{"bad shift mode", `{"period": {"year": 2025, "month": 4}, "shift": {"mode": "rotating"}}`},
		{"bad clock", `{"period": {"year": 2025, "month": 4}, "shift": {"normal": {"start_am": "9h", "end_pm": "17:00"}}}`},
		{"window without end", `{"period": {"year": 2025, "month": 4}, "shift": {"normal": {"start_am": "09:00"}}}`},
		{"bad special date", `{"period": {"year": 2025, "month": 4}, "shift": {"mode": "special", "special": {"dates": {"12/04": {"start_am": "09:00", "end_pm": "17:00"}}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newFactory().ParseJSON([]byte(tt.data))
			assert.ErrorIs(t, err, factory.ErrInvalidRequest)
		})
	}
}

func TestParseYAML_Malformed(t *testing.T) {
	_, _, err := newFactory().ParseYAML([]byte("period: [unclosed"))
	assert.ErrorIs(t, err, factory.ErrInvalidRequest)
}

func TestFromJSON_ReportsRuleGaps(t *testing.T) {
	// GIVEN: an absence penalty with an unusable amount and an unknown rule
	data := `{
	  "period": {"year": 2025, "month": 4},
	  "salary_rules": {"rules": [
	    {"rule_id": 15, "param1": "lots"},
	    {"rule_id": 999, "param1": 1}
	  ]}
	}`

	// WHEN
	req, gaps, err := newFactory().ParseJSON([]byte(data))

	// THEN: the request still loads; only the bad record is a gap
	require.NoError(t, err)
	assert.Len(t, req.Rules, 2)
	require.Len(t, gaps, 1)
	assert.True(t, rules.IsConfigurationGap(gaps[0]))

	// THEN: the compiled program travels with the request
	require.NotNil(t, req.Program)
	assert.Equal(t, gaps, req.Program.Gaps())
	assert.Equal(t, []rules.ID{999}, req.Program.Unknown())
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"Saturday", time.Saturday},
		{"sun", time.Sunday},
		{" FRI ", time.Friday},
		{"0", time.Sunday},
		{"7", time.Sunday},
		{"3", time.Wednesday},
	}
	for _, tt := range tests {
		got, err := factory.ParseWeekday(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := factory.ParseWeekday("8")
	assert.Error(t, err)
}
