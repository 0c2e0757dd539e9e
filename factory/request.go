/*
Package factory provides JSON/YAML to Go request conversion.

PURPOSE:
  Converts an input bundle (attendance, salary info, salary rules, calendar
  and shift configuration for one employee) into an engine.Request. All
  load-time validation happens here: malformed configuration clocks,
  unknown leave kinds and unusable periods are errors, and rule records that
  cannot be decoded are reported as configuration gaps before the engine
  ever runs.

JSON SCHEMA:
  {
    "employee_id": "E-1001",
    "period": {"year": 2025, "month": 4, "start_day": 1},
    "attendance": [[1, "09:00", "12:00", "13:00", "18:00"], ...],
    "salary_info": {
      "base_salary": 3000,
      "overtime_rate": "20",
      "overtime_enabled": true,
      "rounding_minutes": 30,
      "multipliers": {"normal": 1.5, "weekend": 2, "holiday": 3}
    },
    "salary_rules": {
      "rules": [{"rule_id": 7, "status": "enabled", "param1": 10}],
      "holidays": ["2025-04-18"],
      "general_days": [],
      "replace_days": [{"date": "2025-04-05", "rdate": "2025-04-14"}],
      "punch_documents": [{"date": "2025-04-09", "cut_salary": false}],
      "weekend_weekdays": ["saturday", "sunday"],
      "leave_dates": {"annual": ["2025-04-22"]}
    },
    "shift": {
      "mode": "normal",
      "normal": {"start_am": "09:00", "end_am": "12:00",
                 "start_pm": "13:00", "end_pm": "18:00",
                 "overtime_start": "18:00"}
    }
  }

  A period is either {year, month, start_day} or {start, end}. YAML bundles
  use the same keys.

USAGE:
  f := factory.NewRequestFactory(rules.DefaultRegistry())
  req, gaps, err := f.ParseYAML(data)
  out, err := engine.New().Calculate(req)

SEE ALSO:
  - engine/calculator.go: Request definition
  - rules/registry.go: Rule definitions used to pre-compile records
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rules"
)

// ErrInvalidRequest wraps every load-time validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RequestJSON is the wire representation of one calculation.
type RequestJSON struct {
	EmployeeID  string           `json:"employee_id"`
	Period      PeriodJSON       `json:"period"`
	Attendance  []attendance.Row `json:"attendance"`
	SalaryInfo  SalaryInfoJSON   `json:"salary_info"`
	SalaryRules SalaryRulesJSON  `json:"salary_rules"`
	Shift       ShiftJSON        `json:"shift"`
}

// PeriodJSON selects calendar-month mode (year, month, start_day) or range
// mode (start, end).
type PeriodJSON struct {
	Year     int    `json:"year,omitempty"`
	Month    int    `json:"month,omitempty"`
	StartDay int    `json:"start_day,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}

// SalaryInfoJSON represents the salary configuration. Money accepts numbers
// or numeric strings.
type SalaryInfoJSON struct {
	BaseSalary      decimal.NullDecimal `json:"base_salary"`
	OvertimeRate    decimal.Decimal     `json:"overtime_rate"`
	OvertimeEnabled bool                `json:"overtime_enabled"`
	WorkingDays     int                 `json:"working_days,omitempty"`
	RoundingMinutes int                 `json:"rounding_minutes,omitempty"`
	Multipliers     MultipliersJSON     `json:"multipliers"`
}

// MultipliersJSON holds the per-band overtime multipliers.
type MultipliersJSON struct {
	Normal  decimal.Decimal `json:"normal"`
	Weekend decimal.Decimal `json:"weekend"`
	Holiday decimal.Decimal `json:"holiday"`
}

// SalaryRulesJSON carries the rule records and the employee calendar.
type SalaryRulesJSON struct {
	Rules           []rules.Record             `json:"rules"`
	Holidays        []calendar.Date            `json:"holidays"`
	GeneralDays     []calendar.Date            `json:"general_days"`
	ReplaceDays     []calendar.Replacement     `json:"replace_days"`
	PunchDocuments  []attendance.PunchDocument `json:"punch_documents"`
	WeekendWeekdays []Weekday                  `json:"weekend_weekdays"`
	LeaveDates      map[string][]calendar.Date `json:"leave_dates"`
}

// ShiftJSON represents the shift configuration.
type ShiftJSON struct {
	Mode    string           `json:"mode"`
	Normal  *WindowJSON      `json:"normal,omitempty"`
	Special SpecialShiftJSON `json:"special"`
}

// SpecialShiftJSON holds per-date windows, weekday templates keyed by
// weekday name or number, and the general-day override window.
type SpecialShiftJSON struct {
	Dates    map[string]WindowJSON `json:"dates,omitempty"`
	Weekdays map[string]WindowJSON `json:"weekdays,omitempty"`
	Override *WindowJSON           `json:"override,omitempty"`
}

// WindowJSON is a shift window with HH:MM clocks. Leaving end_am and
// start_pm empty describes a continuous shift.
type WindowJSON struct {
	StartAM       string `json:"start_am"`
	EndAM         string `json:"end_am,omitempty"`
	StartPM       string `json:"start_pm,omitempty"`
	EndPM         string `json:"end_pm"`
	OvertimeStart string `json:"overtime_start,omitempty"`
}

// Weekday accepts "saturday", "sat" or the time.Weekday number (0 = Sunday).
type Weekday time.Weekday

func (w *Weekday) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		wd, err := weekdayFromInt(n)
		if err != nil {
			return err
		}
		*w = Weekday(wd)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("weekday must be a name or number: %s", string(b))
	}
	wd, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*w = Weekday(wd)
	return nil
}

func (w Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(time.Weekday(w).String()))
}

// =============================================================================
// REQUEST FACTORY
// =============================================================================

// RequestFactory converts input bundles to engine requests.
type RequestFactory struct {
	registry *rules.Registry
}

// NewRequestFactory creates a factory that pre-compiles rule records against
// registry. A nil registry uses the built-in rules.
func NewRequestFactory(registry *rules.Registry) *RequestFactory {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	return &RequestFactory{registry: registry}
}

// ParseJSON parses a JSON bundle.
func (f *RequestFactory) ParseJSON(data []byte) (engine.Request, []error, error) {
	var rj RequestJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return engine.Request{}, nil, fmt.Errorf("%w: failed to parse request JSON: %w", ErrInvalidRequest, err)
	}
	return f.FromJSON(rj)
}

// ParseYAML parses a YAML bundle. The document is converted to JSON first so
// both formats share one schema and one set of decoders.
func (f *RequestFactory) ParseYAML(data []byte) (engine.Request, []error, error) {
	b, err := YAMLToJSON(data)
	if err != nil {
		return engine.Request{}, nil, err
	}
	return f.ParseJSON(b)
}

// FromJSON converts RequestJSON to an engine.Request. The rule records are
// compiled once here and carried on Request.Program; the returned gaps are
// the records the engine will skip, not errors.
func (f *RequestFactory) FromJSON(rj RequestJSON) (engine.Request, []error, error) {
	period, err := parsePeriod(rj.Period)
	if err != nil {
		return engine.Request{}, nil, invalid("period", err)
	}

	cal, err := parseCalendar(rj.SalaryRules)
	if err != nil {
		return engine.Request{}, nil, err
	}

	shift, err := parseShift(rj.Shift)
	if err != nil {
		return engine.Request{}, nil, err
	}

	req := engine.Request{
		EmployeeID: rj.EmployeeID,
		Period:     period,
		Attendance: rj.Attendance,
		Salary:     parseSalary(rj.SalaryInfo),
		Calendar:   cal,
		Documents:  rj.SalaryRules.PunchDocuments,
		Shift:      shift,
		Rules:      rj.SalaryRules.Rules,
	}

	program, gaps := rules.Compile(req.Rules, f.registry)
	req.Program = program
	return req, gaps, nil
}

// YAMLToJSON re-encodes a YAML document as JSON. Mappings with non-string
// keys (e.g. weekday numbers) get their keys stringified.
func YAMLToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse request YAML: %w", ErrInvalidRequest, err)
	}
	b, err := json.Marshal(jsonCompatible(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to convert YAML: %w", ErrInvalidRequest, err)
	}
	return b, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func invalid(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidRequest, field, err)
}

func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = jsonCompatible(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = jsonCompatible(val)
		}
		return t
	default:
		return v
	}
}

func parsePeriod(pj PeriodJSON) (calendar.Period, error) {
	if pj.Start != "" || pj.End != "" {
		start, err := calendar.ParseDate(pj.Start)
		if err != nil {
			return calendar.Period{}, err
		}
		end, err := calendar.ParseDate(pj.End)
		if err != nil {
			return calendar.Period{}, err
		}
		return calendar.RangePeriod(start, end)
	}

	if pj.Year <= 0 || pj.Month < 1 || pj.Month > 12 {
		return calendar.Period{}, fmt.Errorf("year and month 1-12 are required, got %d-%d", pj.Year, pj.Month)
	}
	if pj.StartDay < 0 || pj.StartDay > 31 {
		return calendar.Period{}, fmt.Errorf("start_day must be 0-31, got %d", pj.StartDay)
	}
	return calendar.MonthPeriod(pj.Year, time.Month(pj.Month), pj.StartDay), nil
}

func parseSalary(sj SalaryInfoJSON) payroll.SalaryInfo {
	return payroll.SalaryInfo{
		BaseSalary:      sj.BaseSalary,
		OvertimeRate:    sj.OvertimeRate,
		OvertimeEnabled: sj.OvertimeEnabled,
		WorkingDays:     sj.WorkingDays,
		RoundingMinutes: sj.RoundingMinutes,
		Multipliers: payroll.Multipliers{
			Normal:  sj.Multipliers.Normal,
			Weekend: sj.Multipliers.Weekend,
			Holiday: sj.Multipliers.Holiday,
		},
	}
}

func parseCalendar(sr SalaryRulesJSON) (calendar.Config, error) {
	cfg := calendar.Config{
		Holidays:     sr.Holidays,
		GeneralDays:  sr.GeneralDays,
		Replacements: sr.ReplaceDays,
	}
	for _, wd := range sr.WeekendWeekdays {
		cfg.Weekend = append(cfg.Weekend, time.Weekday(wd))
	}
	if len(sr.LeaveDates) > 0 {
		cfg.Leaves = make(map[calendar.LeaveKind][]calendar.Date, len(sr.LeaveDates))
		for name, dates := range sr.LeaveDates {
			kind, err := calendar.ParseLeaveKind(name)
			if err != nil {
				return calendar.Config{}, invalid("salary_rules.leave_dates", err)
			}
			cfg.Leaves[kind] = append(cfg.Leaves[kind], dates...)
		}
	}
	return cfg, nil
}

func parseShift(sj ShiftJSON) (attendance.ShiftConfig, error) {
	var cfg attendance.ShiftConfig
	switch strings.ToLower(sj.Mode) {
	case "", string(attendance.ModeNormal):
		cfg.Mode = attendance.ModeNormal
	case string(attendance.ModeSpecial):
		cfg.Mode = attendance.ModeSpecial
	default:
		return cfg, invalid("shift.mode", fmt.Errorf("unknown mode %q", sj.Mode))
	}

	if sj.Normal != nil {
		w, err := parseWindow(*sj.Normal)
		if err != nil {
			return cfg, invalid("shift.normal", err)
		}
		cfg.Normal = w
	}

	if len(sj.Special.Dates) > 0 {
		cfg.Special.Dates = make(map[calendar.Date]attendance.Window, len(sj.Special.Dates))
		for key, wj := range sj.Special.Dates {
			d, err := calendar.ParseDate(key)
			if err != nil {
				return cfg, invalid("shift.special.dates", err)
			}
			w, err := parseWindow(wj)
			if err != nil {
				return cfg, invalid("shift.special.dates."+key, err)
			}
			cfg.Special.Dates[d] = w
		}
	}

	if len(sj.Special.Weekdays) > 0 {
		cfg.Special.Weekdays = make(map[time.Weekday]attendance.Window, len(sj.Special.Weekdays))
		for key, wj := range sj.Special.Weekdays {
			wd, err := ParseWeekday(key)
			if err != nil {
				return cfg, invalid("shift.special.weekdays", err)
			}
			w, err := parseWindow(wj)
			if err != nil {
				return cfg, invalid("shift.special.weekdays."+key, err)
			}
			cfg.Special.Weekdays[wd] = w
		}
	}

	if sj.Special.Override != nil {
		w, err := parseWindow(*sj.Special.Override)
		if err != nil {
			return cfg, invalid("shift.special.override", err)
		}
		cfg.Special.Override = &w
	}
	return cfg, nil
}

// parseWindow parses configured clocks strictly; unlike punch data a bad
// clock here is a configuration error.
func parseWindow(wj WindowJSON) (attendance.Window, error) {
	fields := []struct {
		name  string
		token string
	}{
		{"start_am", wj.StartAM},
		{"end_am", wj.EndAM},
		{"start_pm", wj.StartPM},
		{"end_pm", wj.EndPM},
		{"overtime_start", wj.OvertimeStart},
	}
	clocks := make([]attendance.Clock, len(fields))
	for i, f := range fields {
		c, err := attendance.ParseClock(f.token)
		if err != nil {
			return attendance.Window{}, fmt.Errorf("%s: %w", f.name, err)
		}
		clocks[i] = c
	}

	w := attendance.Window{
		StartAM:       clocks[0],
		EndAM:         clocks[1],
		StartPM:       clocks[2],
		EndPM:         clocks[3],
		OvertimeStart: clocks[4],
	}
	if !w.Valid() {
		return attendance.Window{}, fmt.Errorf("window %s has no usable start and end", w)
	}
	return w, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday parses a weekday name, abbreviation or number (0 = Sunday,
// 7 is also accepted for Sunday).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[s]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return weekdayFromInt(n)
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func weekdayFromInt(n int) (time.Weekday, error) {
	if n == 7 {
		return time.Sunday, nil
	}
	if n < 0 || n > 6 {
		return 0, fmt.Errorf("weekday number must be 0-7, got %d", n)
	}
	return time.Weekday(n), nil
}
