/*
Package engine runs one payroll calculation end to end.

PURPOSE:
  Orchestrates the pure pipeline for one employee and period:

    classify + resolve + evaluate every date  ->  payroll.Context
    compiled rule program                      ->  payroll.Context
    aggregate                                  ->  payroll.Result

  The engine performs no I/O. Facts that callers may want to persist
  (replacement days) are returned in the Outcome.

KEY CONCEPTS IN THIS FILE (calculator.go):
  - Request: everything one calculation needs
  - Outcome: the result plus replacement-day facts and configuration gaps
  - Calculator: holds the rule registry and logger; safe for concurrent use

SEE ALSO:
  - batch.go: Fan-out across employees
  - replacement.go: Port for persisting replacement days
  - factory/request.go: Builds Requests from JSON/YAML bundles
*/
package engine

import (
	"fmt"
	"log/slog"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rules"
)

// =============================================================================
// REQUEST & OUTCOME
// =============================================================================

// Request is the input of one calculation. It is read-only to the engine.
type Request struct {
	EmployeeID string
	Period     calendar.Period
	Attendance []attendance.Row
	Salary     payroll.SalaryInfo
	Calendar   calendar.Config
	Documents  []attendance.PunchDocument
	Shift      attendance.ShiftConfig
	Rules      []rules.Record

	// Program is Rules compiled at load time. When nil, Calculate compiles
	// Rules itself.
	Program *rules.Program
}

// Outcome is the output of one calculation.
type Outcome struct {
	EmployeeID      string                   `json:"employeeId"`
	Period          calendar.Period          `json:"period"`
	Result          payroll.Result           `json:"result"`
	ReplacementDays []payroll.ReplacementDay `json:"replacementDays,omitempty"`
	Gaps            []error                  `json:"-"`
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator runs calculations. It holds no per-call state.
type Calculator struct {
	registry *rules.Registry
	logger   *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger. Calculations log at debug and warn only.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry replaces the built-in rule registry.
func WithRegistry(r *rules.Registry) Option {
	return func(c *Calculator) {
		if r != nil {
			c.registry = r
		}
	}
}

// New creates a Calculator with the built-in rules and a discarding logger.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		registry: rules.DefaultRegistry(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the rule registry in use.
func (c *Calculator) Registry() *rules.Registry { return c.registry }

// Calculate runs one calculation. The only errors are a missing base salary
// (payroll.ErrMissingSalary) and an unusable period; every other irregularity
// is recovered and, where relevant, reported in Outcome.Gaps.
func (c *Calculator) Calculate(req Request) (Outcome, error) {
	log := c.logger.With("employee", req.EmployeeID)

	if err := req.Salary.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("employee %s: %w", req.EmployeeID, err)
	}
	if err := req.Period.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("employee %s: %w", req.EmployeeID, err)
	}

	cal := calendar.New(req.Calendar)
	ctx := payroll.NewContext(payroll.Settings{
		Salary:      req.Salary,
		WorkingDays: cal.WorkingDays(req.Period),
	})

	program := req.Program
	if program == nil {
		program, _ = rules.Compile(req.Rules, c.registry)
	}
	gaps := program.Gaps()
	for _, gap := range gaps {
		log.Warn("rule skipped", "error", gap)
	}
	for _, id := range program.Unknown() {
		log.Debug("unknown rule id ignored", "rule_id", int(id))
	}

	out := Outcome{EmployeeID: req.EmployeeID, Period: req.Period, Gaps: gaps}

	records := attendance.NewNormalizer(log, req.EmployeeID).Index(req.Period, req.Attendance)
	if len(records) == 0 {
		log.Warn("no attendance records for period",
			"period", req.Period.String(), "rows", len(req.Attendance))
		out.Result = payroll.Degenerate(ctx, payroll.NoticeMissingAttendance)
		return out, nil
	}
	evaluator := attendance.NewEvaluator(
		cal,
		attendance.NewResolver(req.Shift),
		attendance.NewDocuments(req.Documents...),
		log,
	)
	for _, d := range req.Period.Days() {
		rec, ok := records[d]
		if !ok {
			rec = attendance.EmptyRecord(d)
		}
		evaluator.Evaluate(ctx, rec)
	}

	program.Apply(ctx)

	out.Result = payroll.Aggregate(ctx)
	out.ReplacementDays = ctx.ReplacementDays
	log.Debug("payroll calculated",
		"standard_pay", out.Result.StandardPay.String(),
		"overtime_pay", out.Result.OvertimePay.String(),
		"rules", len(program.Rules()))
	return out, nil
}
