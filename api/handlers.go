/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON/YAML decoding, and the collaborator work the engine itself never
  does: merging stored holidays into each request calendar and recording
  replacement days after each calculation.

ENDPOINTS:
  Payroll:
    POST   /api/payroll/calculate      Calculate one employee (JSON or YAML body)
    POST   /api/payroll/batch          Calculate many employees concurrently

  Holidays:
    GET    /api/holidays               List holidays (?company_id=)
    POST   /api/holidays               Create holiday
    DELETE /api/holidays/{id}          Delete holiday

  Employees:
    GET    /api/employees/{id}/replacement-days  Banked replacement days

  Scenarios:
    GET    /api/scenarios              List bundled demo scenarios
    POST   /api/scenarios/{id}/run     Calculate a demo scenario

REQUEST FLOW:
  1. Decode body (YAML when Content-Type mentions yaml)
  2. factory.FromJSON: load-time validation, rule gaps
  3. Merge stored holidays for the period
  4. engine.Calculate
  5. Record replacement days, observe metrics
  6. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid bundle, missing salary, unusable period
  - 404: Record not found
  - 413: Batch too large
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenarios
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/google/uuid"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options configures a Handler.
type Options struct {
	// CompanyID selects stored holidays when a request has no company_id.
	CompanyID string
	// Workers bounds batch concurrency; <= 0 means GOMAXPROCS.
	Workers int
	// MaxBatch bounds the number of requests in one batch; <= 0 means 500.
	MaxBatch int
	Logger   *slog.Logger
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      store.Store
	Factory    *factory.RequestFactory
	Calculator *engine.Calculator

	companyID string
	workers   int
	maxBatch  int
	logger    *slog.Logger
}

// NewHandler creates a new handler. The factory shares the calculator's
// rule registry so load-time gaps match what the engine will skip.
func NewHandler(st store.Store, calc *engine.Calculator, opts Options) *Handler {
	if calc == nil {
		calc = engine.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxBatch := opts.MaxBatch
	if maxBatch <= 0 {
		maxBatch = 500
	}
	return &Handler{
		Store:      st,
		Factory:    factory.NewRequestFactory(calc.Registry()),
		Calculator: calc,
		companyID:  opts.CompanyID,
		workers:    opts.Workers,
		maxBatch:   maxBatch,
		logger:     logger,
	}
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// Calculate runs one calculation.
// POST /api/payroll/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	if isYAML(r) {
		if body, err = factory.YAMLToJSON(body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	var rj factory.RequestJSON
	if err := json.Unmarshal(body, &rj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dto, err := h.calculate(ctx, rj, h.company(r))
	if err != nil {
		writeError(w, statusFor(err), "Calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// CalculateBatch runs one calculation per request concurrently. Per-item
// failures are reported in the item; the call itself only fails on a bad
// body or an oversized batch.
// POST /api/payroll/batch
func (h *Handler) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Requests) == 0 {
		writeError(w, http.StatusBadRequest, "At least one request is required", nil)
		return
	}
	if len(req.Requests) > h.maxBatch {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Batch exceeds %d requests", h.maxBatch), nil)
		return
	}
	BatchSize.Observe(float64(len(req.Requests)))
	company := h.company(r)

	resp := BatchResponse{Results: make([]CalculationDTO, len(req.Requests))}

	// Load every bundle first; only valid ones go to the engine.
	var (
		reqs    []engine.Request
		gaps    [][]error
		indexOf []int
	)
	for i, rj := range req.Requests {
		er, g, err := h.prepare(ctx, rj, company)
		if err != nil {
			resp.Results[i] = CalculationDTO{EmployeeID: rj.EmployeeID, Error: err.Error()}
			observeCalculation(outcomeFailed, 0, 0)
			continue
		}
		reqs = append(reqs, er)
		gaps = append(gaps, g)
		indexOf = append(indexOf, i)
	}

	start := time.Now()
	items, err := h.Calculator.CalculateBatch(ctx, reqs, h.workers)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Batch cancelled", err)
		return
	}
	perItem := time.Since(start) / time.Duration(max(len(items), 1))

	for j, item := range items {
		i := indexOf[j]
		if item.Err != nil {
			resp.Results[i] = CalculationDTO{EmployeeID: reqs[j].EmployeeID, Error: item.Err.Error()}
			observeCalculation(outcomeFailed, 0, perItem)
			continue
		}
		item.Outcome.Gaps = gaps[j]
		dto, err := h.finish(ctx, item.Outcome, perItem)
		if err != nil {
			resp.Results[i] = CalculationDTO{EmployeeID: reqs[j].EmployeeID, Error: err.Error()}
			continue
		}
		resp.Results[i] = dto
	}

	for _, res := range resp.Results {
		if res.Error != "" {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// calculate runs the full single-request flow.
func (h *Handler) calculate(ctx context.Context, rj factory.RequestJSON, company string) (CalculationDTO, error) {
	req, gaps, err := h.prepare(ctx, rj, company)
	if err != nil {
		observeCalculation(outcomeFailed, 0, 0)
		return CalculationDTO{}, err
	}

	start := time.Now()
	out, err := h.Calculator.Calculate(req)
	if err != nil {
		observeCalculation(outcomeFailed, 0, time.Since(start))
		return CalculationDTO{}, err
	}
	out.Gaps = gaps
	return h.finish(ctx, out, time.Since(start))
}

// prepare builds the engine request and merges stored holidays into it.
func (h *Handler) prepare(ctx context.Context, rj factory.RequestJSON, company string) (engine.Request, []error, error) {
	req, gaps, err := h.Factory.FromJSON(rj)
	if err != nil {
		return engine.Request{}, nil, err
	}
	if h.Store != nil {
		stored, err := h.Store.HolidaysIn(ctx, company, req.Period)
		if err != nil {
			return engine.Request{}, nil, fmt.Errorf("load holidays: %w", err)
		}
		req.Calendar.Holidays = append(append([]calendar.Date(nil), req.Calendar.Holidays...), stored...)
	}
	return req, gaps, nil
}

// finish records replacement days, observes metrics and builds the DTO.
func (h *Handler) finish(ctx context.Context, out engine.Outcome, elapsed time.Duration) (CalculationDTO, error) {
	id := uuid.NewString()
	httplog.SetAttrs(ctx, slog.String("calculation_id", id))

	if h.Store != nil && len(out.ReplacementDays) > 0 {
		if err := engine.Record(ctx, h.Store, out.EmployeeID, out.ReplacementDays); err != nil {
			observeCalculation(outcomeFailed, len(out.Gaps), elapsed)
			return CalculationDTO{}, fmt.Errorf("record replacement days: %w", err)
		}
		ReplacementDaysRecorded.Add(float64(len(out.ReplacementDays)))
	}

	outcome := outcomeOK
	if out.Result.Notice != "" {
		outcome = outcomeDegenerate
	}
	observeCalculation(outcome, len(out.Gaps), elapsed)

	h.logger.InfoContext(ctx, "payroll calculated",
		"calculation_id", id,
		"employee", out.EmployeeID,
		"period", out.Period.String(),
		"total_pay", out.Result.TotalPay.String(),
		"gaps", len(out.Gaps))
	return toCalculationDTO(id, out), nil
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns company and global holidays.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context(), h.company(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}
	if holidays == nil {
		holidays = []store.Holiday{}
	}
	writeJSON(w, http.StatusOK, HolidaysResponse{Holidays: holidays})
}

// CreateHoliday creates a new holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Date == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday, err := h.Store.SaveHoliday(r.Context(), store.Holiday{
		CompanyID: req.CompanyID,
		Date:      date,
		Name:      req.Name,
		Recurring: req.Recurring,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, holiday)
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		writeError(w, statusFor(err), "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListReplacementDays returns an employee's banked replacement days.
// GET /api/employees/{id}/replacement-days
func (h *Handler) ListReplacementDays(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	days, err := h.Store.ListReplacementDays(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get replacement days", err)
		return
	}

	resp := ReplacementDaysResponse{EmployeeID: employeeID, ReplacementDays: days}
	if resp.ReplacementDays == nil {
		resp.ReplacementDays = []store.ReplacementDay{}
	}
	for _, d := range days {
		resp.TotalMinutes += d.Minutes
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness and, when the store supports it, database health.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) company(r *http.Request) string {
	if c := r.URL.Query().Get("company_id"); c != "" {
		return c
	}
	return h.companyID
}

func isYAML(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "yaml")
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, factory.ErrInvalidRequest),
		errors.Is(err, payroll.ErrMissingSalary),
		errors.Is(err, calendar.ErrInvalidPeriod),
		errors.Is(err, calendar.ErrPeriodTooLong):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, ErrUnknownScenario):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
