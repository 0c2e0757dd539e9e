package api

import (
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// CALCULATION DTOs
// =============================================================================

// CalculationDTO is one calculation's response. Result is nil and Error set
// when the calculation failed (batch items only; single calculations use
// ErrorResponse).
type CalculationDTO struct {
	CalculationID   string                   `json:"calculationId"`
	EmployeeID      string                   `json:"employeeId"`
	Period          *calendar.Period         `json:"period,omitempty"`
	Result          *payroll.Result          `json:"result,omitempty"`
	ReplacementDays []payroll.ReplacementDay `json:"replacementDays,omitempty"`
	Gaps            []string                 `json:"gaps,omitempty"`
	Error           string                   `json:"error,omitempty"`
}

// BatchRequest is the body of POST /api/payroll/batch.
type BatchRequest struct {
	Requests []factory.RequestJSON `json:"requests"`
}

// BatchResponse holds one item per request, in request order.
type BatchResponse struct {
	Results []CalculationDTO `json:"results"`
	Failed  int              `json:"failed"`
}

// =============================================================================
// HOLIDAY & REPLACEMENT DAY DTOs
// =============================================================================

// CreateHolidayRequest is the body of POST /api/holidays.
type CreateHolidayRequest struct {
	CompanyID string `json:"company_id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

type HolidaysResponse struct {
	Holidays []store.Holiday `json:"holidays"`
}

type ReplacementDaysResponse struct {
	EmployeeID      string                 `json:"employee_id"`
	ReplacementDays []store.ReplacementDay `json:"replacement_days"`
	TotalMinutes    int                    `json:"total_minutes"`
}

// =============================================================================
// SCENARIO DTOs
// =============================================================================

// ScenarioDTO describes a bundled demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCalculationDTO(id string, out engine.Outcome) CalculationDTO {
	period := out.Period
	result := out.Result
	return CalculationDTO{
		CalculationID:   id,
		EmployeeID:      out.EmployeeID,
		Period:          &period,
		Result:          &result,
		ReplacementDays: out.ReplacementDays,
		Gaps:            errorStrings(out.Gaps),
	}
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
