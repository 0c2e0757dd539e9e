/*
scenarios.go - Bundled demo scenarios

PURPOSE:
  Ships a few complete input bundles (YAML, embedded in the binary) that
  exercise the main payroll behaviours end to end. They double as API
  examples and as fixtures for the handler tests.

AVAILABLE SCENARIOS:
  standard-week:   Full attendance, one overtime evening, attendance bonus
  late-and-absent: Grace period, per-incident late penalty, absence deduction,
                   documented absence excused
  rest-day-work:   Saturday work banked as a replacement day, holiday work
                   paid at the holiday multiplier

USAGE VIA API:
  GET  /api/scenarios
  POST /api/scenarios/rest-day-work/run

ADDING NEW SCENARIOS:
  1. Add scenarios/<id>.yaml using the factory schema
  2. Add an entry to the 'scenarios' slice

NOTE:
  Running a scenario goes through the normal calculation flow, so stored
  holidays are merged and replacement days are recorded.

SEE ALSO:
  - handlers.go: Calculation flow
  - factory/request.go: Bundle schema
*/
package api

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/payroll-engine/factory"
)

// ErrUnknownScenario is returned for a scenario ID that is not bundled.
var ErrUnknownScenario = errors.New("unknown scenario")

//go:embed scenarios/*.yaml
var scenarioFiles embed.FS

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-week",
		Name:        "Standard week",
		Description: "Full attendance with one overtime evening and a full attendance bonus",
	},
	{
		ID:          "late-and-absent",
		Name:        "Late and absent",
		Description: "Lateness under and over the grace period, one undocumented and one documented absence",
	},
	{
		ID:          "rest-day-work",
		Name:        "Rest day work",
		Description: "Saturday work banked as a replacement day and holiday work paid as holiday overtime",
	},
}

// LoadScenario returns the bundle for a scenario ID.
func LoadScenario(id string) (factory.RequestJSON, error) {
	for _, s := range scenarios {
		if s.ID != id {
			continue
		}
		data, err := scenarioFiles.ReadFile("scenarios/" + id + ".yaml")
		if err != nil {
			return factory.RequestJSON{}, fmt.Errorf("scenario %s: %w", id, err)
		}
		b, err := factory.YAMLToJSON(data)
		if err != nil {
			return factory.RequestJSON{}, fmt.Errorf("scenario %s: %w", id, err)
		}
		var rj factory.RequestJSON
		if err := json.Unmarshal(b, &rj); err != nil {
			return factory.RequestJSON{}, fmt.Errorf("scenario %s: %w", id, err)
		}
		return rj, nil
	}
	return factory.RequestJSON{}, fmt.Errorf("%w: %s", ErrUnknownScenario, id)
}

// ListScenarios returns the bundled scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": scenarios})
}

// RunScenario calculates a bundled scenario.
// POST /api/scenarios/{id}/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	rj, err := LoadScenario(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Failed to load scenario", err)
		return
	}

	dto, err := h.calculate(r.Context(), rj, h.company(r))
	if err != nil {
		writeError(w, statusFor(err), "Calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}
