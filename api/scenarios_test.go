package api

import (
	"io/fs"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
)

func TestScenarios_Expectations(t *testing.T) {
	tests := []struct {
		id          string
		standard    string
		overtime    string
		total       string
		replacement int
	}{
		// 1000 + 100 bonus; 150 min x 20/h x 1.5
		{id: "standard-week", standard: "1100", overtime: "75", total: "1175"},
		// 1000 - 25 late - 200 absence
		{id: "late-and-absent", standard: "775", overtime: "0", total: "775"},
		// Saturday banked; 180 holiday minutes x 20/h x 3
		{id: "rest-day-work", standard: "1000", overtime: "180", total: "1180", replacement: 1},
	}

	f := factory.NewRequestFactory(nil)
	calc := engine.New()

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			// GIVEN
			rj, err := LoadScenario(tt.id)
			require.NoError(t, err)
			req, gaps, err := f.FromJSON(rj)
			require.NoError(t, err)
			assert.Empty(t, gaps)

			// WHEN
			out, err := calc.Calculate(req)

			// THEN
			require.NoError(t, err)
			assertMoney(t, tt.standard, out.Result.StandardPay, "standard")
			assertMoney(t, tt.overtime, out.Result.OvertimePay, "overtime")
			assertMoney(t, tt.total, out.Result.TotalPay, "total")
			assert.Len(t, out.ReplacementDays, tt.replacement)
		})
	}
}

func TestScenarios_EveryFileIsListed(t *testing.T) {
	files, err := fs.Glob(scenarioFiles, "scenarios/*.yaml")
	require.NoError(t, err)

	listed := make(map[string]bool)
	for _, s := range scenarios {
		listed[s.ID] = true
	}
	assert.Len(t, files, len(scenarios))
	for _, f := range files {
		id := strings.TrimSuffix(strings.TrimPrefix(f, "scenarios/"), ".yaml")
		assert.True(t, listed[id], "scenario file %s is not listed", f)
	}
}

func TestScenarioEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, Options{})

	rec := do(t, router, http.MethodGet, "/api/scenarios", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]ScenarioDTO](t, rec)
	assert.Len(t, list["scenarios"], 3)

	rec = do(t, router, http.MethodPost, "/api/scenarios/rest-day-work/run", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto := decode[CalculationDTO](t, rec)
	assert.Equal(t, 180, dto.Result.OvertimeDetails.HolidayMinutes)
	assert.Equal(t, 0, dto.Result.OvertimeDetails.WeekendMinutes)

	rec = do(t, router, http.MethodPost, "/api/scenarios/nope/run", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
