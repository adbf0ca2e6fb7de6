/*
scenarios_test.go - Tests for the worked-example scenarios

PURPOSE:
	Runs every scenario through the router and checks the amounts that make
	each one worth keeping: the seniority threshold, the configured loan
	rate and the 21.36% withholding bracket.
*/
package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScenario(t *testing.T, s *testServer, id string) ScenarioRunResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/scenarios/"+id+"/run", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[ScenarioRunResponse](t, rec)
}

func TestListScenarios(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]ScenarioDTO](t, rec)
	require.Len(t, list, len(scenarios))
	for _, sc := range list {
		assert.NotEmpty(t, sc.Name, sc.ID)
		assert.NotNil(t, sc.Input, sc.ID)
		_, ok := forms[sc.Calculator]
		assert.True(t, ok, "scenario %s uses unknown calculator %s", sc.ID, sc.Calculator)
	}
}

func TestAllScenariosRun(t *testing.T) {
	s := setupTestServer(t)

	for _, sc := range scenarios {
		t.Run(sc.ID, func(t *testing.T) {
			resp := runScenario(t, s, sc.ID)
			assert.Equal(t, sc.ID, resp.Scenario.ID)
			assert.Equal(t, sc.Calculator, resp.Calculation.Calculator)
			assert.Equal(t, 2026, resp.Calculation.TableYear)
			assert.NotEmpty(t, resp.Calculation.Lines)
		})
	}
}

func TestScenario_SeniorityThreshold(t *testing.T) {
	// GIVEN: Two resignations either side of fifteen years
	s := setupTestServer(t)

	// WHEN: Both run
	short := runScenario(t, s, "resignation-14-years")
	long := runScenario(t, s, "resignation-15-years")

	// THEN: Only the fifteen-year one earns the premium
	assert.Equal(t, "14.00", lineAmount(t, short.Calculation, "completed_years"))
	assert.Equal(t, "0.00", lineAmount(t, short.Calculation, "seniority_premium"))
	assert.Equal(t, "15.00", lineAmount(t, long.Calculation, "completed_years"))
	assert.NotEqual(t, "0.00", lineAmount(t, long.Calculation, "seniority_premium"))
	assert.Equal(t, "56619.73", lineAmount(t, long.Calculation, "gross_total"))
}

func TestScenario_Amounts(t *testing.T) {
	s := setupTestServer(t)

	assert.Equal(t, "3451.65", lineAmount(t, runScenario(t, s, "isr-25k").Calculation, "tax_withheld"))
	assert.Equal(t, "7960.19", lineAmount(t, runScenario(t, s, "loan-800k").Calculation, "monthly_payment"))

	dismissal := runScenario(t, s, "dismissal-first-year").Calculation
	assert.Equal(t, "liquidacion", dismissal.Calculator)
	assert.NotEqual(t, "0.00", lineAmount(t, dismissal, "seniority_premium"))
}

func TestRunScenario_NotFound(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/scenarios/unknown/run", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
