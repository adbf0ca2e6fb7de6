/*
scenarios.go - Worked examples for testing and demonstrations

PURPOSE:
	Provides pre-built calculator inputs that exercise the edges of the
	statutory rules: the seniority threshold at fifteen years, a dismissal
	inside the first year, a mortgage amortization and a withholding that
	lands in the 21.36% bracket.

AVAILABLE SCENARIOS:

	resignation-14-years:  Finiquito one day short of the seniority premium
	resignation-15-years:  Finiquito with the seniority premium
	dismissal-first-year:  Liquidación under one year of service
	loan-800k:             800,000 over 20 years at the configured rate
	isr-25k:               Monthly withholding on 25,000

HOW SCENARIOS WORK:
 1. Look up the scenario's form
 2. Run it against the active table set
 3. Return the scenario with the calculation

USAGE VIA API:

	POST /api/scenarios/resignation-15-years/run

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' with ID, calculator and a form

SEE ALSO:
  - handlers.go: run, shared with the calculator endpoints
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/milana/payroll-engine/payroll"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	form calcForm
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "resignation-14-years",
			Name:        "Renuncia con 14 años",
			Description: "Voluntary resignation one day before fifteen years of service: no seniority premium",
			Calculator:  payroll.CalcFiniquito,
		},
		form: &SeveranceForm{
			MonthlySalary: "20000",
			HireDate:      "2011-04-01",
			ExitDate:      "2026-03-27",
			UnpaidDays:    "10",
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "resignation-15-years",
			Name:        "Renuncia con 15 años",
			Description: "Voluntary resignation after fifteen years: seniority premium capped at two UMAs",
			Calculator:  payroll.CalcFiniquito,
		},
		form: &SeveranceForm{
			MonthlySalary: "20000",
			HireDate:      "2011-01-01",
			ExitDate:      "2026-03-31",
			UnpaidDays:    "10",
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "dismissal-first-year",
			Name:        "Despido antes del año",
			Description: "Unjustified dismissal after five months: indemnity and a one-year seniority premium",
			Calculator:  payroll.CalcLiquidacion,
		},
		form: &SeveranceForm{
			MonthlySalary: "15000",
			HireDate:      "2025-11-01",
			ExitDate:      "2026-03-31",
			dismissal:     true,
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "loan-800k",
			Name:        "Crédito de 800 mil",
			Description: "800,000 mortgage over 20 years at the configured annual rate",
			Calculator:  payroll.CalcLoan,
		},
		form: &LoanForm{Principal: "800000", TermYears: "20"},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "isr-25k",
			Name:        "ISR sobre 25 mil",
			Description: "Monthly withholding on 25,000: 21.36% bracket, no subsidy",
			Calculator:  payroll.CalcISR,
		},
		form: &SalaryForm{MonthlySalary: "25000"},
	},
}

func findScenario(id string) (scenario, bool) {
	return lo.Find(scenarios, func(s scenario) bool { return s.ID == id })
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lo.Map(scenarios, func(s scenario, _ int) ScenarioDTO {
		dto := s.ScenarioDTO
		dto.Input = s.form
		return dto
	}))
}

// RunScenario runs a scenario against the active table set.
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := findScenario(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Scenario not found", fmt.Errorf("%q", id))
		return
	}

	calc, err := h.run(s.Calculator, s.form, h.Registry.Current())
	if err != nil {
		writeCalcError(w, err)
		return
	}

	dto := s.ScenarioDTO
	dto.Input = s.form
	writeJSON(w, http.StatusOK, ScenarioRunResponse{
		Scenario:    dto,
		Calculation: calc.CalculationResponse,
	})
}

