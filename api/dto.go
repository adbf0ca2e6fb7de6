/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calculators' input and result structs from the external API contract.

NAMING CONVENTION:
  - *Form: Calculator request bodies (textual, as a form layer sends them)
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

FORM VALUES:
  Every form field is a FormValue: the body may carry "25,000.00", 25000 or
  nothing at all. Conversion to numbers happens in calculators.go through
  the permissive parsers in generic/parse.go, so a missing field reaches the
  calculator as zero and comes back as an insufficient-input error.

VALIDATION:
  Validation is done by the calculators, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - calculators.go: Form to calculator input conversion
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"
)

// =============================================================================
// FORM VALUE
// =============================================================================

// FormValue is the raw text of a form field. It accepts a JSON string, a
// JSON number or null.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(b)
	return nil
}

// =============================================================================
// CALCULATOR FORMS
// =============================================================================

// SeveranceForm is the body of finiquito and liquidacion.
type SeveranceForm struct {
	MonthlySalary       FormValue `json:"monthly_salary"`
	HireDate            FormValue `json:"hire_date"`
	ExitDate            FormValue `json:"exit_date"`
	UnpaidDays          FormValue `json:"unpaid_days"`
	PendingVacationDays FormValue `json:"pending_vacation_days"`

	dismissal bool
}

// SalaryForm is the body of isr and bruto-neto.
type SalaryForm struct {
	MonthlySalary FormValue `json:"monthly_salary"`

	netPay bool
}

type AguinaldoForm struct {
	MonthlySalary FormValue `json:"monthly_salary"`
	BonusDays     FormValue `json:"bonus_days"`
	HireDate      FormValue `json:"hire_date"`
	AsOf          FormValue `json:"as_of"`
}

type ResicoForm struct {
	MonthlyIncome FormValue `json:"monthly_income"`
}

type PTUForm struct {
	MonthlySalary FormValue `json:"monthly_salary"`
	DaysWorked    FormValue `json:"days_worked"`
	CompanyProfit FormValue `json:"company_profit"`
	Headcount     FormValue `json:"headcount"`
}

type VacationForm struct {
	TenureYears   FormValue `json:"tenure_years"`
	MonthlySalary FormValue `json:"monthly_salary"`
}

type LoanForm struct {
	Principal  FormValue `json:"principal"`
	AnnualRate FormValue `json:"annual_rate"`
	TermYears  FormValue `json:"term_years"`
	Schedule   bool      `json:"schedule"`
}

type PensionForm struct {
	MonthlySalary    FormValue `json:"monthly_salary"`
	Age              FormValue `json:"age"`
	WeeksContributed FormValue `json:"weeks_contributed"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CalculatorDTO describes a registered calculator.
type CalculatorDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Endpoint    string `json:"endpoint"`
}

// LineDTO is one line item. Amount is rounded to cents; Display is the
// es-MX rendering.
type LineDTO struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Amount   string  `json:"amount"`
	Quantity *string `json:"quantity,omitempty"`
	Display  string  `json:"display"`
}

// CalculationResponse is returned by every calculator endpoint.
type CalculationResponse struct {
	CalculationID string    `json:"calculation_id"`
	Calculator    string    `json:"calculator"`
	TableYear     int       `json:"table_year"`
	Result        any       `json:"result"`
	Lines         []LineDTO `json:"lines"`
	Caveats       []string  `json:"caveats"`
}

// TableSetDTO summarizes a published table set.
type TableSetDTO struct {
	Year      int    `json:"year"`
	Name      string `json:"name"`
	Source    string `json:"source,omitempty"`
	Active    bool   `json:"active"`
	Version   int    `json:"version,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ReloadResponse reports a table reload.
type ReloadResponse struct {
	Loaded  int    `json:"loaded"`
	Skipped int    `json:"skipped"`
	Years   []int  `json:"years"`
	Active  int    `json:"active"`
	At      string `json:"at"`
}

// ScenarioDTO represents a worked example.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Calculator  string `json:"calculator"`
	Input       any    `json:"input"`
}

// ScenarioRunResponse is a scenario together with its calculation.
type ScenarioRunResponse struct {
	Scenario    ScenarioDTO         `json:"scenario"`
	Calculation CalculationResponse `json:"calculation"`
}

// HealthDTO is returned by /healthz.
type HealthDTO struct {
	Status     string `json:"status"`
	ActiveYear int    `json:"active_year"`
	Years      []int  `json:"years"`
}

// ErrorResponse is returned on errors. Field names the offending input on
// insufficient-input errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}
