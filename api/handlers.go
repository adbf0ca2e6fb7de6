/*
handlers.go - HTTP API handlers for the payroll calculation engine

PURPOSE:
  Exposes the calculators and the statutory table sets via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  payroll package.

ENDPOINTS:
  Calculators:
    GET    /api/calculators              List calculators
    POST   /api/calculators/{id}         Run a calculator (?year=YYYY)
    POST   /api/calculators/{id}/pdf     Same input, PDF statement

  Tables:
    GET    /api/tables                   List published table sets
    GET    /api/tables/{year}            Table-set document
    PUT    /api/tables/{year}            Validate, persist and publish a document
    POST   /api/tables/{year}/activate   Make a year the default
    POST   /api/tables/reload            Reload every document from the store

  Scenarios:
    GET    /api/scenarios                List worked examples
    POST   /api/scenarios/{id}/run       Run a worked example

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Registry: published table sets (atomic snapshot)
  - Store: table-set documents
  - Reloader: shared with the background scheduler

REQUEST FLOW:
  1. Resolve calculator and table set
  2. Decode the textual form
  3. Run the calculator against one snapshot of the tables
  4. Serialize result, line items and caveats

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, invalid date, invalid table document
  - 404: Unknown calculator or statutory year
  - 422: Insufficient input (names the field)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - calculators.go: Form to calculator dispatch
  - scenarios.go: Worked examples
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/milana/payroll-engine/factory"
	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/payroll"
	"github.com/milana/payroll-engine/report"
	"github.com/milana/payroll-engine/statutory"
)

const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *statutory.Registry
	Store    statutory.Store
	Reloader *ReloadScheduler

	newID func() string
	now   func() time.Time
}

// NewHandler creates a new handler. The reloader is shared with the
// background scheduler started by the caller.
func NewHandler(registry *statutory.Registry, store statutory.Store, reloader *ReloadScheduler) *Handler {
	return &Handler{
		Registry: registry,
		Store:    store,
		Reloader: reloader,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// ListCalculators returns the registered calculators.
func (h *Handler) ListCalculators(w http.ResponseWriter, r *http.Request) {
	dtos := lo.FilterMap(generic.ListCalculators(), func(d generic.Descriptor, _ int) (CalculatorDTO, bool) {
		_, ok := forms[d.ID]
		return CalculatorDTO{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Endpoint:    "/api/calculators/" + d.ID,
		}, ok
	})
	writeJSON(w, http.StatusOK, dtos)
}

// Calculate runs a calculator and returns its result as JSON.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp, err := h.calculate(r, id)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CalculatePDF runs a calculator and returns a PDF statement.
func (h *Handler) CalculatePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp, err := h.calculate(r, id)
	if err != nil {
		writeCalcError(w, err)
		return
	}

	desc, _ := generic.LookupCalculator(id)
	var buf bytes.Buffer
	err = report.WriteStatement(&buf, report.Statement{
		Title:         desc.Name,
		CalculationID: resp.CalculationID,
		Calculator:    id,
		TableYear:     resp.TableYear,
		GeneratedAt:   h.now(),
		Lines:         resp.lines,
		Caveats:       resp.Caveats,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render statement", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s-%s.pdf"`, id, resp.CalculationID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// calculation is a CalculationResponse plus the raw lines for rendering.
type calculation struct {
	CalculationResponse
	lines []generic.LineItem
}

func (h *Handler) calculate(r *http.Request, id string) (*calculation, error) {
	form, err := newForm(id)
	if err != nil {
		return nil, err
	}
	ts, err := h.tableSet(r)
	if err != nil {
		return nil, err
	}
	if err := decodeForm(r.Body, form); err != nil {
		return nil, err
	}
	return h.run(id, form, ts)
}

func (h *Handler) run(id string, form calcForm, ts *statutory.TableSet) (*calculation, error) {
	result, err := form.Calculate(ts)
	if err != nil {
		return nil, err
	}

	lines := result.Lines()
	caveats := payroll.Caveats(result)
	if caveats == nil {
		caveats = []string{}
	}
	calc := &calculation{
		CalculationResponse: CalculationResponse{
			CalculationID: h.newID(),
			Calculator:    id,
			TableYear:     ts.Year,
			Result:        result,
			Lines:         toLineDTOs(lines),
			Caveats:       caveats,
		},
		lines: lines,
	}
	log.WithFields(logrus.Fields{
		"calculation_id": calc.CalculationID,
		"calculator":     id,
		"table_year":     ts.Year,
	}).Debug("calculation completed")
	return calc, nil
}

// tableSet resolves ?year=YYYY, defaulting to the active year.
func (h *Handler) tableSet(r *http.Request) (*statutory.TableSet, error) {
	year := generic.ParseIntOr(r.URL.Query().Get("year"), 0)
	return h.Registry.ForYear(year)
}

// errBadBody marks a request body that is not valid JSON.
var errBadBody = errors.New("invalid request body")

func decodeForm(body io.Reader, form calcForm) error {
	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, form); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func toLineDTOs(lines []generic.LineItem) []LineDTO {
	return lo.Map(lines, func(l generic.LineItem, _ int) LineDTO {
		dto := LineDTO{
			Key:     l.Key,
			Label:   l.Label,
			Amount:  l.Amount.StringFixed(2),
			Display: report.Value(l),
		}
		if l.Quantity.Valid {
			dto.Quantity = strPtr(l.Quantity.Decimal.String())
		}
		return dto
	})
}

// =============================================================================
// TABLE HANDLERS
// =============================================================================

// ListTables returns every published table set with its stored version.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListTableSets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list table sets", err)
		return
	}
	byYear := lo.KeyBy(records, func(rec statutory.TableSetRecord) int { return rec.Year })

	active := h.Registry.Active()
	dtos := make([]TableSetDTO, 0)
	for _, year := range h.Registry.Years() {
		ts, err := h.Registry.ForYear(year)
		if err != nil {
			continue
		}
		dto := TableSetDTO{Year: year, Name: ts.Name, Source: ts.Source, Active: year == active}
		if rec, ok := byYear[year]; ok {
			dto.Version = rec.Version
			dto.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTable returns the published document for a year.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	ts, err := h.Registry.ForYear(year)
	if err != nil {
		writeError(w, http.StatusNotFound, "Table set not found", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToDocument(ts))
}

// PutTable validates a JSON document, persists it and publishes it.
func (h *Handler) PutTable(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	doc, err := factory.DecodeDocument(factory.FormatJSON, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid table document", err)
		return
	}
	if doc.Year == 0 {
		doc.Year = year
	}
	if doc.Year != year {
		writeError(w, http.StatusBadRequest, "Document year does not match URL", fmt.Errorf("document %d, url %d", doc.Year, year))
		return
	}
	ts, err := doc.Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid table document", err)
		return
	}

	// store the normalized document so the year is always present
	normalized, err := json.Marshal(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode document", err)
		return
	}
	version, err := h.Reloader.Publish(r.Context(), statutory.TableSetRecord{
		Year:     year,
		Name:     doc.Name,
		Format:   factory.FormatJSON,
		Document: string(normalized),
	}, ts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to publish table set", err)
		return
	}

	writeJSON(w, http.StatusOK, TableSetDTO{
		Year:      year,
		Name:      ts.Name,
		Source:    ts.Source,
		Active:    h.Registry.Active() == year,
		Version:   version,
		UpdatedAt: h.now().UTC().Format(time.RFC3339),
	})
}

// ActivateTable makes a published year the default.
func (h *Handler) ActivateTable(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	if err := h.Registry.SetActive(year); err != nil {
		writeError(w, http.StatusNotFound, "Table set not found", err)
		return
	}
	ts := h.Registry.Current()
	writeJSON(w, http.StatusOK, TableSetDTO{Year: ts.Year, Name: ts.Name, Source: ts.Source, Active: true})
}

// ReloadTables re-reads every stored document and publishes them.
func (h *Handler) ReloadTables(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Reloader.RunNow(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Reload failed, previous tables kept", err)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{
		Loaded:  summary.Loaded,
		Skipped: summary.Skipped,
		Years:   summary.Years,
		Active:  summary.Active,
		At:      summary.At.Format(time.RFC3339),
	})
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, false
	}
	return year, true
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{
		Status:     "ok",
		ActiveYear: h.Registry.Active(),
		Years:      h.Registry.Years(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

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

// writeCalcError maps calculation errors to HTTP statuses.
func writeCalcError(w http.ResponseWriter, err error) {
	var inputErr *generic.InsufficientInputError
	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "insufficient_input",
			Field:   inputErr.Field,
			Details: err.Error(),
		})
	case errors.Is(err, errBadBody):
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		log.WithError(err).Error("calculation failed")
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
	}
}

func strPtr(s string) *string {
	return &s
}
