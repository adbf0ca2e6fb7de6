/*
Package factory converts table-set documents into statutory.TableSet values.

PURPOSE:
  Statutory tables change every year and are published as plain tables.
  Keeping them as YAML/JSON documents lets a new year be added (or a
  correction published) without code changes: the document is parsed,
  validated and handed to the statutory.Registry.

DOCUMENT SCHEMA (YAML shown, JSON uses the same keys):
  year: 2026
  name: "Tablas 2026"
  monthly_isr:                       # progressive, last row without ls
    - {li: 0.01, ls: 844.59, cf: 0, tasa: 1.92}
    - {li: 425642.00, cf: 133488.54, tasa: 35}
  annual_isr: [...]
  resico:
    fallback_rate: 2.5
    bands: [{li: 0.01, ls: 25000, tasa: 1.0}, ...]
  vacation:
    through_year: 35
    tiers: [{from_year: 1, days: 12}, ...]
  constants:
    uma_daily: 117.31
    ...

KEY FEATURES:
  - Strict decoding: unknown keys are rejected
  - Policy constants (percentages, day counts) default to the current
    statutory values when omitted; amounts that change yearly do not
  - Embedded default documents for every supported year

USAGE:
  ts, err := factory.ParseYAML(data)
  ts := factory.MustDefault(2026)

SEE ALSO:
  - statutory/types.go: TableSet definition
  - tables/*.yaml: embedded defaults
*/
package factory

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

var log = logrus.WithField("module", "factory")

//go:embed tables/*.yaml
var embedded embed.FS

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// TableSetDocument is the serialized form of a TableSet.
type TableSetDocument struct {
	Year       int          `json:"year" yaml:"year"`
	Name       string       `json:"name" yaml:"name"`
	Source     string       `json:"source,omitempty" yaml:"source,omitempty"`
	MonthlyISR []BracketRow `json:"monthly_isr" yaml:"monthly_isr"`
	AnnualISR  []BracketRow `json:"annual_isr" yaml:"annual_isr"`
	Resico     FlatTableDoc `json:"resico" yaml:"resico"`
	Vacation   VacationDoc  `json:"vacation" yaml:"vacation"`
	Constants  ConstantsDoc `json:"constants" yaml:"constants"`
}

// BracketRow is one published row. Upper is nil for the open top row.
// Amounts decode from the document text directly, so a published 844.59
// stays 844.59 whether written as a number or a string.
type BracketRow struct {
	Lower      decimal.Decimal  `json:"li" yaml:"li"`
	Upper      *decimal.Decimal `json:"ls,omitempty" yaml:"ls,omitempty"`
	FixedQuota decimal.Decimal  `json:"cf,omitempty" yaml:"cf,omitempty"`
	Rate       decimal.Decimal  `json:"tasa" yaml:"tasa"`
}

type FlatTableDoc struct {
	FallbackRate decimal.Decimal `json:"fallback_rate" yaml:"fallback_rate"`
	Bands        []BracketRow    `json:"bands" yaml:"bands"`
}

type VacationDoc struct {
	ThroughYear int           `json:"through_year" yaml:"through_year"`
	Tiers       []VacationRow `json:"tiers" yaml:"tiers"`
}

type VacationRow struct {
	FromYear int `json:"from_year" yaml:"from_year"`
	Days     int `json:"days" yaml:"days"`
}

// ConstantsDoc mirrors statutory.Constants. Zero means "use the default"
// except for LoanRatePercent, where an explicit 0 is a valid rate.
type ConstantsDoc struct {
	MinimumWage       decimal.Decimal `json:"minimum_wage" yaml:"minimum_wage"`
	MinimumWageBorder decimal.Decimal `json:"minimum_wage_border" yaml:"minimum_wage_border"`
	UMADaily          decimal.Decimal `json:"uma_daily" yaml:"uma_daily"`
	UMAMonthly        decimal.Decimal `json:"uma_monthly" yaml:"uma_monthly"`
	UMAAnnual         decimal.Decimal `json:"uma_annual" yaml:"uma_annual"`
	EmploymentSubsidy decimal.Decimal `json:"employment_subsidy" yaml:"employment_subsidy"`

	SubsidyThresholdUMAs decimal.Decimal `json:"subsidy_threshold_umas,omitempty" yaml:"subsidy_threshold_umas,omitempty"`
	SubsidyMonthDays     decimal.Decimal `json:"subsidy_month_days,omitempty" yaml:"subsidy_month_days,omitempty"`

	LoanRatePercent *decimal.Decimal `json:"loan_rate_percent,omitempty" yaml:"loan_rate_percent,omitempty"`
	LoanTermYears   int              `json:"loan_term_years,omitempty" yaml:"loan_term_years,omitempty"`

	VATRatePercent          decimal.Decimal `json:"vat_rate_percent,omitempty" yaml:"vat_rate_percent,omitempty"`
	IMSSEmployeeRatePercent decimal.Decimal `json:"imss_employee_rate_percent,omitempty" yaml:"imss_employee_rate_percent,omitempty"`
	WorkHoursPerMonth       decimal.Decimal `json:"work_hours_per_month,omitempty" yaml:"work_hours_per_month,omitempty"`

	AforeContributionPercent decimal.Decimal `json:"afore_contribution_percent,omitempty" yaml:"afore_contribution_percent,omitempty"`
	AforeYieldPercent        decimal.Decimal `json:"afore_yield_percent,omitempty" yaml:"afore_yield_percent,omitempty"`
	PensionMinWeeks          int             `json:"pension_min_weeks,omitempty" yaml:"pension_min_weeks,omitempty"`
	PensionRetirementAge     int             `json:"pension_retirement_age,omitempty" yaml:"pension_retirement_age,omitempty"`
	PensionLifeExpectancy    int             `json:"pension_life_expectancy,omitempty" yaml:"pension_life_expectancy,omitempty"`

	PTUPoolPercent      decimal.Decimal `json:"ptu_pool_percent,omitempty" yaml:"ptu_pool_percent,omitempty"`
	PTUCapMonths        decimal.Decimal `json:"ptu_cap_months,omitempty" yaml:"ptu_cap_months,omitempty"`
	PTUExemptUMAs       decimal.Decimal `json:"ptu_exempt_umas,omitempty" yaml:"ptu_exempt_umas,omitempty"`
	AguinaldoDays       int             `json:"aguinaldo_days,omitempty" yaml:"aguinaldo_days,omitempty"`
	AguinaldoExemptUMAs decimal.Decimal `json:"aguinaldo_exempt_umas,omitempty" yaml:"aguinaldo_exempt_umas,omitempty"`

	VacationPremiumPercent      decimal.Decimal `json:"vacation_premium_percent,omitempty" yaml:"vacation_premium_percent,omitempty"`
	SeniorityDaysPerYear        decimal.Decimal `json:"seniority_days_per_year,omitempty" yaml:"seniority_days_per_year,omitempty"`
	SeniorityCapUMAs            decimal.Decimal `json:"seniority_cap_umas,omitempty" yaml:"seniority_cap_umas,omitempty"`
	SeniorityMinYears           int             `json:"seniority_min_years,omitempty" yaml:"seniority_min_years,omitempty"`
	ConstitutionalIndemnityDays decimal.Decimal `json:"constitutional_indemnity_days,omitempty" yaml:"constitutional_indemnity_days,omitempty"`
	IndemnityDaysPerYear        decimal.Decimal `json:"indemnity_days_per_year,omitempty" yaml:"indemnity_days_per_year,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseJSON decodes and builds a TableSet from a JSON document.
func ParseJSON(data []byte) (*statutory.TableSet, error) {
	doc, err := DecodeDocument(FormatJSON, data)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// ParseYAML decodes and builds a TableSet from a YAML document.
func ParseYAML(data []byte) (*statutory.TableSet, error) {
	doc, err := DecodeDocument(FormatYAML, data)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// DecodeDocument decodes data in the given format, rejecting unknown keys.
func DecodeDocument(format string, data []byte) (*TableSetDocument, error) {
	var doc TableSetDocument
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid JSON table set: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid YAML table set: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported table set format %q", format)
	}
	return &doc, nil
}

// FromRecord builds the TableSet stored in rec.
func FromRecord(rec statutory.TableSetRecord) (*statutory.TableSet, error) {
	doc, err := DecodeDocument(rec.Format, []byte(rec.Document))
	if err != nil {
		return nil, fmt.Errorf("table set %d v%d: %w", rec.Year, rec.Version, err)
	}
	if doc.Year != rec.Year {
		return nil, fmt.Errorf("table set %d v%d: document declares year %d", rec.Year, rec.Version, doc.Year)
	}
	return doc.Build()
}

// =============================================================================
// DOCUMENT -> TABLE SET
// =============================================================================

// Build converts the document, applies defaults and validates the result.
func (doc *TableSetDocument) Build() (*statutory.TableSet, error) {
	vacationTiers := lo.Map(doc.Vacation.Tiers, func(r VacationRow, _ int) statutory.VacationTier {
		return statutory.VacationTier{FromYear: r.FromYear, Days: r.Days}
	})
	throughYear := doc.Vacation.ThroughYear
	if throughYear == 0 && len(vacationTiers) > 0 {
		throughYear = vacationTiers[len(vacationTiers)-1].FromYear + 4
	}
	vacation, err := statutory.NewVacationTable(vacationTiers, throughYear)
	if err != nil {
		return nil, fmt.Errorf("table set %d: %w", doc.Year, err)
	}

	ts := &statutory.TableSet{
		Year:       doc.Year,
		Name:       doc.Name,
		Source:     doc.Source,
		MonthlyISR: progressiveTable("monthly_isr", doc.MonthlyISR),
		AnnualISR:  progressiveTable("annual_isr", doc.AnnualISR),
		Resico: generic.BracketTable{
			Name:                "resico",
			Mode:                generic.ModeFlat,
			Brackets:            brackets(doc.Resico.Bands),
			FallbackRatePercent: doc.Resico.FallbackRate,
		},
		Vacation:  vacation,
		Constants: doc.Constants.build(),
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

func progressiveTable(name string, rows []BracketRow) generic.BracketTable {
	return generic.BracketTable{Name: name, Mode: generic.ModeProgressive, Brackets: brackets(rows)}
}

func brackets(rows []BracketRow) []generic.Bracket {
	return lo.Map(rows, func(r BracketRow, _ int) generic.Bracket {
		b := generic.Bracket{
			Lower:       r.Lower,
			FixedQuota:  r.FixedQuota,
			RatePercent: r.Rate,
		}
		if r.Upper == nil {
			b.Unbounded = true
		} else {
			b.Upper = *r.Upper
		}
		return b
	})
}

func orDefault(v decimal.Decimal, def string) decimal.Decimal {
	if v.IsZero() {
		return decimal.RequireFromString(def)
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func (c ConstantsDoc) build() statutory.Constants {
	loanRate := decimal.RequireFromString("10.45")
	if c.LoanRatePercent != nil {
		loanRate = *c.LoanRatePercent
	}
	return statutory.Constants{
		MinimumWage:       c.MinimumWage,
		MinimumWageBorder: c.MinimumWageBorder,
		UMADaily:          c.UMADaily,
		UMAMonthly:        c.UMAMonthly,
		UMAAnnual:         c.UMAAnnual,
		EmploymentSubsidy: c.EmploymentSubsidy,

		SubsidyThresholdUMAs: orDefault(c.SubsidyThresholdUMAs, "3"),
		SubsidyMonthDays:     orDefault(c.SubsidyMonthDays, "30.4"),

		LoanRatePercent: loanRate,
		LoanTermYears:   orDefaultInt(c.LoanTermYears, 20),

		VATRatePercent:          orDefault(c.VATRatePercent, "16"),
		IMSSEmployeeRatePercent: orDefault(c.IMSSEmployeeRatePercent, "2.5"),
		WorkHoursPerMonth:       orDefault(c.WorkHoursPerMonth, "160"),

		AforeContributionPercent: orDefault(c.AforeContributionPercent, "6.5"),
		AforeYieldPercent:        orDefault(c.AforeYieldPercent, "4"),
		PensionMinWeeks:          orDefaultInt(c.PensionMinWeeks, 825),
		PensionRetirementAge:     orDefaultInt(c.PensionRetirementAge, 65),
		PensionLifeExpectancy:    orDefaultInt(c.PensionLifeExpectancy, 85),

		PTUPoolPercent:      orDefault(c.PTUPoolPercent, "10"),
		PTUCapMonths:        orDefault(c.PTUCapMonths, "3"),
		PTUExemptUMAs:       orDefault(c.PTUExemptUMAs, "15"),
		AguinaldoDays:       orDefaultInt(c.AguinaldoDays, 15),
		AguinaldoExemptUMAs: orDefault(c.AguinaldoExemptUMAs, "30"),

		VacationPremiumPercent:      orDefault(c.VacationPremiumPercent, "25"),
		SeniorityDaysPerYear:        orDefault(c.SeniorityDaysPerYear, "12"),
		SeniorityCapUMAs:            orDefault(c.SeniorityCapUMAs, "2"),
		SeniorityMinYears:           orDefaultInt(c.SeniorityMinYears, 15),
		ConstitutionalIndemnityDays: orDefault(c.ConstitutionalIndemnityDays, "90"),
		IndemnityDaysPerYear:        orDefault(c.IndemnityDaysPerYear, "20"),
	}
}

// =============================================================================
// TABLE SET -> DOCUMENT
// =============================================================================

// ToDocument renders ts in document form, with every default made explicit.
func ToDocument(ts *statutory.TableSet) *TableSetDocument {
	c := ts.Constants
	loanRate := c.LoanRatePercent
	return &TableSetDocument{
		Year:       ts.Year,
		Name:       ts.Name,
		Source:     ts.Source,
		MonthlyISR: rows(ts.MonthlyISR.Brackets),
		AnnualISR:  rows(ts.AnnualISR.Brackets),
		Resico: FlatTableDoc{
			FallbackRate: ts.Resico.FallbackRatePercent,
			Bands:        rows(ts.Resico.Brackets),
		},
		Vacation: VacationDoc{
			ThroughYear: ts.Vacation.Len(),
			Tiers: lo.Map(ts.Vacation.Tiers(), func(t statutory.VacationTier, _ int) VacationRow {
				return VacationRow{FromYear: t.FromYear, Days: t.Days}
			}),
		},
		Constants: ConstantsDoc{
			MinimumWage:                 c.MinimumWage,
			MinimumWageBorder:           c.MinimumWageBorder,
			UMADaily:                    c.UMADaily,
			UMAMonthly:                  c.UMAMonthly,
			UMAAnnual:                   c.UMAAnnual,
			EmploymentSubsidy:           c.EmploymentSubsidy,
			SubsidyThresholdUMAs:        c.SubsidyThresholdUMAs,
			SubsidyMonthDays:            c.SubsidyMonthDays,
			LoanRatePercent:             &loanRate,
			LoanTermYears:               c.LoanTermYears,
			VATRatePercent:              c.VATRatePercent,
			IMSSEmployeeRatePercent:     c.IMSSEmployeeRatePercent,
			WorkHoursPerMonth:           c.WorkHoursPerMonth,
			AforeContributionPercent:    c.AforeContributionPercent,
			AforeYieldPercent:           c.AforeYieldPercent,
			PensionMinWeeks:             c.PensionMinWeeks,
			PensionRetirementAge:        c.PensionRetirementAge,
			PensionLifeExpectancy:       c.PensionLifeExpectancy,
			PTUPoolPercent:              c.PTUPoolPercent,
			PTUCapMonths:                c.PTUCapMonths,
			PTUExemptUMAs:               c.PTUExemptUMAs,
			AguinaldoDays:               c.AguinaldoDays,
			AguinaldoExemptUMAs:         c.AguinaldoExemptUMAs,
			VacationPremiumPercent:      c.VacationPremiumPercent,
			SeniorityDaysPerYear:        c.SeniorityDaysPerYear,
			SeniorityCapUMAs:            c.SeniorityCapUMAs,
			SeniorityMinYears:           c.SeniorityMinYears,
			ConstitutionalIndemnityDays: c.ConstitutionalIndemnityDays,
			IndemnityDaysPerYear:        c.IndemnityDaysPerYear,
		},
	}
}

func rows(bs []generic.Bracket) []BracketRow {
	return lo.Map(bs, func(b generic.Bracket, _ int) BracketRow {
		r := BracketRow{
			Lower:      b.Lower,
			FixedQuota: b.FixedQuota,
			Rate:       b.RatePercent,
		}
		if !b.Unbounded {
			upper := b.Upper
			r.Upper = &upper
		}
		return r
	})
}

// =============================================================================
// EMBEDDED DEFAULTS
// =============================================================================

// EmbeddedRecords returns the built-in documents, ready to seed a Store.
func EmbeddedRecords() ([]statutory.TableSetRecord, error) {
	entries, err := embedded.ReadDir("tables")
	if err != nil {
		return nil, err
	}
	var records []statutory.TableSetRecord
	for _, e := range entries {
		data, err := embedded.ReadFile("tables/" + e.Name())
		if err != nil {
			return nil, err
		}
		doc, err := DecodeDocument(FormatYAML, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		records = append(records, statutory.TableSetRecord{
			Year:     doc.Year,
			Name:     doc.Name,
			Format:   FormatYAML,
			Document: string(data),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records, nil
}

// Defaults builds every embedded table set.
func Defaults() ([]*statutory.TableSet, error) {
	records, err := EmbeddedRecords()
	if err != nil {
		return nil, err
	}
	sets := make([]*statutory.TableSet, 0, len(records))
	for _, rec := range records {
		ts, err := FromRecord(rec)
		if err != nil {
			return nil, err
		}
		sets = append(sets, ts)
	}
	return sets, nil
}

// Default returns the embedded table set for year.
func Default(year int) (*statutory.TableSet, error) {
	sets, err := Defaults()
	if err != nil {
		return nil, err
	}
	ts, ok := lo.Find(sets, func(ts *statutory.TableSet) bool { return ts.Year == year })
	if !ok {
		return nil, fmt.Errorf("no embedded tables for %d: %w", year, generic.ErrTableSetNotFound)
	}
	return ts, nil
}

// MustDefault panics if the embedded tables for year are missing or invalid.
// Use in tests and fixtures only.
func MustDefault(year int) *statutory.TableSet {
	ts, err := Default(year)
	if err != nil {
		panic(err)
	}
	return ts
}

// =============================================================================
// EXTERNAL SOURCES
// =============================================================================

// LoadDir reads every *.yaml, *.yml and *.json document in dir.
// Documents are validated but returned as records so callers can persist them.
func LoadDir(dir string) ([]statutory.TableSetRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read tables dir: %w", err)
	}
	var records []statutory.TableSetRecord
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var format string
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			format = FormatYAML
		case ".json":
			format = FormatJSON
		default:
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		doc, err := DecodeDocument(format, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, err := doc.Build(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, statutory.TableSetRecord{
			Year:     doc.Year,
			Name:     doc.Name,
			Format:   format,
			Document: string(data),
		})
	}
	return records, nil
}

// LoadFromStore builds a TableSet from every stored document. Documents
// that fail to parse or validate are logged and skipped; the number skipped
// is returned alongside the sets.
func LoadFromStore(ctx context.Context, store statutory.Store) ([]*statutory.TableSet, int, error) {
	records, err := store.ListTableSets(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list table sets: %w", err)
	}
	var sets []*statutory.TableSet
	skipped := 0
	for _, rec := range records {
		ts, err := FromRecord(rec)
		if err != nil {
			log.WithFields(logrus.Fields{"year": rec.Year, "version": rec.Version}).WithError(err).Warn("skipping invalid table set")
			skipped++
			continue
		}
		sets = append(sets, ts)
	}
	return sets, skipped, nil
}

// Seed saves records into store. Years already stored are left alone unless
// overwrite is set. It returns the number of records written.
func Seed(ctx context.Context, store statutory.Store, records []statutory.TableSetRecord, overwrite bool) (int, error) {
	written := 0
	for _, rec := range records {
		if !overwrite {
			_, err := store.GetTableSet(ctx, rec.Year)
			if err == nil {
				continue
			}
			if !errors.Is(err, generic.ErrTableSetNotFound) {
				return written, fmt.Errorf("check table set %d: %w", rec.Year, err)
			}
		}
		version, err := store.SaveTableSet(ctx, rec)
		if err != nil {
			return written, fmt.Errorf("save table set %d: %w", rec.Year, err)
		}
		log.WithFields(logrus.Fields{"year": rec.Year, "version": version, "format": rec.Format}).Info("table set seeded")
		written++
	}
	return written, nil
}
