package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/milana/payroll-engine/generic"
)

// Statement is everything printed on a one-page calculation statement.
type Statement struct {
	Title         string
	CalculationID string
	Calculator    string
	TableYear     int
	GeneratedAt   time.Time
	Lines         []generic.LineItem
	Caveats       []string
}

// totals are printed in bold.
var totals = map[string]bool{
	"gross_total":        true,
	"net_total":          true,
	"finiquito_subtotal": true,
	"indemnity_subtotal": true,
	"total":              true,
	"monthly_payment":    true,
	"pension":            true,
	"ptu":                true,
}

// WriteStatement writes a single-page PDF listing the statement's lines.
func WriteStatement(w io.Writer, s Statement) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle(s.Title, true)
	// core fonts are cp1252; labels carry accents
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	drawStatement(pdf, tr, s)
	return pdf.Output(w)
}

func drawStatement(pdf *fpdf.Fpdf, tr func(string) string, s Statement) {
	pageW, pageH := pdf.GetPageSize()
	marginL, marginT, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, tr(s.Title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 7, "Tablas "+fmt.Sprint(s.TableYear), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 13

	pdf.SetFont("Helvetica", "", 8.5)
	pdf.SetXY(marginL, y)
	colHalf := contentW / 2
	pdf.CellFormat(colHalf, 5.5, tr("Cálculo: ")+s.CalculationID, "", 0, "L", false, 0, "")
	generated := s.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.CellFormat(colHalf, 5.5, "Fecha: "+generated.Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")
	y += 9

	// ── Lines table ──────────────────────────────────────────────────────────
	descW := contentW * 0.60
	qtyW := contentW * 0.15
	amtW := contentW - descW - qtyW

	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(descW, 7, "Concepto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(qtyW, 7, "Base", "1", 0, "C", true, 0, "")
	pdf.CellFormat(amtW, 7, "Importe", "1", 1, "C", true, 0, "")
	y += 7
	pdf.SetTextColor(0, 0, 0)

	rowH := 6.5
	for i, l := range s.Lines {
		pdf.SetXY(marginL, y)
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		if totals[l.Key] {
			pdf.SetFont("Helvetica", "B", 8.5)
		} else {
			pdf.SetFont("Helvetica", "", 8.5)
		}
		pdf.CellFormat(descW, rowH, tr(l.Label), "1", 0, "L", true, 0, "")
		pdf.CellFormat(qtyW, rowH, Quantity(l), "1", 0, "R", true, 0, "")
		pdf.CellFormat(amtW, rowH, Value(l), "1", 1, "R", true, 0, "")
		y += rowH
	}

	// ── Caveats ──────────────────────────────────────────────────────────────
	if len(s.Caveats) > 0 {
		y += 5
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(marginL, y)
		pdf.CellFormat(contentW, 5.5, "NOTAS", "LRT", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, c := range s.Caveats {
			pdf.SetX(marginL)
			pdf.MultiCell(contentW, 4.5, tr("- "+c), "LR", "L", false)
		}
		pdf.SetX(marginL)
		pdf.CellFormat(contentW, 0, "", "LB", 1, "L", false, 0, "")
	}

	// ── Footer ─────────────────────────────────────────────────────────────────
	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, tr("Cálculo estimado, no sustituye asesoría fiscal"), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, s.Calculator+" | "+fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
