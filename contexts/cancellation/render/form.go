// Package render produces the printable cancellation document. The page is a
// fixed 216x279mm sheet carrying a bordered table whose row heights follow the
// wrapped length of the user-supplied values, drawn with a cursor-based PDF
// backend and Windows-1252 text metrics.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/entities"
	domainerrors "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/errors"
)

const (
	fontFamily = "Arial"

	pageWidth  = 216
	pageHeight = 279

	marginLeft  = 24
	marginTop   = 24
	marginRight = 20

	tableWidth = 170
)

// cellSpec is one cell of a table row: a fixed horizontal slot with either a
// fixed-height label or an adaptive-height value.
type cellSpec struct {
	x        float64
	w        float64
	h        float64
	text     string
	style    string
	size     float64
	align    string
	adaptive bool
	hidden   bool
}

// checkboxSpec places a checkbox relative to the row origin.
type checkboxSpec struct {
	dx      float64
	dy      float64
	checked bool
}

// rowSpec is a declarative table row: cells, vertical separator offsets and
// optional checkboxes. The renderer aligns every cell in a row to the tallest
// one and draws the bottom border at that shared height.
type rowSpec struct {
	cells []cellSpec
	seps  []float64
	boxes []checkboxSpec
}

// FormRenderer renders the cancellation confirmation page.
type FormRenderer struct{}

// Render produces the document for one accepted submission. The brand is the
// resolved sender name of the client configuration.
func (FormRenderer) Render(sub entities.Submission, brand string, now time.Time) ([]byte, error) {
	d := &doc{
		pdf: fpdf.NewCustom(&fpdf.InitType{
			OrientationStr: "P",
			UnitStr:        "mm",
			Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
		}),
	}
	d.pdf.SetMargins(marginLeft, marginTop, marginRight)
	d.pdf.AddPage()

	d.header(brand, now)
	d.table(sub, brand)

	if d.err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrRender, d.err)
	}

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrRender, err)
	}
	return buf.Bytes(), nil
}

type doc struct {
	pdf *fpdf.Fpdf
	err error
}

// tr transcodes text for drawing and measurement, keeping the first failure.
func (d *doc) tr(text string) string {
	out, err := ToWinAnsi(text)
	if err != nil {
		if d.err == nil {
			d.err = err
		}
		return ""
	}
	return out
}

func (d *doc) setFont(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

// header draws the boxed dispatch notice and the page intro above the table.
func (d *doc) header(brand string, now time.Time) {
	notice := fmt.Sprintf(
		"Diese Kündigung wurde am %s um %s Uhr durch Betätigung der Schaltfläche „jetzt kündigen“ an die Telekom Deutschland GmbH gesendet. Nach Eingang erhalten Sie eine automatische Eingangsbestätigung.",
		now.Format("02/01/2006"), now.Format("15:04"),
	)

	d.pdf.SetTextColor(254, 0, 0)
	d.setFont("BU", 10)
	d.pdf.Write(5, d.tr("Hinweis:"))
	d.pdf.Ln(6)
	d.setFont("", 9)
	d.pdf.Write(5, d.tr(notice))
	d.pdf.SetLineWidth(0.4)
	d.pdf.Rect(marginLeft, marginTop, tableWidth, 16, "D")

	d.pdf.Ln(6)
	d.setFont("B", 10)
	d.pdf.SetTextColor(254, 1, 102)
	d.pdf.Write(6, d.tr("Bestätigungsseite"))
	d.pdf.SetTextColor(0, 0, 0)
	d.setFont("", 9)
	d.pdf.Ln(6)
	d.pdf.Write(5, d.tr(fmt.Sprintf(
		"Über diese Seite können Sie Ihren Vertrag mit der Telekom Deutschland GmbH für die Marke %s kündigen. Bitte tragen Sie dafür nachfolgend die notwendigen Angaben ein.",
		brand,
	)))
	d.pdf.Ln(6)
}

// table draws the bordered submission table and the mandatory-fields legend.
func (d *doc) table(sub entities.Submission, brand string) {
	d.pdf.SetLineWidth(0.2)
	x0 := d.pdf.GetX()
	y0 := d.pdf.GetY()

	relaxed := sub.RelaxedClient()
	question := fmt.Sprintf(
		"Welchen Vertrag oder welche Verträge mit der Telekom Deutschland GmbH (Marke %s) möchten Sie kündigen?",
		brand,
	)

	rows := []rowSpec{
		{
			cells: []cellSpec{
				{x: 0, w: 35, h: 10, text: "Vorname*", size: 9, align: "L"},
				{x: 35, w: 50, h: 10, text: sub.FirstName, size: 9, adaptive: true},
				{x: 85, w: 35, h: 10, text: "Name*", size: 9, align: "L"},
				{x: 120, w: 50, h: 10, text: sub.LastName, size: 9, adaptive: true},
			},
			seps: []float64{35, 85, 120},
		},
		{
			cells: []cellSpec{
				{x: 0, w: 35, h: 10, text: sub.Street, size: 8, adaptive: true},
				{x: 35, w: 50, h: 10, text: sub.StreetNumber, size: 8, adaptive: true},
				{x: 85, w: 35, h: 10, text: sub.Zipcode, size: 8, adaptive: true},
				{x: 120, w: 50, h: 10, text: sub.City, size: 8, adaptive: true},
			},
			seps: []float64{35, 85, 120},
		},
		{
			cells: []cellSpec{
				{x: 0, w: 35, h: 5, text: "Straße*", size: 8},
				{x: 35, w: 50, h: 5, text: "Hausnummer*", size: 8},
				{x: 85, w: 35, h: 5, text: "Postleitzahl*", size: 8},
				{x: 120, w: 50, h: 5, text: "Ort*", size: 8},
			},
			seps: []float64{35, 85, 120},
		},
		{
			cells: []cellSpec{
				{x: 0, w: 35, h: 10, text: "E-Mail-Adresse*:", size: 9},
				{x: 35, w: 135, h: 10, text: sub.EmailAddress, size: 9, adaptive: true},
			},
			seps: []float64{35},
		},
		{
			cells: []cellSpec{
				{x: 0, w: tableWidth, h: 5, text: question, size: 9, align: "C"},
			},
		},
		{
			cells: []cellSpec{
				{x: 0, w: 35, h: 10, text: sub.SimCardNumber, size: 9, adaptive: true, hidden: !relaxed || sub.SimCardNumber == ""},
				{x: 35, w: 50, h: 10, text: sub.CustomerID, size: 9, adaptive: true, hidden: sub.CustomerID == ""},
				{x: 85, w: 85, h: 10, text: sub.MobilePhoneNumber, size: 9, adaptive: true},
			},
			seps: []float64{35, 85},
		},
		{
			cells: []cellSpec{
				{x: 0, w: 35, h: 5, text: "Sim-Kartennummer", size: 8, hidden: !relaxed},
				{x: 35, w: 50, h: 5, text: "Kundennummer*", size: 8},
				{x: 85, w: 85, h: 5, text: "Mobilfunknummer*", size: 8},
			},
			seps: []float64{35, 85},
		},
		{
			cells: []cellSpec{
				{x: 0, w: 35, h: 5, text: "Zu welchem Zeitpunkt?", size: 9, align: "L"},
				{x: 35, w: 50, h: 5, text: sub.DateOfTermination + "\nAngabe Datum", size: 8, align: "L"},
				{x: 85, w: 35, h: 10, text: "oder", size: 9, align: "L"},
				{x: 120, w: 50, h: 10, text: "Nächstmöglicher Zeitpunkt", size: 9, align: "R"},
			},
			seps:  []float64{35, 85, 120},
			boxes: []checkboxSpec{{dx: 122.5, dy: 2.5, checked: sub.TerminateOnNextPossibleDate}},
		},
		{
			cells: []cellSpec{
				{x: 0, w: 85, h: 14, text: "Ordentliche Kündigung", size: 9, align: "C"},
				{x: 85, w: 85, h: 14, text: "Außerordentliche Kündigung", size: 9, align: "C"},
			},
			seps: []float64{85},
			boxes: []checkboxSpec{
				{dx: 15, dy: 4.5, checked: sub.OrdinaryTermination},
				{dx: 95, dy: 4.5, checked: sub.ExtraordinaryTermination},
			},
		},
	}

	y := y0
	for _, row := range rows {
		y = d.row(x0, y, row)
	}
	y = d.reasonRow(x0, y, sub.TerminationReason)

	// Outer border around the whole table.
	d.pdf.SetLineWidth(0.4)
	d.pdf.Rect(x0, y0, tableWidth, y-y0, "D")

	d.pdf.SetXY(x0, y)
	d.pdf.Ln(0.3)
	d.pdf.SetFillColor(231, 230, 230)
	d.pdf.CellFormat(35, 10, d.tr("*Pflichtangaben"), "", 0, "", true, 0, "")
}

// row draws one table row at vertical position y and returns the shared
// bottom edge, which becomes the next row's top.
func (d *doc) row(x0, y float64, row rowSpec) float64 {
	maxY := y
	for _, c := range row.cells {
		if c.hidden {
			continue
		}
		d.setFont(c.style, c.size)
		d.pdf.SetXY(x0+c.x, y)
		if c.adaptive {
			d.adaptiveCell(c.w, c.h, c.text)
		} else {
			d.pdf.MultiCell(c.w, c.h, d.tr(c.text), "", c.align, false)
		}
		if cellY := d.pdf.GetY(); cellY > maxY {
			maxY = cellY
		}
	}
	for _, box := range row.boxes {
		d.checkbox(x0+box.dx, y+box.dy, box.checked)
	}
	for _, sep := range row.seps {
		d.pdf.Line(x0+sep, y, x0+sep, maxY)
	}
	d.pdf.Line(x0, maxY, x0+tableWidth, maxY)
	return maxY
}

// reasonRow stacks the bold prompt and the stripped free-text justification.
func (d *doc) reasonRow(x0, y float64, reason string) float64 {
	maxY := y
	d.pdf.SetXY(x0, y)
	d.setFont("B", 8)
	d.pdf.MultiCell(tableWidth, 5, d.tr("Nur bei außerordentlicher Kündigung! Bitte geben Sie den Grund für die außerordentliche Kündigung an:"), "", "L", false)
	d.pdf.Ln(4)
	if cellY := d.pdf.GetY(); cellY > maxY {
		maxY = cellY
	}

	d.setFont("", 9)
	if reason != "" {
		d.pdf.SetXY(x0, maxY)
		d.adaptiveCell(tableWidth, 6, StripTags(reason))
		d.pdf.Ln(0.5)
	}
	if cellY := d.pdf.GetY(); cellY > maxY {
		maxY = cellY
	}
	d.pdf.Line(x0, maxY, x0+tableWidth, maxY)
	return maxY
}

// adaptiveCell draws a multi-line cell whose line height shrinks with the
// number of wrapped lines. Measurement happens after transcoding so the
// wrap count matches the bytes actually drawn.
func (d *doc) adaptiveCell(w, h float64, text string) {
	if w <= 0 || h <= 0 {
		if d.err == nil {
			d.err = fmt.Errorf("adaptive cell requires positive dimensions, got %gx%g", w, h)
		}
		return
	}
	enc := d.tr(text)
	lines := WrappedLines(d.pdf.GetStringWidth(enc), w)
	d.pdf.MultiCell(w, AdaptiveHeight(h, lines), enc, "", "", false)
}

// checkbox draws a 5x5 outline and, when checked, a two-segment tick.
func (d *doc) checkbox(x, y float64, checked bool) {
	d.pdf.SetLineWidth(0.4)
	d.pdf.Rect(x, y, 5, 5, "D")
	if checked {
		d.pdf.Line(x+1, y+2, x+2.5, y+4.8)
		d.pdf.Line(x+2.5, y+4.8, x+4.7, y+0.3)
	}
	d.pdf.SetLineWidth(0.2)
}
