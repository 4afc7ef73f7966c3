package docproc

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Ledger page geometry in points (US Letter, 612x792).
const (
	ledgerPageW        = 612.0
	ledgerPageH        = 792.0
	ledgerMarginX      = 36.0 // 0.5 inch
	ledgerMarginTop    = 54.0 // 0.75 inch
	ledgerMarginBottom = 54.0
	ledgerCellPad      = 8.0
	ledgerLineH        = 11.0
	ledgerHeaderFontPt = 10.0
	ledgerCellFontPt   = 9.0
)

// ledgerColumns defines the seven table columns as fixed proportions of the
// usable page width. The proportions sum to 1.0 so the table always fits
// within the margins; cell text wraps inside its column instead of
// overflowing the page.
var ledgerColumns = []struct {
	title string
	frac  float64
	align string
}{
	{"Account Code", 0.10, "L"},
	{"Account Description", 0.20, "L"},
	{"Facility Code", 0.10, "L"},
	{"Facility Description", 0.20, "L"},
	{"Tax Code", 0.08, "L"},
	{"Amount", 0.12, "R"},
	{"Equipment & Comments", 0.20, "L"},
}

var currencyPrinter = message.NewPrinter(language.English)

// formatAmount renders a monetary value as fixed 2-decimal currency with
// thousands separators, e.g. "$1,234.56".
func formatAmount(v float64) string {
	return currencyPrinter.Sprintf("$%.2f", v)
}

// noteText merges the optional equipment and comment fields into the
// labeled multi-line note column. Both absent renders a dash placeholder.
func noteText(it LineItem) string {
	var parts []string
	if it.Equipment != "" {
		parts = append(parts, "Equipment: "+it.Equipment)
	}
	if it.Comments != "" {
		parts = append(parts, "Comments: "+it.Comments)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "\n\n")
}

// renderLedgerPage produces the GL coding addendum as a standalone PDF.
// The table header repeats on every page when entries span multiple pages
// and the totals row sums all item amounts, computed at render time.
func renderLedgerPage(l Ledger, now time.Time) ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerRender, err)
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(ledgerMarginX, ledgerMarginTop, ledgerMarginX)
	pdf.SetAutoPageBreak(false, ledgerMarginBottom)
	pdf.AddPage()

	usable := ledgerPageW - 2*ledgerMarginX
	widths := make([]float64, len(ledgerColumns))
	for i, col := range ledgerColumns {
		widths[i] = usable * col.frac
	}

	// Title.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 24, "GL Coding Details", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	// Vendor line.
	if l.Vendor != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(pdf.GetStringWidth("Vendor: ")+2, 14, "Vendor:", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 14, l.Vendor, "", 1, "L", false, 0, "")
		pdf.Ln(10)
	}

	// splitCell wraps text to a column's inner width using the current font.
	splitCell := func(text string, width float64) []string {
		if text == "" {
			return []string{""}
		}
		lines := pdf.SplitText(text, width-2*ledgerCellPad)
		if len(lines) == 0 {
			lines = []string{""}
		}
		return lines
	}

	// drawRow renders one table row with bordered, wrapped cells. The row
	// height is the tallest cell's wrapped height plus padding.
	drawRow := func(cells []string, style string, fontPt float64, fill bool, fillRGB [3]int, textRGB [3]int) float64 {
		pdf.SetFont("Helvetica", style, fontPt)
		maxLines := 1
		wrapped := make([][]string, len(cells))
		for i, c := range cells {
			wrapped[i] = splitCell(c, widths[i])
			if n := len(wrapped[i]); n > maxLines {
				maxLines = n
			}
		}
		rowH := float64(maxLines)*ledgerLineH + 2*ledgerCellPad

		y := pdf.GetY()
		x := ledgerMarginX
		for i := range cells {
			if fill {
				pdf.SetFillColor(fillRGB[0], fillRGB[1], fillRGB[2])
				pdf.Rect(x, y, widths[i], rowH, "F")
			}
			pdf.SetDrawColor(0, 0, 0)
			pdf.Rect(x, y, widths[i], rowH, "D")
			pdf.SetTextColor(textRGB[0], textRGB[1], textRGB[2])
			pdf.SetXY(x+ledgerCellPad, y+ledgerCellPad)
			pdf.MultiCell(widths[i]-2*ledgerCellPad, ledgerLineH, strings.Join(wrapped[i], "\n"), "", ledgerColumns[i].align, false)
			x += widths[i]
		}
		pdf.SetXY(ledgerMarginX, y+rowH)
		return rowH
	}

	headerTitles := make([]string, len(ledgerColumns))
	for i, col := range ledgerColumns {
		headerTitles[i] = col.title
	}
	drawHeader := func() {
		drawRow(headerTitles, "B", ledgerHeaderFontPt, true, [3]int{128, 128, 128}, [3]int{245, 245, 245})
	}

	// rowFits reports whether a row of the given cell contents fits on the
	// current page; measurement uses the same font as the eventual draw.
	rowFits := func(cells []string, style string, fontPt float64) bool {
		pdf.SetFont("Helvetica", style, fontPt)
		maxLines := 1
		for i, c := range cells {
			if n := len(splitCell(c, widths[i])); n > maxLines {
				maxLines = n
			}
		}
		rowH := float64(maxLines)*ledgerLineH + 2*ledgerCellPad
		return pdf.GetY()+rowH <= ledgerPageH-ledgerMarginBottom
	}

	drawHeader()

	for i, it := range l.Items {
		cells := []string{
			it.AccountCode,
			it.AccountDescription,
			it.FacilityCode,
			it.FacilityDescription,
			it.TaxCode,
			formatAmount(it.Amount),
			noteText(it),
		}
		if !rowFits(cells, "", ledgerCellFontPt) {
			pdf.AddPage()
			drawHeader()
		}
		fillRGB := [3]int{255, 255, 255}
		if i%2 == 1 {
			fillRGB = [3]int{224, 255, 255}
		}
		drawRow(cells, "", ledgerCellFontPt, true, fillRGB, [3]int{0, 0, 0})
	}

	// Totals row, visually distinguished with a background shade.
	totalCells := []string{"", "", "", "", "TOTAL:", formatAmount(l.Total()), ""}
	if !rowFits(totalCells, "B", ledgerCellFontPt) {
		pdf.AddPage()
		drawHeader()
	}
	drawRow(totalCells, "B", ledgerCellFontPt, true, [3]int{211, 211, 211}, [3]int{0, 0, 0})

	// Footer with generation timestamp.
	if pdf.GetY()+40 > ledgerPageH-ledgerMarginBottom {
		pdf.AddPage()
	}
	pdf.Ln(20)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, "Generated on: "+now.UTC().Format("2006-01-02 15:04:05")+" UTC", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "TCRS Document Processing System", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerRender, err)
	}
	return buf.Bytes(), nil
}
