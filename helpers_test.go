package docproc

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// makeTestPDF builds a simple letter-size PDF with the given number of
// pages, each carrying a page marker text.
func makeTestPDF(t *testing.T, pages int) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, fmt.Sprintf("Test invoice page %d", i))
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building test PDF: %v", err)
	}
	return buf.Bytes()
}

// mustPageCount fails the test if the page count cannot be read.
func mustPageCount(t *testing.T, pdf []byte) int {
	t.Helper()
	n, err := pageCount(pdf)
	if err != nil {
		t.Fatalf("reading page count: %v", err)
	}
	return n
}

// pageContent returns the decoded content stream of one page.
func pageContent(t *testing.T, pdf []byte, pageNr int) string {
	t.Helper()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), pdfcpuConf())
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		t.Fatalf("extracting page %d content: %v", pageNr, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading page %d content: %v", pageNr, err)
	}
	return string(data)
}

// testLedger returns a small valid ledger for rendering tests.
func testLedger() Ledger {
	return Ledger{
		Vendor: "Acme Industrial Supply",
		Items: []LineItem{
			{
				AccountCode:         "600100",
				AccountDescription:  "Equipment Maintenance",
				FacilityCode:        "FAC01",
				FacilityDescription: "Main Plant",
				TaxCode:             "GST",
				Amount:              1250.50,
				Equipment:           "Excavator EX-200",
				Comments:            "Quarterly service",
			},
			{
				AccountCode:         "600200",
				AccountDescription:  "Parts and Consumables",
				FacilityCode:        "FAC02",
				FacilityDescription: "North Branch",
				TaxCode:             "PST",
				Amount:              349.99,
			},
		},
	}
}
