package docproc

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func markedPDF(t *testing.T, marker string, pages int) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, marker)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building test PDF: %v", err)
	}
	return buf.Bytes()
}

func TestMergePDFs(t *testing.T) {
	a := markedPDF(t, "DOC-A", 2)
	b := markedPDF(t, "DOC-B", 3)

	merged, err := mergePDFs(a, b)
	if err != nil {
		t.Fatalf("mergePDFs() error = %v", err)
	}
	if got := mustPageCount(t, merged); got != 5 {
		t.Fatalf("merged page count = %d, want 5", got)
	}

	// Argument order is preserved: first document's pages come first.
	if content := pageContent(t, merged, 1); !strings.Contains(content, "DOC-A") {
		t.Error("page 1 does not come from the first document")
	}
	if content := pageContent(t, merged, 3); !strings.Contains(content, "DOC-B") {
		t.Error("page 3 does not come from the second document")
	}
}

func TestMergePDFsSingle(t *testing.T) {
	merged, err := mergePDFs(makeTestPDF(t, 2))
	if err != nil {
		t.Fatalf("mergePDFs() error = %v", err)
	}
	if got := mustPageCount(t, merged); got != 2 {
		t.Fatalf("merged page count = %d, want 2", got)
	}
}

func TestMergePDFsErrors(t *testing.T) {
	if _, err := mergePDFs(); !errors.Is(err, ErrPDFMerge) {
		t.Fatalf("mergePDFs() with no parts error = %v, want %v", err, ErrPDFMerge)
	}
	if _, err := mergePDFs(makeTestPDF(t, 1), []byte("not a pdf")); !errors.Is(err, ErrPDFMerge) {
		t.Fatalf("mergePDFs() with garbage error = %v, want %v", err, ErrPDFMerge)
	}
}

func TestPageCount(t *testing.T) {
	if got := mustPageCount(t, makeTestPDF(t, 4)); got != 4 {
		t.Fatalf("pageCount() = %d, want 4", got)
	}
	if _, err := pageCount([]byte("not a pdf")); err == nil {
		t.Fatal("pageCount(garbage) error = nil, want error")
	}
}

func TestPageDims(t *testing.T) {
	dims, err := pageDims(makeTestPDF(t, 2))
	if err != nil {
		t.Fatalf("pageDims() error = %v", err)
	}
	if len(dims) != 2 {
		t.Fatalf("len(dims) = %d, want 2", len(dims))
	}
	if math.Abs(dims[0].Width-612) > 0.5 || math.Abs(dims[0].Height-792) > 0.5 {
		t.Fatalf("dims[0] = %+v, want 612x792", dims[0])
	}
}
