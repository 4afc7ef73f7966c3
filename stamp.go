package docproc

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// StampSide selects which vertical page edge carries the approval signature.
type StampSide string

const (
	StampLeft  StampSide = "left"
	StampRight StampSide = "right"
)

// Validate accepts the two known sides; empty means the default (right).
func (s StampSide) Validate() error {
	switch s {
	case "", StampLeft, StampRight:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStampSide, s)
}

// Stamp geometry in points.
const (
	stampFontPt      = 10.0
	stampEdgeMargin  = 40.0  // distance from the left/right page edge
	stampSafeMargin  = 50.0  // minimum distance from the top/bottom edges
	stampDefaultDrop = 150.0 // default start: this far below the top edge
)

// stampStart returns the vertical start coordinate for the rotated
// signature in PDF user space (origin bottom-left). On the right side the
// text descends from the start; on the left it ascends. If the text would
// run past the safety margin the start shifts toward the opposite edge,
// clamped so it always lies within [margin, pageHeight-margin].
func stampStart(textWidth, pageHeight float64, side StampSide) float64 {
	start := pageHeight - stampDefaultDrop
	if side == StampLeft {
		if start+textWidth > pageHeight-stampSafeMargin {
			start = pageHeight - stampSafeMargin - textWidth
		}
		if start < stampSafeMargin {
			start = stampSafeMargin
		}
		return start
	}
	if start-textWidth < stampSafeMargin {
		start = stampSafeMargin + textWidth
	}
	if start > pageHeight-stampSafeMargin {
		start = pageHeight - stampSafeMargin
	}
	return start
}

// buildStampOverlay produces a single-page PDF of the given dimensions
// containing only the rotated signature text. Helvetica at a fixed size in
// a muted gray so the stamp never obscures underlying content.
func buildStampOverlay(text string, pageW, pageH float64, side StampSide) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", stampFontPt)
	pdf.SetTextColor(153, 153, 153)

	textWidth := pdf.GetStringWidth(text)
	yStart := stampStart(textWidth, pageH, side)

	var x, angle float64
	if side == StampLeft {
		x = stampEdgeMargin
		angle = 90 // reads bottom to top
	} else {
		x = pageW - stampEdgeMargin
		angle = -90 // reads top to bottom
	}

	// fpdf's y axis grows downward; stampStart works in PDF user space.
	y := pageH - yStart
	pdf.TransformBegin()
	pdf.TransformRotate(angle, x, y)
	pdf.Text(x, y, text)
	pdf.TransformEnd()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering stamp overlay: %w", err)
	}
	return buf.Bytes(), nil
}

// applyStamp overlays the approval signature onto page 1 of the PDF.
// All other pages pass through unmodified; output is never partially
// stamped.
func applyStamp(pdf []byte, signature string, side StampSide) ([]byte, error) {
	if err := side.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStampApply, err)
	}
	if side == "" {
		side = StampRight
	}

	dims, err := pageDims(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStampApply, err)
	}

	overlay, err := buildStampOverlay(signature, dims[0].Width, dims[0].Height, side)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStampApply, err)
	}

	overlayPath, cleanup, err := writeTempFile(overlay, "pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStampApply, err)
	}
	defer cleanup()

	wm, err := api.PDFWatermark(overlayPath, "scalefactor:1 abs, pos:bl, rot:0", true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStampApply, err)
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &buf, []string{"1"}, wm, pdfcpuConf()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStampApply, err)
	}
	return buf.Bytes(), nil
}
