package docproc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func pdfcpuConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// mergePDFs concatenates the given documents into one, preserving the
// argument order and each source's internal page order.
func mergePDFs(parts ...[]byte) ([]byte, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: nothing to merge", ErrPDFMerge)
	}
	rsc := make([]io.ReadSeeker, len(parts))
	for i, p := range parts {
		rsc[i] = bytes.NewReader(p)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, pdfcpuConf()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFMerge, err)
	}
	return buf.Bytes(), nil
}

// pageCount returns the number of pages in the PDF.
func pageCount(pdf []byte) (int, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), pdfcpuConf())
	if err != nil {
		return 0, fmt.Errorf("reading PDF: %w", err)
	}
	return ctx.PageCount, nil
}

// pageDims returns the media box dimensions of every page in points.
func pageDims(pdf []byte) ([]types.Dim, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), pdfcpuConf())
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("reading page dimensions: %w", err)
	}
	if len(dims) == 0 {
		return nil, ErrNoPages
	}
	return dims, nil
}
