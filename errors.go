package docproc

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline stages. Each stage wraps its underlying
// failure into one of these so library diagnostics never leak to callers.
var (
	ErrLedgerRender  = errors.New("ledger page generation failed")
	ErrStampApply    = errors.New("stamp application failed")
	ErrPDFMerge      = errors.New("PDF merge failed")
	ErrRasterConvert = errors.New("PDF to image conversion failed")
	ErrSourceFetch   = errors.New("failed to obtain source invoice")
	ErrUpload        = errors.New("artifact upload failed")
	ErrPartialUpload = errors.New("partial upload failure")

	// Boundary conditions.
	ErrNoPages      = errors.New("no pages in PDF document")
	ErrNoPageImages = errors.New("no images to combine")

	// Request validation errors.
	ErrEmptyRequestID    = errors.New("request id cannot be empty")
	ErrInvalidRequestID  = errors.New("request id must be 12 digits")
	ErrInvalidApprover   = errors.New("approver name must be 1-100 characters")
	ErrInvalidEmail      = errors.New("invalid approver email")
	ErrInvalidLineItem   = errors.New("invalid GL coding entry")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrEmptyLedger       = errors.New("GL coding data cannot be empty")
	ErrInvalidStampSide  = errors.New("invalid stamp side")
	ErrInvalidDPI        = errors.New("invalid DPI")
	ErrInvalidCodec      = errors.New("invalid codec")
	ErrInvalidQuality    = errors.New("invalid quality level")
	ErrInvalidMaxWidth   = errors.New("invalid maximum page width")
	ErrMissingInvoiceURL = errors.New("invoice PDF URL is missing")
)

// ErrorKind classifies a pipeline failure for boundary handling.
type ErrorKind int

const (
	// KindInput marks malformed or missing caller data. Never retried.
	KindInput ErrorKind = iota
	// KindCollaborator marks storage or status API failures. The caller
	// decides on retry; the pipeline never retries internally.
	KindCollaborator
	// KindRender marks ledger rendering, merging, or stamping failures.
	KindRender
	// KindRaster marks rasterization or encoding failures.
	KindRaster
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindCollaborator:
		return "collaborator"
	case KindRender:
		return "render"
	case KindRaster:
		return "raster"
	}
	return "unknown"
}

// PipelineError wraps a stage failure with its kind and stage name.
// The underlying cause is retained for logging but stage messages shown
// to callers stay opaque.
type PipelineError struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage %q: %v", e.Kind, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// stageErr builds a PipelineError around an already-opaque stage error.
func stageErr(kind ErrorKind, stage string, err error) error {
	return &PipelineError{Kind: kind, Stage: stage, Err: err}
}
