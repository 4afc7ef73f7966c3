package docproc

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service orchestrates the document consolidation pipeline: fetch request
// data, assemble the consolidated PDF, rasterize it, upload both
// artifacts, and report lifecycle status. It holds no per-request state;
// one Service may serve many concurrent Process calls.
type Service struct {
	store     ArtifactStore
	api       StatusAPI
	logger    *slog.Logger
	raster    RasterConfig
	stampSide StampSide
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. Nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRasterConfig overrides the rasterization configuration.
func WithRasterConfig(cfg RasterConfig) Option {
	return func(s *Service) { s.raster = cfg }
}

// WithStampSide selects which page edge carries the approval signature.
func WithStampSide(side StampSide) Option {
	return func(s *Service) { s.stampSide = side }
}

// WithClock injects a time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service with default configuration.
func New(store ArtifactStore, api StatusAPI, opts ...Option) *Service {
	s := &Service{
		store:     store,
		api:       api,
		logger:    slog.Default(),
		raster:    DefaultRasterConfig(),
		stampSide: StampRight,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process runs the full pipeline for one approval request. Status
// transitions are reported to the TCRS API: processing at the start, then
// completed with both artifact URLs or failed with a sanitized error.
// Errors are returned unsanitized; sanitization belongs to the caller's
// outer boundary.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, stageErr(KindInput, "validate request", err)
	}
	if err := s.raster.Validate(); err != nil {
		return nil, stageErr(KindInput, "validate raster config", err)
	}

	start := s.now()
	log := s.logger.With("request_id", req.RequestID)
	log.Info("starting document processing", "retry", req.IsRetry)

	// Fire-and-forget beyond logging: a missed transition must not block
	// processing.
	if err := s.api.UpdateStatus(ctx, req.RequestID, StatusProcessing, StatusUpdate{}); err != nil {
		log.Warn("failed to update status to processing", "error", err)
	}

	res, err := s.run(ctx, req, start, log)
	if err != nil {
		elapsed := s.now().Sub(start)
		log.Error("document processing failed", "error", err, "elapsed", elapsed)
		upd := StatusUpdate{
			ProcessingTime: elapsed,
			ErrorMessage:   SanitizeErrorMessage(err.Error()),
		}
		if uerr := s.api.UpdateStatus(ctx, req.RequestID, StatusFailed, upd); uerr != nil {
			log.Error("failed to update error status", "error", uerr)
		}
		return nil, err
	}

	log.Info("document processing completed",
		"elapsed", res.ProcessingTime,
		"consolidated_pdf", res.GeneratedFiles.ConsolidatedPDF,
		"raster_image", res.GeneratedFiles.RasterImage)
	return res, nil
}

// run executes the pipeline stages in strict order, each completing fully
// before the next begins. Any stage failure aborts and propagates that
// stage's opaque error; no retries happen here.
func (s *Service) run(ctx context.Context, req Request, start time.Time, log *slog.Logger) (*Result, error) {
	data, err := s.api.RequestData(ctx, req.RequestID)
	if err != nil {
		return nil, stageErr(KindCollaborator, "fetch request data", err)
	}
	if err := data.Validate(); err != nil {
		return nil, stageErr(KindInput, "validate request data", err)
	}

	folder := folderFromBlobURL(data.InvoicePDFURL)
	timestamp := s.now().UTC().Format(blobTimestampLayout)
	log.Info("resolved artifact folder", "folder", folder)

	consolidated, timings, err := s.assemble(ctx, req, data)
	if err != nil {
		return nil, err
	}
	log.Info("assembled consolidated PDF", "bytes", len(consolidated))

	var archive *RasterArchive
	t, err := timed("rasterize", s.now, func() error {
		var e error
		archive, e = rasterize(consolidated, s.raster)
		return e
	})
	timings = append(timings, t)
	if err != nil {
		return nil, stageErr(KindRaster, "rasterize", err)
	}
	log.Info("rasterized document", "bytes", len(archive.Data), "codec", string(archive.Codec), "dpi", archive.DPI)

	// Advisory only: the archive may still be usable.
	if !validateArchive(archive, log) {
		log.Warn("raster archive quality validation failed, continuing")
	}

	files, uploadTimings, err := s.uploadArtifacts(ctx, req.RequestID, timestamp, folder, consolidated, archive)
	timings = append(timings, uploadTimings...)
	if err != nil {
		return nil, err
	}

	elapsed := s.now().Sub(start)
	if err := s.api.UpdateStatus(ctx, req.RequestID, StatusCompleted, StatusUpdate{
		Files:          files,
		ProcessingTime: elapsed,
	}); err != nil {
		return nil, stageErr(KindCollaborator, "report completion", err)
	}

	return &Result{
		RequestID:      req.RequestID,
		GeneratedFiles: *files,
		ProcessedAt:    s.now().UTC(),
		ProcessingTime: elapsed,
		IsRetry:        req.IsRetry,
		Folder:         folder,
		Status:         StatusCompleted,
		Timings:        timings,
	}, nil
}

// uploadArtifacts persists both artifacts independently. One succeeding
// while the other fails is surfaced as a distinct partial-failure error,
// never swallowed.
func (s *Service) uploadArtifacts(ctx context.Context, requestID, timestamp, folder string, consolidated []byte, archive *RasterArchive) (*GeneratedFiles, []StageTiming, error) {
	pdfName := consolidatedPDFName(requestID, timestamp, folder)
	imgName := rasterArchiveName(requestID, timestamp, folder, archive.Codec)

	var pdfURL, imgURL string
	var timings []StageTiming

	t, pdfErr := timed("upload consolidated PDF", s.now, func() error {
		var e error
		pdfURL, e = s.store.Upload(ctx, pdfName, "application/pdf", consolidated)
		return e
	})
	timings = append(timings, t)

	t, imgErr := timed("upload raster archive", s.now, func() error {
		var e error
		imgURL, e = s.store.Upload(ctx, imgName, archive.Codec.ContentType(), archive.Data)
		return e
	})
	timings = append(timings, t)

	switch {
	case pdfErr != nil && imgErr != nil:
		return nil, timings, stageErr(KindCollaborator, "upload artifacts",
			fmt.Errorf("%w: consolidated PDF: %v; raster archive: %v", ErrUpload, pdfErr, imgErr))
	case pdfErr != nil:
		return nil, timings, stageErr(KindCollaborator, "upload artifacts",
			fmt.Errorf("%w: raster archive uploaded but consolidated PDF failed: %v", ErrPartialUpload, pdfErr))
	case imgErr != nil:
		return nil, timings, stageErr(KindCollaborator, "upload artifacts",
			fmt.Errorf("%w: consolidated PDF uploaded but raster archive failed: %v", ErrPartialUpload, imgErr))
	}

	return &GeneratedFiles{ConsolidatedPDF: pdfURL, RasterImage: imgURL}, timings, nil
}
