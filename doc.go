// Package docproc assembles approved invoice documents and converts them
// into archival raster images.
//
// Given an approval event, the pipeline fetches the source invoice PDF,
// renders a GL coding addendum page, concatenates both documents, stamps a
// vertical approval signature onto the first page, rasterizes the result
// into a single stacked image archive, and uploads both artifacts to blob
// storage while reporting lifecycle status to the TCRS API.
//
// Basic usage:
//
//	svc := docproc.New(store, tcrs, docproc.WithLogger(logger))
//	result, err := svc.Process(ctx, req)
//
// The Service owns orchestration only. Each processing concern (ledger
// rendering, stamping, merging, rasterization, validation) is implemented
// as a standalone unit operating on byte streams, so every stage can be
// exercised in isolation.
package docproc
