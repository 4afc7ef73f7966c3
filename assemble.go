package docproc

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// assemble produces the consolidated document: obtain the source invoice,
// render the ledger addendum, concatenate invoice pages followed by
// addendum pages, then stamp page 1 of the result. Stages run strictly in
// order; the first failure aborts with that stage's opaque error. Nothing
// here writes to durable storage.
func (s *Service) assemble(ctx context.Context, req Request, data *RequestData) ([]byte, []StageTiming, error) {
	var timings []StageTiming

	var invoice []byte
	t, err := timed("fetch source invoice", s.now, func() error {
		var e error
		invoice, e = s.obtainInvoice(ctx, data.InvoicePDFURL)
		return e
	})
	timings = append(timings, t)
	if err != nil {
		return nil, timings, stageErr(KindCollaborator, "fetch source invoice", err)
	}

	var ledgerPDF []byte
	t, err = timed("render ledger page", s.now, func() error {
		var e error
		ledgerPDF, e = renderLedgerPage(data.Ledger(), s.now())
		return e
	})
	timings = append(timings, t)
	if err != nil {
		return nil, timings, stageErr(KindRender, "render ledger page", err)
	}

	var merged []byte
	t, err = timed("merge documents", s.now, func() error {
		var e error
		merged, e = mergePDFs(invoice, ledgerPDF)
		return e
	})
	timings = append(timings, t)
	if err != nil {
		return nil, timings, stageErr(KindRender, "merge documents", err)
	}

	var stamped []byte
	t, err = timed("stamp first page", s.now, func() error {
		var e error
		stamped, e = applyStamp(merged, req.signatureText(), s.stampSide)
		return e
	})
	timings = append(timings, t)
	if err != nil {
		return nil, timings, stageErr(KindRender, "stamp first page", err)
	}

	return stamped, timings, nil
}

// obtainInvoice reads a local file:// reference directly or fetches the
// bytes through the storage collaborator otherwise.
func (s *Service) obtainInvoice(ctx context.Context, ref string) ([]byte, error) {
	if path, ok := strings.CutPrefix(ref, "file://"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceFetch, err)
		}
		return b, nil
	}
	b, err := s.store.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceFetch, err)
	}
	return b, nil
}
