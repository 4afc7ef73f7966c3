package docproc

import (
	"fmt"
	"regexp"
	"time"
)

// Field length limits for GL coding entries, matching the TCRS API contract.
const (
	maxAccountCodeLen  = 20
	maxDescriptionLen  = 100
	maxFacilityCodeLen = 10
	maxTaxCodeLen      = 10
	maxNoteFieldLen    = 200
	maxApproverNameLen = 100
)

var (
	requestIDPattern = regexp.MustCompile(`^\d{12}$`)
	emailPattern     = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// LineItem is one GL coding entry rendered on the ledger addendum page.
// Construct with NewLineItem or call Validate after decoding; entries with
// a non-positive amount are rejected.
type LineItem struct {
	AccountCode         string  `json:"accountCode"`
	AccountDescription  string  `json:"accountDescription"`
	FacilityCode        string  `json:"facilityCode"`
	FacilityDescription string  `json:"facilityDescription"`
	TaxCode             string  `json:"taxCode"`
	Amount              float64 `json:"amount"`
	Equipment           string  `json:"equipment,omitempty"`
	Comments            string  `json:"comments,omitempty"`
}

// NewLineItem constructs a validated LineItem.
func NewLineItem(accountCode, accountDesc, facilityCode, facilityDesc, taxCode string, amount float64) (LineItem, error) {
	it := LineItem{
		AccountCode:         accountCode,
		AccountDescription:  accountDesc,
		FacilityCode:        facilityCode,
		FacilityDescription: facilityDesc,
		TaxCode:             taxCode,
		Amount:              amount,
	}
	if err := it.Validate(); err != nil {
		return LineItem{}, err
	}
	return it, nil
}

// Validate checks required fields, length limits, and the amount invariant.
func (it LineItem) Validate() error {
	if it.Amount <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrNonPositiveAmount, it.Amount)
	}
	checks := []struct {
		name  string
		value string
		max   int
	}{
		{"accountCode", it.AccountCode, maxAccountCodeLen},
		{"accountDescription", it.AccountDescription, maxDescriptionLen},
		{"facilityCode", it.FacilityCode, maxFacilityCodeLen},
		{"facilityDescription", it.FacilityDescription, maxDescriptionLen},
		{"taxCode", it.TaxCode, maxTaxCodeLen},
	}
	for _, c := range checks {
		if c.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidLineItem, c.name)
		}
		if len(c.value) > c.max {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidLineItem, c.name, c.max)
		}
	}
	if len(it.Equipment) > maxNoteFieldLen {
		return fmt.Errorf("%w: equipment exceeds %d characters", ErrInvalidLineItem, maxNoteFieldLen)
	}
	if len(it.Comments) > maxNoteFieldLen {
		return fmt.Errorf("%w: comments exceeds %d characters", ErrInvalidLineItem, maxNoteFieldLen)
	}
	return nil
}

// Ledger is an ordered set of GL coding entries plus rendering context.
// The total is always computed fresh from the items, never cached.
type Ledger struct {
	Vendor string
	Items  []LineItem
}

// Total returns the arithmetic sum of all item amounts.
func (l Ledger) Total() float64 {
	var sum float64
	for _, it := range l.Items {
		sum += it.Amount
	}
	return sum
}

// Validate checks that the ledger has at least one valid entry.
func (l Ledger) Validate() error {
	if len(l.Items) == 0 {
		return ErrEmptyLedger
	}
	for i, it := range l.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// Request is the approval event that triggers document processing.
// The pipeline fetches the remaining data from the TCRS API.
type Request struct {
	RequestID     string    `json:"requestId"`
	ApproverName  string    `json:"approverName"`
	ApproverEmail string    `json:"approverEmail"`
	Timestamp     time.Time `json:"timestamp"`
	IsRetry       bool      `json:"isRetry"`
}

// Validate checks the request against the TCRS API contract.
func (r Request) Validate() error {
	if r.RequestID == "" {
		return ErrEmptyRequestID
	}
	if !requestIDPattern.MatchString(r.RequestID) {
		return fmt.Errorf("%w: %q", ErrInvalidRequestID, r.RequestID)
	}
	if r.ApproverName == "" || len(r.ApproverName) > maxApproverNameLen {
		return ErrInvalidApprover
	}
	if !emailPattern.MatchString(r.ApproverEmail) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, r.ApproverEmail)
	}
	return nil
}

// signatureText builds the stamp string: "requestId - datetime - approver".
func (r Request) signatureText() string {
	return fmt.Sprintf("%s - %s - %s", r.RequestID, r.Timestamp.Format("2006-01-02 15:04"), r.ApproverName)
}

// RequestData is the complete record fetched from the TCRS API for one
// approval request.
type RequestData struct {
	RequestID     string         `json:"requestId"`
	InvoicePDFURL string         `json:"invoicePdfUrl"`
	RequestInfo   map[string]any `json:"requestInfo"`
	GLCodingData  []LineItem     `json:"glCodingData"`
	ApproverInfo  map[string]any `json:"approverInfo"`
}

// Ledger builds the renderable ledger from the fetched GL coding data.
func (d RequestData) Ledger() Ledger {
	vendor, _ := d.RequestInfo["vendor"].(string)
	return Ledger{Vendor: vendor, Items: d.GLCodingData}
}

// Validate checks that the fetched record is processable.
func (d RequestData) Validate() error {
	if d.InvoicePDFURL == "" {
		return ErrMissingInvoiceURL
	}
	return d.Ledger().Validate()
}

// Status is a lifecycle state reported to the TCRS API.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// GeneratedFiles holds the durable URLs of the two produced artifacts.
type GeneratedFiles struct {
	ConsolidatedPDF string `json:"consolidatedPdf"`
	RasterImage     string `json:"tiffImage"`
}

// Result is the immutable outcome of one pipeline run.
type Result struct {
	RequestID      string         `json:"requestId"`
	GeneratedFiles GeneratedFiles `json:"generatedFiles"`
	ProcessedAt    time.Time      `json:"processedAt"`
	ProcessingTime time.Duration  `json:"-"`
	IsRetry        bool           `json:"isRetry"`
	Folder         string         `json:"folder"`
	Status         Status         `json:"status"`
	Timings        []StageTiming  `json:"-"`
}
