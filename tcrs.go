package docproc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusUpdate carries the optional fields of a lifecycle transition
// reported to the TCRS API.
type StatusUpdate struct {
	Files          *GeneratedFiles
	ProcessingTime time.Duration
	ErrorMessage   string
}

// StatusAPI is the system-of-record collaborator. It serves the complete
// request data for an approval and records lifecycle transitions.
type StatusAPI interface {
	RequestData(ctx context.Context, requestID string) (*RequestData, error)
	UpdateStatus(ctx context.Context, requestID string, status Status, upd StatusUpdate) error
}

// TCRSClient implements StatusAPI against the TCRS internal REST API.
type TCRSClient struct {
	baseURL     string
	functionKey string
	httpClient  *http.Client
}

// NewTCRSClient creates a client for the TCRS internal API. Both the base
// URL and the function key are required.
func NewTCRSClient(baseURL, functionKey string) (*TCRSClient, error) {
	if baseURL == "" || functionKey == "" {
		return nil, errors.New("TCRS API base URL and function key must be set")
	}
	return &TCRSClient{
		baseURL:     baseURL,
		functionKey: functionKey,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// RequestData fetches the complete record for one approval request.
func (c *TCRSClient) RequestData(ctx context.Context, requestID string) (*RequestData, error) {
	url := fmt.Sprintf("%s/api/internal/request-data/%s", c.baseURL, requestID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("x-function-key", c.functionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to TCRS API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetching request data: HTTP %d: %s", resp.StatusCode, body)
	}

	var data RequestData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding request data: %w", err)
	}
	return &data, nil
}

// statusPayload mirrors the documentsGenerationTable update contract.
type statusPayload struct {
	RequestID          string  `json:"requestId"`
	Status             Status  `json:"status"`
	ProcessingTimeMs   *int64  `json:"processingTimeMs,omitempty"`
	ErrorMessage       *string `json:"errorMessage,omitempty"`
	ConsolidatedPDFURL *string `json:"consolidatedPdfUrl,omitempty"`
	RasterImageURL     *string `json:"tiffImageUrl,omitempty"`
}

// UpdateStatus records a lifecycle transition for the request.
func (c *TCRSClient) UpdateStatus(ctx context.Context, requestID string, status Status, upd StatusUpdate) error {
	payload := statusPayload{RequestID: requestID, Status: status}
	if upd.ProcessingTime > 0 {
		ms := upd.ProcessingTime.Milliseconds()
		payload.ProcessingTimeMs = &ms
	}
	if upd.ErrorMessage != "" {
		payload.ErrorMessage = &upd.ErrorMessage
	}
	if upd.Files != nil {
		payload.ConsolidatedPDFURL = &upd.Files.ConsolidatedPDF
		payload.RasterImageURL = &upd.Files.RasterImage
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding status payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/internal/documents-generation/%s", c.baseURL, requestID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-function-key", c.functionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to TCRS API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("updating generation status: HTTP %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
