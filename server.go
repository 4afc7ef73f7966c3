package docproc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// successResponse is the envelope returned on a completed request.
type successResponse struct {
	Success          bool           `json:"success"`
	RequestID        string         `json:"requestId"`
	GeneratedFiles   GeneratedFiles `json:"generatedFiles"`
	ProcessedAt      string         `json:"processedAt"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
	IsRetry          bool           `json:"isRetry"`
	Folder           string         `json:"folder"`
	Status           Status         `json:"status"`
}

// errorResponse is the envelope returned on any failure. Error text is
// sanitized before it leaves the service.
type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}

// NewRouter builds the HTTP shell around the Service: the processing
// trigger plus a health check.
func NewRouter(svc *Service, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/process-documents", processDocumentsHandler(svc, logger))
	r.GET("/health", healthHandler)

	return r
}

func processDocumentsHandler(svc *Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{
				Error:     "Failed to parse request",
				RequestID: "unknown",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Details:   SanitizeErrorMessage(err.Error()),
			})
			return
		}
		if err := req.Validate(); err != nil {
			logger.Error("request validation failed", "error", err)
			c.JSON(http.StatusBadRequest, errorResponse{
				Error:     "Invalid request format",
				RequestID: requestIDOrUnknown(req),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Details:   SanitizeErrorMessage(err.Error()),
			})
			return
		}

		res, err := svc.Process(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{
				Error:     "Internal processing error",
				RequestID: req.RequestID,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			return
		}

		c.JSON(http.StatusOK, successResponse{
			Success:          true,
			RequestID:        res.RequestID,
			GeneratedFiles:   res.GeneratedFiles,
			ProcessedAt:      res.ProcessedAt.Format(time.RFC3339),
			ProcessingTimeMs: res.ProcessingTime.Milliseconds(),
			IsRetry:          res.IsRetry,
			Folder:           res.Folder,
			Status:           res.Status,
		})
	}
}

func requestIDOrUnknown(req Request) string {
	if req.RequestID == "" {
		return "unknown"
	}
	return req.RequestID
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "tcrs-document-processor",
	})
}
