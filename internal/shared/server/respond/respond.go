package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docspeech-backend/internal/shared/telemetry"
)

// ErrorResponse is the error body returned to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OK writes a 200 JSON body.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// JSON writes payload with status. Use Error for failures so they are logged.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Error logs the failure with its detail and sends a short client-facing message.
// detail may be nil; it is never written to the response.
func Error(c *gin.Context, status int, message string, detail error) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if detail != nil {
		fields["err"] = detail.Error()
	}
	if documentID := c.GetString("documentId"); documentID != "" {
		fields["document_id"] = documentID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
