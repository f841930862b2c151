package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"room-relay-service/internal/domain"
)

const (
	errorTypeProvider    = "provider"
	errorTypePersistence = "persistence"
	errorTypeInternal    = "internal"
)

// ErrorDetail is the raw error embedded in failure responses
type ErrorDetail struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Body       string `json:"body,omitempty"`
}

// ErrorResponse is the body of every 500 response
type ErrorResponse struct {
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

// respondError writes a 500 with a static message and the underlying error.
// Provider and persistence failures are not distinguished by status.
func respondError(c *gin.Context, logger *zap.Logger, message string, err error) {
	detail := ErrorDetail{Type: errorTypeInternal, Message: err.Error()}

	var providerErr *domain.ProviderError
	var persistenceErr *domain.PersistenceError
	switch {
	case errors.As(err, &providerErr):
		detail.Type = errorTypeProvider
		detail.StatusCode = providerErr.StatusCode
		detail.Body = providerErr.Body
	case errors.As(err, &persistenceErr):
		detail.Type = errorTypePersistence
	}

	logger.Error(message,
		zap.String("errorType", detail.Type),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: message,
		Error:   detail,
	})
}
