package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/hackhub/auth-service/internal/domain/errors"
)

// SuccessResponse is the envelope for every successful API response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorBody carries the client-facing failure description.
type ErrorBody struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ErrorResponse is the envelope for every failed API response.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// RespondSuccess writes a success envelope.
func RespondSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{Success: true, Message: message, Data: data})
}

// RespondError writes an error envelope with an explicit status and
// message.
func RespondError(c *gin.Context, statusCode int, message string, details ...string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   ErrorBody{Message: message, Details: details},
	})
}

// RespondWithDomainError maps a service error to its status code and
// client message. Unrecognized errors are logged in full and collapsed
// to a generic 500; internal detail never reaches the client.
func RespondWithDomainError(c *gin.Context, err error, logger *zap.Logger) {
	status := domainErrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Internal error on API path",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		message = domainErrors.ErrInternal.Error()
	}
	RespondError(c, status, message)
}

// RespondValidationError writes the 400 envelope for malformed request
// bodies.
func RespondValidationError(c *gin.Context, details ...string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   ErrorBody{Message: "Validation error", Details: details},
	})
}
