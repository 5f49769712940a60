package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ezchef/ezchef/backend/internal/logger"
)

// Error codes carried in the "code" field of error responses
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// AbortWithError stops the chain and writes an ErrorResponse
func AbortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// ErrorHandler turns errors attached with c.Error into a JSON 500 when the handler
// wrote nothing itself
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		logger.Error("unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.Strings("errors", c.Errors.Errors()),
		)

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		code := CodeInternal
		if status < http.StatusInternalServerError {
			code = CodeInvalidRequest
		}
		c.JSON(status, ErrorResponse{Error: http.StatusText(status), Code: code})
	}
}
