package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
)

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		middleware.AbortWithError(c, http.StatusBadRequest, middleware.CodeInvalidRequest, verr.Error())
	case errors.Is(err, service.ErrDuplicate):
		middleware.AbortWithError(c, http.StatusBadRequest, middleware.CodeInvalidRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		middleware.AbortWithError(c, http.StatusUnauthorized, middleware.CodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		middleware.AbortWithError(c, http.StatusForbidden, middleware.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		middleware.AbortWithError(c, http.StatusNotFound, middleware.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		middleware.AbortWithError(c, http.StatusServiceUnavailable, middleware.CodeServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		middleware.AbortWithError(c, http.StatusInternalServerError, middleware.CodeInternal, "internal server error")
	}
}

func badRequest(c *gin.Context, message string) {
	middleware.AbortWithError(c, http.StatusBadRequest, middleware.CodeInvalidRequest, message)
}

// bindJSON decodes and validates the request body, answering 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
