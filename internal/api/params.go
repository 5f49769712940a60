package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
)

func parseUint(raw string) (uint, bool) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// pathID reads a positive integer path parameter, answering 400 when it is malformed
func pathID(c *gin.Context, name string) (uint, bool) {
	id, ok := parseUint(c.Param(name))
	if !ok {
		badRequest(c, "invalid "+name)
	}
	return id, ok
}

// queryID reads an optional positive integer query parameter; zero means absent
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, ok := parseUint(raw)
	if !ok {
		badRequest(c, "invalid "+name)
	}
	return id, ok
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// pagination reads limit and offset, clamping limit to the maximum page size
func pagination(c *gin.Context) (limit, offset int, ok bool) {
	if limit, ok = queryInt(c, "limit", service.DefaultPageSize); !ok {
		return 0, 0, false
	}
	if offset, ok = queryInt(c, "offset", 0); !ok {
		return 0, 0, false
	}
	if limit == 0 {
		limit = service.DefaultPageSize
	}
	if limit > service.MaxPageSize {
		limit = service.MaxPageSize
	}
	return limit, offset, true
}

// currentUser returns the authenticated caller; routes using it sit behind AuthMiddleware
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		middleware.AbortWithError(c, http.StatusUnauthorized, middleware.CodeUnauthorized, "user not authenticated")
	}
	return id, ok
}
