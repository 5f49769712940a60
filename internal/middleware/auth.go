package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ezchef/ezchef/backend/internal/types"
)

// Context keys set by the auth middlewares
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			AbortWithError(c, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			AbortWithError(c, http.StatusUnauthorized, CodeUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, CodeUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid bearer token is sent.
// Anonymous requests and bad tokens pass through without identity.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := validator.ValidateToken(c.Request.Context(), token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextUsername, claims.Username)
			}
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user's id
func UserIDFromContext(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
