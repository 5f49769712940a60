package types

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    uint   `json:"user_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
}
