package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token type claims embedded in every issued token.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the identity payload carried by issued tokens.
type Claims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating bearer tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateAccessToken creates a short-lived signed token for the user.
	GenerateAccessToken(userID int64, email string) (string, error)

	// GenerateRefreshToken creates a long-lived signed token for the user.
	GenerateRefreshToken(userID int64, email string) (string, error)

	// ValidateToken checks signature and expiry together. Any failure (bad
	// signature, malformed token, expired) collapses to a single error kind
	// so callers cannot tell which check failed.
	ValidateToken(tokenString string) (*Claims, error)
}
