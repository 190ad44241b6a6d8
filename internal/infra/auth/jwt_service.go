// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authd/config"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/service"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret     string        // Process-wide signing secret.
	accessTTL  time.Duration // Time-to-live for access tokens.
	refreshTTL time.Duration // Time-to-live for refresh tokens.
}

// NewJWTService is the constructor for jwtService. An empty secret does not
// fail construction: the service refuses to issue or verify tokens instead,
// so the process keeps serving and reports a configuration error per request.
func NewJWTService(cfg *config.Config) service.TokenService {
	return &jwtService{
		secret:     cfg.SecretKey.JWT,
		accessTTL:  accessTokenTTL,
		refreshTTL: refreshTokenTTL,
	}
}

// GenerateAccessToken creates a short-lived signed token carrying the user's identity claims.
func (s *jwtService) GenerateAccessToken(userID int64, email string) (string, error) {
	return s.generateToken(userID, email, s.accessTTL, service.TokenTypeAccess)
}

// GenerateRefreshToken creates a long-lived signed token carrying the user's identity claims.
func (s *jwtService) GenerateRefreshToken(userID int64, email string) (string, error) {
	return s.generateToken(userID, email, s.refreshTTL, service.TokenTypeRefresh)
}

// ValidateToken checks signature and expiry together. Every failure collapses
// to ErrTokenExpiredOrInvalid so callers cannot tell which check failed.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	if s.secret == "" {
		return nil, domainerrors.ErrMissingSecret.WrapMessage("jwt signing secret is not configured")
	}

	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrTokenExpiredOrInvalid.WrapMessage("token validation failed")
	}

	return claims, nil
}

// generateToken is a private helper to create a JWT with the identity claims.
func (s *jwtService) generateToken(userID int64, email string, ttl time.Duration, tokenType string) (string, error) {
	if s.secret == "" {
		return "", domainerrors.ErrMissingSecret.WrapMessage("jwt signing secret is not configured")
	}

	now := time.Now()
	claims := &service.Claims{
		UserID: userID,
		Email:  email,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
