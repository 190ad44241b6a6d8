// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"authd/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new user.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// SignupOutput returns the newly registered user's id. Signup issues no tokens.
type SignupOutput struct {
	UserID int64
}

// LoginOutput returns the generated token pair after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
}

// RefreshOutput returns the new access token. The stored refresh token is
// unchanged by a refresh.
type RefreshOutput struct {
	AccessToken string
}

// AuthUsecase defines the session lifecycle operations the delivery layer
// depends on: Anonymous -> Registered -> LoggedIn <-> Refreshed, with logout
// returning the user to Registered.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshOutput, error)

	// Logout clears the matching session if one exists. It never fails
	// outwardly, so callers cannot probe whether a token was valid.
	Logout(ctx context.Context, refreshToken string)

	ListUsers(ctx context.Context) ([]*entity.PublicUser, error)
	GetUser(ctx context.Context, id int64) (*entity.PublicUser, error)
}
