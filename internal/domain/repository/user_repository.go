// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authd/internal/domain/entity"
)

// Domain-specific errors for user persistence.
// This allows the application layer to handle specific outcomes without depending on storage-specific errors.
var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when creating a user with an email that is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the standard operations for user persistence.
// The in-memory store is the default implementation; durable storage can be
// swapped in behind this interface without touching lifecycle logic.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByRefreshToken retrieves the user whose stored refresh token equals
	// the given token. An empty token never matches.
	FindByRefreshToken(ctx context.Context, token string) (*entity.User, error)

	// Create persists a new user, assigning the next monotonic ID.
	// The passed entity's ID field is filled in on success.
	Create(ctx context.Context, user *entity.User) error

	// SetRefreshToken replaces the user's stored refresh token.
	// An empty token clears the session.
	SetRefreshToken(ctx context.Context, userID int64, token string) error

	// ListAll returns every user in registration order.
	ListAll(ctx context.Context) ([]*entity.User, error)
}
