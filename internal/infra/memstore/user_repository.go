// Package memstore provides an in-memory implementation of the persistence
// interfaces. It owns the user collection exclusively; callers only ever see
// copies of records.
package memstore

import (
	"context"
	"sync"

	"authd/internal/domain/entity"
	"authd/internal/domain/repository"
)

// userRepository keeps users in registration order with secondary indexes by
// email and by refresh token. All mutation happens under the mutex, including
// the id counter, so assignment stays monotonic under concurrent requests.
type userRepository struct {
	mu      sync.RWMutex
	users   []*entity.User
	byEmail map[string]*entity.User
	byToken map[string]*entity.User
	nextID  int64
}

// NewUserRepository is the constructor for the in-memory user repository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byEmail: make(map[string]*entity.User),
		byToken: make(map[string]*entity.User),
	}
}

// FindByID retrieves a copy of the user with the given id. Ids are
// positional: records are never deleted, so user id n lives at index n-1.
func (r *userRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 1 || id > int64(len(r.users)) {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(r.users[id-1]), nil
}

// FindByEmail retrieves a copy of the user with the given email.
// Email matching is case-sensitive.
func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

// FindByRefreshToken retrieves a copy of the user whose stored refresh token
// equals the given token. An empty token never matches: cleared sessions are
// not indexed.
func (r *userRepository) FindByRefreshToken(_ context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrUserNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byToken[token]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

// Create appends a new user, enforcing email uniqueness and assigning the
// next monotonic id. The id counter increments together with the insertion,
// under the same lock.
func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}

	r.nextID++
	user.ID = r.nextID

	stored := cloneUser(user)
	r.users = append(r.users, stored)
	r.byEmail[stored.Email] = stored
	if stored.RefreshToken != "" {
		r.byToken[stored.RefreshToken] = stored
	}

	return nil
}

// SetRefreshToken replaces the user's stored refresh token in place and keeps
// the token index consistent. An empty token clears the session.
func (r *userRepository) SetRefreshToken(_ context.Context, userID int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID < 1 || userID > int64(len(r.users)) {
		return repository.ErrUserNotFound
	}

	user := r.users[userID-1]
	if user.RefreshToken != "" {
		delete(r.byToken, user.RefreshToken)
	}

	user.RefreshToken = token
	if token != "" {
		r.byToken[token] = user
	}

	return nil
}

// ListAll returns copies of every user in registration order.
func (r *userRepository) ListAll(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}

	return users, nil
}

func cloneUser(user *entity.User) *entity.User {
	clone := *user
	return &clone
}
