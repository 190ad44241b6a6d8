// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "authd/internal/delivery/context"
	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"
	"authd/internal/domain/service"
	"authd/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface. Session state lives
// entirely in the user record's refresh token; there is no separate session
// object. Refresh-token validity is anchored to the single stored token per
// user, so logout and re-login invalidate older tokens before they expire.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers a new user. It hashes the password, enforces email
// uniqueness, and creates the record with an empty refresh token. Signup
// never issues tokens and never accepts a caller-supplied refresh token.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	srv.log(ctx).Debug("Starting signup", slog.String("email", input.Email))

	if _, err := srv.userRepo.FindByEmail(ctx, input.Email); err == nil {
		srv.log(ctx).Warn("Signup rejected, email already registered", slog.String("email", input.Email))

		return nil, domainerrors.ErrDuplicateEmail.WrapMessage("signup failed")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing email")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("signup failed")
	}

	newUser := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrDuplicateEmail.WrapMessage("signup failed")
		}

		return nil, errors.Wrap(err, "failed to create user during signup")
	}

	srv.log(ctx).Info("User registered", slog.Int64("userID", newUser.ID))

	return &usecase.SignupOutput{UserID: newUser.ID}, nil
}

// Login verifies credentials and issues a fresh access/refresh token pair.
// The stored refresh token is overwritten, which invalidates any prior
// session's refresh token for that user: single active session per user.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, user not found", slog.String("email", input.Email))

			return nil, domainerrors.ErrUserNotFound.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// bcrypt comparison is CPU-bound; it runs on the request goroutine and
	// never holds a store lock.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	if err := srv.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token during login")
	}

	srv.log(ctx).Info("User logged in", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// stored-token equality check is the authority: a token whose signature
// verifies but is not the one currently on file for any user is rejected.
// The stored refresh token is left unchanged (no rotation).
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	srv.log(ctx).Debug("Attempting to refresh access token")

	user, err := srv.userRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Refresh rejected, token matches no active session")

			return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh failed")
		}

		return nil, errors.Wrap(err, "failed to find user by refresh token")
	}

	if _, err := srv.tokenService.ValidateToken(refreshToken); err != nil {
		srv.log(ctx).Warn("Refresh rejected, token failed validation", slog.Int64("userID", user.ID))

		return nil, errors.Wrap(err, "refresh failed")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	srv.log(ctx).Debug("Access token refreshed", slog.Int64("userID", user.ID))

	return &usecase.RefreshOutput{AccessToken: accessToken}, nil
}

// Logout clears the stored refresh token of the matching session, if any.
// It is idempotent and always succeeds, so callers cannot probe whether a
// token was valid.
func (srv *authService) Logout(ctx context.Context, refreshToken string) {
	user, err := srv.userRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		srv.log(ctx).Debug("Logout with no matching session")

		return
	}

	if err := srv.userRepo.SetRefreshToken(ctx, user.ID, ""); err != nil {
		srv.log(ctx).Error("Failed to clear refresh token during logout", slog.Int64("userID", user.ID), slog.Any("error", err))

		return
	}

	srv.log(ctx).Info("User logged out", slog.Int64("userID", user.ID))
}

// ListUsers returns the public projection of every user in registration order.
func (srv *authService) ListUsers(ctx context.Context) ([]*entity.PublicUser, error) {
	users, err := srv.userRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	public := make([]*entity.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}

	return public, nil
}

// GetUser returns the public projection of a single user.
func (srv *authService) GetUser(ctx context.Context, id int64) (*entity.PublicUser, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user.Public(), nil
}
