package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/response"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// UserHandler holds dependencies for user listing and protected handlers.
type UserHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// ListUsers returns every registered user in registration order.
// Only the public projection leaves the service.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.authUC.ListUsers(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"users": users}, "Users retrieved successfully")
}

// GetUser returns a single user's public projection by path id.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, domainerrors.ErrValidationFailed.ErrorCode(), "Invalid user id")
	}

	user, err := h.authUC.GetUser(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"user": user}, "User retrieved successfully")
}

// Dashboard greets the authenticated caller. The access guard has already
// attached the token claims to the context.
func (h *UserHandler) Dashboard(c echo.Context) error {
	email, ok := c.Get(middleware.ContextKeyUserEmail).(string)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), domainerrors.ErrUnauthorized.Message())
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"message": "Welcome to your dashboard, " + email,
	}, "Dashboard retrieved successfully")
}

// Liveness is the plain-text liveness probe on the root path.
func Liveness(c echo.Context) error {
	return c.String(http.StatusOK, "Auth service is running...")
}
