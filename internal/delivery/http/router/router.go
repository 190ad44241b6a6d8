// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		userHandler:    params.UserHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Liveness endpoint
	e.GET("/", handler.Liveness)

	// Session lifecycle routes
	e.POST("/signup", r.authHandler.Signup)
	e.POST("/login", r.authHandler.Login)
	e.GET("/refresh", r.authHandler.Refresh)
	e.GET("/logout", r.authHandler.Logout)
	e.POST("/logout", r.authHandler.Logout)

	// User listing routes
	e.GET("/users", r.userHandler.ListUsers)
	e.GET("/users/:id", r.userHandler.GetUser)

	// Routes that require a valid access token
	dashboardGroup := e.Group("/dashboard")
	dashboardGroup.Use(r.authMiddleware.Authenticate)
	{
		dashboardGroup.GET("", r.userHandler.Dashboard)
		dashboardGroup.POST("", r.userHandler.Dashboard)
	}
}
