// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"remu/internal/delivery/http/middleware"
	"remu/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	ReviewHandler     *handler.ReviewHandler
	CatalogHandler    *handler.CatalogHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	reviewHandler     *handler.ReviewHandler
	catalogHandler    *handler.CatalogHandler
	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		userHandler:       params.UserHandler,
		reviewHandler:     params.ReviewHandler,
		catalogHandler:    params.CatalogHandler,
		sessionMiddleware: params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public catalog routes
	e.GET("/main", r.catalogHandler.List)
	e.GET("/search", r.catalogHandler.Search)
	e.GET("/detail", r.catalogHandler.Detail)

	// Auth routes; logout, password change and account deletion need a
	// live session, join and login obviously do not.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/join", r.authHandler.Join)
		authGroup.POST("/login", r.authHandler.Login)

		authGroup.POST("/logout", r.authHandler.Logout, r.sessionMiddleware.Authenticate)
		authGroup.PUT("/password", r.authHandler.ChangePassword, r.sessionMiddleware.Authenticate)
		authGroup.DELETE("/account", r.authHandler.DeleteAccount, r.sessionMiddleware.Authenticate)
	}

	// Account self-service routes
	userGroup := e.Group("/user")
	userGroup.Use(r.sessionMiddleware.Authenticate)
	{
		userGroup.GET("", r.userHandler.Profile)
		userGroup.PATCH("", r.userHandler.UpdateProfile)
		userGroup.GET("/reviews", r.userHandler.Reviews)
	}

	// Review mutation routes
	reviewGroup := e.Group("/review")
	reviewGroup.Use(r.sessionMiddleware.Authenticate)
	{
		reviewGroup.POST("/addition", r.reviewHandler.Create)
		reviewGroup.PUT("/:id", r.reviewHandler.Update)
		reviewGroup.DELETE("/:id", r.reviewHandler.Delete)
	}
}
