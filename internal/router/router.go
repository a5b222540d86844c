// Package router wires handlers, middleware and the error mapping onto the
// Echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/6Yass9/souli-studio-server/internal/config"
	"github.com/6Yass9/souli-studio-server/internal/handler"
	"github.com/6Yass9/souli-studio-server/internal/middleware"
)

// Register sets up every route of the studio API. rdb may be nil; the
// login rate limiter then becomes a no-op.
func Register(e *echo.Echo, cfg config.Config, rlCfg config.RateLimitConfig, rdb *redis.Client, a *handler.AuthHandler, ap *handler.AppointmentHandler) {
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", handler.Health)

	// The login endpoint is POST-only; other methods fall through to the
	// error handler's 405 mapping.
	e.POST("/api/login", a.Login, middleware.LoginRateLimit(rlCfg, rdb))

	e.POST("/api/appointments", ap.Create)
	e.POST("/api/notify", ap.Notify)

	// Portal routes require a session token.
	portal := e.Group("/api")
	portal.Use(middleware.SessionAuth(cfg.JWTSecret))
	portal.GET("/me", a.Me)
}

// errorHandler renders errors Echo raises itself (unknown routes, method
// mismatches, bind failures outside handlers) in the same {"error": ...}
// shape the handlers use.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := "Server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch status {
		case http.StatusMethodNotAllowed:
			msg = "Method not allowed"
		case http.StatusNotFound:
			msg = "Not found"
		default:
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
	}
	_ = c.JSON(status, echo.Map{"error": msg})
}
