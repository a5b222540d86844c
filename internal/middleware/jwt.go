// Package middleware contains the HTTP middleware used by the studio API:
// session-token validation for portal routes and the optional login rate
// limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/6Yass9/souli-studio-server/internal/auth"
)

// SessionAuth validates a Bearer session token and injects its claims into
// the request context. Handlers behind it read the identity via
// c.Get("user_id") and c.Get("app_role").
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", claims.Subject)
			c.Set("app_role", claims.AppRole)
			c.Set("email", claims.Email)
			return next(c)
		}
	}
}
