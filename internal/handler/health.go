package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe used by the hosting platform's checks.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
