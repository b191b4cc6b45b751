package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterPages mounts the root status page and forwards browser visits of
// /reset-password to the frontend form, query string included.
func RegisterPages(e *echo.Echo, appName, frontendURL string) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"service": appName,
			"status":  "running",
		})
	})

	e.GET("/reset-password", func(c echo.Context) error {
		target := frontendURL + "/reset-password"
		if raw := c.Request().URL.RawQuery; raw != "" {
			target += "?" + raw
		}
		return c.Redirect(http.StatusTemporaryRedirect, target)
	})
}
