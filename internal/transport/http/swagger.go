package http

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/hireradar/hireradar-api/docs"
)

// RegisterSwagger serves the Swagger UI and the embedded OpenAPI document
// under /swagger.
func RegisterSwagger(e *echo.Echo) error {
	if err := docs.Register(); err != nil {
		return err
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}
