package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/handlers"
)

// RegisterUserRoutes registers wallet user routes
func RegisterUserRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewUserHandler(c)

	e.GET("/api/user/:wallet", h.GetUser)
	e.GET("/api/users", h.ListUsers)
}
