package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/handlers"
)

// RegisterDocumentRoutes registers document retrieval routes
func RegisterDocumentRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewDocumentHandler(c)

	e.GET("/api/documents/:filename", h.GetDocument)
}
