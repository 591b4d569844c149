package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/handlers"
	"github.com/asaase-aban/registry/cmd/registry/middleware"
)

// RegisterTransferRoutes registers ownership transfer routes
func RegisterTransferRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewTransferHandler(c)

	transfer := e.Group("/api/transfer-land")
	transfer.Use(middleware.ExtractWallet())
	{
		transfer.POST("", h.TransferLand)
		transfer.POST("/validate", h.ValidateTransfer)
	}
}
