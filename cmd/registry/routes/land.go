package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/handlers"
	"github.com/asaase-aban/registry/cmd/registry/middleware"
	commonmw "github.com/asaase-aban/registry/common/middleware"
	"github.com/asaase-aban/registry/common/ratelimit"
)

// RegisterLandRoutes registers intake and listing routes
func RegisterLandRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewLandHandler(c)

	lands := e.Group("/api/lands")
	lands.Use(middleware.ExtractWallet())
	{
		lands.POST("/register",
			h.RegisterLand,
			commonmw.WalletRateLimitMiddleware(c.RateLimiter, ratelimit.OpIntake),
		)
		lands.GET("", h.RegisteredLands)
		lands.GET("/pending/:wallet", h.PendingByWallet)
	}

	e.GET("/api/all-lands", h.AllParcels)
	e.GET("/api/user-lands/:wallet", h.UserParcels)
}
