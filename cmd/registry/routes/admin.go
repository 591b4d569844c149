package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/handlers"
	"github.com/asaase-aban/registry/cmd/registry/middleware"
	commonmw "github.com/asaase-aban/registry/common/middleware"
	"github.com/asaase-aban/registry/common/ratelimit"
)

// RegisterAdminRoutes registers the review queue and audit trail routes.
// Everything under /api/admin requires an authenticated admin wallet.
func RegisterAdminRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAdminHandler(c)

	admin := e.Group("/api/admin")
	admin.Use(middleware.ExtractWallet())
	admin.Use(middleware.RequireAdmin(c.UserService))
	{
		admin.GET("/submissions", h.ListSubmissions)
		admin.GET("/submissions/:id", h.GetSubmission)
		admin.POST("/submissions/:id/review",
			h.ReviewSubmission,
			commonmw.WalletRateLimitMiddleware(c.RateLimiter, ratelimit.OpReview),
		)
		admin.PATCH("/submissions/:id", h.AmendSubmission)
		admin.GET("/transactions", h.ListTransactions)
	}
}
