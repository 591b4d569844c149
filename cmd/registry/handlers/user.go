package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/service"
	"github.com/asaase-aban/registry/common/bootstrap"
)

// UserHandler handles wallet user lookups
type UserHandler struct {
	components *bootstrap.Components
	users      *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(c *container.Container) *UserHandler {
	return &UserHandler{
		components: c.Components,
		users:      c.UserService,
	}
}

// GetUser returns the user for a wallet, registering it on first lookup
// GET /api/user/:wallet
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	wallet := c.Param("wallet")

	user, err := h.users.Lookup(ctx, wallet)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"blockchain_id": user.BlockchainID,
		"user_role":     user.UserRole,
	})
}

// ListUsers returns all registered users
// GET /api/users
func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.users.List(ctx)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	wallets := make([]string, 0, len(users))
	for _, u := range users {
		wallets = append(wallets, u.BlockchainID)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"users": wallets,
		"count": len(wallets),
	})
}
