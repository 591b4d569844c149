package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// WalletKey is the context key for the authenticated wallet address
	WalletKey ContextKey = "wallet"
)

// RoleChecker resolves whether a wallet holds the admin role
type RoleChecker interface {
	IsAdmin(ctx context.Context, wallet string) (bool, error)
}

// ExtractWallet extracts the X-Wallet-Address header into the request
// context. Routes that merely personalize output use this; routes that
// require identity add RequireWallet.
func ExtractWallet() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wallet := c.Request().Header.Get("X-Wallet-Address")
			if wallet != "" {
				c.Set(string(WalletKey), wallet)
			}
			return next(c)
		}
	}
}

// RequireWallet rejects requests without an authenticated wallet
func RequireWallet() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetWallet(c) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "X-Wallet-Address header is required",
				})
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects requests whose wallet does not hold the admin role.
// The role comes from the users table, never from anything client-supplied,
// so the reviewer identity on decisions is always the authenticated admin.
func RequireAdmin(roles RoleChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wallet := GetWallet(c)
			if wallet == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "X-Wallet-Address header is required",
				})
			}

			isAdmin, err := roles.IsAdmin(c.Request().Context(), wallet)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]interface{}{
					"error": "Internal Server Error",
				})
			}
			if !isAdmin {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error": "Admin access required",
				})
			}

			return next(c)
		}
	}
}

// GetWallet retrieves the wallet from the request context
// Returns empty string if not set
func GetWallet(c echo.Context) string {
	wallet := c.Get(string(WalletKey))
	if wallet == nil {
		return ""
	}
	return wallet.(string)
}

// RequireWalletValue ensures a wallet exists in context and returns it.
// Writes the 401 response itself when missing.
func RequireWalletValue(c echo.Context) (string, error) {
	wallet := GetWallet(c)
	if wallet == "" {
		err := c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": "authentication required (X-Wallet-Address header missing)",
		})
		return "", err
	}
	return wallet, nil
}
