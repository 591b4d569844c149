package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/common/ratelimit"
)

// GlobalRateLimitMiddleware checks the global service-wide rate limit.
// Protects the entire service from being overwhelmed.
func GlobalRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := rateLimiter.CheckGlobalLimit(c.Request().Context(), limit)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "global_rate_limit_exceeded",
					"message": "Service is experiencing high load. Please try again later.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}

// WalletRateLimitMiddleware checks per-wallet rate limits for one operation
// class. Requires the wallet to be set in context by ExtractWallet; requests
// with no wallet fall through to the handler's own auth checks.
func WalletRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, op ratelimit.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wallet, ok := c.Get("wallet").(string)
			if !ok || wallet == "" {
				return next(c)
			}

			result, err := rateLimiter.CheckWalletLimit(c.Request().Context(), wallet, op)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "rate_limit_exceeded",
					"message": "You have exceeded your request quota. Please wait before trying again.",
					"details": map[string]interface{}{
						"wallet":              wallet,
						"operation":           op,
						"limit":               result.Limit,
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
