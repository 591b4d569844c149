package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/logger"
)

// respondError translates a service error into the JSON error body. The
// client sees apperr.Message, which hides internal detail for anything
// mapped to a 500; the full error only goes to the log.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		log.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	return c.JSON(status, map[string]interface{}{
		"error": apperr.Message(err),
	})
}
