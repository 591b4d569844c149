package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/service"
	"github.com/asaase-aban/registry/common/bootstrap"
)

// TransferHandler handles ownership transfers
type TransferHandler struct {
	components *bootstrap.Components
	transfers  *service.TransferService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(c *container.Container) *TransferHandler {
	return &TransferHandler{
		components: c.Components,
		transfers:  c.TransferService,
	}
}

type transferBody struct {
	LandID       int64  `json:"landId"`
	NewOwner     string `json:"newOwner"`
	CurrentOwner string `json:"currentOwner"`
}

// TransferLand moves parcel ownership to a new wallet
// POST /api/transfer-land
func (h *TransferHandler) TransferLand(c echo.Context) error {
	ctx := c.Request().Context()

	var body transferBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	result, err := h.transfers.Transfer(ctx, &service.TransferRequest{
		LandID:       body.LandID,
		NewOwner:     body.NewOwner,
		CurrentOwner: body.CurrentOwner,
	})
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Land transferred successfully",
		"landId":        result.LandID,
		"newOwner":      result.NewOwner,
		"transactionId": result.TransactionID,
	})
}

// ValidateTransfer runs transfer preconditions without mutating anything
// POST /api/transfer-land/validate
func (h *TransferHandler) ValidateTransfer(c echo.Context) error {
	ctx := c.Request().Context()

	var body transferBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	if err := h.transfers.Validate(ctx, &service.TransferRequest{
		LandID:       body.LandID,
		NewOwner:     body.NewOwner,
		CurrentOwner: body.CurrentOwner,
	}); err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Transfer is valid",
	})
}
