package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/cmd/registry/service"
	"github.com/asaase-aban/registry/common/bootstrap"
)

// LandHandler handles land registration intake and listings
type LandHandler struct {
	components  *bootstrap.Components
	submissions *service.SubmissionService
	lands       *service.LandService
}

// NewLandHandler creates a new land handler
func NewLandHandler(c *container.Container) *LandHandler {
	return &LandHandler{
		components:  c.Components,
		submissions: c.SubmissionService,
		lands:       c.LandService,
	}
}

// RegisterLand accepts a new land registration submission
// POST /api/lands/register (multipart form)
func (h *LandHandler) RegisterLand(c echo.Context) error {
	ctx := c.Request().Context()

	req := &service.RegisterRequest{
		Location:    c.FormValue("location"),
		Description: c.FormValue("description"),
		Owner:       c.FormValue("owner"),
	}

	if file, err := c.FormFile("document"); err == nil {
		src, err := file.Open()
		if err != nil {
			return respondError(c, h.components.Logger, err)
		}
		defer src.Close()

		req.DocumentName = file.Filename
		req.DocumentSize = file.Size
		req.Document = src
	}

	sub, err := h.submissions.Register(ctx, req)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "Land registration submitted for review",
		"submissionId": sub.ID,
	})
}

// PendingByWallet lists a wallet's pending submissions
// GET /api/lands/pending/:wallet
func (h *LandHandler) PendingByWallet(c echo.Context) error {
	ctx := c.Request().Context()
	wallet := c.Param("wallet")

	subs, err := h.submissions.PendingByOwner(ctx, wallet)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	if subs == nil {
		subs = []*models.Submission{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"submissions": subs,
		"count":       len(subs),
	})
}

// AllParcels lists every surveyed parcel with boundary geometry
// GET /api/all-lands
func (h *LandHandler) AllParcels(c echo.Context) error {
	ctx := c.Request().Context()

	parcels, err := h.lands.AllParcels(ctx)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"lands": parcels,
		"count": len(parcels),
	})
}

// UserParcels lists the parcels a wallet currently holds
// GET /api/user-lands/:wallet
func (h *LandHandler) UserParcels(c echo.Context) error {
	ctx := c.Request().Context()
	wallet := c.Param("wallet")

	parcels, err := h.lands.ParcelsByOwner(ctx, wallet)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"lands": parcels,
		"count": len(parcels),
	})
}

// RegisteredLands lists lands materialized from approved submissions
// GET /api/lands
func (h *LandHandler) RegisteredLands(c echo.Context) error {
	ctx := c.Request().Context()

	lands, err := h.lands.RegisteredLands(ctx)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"lands": lands,
		"count": len(lands),
	})
}
