package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/cmd/registry/middleware"
	"github.com/asaase-aban/registry/cmd/registry/service"
	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/bootstrap"
)

// AdminHandler handles the review queue and the audit trail
type AdminHandler struct {
	components   *bootstrap.Components
	reviews      *service.ReviewService
	transactions *service.TransactionService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(c *container.Container) *AdminHandler {
	return &AdminHandler{
		components:   c.Components,
		reviews:      c.ReviewService,
		transactions: c.TransactionService,
	}
}

// ListSubmissions returns one page of the review queue
// GET /api/admin/submissions?page&limit&status&search
func (h *AdminHandler) ListSubmissions(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	resp, err := h.reviews.List(ctx, service.ListRequest{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"submissions": resp.Submissions,
		"total":       resp.Total,
		"page":        resp.Page,
		"limit":       resp.Limit,
		"totalPages":  resp.TotalPages,
	})
}

// GetSubmission returns a single submission
// GET /api/admin/submissions/:id
func (h *AdminHandler) GetSubmission(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := submissionID(c)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	sub, err := h.reviews.Get(ctx, id)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"submission": sub,
	})
}

// ReviewSubmission applies an approve/reject decision. The reviewer is the
// authenticated admin from middleware, never the request body.
// POST /api/admin/submissions/:id/review
func (h *AdminHandler) ReviewSubmission(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := submissionID(c)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	reviewer, err := middleware.RequireWalletValue(c)
	if err != nil {
		return err
	}

	var req struct {
		Status     string `json:"status"`
		AdminNotes string `json:"adminNotes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	h.components.Logger.Info("reviewing submission",
		"submission_id", id,
		"decision", req.Status,
		"reviewer", reviewer,
	)

	sub, err := h.reviews.Decide(ctx, id, req.Status, req.AdminNotes, reviewer)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Submission " + string(sub.Status),
		"submission": sub,
	})
}

// AmendSubmission applies a JSON Patch to a pending submission
// PATCH /api/admin/submissions/:id
func (h *AdminHandler) AmendSubmission(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := submissionID(c)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	sub, err := h.reviews.Amend(ctx, id, body)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"submission": sub,
	})
}

// ListTransactions returns the ownership audit trail, newest first
// GET /api/admin/transactions
func (h *AdminHandler) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	txs, err := h.transactions.List(ctx)
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

func submissionID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.New(apperr.KindValidation, "Invalid submission id")
	}
	return id, nil
}
