package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/asaase-aban/registry/cmd/registry/container"
	"github.com/asaase-aban/registry/common/bootstrap"
	"github.com/asaase-aban/registry/common/storage"
)

// DocumentHandler serves stored land documents
type DocumentHandler struct {
	components *bootstrap.Components
	store      *storage.DocumentStore
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(c *container.Container) *DocumentHandler {
	return &DocumentHandler{
		components: c.Components,
		store:      c.Documents,
	}
}

// GetDocument streams one stored document. A missing file is a 404, never
// a 500; the store sanitizes the filename to its base name.
// GET /api/documents/:filename
func (h *DocumentHandler) GetDocument(c echo.Context) error {
	path, err := h.store.Path(c.Param("filename"))
	if err != nil {
		return respondError(c, h.components.Logger, err)
	}

	return c.File(path)
}
