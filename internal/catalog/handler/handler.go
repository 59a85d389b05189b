package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-menu-service/internal/catalog"
	"github.com/fekuna/omnipos-menu-service/internal/httpx"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

// GetCatalog handles GET /api/catalog.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	s, err := h.uc.GetCatalog(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetAdminCatalog handles GET /api/admin/catalog.
func (h *CatalogHandler) GetAdminCatalog(c *gin.Context) {
	s, err := h.uc.GetAdminCatalog(c.Request.Context(), httpx.CredentialNoBody(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ListAdminItems handles GET /api/admin/items, the admin table listing.
func (h *CatalogHandler) ListAdminItems(c *gin.Context) {
	s, err := h.uc.GetAdminCatalog(c.Request.Context(), httpx.CredentialNoBody(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s.Items)
}

// View handles GET /api/menu/view. Ids (category_id, subcategory_id) take
// precedence over display names (category, subcategory).
func (h *CatalogHandler) View(c *gin.Context) {
	var (
		items []model.ItemView
		err   error
	)

	categoryID, subcategoryID := c.Query("category_id"), c.Query("subcategory_id")
	if categoryID != "" || subcategoryID != "" {
		items, err = h.uc.View(c.Request.Context(), catalog.Selection{
			CategoryID:    categoryID,
			SubcategoryID: subcategoryID,
		})
	} else {
		items, err = h.uc.ViewByNames(c.Request.Context(), c.Query("category"), c.Query("subcategory"))
	}
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
