package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/httpx"
	"github.com/fekuna/omnipos-menu-service/internal/item"
	"github.com/fekuna/omnipos-menu-service/internal/item/dto"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	uc     item.UseCase
	gate   *auth.Gate
	logger logger.ZapLogger
}

func NewItemHandler(uc item.UseCase, gate *auth.Gate, log logger.ZapLogger) *ItemHandler {
	return &ItemHandler{
		uc:     uc,
		gate:   gate,
		logger: log,
	}
}

type itemRequest struct {
	Name          string `json:"name"`
	Price         any    `json:"price"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	CategoryID    string `json:"category_id"`
	AdminPassword string `json:"admin_password"`
}

// ListItems handles GET /api/menu.
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.uc.ListItems(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem handles GET /api/menu/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	it, err := h.uc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// CreateItem handles POST /api/admin/items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.InvalidBody(c, h.gate)
		return
	}

	it, err := h.uc.CreateItem(c.Request.Context(), httpx.Credential(c, req.AdminPassword), &dto.CreateItemInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// UpdateItem handles PUT /api/admin/items/:id.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.InvalidBody(c, h.gate)
		return
	}

	it, err := h.uc.UpdateItem(c.Request.Context(), httpx.Credential(c, req.AdminPassword), &dto.UpdateItemInput{
		ID:          c.Param("id"),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// DeleteItem handles DELETE /api/admin/items/:id.
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.uc.DeleteItem(c.Request.Context(), httpx.CredentialNoBody(c), c.Param("id")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
