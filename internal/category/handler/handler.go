package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/category"
	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	"github.com/fekuna/omnipos-menu-service/internal/httpx"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	gate   *auth.Gate
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, gate *auth.Gate, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		gate:   gate,
		logger: log,
	}
}

type createCategoryRequest struct {
	Name          string  `json:"name"`
	ParentID      *string `json:"parent_id"`
	AdminPassword string  `json:"admin_password"`
}

type renameCategoryRequest struct {
	Name          string `json:"name"`
	AdminPassword string `json:"admin_password"`
}

// ListTree handles GET /api/categories.
func (h *CategoryHandler) ListTree(c *gin.Context) {
	tree, err := h.uc.ListTree(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetCategory handles GET /api/categories/:id.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// CreateCategory handles POST /api/admin/categories.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.InvalidBody(c, h.gate)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), httpx.Credential(c, req.AdminPassword), &dto.CreateCategoryInput{
		ParentID: req.ParentID,
		Name:     req.Name,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// RenameCategory handles PUT /api/admin/categories/:id.
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	var req renameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.InvalidBody(c, h.gate)
		return
	}

	cat, err := h.uc.RenameCategory(c.Request.Context(), httpx.Credential(c, req.AdminPassword), &dto.RenameCategoryInput{
		ID:   c.Param("id"),
		Name: req.Name,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// DeleteCategory handles DELETE /api/admin/categories/:id. While items or
// subcategories exist it answers 409 with their counts and deletes nothing.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), httpx.CredentialNoBody(c), c.Param("id")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// ForceDeleteCategory handles DELETE /api/admin/categories/:id/force.
func (h *CategoryHandler) ForceDeleteCategory(c *gin.Context) {
	result, err := h.uc.ForceDeleteCategory(c.Request.Context(), httpx.CredentialNoBody(c), c.Param("id"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":               "Category and its contents deleted successfully",
		"items_deleted":         result.ItemsDeleted,
		"subcategories_deleted": result.SubcategoriesDeleted,
	})
}
