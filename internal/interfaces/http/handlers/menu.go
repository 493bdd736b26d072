// internal/interfaces/http/handlers/menu.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/domain/menu"
	"github.com/your-org/boba-pos-backend/internal/interfaces/http/middleware"
)

// MenuHandler handles menu endpoints
type MenuHandler struct {
	menuService *menu.Service
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *menu.Service) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
	}
}

// GetMenu handles GET /menu. The catalog is pinned for the session.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	catalog, err := h.menuService.SessionCatalog(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err, "Failed to load menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": catalog,
	})
}

// ListItems handles GET /manager/menu
func (h *MenuHandler) ListItems(c *gin.Context) {
	items, err := h.menuService.ListItems(c.Request.Context(), menu.ItemType(c.Query("item_type")))
	if err != nil {
		respondError(c, err, "Failed to retrieve menu items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// GetItem handles GET /manager/menu/:id
func (h *MenuHandler) GetItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	item, err := h.menuService.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": item,
	})
}

// CreateItem handles POST /manager/menu
func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req menu.UpsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.menuService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create menu item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu item created successfully",
		"data":    item,
	})
}

// UpdateItem handles PUT /manager/menu/:id
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req menu.UpsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.menuService.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item updated successfully",
		"data":    item,
	})
}

// DeleteItem handles DELETE /manager/menu/:id
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted successfully",
	})
}
