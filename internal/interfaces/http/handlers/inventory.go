// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/domain/inventory"
	"github.com/your-org/boba-pos-backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles manager inventory endpoints
type InventoryHandler struct {
	inventoryService *inventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// ListItems handles GET /manager/inventory
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var req inventory.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	items, err := h.inventoryService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to retrieve inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// LowStock handles GET /manager/inventory/low-stock
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve low stock items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// GetItem handles GET /manager/inventory/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve inventory item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": item,
	})
}

// CreateItem handles POST /manager/inventory
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req inventory.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.inventoryService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create inventory item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Inventory item created successfully",
		"data":    item,
	})
}

// UpdateItem handles PUT /manager/inventory/:id
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req inventory.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update inventory item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory item updated successfully",
		"data":    item,
	})
}

// DeleteItem handles DELETE /manager/inventory/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete inventory item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory item deleted successfully",
	})
}

// AdjustStock handles POST /manager/inventory/:id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req inventory.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	employeeID, _ := middleware.GetEmployeeIDFromContext(c)
	movement, err := h.inventoryService.AdjustStock(c.Request.Context(), id, &req, employeeID)
	if err != nil {
		respondError(c, err, "Failed to adjust stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjusted successfully",
		"data":    movement,
	})
}

// Movements handles GET /manager/inventory/:id/movements
func (h *InventoryHandler) Movements(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	movements, err := h.inventoryService.Movements(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve stock movements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": movements,
	})
}
