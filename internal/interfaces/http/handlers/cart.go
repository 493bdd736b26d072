// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/domain/cart"
	"github.com/your-org/boba-pos-backend/internal/domain/menu"
	"github.com/your-org/boba-pos-backend/internal/interfaces/http/middleware"
)

// CartHandler handles session cart endpoints
type CartHandler struct {
	cartService *cart.Service
	menuService *menu.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, menuService *menu.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		menuService: menuService,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cartResponse, err := h.cartService.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": cartResponse,
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sessionID := middleware.GetSessionID(c)
	catalog, err := h.menuService.SessionCatalog(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err, "Failed to load menu")
		return
	}

	cartResponse, err := h.cartService.AddItem(c.Request.Context(), sessionID, catalog, &req)
	if err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse,
	})
}

// UpdateItem handles PUT /cart/items/:index
func (h *CartHandler) UpdateItem(c *gin.Context) {
	index, ok := parseIndexParam(c)
	if !ok {
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sessionID := middleware.GetSessionID(c)
	catalog, err := h.menuService.SessionCatalog(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err, "Failed to load menu")
		return
	}

	cartResponse, err := h.cartService.UpdateItem(c.Request.Context(), sessionID, catalog, index, &req)
	if err != nil {
		respondError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse,
	})
}

// IncrementItem handles POST /cart/items/:index/increment
func (h *CartHandler) IncrementItem(c *gin.Context) {
	h.adjust(c, h.cartService.IncrementItem)
}

// DecrementItem handles POST /cart/items/:index/decrement. A line at
// quantity one is removed.
func (h *CartHandler) DecrementItem(c *gin.Context) {
	h.adjust(c, h.cartService.DecrementItem)
}

// RemoveItem handles DELETE /cart/items/:index
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.adjust(c, h.cartService.RemoveItem)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

type indexOp func(ctx context.Context, sessionID string, index int) (*cart.CartResponse, error)

func (h *CartHandler) adjust(c *gin.Context, op indexOp) {
	index, ok := parseIndexParam(c)
	if !ok {
		return
	}

	cartResponse, err := op(c.Request.Context(), middleware.GetSessionID(c), index)
	if err != nil {
		respondError(c, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": cartResponse,
	})
}
