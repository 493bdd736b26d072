// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/boba-pos-backend/internal/domain/cart"
	"github.com/your-org/boba-pos-backend/internal/domain/checkout"
	"github.com/your-org/boba-pos-backend/internal/interfaces/http/middleware"
)

// HeaderIdempotencyKey lets a client retry a submission safely
const HeaderIdempotencyKey = "Idempotency-Key"

// CheckoutHandler settles session carts
type CheckoutHandler struct {
	cartService     *cart.Service
	checkoutService *checkout.Service
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(cartService *cart.Service, checkoutService *checkout.Service, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkout.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Employee checkout when a staff token is present, kiosk otherwise
	if employeeID, ok := middleware.GetEmployeeIDFromContext(c); ok {
		req.EmployeeID = employeeID
	}
	req.IdempotencyKey = c.GetHeader(HeaderIdempotencyKey)

	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)
	req.SessionID = sessionID

	items, err := h.cartService.Snapshot(ctx, sessionID)
	if err != nil {
		respondError(c, err, "Failed to read cart")
		return
	}

	receipt, err := h.checkoutService.Submit(ctx, items, req)
	if err != nil {
		respondError(c, err, "Failed to place order")
		return
	}

	if receipt.Replayed {
		body := gin.H{
			"message": "Order already placed",
			"data":    receipt,
		}
		if receipt.PartialSuccess() {
			body["warning"] = receipt.Warning
		}
		c.JSON(http.StatusOK, body)
		return
	}

	// The order stands; a stale cart is only an inconvenience
	if err := h.cartService.ClearCart(ctx, sessionID); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"session_id": sessionID,
			"order_id":   receipt.OrderID,
		}).Warn("failed to clear cart after checkout")
	}

	body := gin.H{
		"message": "Order placed successfully",
		"data":    receipt,
	}
	if receipt.PartialSuccess() {
		body["warning"] = receipt.Warning
	}
	c.JSON(http.StatusCreated, body)
}
