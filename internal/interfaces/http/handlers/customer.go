// internal/interfaces/http/handlers/customer.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/domain/customer"
)

// CustomerHandler handles rewards customer endpoints
type CustomerHandler struct {
	customerService *customer.Service
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *customer.Service) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// StartSession handles POST /customers/session. The identity provider has
// already verified the identity; first-time customers start with 0 points.
func (h *CustomerHandler) StartSession(c *gin.Context) {
	var req customer.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cust, err := h.customerService.FindOrCreate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to start customer session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": cust,
	})
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	cust, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": cust,
	})
}
