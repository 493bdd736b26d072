// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/domain/analytics"
	"github.com/your-org/boba-pos-backend/internal/domain/cart"
	"github.com/your-org/boba-pos-backend/internal/domain/checkout"
	"github.com/your-org/boba-pos-backend/internal/domain/customer"
	"github.com/your-org/boba-pos-backend/internal/domain/employee"
	"github.com/your-org/boba-pos-backend/internal/domain/inventory"
	"github.com/your-org/boba-pos-backend/internal/domain/menu"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
	"github.com/your-org/boba-pos-backend/internal/pkg/auth"
)

// errorStatus maps domain errors to HTTP status codes
func errorStatus(err error) int {
	var validationErr *cart.ValidationError
	var storeErr *checkout.OrderStoreError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &storeErr):
		return http.StatusBadGateway

	case errors.Is(err, menu.ErrItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, inventory.ErrItemNotFound):
		return http.StatusNotFound

	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, menu.ErrInvalidMenuRow),
		errors.Is(err, customer.ErrInvalidIdentity),
		errors.Is(err, employee.ErrInvalidRole),
		errors.Is(err, inventory.ErrInvalidMovement),
		errors.Is(err, analytics.ErrInvalidRange),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest

	case errors.Is(err, employee.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, checkout.ErrSubmissionInProgress),
		errors.Is(err, order.ErrInvalidStatusTransition),
		errors.Is(err, employee.ErrEmailTaken),
		errors.Is(err, employee.ErrLastManager),
		errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body. Unexpected errors are
// reported with the fallback message only.
func respondError(c *gin.Context, err error, fallback string) {
	status := errorStatus(err)
	_ = c.Error(err)

	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	body := gin.H{"error": err.Error()}
	var validationErr *cart.ValidationError
	if errors.As(err, &validationErr) {
		body["field"] = validationErr.Field
	}
	c.JSON(status, body)
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

// parseUintParam reads a numeric path parameter
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// parseIndexParam reads a cart line index
func parseIndexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid index",
			"field": "index",
		})
		return 0, false
	}
	return index, true
}
