// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/domain/employee"
	"github.com/your-org/boba-pos-backend/internal/interfaces/http/middleware"
)

// AuthHandler handles employee authentication endpoints
type AuthHandler struct {
	employeeService *employee.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(employeeService *employee.Service) *AuthHandler {
	return &AuthHandler{
		employeeService: employeeService,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req employee.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	authResponse, err := h.employeeService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    authResponse,
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	employeeID, ok := middleware.GetEmployeeIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	e, err := h.employeeService.GetByID(c.Request.Context(), employeeID)
	if err != nil {
		respondError(c, err, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": e,
	})
}
