// internal/interfaces/http/handlers/employee.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/domain/employee"
)

// EmployeeHandler handles manager employee endpoints
type EmployeeHandler struct {
	employeeService *employee.Service
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *employee.Service) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
	}
}

// ListEmployees handles GET /manager/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	var req employee.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	employees, err := h.employeeService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to retrieve employees")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": employees,
	})
}

// GetEmployee handles GET /manager/employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	e, err := h.employeeService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": e,
	})
}

// CreateEmployee handles POST /manager/employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req employee.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	e, err := h.employeeService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Employee created successfully",
		"data":    e,
	})
}

// UpdateEmployee handles PUT /manager/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req employee.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	e, err := h.employeeService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee updated successfully",
		"data":    e,
	})
}

// DeleteEmployee handles DELETE /manager/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee deleted successfully",
	})
}
