// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/domain/analytics"
)

// AnalyticsHandler handles manager reporting endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetSalesAnalytics handles GET /manager/analytics/sales
func (h *AnalyticsHandler) GetSalesAnalytics(c *gin.Context) {
	var req analytics.SalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.analyticsService.GetSalesAnalytics(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to retrieve sales analytics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// GetXReport handles GET /manager/analytics/x-report
func (h *AnalyticsHandler) GetXReport(c *gin.Context) {
	report, err := h.analyticsService.GetXReport(c.Request.Context(), c.Query("since"))
	if err != nil {
		respondError(c, err, "Failed to generate X-report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": report,
	})
}
