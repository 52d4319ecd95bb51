// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// AnalyticsHandler handles reporting endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, cfg),
		config:           cfg,
	}
}

// GetSummary handles GET /analytics/summary
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Summary retrieved successfully",
		"data":    summary,
	})
}

// GetHourlyRevenue handles GET /analytics/revenue/hourly
func (h *AnalyticsHandler) GetHourlyRevenue(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid 'day'; use YYYY-MM-DD",
			})
			return
		}
		day = parsed
	}

	points, err := h.analyticsService.HourlyRevenue(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute hourly revenue",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hourly revenue retrieved successfully",
		"data":    points,
	})
}

// GetDailyRevenue handles GET /analytics/revenue/daily
func (h *AnalyticsHandler) GetDailyRevenue(c *gin.Context) {
	h.revenueSeries(c, h.analyticsService.DailyRevenue)
}

// GetMonthlyRevenue handles GET /analytics/revenue/monthly
func (h *AnalyticsHandler) GetMonthlyRevenue(c *gin.Context) {
	h.revenueSeries(c, h.analyticsService.MonthlyRevenue)
}

func (h *AnalyticsHandler) revenueSeries(c *gin.Context, query func(ctx context.Context, from, to time.Time) ([]analytics.RevenuePoint, error)) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	points, err := query(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute revenue series",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Revenue series retrieved successfully",
		"data":    points,
	})
}

// GetTopProducts handles GET /analytics/top-products
func (h *AnalyticsHandler) GetTopProducts(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := h.analyticsService.TopProducts(c.Request.Context(), from, to, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to rank products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Top products retrieved successfully",
		"data":    products,
	})
}

// GetPaymentMethods handles GET /analytics/payment-methods
func (h *AnalyticsHandler) GetPaymentMethods(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	breakdown, err := h.analyticsService.PaymentMethods(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to split payment methods",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment breakdown retrieved successfully",
		"data":    breakdown,
	})
}

// GetPeakHours handles GET /analytics/peak-hours
func (h *AnalyticsHandler) GetPeakHours(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	points, err := h.analyticsService.PeakHours(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to rank peak hours",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Peak hours retrieved successfully",
		"data":    points,
	})
}
