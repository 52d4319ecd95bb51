// internal/interfaces/http/handlers/sale.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/sale"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"github.com/your-org/pos-backend/internal/pkg/pdf"
)

// SaleHandler handles sales history and reversal endpoints
type SaleHandler struct {
	saleService *sale.Service
	views       *sale.Views
	pdfService  *pdf.Service
	config      *config.Config
}

// NewSaleHandler creates a new sale handler. The dashboard reads go
// through views when its snapshot is fresh.
func NewSaleHandler(saleService *sale.Service, views *sale.Views, pdfService *pdf.Service, cfg *config.Config) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		views:       views,
		pdfService:  pdfService,
		config:      cfg,
	}
}

// GetSales handles GET /sales
func (h *SaleHandler) GetSales(c *gin.Context) {
	var req sale.ListSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	sales, err := h.saleService.GetAll(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales retrieved successfully",
		"data":    sales,
	})
}

// GetSale handles GET /sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	sl, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Sale not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve sale",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale retrieved successfully",
		"data":    sl,
	})
}

// GetRecentSales handles GET /sales/recent
func (h *SaleHandler) GetRecentSales(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("n", "5"))

	if cached, ok := h.views.Recent(n); ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "Recent sales retrieved successfully",
			"data":    cached,
		})
		return
	}

	sales, err := h.saleService.GetRecent(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve recent sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recent sales retrieved successfully",
		"data":    sales,
	})
}

// GetTodayStats handles GET /sales/today
func (h *SaleHandler) GetTodayStats(c *gin.Context) {
	if cached, ok := h.views.Today(); ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "Today's stats retrieved successfully",
			"data":    cached,
		})
		return
	}

	stats, err := h.saleService.GetTodayStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve today's stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Today's stats retrieved successfully",
		"data":    stats,
	})
}

// reversalRequest represents a refund or void request
type reversalRequest struct {
	Reason string `json:"reason"`
}

// RefundSale handles POST /sales/:id/refund
func (h *SaleHandler) RefundSale(c *gin.Context) {
	h.reverseSale(c, false)
}

// VoidSale handles POST /sales/:id/void
func (h *SaleHandler) VoidSale(c *gin.Context) {
	h.reverseSale(c, true)
}

// reverseSale shares the refund/void flow
func (h *SaleHandler) reverseSale(c *gin.Context, void bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reversalRequest
	_ = c.ShouldBindJSON(&req) // Reason is optional

	var userID *uint
	if uid, okUser := middleware.GetUserIDFromContext(c); okUser {
		userID = &uid
	}

	var err error
	if void {
		err = h.saleService.Void(c.Request.Context(), id, req.Reason, userID)
	} else {
		err = h.saleService.Refund(c.Request.Context(), id, req.Reason, userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, sale.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Sale not found",
			})
		case errors.Is(err, sale.ErrAlreadyReversed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Sale is already refunded or voided",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to reverse sale",
			})
		}
		return
	}

	message := "Sale refunded successfully"
	if void {
		message = "Sale voided successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

// GetReceipt handles GET /sales/:id/receipt, rendering the PDF receipt
func (h *SaleHandler) GetReceipt(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	sl, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Sale not found",
		})
		return
	}

	buf, err := h.pdfService.GenerateReceipt(sl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%06d.pdf", sl.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
