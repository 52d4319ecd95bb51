// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/checkout"
	"github.com/your-org/pos-backend/internal/domain/sale"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler drives the checkout flow over the shared cart
type CheckoutHandler struct {
	coordinator *checkout.Coordinator
	config      *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(coordinator *checkout.Coordinator, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		coordinator: coordinator,
		config:      cfg,
	}
}

// checkoutRequest represents checkout payment details
type checkoutRequest struct {
	Method       sale.PaymentMethod `json:"method" binding:"required"`
	CustomerName string             `json:"customer_name"`
	CustomerID   *uint              `json:"customer_id"`
	TaxRate      *float64           `json:"tax_rate"`
	Discount     float64            `json:"discount"`
	SessionID    *uint              `json:"session_id"`
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	taxRate := h.config.Store.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	payment := sale.PaymentInfo{
		Method:       req.Method,
		CustomerName: req.CustomerName,
		CustomerID:   req.CustomerID,
		TaxRate:      taxRate,
		Discount:     req.Discount,
	}

	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	created, err := h.coordinator.Checkout(c.Request.Context(), payment, userID, req.SessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
			return
		}

		var stockErr *sale.InsufficientStockError
		if errors.As(err, &stockErr) {
			c.JSON(http.StatusConflict, gin.H{
				"error": stockErr.Error(),
				"details": gin.H{
					"product_name": stockErr.ProductName,
					"requested":    stockErr.Requested,
					"available":    stockErr.Available,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout failed",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout completed successfully",
		"data":    created,
	})
}

// GetStatus handles GET /checkout/status; loading flag and the last
// failure message for the register UI
func (h *CheckoutHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout status retrieved successfully",
		"data": gin.H{
			"loading":    h.coordinator.Loading(),
			"last_error": h.coordinator.LastError(),
		},
	})
}
