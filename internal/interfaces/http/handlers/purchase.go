// internal/interfaces/http/handlers/purchase.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/purchase"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// PurchaseHandler handles purchase order endpoints
type PurchaseHandler struct {
	purchaseService *purchase.Service
	config          *config.Config
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *PurchaseHandler {
	auditService := audit.NewService(db, logger)
	return &PurchaseHandler{
		purchaseService: purchase.NewService(db, cfg, auditService, logger),
		config:          cfg,
	}
}

// GetOrders handles GET /purchases
func (h *PurchaseHandler) GetOrders(c *gin.Context) {
	var req purchase.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	orders, err := h.purchaseService.List(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve purchase orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /purchases/:id
func (h *PurchaseHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Purchase order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order retrieved successfully",
		"data":    order,
	})
}

// CreateOrder handles POST /purchases
func (h *PurchaseHandler) CreateOrder(c *gin.Context) {
	var req purchase.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	order, err := h.purchaseService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Purchase order created successfully",
		"data":    order,
	})
}

// UpdateOrderStatus handles PUT /purchases/:id/status
func (h *PurchaseHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status purchase.Status `json:"status" binding:"required,oneof=pending ordered cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.purchaseService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Purchase order not found",
			})
		case errors.Is(err, purchase.ErrAlreadyReceived):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Purchase order already received",
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order updated successfully",
		"data":    order,
	})
}

// ReceiveOrder handles POST /purchases/:id/receive
func (h *PurchaseHandler) ReceiveOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var userID *uint
	if uid, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &uid
	}

	order, err := h.purchaseService.Receive(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Purchase order not found",
			})
		case errors.Is(err, purchase.ErrAlreadyReceived):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Purchase order already received",
			})
		case errors.Is(err, purchase.ErrCancelled):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Purchase order is cancelled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to receive purchase order",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order received successfully",
		"data":    order,
	})
}
