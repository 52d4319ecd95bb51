// internal/interfaces/http/handlers/promotion.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/promotion"
	"gorm.io/gorm"
)

// PromotionHandler handles promotion management and cart previews
type PromotionHandler struct {
	promotionService *promotion.Service
	engine           *cart.Engine
	config           *config.Config
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(db *gorm.DB, engine *cart.Engine, cfg *config.Config) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotion.NewService(db, cfg),
		engine:           engine,
		config:           cfg,
	}
}

// GetPromotions handles GET /promotions
func (h *PromotionHandler) GetPromotions(c *gin.Context) {
	var req promotion.ListPromotionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	promotions, err := h.promotionService.List(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve promotions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotions retrieved successfully",
		"data":    promotions,
	})
}

// GetActivePromotions handles GET /promotions/active
func (h *PromotionHandler) GetActivePromotions(c *gin.Context) {
	promotions, err := h.promotionService.ActiveForCheckout(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve active promotions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Active promotions retrieved successfully",
		"data":    promotions,
	})
}

// PreviewCart handles GET /promotions/preview; computes the offers
// applicable to the register's current cart
func (h *PromotionHandler) PreviewCart(c *gin.Context) {
	promotions, err := h.promotionService.ActiveForCheckout(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve active promotions",
		})
		return
	}

	result := promotion.Compute(h.engine.Lines(), promotions, time.Now().UTC())

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotions computed successfully",
		"data":    result,
	})
}

// GetPromotion handles GET /promotions/:id
func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	promo, err := h.promotionService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Promotion not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion retrieved successfully",
		"data":    promo,
	})
}

// CreatePromotion handles POST /promotions
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req promotion.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	promo, err := h.promotionService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Promotion created successfully",
		"data":    promo,
	})
}

// UpdatePromotion handles PUT /promotions/:id
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req promotion.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	promo, err := h.promotionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, promotion.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promotion not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion updated successfully",
		"data":    promo,
	})
}

// DeletePromotion handles DELETE /promotions/:id
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.promotionService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, promotion.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promotion not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete promotion",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion deleted successfully",
	})
}
