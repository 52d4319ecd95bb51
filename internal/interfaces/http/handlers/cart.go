// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
)

// CartHandler exposes the register's in-memory cart. The engine is
// shared with the checkout handler; both operate on the same cart.
type CartHandler struct {
	engine         *cart.Engine
	holdStore      *cart.HoldStore
	productService *product.Service
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(engine *cart.Engine, holdStore *cart.HoldStore, productService *product.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		engine:         engine,
		holdStore:      holdStore,
		productService: productService,
		config:         cfg,
	}
}

// cartView is the cart state returned after every mutation, so the
// register UI can render from one response
type cartView struct {
	Lines      []cart.Line      `json:"lines"`
	Total      float64          `json:"total"`
	StockError *cart.StockError `json:"stock_error,omitempty"`
}

func (h *CartHandler) view() cartView {
	return cartView{
		Lines:      h.engine.Lines(),
		Total:      h.engine.Total(),
		StockError: h.engine.StockErr(),
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.view(),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID uint    `json:"product_id" binding:"required"`
		Quantity  int     `json:"quantity" binding:"required"`
		Discount  float64 `json:"discount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	prod, err := h.productService.GetByID(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	line := cart.Line{
		Product:  *prod,
		Quantity: req.Quantity,
		Discount: req.Discount,
	}
	if err := h.engine.Add(c.Request.Context(), line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data":    h.view(),
	})
}

// UpdateItem handles PUT /cart/items/:id, an absolute quantity set
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.engine.Update(c.Request.Context(), id, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data":    h.view(),
	})
}

// SetItemDiscount handles PUT /cart/items/:id/discount
func (h *CartHandler) SetItemDiscount(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Discount float64 `json:"discount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	h.engine.SetDiscount(id, req.Discount)

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount updated",
		"data":    h.view(),
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	h.engine.Remove(id)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed",
		"data":    h.view(),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.engine.Clear()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"data":    h.view(),
	})
}

// ClearStockError handles DELETE /cart/stock-error; the cashier
// dismissed the advisory
func (h *CartHandler) ClearStockError(c *gin.Context) {
	h.engine.ClearStockErr()

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock error cleared",
		"data":    h.view(),
	})
}

// HoldCart handles POST /cart/holds; parks the cart and clears it
func (h *CartHandler) HoldCart(c *gin.Context) {
	var req struct {
		Label string `json:"label"`
	}
	// Body is optional
	_ = c.ShouldBindJSON(&req)

	cashierID, _ := middleware.GetUserIDFromContext(c)

	held, err := h.holdStore.Hold(c.Request.Context(), cashierID, req.Label, h.engine.Lines())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.engine.Clear()
	h.engine.ClearStockErr()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cart held successfully",
		"data":    held,
	})
}

// ListHolds handles GET /cart/holds
func (h *CartHandler) ListHolds(c *gin.Context) {
	holds, err := h.holdStore.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve held sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Held sales retrieved successfully",
		"data":    holds,
	})
}

// ResumeHold handles POST /cart/holds/:id/resume; replaces the cart
// with the held lines
func (h *CartHandler) ResumeHold(c *gin.Context) {
	id := c.Param("id")

	held, err := h.holdStore.Resume(c.Request.Context(), id, h.engine)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Held sale resumed",
		"data": gin.H{
			"held": held,
			"cart": h.view(),
		},
	})
}

// DiscardHold handles DELETE /cart/holds/:id
func (h *CartHandler) DiscardHold(c *gin.Context) {
	id := c.Param("id")

	if err := h.holdStore.Discard(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Held sale discarded",
	})
}
