// internal/interfaces/http/handlers/expense.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/expense"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// ExpenseHandler handles expense tracking endpoints
type ExpenseHandler struct {
	expenseService *expense.Service
	config         *config.Config
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(db *gorm.DB, cfg *config.Config) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expense.NewService(db, cfg),
		config:         cfg,
	}
}

// GetExpenses handles GET /expenses
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	var req expense.ListExpensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	expenses, err := h.expenseService.List(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve expenses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expenses retrieved successfully",
		"data":    expenses,
	})
}

// GetExpenseSummary handles GET /expenses/summary
func (h *ExpenseHandler) GetExpenseSummary(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	summaries, err := h.expenseService.SummaryByCategory(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to summarize expenses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expense summary retrieved successfully",
		"data":    summaries,
	})
}

// CreateExpense handles POST /expenses
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req expense.ExpenseRequest
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

	exp, err := h.expenseService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Expense recorded successfully",
		"data":    exp,
	})
}

// UpdateExpense handles PUT /expenses/:id
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req expense.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	exp, err := h.expenseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Expense not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expense updated successfully",
		"data":    exp,
	})
}

// DeleteExpense handles DELETE /expenses/:id
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Expense not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete expense",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expense deleted successfully",
	})
}

// parsePeriod reads from/to query params, defaulting to the last 30
// days; it writes the error response itself on failure
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid 'from' timestamp; use RFC3339",
			})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid 'to' timestamp; use RFC3339",
			})
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}
