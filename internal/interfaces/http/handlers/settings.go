// internal/interfaces/http/handlers/settings.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/settings"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SettingsHandler handles runtime app settings endpoints
type SettingsHandler struct {
	settingsService *settings.Service
	config          *config.Config
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *SettingsHandler {
	auditService := audit.NewService(db, logger)
	return &SettingsHandler{
		settingsService: settings.NewService(db, auditService),
		config:          cfg,
	}
}

// GetSettings handles GET /admin/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	values, err := h.settingsService.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve settings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings retrieved successfully",
		"data":    values,
	})
}

// GetSetting handles GET /admin/settings/:key
func (h *SettingsHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")

	value, err := h.settingsService.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Setting not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve setting",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Setting retrieved successfully",
		"data":    gin.H{"key": key, "value": value},
	})
}

// UpdateSettings handles PUT /admin/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No settings provided",
		})
		return
	}

	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	if err := h.settingsService.SetMany(c.Request.Context(), req, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save settings",
		})
		return
	}

	values, err := h.settingsService.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve settings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings saved successfully",
		"data":    values,
	})
}
