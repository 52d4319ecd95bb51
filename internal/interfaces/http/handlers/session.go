// internal/interfaces/http/handlers/session.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/user"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SessionHandler handles register shift endpoints
type SessionHandler struct {
	sessionService *user.SessionService
	config         *config.Config
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(db *gorm.DB, cfg *config.Config) *SessionHandler {
	return &SessionHandler{
		sessionService: user.NewSessionService(db, cfg),
		config:         cfg,
	}
}

// OpenSession handles POST /sessions/open
func (h *SessionHandler) OpenSession(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req user.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, user.ErrSessionAlreadyOpen) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "An open session already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to open session",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Session opened successfully",
		"data":    session,
	})
}

// GetCurrentSession handles GET /sessions/current
func (h *SessionHandler) GetCurrentSession(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	session, err := h.sessionService.Current(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No open session",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data":    session,
	})
}

// CloseSession handles POST /sessions/:id/close
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req user.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	session, err := h.sessionService.Close(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		case errors.Is(err, user.ErrSessionClosed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Session is already closed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to close session",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session closed successfully",
		"data":    session,
	})
}

// GetSessionHistory handles GET /sessions
func (h *SessionHandler) GetSessionHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var userID *uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid user_id",
			})
			return
		}
		id := uint(parsed)
		userID = &id
	}

	sessions, err := h.sessionService.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve session history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session history retrieved successfully",
		"data":    sessions,
	})
}
