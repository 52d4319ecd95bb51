// internal/domain/user/session_service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrSessionNotFound is returned when a session does not exist
	ErrSessionNotFound = errors.New("cashier session not found")
	// ErrSessionAlreadyOpen is returned when a cashier opens twice
	ErrSessionAlreadyOpen = errors.New("cashier already has an open session")
	// ErrSessionClosed is returned when closing a closed session
	ErrSessionClosed = errors.New("cashier session is already closed")
)

// SessionService handles register shifts and cash reconciliation
type SessionService struct {
	db     *gorm.DB
	config *config.Config
}

// NewSessionService creates a new session service
func NewSessionService(db *gorm.DB, cfg *config.Config) *SessionService {
	return &SessionService{
		db:     db,
		config: cfg,
	}
}

// OpenSessionRequest represents opening a register shift
type OpenSessionRequest struct {
	OpeningAmount float64 `json:"opening_amount" binding:"gte=0"`
	Notes         string  `json:"notes"`
}

// CloseSessionRequest represents closing a register shift
type CloseSessionRequest struct {
	ClosingAmount float64 `json:"closing_amount" binding:"gte=0"`
	Notes         string  `json:"notes"`
}

// Open starts a shift for a cashier. One open session per cashier.
func (s *SessionService) Open(ctx context.Context, userID uint, req *OpenSessionRequest) (*CashierSession, error) {
	var count int64
	s.db.WithContext(ctx).Model(&CashierSession{}).
		Where("user_id = ? AND closed_at IS NULL", userID).
		Count(&count)
	if count > 0 {
		return nil, ErrSessionAlreadyOpen
	}

	session := &CashierSession{
		UserID:        userID,
		OpeningAmount: req.OpeningAmount,
		OpenedAt:      time.Now().UTC(),
		Notes:         req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return session, nil
}

// Current retrieves a cashier's open session, if any
func (s *SessionService) Current(ctx context.Context, userID uint) (*CashierSession, error) {
	var session CashierSession
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND closed_at IS NULL", userID).
		Order("opened_at DESC").
		First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}
	return &session, nil
}

// Close ends a shift and reconciles the drawer. Expected cash is the
// opening float plus cash sales recorded against the session; the
// counted difference is stored with the session.
func (s *SessionService) Close(ctx context.Context, sessionID uint, req *CloseSessionRequest) (*CashierSession, error) {
	var session CashierSession

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
			return ErrSessionNotFound
		}
		if !session.IsOpen() {
			return ErrSessionClosed
		}

		var cashSales float64
		err := tx.Table("sales").
			Select("COALESCE(SUM(total), 0)").
			Where("session_id = ? AND payment_method = ? AND status = ?", sessionID, "cash", "completed").
			Row().Scan(&cashSales)
		if err != nil {
			return fmt.Errorf("failed to total cash sales: %w", err)
		}

		now := time.Now().UTC()
		expected := session.OpeningAmount + cashSales
		difference := req.ClosingAmount - expected

		session.ClosingAmount = &req.ClosingAmount
		session.ExpectedAmount = &expected
		session.Difference = &difference
		session.ClosedAt = &now
		if req.Notes != "" {
			session.Notes = req.Notes
		}

		if err := tx.Save(&session).Error; err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// History retrieves past sessions, newest first
func (s *SessionService) History(ctx context.Context, userID *uint, limit int) ([]CashierSession, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := s.db.WithContext(ctx).Model(&CashierSession{}).Preload("User")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var sessions []CashierSession
	err := query.Order("opened_at DESC").Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
