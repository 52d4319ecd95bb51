// internal/domain/audit/service.go
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service writes and reads the audit trail
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new audit service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// ListLogsRequest represents audit trail filters
type ListLogsRequest struct {
	UserID     *uint      `form:"user_id"`
	Action     string     `form:"action"`
	EntityType string     `form:"entity_type"`
	From       *time.Time `form:"from"`
	To         *time.Time `form:"to"`
	Limit      int        `form:"limit"`
}

// Record writes an audit row synchronously
func (s *Service) Record(ctx context.Context, action Action, entityType Entity, entityID uint, userID *uint, details string) error {
	entry := &Log{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// LogAsync records an audit row without blocking the caller. Audit
// failures are logged and dropped; they never fail business operations.
func (s *Service) LogAsync(action Action, entityType Entity, entityID uint, userID *uint, details string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.Record(ctx, action, entityType, entityID, userID, details); err != nil {
			s.logger.WithFields(logrus.Fields{
				"action":      action,
				"entity_type": entityType,
				"entity_id":   entityID,
			}).WithError(err).Warn("audit log write failed")
		}
	}()
}

// List retrieves audit rows matching the given filters, newest first
func (s *Service) List(ctx context.Context, req *ListLogsRequest) ([]Log, error) {
	query := s.db.WithContext(ctx).Model(&Log{})

	if req.UserID != nil {
		query = query.Where("user_id = ?", *req.UserID)
	}
	if req.Action != "" {
		query = query.Where("action = ?", req.Action)
	}
	if req.EntityType != "" {
		query = query.Where("entity_type = ?", req.EntityType)
	}
	if req.From != nil {
		query = query.Where("created_at >= ?", *req.From)
	}
	if req.To != nil {
		query = query.Where("created_at <= ?", *req.To)
	}

	limit := req.Limit
	if limit < 1 || limit > 1000 {
		limit = 200
	}

	var logs []Log
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
