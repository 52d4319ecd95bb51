// internal/domain/settings/service.go
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/pos-backend/internal/domain/audit"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a setting key does not exist
var ErrNotFound = errors.New("setting not found")

// Service handles the persisted key/value app settings
type Service struct {
	db    *gorm.DB
	audit *audit.Service
}

// NewService creates a new settings service
func NewService(db *gorm.DB, auditService *audit.Service) *Service {
	return &Service{
		db:    db,
		audit: auditService,
	}
}

// GetAll returns every setting as a key/value map
func (s *Service) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Get returns one setting value
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	var row Setting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load setting: %w", err)
	}
	return row.Value, nil
}

// Set upserts one setting
func (s *Service) Set(ctx context.Context, key, value string, userID *uint) error {
	row := Setting{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	s.audit.LogAsync(audit.ActionUpdate, audit.EntitySetting, 0, userID,
		fmt.Sprintf("Updated setting: %s", key))
	return nil
}

// SetMany upserts a batch of settings in one transaction, skipping
// keys whose value has not changed
func (s *Service) SetMany(ctx context.Context, values map[string]string, userID *uint) error {
	current, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	var changed []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if existing, ok := current[key]; ok && existing == value {
				continue
			}
			row := Setting{Key: key, Value: value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("failed to save setting %q: %w", key, err)
			}
			changed = append(changed, key)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(changed) > 0 {
		s.audit.LogAsync(audit.ActionUpdate, audit.EntitySetting, 0, userID,
			fmt.Sprintf("Updated %d settings", len(changed)))
	}
	return nil
}
