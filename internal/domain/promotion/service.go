// internal/domain/promotion/service.go
package promotion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a promotion does not exist
var ErrNotFound = errors.New("promotion not found")

// Service handles promotion management
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new promotion service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// PromotionRequest represents promotion create/update data
type PromotionRequest struct {
	Name       string          `json:"name" binding:"required"`
	Type       Type            `json:"type" binding:"required"`
	Status     Status          `json:"status"`
	StartDate  time.Time       `json:"start_date" binding:"required"`
	EndDate    time.Time       `json:"end_date" binding:"required"`
	Config     json.RawMessage `json:"config" binding:"required"`
	ProductIDs []uint          `json:"product_ids"`
}

// ListPromotionsRequest represents promotion listing filters
type ListPromotionsRequest struct {
	Type   string `form:"type"`
	Status string `form:"status"`
}

// validate checks structural rules shared by create and update
func (s *Service) validate(req *PromotionRequest) error {
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("end date must not precede start date")
	}

	switch req.Type {
	case TypePriceDiscount:
		var cfg PriceDiscountConfig
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return fmt.Errorf("invalid price discount config: %w", err)
		}
		if cfg.DiscountValue <= 0 {
			return fmt.Errorf("discount value must be positive")
		}
		if cfg.DiscountType == DiscountPercentage && cfg.DiscountValue > 100 {
			return fmt.Errorf("percentage discount cannot exceed 100")
		}
	case TypeQuantityDiscount:
		var cfg QuantityDiscountConfig
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return fmt.Errorf("invalid quantity discount config: %w", err)
		}
		if cfg.BuyQuantity < 1 || cfg.FreeQuantity < 1 {
			return fmt.Errorf("buy and free quantities must be at least 1")
		}
	case TypePackDiscount:
		var cfg PackDiscountConfig
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return fmt.Errorf("invalid pack discount config: %w", err)
		}
		if cfg.BundlePrice <= 0 {
			return fmt.Errorf("bundle price must be positive")
		}
		if len(req.ProductIDs) < 2 {
			return fmt.Errorf("pack promotions need at least two products")
		}
	default:
		return fmt.Errorf("unknown promotion type: %s", req.Type)
	}
	return nil
}

// List retrieves promotions matching the given filters
func (s *Service) List(ctx context.Context, req *ListPromotionsRequest) ([]Promotion, error) {
	query := s.db.WithContext(ctx).Model(&Promotion{}).Preload("Products")
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var promotions []Promotion
	if err := query.Order("created_at DESC").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

// ActiveForCheckout retrieves promotions effective right now, with
// their product links preloaded for the computation engine
func (s *Service) ActiveForCheckout(ctx context.Context) ([]Promotion, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	var promotions []Promotion
	err := s.db.WithContext(ctx).
		Preload("Products").
		Where("status = ? AND start_date <= ? AND end_date >= ?", StatusActive, now, now).
		Find(&promotions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active promotions: %w", err)
	}
	return promotions, nil
}

// GetByID retrieves a promotion with its product links
func (s *Service) GetByID(ctx context.Context, id uint) (*Promotion, error) {
	var promo Promotion
	err := s.db.WithContext(ctx).Preload("Products").Where("id = ?", id).First(&promo).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve promotion: %w", err)
	}
	return &promo, nil
}

// Create creates a promotion with its product links
func (s *Service) Create(ctx context.Context, req *PromotionRequest) (*Promotion, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	promo := &Promotion{
		Name:      req.Name,
		Type:      req.Type,
		Status:    status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Config:    string(req.Config),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(promo).Error; err != nil {
			return fmt.Errorf("failed to create promotion: %w", err)
		}
		for _, pid := range req.ProductIDs {
			link := Product{PromotionID: promo.ID, ProductID: pid}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link product %d: %w", pid, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, promo.ID)
}

// Update replaces a promotion's fields and product links
func (s *Service) Update(ctx context.Context, id uint, req *PromotionRequest) (*Promotion, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	promo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		promo.Name = req.Name
		promo.Type = req.Type
		if req.Status != "" {
			promo.Status = req.Status
		}
		promo.StartDate = req.StartDate
		promo.EndDate = req.EndDate
		promo.Config = string(req.Config)
		promo.Products = nil

		if err := tx.Omit("Products").Save(promo).Error; err != nil {
			return fmt.Errorf("failed to update promotion: %w", err)
		}

		if err := tx.Where("promotion_id = ?", id).Delete(&Product{}).Error; err != nil {
			return fmt.Errorf("failed to clear product links: %w", err)
		}
		for _, pid := range req.ProductIDs {
			link := Product{PromotionID: id, ProductID: pid}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link product %d: %w", pid, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes a promotion
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Promotion{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete promotion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
