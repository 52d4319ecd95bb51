// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"fmt"

	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles stock movement business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"` // Positive receives stock, negative removes it
	Reason    string `json:"reason" binding:"required"`
}

// ListMovementsRequest represents movement history filters
type ListMovementsRequest struct {
	ProductID *uint  `form:"product_id"`
	Type      string `form:"type"`
	Limit     int    `form:"limit"`
}

// AdjustStock applies a manual stock correction inside a transaction and
// records the movement. Stock never goes below zero.
func (s *Service) AdjustStock(ctx context.Context, req *AdjustStockRequest, userID *uint) (*StockMovement, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("adjustment delta cannot be zero")
	}

	var movement *StockMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod product.Product
		if err := tx.Where("id = ?", req.ProductID).First(&prod).Error; err != nil {
			return fmt.Errorf("product not found")
		}

		previousStock := prod.StockQuantity
		newStock := previousStock + req.Delta
		if newStock < 0 {
			return fmt.Errorf("adjustment would drive stock negative: current %d, delta %d", previousStock, req.Delta)
		}

		if err := tx.Model(&product.Product{}).
			Where("id = ?", req.ProductID).
			Update("stock_quantity", newStock).Error; err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		movementType := MovementTypeIn
		if req.Delta < 0 {
			movementType = MovementTypeAdjustment
		}

		quantity := req.Delta
		if quantity < 0 {
			quantity = -quantity
		}

		movement = &StockMovement{
			ProductID:     req.ProductID,
			Type:          movementType,
			Quantity:      quantity,
			PreviousStock: previousStock,
			NewStock:      newStock,
			Reason:        req.Reason,
			ReferenceType: "manual",
			CreatedBy:     userID,
		}
		if err := tx.Create(movement).Error; err != nil {
			return fmt.Errorf("failed to record movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// ListMovements retrieves stock movement history, newest first
func (s *Service) ListMovements(ctx context.Context, req *ListMovementsRequest) ([]StockMovement, error) {
	query := s.db.WithContext(ctx).Model(&StockMovement{})

	if req.ProductID != nil {
		query = query.Where("product_id = ?", *req.ProductID)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}

	limit := req.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var movements []StockMovement
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}
