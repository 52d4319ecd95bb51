// internal/domain/purchase/service.go
package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/domain/supplier"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a purchase order does not exist
	ErrNotFound = errors.New("purchase order not found")
	// ErrAlreadyReceived is returned when receiving an order twice
	ErrAlreadyReceived = errors.New("purchase order already received")
	// ErrCancelled is returned when receiving a cancelled order
	ErrCancelled = errors.New("purchase order is cancelled")
)

// Service handles purchase orders, the stock-in side of the inventory
// ledger: receiving an order is the only flow besides manual
// adjustments that increases stock.
type Service struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Service
	logger *logrus.Logger
}

// NewService creates a new purchase service
func NewService(db *gorm.DB, cfg *config.Config, auditService *audit.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		audit:  auditService,
		logger: logger,
	}
}

// ItemRequest represents one product line of a new purchase order
type ItemRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitCost  float64 `json:"unit_cost" binding:"min=0"`
}

// CreateOrderRequest represents purchase order creation data
type CreateOrderRequest struct {
	SupplierID   uint          `json:"supplier_id" binding:"required"`
	ExpectedDate *time.Time    `json:"expected_date"`
	Notes        string        `json:"notes"`
	Items        []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ListOrdersRequest represents purchase order listing filters
type ListOrdersRequest struct {
	SupplierID *uint  `form:"supplier_id"`
	Status     string `form:"status"`
	Limit      int    `form:"limit"`
}

// List retrieves purchase orders, newest first
func (s *Service) List(ctx context.Context, req *ListOrdersRequest) ([]Order, error) {
	query := s.db.WithContext(ctx).Model(&Order{}).Preload("Supplier")

	if req.SupplierID != nil {
		query = query.Where("supplier_id = ?", *req.SupplierID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}

	var orders []Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a purchase order with its items and supplier
func (s *Service) GetByID(ctx context.Context, id uint) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve purchase order: %w", err)
	}
	return &order, nil
}

// Create records a new purchase order with its items in one
// transaction. Stock does not move until the order is received.
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest, userID *uint) (*Order, error) {
	var sup supplier.Supplier
	if err := s.db.WithContext(ctx).Where("id = ?", req.SupplierID).First(&sup).Error; err != nil {
		return nil, fmt.Errorf("supplier not found")
	}

	order := &Order{
		SupplierID:   req.SupplierID,
		OrderDate:    time.Now().UTC(),
		ExpectedDate: req.ExpectedDate,
		Status:       StatusPending,
		Notes:        req.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}

		var total float64
		for _, line := range req.Items {
			var prod product.Product
			if err := tx.Where("id = ?", line.ProductID).First(&prod).Error; err != nil {
				return fmt.Errorf("product %d not found", line.ProductID)
			}

			item := Item{
				OrderID:     order.ID,
				ProductID:   prod.ID,
				ProductName: prod.Name,
				Quantity:    line.Quantity,
				UnitCost:    line.UnitCost,
				TotalCost:   float64(line.Quantity) * line.UnitCost,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create purchase order item: %w", err)
			}
			total += item.TotalCost
		}

		if err := tx.Model(order).Update("total_amount", total).Error; err != nil {
			return fmt.Errorf("failed to total purchase order: %w", err)
		}
		order.TotalAmount = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAsync(audit.ActionCreate, audit.EntityPurchaseOrder, order.ID, userID,
		fmt.Sprintf("PO #%d: %d items, total %.2f", order.ID, len(req.Items), order.TotalAmount))

	return s.GetByID(ctx, order.ID)
}

// UpdateStatus moves an order between pending/ordered/cancelled.
// Received orders are final; receiving itself goes through Receive.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status Status) (*Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.IsReceived() {
		return nil, ErrAlreadyReceived
	}
	if status == StatusReceived {
		return nil, fmt.Errorf("use the receive operation to mark an order received")
	}

	if err := s.db.WithContext(ctx).Model(order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update purchase order status: %w", err)
	}
	order.Status = status
	return order, nil
}

// Receive books the order's stock into the store in one transaction:
// every item increments the product counter, rewrites its cost price
// to the latest unit cost and leaves an 'in' movement behind. Lines
// whose product has since been hard-deleted are skipped.
func (s *Service) Receive(ctx context.Context, id uint, userID *uint) (*Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve purchase order: %w", err)
		}
		if order.IsReceived() {
			return ErrAlreadyReceived
		}
		if order.Status == StatusCancelled {
			return ErrCancelled
		}

		for _, item := range order.Items {
			var prod product.Product
			if err := tx.Where("id = ?", item.ProductID).First(&prod).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return fmt.Errorf("failed to read product %d: %w", item.ProductID, err)
			}

			newStock := prod.StockQuantity + item.Quantity
			updates := map[string]interface{}{
				"stock_quantity": newStock,
				"cost_price":     item.UnitCost,
			}
			if err := tx.Model(&product.Product{}).Where("id = ?", prod.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to restock product %d: %w", prod.ID, err)
			}

			movement := inventory.StockMovement{
				ProductID:     prod.ID,
				Type:          inventory.MovementTypeIn,
				Quantity:      item.Quantity,
				PreviousStock: prod.StockQuantity,
				NewStock:      newStock,
				Reason:        "Purchase Received",
				ReferenceType: "purchase_order",
				ReferenceID:   &order.ID,
				CreatedBy:     userID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}

			if err := tx.Model(&Item{}).Where("id = ?", item.ID).
				Update("received_quantity", item.Quantity).Error; err != nil {
				return fmt.Errorf("failed to mark item received: %w", err)
			}
		}

		if err := tx.Model(&order).Update("status", StatusReceived).Error; err != nil {
			return fmt.Errorf("failed to mark purchase order received: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	received, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.LogAsync(audit.ActionReceive, audit.EntityPurchaseOrder, received.ID, userID,
		fmt.Sprintf("PO #%d received: %d items", received.ID, len(received.Items)))
	s.logger.WithFields(logrus.Fields{
		"purchase_order_id": received.ID,
		"items":             len(received.Items),
		"total":             received.TotalAmount,
	}).Info("purchase order received")

	return received, nil
}
