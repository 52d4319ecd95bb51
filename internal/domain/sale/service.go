// internal/domain/sale/service.go
package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/customer"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/product"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a sale does not exist
var ErrNotFound = errors.New("sale not found")

// ErrAlreadyReversed is returned when refunding or voiding twice
var ErrAlreadyReversed = errors.New("sale is already refunded or voided")

// InsufficientStockError fails the checkout transaction when a line's
// quantity exceeds live stock at commit time. The cart engine's check
// is advisory; this one is authoritative.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// Service handles sale persistence and reporting reads
type Service struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Service
	logger *logrus.Logger
}

// NewService creates a new sale service
func NewService(db *gorm.DB, cfg *config.Config, auditService *audit.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		audit:  auditService,
		logger: logger,
	}
}

// PaymentInfo carries checkout payment details
type PaymentInfo struct {
	Method       PaymentMethod `json:"method" binding:"required"`
	CustomerName string        `json:"customer_name"`
	CustomerID   *uint         `json:"customer_id"`
	TaxRate      float64       `json:"tax_rate"`
	Discount     float64       `json:"discount"`
}

// ListSalesRequest represents sales listing filters
type ListSalesRequest struct {
	From   *time.Time `form:"from"`
	To     *time.Time `form:"to"`
	Status string     `form:"status"`
	Limit  int        `form:"limit"`
}

// TodayStats summarizes the current trading day
type TodayStats struct {
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
	Profit  float64 `json:"profit"`
}

// CreateFromCart persists a sale and decrements stock for every line
// in one transaction: sale row, optional credit-ledger entry, then per
// line a stock re-validation, sale item, stock decrement, and movement
// row. Any failure rolls the whole thing back, so the inventory ledger
// and the sales table never disagree.
func (s *Service) CreateFromCart(ctx context.Context, lines []cart.Line, payment PaymentInfo, userID, sessionID *uint) (*Sale, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("cannot create a sale from an empty cart")
	}

	var subtotal float64
	for _, line := range lines {
		subtotal += line.Total()
	}
	taxAmount := subtotal * payment.TaxRate
	discountAmount := payment.Discount
	total := subtotal + taxAmount - discountAmount

	customerName := payment.CustomerName
	if customerName == "" {
		customerName = "Walk-in Customer"
	}

	newSale := &Sale{
		UserID:         userID,
		SessionID:      sessionID,
		CustomerID:     payment.CustomerID,
		SaleDate:       time.Now().UTC(),
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		Total:          total,
		PaymentMethod:  payment.Method,
		CustomerName:   customerName,
		Status:         StatusCompleted,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newSale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		if payment.Method == PaymentCredit {
			if payment.CustomerID == nil {
				return fmt.Errorf("credit sales require a linked customer")
			}
			if err := s.recordCreditSale(tx, *payment.CustomerID, total, newSale.ID); err != nil {
				return err
			}
		}

		for _, line := range lines {
			// Re-validate inside the transaction; the engine's earlier
			// check may be stale by now.
			var prod product.Product
			if err := tx.Where("id = ?", line.Product.ID).First(&prod).Error; err != nil {
				return fmt.Errorf("product %d no longer exists", line.Product.ID)
			}

			if prod.StockQuantity < line.Quantity {
				return &InsufficientStockError{
					ProductName: prod.Name,
					Requested:   line.Quantity,
					Available:   prod.StockQuantity,
				}
			}

			item := Item{
				SaleID:      newSale.ID,
				ProductID:   line.Product.ID,
				ProductName: prod.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.Product.SellingPrice,
				Discount:    line.Discount,
				Total:       line.Total(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create sale item: %w", err)
			}

			newStock := prod.StockQuantity - line.Quantity
			if err := tx.Model(&product.Product{}).
				Where("id = ?", prod.ID).
				Update("stock_quantity", newStock).Error; err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}

			movement := inventory.StockMovement{
				ProductID:     prod.ID,
				Type:          inventory.MovementTypeOut,
				Quantity:      line.Quantity,
				PreviousStock: prod.StockQuantity,
				NewStock:      newStock,
				Reason:        "Sale",
				ReferenceType: "sale",
				ReferenceID:   &newSale.ID,
				CreatedBy:     userID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Audit is non-critical and stays outside the transaction
	s.audit.LogAsync(audit.ActionCreate, audit.EntitySale, newSale.ID, userID,
		fmt.Sprintf("Sale #%d: %d items, total %.2f, payment: %s", newSale.ID, len(lines), total, payment.Method))

	return s.GetByID(ctx, newSale.ID)
}

// recordCreditSale increments the customer's debt and appends a ledger
// row; callers run it inside the checkout transaction.
func (s *Service) recordCreditSale(tx *gorm.DB, customerID uint, amount float64, saleID uint) error {
	result := tx.Model(&customer.Customer{}).
		Where("id = ?", customerID).
		Update("total_debt", gorm.Expr("total_debt + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to increment customer debt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer %d not found for credit sale", customerID)
	}

	var cust customer.Customer
	if err := tx.Where("id = ?", customerID).First(&cust).Error; err != nil {
		return fmt.Errorf("failed to read customer balance: %w", err)
	}

	entry := customer.Transaction{
		CustomerID:    customerID,
		Type:          customer.TransactionTypeDebt,
		Amount:        amount,
		BalanceAfter:  cust.TotalDebt,
		ReferenceType: "sale",
		ReferenceID:   &saleID,
		Description:   "Credit Sale",
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record credit transaction: %w", err)
	}
	return nil
}

// GetAll retrieves sales matching the given filters, newest first
func (s *Service) GetAll(ctx context.Context, req *ListSalesRequest) ([]Sale, error) {
	query := s.db.WithContext(ctx).Model(&Sale{})

	if req.From != nil {
		query = query.Where("sale_date >= ?", *req.From)
	}
	if req.To != nil {
		query = query.Where("sale_date <= ?", *req.To)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	query = query.Order("sale_date DESC")
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}

	var sales []Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// GetByID retrieves a sale with its items
func (s *Service) GetByID(ctx context.Context, id uint) (*Sale, error) {
	var sl Sale
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&sl).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sale: %w", err)
	}
	return &sl, nil
}

// GetRecent retrieves the n most recent sales
func (s *Service) GetRecent(ctx context.Context, n int) ([]Sale, error) {
	if n < 1 {
		n = 5
	}
	var sales []Sale
	err := s.db.WithContext(ctx).
		Order("sale_date DESC").
		Limit(n).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sales: %w", err)
	}
	return sales, nil
}

// GetTodayStats aggregates completed sales since the store's local
// midnight
func (s *Service) GetTodayStats(ctx context.Context) (*TodayStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &TodayStats{}
	row := s.db.WithContext(ctx).Model(&Sale{}).
		Select("COALESCE(SUM(total), 0), COUNT(*)").
		Where("sale_date >= ? AND status = ?", startOfDay, StatusCompleted).
		Row()
	if err := row.Scan(&stats.Revenue, &stats.Orders); err != nil {
		return nil, fmt.Errorf("failed to aggregate today's sales: %w", err)
	}

	// Profit joins items back to the catalog's cost price
	err := s.db.WithContext(ctx).
		Table("sale_items si").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Joins("JOIN products p ON p.id = si.product_id").
		Where("s.sale_date >= ? AND s.status = ?", startOfDay, StatusCompleted).
		Select("COALESCE(SUM((si.unit_price - p.cost_price) * si.quantity - si.discount), 0)").
		Row().Scan(&stats.Profit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate today's profit: %w", err)
	}

	return stats, nil
}

// Refund reverses a sale because the customer returned the goods
func (s *Service) Refund(ctx context.Context, saleID uint, reason string, userID *uint) error {
	if reason == "" {
		reason = "Customer Return"
	}
	return s.reverse(ctx, saleID, StatusRefunded, reason, userID)
}

// Void reverses a sale recorded by mistake
func (s *Service) Void(ctx context.Context, saleID uint, reason string, userID *uint) error {
	if reason == "" {
		reason = "Transaction Voided"
	}
	return s.reverse(ctx, saleID, StatusVoided, reason, userID)
}

// reverse flips a sale's status and restores stock for every item
// inside one transaction. Credit sales also roll the customer's debt
// back.
func (s *Service) reverse(ctx context.Context, saleID uint, newStatus Status, reason string, userID *uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sl Sale
		if err := tx.Preload("Items").Where("id = ?", saleID).First(&sl).Error; err != nil {
			return ErrNotFound
		}
		if sl.IsReversed() {
			return ErrAlreadyReversed
		}

		if err := tx.Model(&Sale{}).Where("id = ?", saleID).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update sale status: %w", err)
		}

		for _, item := range sl.Items {
			var prod product.Product
			if err := tx.Where("id = ?", item.ProductID).First(&prod).Error; err != nil {
				// Product was hard-deleted since the sale; nothing to restore
				continue
			}

			newStock := prod.StockQuantity + item.Quantity
			if err := tx.Model(&product.Product{}).
				Where("id = ?", prod.ID).
				Update("stock_quantity", newStock).Error; err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}

			movement := inventory.StockMovement{
				ProductID:     prod.ID,
				Type:          inventory.MovementTypeReturn,
				Quantity:      item.Quantity,
				PreviousStock: prod.StockQuantity,
				NewStock:      newStock,
				Reason:        reason,
				ReferenceType: "sale",
				ReferenceID:   &saleID,
				CreatedBy:     userID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}
		}

		if sl.PaymentMethod == PaymentCredit && sl.CustomerID != nil {
			result := tx.Model(&customer.Customer{}).
				Where("id = ?", *sl.CustomerID).
				Update("total_debt", gorm.Expr("MAX(total_debt - ?, 0)", sl.Total))
			if result.Error != nil {
				return fmt.Errorf("failed to roll back customer debt: %w", result.Error)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.audit.LogAsync(audit.ActionUpdate, audit.EntitySale, saleID, userID,
		fmt.Sprintf("Sale #%d %s: %s", saleID, newStatus, reason))
	s.logger.WithFields(logrus.Fields{
		"sale_id": saleID,
		"status":  newStatus,
	}).Info("sale reversed")
	return nil
}
