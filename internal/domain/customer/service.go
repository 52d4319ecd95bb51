// internal/domain/customer/service.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a customer does not exist
var ErrNotFound = errors.New("customer not found")

// Service handles customer and credit-ledger business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new customer service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CustomerRequest represents customer create/update data
type CustomerRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

// PaymentRequest represents a debt repayment
type PaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// List retrieves customers, optionally filtered by a name/phone search
func (s *Service) List(ctx context.Context, search string) ([]Customer, error) {
	query := s.db.WithContext(ctx).Model(&Customer{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR phone LIKE ?", pattern, "%"+search+"%")
	}

	var customers []Customer
	if err := query.Order("full_name ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Debtors retrieves customers carrying outstanding debt, largest first
func (s *Service) Debtors(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := s.db.WithContext(ctx).
		Where("total_debt > 0").
		Order("total_debt DESC").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list debtors: %w", err)
	}
	return customers, nil
}

// GetByID retrieves a customer
func (s *Service) GetByID(ctx context.Context, id uint) (*Customer, error) {
	var cust Customer
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&cust).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}
	return &cust, nil
}

// Ledger retrieves a customer's transaction history, newest first
func (s *Service) Ledger(ctx context.Context, customerID uint, limit int) ([]Transaction, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var transactions []Transaction
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ledger: %w", err)
	}
	return transactions, nil
}

// Create creates a new customer
func (s *Service) Create(ctx context.Context, req *CustomerRequest) (*Customer, error) {
	cust := &Customer{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(cust).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return cust, nil
}

// Update updates customer contact details. Debt is never set directly;
// it moves only through sales and RecordPayment.
func (s *Service) Update(ctx context.Context, id uint, req *CustomerRequest) (*Customer, error) {
	cust, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cust.FullName = req.FullName
	cust.Phone = req.Phone
	cust.Email = req.Email
	cust.Address = req.Address
	cust.Notes = req.Notes

	if err := s.db.WithContext(ctx).Save(cust).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return cust, nil
}

// Delete removes a customer. Refused while debt is outstanding.
func (s *Service) Delete(ctx context.Context, id uint) error {
	cust, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cust.HasDebt() {
		return fmt.Errorf("cannot delete customer with outstanding debt of %.2f", cust.TotalDebt)
	}
	if err := s.db.WithContext(ctx).Delete(&Customer{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// RecordPayment settles part or all of a customer's debt and appends a
// ledger row, inside one transaction. Payments above the outstanding
// debt are rejected rather than creating negative balances.
func (s *Service) RecordPayment(ctx context.Context, customerID uint, req *PaymentRequest) (*Transaction, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	var entry *Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cust Customer
		if err := tx.Where("id = ?", customerID).First(&cust).Error; err != nil {
			return ErrNotFound
		}

		if req.Amount > cust.TotalDebt {
			return fmt.Errorf("payment %.2f exceeds outstanding debt %.2f", req.Amount, cust.TotalDebt)
		}

		newBalance := cust.TotalDebt - req.Amount
		if err := tx.Model(&Customer{}).
			Where("id = ?", customerID).
			Update("total_debt", newBalance).Error; err != nil {
			return fmt.Errorf("failed to update debt: %w", err)
		}

		description := req.Description
		if description == "" {
			description = "Debt Payment"
		}

		entry = &Transaction{
			CustomerID:    customerID,
			Type:          TransactionTypePayment,
			Amount:        req.Amount,
			BalanceAfter:  newBalance,
			ReferenceType: "payment",
			Description:   description,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
