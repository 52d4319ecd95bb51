// internal/domain/supplier/service.go
package supplier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a supplier does not exist
var ErrNotFound = errors.New("supplier not found")

// Service handles supplier management
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new supplier service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SupplierRequest represents supplier create/update data
type SupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
}

// ListSuppliersRequest represents supplier listing filters
type ListSuppliersRequest struct {
	Search          string `form:"search"`
	IncludeInactive bool   `form:"include_inactive"`
}

// List retrieves suppliers matching the given filters, by name
func (s *Service) List(ctx context.Context, req *ListSuppliersRequest) ([]Supplier, error) {
	query := s.db.WithContext(ctx).Model(&Supplier{})

	if !req.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if req.Search != "" {
		pattern := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(contact_person) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern)
	}

	var suppliers []Supplier
	if err := query.Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// GetByID retrieves a supplier
func (s *Service) GetByID(ctx context.Context, id uint) (*Supplier, error) {
	var sup Supplier
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sup).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve supplier: %w", err)
	}
	return &sup, nil
}

// Create creates a new supplier
func (s *Service) Create(ctx context.Context, req *SupplierRequest) (*Supplier, error) {
	sup := &Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(sup).Error; err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return sup, nil
}

// Update updates a supplier's contact details
func (s *Service) Update(ctx context.Context, id uint, req *SupplierRequest) (*Supplier, error) {
	sup, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sup.Name = req.Name
	sup.ContactPerson = req.ContactPerson
	sup.Phone = req.Phone
	sup.Email = req.Email
	sup.Address = req.Address

	if err := s.db.WithContext(ctx).Save(sup).Error; err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return sup, nil
}

// AdjustBalance shifts what the store owes the supplier by the given
// amount (positive on unpaid receipts, negative on payments)
func (s *Service) AdjustBalance(ctx context.Context, id uint, amount float64) error {
	result := s.db.WithContext(ctx).Model(&Supplier{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust supplier balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deactivates a supplier. Purchase order history keeps pointing
// at the row, so this is a flag flip rather than a delete.
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&Supplier{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate supplier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
