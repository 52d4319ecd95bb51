// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist
var ErrNotFound = errors.New("product not found")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Barcode       string  `json:"barcode"`
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	CategoryID    *uint   `json:"category_id"`
	CostPrice     float64 `json:"cost_price" binding:"min=0"`
	SellingPrice  float64 `json:"selling_price" binding:"min=0"`
	StockQuantity int     `json:"stock_quantity" binding:"min=0"`
	ReorderLevel  int     `json:"reorder_level"`
	Unit          string  `json:"unit"`
	ImageURL      string  `json:"image_url"`
}

// UpdateProductRequest represents product update data
type UpdateProductRequest struct {
	Barcode      *string  `json:"barcode"`
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	CategoryID   *uint    `json:"category_id"`
	CostPrice    *float64 `json:"cost_price"`
	SellingPrice *float64 `json:"selling_price"`
	ReorderLevel *int     `json:"reorder_level"`
	Unit         *string  `json:"unit"`
	ImageURL     *string  `json:"image_url"`
	IsActive     *bool    `json:"is_active"`
}

// ListProductsRequest represents catalog listing filters
type ListProductsRequest struct {
	Search     string `form:"search"`
	CategoryID *uint  `form:"category_id"`
	ActiveOnly bool   `form:"active_only"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// ListProductsResponse represents a paginated catalog page
type ListProductsResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
}

// GetByID retrieves a product with its live stock quantity.
// This is the inventory read contract used by the cart engine: callers
// must not cache the returned stock across mutations.
func (s *Service) GetByID(ctx context.Context, id uint) (*Product, error) {
	var prod Product
	err := s.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&prod).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &prod, nil
}

// GetByBarcode retrieves an active product by its barcode
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	var prod Product
	err := s.db.WithContext(ctx).Where("barcode = ? AND is_active = ?", barcode, true).First(&prod).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product by barcode: %w", err)
	}
	return &prod, nil
}

// List retrieves products matching the given filters
func (s *Service) List(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	query := s.db.WithContext(ctx).Model(&Product{}).Preload("Category")

	if req.Search != "" {
		pattern := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR barcode LIKE ?", pattern, "%"+req.Search+"%")
	}
	if req.CategoryID != nil {
		query = query.Where("category_id = ?", *req.CategoryID)
	}
	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if req.LowStock {
		query = query.Where("stock_quantity <= reorder_level")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var products []Product
	err := query.Order("name ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ListProductsResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// LowStock retrieves active products at or below their reorder level
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	var products []Product
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND stock_quantity <= reorder_level", true).
		Order("stock_quantity ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}
	return products, nil
}

// Create creates a new product
func (s *Service) Create(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	var barcode *string
	if req.Barcode != "" {
		var existing Product
		if err := s.db.WithContext(ctx).Where("barcode = ?", req.Barcode).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("product with barcode '%s' already exists", req.Barcode)
		}
		barcode = &req.Barcode
	}

	prod := &Product{
		Barcode:       barcode,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		Unit:          req.Unit,
		ImageURL:      req.ImageURL,
		IsActive:      true,
	}
	if prod.ReorderLevel <= 0 {
		prod.ReorderLevel = 10
	}
	if prod.Unit == "" {
		prod.Unit = "piece"
	}

	if err := s.db.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return prod, nil
}

// Update applies a partial update to a product
func (s *Service) Update(ctx context.Context, id uint, req *UpdateProductRequest) (*Product, error) {
	prod, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Barcode != nil {
		// An explicit empty string removes the barcode
		if *req.Barcode == "" {
			prod.Barcode = nil
		} else {
			prod.Barcode = req.Barcode
		}
	}
	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.CategoryID != nil {
		prod.CategoryID = req.CategoryID
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return nil, fmt.Errorf("cost price cannot be negative")
		}
		prod.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		if *req.SellingPrice < 0 {
			return nil, fmt.Errorf("selling price cannot be negative")
		}
		prod.SellingPrice = *req.SellingPrice
	}
	if req.ReorderLevel != nil {
		prod.ReorderLevel = *req.ReorderLevel
	}
	if req.Unit != nil {
		prod.Unit = *req.Unit
	}
	if req.ImageURL != nil {
		prod.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		prod.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return prod, nil
}

// Delete soft-deletes a product. Sale items keep the denormalized name,
// so historical reports survive the deletion.
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
