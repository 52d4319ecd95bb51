// internal/domain/product/category_service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when a category does not exist
var ErrCategoryNotFound = errors.New("category not found")

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryRequest represents category create/update data
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// List retrieves all categories with their product counts
func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a single category
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*Category, error) {
	var category Category
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}
	return &category, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req *CategoryRequest) (*Category, error) {
	var existing Category
	if err := s.db.WithContext(ctx).Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("category '%s' already exists", req.Name)
	}

	category := &Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if category.Color == "" {
		category.Color = "#6366f1"
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uint, req *CategoryRequest) (*Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Description = req.Description
	if req.Color != "" {
		category.Color = req.Color
	}

	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete removes a category; products keep selling with a nil category
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
