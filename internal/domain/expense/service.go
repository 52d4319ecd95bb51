// internal/domain/expense/service.go
package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an expense does not exist
var ErrNotFound = errors.New("expense not found")

// Service handles expense tracking
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new expense service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ExpenseRequest represents expense create/update data
type ExpenseRequest struct {
	Category      string    `json:"category" binding:"required"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	Description   string    `json:"description"`
	ExpenseDate   time.Time `json:"expense_date"`
	PaymentMethod string    `json:"payment_method" binding:"omitempty,oneof=cash card mobile"`
}

// ListExpensesRequest represents expense listing filters
type ListExpensesRequest struct {
	Category string     `form:"category"`
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
	Limit    int        `form:"limit"`
}

// CategorySummary aggregates spending for one category
type CategorySummary struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// List retrieves expenses matching the given filters, newest first
func (s *Service) List(ctx context.Context, req *ListExpensesRequest) ([]Expense, error) {
	query := s.db.WithContext(ctx).Model(&Expense{})

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.From != nil {
		query = query.Where("expense_date >= ?", *req.From)
	}
	if req.To != nil {
		query = query.Where("expense_date <= ?", *req.To)
	}
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}

	var expenses []Expense
	if err := query.Order("expense_date DESC, id DESC").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// GetByID retrieves an expense
func (s *Service) GetByID(ctx context.Context, id uint) (*Expense, error) {
	var exp Expense
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&exp).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expense: %w", err)
	}
	return &exp, nil
}

// Create records a new expense. Missing dates default to now.
func (s *Service) Create(ctx context.Context, req *ExpenseRequest, userID *uint) (*Expense, error) {
	date := req.ExpenseDate
	if date.IsZero() {
		date = time.Now().UTC()
	}

	method := req.PaymentMethod
	if method == "" {
		method = "cash"
	}

	exp := &Expense{
		Category:      req.Category,
		Amount:        req.Amount,
		Description:   req.Description,
		ExpenseDate:   date,
		PaymentMethod: method,
		CreatedBy:     userID,
	}
	if err := s.db.WithContext(ctx).Create(exp).Error; err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return exp, nil
}

// Update updates an expense
func (s *Service) Update(ctx context.Context, id uint, req *ExpenseRequest) (*Expense, error) {
	exp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exp.Category = req.Category
	exp.Amount = req.Amount
	exp.Description = req.Description
	if !req.ExpenseDate.IsZero() {
		exp.ExpenseDate = req.ExpenseDate
	}
	if req.PaymentMethod != "" {
		exp.PaymentMethod = req.PaymentMethod
	}

	if err := s.db.WithContext(ctx).Save(exp).Error; err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return exp, nil
}

// Delete soft-deletes an expense
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Expense{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SummaryByCategory aggregates spending per category over a period
func (s *Service) SummaryByCategory(ctx context.Context, from, to time.Time) ([]CategorySummary, error) {
	var summaries []CategorySummary
	err := s.db.WithContext(ctx).Model(&Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("expense_date >= ? AND expense_date <= ?", from, to).
		Group("category").
		Order("total DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	return summaries, nil
}

// TotalForPeriod returns total spending between two times
func (s *Service) TotalForPeriod(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("expense_date >= ? AND expense_date <= ?", from, to).
		Row().Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to total expenses: %w", err)
	}
	return total, nil
}
