// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// Service answers reporting queries over sales, items and expenses.
// Everything here is read-only aggregation; writes happen in the
// domain services.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// RevenuePoint is one bucket in a revenue series
type RevenuePoint struct {
	Bucket  string  `json:"bucket"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// TopProduct is one row of the best-sellers report
type TopProduct struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int64   `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
}

// PaymentBreakdown is revenue split by payment method
type PaymentBreakdown struct {
	Method  string  `json:"method"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// PeriodSummary is the headline figures for a date range
type PeriodSummary struct {
	Revenue   float64 `json:"revenue"`
	Orders    int64   `json:"orders"`
	Profit    float64 `json:"profit"`
	Expenses  float64 `json:"expenses"`
	NetProfit float64 `json:"net_profit"`
}

// Summary computes revenue, gross profit, expenses and net profit for
// a date range. Only completed sales count; reversals are excluded.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*PeriodSummary, error) {
	summary := &PeriodSummary{}

	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM sales
		WHERE sale_date >= ? AND sale_date <= ? AND status = 'completed'`,
		from, to).Row().Scan(&summary.Revenue, &summary.Orders)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	err = s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM((si.unit_price - p.cost_price) * si.quantity - si.discount), 0)
		FROM sale_items si
		JOIN sales sl ON sl.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE sl.sale_date >= ? AND sl.sale_date <= ? AND sl.status = 'completed'`,
		from, to).Row().Scan(&summary.Profit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate profit: %w", err)
	}

	err = s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE expense_date >= ? AND expense_date <= ? AND deleted_at IS NULL`,
		from, to).Row().Scan(&summary.Expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	summary.NetProfit = summary.Profit - summary.Expenses
	return summary, nil
}

// HourlyRevenue buckets one day's completed sales by hour of day
func (s *Service) HourlyRevenue(ctx context.Context, day time.Time) ([]RevenuePoint, error) {
	start := day.Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	return s.revenueSeries(ctx, "%H", start, end)
}

// DailyRevenue buckets completed sales by calendar day
func (s *Service) DailyRevenue(ctx context.Context, from, to time.Time) ([]RevenuePoint, error) {
	return s.revenueSeries(ctx, "%Y-%m-%d", from, to)
}

// MonthlyRevenue buckets completed sales by calendar month
func (s *Service) MonthlyRevenue(ctx context.Context, from, to time.Time) ([]RevenuePoint, error) {
	return s.revenueSeries(ctx, "%Y-%m", from, to)
}

func (s *Service) revenueSeries(ctx context.Context, format string, from, to time.Time) ([]RevenuePoint, error) {
	var points []RevenuePoint
	err := s.db.WithContext(ctx).Raw(`
		SELECT strftime(?, sale_date) AS bucket,
		       COALESCE(SUM(total), 0) AS revenue,
		       COUNT(*) AS orders
		FROM sales
		WHERE sale_date >= ? AND sale_date <= ? AND status = 'completed'
		GROUP BY bucket
		ORDER BY bucket ASC`,
		format, from, to).Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue series: %w", err)
	}
	return points, nil
}

// TopProducts ranks products by gross profit over a date range
func (s *Service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var products []TopProduct
	err := s.db.WithContext(ctx).Raw(`
		SELECT si.product_id AS product_id,
		       si.product_name AS product_name,
		       SUM(si.quantity) AS units_sold,
		       COALESCE(SUM(si.total), 0) AS revenue,
		       COALESCE(SUM((si.unit_price - p.cost_price) * si.quantity - si.discount), 0) AS profit
		FROM sale_items si
		JOIN sales sl ON sl.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE sl.sale_date >= ? AND sl.sale_date <= ? AND sl.status = 'completed'
		GROUP BY si.product_id, si.product_name
		ORDER BY profit DESC
		LIMIT ?`,
		from, to, limit).Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	return products, nil
}

// PaymentMethods splits completed-sale revenue by payment method
func (s *Service) PaymentMethods(ctx context.Context, from, to time.Time) ([]PaymentBreakdown, error) {
	var breakdown []PaymentBreakdown
	err := s.db.WithContext(ctx).Raw(`
		SELECT payment_method AS method,
		       COALESCE(SUM(total), 0) AS revenue,
		       COUNT(*) AS orders
		FROM sales
		WHERE sale_date >= ? AND sale_date <= ? AND status = 'completed'
		GROUP BY payment_method
		ORDER BY revenue DESC`,
		from, to).Scan(&breakdown).Error
	if err != nil {
		return nil, fmt.Errorf("failed to split payment methods: %w", err)
	}
	return breakdown, nil
}

// PeakHours ranks hours of day by order count across a date range,
// for staffing decisions
func (s *Service) PeakHours(ctx context.Context, from, to time.Time) ([]RevenuePoint, error) {
	var points []RevenuePoint
	err := s.db.WithContext(ctx).Raw(`
		SELECT strftime('%H', sale_date) AS bucket,
		       COALESCE(SUM(total), 0) AS revenue,
		       COUNT(*) AS orders
		FROM sales
		WHERE sale_date >= ? AND sale_date <= ? AND status = 'completed'
		GROUP BY bucket
		ORDER BY orders DESC`,
		from, to).Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank peak hours: %w", err)
	}
	return points, nil
}
