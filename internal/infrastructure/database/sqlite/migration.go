// internal/infrastructure/database/sqlite/migration.go
package sqlite

import (
	"fmt"
	"log"

	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/customer"
	"github.com/your-org/pos-backend/internal/domain/expense"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/domain/promotion"
	"github.com/your-org/pos-backend/internal/domain/purchase"
	"github.com/your-org/pos-backend/internal/domain/sale"
	"github.com/your-org/pos-backend/internal/domain/settings"
	"github.com/your-org/pos-backend/internal/domain/supplier"
	"github.com/your-org/pos-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: referenced tables first
	models := []interface{}{
		&user.User{},
		&user.CashierSession{},

		&product.Category{},
		&product.Product{},

		&inventory.StockMovement{},

		&customer.Customer{},
		&customer.Transaction{},

		&sale.Sale{},
		&sale.Item{},

		&promotion.Promotion{},
		&promotion.Product{},

		&supplier.Supplier{},
		&purchase.Order{},
		&purchase.Item{},

		&expense.Expense{},
		&settings.Setting{},
		&audit.Log{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Product lookups from the register
		"CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_stock ON products(stock_quantity)",

		// Sales reporting
		"CREATE INDEX IF NOT EXISTS idx_sales_date_status ON sales(sale_date DESC, status)",
		"CREATE INDEX IF NOT EXISTS idx_sales_session ON sales(session_id, payment_method)",
		"CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id)",
		"CREATE INDEX IF NOT EXISTS idx_sale_items_product ON sale_items(product_id)",

		// Inventory ledger
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements(reference_type, reference_id)",

		// Credit ledger
		"CREATE INDEX IF NOT EXISTS idx_customer_transactions_customer ON customer_transactions(customer_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_customers_debt ON customers(total_debt)",

		// Promotions effective-window scan
		"CREATE INDEX IF NOT EXISTS idx_promotions_window ON promotions(status, start_date, end_date)",

		// Purchasing
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_supplier ON purchase_orders(supplier_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_order_items_order ON purchase_order_items(purchase_order_id)",

		// Expenses and audit
		"CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(expense_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs(entity_type, entity_id)",
	}

	successCount := 0
	failCount := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts the rows a fresh store needs to operate
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedAdminUser creates the default admin account on first boot
func (m *Migration) seedAdminUser() error {
	var count int64
	m.db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Username:     "admin",
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("👤 Default admin user created (username: admin), change the password")
	return nil
}

// seedCategories creates starter product categories
func (m *Migration) seedCategories() error {
	var count int64
	m.db.Model(&product.Category{}).Count(&count)
	if count > 0 {
		return nil
	}

	categories := []product.Category{
		{Name: "Beverages", Description: "Drinks, juices, and water", Color: "#3b82f6"},
		{Name: "Snacks", Description: "Chips, biscuits, and confectionery", Color: "#f59e0b"},
		{Name: "Groceries", Description: "Staple foods and household goods", Color: "#10b981"},
		{Name: "Personal Care", Description: "Hygiene and beauty products", Color: "#8b5cf6"},
	}

	for _, category := range categories {
		if err := m.db.Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
