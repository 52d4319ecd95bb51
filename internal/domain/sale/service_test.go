// internal/domain/sale/service_test.go
package sale

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/customer"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/product"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test; a bare :memory: DSN with
	// cache=shared would be a single database shared by every test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&product.Product{},
		&product.Category{},
		&inventory.StockMovement{},
		&customer.Customer{},
		&customer.Transaction{},
		&Sale{},
		&Item{},
		&audit.Log{},
	)
	require.NoError(t, err)
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{}
	svc := NewService(db, cfg, audit.NewService(db, log), log)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price, cost float64, stock int) product.Product {
	t.Helper()
	p := product.Product{Name: name, SellingPrice: price, CostPrice: cost, StockQuantity: stock, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, name string, debt float64) customer.Customer {
	t.Helper()
	c := customer.Customer{FullName: name, TotalDebt: debt}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func lineFor(p product.Product, qty int, discount float64) cart.Line {
	return cart.Line{Product: p, Quantity: qty, Discount: discount}
}

func TestCreateFromCart_PersistsSaleAndDecrementsStock(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Widget", 100, 60, 10)

	created, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 3, 50)},
		PaymentInfo{Method: PaymentCash, TaxRate: 0.1},
		nil, nil)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.InDelta(t, 250.0, created.Subtotal, 1e-9) // 3*100 - 50
	assert.InDelta(t, 25.0, created.TaxAmount, 1e-9)
	assert.InDelta(t, 275.0, created.Total, 1e-9)
	assert.Equal(t, StatusCompleted, created.Status)
	assert.Equal(t, "Walk-in Customer", created.CustomerName)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Widget", created.Items[0].ProductName)

	var fresh product.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 7, fresh.StockQuantity)

	var movements []inventory.StockMovement
	require.NoError(t, db.Where("product_id = ?", p.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementTypeOut, movements[0].Type)
	assert.Equal(t, 10, movements[0].PreviousStock)
	assert.Equal(t, 7, movements[0].NewStock)
}

func TestCreateFromCart_InsufficientStockRollsBack(t *testing.T) {
	svc, db := newTestService(t)
	ok := seedProduct(t, db, "Widget", 100, 60, 10)
	short := seedProduct(t, db, "Gadget", 200, 120, 1)

	_, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(ok, 2, 0), lineFor(short, 5, 0)},
		PaymentInfo{Method: PaymentCash},
		nil, nil)

	require.Error(t, err)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Gadget", stockErr.ProductName)
	assert.Equal(t, 1, stockErr.Available)

	// Nothing committed: no sale, no items, stock untouched
	var saleCount, itemCount, movementCount int64
	db.Model(&Sale{}).Count(&saleCount)
	db.Model(&Item{}).Count(&itemCount)
	db.Model(&inventory.StockMovement{}).Count(&movementCount)
	assert.Zero(t, saleCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, movementCount)

	var fresh product.Product
	require.NoError(t, db.First(&fresh, ok.ID).Error)
	assert.Equal(t, 10, fresh.StockQuantity, "first line's decrement must roll back too")
}

func TestCreateFromCart_EmptyCartRejected(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateFromCart(context.Background(), nil, PaymentInfo{Method: PaymentCash}, nil, nil)
	require.Error(t, err)
}

func TestCreateFromCart_CreditSaleUpdatesDebt(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Widget", 100, 60, 10)
	cust := seedCustomer(t, db, "Ada Lovelace", 20)

	created, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 2, 0)},
		PaymentInfo{Method: PaymentCredit, CustomerID: &cust.ID, CustomerName: "Ada Lovelace"},
		nil, nil)

	require.NoError(t, err)
	assert.InDelta(t, 200.0, created.Total, 1e-9)

	var fresh customer.Customer
	require.NoError(t, db.First(&fresh, cust.ID).Error)
	assert.InDelta(t, 220.0, fresh.TotalDebt, 1e-9)

	var entries []customer.Transaction
	require.NoError(t, db.Where("customer_id = ?", cust.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, customer.TransactionTypeDebt, entries[0].Type)
	assert.InDelta(t, 200.0, entries[0].Amount, 1e-9)
	assert.InDelta(t, 220.0, entries[0].BalanceAfter, 1e-9)
}

func TestCreateFromCart_CreditWithoutCustomerRejected(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Widget", 100, 60, 10)

	_, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 1, 0)},
		PaymentInfo{Method: PaymentCredit},
		nil, nil)

	require.Error(t, err)

	var fresh product.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 10, fresh.StockQuantity)
}

func TestRefund_RestoresStockAndFlipsStatus(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Widget", 100, 60, 10)

	created, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 4, 0)},
		PaymentInfo{Method: PaymentCash},
		nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Refund(context.Background(), created.ID, "damaged goods", nil))

	refunded, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, refunded.Status)
	assert.InDelta(t, created.Total, refunded.Total, 1e-9, "amounts are immutable")

	var fresh product.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 10, fresh.StockQuantity)

	var returns []inventory.StockMovement
	require.NoError(t, db.Where("type = ?", inventory.MovementTypeReturn).Find(&returns).Error)
	require.Len(t, returns, 1)
	assert.Equal(t, 4, returns[0].Quantity)
}

func TestRefund_DoubleReversalRejected(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Widget", 100, 60, 10)

	created, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 2, 0)},
		PaymentInfo{Method: PaymentCash},
		nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Refund(context.Background(), created.ID, "", nil))
	err = svc.Void(context.Background(), created.ID, "", nil)
	assert.ErrorIs(t, err, ErrAlreadyReversed)

	var fresh product.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 10, fresh.StockQuantity, "stock restored exactly once")
}

func TestVoid_CreditSaleRollsBackDebt(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Widget", 100, 60, 10)
	cust := seedCustomer(t, db, "Ada Lovelace", 0)

	created, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 3, 0)},
		PaymentInfo{Method: PaymentCredit, CustomerID: &cust.ID},
		nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Void(context.Background(), created.ID, "keyed in error", nil))

	var fresh customer.Customer
	require.NoError(t, db.First(&fresh, cust.ID).Error)
	assert.InDelta(t, 0.0, fresh.TotalDebt, 1e-9)
}

func TestGetAll_FiltersByStatus(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Widget", 100, 60, 100)

	first, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 1, 0)}, PaymentInfo{Method: PaymentCash}, nil, nil)
	require.NoError(t, err)
	_, err = svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 2, 0)}, PaymentInfo{Method: PaymentCash}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Void(context.Background(), first.ID, "", nil))

	completed, err := svc.GetAll(context.Background(), &ListSalesRequest{Status: string(StatusCompleted)})
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	all, err := svc.GetAll(context.Background(), &ListSalesRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetTodayStats(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Widget", 100, 60, 100)

	_, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 2, 0)}, PaymentInfo{Method: PaymentCash}, nil, nil)
	require.NoError(t, err)

	voided, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 5, 0)}, PaymentInfo{Method: PaymentCash}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Void(context.Background(), voided.ID, "", nil))

	// A sale from just before the store's local midnight belongs to
	// yesterday's numbers
	now := time.Now()
	beforeMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(-time.Minute)
	require.NoError(t, db.Create(&Sale{
		SaleDate: beforeMidnight,
		Subtotal: 999,
		Total:    999,
		Status:   StatusCompleted,
	}).Error)

	stats, err := svc.GetTodayStats(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 200.0, stats.Revenue, 1e-9, "voided sales excluded")
	assert.Equal(t, int64(1), stats.Orders)
	assert.InDelta(t, 80.0, stats.Profit, 1e-9) // (100-60)*2
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
