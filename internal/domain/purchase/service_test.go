// internal/domain/purchase/service_test.go
package purchase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/domain/supplier"
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
		&product.Category{},
		&product.Product{},
		&inventory.StockMovement{},
		&supplier.Supplier{},
		&Order{},
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

func seedSupplier(t *testing.T, db *gorm.DB, name string) supplier.Supplier {
	t.Helper()
	s := supplier.Supplier{Name: name, IsActive: true}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedProduct(t *testing.T, db *gorm.DB, name string, cost float64, stock int) product.Product {
	t.Helper()
	p := product.Product{Name: name, SellingPrice: cost * 2, CostPrice: cost, StockQuantity: stock, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestCreate_TotalsOrderAndDenormalizesNames(t *testing.T) {
	svc, db := newTestService(t)
	sup := seedSupplier(t, db, "Acme Wholesale")
	flour := seedProduct(t, db, "Flour 1kg", 2.50, 5)
	sugar := seedProduct(t, db, "Sugar 1kg", 3.00, 5)

	order, err := svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: sup.ID,
		Items: []ItemRequest{
			{ProductID: flour.ID, Quantity: 10, UnitCost: 2.00},
			{ProductID: sugar.ID, Quantity: 4, UnitCost: 2.75},
		},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.InDelta(t, 31.0, order.TotalAmount, 1e-9) // 10*2.00 + 4*2.75
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Flour 1kg", order.Items[0].ProductName)
	assert.Zero(t, order.Items[0].ReceivedQuantity)

	// Creating the order moves no stock
	var fresh product.Product
	require.NoError(t, db.First(&fresh, flour.ID).Error)
	assert.Equal(t, 5, fresh.StockQuantity)
	var movements int64
	db.Model(&inventory.StockMovement{}).Count(&movements)
	assert.Zero(t, movements)
}

func TestCreate_UnknownSupplierRejected(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Flour 1kg", 2.50, 5)

	_, err := svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: 999,
		Items:      []ItemRequest{{ProductID: p.ID, Quantity: 1, UnitCost: 1}},
	}, nil)
	require.Error(t, err)
}

func TestReceive_AddsStockAndRecordsMovements(t *testing.T) {
	svc, db := newTestService(t)
	sup := seedSupplier(t, db, "Acme Wholesale")
	p := seedProduct(t, db, "Flour 1kg", 2.50, 5)

	order, err := svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: sup.ID,
		Items:      []ItemRequest{{ProductID: p.ID, Quantity: 10, UnitCost: 2.00}},
	}, nil)
	require.NoError(t, err)

	received, err := svc.Receive(context.Background(), order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, received.Status)
	require.Len(t, received.Items, 1)
	assert.Equal(t, 10, received.Items[0].ReceivedQuantity)

	// Stock goes up and the cost price follows the latest unit cost
	var fresh product.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 15, fresh.StockQuantity)
	assert.InDelta(t, 2.00, fresh.CostPrice, 1e-9)

	// The inventory ledger gets an 'in' movement referencing the order
	var movements []inventory.StockMovement
	require.NoError(t, db.Where("product_id = ?", p.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementTypeIn, movements[0].Type)
	assert.Equal(t, 10, movements[0].Quantity)
	assert.Equal(t, 5, movements[0].PreviousStock)
	assert.Equal(t, 15, movements[0].NewStock)
	assert.Equal(t, "purchase_order", movements[0].ReferenceType)
	require.NotNil(t, movements[0].ReferenceID)
	assert.Equal(t, order.ID, *movements[0].ReferenceID)
}

func TestReceive_SecondReceiveRejected(t *testing.T) {
	svc, db := newTestService(t)
	sup := seedSupplier(t, db, "Acme Wholesale")
	p := seedProduct(t, db, "Flour 1kg", 2.50, 5)

	order, err := svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: sup.ID,
		Items:      []ItemRequest{{ProductID: p.ID, Quantity: 10, UnitCost: 2.00}},
	}, nil)
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), order.ID, nil)
	require.NoError(t, err)
	_, err = svc.Receive(context.Background(), order.ID, nil)
	assert.ErrorIs(t, err, ErrAlreadyReceived)

	var fresh product.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 15, fresh.StockQuantity, "stock booked in exactly once")
}

func TestReceive_CancelledOrderRejected(t *testing.T) {
	svc, db := newTestService(t)
	sup := seedSupplier(t, db, "Acme Wholesale")
	p := seedProduct(t, db, "Flour 1kg", 2.50, 5)

	order, err := svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: sup.ID,
		Items:      []ItemRequest{{ProductID: p.ID, Quantity: 10, UnitCost: 2.00}},
	}, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), order.ID, nil)
	assert.ErrorIs(t, err, ErrCancelled)

	var fresh product.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 5, fresh.StockQuantity)
}

func TestUpdateStatus_ReceivedIsFinal(t *testing.T) {
	svc, db := newTestService(t)
	sup := seedSupplier(t, db, "Acme Wholesale")
	p := seedProduct(t, db, "Flour 1kg", 2.50, 5)

	order, err := svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: sup.ID,
		Items:      []ItemRequest{{ProductID: p.ID, Quantity: 1, UnitCost: 2.00}},
	}, nil)
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), order.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrAlreadyReceived)

	// Marking received directly is also rejected, Receive owns that
	pending, err := svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: sup.ID,
		Items:      []ItemRequest{{ProductID: p.ID, Quantity: 1, UnitCost: 2.00}},
	}, nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), pending.ID, StatusReceived)
	require.Error(t, err)
}

func TestList_FiltersBySupplierAndStatus(t *testing.T) {
	svc, db := newTestService(t)
	acme := seedSupplier(t, db, "Acme Wholesale")
	other := seedSupplier(t, db, "Border Traders")
	p := seedProduct(t, db, "Flour 1kg", 2.50, 5)

	first, err := svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: acme.ID,
		Items:      []ItemRequest{{ProductID: p.ID, Quantity: 1, UnitCost: 2.00}},
	}, nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &CreateOrderRequest{
		SupplierID: other.ID,
		Items:      []ItemRequest{{ProductID: p.ID, Quantity: 2, UnitCost: 2.00}},
	}, nil)
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), first.ID, nil)
	require.NoError(t, err)

	byAcme, err := svc.List(context.Background(), &ListOrdersRequest{SupplierID: &acme.ID})
	require.NoError(t, err)
	require.Len(t, byAcme, 1)
	require.NotNil(t, byAcme[0].Supplier)
	assert.Equal(t, "Acme Wholesale", byAcme[0].Supplier.Name)

	pending, err := svc.List(context.Background(), &ListOrdersRequest{Status: string(StatusPending)})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
