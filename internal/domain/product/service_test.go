// internal/domain/product/service_test.go
package product

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
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

	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(db, &config.Config{}), db
}

func TestCreate_MultipleProductsWithoutBarcodes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &CreateProductRequest{Name: "Loose Tomatoes", SellingPrice: 3})
	require.NoError(t, err)
	assert.Nil(t, first.Barcode)

	// A second barcode-less product must not collide on the unique index
	second, err := svc.Create(ctx, &CreateProductRequest{Name: "Loose Onions", SellingPrice: 2})
	require.NoError(t, err)
	assert.Nil(t, second.Barcode)
}

func TestCreate_DuplicateBarcodeRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateProductRequest{Name: "Cola", Barcode: "4006381333931", SellingPrice: 2})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreateProductRequest{Name: "Cola Zero", Barcode: "4006381333931", SellingPrice: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUpdate_ClearingBarcode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateProductRequest{Name: "Bread", Barcode: "12345", SellingPrice: 1.5})
	require.NoError(t, err)
	require.NotNil(t, created.Barcode)

	empty := ""
	updated, err := svc.Update(ctx, created.ID, &UpdateProductRequest{Barcode: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Barcode)

	// The freed barcode is usable again
	_, err = svc.Create(ctx, &CreateProductRequest{Name: "Rolls", Barcode: "12345", SellingPrice: 2})
	require.NoError(t, err)
}

func TestGetByBarcode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateProductRequest{Name: "Milk", Barcode: "7612100055557", SellingPrice: 1.2})
	require.NoError(t, err)

	found, err := svc.GetByBarcode(ctx, "7612100055557")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByBarcode(ctx, "0000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
