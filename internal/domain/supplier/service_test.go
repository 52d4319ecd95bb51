// internal/domain/supplier/service_test.go
package supplier

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

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	// One named in-memory database per test; a bare :memory: DSN with
	// cache=shared would be a single database shared by every test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Supplier{}))
	return NewService(db, &config.Config{}), db
}

func TestList_DefaultsToActiveSuppliers(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &SupplierRequest{Name: "Acme Wholesale"})
	require.NoError(t, err)
	retired, err := svc.Create(context.Background(), &SupplierRequest{Name: "Border Traders"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), retired.ID))

	active, err := svc.List(context.Background(), &ListSuppliersRequest{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Acme Wholesale", active[0].Name)

	all, err := svc.List(context.Background(), &ListSuppliersRequest{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestList_SearchMatchesNameCaseInsensitively(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &SupplierRequest{Name: "Acme Wholesale"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &SupplierRequest{Name: "Border Traders"})
	require.NoError(t, err)

	found, err := svc.List(context.Background(), &ListSuppliersRequest{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Acme Wholesale", found[0].Name)
}

func TestAdjustBalance_AccumulatesAndPaysDown(t *testing.T) {
	svc, _ := newTestService(t)

	sup, err := svc.Create(context.Background(), &SupplierRequest{Name: "Acme Wholesale"})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustBalance(context.Background(), sup.ID, 150))
	require.NoError(t, svc.AdjustBalance(context.Background(), sup.ID, -50))

	fresh, err := svc.GetByID(context.Background(), sup.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, fresh.Balance, 1e-9)
}

func TestDelete_UnknownSupplier(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
