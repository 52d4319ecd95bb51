// internal/domain/settings/service_test.go
package settings

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	// One named in-memory database per test; a bare :memory: DSN with
	// cache=shared would be a single database shared by every test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Setting{}, &audit.Log{}))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(db, audit.NewService(db, log))
}

func TestSet_UpsertsExistingKey(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Set(context.Background(), "store_name", "Corner Shop", nil))
	require.NoError(t, svc.Set(context.Background(), "store_name", "Main Street Mart", nil))

	value, err := svc.Get(context.Background(), "store_name")
	require.NoError(t, err)
	assert.Equal(t, "Main Street Mart", value)

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not duplicate the key")
}

func TestGet_UnknownKey(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetMany_WritesBatchAndSkipsUnchanged(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Set(context.Background(), "tax_rate", "0.10", nil))

	err := svc.SetMany(context.Background(), map[string]string{
		"tax_rate":       "0.10", // unchanged
		"receipt_footer": "Thank you!",
		"currency":       "USD",
	}, nil)
	require.NoError(t, err)

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Thank you!", all["receipt_footer"])
	assert.Equal(t, "0.10", all["tax_rate"])
}
