// internal/domain/sale/views_test.go
package sale

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"gorm.io/gorm"
)

func newTestViews(t *testing.T) (*Views, *Service, *gorm.DB) {
	t.Helper()
	svc, db := newTestService(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewViews(svc, log), svc, db
}

func TestViews_EmptyBeforeRefresh(t *testing.T) {
	views, _, _ := newTestViews(t)

	_, ok := views.Today()
	assert.False(t, ok)
	_, ok = views.Recent(1)
	assert.False(t, ok)
}

func TestViews_RefreshSnapshotsDashboardReads(t *testing.T) {
	views, svc, db := newTestViews(t)
	p := seedProduct(t, db, "Widget", 100, 60, 100)

	_, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 2, 0)}, PaymentInfo{Method: PaymentCash}, nil, nil)
	require.NoError(t, err)

	views.Refresh(context.Background())

	stats, ok := views.Today()
	require.True(t, ok)
	assert.InDelta(t, 200.0, stats.Revenue, 1e-9)
	assert.Equal(t, int64(1), stats.Orders)

	recent, ok := views.Recent(1)
	require.True(t, ok)
	require.Len(t, recent, 1)
	assert.InDelta(t, 200.0, recent[0].Total, 1e-9)

	// Asking for more sales than the snapshot holds falls through
	_, ok = views.Recent(50)
	assert.False(t, ok)
}

func TestViews_SnapshotExpires(t *testing.T) {
	views, svc, db := newTestViews(t)
	p := seedProduct(t, db, "Widget", 100, 60, 100)

	_, err := svc.CreateFromCart(context.Background(),
		[]cart.Line{lineFor(p, 1, 0)}, PaymentInfo{Method: PaymentCash}, nil, nil)
	require.NoError(t, err)

	views.Refresh(context.Background())
	_, ok := views.Today()
	require.True(t, ok)

	views.mu.Lock()
	views.fetchedAt = time.Now().Add(-viewsTTL - time.Second)
	views.mu.Unlock()

	_, ok = views.Today()
	assert.False(t, ok, "an expired snapshot must not be served")
	_, ok = views.Recent(1)
	assert.False(t, ok)
}
