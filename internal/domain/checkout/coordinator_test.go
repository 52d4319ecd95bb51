// internal/domain/checkout/coordinator_test.go
package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/domain/sale"
)

type fakeStockReader struct {
	products map[uint]*product.Product
}

func (f *fakeStockReader) GetByID(_ context.Context, id uint) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type fakePersister struct {
	err          error
	calls        int
	gotLines     []cart.Line
	gotPayment   sale.PaymentInfo
	loadingInCal bool
	observe      func()
}

func (f *fakePersister) CreateFromCart(_ context.Context, lines []cart.Line, payment sale.PaymentInfo, _, _ *uint) (*sale.Sale, error) {
	f.calls++
	f.gotLines = lines
	f.gotPayment = payment
	if f.observe != nil {
		f.observe()
	}
	if f.err != nil {
		return nil, f.err
	}
	var total float64
	for _, l := range lines {
		total += l.Total()
	}
	return &sale.Sale{ID: 42, Total: total, Status: sale.StatusCompleted}, nil
}

type fakeViews struct {
	refreshes int
}

func (f *fakeViews) Refresh(_ context.Context) {
	f.refreshes++
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func widget(stock int) product.Product {
	return product.Product{ID: 1, Name: "Widget", SellingPrice: 100, StockQuantity: stock}
}

func newCartWith(t *testing.T, lines ...cart.Line) *cart.Engine {
	t.Helper()
	reader := &fakeStockReader{products: map[uint]*product.Product{}}
	for _, l := range lines {
		p := l.Product
		reader.products[p.ID] = &p
	}
	engine := cart.NewEngine(reader)
	for _, l := range lines {
		require.NoError(t, engine.Add(context.Background(), l))
	}
	require.Equal(t, len(lines), engine.Len())
	return engine
}

func TestCheckout_EmptyCartGuard(t *testing.T) {
	engine := cart.NewEngine(&fakeStockReader{products: map[uint]*product.Product{}})
	persister := &fakePersister{}
	c := NewCoordinator(engine, persister, nil, quietLogger())

	created, err := c.Checkout(context.Background(), sale.PaymentInfo{Method: sale.PaymentCash}, nil, nil)

	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, persister.calls, "empty cart must not reach persistence")
}

func TestCheckout_SuccessClearsCart(t *testing.T) {
	engine := newCartWith(t, cart.Line{Product: widget(10), Quantity: 3})
	persister := &fakePersister{}
	views := &fakeViews{}
	c := NewCoordinator(engine, persister, views, quietLogger())

	created, err := c.Checkout(context.Background(), sale.PaymentInfo{Method: sale.PaymentCash}, nil, nil)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(42), created.ID)
	assert.Equal(t, 0, engine.Len(), "cart must be cleared after a durable sale")
	assert.Equal(t, 1, views.refreshes)
	assert.Empty(t, c.LastError())
	assert.False(t, c.Loading())
}

func TestCheckout_FailureRetainsCart(t *testing.T) {
	engine := newCartWith(t, cart.Line{Product: widget(10), Quantity: 3})
	persister := &fakePersister{err: errors.New("disk full")}
	views := &fakeViews{}
	c := NewCoordinator(engine, persister, views, quietLogger())

	created, err := c.Checkout(context.Background(), sale.PaymentInfo{Method: sale.PaymentCash}, nil, nil)

	assert.Nil(t, created)
	require.Error(t, err)
	assert.Equal(t, 1, engine.Len(), "cart survives a failed checkout for retry")
	assert.Equal(t, 3, engine.Lines()[0].Quantity)
	assert.Equal(t, 0, views.refreshes, "no refresh without a committed sale")
	assert.Equal(t, "disk full", c.LastError())
	assert.False(t, c.Loading())
}

func TestCheckout_LoadingFlagDuringPersist(t *testing.T) {
	engine := newCartWith(t, cart.Line{Product: widget(10), Quantity: 1})
	persister := &fakePersister{}
	c := NewCoordinator(engine, persister, nil, quietLogger())

	persister.observe = func() {
		persister.loadingInCal = c.Loading()
	}

	_, err := c.Checkout(context.Background(), sale.PaymentInfo{Method: sale.PaymentCash}, nil, nil)

	require.NoError(t, err)
	assert.True(t, persister.loadingInCal, "loading must be true while persisting")
	assert.False(t, c.Loading(), "loading must reset after checkout")
}

func TestCheckout_FailureThenSuccessClearsError(t *testing.T) {
	engine := newCartWith(t, cart.Line{Product: widget(10), Quantity: 2})
	persister := &fakePersister{err: errors.New("transient")}
	c := NewCoordinator(engine, persister, nil, quietLogger())

	_, err := c.Checkout(context.Background(), sale.PaymentInfo{Method: sale.PaymentCash}, nil, nil)
	require.Error(t, err)
	assert.Equal(t, "transient", c.LastError())

	persister.err = nil
	created, err := c.Checkout(context.Background(), sale.PaymentInfo{Method: sale.PaymentCash}, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, created)
	assert.Empty(t, c.LastError(), "error display resets on the next successful attempt")
}

func TestCheckout_PassesSnapshotAndPayment(t *testing.T) {
	engine := newCartWith(t, cart.Line{Product: widget(10), Quantity: 2, Discount: 50})
	persister := &fakePersister{}
	c := NewCoordinator(engine, persister, nil, quietLogger())

	payment := sale.PaymentInfo{Method: sale.PaymentCard, CustomerName: "Ada", TaxRate: 0.1}
	_, err := c.Checkout(context.Background(), payment, nil, nil)

	require.NoError(t, err)
	require.Len(t, persister.gotLines, 1)
	assert.Equal(t, 2, persister.gotLines[0].Quantity)
	assert.Equal(t, 50.0, persister.gotLines[0].Discount)
	assert.Equal(t, payment, persister.gotPayment)
}
