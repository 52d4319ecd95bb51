// internal/domain/checkout/coordinator.go
package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/sale"
)

// ErrEmptyCart is returned when checkout is attempted with no lines
var ErrEmptyCart = errors.New("cart is empty")

// SalePersister persists a cart as a sale. sale.Service satisfies it.
type SalePersister interface {
	CreateFromCart(ctx context.Context, lines []cart.Line, payment sale.PaymentInfo, userID, sessionID *uint) (*sale.Sale, error)
}

// ReadModels is refreshed after a successful checkout so dashboards and
// product grids reflect the new stock levels. Refresh failures are
// swallowed: the sale is already committed and the views will catch up.
type ReadModels interface {
	Refresh(ctx context.Context)
}

// Coordinator drives the checkout flow for one register: snapshot the
// cart, persist it, then clear the cart only once the sale is durable.
// The cart survives any persistence failure so the cashier can retry.
type Coordinator struct {
	mu        sync.Mutex
	engine    *cart.Engine
	persister SalePersister
	views     ReadModels
	logger    *logrus.Logger

	loading bool
	lastErr string
}

// NewCoordinator creates a checkout coordinator. views may be nil.
func NewCoordinator(engine *cart.Engine, persister SalePersister, views ReadModels, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		engine:    engine,
		persister: persister,
		views:     views,
		logger:    logger,
	}
}

// Checkout persists the current cart as a sale. The empty-cart guard
// runs before any I/O. On success the cart is cleared and read models
// are refreshed best-effort; on failure the cart is retained untouched
// and the error is also kept for display until the next attempt.
func (c *Coordinator) Checkout(ctx context.Context, payment sale.PaymentInfo, userID, sessionID *uint) (*sale.Sale, error) {
	lines := c.engine.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	c.setLoading(true)
	defer c.setLoading(false)

	created, err := c.persister.CreateFromCart(ctx, lines, payment, userID, sessionID)
	if err != nil {
		c.setLastErr(err.Error())
		c.logger.WithError(err).Error("checkout failed")
		return nil, err
	}

	c.engine.Clear()
	c.engine.ClearStockErr()
	c.setLastErr("")

	if c.views != nil {
		c.views.Refresh(ctx)
	}

	c.logger.WithFields(logrus.Fields{
		"sale_id": created.ID,
		"total":   created.Total,
		"items":   len(lines),
	}).Info("checkout completed")
	return created, nil
}

// Loading reports whether a checkout is currently persisting
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastError returns the most recent checkout failure message, empty
// after a successful checkout
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Coordinator) setLoading(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = v
}

func (c *Coordinator) setLastErr(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = msg
}
