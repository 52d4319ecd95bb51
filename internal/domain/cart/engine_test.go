// internal/domain/cart/engine_test.go
package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/product"
)

// fakeStockReader serves canned products and counts reads
type fakeStockReader struct {
	products map[uint]product.Product
	err      error
	reads    int
}

func (f *fakeStockReader) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	prod, ok := f.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &prod, nil
}

func widget(stock int) product.Product {
	return product.Product{
		ID:            1,
		Name:          "Widget",
		CostPrice:     50,
		SellingPrice:  100,
		StockQuantity: stock,
		ReorderLevel:  5,
	}
}

func gadget(stock int) product.Product {
	return product.Product{
		ID:            2,
		Name:          "Gadget",
		CostPrice:     120,
		SellingPrice:  200,
		StockQuantity: stock,
		ReorderLevel:  5,
	}
}

func newTestEngine(products ...product.Product) (*Engine, *fakeStockReader) {
	reader := &fakeStockReader{products: map[uint]product.Product{}}
	for _, p := range products {
		reader.products[p.ID] = p
	}
	return NewEngine(reader), reader
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts a new line", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))

		err := engine.Add(ctx, Line{Product: widget(20), Quantity: 2})
		require.NoError(t, err)

		lines := engine.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Nil(t, engine.StockErr())
	})

	t.Run("merges quantities for an existing product", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))

		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 2}))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 3}))

		lines := engine.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("rejects when requested quantity exceeds stock", func(t *testing.T) {
		engine, _ := newTestEngine(widget(3))

		require.NoError(t, engine.Add(ctx, Line{Product: widget(3), Quantity: 5}))

		assert.Equal(t, 0, engine.Len())
		require.NotNil(t, engine.StockErr())
		assert.Equal(t, StockError{ProductName: "Widget", Available: 3}, *engine.StockErr())
	})

	t.Run("rejects when cumulative quantity exceeds stock", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))

		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 18}))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 5}))

		lines := engine.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 18, lines[0].Quantity, "rejected add must not change the line")
		require.NotNil(t, engine.StockErr())
		assert.Equal(t, StockError{ProductName: "Widget", Available: 20}, *engine.StockErr())
	})

	t.Run("validates against live stock, not the snapshot", func(t *testing.T) {
		// Snapshot claims plenty of stock; the ledger disagrees.
		engine, _ := newTestEngine(widget(1))

		require.NoError(t, engine.Add(ctx, Line{Product: widget(99), Quantity: 2}))

		assert.Equal(t, 0, engine.Len())
		require.NotNil(t, engine.StockErr())
		assert.Equal(t, 1, engine.StockErr().Available)
	})

	t.Run("clamps discount to the line total", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))

		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 2, Discount: 500}))

		lines := engine.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 200.0, lines[0].Discount, "discount must clamp to quantity*price")
	})

	t.Run("clamps negative discount to zero", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))

		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 2, Discount: -10}))

		assert.Equal(t, 0.0, engine.Lines()[0].Discount)
	})

	t.Run("merges discounts additively then re-clamps", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))

		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 1, Discount: 80}))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 1, Discount: 90}))

		lines := engine.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		// 80 + 90 = 170 fits under the new 200 cap
		assert.Equal(t, 170.0, lines[0].Discount)

		// A third unit with an oversized discount: the increment clamps
		// to its own line value first (500 -> 100), then merges
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 1, Discount: 500}))
		assert.Equal(t, 270.0, engine.Lines()[0].Discount)
	})

	t.Run("successful add clears a previous stock error", func(t *testing.T) {
		engine, _ := newTestEngine(widget(3))

		require.NoError(t, engine.Add(ctx, Line{Product: widget(3), Quantity: 5}))
		require.NotNil(t, engine.StockErr())

		require.NoError(t, engine.Add(ctx, Line{Product: widget(3), Quantity: 2}))
		assert.Nil(t, engine.StockErr())
	})

	t.Run("missing product reports zero availability", func(t *testing.T) {
		engine, _ := newTestEngine()

		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 1}))

		assert.Equal(t, 0, engine.Len())
		require.NotNil(t, engine.StockErr())
		assert.Equal(t, StockError{ProductName: "Widget", Available: 0}, *engine.StockErr())
	})

	t.Run("propagates reader failures", func(t *testing.T) {
		engine, reader := newTestEngine(widget(20))
		reader.err = errors.New("database locked")

		err := engine.Add(ctx, Line{Product: widget(20), Quantity: 1})
		require.Error(t, err)
		assert.Equal(t, 0, engine.Len())
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		engine, reader := newTestEngine(widget(20))

		require.Error(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 0}))
		assert.Equal(t, 0, reader.reads, "invalid quantity must not trigger a stock read")
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("sets quantity absolutely", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 2}))

		require.NoError(t, engine.Update(ctx, 1, 7))

		assert.Equal(t, 7, engine.Lines()[0].Quantity)
	})

	t.Run("missing line is a silent no-op without a stock read", func(t *testing.T) {
		engine, reader := newTestEngine(widget(20))

		require.NoError(t, engine.Update(ctx, 42, 3))

		assert.Equal(t, 0, engine.Len())
		assert.Equal(t, 0, reader.reads)
		assert.Nil(t, engine.StockErr())
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		engine, reader := newTestEngine(widget(20))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 2}))
		readsBefore := reader.reads

		require.NoError(t, engine.Update(ctx, 1, 0))

		assert.Equal(t, 0, engine.Len())
		assert.Equal(t, readsBefore, reader.reads, "removal must not read stock")
	})

	t.Run("rejects quantity above live stock", func(t *testing.T) {
		engine, _ := newTestEngine(widget(3))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(3), Quantity: 2}))

		require.NoError(t, engine.Update(ctx, 1, 10))

		assert.Equal(t, 2, engine.Lines()[0].Quantity, "rejected update leaves quantity unchanged")
		require.NotNil(t, engine.StockErr())
		assert.Equal(t, StockError{ProductName: "Widget", Available: 3}, *engine.StockErr())
	})

	t.Run("re-clamps discount when quantity shrinks", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 3, Discount: 250}))

		require.NoError(t, engine.Update(ctx, 1, 1))

		line := engine.Lines()[0]
		assert.Equal(t, 1, line.Quantity)
		assert.Equal(t, 100.0, line.Discount)
	})
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()

	t.Run("remove deletes the line", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20), gadget(20))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 1}))
		require.NoError(t, engine.Add(ctx, Line{Product: gadget(20), Quantity: 1}))

		engine.Remove(1)

		lines := engine.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, uint(2), lines[0].Product.ID)
	})

	t.Run("removing an absent product is a no-op", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 1}))

		engine.Remove(42)

		assert.Equal(t, 1, engine.Len())
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20), gadget(20))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 1}))
		require.NoError(t, engine.Add(ctx, Line{Product: gadget(20), Quantity: 1}))

		engine.Clear()

		assert.Equal(t, 0, engine.Len())
		assert.Equal(t, 0.0, engine.Total())
	})
}

func TestTotal(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart totals zero", func(t *testing.T) {
		engine, _ := newTestEngine()
		assert.Equal(t, 0.0, engine.Total())
	})

	t.Run("sums quantity times price minus discount", func(t *testing.T) {
		engine, _ := newTestEngine(widget(20), gadget(20))
		require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 3, Discount: 50}))
		require.NoError(t, engine.Add(ctx, Line{Product: gadget(20), Quantity: 1}))

		// 3*100 - 50 + 1*200 = 450
		assert.Equal(t, 450.0, engine.Total())
	})
}

func TestDiscountNeverExceedsLineValue(t *testing.T) {
	// Whatever sequence of mutations runs, no line's discount may
	// exceed its value.
	ctx := context.Background()
	engine, _ := newTestEngine(widget(50), gadget(50))

	ops := []func(){
		func() { _ = engine.Add(ctx, Line{Product: widget(50), Quantity: 2, Discount: 10_000}) },
		func() { _ = engine.Add(ctx, Line{Product: gadget(50), Quantity: 1, Discount: 150}) },
		func() { _ = engine.Update(ctx, 1, 1) },
		func() { _ = engine.Add(ctx, Line{Product: widget(50), Quantity: 4, Discount: 999}) },
		func() { engine.SetDiscount(2, 5_000) },
		func() { _ = engine.Update(ctx, 2, 3) },
	}

	for _, op := range ops {
		op()
		for _, line := range engine.Lines() {
			maxDiscount := float64(line.Quantity) * line.Product.SellingPrice
			assert.LessOrEqual(t, line.Discount, maxDiscount)
			assert.GreaterOrEqual(t, line.Discount, 0.0)
		}
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(widget(20))
	require.NoError(t, engine.Add(ctx, Line{Product: widget(20), Quantity: 5}))

	held := []Line{{Product: gadget(10), Quantity: 2, Discount: 20}}
	engine.Restore(held)

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, uint(2), lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
}
