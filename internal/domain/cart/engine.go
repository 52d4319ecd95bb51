// internal/domain/cart/engine.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/your-org/pos-backend/internal/domain/product"
)

// StockReader provides live stock reads for cart validation.
// product.Service satisfies this interface.
type StockReader interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

// Line is one product entry in the active cart. The product is a
// snapshot taken at add time; only its identity and price are trusted,
// never its stock.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Discount float64         `json:"discount"`
}

// Total returns the line's value after discount
func (l Line) Total() float64 {
	return l.Product.SellingPrice*float64(l.Quantity) - l.Discount
}

// StockError is advisory state set when a requested quantity cannot be
// satisfied by current inventory. It is not an error value: the UI
// renders it and the cashier retries with a smaller quantity.
type StockError struct {
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
}

// Engine maintains an in-memory cart for one register. Every mutation
// that grows a line re-reads live stock through the StockReader, so a
// line's quantity never exceeds inventory as observed at its last
// validation. Mutations are serialized internally; the engine is safe
// for concurrent use, with back-to-back calls applied in lock order.
//
// The engine's stock check is advisory: the checkout transaction
// re-validates every line against live stock and is the final
// authority (see sale.Service.CreateFromCart).
type Engine struct {
	mu       sync.Mutex
	reader   StockReader
	lines    []Line
	stockErr *StockError
}

// NewEngine creates a cart engine bound to a live stock reader
func NewEngine(reader StockReader) *Engine {
	return &Engine{reader: reader}
}

// Add merges a candidate line into the cart. The candidate's discount
// is silently clamped to its own [0, quantity*price] first; when the
// product already has a line, quantities add and the clamped discounts
// merge additively, re-clamped against the new line total. On stock
// shortfall the cart is left untouched and the StockError slot is set.
// A successful mutation clears the slot.
func (e *Engine) Add(ctx context.Context, line Line) error {
	if line.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	safeDiscount := clamp(line.Discount, 0, float64(line.Quantity)*line.Product.SellingPrice)

	// Never trust the snapshot's stock; it may be stale.
	fresh, err := e.reader.GetByID(ctx, line.Product.ID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			e.stockErr = &StockError{ProductName: line.Product.Name, Available: 0}
			return nil
		}
		return fmt.Errorf("failed to read stock: %w", err)
	}

	idx := e.indexOf(line.Product.ID)
	existing := 0
	if idx >= 0 {
		existing = e.lines[idx].Quantity
	}

	if existing+line.Quantity > fresh.StockQuantity {
		e.stockErr = &StockError{ProductName: fresh.Name, Available: fresh.StockQuantity}
		return nil
	}

	if idx >= 0 {
		merged := e.lines[idx]
		merged.Quantity += line.Quantity
		merged.Discount = clamp(merged.Discount+safeDiscount, 0, float64(merged.Quantity)*merged.Product.SellingPrice)
		e.lines[idx] = merged
	} else {
		line.Discount = safeDiscount
		e.lines = append(e.lines, line)
	}

	e.stockErr = nil
	return nil
}

// Update sets a line's quantity to an absolute value. A missing line
// is a silent no-op (no stock read), guarding against UI races where
// the line was removed while the update was queued. Quantity zero or
// below removes the line.
func (e *Engine) Update(ctx context.Context, productID uint, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(productID)
	if idx < 0 {
		return nil
	}

	if quantity <= 0 {
		e.removeAt(idx)
		e.stockErr = nil
		return nil
	}

	fresh, err := e.reader.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			e.stockErr = &StockError{ProductName: e.lines[idx].Product.Name, Available: 0}
			return nil
		}
		return fmt.Errorf("failed to read stock: %w", err)
	}

	if quantity > fresh.StockQuantity {
		e.stockErr = &StockError{ProductName: fresh.Name, Available: fresh.StockQuantity}
		return nil
	}

	line := e.lines[idx]
	line.Quantity = quantity
	line.Discount = clamp(line.Discount, 0, float64(quantity)*line.Product.SellingPrice)
	e.lines[idx] = line
	e.stockErr = nil
	return nil
}

// Remove unconditionally removes the line for a product. Removing an
// absent product is a no-op.
func (e *Engine) Remove(productID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if idx := e.indexOf(productID); idx >= 0 {
		e.removeAt(idx)
	}
}

// Clear empties the cart
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
}

// SetDiscount replaces a line's discount, clamped to the line total.
// Used by the promotion engine after recomputing applicable offers.
func (e *Engine) SetDiscount(productID uint, discount float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if idx := e.indexOf(productID); idx >= 0 {
		line := e.lines[idx]
		line.Discount = clamp(discount, 0, float64(line.Quantity)*line.Product.SellingPrice)
		e.lines[idx] = line
	}
}

// Lines returns a copy of the cart in insertion order
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// Len returns the number of lines in the cart
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// Total returns the cart value: sum of quantity*price - discount over
// all lines. Zero for an empty cart. Pure read, no side effects.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	var total float64
	for _, line := range e.lines {
		total += line.Total()
	}
	return total
}

// StockErr returns the current stock advisory, or nil
func (e *Engine) StockErr() *StockError {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stockErr == nil {
		return nil
	}
	cp := *e.stockErr
	return &cp
}

// ClearStockErr resets the stock advisory slot
func (e *Engine) ClearStockErr() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stockErr = nil
}

// Restore replaces the cart contents wholesale. Used when resuming a
// held sale; validation happens at checkout.
func (e *Engine) Restore(lines []Line) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = make([]Line, len(lines))
	copy(e.lines, lines)
	e.stockErr = nil
}

// indexOf finds the line for a product id; callers hold e.mu
func (e *Engine) indexOf(productID uint) int {
	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// removeAt deletes a line preserving order; callers hold e.mu
func (e *Engine) removeAt(idx int) {
	e.lines = append(e.lines[:idx], e.lines[idx+1:]...)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
