// internal/domain/promotion/engine_test.go
package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/product"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func window() (time.Time, time.Time) {
	return testNow.AddDate(0, 0, -7), testNow.AddDate(0, 0, 7)
}

func activePromo(id uint, name string, typ Type, cfg string, productIDs ...uint) Promotion {
	start, end := window()
	p := Promotion{
		ID:        id,
		Name:      name,
		Type:      typ,
		Status:    StatusActive,
		StartDate: start,
		EndDate:   end,
		Config:    cfg,
	}
	for _, pid := range productIDs {
		p.Products = append(p.Products, Product{PromotionID: id, ProductID: pid})
	}
	return p
}

func line(id uint, name string, price float64, qty int) cart.Line {
	return cart.Line{
		Product:  product.Product{ID: id, Name: name, SellingPrice: price},
		Quantity: qty,
	}
}

func TestCompute_PercentageDiscount(t *testing.T) {
	lines := []cart.Line{line(1, "Widget", 100, 3)}
	promos := []Promotion{
		activePromo(10, "Summer Sale", TypePriceDiscount, `{"discount_type":"percentage","discount_value":20}`),
	}

	res := Compute(lines, promos, testNow)

	require.Len(t, res.ItemDiscounts, 1)
	assert.InDelta(t, 60.0, res.ItemDiscounts[0].Amount, 1e-9) // 20% of 100 × 3
	assert.InDelta(t, 60.0, res.TotalSavings, 1e-9)
}

func TestCompute_PercentageWithPerUnitCap(t *testing.T) {
	lines := []cart.Line{line(1, "Widget", 100, 2)}
	promos := []Promotion{
		activePromo(10, "Capped", TypePriceDiscount, `{"discount_type":"percentage","discount_value":50,"max_discount":10}`),
	}

	res := Compute(lines, promos, testNow)

	require.Len(t, res.ItemDiscounts, 1)
	assert.InDelta(t, 20.0, res.ItemDiscounts[0].Amount, 1e-9, "per-unit cap of 10 beats the raw 50")
}

func TestCompute_FixedDiscountClampedToLineValue(t *testing.T) {
	lines := []cart.Line{line(1, "Widget", 30, 2)}
	promos := []Promotion{
		activePromo(10, "Big Fixed", TypePriceDiscount, `{"discount_type":"fixed","discount_value":50}`),
	}

	res := Compute(lines, promos, testNow)

	require.Len(t, res.ItemDiscounts, 1)
	assert.InDelta(t, 60.0, res.ItemDiscounts[0].Amount, 1e-9, "discount never exceeds quantity*price")
}

func TestCompute_QuantityDiscountFullCyclesOnly(t *testing.T) {
	promos := []Promotion{
		activePromo(10, "B2G1", TypeQuantityDiscount, `{"buy_quantity":2,"free_quantity":1}`),
	}

	// 7 units with a cycle of 3 → 2 full cycles → 2 free units
	res := Compute([]cart.Line{line(1, "Widget", 100, 7)}, promos, testNow)
	require.Len(t, res.ItemDiscounts, 1)
	assert.Equal(t, 2, res.ItemDiscounts[0].FreeQuantity)
	assert.InDelta(t, 200.0, res.ItemDiscounts[0].Amount, 1e-9)

	// Below one full cycle, nothing applies
	res = Compute([]cart.Line{line(1, "Widget", 100, 2)}, promos, testNow)
	assert.Empty(t, res.ItemDiscounts)
}

func TestCompute_PackDiscount(t *testing.T) {
	lines := []cart.Line{
		line(1, "Shampoo", 60, 3),
		line(2, "Conditioner", 50, 2),
	}
	promos := []Promotion{
		activePromo(10, "Hair Pack", TypePackDiscount, `{"bundle_price":90}`, 1, 2),
	}

	res := Compute(lines, promos, testNow)

	require.Len(t, res.BundleDiscounts, 1)
	b := res.BundleDiscounts[0]
	// min quantity 2 sets × (110 - 90) savings
	assert.InDelta(t, 40.0, b.Savings, 1e-9)
	assert.InDelta(t, 180.0, b.BundlePrice, 1e-9)
	assert.InDelta(t, 220.0, b.OriginalTotal, 1e-9)
	assert.InDelta(t, 40.0, res.TotalSavings, 1e-9)
}

func TestCompute_PackRequiresAllProductsInCart(t *testing.T) {
	lines := []cart.Line{line(1, "Shampoo", 60, 3)}
	promos := []Promotion{
		activePromo(10, "Hair Pack", TypePackDiscount, `{"bundle_price":90}`, 1, 2),
	}

	res := Compute(lines, promos, testNow)
	assert.Empty(t, res.BundleDiscounts)
	assert.Zero(t, res.TotalSavings)
}

func TestCompute_PackWithNoSavingsIgnored(t *testing.T) {
	lines := []cart.Line{
		line(1, "Shampoo", 40, 1),
		line(2, "Conditioner", 40, 1),
	}
	promos := []Promotion{
		activePromo(10, "Bad Deal", TypePackDiscount, `{"bundle_price":100}`, 1, 2),
	}

	res := Compute(lines, promos, testNow)
	assert.Empty(t, res.BundleDiscounts)
}

func TestCompute_BestSinglePromotionPerLine(t *testing.T) {
	lines := []cart.Line{line(1, "Widget", 100, 6)}
	promos := []Promotion{
		activePromo(10, "Ten Percent", TypePriceDiscount, `{"discount_type":"percentage","discount_value":10}`),
		activePromo(11, "B2G1", TypeQuantityDiscount, `{"buy_quantity":2,"free_quantity":1}`),
	}

	res := Compute(lines, promos, testNow)

	require.Len(t, res.ItemDiscounts, 1, "only the best offer applies")
	// B2G1: 2 free units = 200 beats 10% = 60
	assert.Equal(t, uint(11), res.ItemDiscounts[0].PromotionID)
	assert.InDelta(t, 200.0, res.ItemDiscounts[0].Amount, 1e-9)
}

func TestCompute_BundleBeatsWeakerItemDiscount(t *testing.T) {
	lines := []cart.Line{
		line(1, "Shampoo", 60, 2),
		line(2, "Conditioner", 50, 2),
	}
	promos := []Promotion{
		activePromo(10, "Hair Pack", TypePackDiscount, `{"bundle_price":70}`, 1, 2), // 40/set × 2 = 80, 40/product
		activePromo(11, "Tiny", TypePriceDiscount, `{"discount_type":"fixed","discount_value":1}`, 1),
	}

	res := Compute(lines, promos, testNow)

	require.Len(t, res.BundleDiscounts, 1)
	assert.Empty(t, res.ItemDiscounts, "a 2 item discount loses to the 40 bundle share")
	assert.InDelta(t, 80.0, res.TotalSavings, 1e-9)
}

func TestCompute_ProductScopedPromotionSkipsOtherLines(t *testing.T) {
	lines := []cart.Line{
		line(1, "Widget", 100, 1),
		line(2, "Gadget", 200, 1),
	}
	promos := []Promotion{
		activePromo(10, "Widget Only", TypePriceDiscount, `{"discount_type":"fixed","discount_value":10}`, 1),
	}

	res := Compute(lines, promos, testNow)

	require.Len(t, res.ItemDiscounts, 1)
	assert.Equal(t, uint(1), res.ItemDiscounts[0].ProductID)
}

func TestCompute_ExpiredAndInactiveIgnored(t *testing.T) {
	lines := []cart.Line{line(1, "Widget", 100, 1)}

	expired := activePromo(10, "Expired", TypePriceDiscount, `{"discount_type":"fixed","discount_value":10}`)
	expired.StartDate = testNow.AddDate(0, -2, 0)
	expired.EndDate = testNow.AddDate(0, -1, 0)

	inactive := activePromo(11, "Paused", TypePriceDiscount, `{"discount_type":"fixed","discount_value":10}`)
	inactive.Status = StatusInactive

	res := Compute(lines, []Promotion{expired, inactive}, testNow)
	assert.Empty(t, res.ItemDiscounts)
	assert.Zero(t, res.TotalSavings)
}

func TestForProduct(t *testing.T) {
	lines := []cart.Line{
		line(1, "Shampoo", 60, 1),
		line(2, "Conditioner", 50, 1),
		line(3, "Soap", 20, 2),
	}
	promos := []Promotion{
		activePromo(10, "Hair Pack", TypePackDiscount, `{"bundle_price":90}`, 1, 2),
		activePromo(11, "Soap Deal", TypePriceDiscount, `{"discount_type":"fixed","discount_value":5}`, 3),
	}

	assert.InDelta(t, 10.0, ForProduct(1, lines, promos, testNow), 1e-9, "half the 20 bundle savings")
	assert.InDelta(t, 10.0, ForProduct(3, lines, promos, testNow), 1e-9, "5 × 2 units")
	assert.Zero(t, ForProduct(99, lines, promos, testNow))
}
