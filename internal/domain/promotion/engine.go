// internal/domain/promotion/engine.go
package promotion

import (
	"fmt"
	"math"
	"time"

	"github.com/your-org/pos-backend/internal/domain/cart"
)

// ItemDiscount is one per-line promotion result
type ItemDiscount struct {
	ProductID     uint    `json:"product_id"`
	PromotionID   uint    `json:"promotion_id"`
	PromotionName string  `json:"promotion_name"`
	PromotionType Type    `json:"promotion_type"`
	Amount        float64 `json:"amount"`
	FreeQuantity  int     `json:"free_quantity,omitempty"`
	Description   string  `json:"description"`
}

// BundleDiscount is one pack promotion result spanning several lines
type BundleDiscount struct {
	PromotionID   uint    `json:"promotion_id"`
	PromotionName string  `json:"promotion_name"`
	ProductIDs    []uint  `json:"product_ids"`
	BundlePrice   float64 `json:"bundle_price"`
	OriginalTotal float64 `json:"original_total"`
	Savings       float64 `json:"savings"`
	Description   string  `json:"description"`
}

// Result is the full promotion computation for a cart
type Result struct {
	ItemDiscounts   []ItemDiscount   `json:"item_discounts"`
	BundleDiscounts []BundleDiscount `json:"bundle_discounts"`
	TotalSavings    float64          `json:"total_savings"`
}

// Compute evaluates every effective promotion against the cart and
// returns the winning offers. Each line gets at most one item-level
// promotion, the most valuable; when a bundle saves more than the best
// item-level candidate the bundle stands and the line gets none. Pure
// function, deterministic for a given clock.
func Compute(lines []cart.Line, promotions []Promotion, now time.Time) Result {
	var effective []Promotion
	for _, p := range promotions {
		if p.IsEffective(now) {
			effective = append(effective, p)
		}
	}

	res := Result{}

	// Pack promotions first; their per-product savings share is the bar
	// item-level candidates must clear.
	bundleShare := make(map[uint]float64)
	for i := range effective {
		p := &effective[i]
		if p.Type != TypePackDiscount {
			continue
		}
		bundle := computePack(lines, p)
		if bundle == nil {
			continue
		}
		res.BundleDiscounts = append(res.BundleDiscounts, *bundle)
		share := bundle.Savings / float64(len(bundle.ProductIDs))
		for _, pid := range bundle.ProductIDs {
			bundleShare[pid] += share
		}
	}

	for _, line := range lines {
		var best *ItemDiscount
		for i := range effective {
			p := &effective[i]
			if !p.AppliesTo(line.Product.ID) {
				continue
			}

			var candidate *ItemDiscount
			switch p.Type {
			case TypePriceDiscount:
				candidate = computePrice(line, p)
			case TypeQuantityDiscount:
				candidate = computeQuantity(line, p)
			}
			if candidate == nil {
				continue
			}
			if best == nil || candidate.Amount > best.Amount {
				best = candidate
			}
		}

		if best != nil && best.Amount >= bundleShare[line.Product.ID] {
			res.ItemDiscounts = append(res.ItemDiscounts, *best)
		}
	}

	for _, d := range res.ItemDiscounts {
		res.TotalSavings += d.Amount
	}
	for _, b := range res.BundleDiscounts {
		res.TotalSavings += b.Savings
	}
	return res
}

// ForProduct returns the computed discount attributable to one product,
// counting a bundle's savings as an even share across its products.
func ForProduct(productID uint, lines []cart.Line, promotions []Promotion, now time.Time) float64 {
	res := Compute(lines, promotions, now)
	for _, d := range res.ItemDiscounts {
		if d.ProductID == productID {
			return d.Amount
		}
	}
	for _, b := range res.BundleDiscounts {
		for _, pid := range b.ProductIDs {
			if pid == productID {
				return b.Savings / float64(len(b.ProductIDs))
			}
		}
	}
	return 0
}

func computePrice(line cart.Line, p *Promotion) *ItemDiscount {
	var cfg PriceDiscountConfig
	if err := p.DecodeConfig(&cfg); err != nil {
		return nil
	}

	var amount float64
	var description string
	if cfg.DiscountType == DiscountPercentage {
		perUnit := line.Product.SellingPrice * cfg.DiscountValue / 100
		if cfg.MaxDiscount != nil {
			perUnit = math.Min(perUnit, *cfg.MaxDiscount)
		}
		amount = perUnit * float64(line.Quantity)
		description = fmt.Sprintf("%g%% off", cfg.DiscountValue)
		if cfg.MaxDiscount != nil {
			description += fmt.Sprintf(" (max %g)", *cfg.MaxDiscount)
		}
	} else {
		amount = cfg.DiscountValue * float64(line.Quantity)
		description = fmt.Sprintf("%g off", cfg.DiscountValue)
	}

	// Never exceed the line's full value
	amount = math.Min(amount, line.Product.SellingPrice*float64(line.Quantity))
	if amount <= 0 {
		return nil
	}

	return &ItemDiscount{
		ProductID:     line.Product.ID,
		PromotionID:   p.ID,
		PromotionName: p.Name,
		PromotionType: p.Type,
		Amount:        amount,
		Description:   description,
	}
}

func computeQuantity(line cart.Line, p *Promotion) *ItemDiscount {
	var cfg QuantityDiscountConfig
	if err := p.DecodeConfig(&cfg); err != nil {
		return nil
	}

	cycle := cfg.BuyQuantity + cfg.FreeQuantity
	if cycle < 1 {
		return nil
	}
	freeUnits := (line.Quantity / cycle) * cfg.FreeQuantity
	amount := float64(freeUnits) * line.Product.SellingPrice
	if amount <= 0 {
		return nil
	}

	return &ItemDiscount{
		ProductID:     line.Product.ID,
		PromotionID:   p.ID,
		PromotionName: p.Name,
		PromotionType: p.Type,
		Amount:        amount,
		FreeQuantity:  freeUnits,
		Description:   fmt.Sprintf("Buy %d Get %d Free", cfg.BuyQuantity, cfg.FreeQuantity),
	}
}

func computePack(lines []cart.Line, p *Promotion) *BundleDiscount {
	if len(p.Products) == 0 {
		return nil
	}

	var cfg PackDiscountConfig
	if err := p.DecodeConfig(&cfg); err != nil {
		return nil
	}

	byProduct := make(map[uint]cart.Line, len(lines))
	for _, line := range lines {
		byProduct[line.Product.ID] = line
	}

	productIDs := make([]uint, 0, len(p.Products))
	minSets := math.MaxInt
	var pricePerSet float64
	for _, link := range p.Products {
		line, ok := byProduct[link.ProductID]
		if !ok {
			// Bundle requires every product in the cart
			return nil
		}
		productIDs = append(productIDs, link.ProductID)
		if line.Quantity < minSets {
			minSets = line.Quantity
		}
		pricePerSet += line.Product.SellingPrice
	}
	if minSets < 1 {
		return nil
	}

	savingsPerSet := pricePerSet - cfg.BundlePrice
	if savingsPerSet <= 0 {
		return nil
	}

	return &BundleDiscount{
		PromotionID:   p.ID,
		PromotionName: p.Name,
		ProductIDs:    productIDs,
		BundlePrice:   cfg.BundlePrice * float64(minSets),
		OriginalTotal: pricePerSet * float64(minSets),
		Savings:       savingsPerSet * float64(minSets),
		Description:   fmt.Sprintf("Bundle %d× %s @ %g", minSets, p.Name, cfg.BundlePrice),
	}
}
