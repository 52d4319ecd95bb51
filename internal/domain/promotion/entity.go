// internal/domain/promotion/entity.go
package promotion

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Type represents the pricing mechanism of a promotion
type Type string

const (
	TypePriceDiscount    Type = "price_discount"    // Percentage or fixed amount off
	TypeQuantityDiscount Type = "quantity_discount" // Buy X get Y free
	TypePackDiscount     Type = "pack_discount"     // Bundle of products at one price
)

// Status represents whether a promotion is in effect
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DiscountType selects how a price discount is computed
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Promotion is a time-boxed offer. Its mechanics live in the Config
// JSON blob, whose shape depends on Type.
type Promotion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Type      Type           `gorm:"not null;size:30;index" json:"type"`
	Status    Status         `gorm:"size:20;default:'active';index" json:"status"`
	StartDate time.Time      `gorm:"not null" json:"start_date"`
	EndDate   time.Time      `gorm:"not null" json:"end_date"`
	Config    string         `gorm:"type:text;not null" json:"config"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:PromotionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"products,omitempty"`
}

// Product links a promotion to a catalog product. A promotion with no
// links applies storewide (pack promotions always carry links).
type Product struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	PromotionID uint `gorm:"not null;uniqueIndex:idx_promo_product" json:"promotion_id"`
	ProductID   uint `gorm:"not null;uniqueIndex:idx_promo_product" json:"product_id"`
}

// PriceDiscountConfig is the Config shape for TypePriceDiscount
type PriceDiscountConfig struct {
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	MaxDiscount   *float64     `json:"max_discount,omitempty"` // Per-unit cap for percentage discounts
}

// QuantityDiscountConfig is the Config shape for TypeQuantityDiscount
type QuantityDiscountConfig struct {
	BuyQuantity  int `json:"buy_quantity"`
	FreeQuantity int `json:"free_quantity"`
}

// PackDiscountConfig is the Config shape for TypePackDiscount
type PackDiscountConfig struct {
	BundlePrice float64 `json:"bundle_price"`
}

// TableName overrides the table name for Promotion
func (Promotion) TableName() string {
	return "promotions"
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "promotion_products"
}

// IsEffective reports whether the promotion applies at the given time
func (p *Promotion) IsEffective(at time.Time) bool {
	if p.Status != StatusActive {
		return false
	}
	day := at.Truncate(24 * time.Hour)
	return !p.StartDate.After(day) && !p.EndDate.Before(day)
}

// AppliesTo reports whether the promotion covers a product. No links
// means storewide.
func (p *Promotion) AppliesTo(productID uint) bool {
	if len(p.Products) == 0 {
		return true
	}
	for _, link := range p.Products {
		if link.ProductID == productID {
			return true
		}
	}
	return false
}

// DecodeConfig unmarshals the Config blob into out
func (p *Promotion) DecodeConfig(out interface{}) error {
	return json.Unmarshal([]byte(p.Config), out)
}
