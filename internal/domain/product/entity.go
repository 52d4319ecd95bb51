// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a sellable item in the catalog.
// Barcode is a pointer so products without one store NULL; the unique
// index only bites on real barcodes.
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Barcode       *string        `gorm:"uniqueIndex;size:100" json:"barcode,omitempty"`
	Name          string         `gorm:"not null;size:255;index" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	CategoryID    *uint          `gorm:"index" json:"category_id"`
	CostPrice     float64        `gorm:"not null;default:0" json:"cost_price"`
	SellingPrice  float64        `gorm:"not null;default:0" json:"selling_price"`
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`
	ReorderLevel  int            `gorm:"not null;default:10" json:"reorder_level"`
	Unit          string         `gorm:"size:20;default:'piece'" json:"unit"`
	ImageURL      string         `gorm:"size:500" json:"image_url"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
}

// Category groups products for navigation and reporting
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	Color       string         `gorm:"size:20;default:'#6366f1'" json:"color"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}

// IsLowStock checks if stock has fallen to the reorder level
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.ReorderLevel
}

// IsOutOfStock checks if the product has no sellable units left
func (p *Product) IsOutOfStock() bool {
	return p.StockQuantity <= 0
}

// CanFulfill checks if there is enough stock for a requested quantity
func (p *Product) CanFulfill(quantity int) bool {
	return p.StockQuantity >= quantity
}

// Margin returns the per-unit profit at the current prices
func (p *Product) Margin() float64 {
	return p.SellingPrice - p.CostPrice
}
