// internal/domain/sale/entity.go
package sale

import (
	"time"
)

// Status represents the lifecycle state of a sale
type Status string

const (
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
	StatusVoided    Status = "voided"
)

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
	PaymentCredit PaymentMethod = "credit" // On the customer's ledger
)

// Sale is an immutable record of a completed transaction. It is
// created only by a successful checkout; refund/void flip the status
// and restore stock but never edit the amounts.
type Sale struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         *uint         `gorm:"index" json:"user_id,omitempty"`
	SessionID      *uint         `gorm:"index" json:"session_id,omitempty"`
	CustomerID     *uint         `gorm:"index" json:"customer_id,omitempty"`
	SaleDate       time.Time     `gorm:"not null;index" json:"sale_date"`
	Subtotal       float64       `gorm:"not null" json:"subtotal"`
	TaxAmount      float64       `gorm:"default:0" json:"tax_amount"`
	DiscountAmount float64       `gorm:"default:0" json:"discount_amount"`
	Total          float64       `gorm:"not null" json:"total"`
	PaymentMethod  PaymentMethod `gorm:"size:20;default:'cash'" json:"payment_method"`
	CustomerName   string        `gorm:"size:255;default:'Walk-in Customer'" json:"customer_name"`
	Status         Status        `gorm:"size:20;default:'completed';index" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Relationships
	Items []Item `gorm:"foreignKey:SaleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// Item is one line of a sale. The product name and unit price are
// denormalized so reports survive later catalog edits and deletions.
type Item struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SaleID      uint    `gorm:"not null;index" json:"sale_id"`
	ProductID   uint    `gorm:"not null;index" json:"product_id"`
	ProductName string  `gorm:"not null;size:255" json:"product_name"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	Discount    float64 `gorm:"default:0" json:"discount"`
	Total       float64 `gorm:"not null" json:"total"`
}

// TableName overrides the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "sale_items"
}

// IsReversed checks whether the sale has already been refunded or voided
func (s *Sale) IsReversed() bool {
	return s.Status == StatusRefunded || s.Status == StatusVoided
}
