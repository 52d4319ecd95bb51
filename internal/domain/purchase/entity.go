// internal/domain/purchase/entity.go
package purchase

import (
	"time"

	"github.com/your-org/pos-backend/internal/domain/supplier"
)

// Status represents the lifecycle state of a purchase order
type Status string

const (
	StatusPending   Status = "pending"
	StatusOrdered   Status = "ordered"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// Order is a purchase order placed with a supplier. Receiving it is
// what brings stock into the store; until then the items carry a zero
// received quantity.
type Order struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SupplierID   uint       `gorm:"not null;index" json:"supplier_id"`
	OrderDate    time.Time  `gorm:"not null" json:"order_date"`
	ExpectedDate *time.Time `json:"expected_date,omitempty"`
	Status       Status     `gorm:"size:20;default:'pending';index" json:"status"`
	TotalAmount  float64    `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount   float64    `gorm:"not null;default:0" json:"paid_amount"`
	Notes        string     `gorm:"size:500" json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Supplier *supplier.Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []Item             `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// Item is one product line of a purchase order. The name is
// denormalized like sale items so the order survives catalog edits.
type Item struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	OrderID          uint    `gorm:"column:purchase_order_id;not null;index" json:"purchase_order_id"`
	ProductID        uint    `gorm:"not null;index" json:"product_id"`
	ProductName      string  `gorm:"not null;size:255" json:"product_name"`
	Quantity         int     `gorm:"not null" json:"quantity"`
	UnitCost         float64 `gorm:"not null" json:"unit_cost"`
	TotalCost        float64 `gorm:"not null" json:"total_cost"`
	ReceivedQuantity int     `gorm:"not null;default:0" json:"received_quantity"`
}

// TableName overrides the table name for Order
func (Order) TableName() string {
	return "purchase_orders"
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "purchase_order_items"
}

// IsReceived checks whether the order's stock has already come in
func (o *Order) IsReceived() bool {
	return o.Status == StatusReceived
}
