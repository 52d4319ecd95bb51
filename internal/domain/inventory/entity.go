// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "in"         // Purchase receipt, initial stock
	MovementTypeOut        MovementType = "out"        // Sale
	MovementTypeAdjustment MovementType = "adjustment" // Manual correction, damage, shrinkage
	MovementTypeReturn     MovementType = "return"     // Refund or voided sale restoring stock
)

// StockMovement is an append-only record of every stock mutation.
// The products table carries the authoritative counter; movements are
// the audit trail explaining how it got there.
type StockMovement struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ProductID     uint         `gorm:"not null;index" json:"product_id"`
	Type          MovementType `gorm:"not null;size:20" json:"type"`
	Quantity      int          `gorm:"not null" json:"quantity"`
	PreviousStock int          `gorm:"not null" json:"previous_stock"`
	NewStock      int          `gorm:"not null" json:"new_stock"`
	Reason        string       `gorm:"size:255" json:"reason"`
	ReferenceType string       `gorm:"size:50" json:"reference_type"` // "sale", "purchase", "manual"
	ReferenceID   *uint        `json:"reference_id,omitempty"`
	CreatedBy     *uint        `gorm:"index" json:"created_by,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TableName overrides the table name for StockMovement
func (StockMovement) TableName() string {
	return "stock_movements"
}
