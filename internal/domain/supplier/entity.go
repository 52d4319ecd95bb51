// internal/domain/supplier/entity.go
package supplier

import (
	"time"
)

// Supplier represents a vendor the store buys stock from. Balance is
// what the store still owes; deactivation hides the supplier without
// breaking purchase order history.
type Supplier struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null;size:255;index" json:"name"`
	ContactPerson string    `gorm:"size:255" json:"contact_person"`
	Phone         string    `gorm:"size:50" json:"phone"`
	Email         string    `gorm:"size:255" json:"email"`
	Address       string    `gorm:"size:500" json:"address"`
	Balance       float64   `gorm:"not null;default:0" json:"balance"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}
