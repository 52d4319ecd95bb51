// internal/domain/expense/entity.go
package expense

import (
	"time"

	"gorm.io/gorm"
)

// Expense is a cash outflow recorded against the store
type Expense struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Category      string         `gorm:"not null;size:100;index" json:"category"`
	Amount        float64        `gorm:"not null" json:"amount"`
	Description   string         `gorm:"size:500" json:"description"`
	ExpenseDate   time.Time      `gorm:"not null;index" json:"expense_date"`
	PaymentMethod string         `gorm:"size:20;default:'cash'" json:"payment_method"`
	CreatedBy     *uint          `gorm:"index" json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}
