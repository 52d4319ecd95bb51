// internal/domain/customer/entity.go
package customer

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType represents a ledger entry direction
type TransactionType string

const (
	TransactionTypeDebt    TransactionType = "debt"    // Sale on credit
	TransactionTypePayment TransactionType = "payment" // Paying off debt
)

// Customer represents a known buyer with optional store credit
type Customer struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FullName      string         `gorm:"not null;size:255" json:"full_name"`
	Phone         string         `gorm:"size:30" json:"phone"`
	Email         string         `gorm:"size:255" json:"email"`
	Address       string         `gorm:"size:500" json:"address"`
	LoyaltyPoints int            `gorm:"default:0" json:"loyalty_points"`
	TotalDebt     float64        `gorm:"default:0" json:"total_debt"`
	Notes         string         `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"transactions,omitempty"`
}

// Transaction is one entry in a customer's credit ledger
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerID    uint            `gorm:"not null;index" json:"customer_id"`
	Type          TransactionType `gorm:"not null;size:20" json:"type"`
	Amount        float64         `gorm:"not null" json:"amount"`
	BalanceAfter  float64         `gorm:"not null" json:"balance_after"`
	ReferenceType string          `gorm:"size:50" json:"reference_type"` // "sale", "payment"
	ReferenceID   *uint           `json:"reference_id,omitempty"`
	Description   string          `gorm:"size:255" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName overrides the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// TableName overrides the table name for Transaction
func (Transaction) TableName() string {
	return "customer_transactions"
}

// HasDebt checks whether the customer owes the store money
func (c *Customer) HasDebt() bool {
	return c.TotalDebt > 0
}
