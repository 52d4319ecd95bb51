// internal/domain/audit/entity.go
package audit

import (
	"time"
)

// Action represents the kind of change recorded
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionReceive Action = "receive"
	ActionLogin   Action = "login"
	ActionLogout  Action = "logout"
)

// Entity names the table a log row refers to
type Entity string

const (
	EntityProduct       Entity = "product"
	EntitySale          Entity = "sale"
	EntityCustomer      Entity = "customer"
	EntitySupplier      Entity = "supplier"
	EntityPurchaseOrder Entity = "purchase_order"
	EntityExpense       Entity = "expense"
	EntityUser          Entity = "user"
	EntitySession       Entity = "session"
	EntitySetting       Entity = "setting"
)

// Log is one immutable audit trail row
type Log struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	Action     Action    `gorm:"not null;size:30;index" json:"action"`
	EntityType Entity    `gorm:"not null;size:30;index" json:"entity_type"`
	EntityID   uint      `gorm:"index" json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name for Log
func (Log) TableName() string {
	return "audit_logs"
}
