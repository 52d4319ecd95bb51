// internal/domain/user/entity.go
package user

import (
	"time"

	"gorm.io/gorm"
)

// Role represents what a staff member may do
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// User represents a staff member
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null;size:100" json:"username"`
	FullName     string         `gorm:"not null;size:255" json:"full_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	PINHash      string         `gorm:"column:pin_hash" json:"-"`
	Role         Role           `gorm:"not null;size:20;default:'cashier'" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// CashierSession is one register shift: opened with a counted float,
// closed with a counted drawer. Expected cash is opening amount plus
// cash sales taken during the shift; the difference against the count
// is recorded, never hidden.
type CashierSession struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	OpeningAmount  float64    `gorm:"not null" json:"opening_amount"`
	ClosingAmount  *float64   `json:"closing_amount,omitempty"`
	ExpectedAmount *float64   `json:"expected_amount,omitempty"`
	Difference     *float64   `json:"difference,omitempty"`
	OpenedAt       time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	Notes          string     `gorm:"size:500" json:"notes"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for CashierSession
func (CashierSession) TableName() string {
	return "cashier_sessions"
}

// IsAdmin checks whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsOpen checks whether the session is still running
func (s *CashierSession) IsOpen() bool {
	return s.ClosedAt == nil
}
