// internal/domain/settings/entity.go
package settings

import (
	"time"
)

// Setting is one key/value row of the persisted app configuration,
// edited from the back office at runtime (store name, receipt footer,
// tax rate overrides) as opposed to the env-driven boot config.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for Setting
func (Setting) TableName() string {
	return "app_settings"
}
