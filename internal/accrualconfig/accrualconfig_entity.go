package accrualconfig

import "time"

// AccrualConfig stores one versioned accrual policy as a JSON document.
// Exactly one version is active at a time; activation is manual.
type AccrualConfig struct {
	Version    string `gorm:"type:varchar(50);primaryKey"`
	ConfigJSON string `gorm:"type:jsonb;not null;column:config_json"`
	IsActive   bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AccrualConfig) TableName() string {
	return "accrual_configs"
}
