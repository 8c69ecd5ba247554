package models

import "time"

// Employee is the identity record upserted on every successful SSO callback
// or password registration. Rows are never deleted by the application.
type Employee struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:320;not null;uniqueIndex" json:"email"`
	DisplayName    string    `gorm:"size:200;not null" json:"display_name"`
	PasswordHash   string    `gorm:"size:100" json:"-"`
	Status         string    `gorm:"size:20;not null;default:'active'" json:"status"`
	Department     string    `gorm:"size:100" json:"department,omitempty"`
	ExternalTenant string    `gorm:"size:120" json:"external_tenant,omitempty"`
	CreatedAtUTC   time.Time `gorm:"column:created_at_utc;autoCreateTime" json:"created_at_utc"`
	UpdatedAtUTC   time.Time `gorm:"column:updated_at_utc;autoUpdateTime" json:"updated_at_utc"`
}

func (Employee) TableName() string { return "employees" }
