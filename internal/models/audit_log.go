package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`           // Nullable for failed logins
	Action    string    `gorm:"size:50;not null" json:"action"` // e.g., "LOGIN", "CONVERT_LINK", "DELETE_LINK"
	EntityID  string    `gorm:"size:50" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"` // JSON
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"-" json:"-"`
	Client    string    `gorm:"size:150" json:"client"`
	Country   string    `gorm:"size:100;default:'Unknown'" json:"country"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}

// All returns every persisted model, in dependency order.
func All() []interface{} {
	return []interface{}{&User{}, &Link{}, &CustomLink{}, &AuditLog{}}
}
