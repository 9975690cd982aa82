package models

import (
	"time"
)

type Link struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OriginalLink  string    `gorm:"not null;type:text" json:"original_link"`
	ConvertedLink string    `gorm:"not null;type:text" json:"converted_link"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Link) TableName() string {
	return "links"
}

// CustomLink is a user chosen alias. Aliases are unique per owner only.
type CustomLink struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_custom_links_user_alias" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OriginalLink string    `gorm:"not null;type:text" json:"original_link"`
	CustomLink   string    `gorm:"not null;size:64;uniqueIndex:idx_custom_links_user_alias" json:"custom_link"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CustomLink) TableName() string {
	return "custom_links"
}
