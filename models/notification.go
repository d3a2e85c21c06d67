package models

import "time"

// An in-app notification (request delivered, membership applied, ...).
type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	Type      string `gorm:"size:32"` // "request.delivered" | "membership.applied"
	Message   string `gorm:"type:text"`
	Read      bool   `gorm:"default:false"`
	CreatedAt time.Time
}
