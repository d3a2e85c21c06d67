package models

import (
	"time"

	"gorm.io/gorm"
)

// A free-text review of a published meal. A user may review the same meal
// more than once. LikeCount mirrors ReviewLike rows.
type Review struct {
	gorm.Model
	MealID    uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Text      string `gorm:"type:text;not null"`
	LikeCount int    `gorm:"not null;default:0"`
}

type ReviewLike struct {
	ID        uint `gorm:"primaryKey"`
	ReviewID  uint `gorm:"not null;uniqueIndex:idx_review_likes_review_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_review_likes_review_user"`
	CreatedAt time.Time
}
