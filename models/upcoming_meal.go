package models

import "time"

// A candidate meal in the crowd-voted pool. Same shape as Meal minus
// rating/review fields. No soft delete: the publish workflow consumes the row
// outright, so a meal lives in exactly one of the two tables.
type UpcomingMeal struct {
	ID          uint     `gorm:"primaryKey"`
	Title       string   `gorm:"not null"`
	Category    string   `gorm:"index"`
	Price       float64  `gorm:"not null;default:0"`
	Ingredients []string `gorm:"serializer:json"`
	Description string   `gorm:"type:text"`
	Image       string
	Distributor string
	LikeCount   int  `gorm:"not null;default:0"`
	AddedBy     uint `gorm:"not null;index"` // admin who proposed it
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// One row per (upcoming meal, user). Source of truth for UpcomingMeal.LikeCount.
type UpcomingMealLike struct {
	ID             uint `gorm:"primaryKey"`
	UpcomingMealID uint `gorm:"not null;uniqueIndex:idx_upcoming_likes_meal_user"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_upcoming_likes_meal_user"`
	CreatedAt      time.Time
}
