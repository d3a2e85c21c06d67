package models

import (
	"time"

	"gorm.io/gorm"
)

// A published catalog meal. LikeCount and ReviewsCount are denormalized from
// MealLike/Review rows and change only inside the same transaction as the row
// they mirror. Rating is admin-set; it is not derived from reviews.
type Meal struct {
	gorm.Model
	Title            string   `gorm:"not null"`
	Category         string   `gorm:"index"`
	Price            float64  `gorm:"not null;default:0"`
	Ingredients      []string `gorm:"serializer:json"`
	Description      string   `gorm:"type:text"`
	Image            string   // opaque asset URL, not fetched or validated here
	Distributor      string
	Rating           float64
	LikeCount        int   `gorm:"not null;default:0"`
	ReviewsCount     int   `gorm:"not null;default:0"`
	SourceUpcomingID *uint `gorm:"index"` // set when promoted from the upcoming pool
}

// One row per (meal, user). Source of truth for Meal.LikeCount.
type MealLike struct {
	ID        uint `gorm:"primaryKey"`
	MealID    uint `gorm:"not null;uniqueIndex:idx_meal_likes_meal_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_meal_likes_meal_user"`
	CreatedAt time.Time
}
