package services

import (
	"errors"
	"fmt"
	"strings"

	"backend/models"

	"gorm.io/gorm"
)

// ReviewService owns review rows and keeps the meal's reviews_count derived
// from them: the counter moves in the same transaction as every insert and
// delete, so it can never drift from the actual rows.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) CreateReview(mealID, userID uint, text string) (*models.Review, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("review text is required: %w", ErrValidation)
	}

	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.First(&meal, mealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("meal %d: %w", mealID, ErrNotFound)
			}
			return err
		}
		review = models.Review{MealID: mealID, UserID: userID, Text: text}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Model(&meal).Update("reviews_count", gorm.Expr("reviews_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) EditReview(reviewID, callerID uint, callerRole models.Role, text string) (*models.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("review text is required: %w", ErrValidation)
	}

	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
		}
		return nil, err
	}
	if review.UserID != callerID && callerRole != models.RoleAdmin {
		return nil, fmt.Errorf("review %d belongs to another user: %w", reviewID, ErrForbidden)
	}

	review.Text = text
	if err := s.db.Save(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) DeleteReview(reviewID, callerID uint, callerRole models.Role) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
			}
			return err
		}
		if review.UserID != callerID && callerRole != models.RoleAdmin {
			return fmt.Errorf("review %d belongs to another user: %w", reviewID, ErrForbidden)
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.ReviewLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Meal{}).Where("id = ?", review.MealID).
			Update("reviews_count", gorm.Expr("reviews_count - 1")).Error
	})
}

func (s *ReviewService) ListMealReviews(mealID uint, page, pageSize int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&models.Review{}).Where("meal_id = ?", mealID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := s.db.Where("meal_id = ?", mealID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

func (s *ReviewService) ListUserReviews(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}
