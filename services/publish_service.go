package services

import (
	"errors"
	"fmt"

	"backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PublishService promotes an upcoming meal into the published catalog. The
// insert and the delete happen in one transaction so a meal can never exist
// in both stores or in neither. The like history moves with it: count and
// liker rows together, keeping likes == |likedBy| across the promotion.
type PublishService struct {
	db *gorm.DB
}

func NewPublishService(db *gorm.DB) *PublishService {
	return &PublishService{db: db}
}

func (s *PublishService) Publish(upcomingID uint, callerRole models.Role) (*models.Meal, error) {
	if callerRole != models.RoleAdmin {
		return nil, fmt.Errorf("publishing is admin-only: %w", ErrForbidden)
	}

	var meal models.Meal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var up models.UpcomingMeal
		if err := tx.First(&up, upcomingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("upcoming meal %d: %w", upcomingID, ErrNotFound)
			}
			return err
		}

		sourceID := up.ID
		meal = models.Meal{
			Title:            up.Title,
			Category:         up.Category,
			Price:            up.Price,
			Ingredients:      up.Ingredients,
			Description:      up.Description,
			Image:            up.Image,
			Distributor:      up.Distributor,
			Rating:           0,
			ReviewsCount:     0,
			LikeCount:        up.LikeCount,
			SourceUpcomingID: &sourceID,
		}
		if err := tx.Create(&meal).Error; err != nil {
			return err
		}

		var likes []models.UpcomingMealLike
		if err := tx.Where("upcoming_meal_id = ?", up.ID).Find(&likes).Error; err != nil {
			return err
		}
		for _, l := range likes {
			if err := tx.Create(&models.MealLike{MealID: meal.ID, UserID: l.UserID}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("upcoming_meal_id = ?", up.ID).Delete(&models.UpcomingMealLike{}).Error; err != nil {
			return err
		}
		// A concurrent publish of the same candidate loses here and rolls
		// back its insert, so the meal lands in the catalog exactly once.
		res := tx.Where("id = ?", up.ID).Delete(&models.UpcomingMeal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("upcoming meal %d already published: %w", upcomingID, ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"upcoming_id": upcomingID,
		"meal_id":     meal.ID,
		"likes":       meal.LikeCount,
	}).Info("upcoming meal published")
	return &meal, nil
}

// ReconcileOrphans deletes upcoming rows that already exist in the catalog.
// With a single transactional store the publish path cannot strand one, but
// the sweep makes recovery safe if the stores are ever split and a crash
// lands between the insert and the delete.
func (s *PublishService) ReconcileOrphans() (int, error) {
	var orphanIDs []uint
	err := s.db.Model(&models.Meal{}).
		Where("source_upcoming_id IS NOT NULL").
		Pluck("source_upcoming_id", &orphanIDs).Error
	if err != nil {
		return 0, err
	}
	if len(orphanIDs) == 0 {
		return 0, nil
	}

	removed := 0
	for _, id := range orphanIDs {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("id = ?", id).Delete(&models.UpcomingMeal{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil // already gone, the normal case
			}
			removed++
			return tx.Where("upcoming_meal_id = ?", id).Delete(&models.UpcomingMealLike{}).Error
		})
		if err != nil {
			return removed, err
		}
	}
	if removed > 0 {
		logrus.WithField("removed", removed).Warn("reconciled orphaned upcoming meals")
	}
	return removed, nil
}
