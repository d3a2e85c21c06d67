package services

import (
	"errors"
	"fmt"
	"strings"

	"backend/models"

	"gorm.io/gorm"
)

// UpcomingService owns the candidate-meal pool. Rows leave this store only
// through an admin delete or through PublishService.
type UpcomingService struct {
	db *gorm.DB
}

func NewUpcomingService(db *gorm.DB) *UpcomingService {
	return &UpcomingService{db: db}
}

type UpcomingMealInput struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Ingredients []string `json:"ingredients"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Distributor string   `json:"distributor"`
}

func (s *UpcomingService) CreateUpcoming(addedBy uint, in UpcomingMealInput) (*models.UpcomingMeal, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	up := &models.UpcomingMeal{
		Title:       strings.TrimSpace(in.Title),
		Category:    in.Category,
		Price:       in.Price,
		Ingredients: in.Ingredients,
		Description: in.Description,
		Image:       in.Image,
		Distributor: in.Distributor,
		AddedBy:     addedBy,
	}
	if err := s.db.Create(up).Error; err != nil {
		return nil, err
	}
	return up, nil
}

func (s *UpcomingService) GetUpcoming(id uint) (*models.UpcomingMeal, error) {
	var up models.UpcomingMeal
	if err := s.db.First(&up, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("upcoming meal %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &up, nil
}

// ListUpcoming returns candidates most-liked first, the order the publish
// decision is made in.
func (s *UpcomingService) ListUpcoming(page, pageSize int) ([]models.UpcomingMeal, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&models.UpcomingMeal{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meals []models.UpcomingMeal
	err := s.db.Order("like_count DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&meals).Error
	return meals, total, err
}

func (s *UpcomingService) DeleteUpcoming(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var up models.UpcomingMeal
		if err := tx.First(&up, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("upcoming meal %d: %w", id, ErrNotFound)
			}
			return err
		}
		if err := tx.Where("upcoming_meal_id = ?", id).Delete(&models.UpcomingMealLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&up).Error
	})
}
