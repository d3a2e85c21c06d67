package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/models"
	"backend/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CatalogService owns the published-meal store: CRUD, paginated listing and
// a redis read-through cache. Counter fields are never touched here; likes
// go through EngagementService and review counts through ReviewService.
type CatalogService struct {
	db  *gorm.DB
	rdb *redis.Client // nil disables caching
}

func NewCatalogService(db *gorm.DB, rdb *redis.Client) *CatalogService {
	return &CatalogService{db: db, rdb: rdb}
}

type MealInput struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Ingredients []string `json:"ingredients"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Distributor string   `json:"distributor"`
	Rating      float64  `json:"rating"`
}

func (in *MealInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateMeal(in MealInput) (*models.Meal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	meal := &models.Meal{
		Title:       strings.TrimSpace(in.Title),
		Category:    in.Category,
		Price:       in.Price,
		Ingredients: in.Ingredients,
		Description: in.Description,
		Image:       in.Image,
		Distributor: in.Distributor,
		Rating:      in.Rating,
	}
	if err := s.db.Create(meal).Error; err != nil {
		return nil, err
	}
	s.invalidateLists()
	return meal, nil
}

func (s *CatalogService) GetMeal(id uint) (*models.Meal, error) {
	ctx := context.Background()
	key := mealCacheKey(id)

	var meal models.Meal
	if found, err := utils.GetCache(ctx, s.rdb, key, &meal); err == nil && found {
		return &meal, nil
	}

	if err := s.db.First(&meal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meal %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	_ = utils.SetCache(ctx, s.rdb, key, meal, 60*time.Second)
	return &meal, nil
}

// ListOptions are explicit query parameters; there is no ambient dashboard
// state. SortKey is one of "newest", "price_asc", "price_desc", "popular".
type ListOptions struct {
	Search   string
	Category string
	Page     int
	PageSize int
	SortKey  string
}

func (o *ListOptions) normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 || o.PageSize > 100 {
		o.PageSize = 20
	}
}

func orderClause(sortKey string) string {
	switch sortKey {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "popular":
		return "like_count DESC"
	default:
		return "created_at DESC"
	}
}

func (s *CatalogService) ListMeals(opts ListOptions) ([]models.Meal, int64, error) {
	opts.normalize()
	ctx := context.Background()

	// Only the unfiltered listing is cached; search results are too sparse
	// to be worth the invalidation bookkeeping.
	cacheable := opts.Search == "" && opts.Category == ""
	key := listCacheKey(opts)
	if cacheable {
		var cached struct {
			Meals []models.Meal `json:"meals"`
			Total int64         `json:"total"`
		}
		if found, err := utils.GetCache(ctx, s.rdb, key, &cached); err == nil && found {
			return cached.Meals, cached.Total, nil
		}
	}

	q := s.db.Model(&models.Meal{})
	if opts.Search != "" {
		q = q.Where("title LIKE ?", "%"+opts.Search+"%")
	}
	if opts.Category != "" {
		q = q.Where("category = ?", opts.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meals []models.Meal
	err := q.Order(orderClause(opts.SortKey)).
		Offset((opts.Page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&meals).Error
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		_ = utils.SetCache(ctx, s.rdb, key, struct {
			Meals []models.Meal `json:"meals"`
			Total int64         `json:"total"`
		}{meals, total}, 60*time.Second)
	}
	return meals, total, nil
}

func (s *CatalogService) UpdateMeal(id uint, in MealInput) (*models.Meal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var meal models.Meal
	if err := s.db.First(&meal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meal %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	meal.Title = strings.TrimSpace(in.Title)
	meal.Category = in.Category
	meal.Price = in.Price
	meal.Ingredients = in.Ingredients
	meal.Description = in.Description
	meal.Image = in.Image
	meal.Distributor = in.Distributor
	meal.Rating = in.Rating
	if err := s.db.Save(&meal).Error; err != nil {
		return nil, err
	}
	s.invalidateMeal(id)
	return &meal, nil
}

// DeleteMeal removes a meal and its dependent rows. Requests are retained:
// delivered ones are history, pending ones surface the missing meal to the
// admin queue instead of silently vanishing.
func (s *CatalogService) DeleteMeal(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.First(&meal, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("meal %d: %w", id, ErrNotFound)
			}
			return err
		}
		if err := tx.Where("meal_id = ?", id).Delete(&models.MealLike{}).Error; err != nil {
			return err
		}
		var reviewIDs []uint
		if err := tx.Model(&models.Review{}).Where("meal_id = ?", id).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.ReviewLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("meal_id = ?", id).Delete(&models.Review{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&meal).Error
	})
	if err != nil {
		return err
	}
	s.invalidateMeal(id)
	return nil
}

func mealCacheKey(id uint) string {
	return fmt.Sprintf("meal:%d", id)
}

func listCacheKey(opts ListOptions) string {
	return fmt.Sprintf("meals:page:%d:size:%d:sort:%s", opts.Page, opts.PageSize, opts.SortKey)
}

var listSortKeys = []string{"newest", "price_asc", "price_desc", "popular"}

func (s *CatalogService) invalidateMeal(id uint) {
	ctx := context.Background()
	_ = utils.DeleteCache(ctx, s.rdb, mealCacheKey(id))
	s.invalidateLists()
}

// invalidateLists drops the first few pages of every cached sort order.
// Deeper pages age out on their own within the cache TTL.
func (s *CatalogService) invalidateLists() {
	ctx := context.Background()
	for _, sort := range listSortKeys {
		for page := 1; page <= 5; page++ {
			_ = utils.DeleteCache(ctx, s.rdb, listCacheKey(ListOptions{Page: page, PageSize: 20, SortKey: sort}))
		}
	}
}
