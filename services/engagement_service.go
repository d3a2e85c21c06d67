package services

import (
	"errors"
	"fmt"
	"time"

	"backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LikeScope string

const (
	ScopePublished LikeScope = "published"
	ScopeUpcoming  LikeScope = "upcoming"
)

// ToggleResult carries the caller's new like state and the meal's new count
// so the client can render without a second read.
type ToggleResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

// EngagementService implements the idempotent like toggle. The like row
// table is the source of truth; the denormalized counter moves inside the
// same transaction through SQL-level increments, never through a blind
// read-increment-write. The (meal, user) unique index arbitrates racing
// togglers across replicas, and predicate deletes make the loser of an
// unlike race fail cleanly instead of double-decrementing.
type EngagementService struct {
	db  *gorm.DB
	bus *NotifyBus
}

func NewEngagementService(db *gorm.DB, bus *NotifyBus) *EngagementService {
	return &EngagementService{db: db, bus: bus}
}

const toggleAttempts = 3

// errToggleRace marks a lost race with a concurrent toggle of the same
// (meal, user) pair; the operation is idempotent so it is safe to retry.
var errToggleRace = errors.New("toggle race lost")

// ToggleLike flips userID's membership in the meal's liker set. Published
// meals are open to any authenticated user; upcoming meals additionally
// require a tier with CanLikeUpcoming. The asymmetry is intentional.
func (s *EngagementService) ToggleLike(mealID, userID uint, scope LikeScope) (*ToggleResult, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	switch scope {
	case ScopePublished:
	case ScopeUpcoming:
		if !CapabilitiesFor(user.Membership).CanLikeUpcoming {
			return nil, fmt.Errorf("tier %s cannot like upcoming meals: %w", user.Membership, ErrMembershipRequired)
		}
	default:
		return nil, fmt.Errorf("unknown scope %q: %w", scope, ErrValidation)
	}

	res, err := s.toggleWithRetry(mealID, userID, scope)
	if err != nil {
		return nil, err
	}
	s.bus.EmitLikeCount(scope, mealID, res.Liked, res.Count)
	return res, nil
}

// toggleWithRetry retries lost races and transient store failures with
// backoff. Authorization and not-found failures surface immediately.
func (s *EngagementService) toggleWithRetry(mealID, userID uint, scope LikeScope) (*ToggleResult, error) {
	var lastErr error
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(25<<attempt) * time.Millisecond)
		}
		var res *ToggleResult
		var err error
		if scope == ScopeUpcoming {
			res, err = s.toggleUpcoming(mealID, userID)
		} else {
			res, err = s.togglePublished(mealID, userID)
		}
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		lastErr = err
		logrus.WithFields(logrus.Fields{
			"meal_id": mealID,
			"user_id": userID,
			"scope":   scope,
			"attempt": attempt + 1,
		}).Warnf("like toggle retry: %v", err)
	}
	return nil, fmt.Errorf("like toggle after %d attempts: %w (%v)", toggleAttempts, ErrConflict, lastErr)
}

func (s *EngagementService) togglePublished(mealID, userID uint) (*ToggleResult, error) {
	var res ToggleResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.First(&meal, mealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("meal %d: %w", mealID, ErrNotFound)
			}
			return err
		}

		var like models.MealLike
		err := tx.Where("meal_id = ? AND user_id = ?", mealID, userID).First(&like).Error
		switch {
		case err == nil:
			del := tx.Where("meal_id = ? AND user_id = ?", mealID, userID).Delete(&models.MealLike{})
			if del.Error != nil {
				return del.Error
			}
			if del.RowsAffected == 0 {
				return errToggleRace // a concurrent request unliked first
			}
			if err := tx.Model(&meal).Update("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
				return err
			}
			res.Liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.MealLike{MealID: mealID, UserID: userID}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errToggleRace // a concurrent request liked first
				}
				return err
			}
			if err := tx.Model(&meal).Update("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
			res.Liked = true
		default:
			return err
		}

		var fresh models.Meal
		if err := tx.Select("like_count").First(&fresh, mealID).Error; err != nil {
			return err
		}
		res.Count = fresh.LikeCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *EngagementService) toggleUpcoming(mealID, userID uint) (*ToggleResult, error) {
	var res ToggleResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var up models.UpcomingMeal
		if err := tx.First(&up, mealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("upcoming meal %d: %w", mealID, ErrNotFound)
			}
			return err
		}

		var like models.UpcomingMealLike
		err := tx.Where("upcoming_meal_id = ? AND user_id = ?", mealID, userID).First(&like).Error
		switch {
		case err == nil:
			del := tx.Where("upcoming_meal_id = ? AND user_id = ?", mealID, userID).Delete(&models.UpcomingMealLike{})
			if del.Error != nil {
				return del.Error
			}
			if del.RowsAffected == 0 {
				return errToggleRace
			}
			if err := tx.Model(&up).Update("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
				return err
			}
			res.Liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.UpcomingMealLike{UpcomingMealID: mealID, UserID: userID}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errToggleRace
				}
				return err
			}
			if err := tx.Model(&up).Update("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
			res.Liked = true
		default:
			return err
		}

		var fresh models.UpcomingMeal
		if err := tx.Select("like_count").First(&fresh, mealID).Error; err != nil {
			return err
		}
		res.Count = fresh.LikeCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ToggleReviewLike applies the same discipline to review likes. Open to any
// authenticated user.
func (s *EngagementService) ToggleReviewLike(reviewID, userID uint) (*ToggleResult, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	var res ToggleResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
			}
			return err
		}

		var like models.ReviewLike
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&like).Error
		switch {
		case err == nil:
			del := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).Delete(&models.ReviewLike{})
			if del.Error != nil {
				return del.Error
			}
			if del.RowsAffected == 0 {
				return errToggleRace
			}
			if err := tx.Model(&review).Update("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
				return err
			}
			res.Liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.ReviewLike{ReviewID: reviewID, UserID: userID}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errToggleRace
				}
				return err
			}
			if err := tx.Model(&review).Update("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
			res.Liked = true
		default:
			return err
		}

		var fresh models.Review
		if err := tx.Select("like_count").First(&fresh, reviewID).Error; err != nil {
			return err
		}
		res.Count = fresh.LikeCount
		return nil
	})
	if err != nil {
		if errors.Is(err, errToggleRace) {
			return nil, fmt.Errorf("review like toggle: %w", ErrConflict)
		}
		return nil, err
	}
	return &res, nil
}

// HasLiked reports whether userID currently likes the given meal.
func (s *EngagementService) HasLiked(mealID, userID uint, scope LikeScope) (bool, error) {
	var count int64
	var err error
	if scope == ScopeUpcoming {
		err = s.db.Model(&models.UpcomingMealLike{}).
			Where("upcoming_meal_id = ? AND user_id = ?", mealID, userID).Count(&count).Error
	} else {
		err = s.db.Model(&models.MealLike{}).
			Where("meal_id = ? AND user_id = ?", mealID, userID).Count(&count).Error
	}
	return count > 0, err
}
