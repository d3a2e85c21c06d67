package services

import (
	"errors"
	"fmt"

	"backend/models"
	"backend/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequestService drives the meal-request state machine:
// pending → delivered (admin) | cancelled (owner, row removed).
// Transitions use predicate updates (WHERE status = 'pending') so concurrent
// replicas agree on exactly one winner without an in-process lock. Creation
// is not idempotent and is never silently retried.
type RequestService struct {
	db  *gorm.DB
	bus *NotifyBus
}

func NewRequestService(db *gorm.DB, bus *NotifyBus) *RequestService {
	return &RequestService{db: db, bus: bus}
}

func (s *RequestService) CreateRequest(mealID, userID uint) (*models.MealRequest, error) {
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
	if !CapabilitiesFor(user.Membership).CanRequestMeal {
		return nil, fmt.Errorf("tier %s cannot request meals: %w", user.Membership, ErrMembershipRequired)
	}

	var meal models.Meal
	if err := s.db.First(&meal, mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meal %d: %w", mealID, ErrNotFound)
		}
		return nil, err
	}

	req := &models.MealRequest{MealID: mealID, UserID: userID, Status: models.RequestPending}
	if err := s.db.Create(req).Error; err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"meal_id":    mealID,
		"user_id":    userID,
	}).Info("meal request created")
	return req, nil
}

// CancelRequest removes a pending request owned by callerID. Cancelled
// requests leave no tombstone.
func (s *RequestService) CancelRequest(requestID, callerID uint) error {
	var req models.MealRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("request %d: %w", requestID, ErrNotFound)
		}
		return err
	}
	if req.UserID != callerID {
		return fmt.Errorf("request %d belongs to another user: %w", requestID, ErrForbidden)
	}
	if req.Status != models.RequestPending {
		return fmt.Errorf("request %d is %s: %w", requestID, req.Status, ErrInvalidState)
	}

	// The status predicate makes the delete lose cleanly against a
	// concurrent MarkDelivered.
	res := s.db.Where("id = ? AND status = ?", requestID, models.RequestPending).
		Delete(&models.MealRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request %d already advanced: %w", requestID, ErrInvalidState)
	}
	logrus.WithField("request_id", requestID).Info("meal request cancelled")
	return nil
}

// MarkDelivered advances a pending request to its terminal delivered state.
func (s *RequestService) MarkDelivered(requestID uint, callerRole models.Role) error {
	if callerRole != models.RoleAdmin {
		return fmt.Errorf("serving requests is admin-only: %w", ErrForbidden)
	}

	var req models.MealRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("request %d: %w", requestID, ErrNotFound)
		}
		return err
	}
	if req.Status != models.RequestPending {
		return fmt.Errorf("request %d is %s: %w", requestID, req.Status, ErrInvalidState)
	}

	res := s.db.Model(&models.MealRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Update("status", models.RequestDelivered)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request %d already advanced: %w", requestID, ErrInvalidState)
	}

	var meal models.Meal
	title := ""
	if err := s.db.First(&meal, req.MealID).Error; err == nil {
		title = meal.Title
	}
	s.bus.EmitRequestDelivered(req.UserID, requestID, title)

	var user models.User
	if err := s.db.First(&user, req.UserID).Error; err == nil {
		if merr := utils.SendDeliveryEmail(user.Email, title); merr != nil {
			logrus.WithField("request_id", requestID).Debugf("delivery email skipped: %v", merr)
		}
	}
	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    req.UserID,
	}).Info("meal request delivered")
	return nil
}

func (s *RequestService) ListUserRequests(userID uint) ([]models.MealRequest, error) {
	var reqs []models.MealRequest
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// ListAllRequests is the admin serving queue, oldest pending first.
func (s *RequestService) ListAllRequests(page, pageSize int) ([]models.MealRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&models.MealRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []models.MealRequest
	err := s.db.Order("status DESC, created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reqs).Error
	return reqs, total, err
}
