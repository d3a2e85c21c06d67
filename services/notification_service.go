package services

import (
	"errors"
	"fmt"

	"backend/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) ListUserNotifications(userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var notes []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

func (s *NotificationService) MarkRead(noteID, callerID uint) error {
	var note models.Notification
	if err := s.db.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification %d: %w", noteID, ErrNotFound)
		}
		return err
	}
	if note.UserID != callerID {
		return fmt.Errorf("notification %d belongs to another user: %w", noteID, ErrForbidden)
	}
	return s.db.Model(&note).Update("read", true).Error
}
