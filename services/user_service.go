package services

import (
	"errors"
	"fmt"
	"strings"

	"backend/models"
	"backend/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) RegisterUser(email, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required: %w", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      email,
		Password:   hashed,
		FullName:   fullName,
		Membership: models.TierBronze,
		Role:       models.RoleUser,
	}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email already registered: %w", ErrValidation)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

type ProfileInput struct {
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"` // final asset URL, already uploaded
}

func (s *UserService) UpdateProfile(userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.ProfilePicture != "" {
		user.ProfilePicture = in.ProfilePicture
	}
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// PromoteToAdmin grants the admin role. Admin-only; membership is never
// touched here, tiers change only through PaymentService.
func (s *UserService) PromoteToAdmin(targetID uint, callerRole models.Role) error {
	if callerRole != models.RoleAdmin {
		return fmt.Errorf("promoting users is admin-only: %w", ErrForbidden)
	}
	res := s.db.Model(&models.User{}).Where("id = ?", targetID).Update("role", models.RoleAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", targetID, ErrNotFound)
	}
	return nil
}

// ListUsers is the admin directory, filterable by name or email fragment.
func (s *UserService) ListUsers(search string, page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	q := s.db.Model(&models.User{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("email LIKE ? OR full_name LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	return users, total, err
}
