package services

import (
	"errors"
	"fmt"
	"strings"

	"backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PaymentService applies confirmed external payment events to a user's
// membership. Idempotent on the provider transaction id: replays return
// ErrAlreadyApplied and change nothing. The tier is set to the purchased
// package unconditionally: buying a lower package over a higher tier
// downgrades, as the product currently behaves.
type PaymentService struct {
	db  *gorm.DB
	bus *NotifyBus
}

func NewPaymentService(db *gorm.DB, bus *NotifyBus) *PaymentService {
	return &PaymentService{db: db, bus: bus}
}

func (s *PaymentService) ApplyPayment(userID uint, packageName, transactionID string, amount float64) (*models.Payment, error) {
	packageName = strings.ToLower(strings.TrimSpace(packageName))
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("transaction id is required: %w", ErrValidation)
	}
	if !models.ValidTier(packageName) {
		return nil, fmt.Errorf("unknown package %q: %w", packageName, ErrValidation)
	}
	if amount < 0 {
		return nil, fmt.Errorf("amount must not be negative: %w", ErrValidation)
	}

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Payment
		err := tx.Where("transaction_id = ?", transactionID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("transaction %s: %w", transactionID, ErrAlreadyApplied)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", userID, ErrNotFound)
			}
			return err
		}

		payment = models.Payment{
			UserID:        userID,
			PackageName:   packageName,
			Amount:        amount,
			TransactionID: transactionID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			// Two replicas racing the same event: the unique index picks
			// the winner, the loser reports the replay.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("transaction %s: %w", transactionID, ErrAlreadyApplied)
			}
			return err
		}
		return tx.Model(&user).Update("membership", packageName).Error
	})
	if err != nil {
		return nil, err
	}

	s.bus.EmitMembershipApplied(userID, packageName)
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"package":        packageName,
		"transaction_id": transactionID,
	}).Info("membership payment applied")
	return &payment, nil
}

func (s *PaymentService) ListUserPayments(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}
