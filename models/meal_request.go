package models

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestDelivered RequestStatus = "delivered"
)

// A user's delivery request for a published meal. pending is the only
// non-terminal state: admins advance pending→delivered (row retained for
// history), owners cancel pending requests (row deleted, no tombstone,
// hence no stored "cancelled" status and no soft delete on this table).
type MealRequest struct {
	ID        uint          `gorm:"primaryKey"`
	MealID    uint          `gorm:"not null;index"`
	UserID    uint          `gorm:"not null;index"`
	Status    RequestStatus `gorm:"size:16;not null;default:pending"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
