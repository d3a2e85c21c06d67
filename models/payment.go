package models

import "time"

// A confirmed payment event from the external provider. Immutable once
// recorded; the unique TransactionID makes replayed events detectable.
type Payment struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        uint    `gorm:"not null;index"`
	PackageName   string  `gorm:"size:16;not null"`
	Amount        float64 `gorm:"not null"`
	TransactionID string  `gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time
}
