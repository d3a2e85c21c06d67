package models

import (
	"gorm.io/gorm"
)

type MembershipTier string

// Ordered tiers: bronze < silver < gold < platinum. Bronze is the free default.
const (
	TierBronze   MembershipTier = "bronze"
	TierSilver   MembershipTier = "silver"
	TierGold     MembershipTier = "gold"
	TierPlatinum MembershipTier = "platinum"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	gorm.Model
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null"`
	FullName       string
	ProfilePicture string
	Membership     MembershipTier `gorm:"size:16;not null;default:bronze"`
	Role           Role           `gorm:"size:16;not null;default:user"`
}

// ValidTier reports whether s names one of the four tiers.
func ValidTier(s string) bool {
	switch MembershipTier(s) {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}
