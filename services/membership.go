package services

import "backend/models"

// Capabilities a membership tier grants. CapabilitiesFor is the single source
// of gating truth: a new tier is added here and nowhere else.
type Capabilities struct {
	CanRequestMeal  bool `json:"can_request_meal"`
	CanLikeUpcoming bool `json:"can_like_upcoming"`
}

var tierCapabilities = map[models.MembershipTier]Capabilities{
	models.TierBronze:   {},
	models.TierSilver:   {CanRequestMeal: true, CanLikeUpcoming: true},
	models.TierGold:     {CanRequestMeal: true, CanLikeUpcoming: true},
	models.TierPlatinum: {CanRequestMeal: true, CanLikeUpcoming: true},
}

// CapabilitiesFor is pure and total: unknown tiers get no capabilities.
func CapabilitiesFor(tier models.MembershipTier) Capabilities {
	return tierCapabilities[tier]
}

// MembershipPackage is a purchasable plan shown on the pricing page. The
// actual charge happens out of band; the backend only consumes the confirmed
// payment event.
type MembershipPackage struct {
	Name  models.MembershipTier `json:"name"`
	Price float64               `json:"price"`
}

func MembershipPackages() []MembershipPackage {
	return []MembershipPackage{
		{Name: models.TierSilver, Price: 9.99},
		{Name: models.TierGold, Price: 19.99},
		{Name: models.TierPlatinum, Price: 29.99},
	}
}
