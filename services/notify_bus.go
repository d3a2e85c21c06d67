package services

import (
	"fmt"

	"backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotifyBus fans domain events out to the realtime hub, the push service and
// the notifications table. Every sink is optional, and a nil bus is a no-op,
// so core services stay testable without any of the collaborators wired.
type NotifyBus struct {
	db   *gorm.DB
	hub  *RealtimeHub
	push *PushService
}

func NewNotifyBus(db *gorm.DB, hub *RealtimeHub, push *PushService) *NotifyBus {
	return &NotifyBus{db: db, hub: hub, push: push}
}

// EmitLikeCount publishes the new like count on the meal's engagement feed.
func (b *NotifyBus) EmitLikeCount(scope LikeScope, mealID uint, liked bool, count int) {
	if b == nil || b.hub == nil {
		return
	}
	b.hub.Broadcast(MealTopic(scope, mealID), map[string]any{
		"kind":    "engagement.like",
		"meal_id": mealID,
		"scope":   scope,
		"liked":   liked,
		"count":   count,
	})
}

// EmitRequestDelivered records a notification for the requester and pushes it
// to their devices.
func (b *NotifyBus) EmitRequestDelivered(userID, requestID uint, mealTitle string) {
	if b == nil {
		return
	}
	msg := fmt.Sprintf("Your meal %q has been delivered.", mealTitle)
	b.emit(userID, "request.delivered", msg, map[string]string{
		"request_id": fmt.Sprintf("%d", requestID),
	})
}

// EmitMembershipApplied records a notification after a payment upgrades the
// user's tier.
func (b *NotifyBus) EmitMembershipApplied(userID uint, pkg string) {
	if b == nil {
		return
	}
	msg := fmt.Sprintf("Your %s membership is now active.", pkg)
	b.emit(userID, "membership.applied", msg, map[string]string{"package": pkg})
}

func (b *NotifyBus) emit(userID uint, typ, message string, data map[string]string) {
	if b.db != nil {
		n := &models.Notification{UserID: userID, Type: typ, Message: message}
		if err := b.db.Create(n).Error; err != nil {
			logrus.WithField("user_id", userID).Warnf("notification insert failed: %v", err)
		}
	}
	if b.hub != nil {
		b.hub.Broadcast(UserTopic(userID), map[string]any{
			"kind":    typ,
			"message": message,
		})
	}
	if b.push != nil {
		b.push.PushToUser(userID, "Hostel Dining", message, data)
	}
}
