package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(ns *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: ns}
}

func (nc *NotificationController) ListMine(c *gin.Context) {
	notes, err := nc.Notifications.ListUserNotifications(c.GetUint("userID"), queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := nc.Notifications.MarkRead(id, c.GetUint("userID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}
