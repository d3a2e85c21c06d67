package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type UpcomingController struct {
	Upcoming *services.UpcomingService
	Publish  *services.PublishService
}

func NewUpcomingController(upcoming *services.UpcomingService, publish *services.PublishService) *UpcomingController {
	return &UpcomingController{Upcoming: upcoming, Publish: publish}
}

func (uc *UpcomingController) ListUpcoming(c *gin.Context) {
	meals, total, err := uc.Upcoming.ListUpcoming(queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals, "total": total})
}

// admin

func (uc *UpcomingController) CreateUpcoming(c *gin.Context) {
	var input services.UpcomingMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	up, err := uc.Upcoming.CreateUpcoming(c.GetUint("userID"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, up)
}

func (uc *UpcomingController) DeleteUpcoming(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := uc.Upcoming.DeleteUpcoming(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "upcoming meal removed"})
}

// PublishUpcoming promotes a candidate into the live catalog.
func (uc *UpcomingController) PublishUpcoming(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	meal, err := uc.Publish.Publish(id, callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meal_id": meal.ID, "meal": meal})
}

// Reconcile is a maintenance hook sweeping upcoming rows already promoted.
func (uc *UpcomingController) Reconcile(c *gin.Context) {
	removed, err := uc.Publish.ReconcileOrphans()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
