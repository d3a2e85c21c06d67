package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type LikeController struct {
	Engagement *services.EngagementService
}

func NewLikeController(engagement *services.EngagementService) *LikeController {
	return &LikeController{Engagement: engagement}
}

func (lc *LikeController) ToggleMealLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := lc.Engagement.ToggleLike(id, c.GetUint("userID"), services.ScopePublished)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (lc *LikeController) ToggleUpcomingLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := lc.Engagement.ToggleLike(id, c.GetUint("userID"), services.ScopeUpcoming)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (lc *LikeController) ToggleReviewLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := lc.Engagement.ToggleReviewLike(id, c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
