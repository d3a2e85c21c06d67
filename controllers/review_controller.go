package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

func (rc *ReviewController) ListMealReviews(c *gin.Context) {
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviews, total, err := rc.Reviews.ListMealReviews(mealID, queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "total": total})
}

func (rc *ReviewController) ListMyReviews(c *gin.Context) {
	reviews, err := rc.Reviews.ListUserReviews(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type reviewInput struct {
	Text string `json:"text" binding:"required"`
}

func (rc *ReviewController) CreateReview(c *gin.Context) {
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input reviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review, err := rc.Reviews.CreateReview(mealID, c.GetUint("userID"), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (rc *ReviewController) EditReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input reviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review, err := rc.Reviews.EditReview(id, c.GetUint("userID"), callerRole(c), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (rc *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := rc.Reviews.DeleteReview(id, c.GetUint("userID"), callerRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
