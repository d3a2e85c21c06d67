package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type RequestController struct {
	Requests *services.RequestService
}

func NewRequestController(requests *services.RequestService) *RequestController {
	return &RequestController{Requests: requests}
}

type createRequestInput struct {
	MealID uint `json:"meal_id" binding:"required"`
}

func (rc *RequestController) CreateRequest(c *gin.Context) {
	var input createRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := rc.Requests.CreateRequest(input.MealID, c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (rc *RequestController) ListMyRequests(c *gin.Context) {
	reqs, err := rc.Requests.ListUserRequests(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (rc *RequestController) CancelRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := rc.Requests.CancelRequest(id, c.GetUint("userID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request cancelled"})
}

// admin

func (rc *RequestController) ListAllRequests(c *gin.Context) {
	reqs, total, err := rc.Requests.ListAllRequests(queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs, "total": total})
}

func (rc *RequestController) ServeRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := rc.Requests.MarkDelivered(id, callerRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request delivered"})
}
