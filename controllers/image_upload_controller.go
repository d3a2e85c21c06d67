package controllers

import (
	"net/http"

	"backend/utils"

	"github.com/gin-gonic/gin"
)

type UploadImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// UploadMealImage stores an image and returns its URL. Callers attach the
// URL to a meal or upcoming meal; the backend never reads it back.
func UploadMealImage(c *gin.Context) {
	var req UploadImageRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	url, err := utils.UploadBase64Image(req.ImageBase64, "meal-images")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
