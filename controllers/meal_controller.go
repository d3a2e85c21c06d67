package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Catalog *services.CatalogService
	Reviews *services.ReviewService
}

func NewMealController(catalog *services.CatalogService, reviews *services.ReviewService) *MealController {
	return &MealController{Catalog: catalog, Reviews: reviews}
}

func (mc *MealController) ListMeals(c *gin.Context) {
	meals, total, err := mc.Catalog.ListMeals(services.ListOptions{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
		SortKey:  c.Query("sort"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals, "total": total})
}

func (mc *MealController) GetMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	meal, err := mc.Catalog.GetMeal(id)
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, _, err := mc.Reviews.ListMealReviews(id, 1, 20)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal": meal, "reviews": reviews})
}

// admin

func (mc *MealController) CreateMeal(c *gin.Context) {
	var input services.MealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meal, err := mc.Catalog.CreateMeal(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (mc *MealController) UpdateMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.MealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meal, err := mc.Catalog.UpdateMeal(id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) DeleteMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := mc.Catalog.DeleteMeal(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}
