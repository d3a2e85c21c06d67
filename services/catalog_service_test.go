package services

import (
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMealValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, nil)

	_, err := svc.CreateMeal(MealInput{Title: "   ", Price: 5})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateMeal(MealInput{Title: "Shorshe Ilish", Price: -1})
	assert.ErrorIs(t, err, ErrValidation)

	meal, err := svc.CreateMeal(MealInput{
		Title:       "  Shorshe Ilish ",
		Category:    "dinner",
		Price:       12.5,
		Ingredients: []string{"hilsa", "mustard", "green chili"},
		Distributor: "Block A Kitchen",
	})
	require.NoError(t, err)
	assert.Equal(t, "Shorshe Ilish", meal.Title)
	assert.Equal(t, []string{"hilsa", "mustard", "green chili"}, meal.Ingredients)
}

func TestGetMealWithoutCache(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, nil)
	seeded := seedMeal(t, db, "Panta Bhat")

	meal, err := svc.GetMeal(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Panta Bhat", meal.Title)
	assert.Equal(t, seeded.Ingredients, meal.Ingredients)

	_, err = svc.GetMeal(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMealsFilterAndSort(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, nil)

	mk := func(title, category string, price float64, likes int) {
		_, err := svc.CreateMeal(MealInput{Title: title, Category: category, Price: price})
		require.NoError(t, err)
		if likes > 0 {
			require.NoError(t, db.Model(&models.Meal{}).Where("title = ?", title).
				Update("like_count", likes).Error)
		}
	}
	mk("Dal Bhat", "lunch", 3.50, 1)
	mk("Kacchi Biryani", "dinner", 14.00, 9)
	mk("Chicken Biryani", "dinner", 11.00, 4)

	meals, total, err := svc.ListMeals(ListOptions{Search: "Biryani"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, meals, 2)

	meals, _, err = svc.ListMeals(ListOptions{Category: "dinner", SortKey: "price_asc"})
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Chicken Biryani", meals[0].Title)

	meals, _, err = svc.ListMeals(ListOptions{SortKey: "popular"})
	require.NoError(t, err)
	require.Len(t, meals, 3)
	assert.Equal(t, "Kacchi Biryani", meals[0].Title)

	meals, total, err = svc.ListMeals(ListOptions{Page: 1, PageSize: 2, SortKey: "price_desc"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, meals, 2)
	assert.Equal(t, "Kacchi Biryani", meals[0].Title)

	meals, _, err = svc.ListMeals(ListOptions{Page: 2, PageSize: 2, SortKey: "price_desc"})
	require.NoError(t, err)
	assert.Len(t, meals, 1)
}

func TestUpdateMeal(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, nil)
	seeded := seedMeal(t, db, "Alu Bhorta")

	updated, err := svc.UpdateMeal(seeded.ID, MealInput{
		Title:  "Alu Bhorta Deluxe",
		Price:  4.25,
		Rating: 4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alu Bhorta Deluxe", updated.Title)
	assert.Equal(t, 4.5, updated.Rating)

	_, err = svc.UpdateMeal(9999, MealInput{Title: "Ghost", Price: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMealCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, nil)
	engage := NewEngagementService(db, NewNotifyBus(db, nil, nil))
	reviews := NewReviewService(db)
	requests := NewRequestService(db, NewNotifyBus(db, nil, nil))

	user := seedUser(t, db, models.TierGold, models.RoleUser)
	meal := seedMeal(t, db, "Fuchka")

	_, err := engage.ToggleLike(meal.ID, user.ID, ScopePublished)
	require.NoError(t, err)
	review, err := reviews.CreateReview(meal.ID, user.ID, "street food king")
	require.NoError(t, err)
	_, err = engage.ToggleReviewLike(review.ID, user.ID)
	require.NoError(t, err)
	req, err := requests.CreateRequest(meal.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMeal(meal.ID))

	assert.EqualValues(t, 0, countRows(t, db, &models.MealLike{}, "meal_id = ?", meal.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.Review{}, "meal_id = ?", meal.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.ReviewLike{}, "review_id = ?", review.ID))
	// requests survive so the admin queue can see what they pointed at
	assert.EqualValues(t, 1, countRows(t, db, &models.MealRequest{}, "id = ?", req.ID))

	require.ErrorIs(t, svc.DeleteMeal(meal.ID), ErrNotFound)
}
