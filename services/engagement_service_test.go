package services

import (
	"sync"
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikePublished(t *testing.T) {
	db := newTestDB(t)
	svc := NewEngagementService(db, nil)
	user := seedUser(t, db, models.TierBronze, models.RoleUser) // published likes are ungated
	meal := seedMeal(t, db, "Dal Bhat")

	res, err := svc.ToggleLike(meal.ID, user.ID, ScopePublished)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Count)
	assert.EqualValues(t, 1, countRows(t, db, &models.MealLike{}, "meal_id = ?", meal.ID))

	res, err = svc.ToggleLike(meal.ID, user.ID, ScopePublished)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.Count)
	assert.EqualValues(t, 0, countRows(t, db, &models.MealLike{}, "meal_id = ?", meal.ID))
}

// Final liked state equals (number of calls) mod 2, and the counter equals
// the row count after every single call.
func TestToggleLikeParity(t *testing.T) {
	db := newTestDB(t)
	svc := NewEngagementService(db, nil)
	user := seedUser(t, db, models.TierGold, models.RoleUser)
	meal := seedMeal(t, db, "Veg Curry")

	var last *ToggleResult
	for i := 1; i <= 5; i++ {
		res, err := svc.ToggleLike(meal.ID, user.ID, ScopePublished)
		require.NoError(t, err)
		last = res

		var fresh models.Meal
		require.NoError(t, db.First(&fresh, meal.ID).Error)
		rows := countRows(t, db, &models.MealLike{}, "meal_id = ?", meal.ID)
		assert.EqualValues(t, rows, fresh.LikeCount, "after call %d", i)
		assert.Equal(t, i%2 == 1, res.Liked, "after call %d", i)
	}
	assert.True(t, last.Liked)
	assert.Equal(t, 1, last.Count)
}

func TestToggleLikeUpcomingGating(t *testing.T) {
	db := newTestDB(t)
	svc := NewEngagementService(db, nil)
	bronze := seedUser(t, db, models.TierBronze, models.RoleUser)
	silver := seedUser(t, db, models.TierSilver, models.RoleUser)
	up := seedUpcoming(t, db, "Biryani Night", 1)

	_, err := svc.ToggleLike(up.ID, bronze.ID, ScopeUpcoming)
	assert.ErrorIs(t, err, ErrMembershipRequired)
	assert.EqualValues(t, 0, countRows(t, db, &models.UpcomingMealLike{}, "upcoming_meal_id = ?", up.ID))

	res, err := svc.ToggleLike(up.ID, silver.ID, ScopeUpcoming)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Count)
}

func TestToggleLikeFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewEngagementService(db, nil)
	user := seedUser(t, db, models.TierGold, models.RoleUser)
	meal := seedMeal(t, db, "Khichuri")

	_, err := svc.ToggleLike(meal.ID, 0, ScopePublished)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ToggleLike(9999, user.ID, ScopePublished)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ToggleLike(9999, user.ID, ScopeUpcoming)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ToggleLike(meal.ID, user.ID, LikeScope("archived"))
	assert.ErrorIs(t, err, ErrValidation)
}

// N distinct first-time likers must all land: no lost updates.
func TestToggleLikeConcurrentUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewEngagementService(db, nil)
	meal := seedMeal(t, db, "Fried Rice")

	const n = 50
	users := make([]*models.User, n)
	for i := range users {
		users[i] = seedUser(t, db, models.TierSilver, models.RoleUser)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = svc.ToggleLike(meal.ID, userID, ScopePublished)
		}(i, u.ID)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "liker %d", i)
	}

	var fresh models.Meal
	require.NoError(t, db.First(&fresh, meal.ID).Error)
	assert.Equal(t, n, fresh.LikeCount)
	assert.EqualValues(t, n, countRows(t, db, &models.MealLike{}, "meal_id = ?", meal.ID))
}

func TestToggleReviewLike(t *testing.T) {
	db := newTestDB(t)
	engagement := NewEngagementService(db, nil)
	reviews := NewReviewService(db)
	author := seedUser(t, db, models.TierGold, models.RoleUser)
	liker := seedUser(t, db, models.TierBronze, models.RoleUser)
	meal := seedMeal(t, db, "Paratha")

	review, err := reviews.CreateReview(meal.ID, author.ID, "crispy and warm")
	require.NoError(t, err)

	res, err := engagement.ToggleReviewLike(review.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Count)

	res, err = engagement.ToggleReviewLike(review.ID, liker.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.Count)

	_, err = engagement.ToggleReviewLike(9999, liker.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHasLiked(t *testing.T) {
	db := newTestDB(t)
	svc := NewEngagementService(db, nil)
	user := seedUser(t, db, models.TierSilver, models.RoleUser)
	meal := seedMeal(t, db, "Momo")

	liked, err := svc.HasLiked(meal.ID, user.ID, ScopePublished)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = svc.ToggleLike(meal.ID, user.ID, ScopePublished)
	require.NoError(t, err)

	liked, err = svc.HasLiked(meal.ID, user.ID, ScopePublished)
	require.NoError(t, err)
	assert.True(t, liked)
}
