package services

import (
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := seedUser(t, db, models.TierBronze, models.RoleUser)
	meal := seedMeal(t, db, "Khichuri")

	review, err := svc.CreateReview(meal.ID, user.ID, "  comfort food at its best  ")
	require.NoError(t, err)
	assert.Equal(t, "comfort food at its best", review.Text)

	var fresh models.Meal
	require.NoError(t, db.First(&fresh, meal.ID).Error)
	assert.Equal(t, 1, fresh.ReviewsCount)

	// no uniqueness constraint: same user may review the meal again
	_, err = svc.CreateReview(meal.ID, user.ID, "still great")
	require.NoError(t, err)
	require.NoError(t, db.First(&fresh, meal.ID).Error)
	assert.Equal(t, 2, fresh.ReviewsCount)
	assert.EqualValues(t, 2, countRows(t, db, &models.Review{}, "meal_id = ?", meal.ID))
}

func TestCreateReviewFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := seedUser(t, db, models.TierBronze, models.RoleUser)
	meal := seedMeal(t, db, "Luchi")

	_, err := svc.CreateReview(meal.ID, 0, "nice")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.CreateReview(9999, user.ID, "nice")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateReview(meal.ID, user.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	var fresh models.Meal
	require.NoError(t, db.First(&fresh, meal.ID).Error)
	assert.Equal(t, 0, fresh.ReviewsCount)
}

func TestEditReviewOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	author := seedUser(t, db, models.TierBronze, models.RoleUser)
	stranger := seedUser(t, db, models.TierGold, models.RoleUser)
	meal := seedMeal(t, db, "Chingri Malai")

	review, err := svc.CreateReview(meal.ID, author.ID, "rich and creamy")
	require.NoError(t, err)

	_, err = svc.EditReview(review.ID, stranger.ID, models.RoleUser, "meh")
	assert.ErrorIs(t, err, ErrForbidden)

	edited, err := svc.EditReview(review.ID, author.ID, models.RoleUser, "rich, creamy, generous portion")
	require.NoError(t, err)
	assert.Equal(t, "rich, creamy, generous portion", edited.Text)

	// admins may edit anyone's review
	_, err = svc.EditReview(review.ID, stranger.ID, models.RoleAdmin, "moderated")
	require.NoError(t, err)

	_, err = svc.EditReview(9999, author.ID, models.RoleUser, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReviewKeepsCounterDerived(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	author := seedUser(t, db, models.TierBronze, models.RoleUser)
	stranger := seedUser(t, db, models.TierGold, models.RoleUser)
	meal := seedMeal(t, db, "Beguni")

	r1, err := svc.CreateReview(meal.ID, author.ID, "crispy")
	require.NoError(t, err)
	r2, err := svc.CreateReview(meal.ID, author.ID, "oily but worth it")
	require.NoError(t, err)

	err = svc.DeleteReview(r1.ID, stranger.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.DeleteReview(r1.ID, author.ID, models.RoleUser))
	// admin may delete any review
	require.NoError(t, svc.DeleteReview(r2.ID, stranger.ID, models.RoleAdmin))

	var fresh models.Meal
	require.NoError(t, db.First(&fresh, meal.ID).Error)
	assert.Equal(t, 0, fresh.ReviewsCount)
	assert.EqualValues(t, 0, countRows(t, db, &models.Review{}, "meal_id = ?", meal.ID))
}

func TestListReviews(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	a := seedUser(t, db, models.TierBronze, models.RoleUser)
	b := seedUser(t, db, models.TierBronze, models.RoleUser)
	meal := seedMeal(t, db, "Haleem")

	_, err := svc.CreateReview(meal.ID, a.ID, "hearty")
	require.NoError(t, err)
	_, err = svc.CreateReview(meal.ID, b.ID, "needs more lemon")
	require.NoError(t, err)

	reviews, total, err := svc.ListMealReviews(meal.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, reviews, 2)

	mine, err := svc.ListUserReviews(a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
