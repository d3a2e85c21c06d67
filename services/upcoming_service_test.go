package services

import (
	"fmt"
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUpcoming(t *testing.T) {
	db := newTestDB(t)
	svc := NewUpcomingService(db)
	admin := seedUser(t, db, models.TierPlatinum, models.RoleAdmin)

	_, err := svc.CreateUpcoming(admin.ID, UpcomingMealInput{Title: " "})
	assert.ErrorIs(t, err, ErrValidation)

	up, err := svc.CreateUpcoming(admin.ID, UpcomingMealInput{
		Title:       "Mezban Beef",
		Category:    "dinner",
		Price:       16,
		Ingredients: []string{"beef", "mezban masala"},
	})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, up.AddedBy)
	assert.Equal(t, 0, up.LikeCount)

	got, err := svc.GetUpcoming(up.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mezban Beef", got.Title)

	_, err = svc.GetUpcoming(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUpcomingOrderedByLikes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUpcomingService(db)
	engage := NewEngagementService(db, NewNotifyBus(db, nil, nil))
	admin := seedUser(t, db, models.TierPlatinum, models.RoleAdmin)

	var ids []uint
	for i := 0; i < 3; i++ {
		up, err := svc.CreateUpcoming(admin.ID, UpcomingMealInput{Title: fmt.Sprintf("Candidate %d", i)})
		require.NoError(t, err)
		ids = append(ids, up.ID)
	}
	// the middle candidate collects the most votes
	for i := 0; i < 3; i++ {
		voter := seedUser(t, db, models.TierSilver, models.RoleUser)
		_, err := engage.ToggleLike(ids[1], voter.ID, ScopeUpcoming)
		require.NoError(t, err)
	}
	voter := seedUser(t, db, models.TierSilver, models.RoleUser)
	_, err := engage.ToggleLike(ids[2], voter.ID, ScopeUpcoming)
	require.NoError(t, err)

	meals, total, err := svc.ListUpcoming(1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, meals, 3)
	assert.Equal(t, ids[1], meals[0].ID)
	assert.Equal(t, ids[2], meals[1].ID)
}

func TestDeleteUpcomingCascadesLikes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUpcomingService(db)
	engage := NewEngagementService(db, NewNotifyBus(db, nil, nil))
	admin := seedUser(t, db, models.TierPlatinum, models.RoleAdmin)
	voter := seedUser(t, db, models.TierGold, models.RoleUser)

	up := seedUpcoming(t, db, "Patishapta", admin.ID)
	_, err := engage.ToggleLike(up.ID, voter.ID, ScopeUpcoming)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUpcoming(up.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.UpcomingMeal{}, "id = ?", up.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.UpcomingMealLike{}, "upcoming_meal_id = ?", up.ID))

	assert.ErrorIs(t, svc.DeleteUpcoming(up.ID), ErrNotFound)
}
