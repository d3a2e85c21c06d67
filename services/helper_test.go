package services

import (
	"fmt"
	"testing"

	"backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. A single connection
// keeps the memory store alive and serializes transactions the way the
// production store's row-level concurrency control would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.MealLike{},
		&models.UpcomingMeal{},
		&models.UpcomingMealLike{},
		&models.MealRequest{},
		&models.Review{},
		&models.ReviewLike{},
		&models.Payment{},
		&models.UserDevice{},
		&models.Notification{},
	))
	return db
}

var seedSeq int

func seedUser(t *testing.T, db *gorm.DB, tier models.MembershipTier, role models.Role) *models.User {
	t.Helper()
	seedSeq++
	u := &models.User{
		Email:      fmt.Sprintf("user%d@test.local", seedSeq),
		Password:   "hashed",
		FullName:   fmt.Sprintf("User %d", seedSeq),
		Membership: tier,
		Role:       role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedMeal(t *testing.T, db *gorm.DB, title string) *models.Meal {
	t.Helper()
	m := &models.Meal{
		Title:       title,
		Category:    "lunch",
		Price:       7.5,
		Ingredients: []string{"rice", "lentils"},
		Distributor: "Main Kitchen",
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedUpcoming(t *testing.T, db *gorm.DB, title string, addedBy uint) *models.UpcomingMeal {
	t.Helper()
	m := &models.UpcomingMeal{
		Title:       title,
		Category:    "dinner",
		Price:       9.25,
		Ingredients: []string{"chicken", "spices"},
		Distributor: "Main Kitchen",
		AddedBy:     addedBy,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
