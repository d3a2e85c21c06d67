package config

import (
	"fmt"
	"os"

	"backend/models"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, relying on process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	// TranslateError lets services detect duplicate-key races via
	// gorm.ErrDuplicatedKey (payment replays, concurrent double-likes).
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
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
	)
	if err != nil {
		logrus.Fatalf("AutoMigrate failed: %v", err)
	}
}

// InitRedis returns a client for the cache layer, or nil when REDIS_ADDR is
// unset (caching is optional; services fall through to the database).
func InitRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logrus.Warn("REDIS_ADDR not set, catalog caching disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}
