package main

import (
	"os"

	"backend/config"
	"backend/routes"
	"backend/utils"

	"github.com/sirupsen/logrus"
)

func main() {
	if os.Getenv("ENV") == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	config.InitDB()
	rdb := config.InitRedis()

	if os.Getenv("AWS_REGION") != "" || os.Getenv("S3_REGION") != "" {
		utils.InitS3()
		utils.InitSES()
	} else {
		logrus.Warn("AWS_REGION not set, image upload and email disabled")
	}

	r := routes.SetupRouter(config.DB, rdb)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
