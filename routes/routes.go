package routes

import (
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter wires services and controllers onto the gin engine. push may
// be nil when SNS is not configured; notifications then stay in-app only.
func SetupRouter(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	hub := services.NewRealtimeHub()

	var push *services.PushService
	if p, err := services.NewPushService(db); err != nil {
		logrus.Warnf("push service disabled: %v", err)
	} else {
		push = p
	}

	bus := services.NewNotifyBus(db, hub, push)

	userSvc := services.NewUserService(db)
	authSvc := services.NewAuthService(userSvc)
	catalogSvc := services.NewCatalogService(db, rdb)
	upcomingSvc := services.NewUpcomingService(db)
	engagementSvc := services.NewEngagementService(db, bus)
	reviewSvc := services.NewReviewService(db)
	requestSvc := services.NewRequestService(db, bus)
	publishSvc := services.NewPublishService(db)
	paymentSvc := services.NewPaymentService(db, bus)
	notificationSvc := services.NewNotificationService(db)

	authCtl := controllers.NewAuthController(userSvc, authSvc)
	userCtl := controllers.NewUserController(userSvc)
	mealCtl := controllers.NewMealController(catalogSvc, reviewSvc)
	upcomingCtl := controllers.NewUpcomingController(upcomingSvc, publishSvc)
	likeCtl := controllers.NewLikeController(engagementSvc)
	reviewCtl := controllers.NewReviewController(reviewSvc)
	requestCtl := controllers.NewRequestController(requestSvc)
	paymentCtl := controllers.NewPaymentController(paymentSvc, userSvc)
	deviceCtl := controllers.NewDeviceController(push)
	notificationCtl := controllers.NewNotificationController(notificationSvc)
	realtimeCtl := controllers.NewRealtimeController(hub)

	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	// Public catalog reads
	r.GET("/meals", mealCtl.ListMeals)
	r.GET("/meals/:id", mealCtl.GetMeal)
	r.GET("/meals/:id/reviews", reviewCtl.ListMealReviews)
	r.GET("/upcoming", upcomingCtl.ListUpcoming)
	r.GET("/packages", paymentCtl.ListPackages)
	r.GET("/ws/meals/:scope/:id", realtimeCtl.MealFeedWS)

	// Authenticated user routes
	user := r.Group("/")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", userCtl.GetProfile)
		user.PUT("/profile", userCtl.UpdateProfile)

		user.POST("/meals/:id/like", likeCtl.ToggleMealLike)
		user.POST("/upcoming/:id/like", likeCtl.ToggleUpcomingLike)
		user.POST("/reviews/:id/like", likeCtl.ToggleReviewLike)

		user.POST("/meals/:id/reviews", reviewCtl.CreateReview)
		user.GET("/reviews", reviewCtl.ListMyReviews)
		user.PUT("/reviews/:id", reviewCtl.EditReview)
		user.DELETE("/reviews/:id", reviewCtl.DeleteReview)

		user.POST("/requests", requestCtl.CreateRequest)
		user.GET("/requests", requestCtl.ListMyRequests)
		user.DELETE("/requests/:id", requestCtl.CancelRequest)

		user.POST("/payments", paymentCtl.ApplyPayment)
		user.GET("/payments", paymentCtl.ListMyPayments)

		user.POST("/devices", deviceCtl.Register)
		user.GET("/notifications", notificationCtl.ListMine)
		user.PUT("/notifications/:id/read", notificationCtl.MarkRead)
		user.GET("/ws/notifications", realtimeCtl.NotificationsWS)

		user.POST("/images", controllers.UploadMealImage)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		admin.POST("/meals", mealCtl.CreateMeal)
		admin.PUT("/meals/:id", mealCtl.UpdateMeal)
		admin.DELETE("/meals/:id", mealCtl.DeleteMeal)

		admin.POST("/upcoming", upcomingCtl.CreateUpcoming)
		admin.DELETE("/upcoming/:id", upcomingCtl.DeleteUpcoming)
		admin.POST("/upcoming/:id/publish", upcomingCtl.PublishUpcoming)
		admin.POST("/upcoming/reconcile", upcomingCtl.Reconcile)

		admin.GET("/requests", requestCtl.ListAllRequests)
		admin.PUT("/requests/:id/serve", requestCtl.ServeRequest)

		admin.GET("/users", userCtl.ListUsers)
		admin.PUT("/users/:id/promote", userCtl.PromoteToAdmin)
	}

	return r
}
