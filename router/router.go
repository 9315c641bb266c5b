package router

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reelbite/reelbite/controllers"
	"github.com/reelbite/reelbite/middlewares"
	"github.com/reelbite/reelbite/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// 50 requests per second per IP; registered before any route so every
	// handler sits behind it.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	workDir, _ := os.Getwd()
	uploadsPath := filepath.Join(workDir, "public", "uploads")
	r.Static("/uploads", uploadsPath)

	storage := services.NewStorageService(uploadsPath)

	userCtrl := controllers.NewUserController(db)
	partnerCtrl := controllers.NewPartnerController(db)
	foodCtrl := controllers.NewFoodController(db, storage)
	orderCtrl := controllers.NewOrderController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      AUTH
	// ----------------------------------------------------------------
	auth := api.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/user/register", userCtrl.Register)
		auth.POST("/user/login", userCtrl.Login)
		auth.POST("/foodpartner/register", partnerCtrl.Register)
		auth.POST("/foodpartner/login", partnerCtrl.Login)
	}
	api.GET("/auth/user/logout", middlewares.UserAuthMiddleware(), userCtrl.Logout)
	api.GET("/auth/foodpartner/logout", middlewares.PartnerAuthMiddleware(), partnerCtrl.Logout)
	api.GET("/auth/me", middlewares.AnyAuthMiddleware(), userCtrl.GetCurrentActor)

	// ----------------------------------------------------------------
	//                      FOOD CATALOG & SOCIAL
	// ----------------------------------------------------------------
	food := api.Group("/food")
	{
		food.GET("", middlewares.AnyAuthMiddleware(), foodCtrl.GetAllFoods)
		food.POST("", middlewares.PartnerAuthMiddleware(), foodCtrl.CreateFood)
		food.GET("/saves", middlewares.UserAuthMiddleware(), foodCtrl.GetSavedFoods)
		food.POST("/likes", middlewares.UserAuthMiddleware(), foodCtrl.ToggleLike)
		food.POST("/saves", middlewares.UserAuthMiddleware(), foodCtrl.ToggleSave)

		food.GET("/:food_id", foodCtrl.GetFood)
		food.PATCH("/:food_id", middlewares.PartnerAuthMiddleware(), foodCtrl.UpdateFood)
		food.DELETE("/:food_id", middlewares.PartnerAuthMiddleware(), foodCtrl.DeleteFood)
		food.GET("/:food_id/related", foodCtrl.GetRelatedFoods)
		food.GET("/:food_id/comments", foodCtrl.GetComments)
		food.POST("/:food_id/comments", middlewares.UserAuthMiddleware(), foodCtrl.AddComment)
	}

	// ----------------------------------------------------------------
	//                      PARTNERS & FOLLOWS
	// ----------------------------------------------------------------
	api.GET("/foodpartner/:partner_id", partnerCtrl.GetProfile)
	api.POST("/follow/:partner_id", middlewares.UserAuthMiddleware(), partnerCtrl.FollowPartner)

	// ----------------------------------------------------------------
	//                      ORDERS
	// ----------------------------------------------------------------
	orders := api.Group("/orders")
	{
		orders.POST("", middlewares.UserAuthMiddleware(), orderCtrl.CreateOrder)
		orders.GET("", middlewares.UserAuthMiddleware(), orderCtrl.GetUserOrders)
		orders.GET("/partner/orders", middlewares.PartnerAuthMiddleware(), orderCtrl.GetPartnerOrders)
		orders.GET("/:order_id", middlewares.UserAuthMiddleware(), orderCtrl.GetOrderDetails)
		orders.PATCH("/:order_id/status", middlewares.PartnerAuthMiddleware(), orderCtrl.UpdateOrderStatus)
	}

	// ----------------------------------------------------------------
	//                      LIVE
	// ----------------------------------------------------------------
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/partner", controllers.PartnerEventsHandler)
	}

	return r
}
