package routes

import (
	"food-delivery-backend/handlers"
	"food-delivery-backend/middleware"
	"food-delivery-backend/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ── Auth ───────────────────────────────────────────────────────
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.GET("/me", middleware.AuthRequired(), handlers.GetMe)
	}

	// ── Restaurants ────────────────────────────────────────────────
	restaurants := api.Group("/restaurants")
	{
		restaurants.GET("", handlers.ListRestaurants)
		restaurants.GET("/:id", handlers.GetRestaurant)
		restaurants.POST("", middleware.AuthRequired(),
			middleware.RoleRequired(models.RoleRestaurant, models.RoleAdmin),
			handlers.CreateRestaurant)
		restaurants.PUT("/:id", middleware.AuthRequired(),
			middleware.RoleRequired(models.RoleRestaurant, models.RoleAdmin),
			handlers.UpdateRestaurant)
		restaurants.GET("/owner/my-restaurant", middleware.AuthRequired(),
			middleware.RoleRequired(models.RoleRestaurant),
			handlers.GetMyRestaurant)
	}

	// ── Menu ───────────────────────────────────────────────────────
	menu := api.Group("/menu")
	{
		menu.GET("/restaurants/:id/menu", handlers.GetMenuItems)

		managed := menu.Group("", middleware.AuthRequired(),
			middleware.RoleRequired(models.RoleRestaurant, models.RoleAdmin))
		managed.POST("", handlers.CreateMenuItem)
		managed.PUT("/:id", handlers.UpdateMenuItem)
		managed.DELETE("/:id", handlers.DeleteMenuItem)
	}

	// ── Orders ─────────────────────────────────────────────────────
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.POST("", middleware.RoleRequired(models.RoleCustomer), handlers.CreateOrder)
		orders.GET("/my-orders", handlers.GetMyOrders)
		orders.GET("/:id", handlers.GetOrder)
		orders.PUT("/:id/status", handlers.UpdateOrderStatus)
	}

	// ── Delivery ───────────────────────────────────────────────────
	delivery := api.Group("/delivery", middleware.AuthRequired(),
		middleware.RoleRequired(models.RoleDriver))
	{
		delivery.GET("/requests", handlers.GetDeliveryRequests)
		delivery.PUT("/requests/:id/accept", handlers.AcceptDeliveryRequest)
		delivery.PUT("/requests/:id/reject", handlers.RejectDeliveryRequest)
		delivery.PUT("/orders/:id/complete", handlers.CompleteDelivery)
		delivery.GET("/history", handlers.GetDeliveryHistory)
	}

	// ── Reviews ────────────────────────────────────────────────────
	reviews := api.Group("/reviews")
	{
		reviews.GET("/restaurants/:id/reviews", handlers.GetRestaurantReviews)
		reviews.POST("", middleware.AuthRequired(),
			middleware.RoleRequired(models.RoleCustomer),
			handlers.CreateReview)
		reviews.GET("/my-reviews", middleware.AuthRequired(), handlers.GetMyReviews)
	}

	// ── Admin ──────────────────────────────────────────────────────
	admin := api.Group("/admin", middleware.AuthRequired(),
		middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", handlers.GetAllUsers)
		admin.DELETE("/users/:id", handlers.DeleteUser)
		admin.PUT("/users/:id/role", handlers.UpdateUserRole)
		admin.GET("/statistics", handlers.GetStatistics)
		admin.POST("/reports", handlers.GenerateReport)
		admin.GET("/reports", handlers.GetReports)
		admin.GET("/delivery-requests", handlers.GetAllDeliveryRequests)
	}
}
