package main

import (
	"net/http"
	"os"

	"food-delivery-backend/config"
	"food-delivery-backend/handlers"
	"food-delivery-backend/logger"
	"food-delivery-backend/middleware"
	"food-delivery-backend/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()

	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	config.InitDB()
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Food Delivery API",
		})
	})

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.L.Info().Str("port", port).Msg("server starting")
	if err := r.Run(":" + port); err != nil {
		logger.L.Fatal().Err(err).Msg("server failed")
	}
}
