package handlers

import (
	"net/http"

	"food-delivery-backend/config"
	"food-delivery-backend/middleware"
	"food-delivery-backend/models"

	"github.com/gin-gonic/gin"
)

type CreateReviewRequest struct {
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
	OrderID      *uint  `json:"order_id"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Comment      string `json:"comment"`
}

// CreateReview posts a review. The author must have at least one
// delivered order at the restaurant, and an order may be reviewed at
// most once.
func CreateReview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var delivered int64
	config.DB.Model(&models.Order{}).
		Where("user_id = ? AND restaurant_id = ? AND status = ?", userID, req.RestaurantID, models.StatusDelivered).
		Count(&delivered)
	if delivered == 0 {
		respondError(c, http.StatusBadRequest, "You can only review restaurants you have ordered from and received delivery")
		return
	}

	if req.OrderID != nil {
		var existing int64
		config.DB.Model(&models.Review{}).
			Where("user_id = ? AND order_id = ?", userID, *req.OrderID).
			Count(&existing)
		if existing > 0 {
			respondError(c, http.StatusConflict, "You have already reviewed this order")
			return
		}
	}

	review := models.Review{
		UserID:       userID,
		RestaurantID: req.RestaurantID,
		OrderID:      req.OrderID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error creating review")
		return
	}
	respond(c, http.StatusCreated, gin.H{"data": review})
}

type reviewStats struct {
	AvgRating    float64 `json:"avg_rating"`
	TotalReviews int     `json:"total_reviews"`
	FiveStars    int     `json:"five_stars"`
	FourStars    int     `json:"four_stars"`
	ThreeStars   int     `json:"three_stars"`
	TwoStars     int     `json:"two_stars"`
	OneStars     int     `json:"one_stars"`
}

// GetRestaurantReviews lists a restaurant's reviews together with the
// average rating and star histogram, computed on read.
func GetRestaurantReviews(c *gin.Context) {
	restaurantID := c.Param("id")

	var reviews []models.Review
	config.DB.Preload("User").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").
		Find(&reviews)

	var stats reviewStats
	config.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS total_reviews, "+
			"COUNT(CASE WHEN rating = 5 THEN 1 END) AS five_stars, "+
			"COUNT(CASE WHEN rating = 4 THEN 1 END) AS four_stars, "+
			"COUNT(CASE WHEN rating = 3 THEN 1 END) AS three_stars, "+
			"COUNT(CASE WHEN rating = 2 THEN 1 END) AS two_stars, "+
			"COUNT(CASE WHEN rating = 1 THEN 1 END) AS one_stars").
		Where("restaurant_id = ?", restaurantID).
		Scan(&stats)

	respond(c, http.StatusOK, gin.H{"data": reviews, "stats": stats})
}

// GetMyReviews lists the caller's reviews with restaurant context
func GetMyReviews(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var reviews []models.Review
	config.DB.Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&reviews)

	respond(c, http.StatusOK, gin.H{"data": reviews})
}
