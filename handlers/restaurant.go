package handlers

import (
	"net/http"
	"time"

	"food-delivery-backend/config"
	"food-delivery-backend/logger"
	"food-delivery-backend/middleware"
	"food-delivery-backend/models"

	"github.com/gin-gonic/gin"
)

// restaurantWithRating carries the aggregate columns computed on read;
// the rating itself is never stored.
type restaurantWithRating struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Phone       string    `json:"phone"`
	AvgRating   float64   `json:"avg_rating"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListRestaurants returns all restaurants with their average rating and
// review count. Restaurants with no reviews show rating 0. The rating
// filter is applied after aggregation (HAVING semantics).
func ListRestaurants(c *gin.Context) {
	query := config.DB.Model(&models.Restaurant{}).
		Select("restaurants.id, restaurants.user_id, restaurants.name, restaurants.location, restaurants.phone, restaurants.created_at, " +
			"COALESCE(AVG(reviews.rating), 0) AS avg_rating, COUNT(DISTINCT reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.restaurant_id = restaurants.id").
		Group("restaurants.id")

	if search := c.Query("search"); search != "" {
		query = query.Where("restaurants.name LIKE ?", "%"+search+"%")
	}
	if rating := c.Query("rating"); rating != "" {
		query = query.Having("COALESCE(AVG(reviews.rating), 0) >= ?", rating)
	}

	var restaurants []restaurantWithRating
	if err := query.Scan(&restaurants).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching restaurants")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"count": len(restaurants),
		"data":  restaurants,
	})
}

// GetRestaurant returns a single restaurant with its available menu
// items and all reviews.
func GetRestaurant(c *gin.Context) {
	var restaurant restaurantWithRating
	result := config.DB.Model(&models.Restaurant{}).
		Select("restaurants.id, restaurants.user_id, restaurants.name, restaurants.location, restaurants.phone, restaurants.created_at, "+
			"COALESCE(AVG(reviews.rating), 0) AS avg_rating, COUNT(DISTINCT reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.restaurant_id = restaurants.id").
		Where("restaurants.id = ?", c.Param("id")).
		Group("restaurants.id").
		Scan(&restaurant)
	if result.Error != nil || result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "Restaurant not found")
		return
	}

	var menuItems []models.MenuItem
	config.DB.Where("restaurant_id = ? AND availability = ?", restaurant.ID, true).
		Order("name").
		Find(&menuItems)

	var reviews []models.Review
	config.DB.Preload("User").
		Where("restaurant_id = ?", restaurant.ID).
		Order("created_at desc").
		Find(&reviews)

	respond(c, http.StatusOK, gin.H{
		"data": gin.H{
			"restaurant": restaurant,
			"menu_items": menuItems,
			"reviews":    reviews,
		},
	})
}

type CreateRestaurantRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Phone    string `json:"phone"`
}

// CreateRestaurant lets a restaurant-role user create their restaurant.
// One restaurant per owning user.
func CreateRestaurant(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.Restaurant
	if result := config.DB.Where("user_id = ?", ownerID).First(&existing); result.Error == nil {
		respondError(c, http.StatusConflict, "You already have a restaurant")
		return
	}

	restaurant := models.Restaurant{
		UserID:   ownerID,
		Name:     req.Name,
		Location: req.Location,
		Phone:    req.Phone,
	}
	if err := config.DB.Create(&restaurant).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error creating restaurant")
		return
	}
	respond(c, http.StatusCreated, gin.H{"data": restaurant})
}

type UpdateRestaurantRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Phone    string `json:"phone"`
}

// UpdateRestaurant updates restaurant details. Only the owner or an
// admin may update.
func UpdateRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Restaurant not found")
		return
	}

	if middleware.GetRole(c) != models.RoleAdmin && restaurant.UserID != middleware.GetUserID(c) {
		respondError(c, http.StatusForbidden, "Not authorized to update this restaurant")
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := config.DB.Model(&restaurant).Updates(map[string]interface{}{
		"name":     req.Name,
		"location": req.Location,
		"phone":    req.Phone,
	}).Error; err != nil {
		logger.L.Error().Err(err).Uint("restaurant_id", restaurant.ID).Msg("restaurant update failed")
		respondError(c, http.StatusInternalServerError, "Server error updating restaurant")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Restaurant updated successfully"})
}

// GetMyRestaurant fetches the restaurant owned by the logged-in user
// together with its full menu.
func GetMyRestaurant(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var restaurant models.Restaurant
	if err := config.DB.Where("user_id = ?", ownerID).First(&restaurant).Error; err != nil {
		respondError(c, http.StatusNotFound, "Restaurant not found for this user")
		return
	}

	var menuItems []models.MenuItem
	config.DB.Where("restaurant_id = ?", restaurant.ID).
		Order("created_at desc").
		Find(&menuItems)

	respond(c, http.StatusOK, gin.H{
		"data": gin.H{
			"restaurant": restaurant,
			"menu_items": menuItems,
		},
	})
}
