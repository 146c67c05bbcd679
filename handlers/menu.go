package handlers

import (
	"net/http"

	"food-delivery-backend/config"
	"food-delivery-backend/logger"
	"food-delivery-backend/middleware"
	"food-delivery-backend/models"

	"github.com/gin-gonic/gin"
)

// GetMenuItems returns the available menu for a restaurant (public)
func GetMenuItems(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Restaurant not found")
		return
	}

	var items []models.MenuItem
	config.DB.Where("restaurant_id = ? AND availability = ?", restaurant.ID, true).
		Order("created_at desc").
		Find(&items)

	respond(c, http.StatusOK, gin.H{"count": len(items), "data": items})
}

type CreateMenuItemRequest struct {
	RestaurantID uint    `json:"restaurant_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"required,gte=0"`
	ImageURL     string  `json:"image_url"`
	Availability *bool   `json:"availability"`
}

// resolveMenuOwnership loads the owning restaurant of an item-to-be and
// enforces the owner-or-admin rule.
func resolveMenuOwnership(c *gin.Context, restaurantID uint) (*models.Restaurant, bool) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		respondError(c, http.StatusNotFound, "Restaurant not found")
		return nil, false
	}
	if middleware.GetRole(c) != models.RoleAdmin && restaurant.UserID != middleware.GetUserID(c) {
		respondError(c, http.StatusForbidden, "Not authorized to manage menu items for this restaurant")
		return nil, false
	}
	return &restaurant, true
}

// CreateMenuItem adds a new item to a restaurant's menu
func CreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := resolveMenuOwnership(c, req.RestaurantID); !ok {
		return
	}

	availability := true
	if req.Availability != nil {
		availability = *req.Availability
	}

	item := models.MenuItem{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		Availability: availability,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error creating menu item")
		return
	}
	respond(c, http.StatusCreated, gin.H{"data": item})
}

type UpdateMenuItemRequest struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	ImageURL     *string  `json:"image_url"`
	Availability *bool    `json:"availability"`
}

// UpdateMenuItem updates a menu item; omitted fields keep their value
func UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Menu item not found")
		return
	}

	if _, ok := resolveMenuOwnership(c, item.RestaurantID); !ok {
		return
	}

	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	update := map[string]interface{}{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			respondError(c, http.StatusBadRequest, "Price must be a positive number")
			return
		}
		update["price"] = *req.Price
	}
	if req.ImageURL != nil {
		update["image_url"] = *req.ImageURL
	}
	if req.Availability != nil {
		update["availability"] = *req.Availability
	}

	if len(update) > 0 {
		if err := config.DB.Model(&item).Updates(update).Error; err != nil {
			logger.L.Error().Err(err).Uint("menu_item_id", item.ID).Msg("menu item update failed")
			respondError(c, http.StatusInternalServerError, "Server error updating menu item")
			return
		}
	}
	respond(c, http.StatusOK, gin.H{"message": "Menu item updated successfully", "data": item})
}

// DeleteMenuItem removes a menu item
func DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Menu item not found")
		return
	}

	if _, ok := resolveMenuOwnership(c, item.RestaurantID); !ok {
		return
	}

	if err := config.DB.Delete(&item).Error; err != nil {
		logger.L.Error().Err(err).Uint("menu_item_id", item.ID).Msg("menu item delete failed")
		respondError(c, http.StatusInternalServerError, "Server error deleting menu item")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}
