package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"food-delivery-backend/config"
	"food-delivery-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRestaurantOnePerOwner(t *testing.T) {
	r := setupRouter(t)
	ownerToken, _, _, _ := setupRestaurant(t, r, "tony")

	w, env := doJSON(t, r, http.MethodPost, "/api/restaurants", ownerToken, gin.H{
		"name":     "Second Kitchen",
		"location": "Elsewhere 2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
}

func TestCreateRestaurantRequiresRole(t *testing.T) {
	r := setupRouter(t)
	customerToken, _ := registerUser(t, r, "alice", models.RoleCustomer)

	w, _ := doJSON(t, r, http.MethodPost, "/api/restaurants", customerToken, gin.H{
		"name":     "Alice Kitchen",
		"location": "Nowhere",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetRestaurantDetail(t *testing.T) {
	r := setupRouter(t)
	_, restaurantID, _, _ := setupRestaurant(t, r, "tony")

	w, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/restaurants/%d", restaurantID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Restaurant struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"restaurant"`
		MenuItems []models.MenuItem `json:"menu_items"`
		Reviews   []models.Review   `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, restaurantID, detail.Restaurant.ID)
	assert.Equal(t, "tony Kitchen", detail.Restaurant.Name)
	assert.Len(t, detail.MenuItems, 2)
	assert.Empty(t, detail.Reviews)

	w, _ = doJSON(t, r, http.MethodGet, "/api/restaurants/424242", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRestaurantDetailHidesUnavailableItems(t *testing.T) {
	r := setupRouter(t)
	ownerToken, restaurantID, burgerID, _ := setupRestaurant(t, r, "tony")

	w, _ := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/menu/%d", burgerID), ownerToken,
		gin.H{"availability": false})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/restaurants/%d", restaurantID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		MenuItems []models.MenuItem `json:"menu_items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Len(t, detail.MenuItems, 1)
	assert.Equal(t, "Fries", detail.MenuItems[0].Name)
}

func TestSearchRestaurants(t *testing.T) {
	r := setupRouter(t)
	setupRestaurant(t, r, "tony")
	setupRestaurant(t, r, "luigi")

	w, env := doJSON(t, r, http.MethodGet, "/api/restaurants?search=luigi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Count)
}

func TestUpdateRestaurantOwnership(t *testing.T) {
	r := setupRouter(t)
	ownerToken, restaurantID, _, _ := setupRestaurant(t, r, "tony")
	otherToken, _, _, _ := setupRestaurant(t, r, "luigi")
	adminToken, _ := registerUser(t, r, "root", models.RoleAdmin)
	path := fmt.Sprintf("/api/restaurants/%d", restaurantID)

	w, _ := doJSON(t, r, http.MethodPut, path, otherToken, gin.H{
		"name": "Hijacked", "location": "Elsewhere",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, path, ownerToken, gin.H{
		"name": "Tony's Trattoria", "location": "Main St 1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, path, adminToken, gin.H{
		"name": "Tony's Trattoria", "location": "Main St 99",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var restaurant models.Restaurant
	require.NoError(t, config.DB.First(&restaurant, restaurantID).Error)
	assert.Equal(t, "Tony's Trattoria", restaurant.Name)
	assert.Equal(t, "Main St 99", restaurant.Location)
}

func TestGetMyRestaurant(t *testing.T) {
	r := setupRouter(t)
	ownerToken, restaurantID, _, _ := setupRestaurant(t, r, "tony")

	w, env := doJSON(t, r, http.MethodGet, "/api/restaurants/owner/my-restaurant", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Restaurant models.Restaurant `json:"restaurant"`
		MenuItems  []models.MenuItem `json:"menu_items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, restaurantID, detail.Restaurant.ID)
	assert.Len(t, detail.MenuItems, 2)

	// an owner without a restaurant yet
	freshToken, _ := registerUser(t, r, "mario", models.RoleRestaurant)
	w, _ = doJSON(t, r, http.MethodGet, "/api/restaurants/owner/my-restaurant", freshToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuOwnership(t *testing.T) {
	r := setupRouter(t)
	_, restaurantID, burgerID, _ := setupRestaurant(t, r, "tony")
	otherToken, _, _, _ := setupRestaurant(t, r, "luigi")
	adminToken, _ := registerUser(t, r, "root", models.RoleAdmin)

	// a foreign owner can neither add nor edit nor delete
	w, _ := doJSON(t, r, http.MethodPost, "/api/menu", otherToken, gin.H{
		"restaurant_id": restaurantID, "name": "Pizza", "price": 12.0,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/menu/%d", burgerID), otherToken,
		gin.H{"price": 1.0})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/menu/%d", burgerID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admin can
	w, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/menu/%d", burgerID), adminToken,
		gin.H{"price": 11.0})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.MenuItem
	require.NoError(t, config.DB.First(&item, burgerID).Error)
	assert.Equal(t, 11.0, item.Price)
}

func TestUpdateMenuItemPartial(t *testing.T) {
	r := setupRouter(t)
	ownerToken, _, burgerID, _ := setupRestaurant(t, r, "tony")

	w, _ := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/menu/%d", burgerID), ownerToken,
		gin.H{"description": "now with cheese"})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.MenuItem
	require.NoError(t, config.DB.First(&item, burgerID).Error)
	assert.Equal(t, "now with cheese", item.Description)
	assert.Equal(t, 10.0, item.Price) // untouched
	assert.Equal(t, "Burger", item.Name)
}

func TestDeleteMenuItem(t *testing.T) {
	r := setupRouter(t)
	ownerToken, _, burgerID, _ := setupRestaurant(t, r, "tony")

	w, _ := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/menu/%d", burgerID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/menu/%d", burgerID), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicMenuListing(t *testing.T) {
	r := setupRouter(t)
	ownerToken, restaurantID, burgerID, _ := setupRestaurant(t, r, "tony")

	w, _ := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/menu/%d", burgerID), ownerToken,
		gin.H{"availability": false})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/menu/restaurants/%d/menu", restaurantID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Count)

	w, _ = doJSON(t, r, http.MethodGet, "/api/menu/restaurants/424242/menu", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMenuItemSurfacesWriteFailure(t *testing.T) {
	r := setupRouter(t)
	ownerToken, _, burgerID, _ := setupRestaurant(t, r, "tony")

	require.NoError(t, config.DB.Exec(`CREATE TRIGGER block_menu_delete
		BEFORE DELETE ON menu_items
		BEGIN SELECT RAISE(ABORT, 'delete blocked'); END`).Error)

	w, env := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/menu/%d", burgerID), ownerToken, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)

	var count int64
	config.DB.Model(&models.MenuItem{}).Where("id = ?", burgerID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpdateMenuItemSurfacesWriteFailure(t *testing.T) {
	r := setupRouter(t)
	ownerToken, _, burgerID, _ := setupRestaurant(t, r, "tony")

	require.NoError(t, config.DB.Exec(`CREATE TRIGGER block_menu_update
		BEFORE UPDATE ON menu_items
		BEGIN SELECT RAISE(ABORT, 'update blocked'); END`).Error)

	w, env := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/menu/%d", burgerID), ownerToken,
		gin.H{"price": 12.50})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)

	var item models.MenuItem
	require.NoError(t, config.DB.First(&item, burgerID).Error)
	assert.Equal(t, 10.00, item.Price)
}

func TestUpdateRestaurantSurfacesWriteFailure(t *testing.T) {
	r := setupRouter(t)
	ownerToken, restaurantID, _, _ := setupRestaurant(t, r, "tony")

	require.NoError(t, config.DB.Exec(`CREATE TRIGGER block_restaurant_update
		BEFORE UPDATE ON restaurants
		BEGIN SELECT RAISE(ABORT, 'update blocked'); END`).Error)

	w, env := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/restaurants/%d", restaurantID),
		ownerToken, gin.H{"name": "renamed", "location": "elsewhere"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)

	var restaurant models.Restaurant
	require.NoError(t, config.DB.First(&restaurant, restaurantID).Error)
	assert.Equal(t, "tony Kitchen", restaurant.Name)
}
