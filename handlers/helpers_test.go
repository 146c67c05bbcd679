package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-delivery-backend/config"
	"food-delivery-backend/handlers"
	"food-delivery-backend/models"
	"food-delivery-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// envelope is the uniform response shape of the API.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Data    json.RawMessage `json:"data"`
}

// setupRouter builds a fresh in-memory database and router per test.
// A single connection keeps the :memory: database shared across the
// pooled gorm handles.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	config.DB = db
	config.JWTSecret = []byte("test-secret")

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

// registerUser creates an account through the API and returns its token
// and id.
func registerUser(t *testing.T, r *gin.Engine, name string, role models.UserRole) (string, uint) {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
		"role":     string(role),
		"address":  name + " street 1",
		"phone":    "555-0100",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", name, w.Body.String())

	var user struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.User, &user))
	return env.Token, user.ID
}

// setupRestaurant registers an owner, creates their restaurant and two
// menu items (10.00 and 5.00). Returns owner token, restaurant id and
// the two item ids.
func setupRestaurant(t *testing.T, r *gin.Engine, name string) (string, uint, uint, uint) {
	t.Helper()
	ownerToken, _ := registerUser(t, r, name, models.RoleRestaurant)

	w, env := doJSON(t, r, http.MethodPost, "/api/restaurants", ownerToken, gin.H{
		"name":     name + " Kitchen",
		"location": "Main St 1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var restaurant models.Restaurant
	require.NoError(t, json.Unmarshal(env.Data, &restaurant))

	burgerID := addMenuItem(t, r, ownerToken, restaurant.ID, "Burger", 10.00)
	friesID := addMenuItem(t, r, ownerToken, restaurant.ID, "Fries", 5.00)
	return ownerToken, restaurant.ID, burgerID, friesID
}

func addMenuItem(t *testing.T, r *gin.Engine, ownerToken string, restaurantID uint, name string, price float64) uint {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/menu", ownerToken, gin.H{
		"restaurant_id": restaurantID,
		"name":          name,
		"price":         price,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item models.MenuItem
	require.NoError(t, json.Unmarshal(env.Data, &item))
	return item.ID
}

// placeOrder creates a 2x10.00 + 1x5.00 order for the customer.
func placeOrder(t *testing.T, r *gin.Engine, customerToken string, restaurantID, burgerID, friesID uint, orderType string) models.Order {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id": restaurantID,
		"type":          orderType,
		"items": []gin.H{
			{"menu_item_id": burgerID, "quantity": 2},
			{"menu_item_id": friesID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	return order
}

func deletePath(id uint) string {
	return fmt.Sprintf("/api/admin/users/%d", id)
}

// setStatus walks an order through the given statuses via the API.
func setStatus(t *testing.T, r *gin.Engine, token string, orderID uint, statuses ...string) {
	t.Helper()
	for _, status := range statuses {
		w, _ := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", orderID), token,
			gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "set status %s: %s", status, w.Body.String())
	}
}
