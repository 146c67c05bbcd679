package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"food-delivery-backend/config"
	"food-delivery-backend/logger"
	"food-delivery-backend/middleware"
	"food-delivery-backend/models"
	"food-delivery-backend/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errRestaurantNotFound = errors.New("Restaurant not found")

type CreateOrderRequest struct {
	RestaurantID  uint   `json:"restaurant_id" binding:"required"`
	Type          string `json:"type" binding:"omitempty,oneof=delivery pickup"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=cash card online"`
	Items         []struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// CreateOrder places a new order as a single atomic unit: every item is
// priced from the menu inside the transaction, the total is computed
// server-side, and for delivery orders one pending request is created
// per driver. Any failing item rolls the whole order back.
func CreateOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	orderType := models.TypeDelivery
	if req.Type != "" {
		orderType = models.OrderType(req.Type)
	}
	paymentMethod := models.PaymentCash
	if req.PaymentMethod != "" {
		paymentMethod = models.PaymentMethod(req.PaymentMethod)
	}

	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.First(&restaurant, req.RestaurantID).Error; err != nil {
			return errRestaurantNotFound
		}

		var orderItems []models.OrderItem
		var total float64
		for _, line := range req.Items {
			var menuItem models.MenuItem
			if err := tx.First(&menuItem, line.MenuItemID).Error; err != nil {
				return fmt.Errorf("Menu item with ID %d not found", line.MenuItemID)
			}
			if menuItem.RestaurantID != req.RestaurantID {
				return fmt.Errorf("Menu item %q does not belong to this restaurant", menuItem.Name)
			}
			if !menuItem.Availability {
				return fmt.Errorf("Menu item %q is not available", menuItem.Name)
			}
			total += menuItem.Price * float64(line.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				MenuItemID: menuItem.ID,
				Quantity:   line.Quantity,
				Price:      menuItem.Price,
			})
		}

		order = models.Order{
			UserID:        customerID,
			RestaurantID:  req.RestaurantID,
			TotalPrice:    total,
			PaymentMethod: paymentMethod,
			Type:          orderType,
			Status:        models.StatusPending,
			Items:         orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Broadcast assignment: every driver gets a pending request
		if order.Type == models.TypeDelivery {
			var drivers []models.User
			if err := tx.Where("role = ?", models.RoleDriver).Find(&drivers).Error; err != nil {
				return err
			}
			for _, driver := range drivers {
				request := models.DeliveryRequest{
					OrderID:  order.ID,
					DriverID: driver.ID,
					Status:   models.DeliveryPending,
				}
				if err := tx.Create(&request).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errRestaurantNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	config.DB.Preload("Items.MenuItem").Preload("Restaurant").First(&order, order.ID)
	respond(c, http.StatusCreated, gin.H{"data": order})
}

// GetMyOrders returns orders scoped to the caller's role: customers see
// their own, restaurant owners their restaurant's, drivers their
// assigned deliveries and admins everything.
func GetMyOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	query := config.DB.Preload("Items.MenuItem").Preload("Restaurant").Preload("Customer")
	switch middleware.GetRole(c) {
	case models.RoleCustomer:
		query = query.Where("user_id = ?", userID)
	case models.RoleRestaurant:
		var restaurant models.Restaurant
		if err := config.DB.Where("user_id = ?", userID).First(&restaurant).Error; err != nil {
			respond(c, http.StatusOK, gin.H{"count": 0, "data": []models.Order{}})
			return
		}
		query = query.Where("restaurant_id = ?", restaurant.ID)
	case models.RoleDriver:
		query = query.Where("delivery_driver_id = ?", userID)
	case models.RoleAdmin:
		// no scoping
	}

	var orders []models.Order
	query.Order("created_at desc").Find(&orders)
	respond(c, http.StatusOK, gin.H{"count": len(orders), "data": orders})
}

// GetOrder returns a single order's full detail, with ownership checks
// for customers and restaurant owners.
func GetOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.
		Preload("Items.MenuItem").
		Preload("Restaurant").
		Preload("Customer").
		Preload("Driver").
		First(&order, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	userID := middleware.GetUserID(c)
	switch middleware.GetRole(c) {
	case models.RoleCustomer:
		if order.UserID != userID {
			respondError(c, http.StatusForbidden, "Not authorized to view this order")
			return
		}
	case models.RoleRestaurant:
		var restaurant models.Restaurant
		if err := config.DB.Where("user_id = ?", userID).First(&restaurant).Error; err != nil ||
			order.RestaurantID != restaurant.ID {
			respondError(c, http.StatusForbidden, "Not authorized to view this order")
			return
		}
	}

	respond(c, http.StatusOK, gin.H{"data": order})
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus applies a role-gated status transition. Reaching
// `ready` on a delivery order re-broadcasts pending requests to all
// drivers, giving late or previously-rejected drivers another chance.
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "Invalid status")
		return
	}
	newStatus := models.OrderStatus(req.Status)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	// Resolve the acting role for the transition table. Restaurant
	// owners act only on their own restaurant's orders, drivers only
	// on orders assigned to them.
	var actor models.UserRole
	switch role {
	case models.RoleAdmin:
		actor = models.RoleAdmin
	case models.RoleRestaurant:
		var restaurant models.Restaurant
		if err := config.DB.Where("user_id = ?", userID).First(&restaurant).Error; err != nil ||
			order.RestaurantID != restaurant.ID {
			respondError(c, http.StatusForbidden, "Not authorized to update this order status")
			return
		}
		actor = models.RoleRestaurant
	case models.RoleDriver:
		if order.DeliveryDriverID == nil || *order.DeliveryDriverID != userID {
			respondError(c, http.StatusForbidden, "Not authorized to update this order status")
			return
		}
		actor = models.RoleDriver
	default:
		respondError(c, http.StatusForbidden, "Not authorized to update this order status")
		return
	}

	if err := statemachine.CanTransition(order.Status, newStatus, actor); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// the status change and any re-broadcast commit together
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return err
		}
		if newStatus == models.StatusReady && order.Type == models.TypeDelivery {
			return rebroadcastDeliveryRequests(tx, order.ID)
		}
		return nil
	})
	if err != nil {
		logger.L.Error().Err(err).Uint("order_id", order.ID).Msg("order status update failed")
		respondError(c, http.StatusInternalServerError, "Server error updating order status")
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Order status updated to " + string(newStatus)})
}

// rebroadcastDeliveryRequests upserts one pending request per driver for
// the order, resetting previously rejected rows back to pending.
func rebroadcastDeliveryRequests(tx *gorm.DB, orderID uint) error {
	var drivers []models.User
	if err := tx.Where("role = ?", models.RoleDriver).Find(&drivers).Error; err != nil {
		return err
	}
	for _, driver := range drivers {
		request := models.DeliveryRequest{
			OrderID:  orderID,
			DriverID: driver.ID,
			Status:   models.DeliveryPending,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "driver_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": models.DeliveryPending}),
		}).Create(&request).Error; err != nil {
			return err
		}
	}
	return nil
}
