package handlers

import (
	"errors"
	"net/http"
	"time"

	"food-delivery-backend/config"
	"food-delivery-backend/logger"
	"food-delivery-backend/middleware"
	"food-delivery-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errRequestGone   = errors.New("Delivery request not found or already processed")
	errOrderNotReady = errors.New("Order is not ready for delivery")
)

// deliveryRequestDetail joins a request with its order, restaurant and
// customer context for driver-facing listings.
type deliveryRequestDetail struct {
	ID                 uint                  `json:"id"`
	OrderID            uint                  `json:"order_id"`
	DriverID           uint                  `json:"driver_id"`
	Status             models.DeliveryStatus `json:"status"`
	AssignedAt         time.Time             `json:"assigned_at"`
	CompletedAt        *time.Time            `json:"completed_at"`
	TotalPrice         float64               `json:"total_price"`
	OrderStatus        models.OrderStatus    `json:"order_status"`
	RestaurantName     string                `json:"restaurant_name"`
	RestaurantLocation string                `json:"restaurant_location"`
	CustomerName       string                `json:"customer_name"`
	CustomerAddress    string                `json:"customer_address"`
	CustomerPhone      string                `json:"customer_phone"`
}

func deliveryRequestQuery() *gorm.DB {
	return config.DB.Model(&models.DeliveryRequest{}).
		Select("delivery_requests.id, delivery_requests.order_id, delivery_requests.driver_id, " +
			"delivery_requests.status, delivery_requests.assigned_at, delivery_requests.completed_at, " +
			"orders.total_price, orders.status AS order_status, " +
			"restaurants.name AS restaurant_name, restaurants.location AS restaurant_location, " +
			"users.name AS customer_name, users.address AS customer_address, users.phone AS customer_phone").
		Joins("JOIN orders ON orders.id = delivery_requests.order_id").
		Joins("JOIN restaurants ON restaurants.id = orders.restaurant_id").
		Joins("JOIN users ON users.id = orders.user_id")
}

// GetDeliveryRequests lists the calling driver's pending requests
func GetDeliveryRequests(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var requests []deliveryRequestDetail
	if err := deliveryRequestQuery().
		Where("delivery_requests.driver_id = ? AND delivery_requests.status = ?", driverID, models.DeliveryPending).
		Order("delivery_requests.assigned_at desc").
		Scan(&requests).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching delivery requests")
		return
	}

	respond(c, http.StatusOK, gin.H{"count": len(requests), "data": requests})
}

// lockForUpdate adds SELECT ... FOR UPDATE row locking on engines that
// support it. sqlite rejects the clause and serializes writers at the
// database level anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AcceptDeliveryRequest claims a pending request. First valid acceptance
// wins: the transaction re-reads the row locked and filtered on
// status=pending, so a concurrent acceptor's re-read comes back empty.
// Accepting assigns the driver, moves the order to on_the_way and
// rejects every sibling pending request.
func AcceptDeliveryRequest(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	requestID := c.Param("id")

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var request models.DeliveryRequest
		if err := lockForUpdate(tx).
			Where("id = ? AND driver_id = ? AND status = ?", requestID, driverID, models.DeliveryPending).
			First(&request).Error; err != nil {
			return errRequestGone
		}

		var order models.Order
		if err := lockForUpdate(tx).First(&order, request.OrderID).Error; err != nil {
			return err
		}
		if order.Status != models.StatusReady {
			return errOrderNotReady
		}

		if err := tx.Model(&models.DeliveryRequest{}).
			Where("id = ?", request.ID).
			Update("status", models.DeliveryAccepted).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"delivery_driver_id": driverID,
				"status":             models.StatusOnTheWay,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&models.DeliveryRequest{}).
			Where("order_id = ? AND id <> ? AND status = ?", order.ID, request.ID, models.DeliveryPending).
			Update("status", models.DeliveryRejected).Error
	})

	switch {
	case errors.Is(err, errRequestGone):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errOrderNotReady):
		respondError(c, http.StatusBadRequest, err.Error())
	case err != nil:
		respondError(c, http.StatusInternalServerError, "Server error accepting delivery request")
	default:
		respond(c, http.StatusOK, gin.H{"message": "Delivery request accepted successfully"})
	}
}

// RejectDeliveryRequest declines a single pending request; siblings are
// untouched.
func RejectDeliveryRequest(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var request models.DeliveryRequest
	if err := config.DB.
		Where("id = ? AND driver_id = ? AND status = ?", c.Param("id"), driverID, models.DeliveryPending).
		First(&request).Error; err != nil {
		respondError(c, http.StatusNotFound, "Delivery request not found")
		return
	}

	if err := config.DB.Model(&request).Update("status", models.DeliveryRejected).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error rejecting delivery request")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Delivery request rejected"})
}

// CompleteDelivery marks an on-the-way order as delivered. Only the
// assigned driver may complete it.
func CompleteDelivery(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.
		Where("id = ? AND delivery_driver_id = ? AND status = ?", orderID, driverID, models.StatusOnTheWay).
		First(&order).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found or not assigned to you")
		return
	}

	// order and request move together or not at all
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", models.StatusDelivered).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&models.DeliveryRequest{}).
			Where("order_id = ? AND driver_id = ?", order.ID, driverID).
			Updates(map[string]interface{}{
				"status":       models.DeliveryCompleted,
				"completed_at": &now,
			}).Error
	})
	if err != nil {
		logger.L.Error().Err(err).Uint("order_id", order.ID).Msg("delivery completion failed")
		respondError(c, http.StatusInternalServerError, "Server error completing delivery")
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Delivery completed successfully"})
}

// GetDeliveryHistory lists the driver's accepted and completed requests
func GetDeliveryHistory(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var deliveries []deliveryRequestDetail
	if err := deliveryRequestQuery().
		Where("delivery_requests.driver_id = ? AND delivery_requests.status IN ?",
			driverID, []models.DeliveryStatus{models.DeliveryAccepted, models.DeliveryCompleted}).
		Order("delivery_requests.assigned_at desc").
		Scan(&deliveries).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching delivery history")
		return
	}

	respond(c, http.StatusOK, gin.H{"count": len(deliveries), "data": deliveries})
}
