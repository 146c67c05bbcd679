package models

import "time"

// OrderStatus represents all possible states of a food delivery order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusOnTheWay  OrderStatus = "on_the_way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// ValidStatus reports whether s is a member of the fixed status set.
func ValidStatus(s string) bool {
	switch OrderStatus(s) {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady,
		StatusOnTheWay, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderType distinguishes delivery orders (which fan out driver requests)
// from pickup orders.
type OrderType string

const (
	TypeDelivery OrderType = "delivery"
	TypePickup   OrderType = "pickup"
)

// PaymentMethod is the closed set of accepted payment options.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

type Order struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	UserID           uint          `json:"user_id" gorm:"not null"`
	Customer         User          `json:"customer,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID     uint          `json:"restaurant_id" gorm:"not null"`
	Restaurant       Restaurant    `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	TotalPrice       float64       `json:"total_price" gorm:"not null"`
	PaymentMethod    PaymentMethod `json:"payment_method" gorm:"not null;default:'cash'"`
	Type             OrderType     `json:"type" gorm:"not null;default:'delivery'"`
	Status           OrderStatus   `json:"status" gorm:"not null;default:'pending'"`
	DeliveryDriverID *uint         `json:"delivery_driver_id"`
	Driver           *User         `json:"driver,omitempty" gorm:"foreignKey:DeliveryDriverID"`
	Items            []OrderItem   `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type OrderItem struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	OrderID    uint     `json:"order_id" gorm:"not null"`
	MenuItemID uint     `json:"menu_item_id" gorm:"not null"`
	MenuItem   MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int      `json:"quantity" gorm:"not null"`
	Price      float64  `json:"price" gorm:"not null"` // snapshot price at time of order
}
