package models

import "time"

// Review requires a prior delivered order at the restaurant; at most one
// review per (user, order) pair when an order is referenced.
type Review struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"not null"`
	User         User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null"`
	Restaurant   Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	OrderID      *uint      `json:"order_id"`
	Rating       int        `json:"rating" gorm:"not null"`
	Comment      string     `json:"comment"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
