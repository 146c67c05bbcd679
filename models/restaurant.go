package models

import "time"

type Restaurant struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"not null;uniqueIndex"` // one restaurant per owning user
	Owner     User       `json:"owner,omitempty" gorm:"foreignKey:UserID"`
	Name      string     `json:"name" gorm:"not null"`
	Location  string     `json:"location" gorm:"not null"`
	Phone     string     `json:"phone"`
	MenuItems []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" gorm:"not null"`
	ImageURL     string    `json:"image_url"`
	Availability bool      `json:"availability" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
