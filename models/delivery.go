package models

import "time"

// DeliveryStatus tracks a single driver's answer to a broadcast request
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryAccepted  DeliveryStatus = "accepted"
	DeliveryRejected  DeliveryStatus = "rejected"
	DeliveryCompleted DeliveryStatus = "completed"
)

// DeliveryRequest is one row per (order, driver) candidate pair. Every
// driver gets a pending row when a delivery order is placed; the first
// valid acceptance wins and rejects the siblings.
type DeliveryRequest struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	OrderID     uint           `json:"order_id" gorm:"not null;uniqueIndex:idx_order_driver"`
	Order       Order          `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	DriverID    uint           `json:"driver_id" gorm:"not null;uniqueIndex:idx_order_driver"`
	Driver      User           `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status      DeliveryStatus `json:"status" gorm:"not null;default:'pending'"`
	AssignedAt  time.Time      `json:"assigned_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time     `json:"completed_at"`
}
