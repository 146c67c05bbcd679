package models

import "time"

// ReportType selects the aggregate query a generated report runs.
type ReportType string

const (
	ReportSales        ReportType = "sales"
	ReportOrders       ReportType = "orders"
	ReportUserActivity ReportType = "user_activity"
)

// Report persists the result rows of an admin-generated report as JSON.
type Report struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ReportType ReportType `json:"report_type" gorm:"not null"`
	Data       string     `json:"-" gorm:"type:text"`
	CreatedAt  time.Time  `json:"created_at"`
}
