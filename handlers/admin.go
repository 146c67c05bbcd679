package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"food-delivery-backend/config"
	"food-delivery-backend/logger"
	"food-delivery-backend/middleware"
	"food-delivery-backend/models"

	"github.com/gin-gonic/gin"
)

// GetAllUsers lists users, optionally filtered by role
func GetAllUsers(c *gin.Context) {
	query := config.DB.Order("created_at desc")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	query.Find(&users)
	respond(c, http.StatusOK, gin.H{"count": len(users), "data": users})
}

// DeleteUser removes a user account. Self-deletion is forbidden.
func DeleteUser(c *gin.Context) {
	if c.Param("id") == "" {
		respondError(c, http.StatusBadRequest, "User id required")
		return
	}

	var target models.User
	if err := config.DB.First(&target, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if target.ID == middleware.GetUserID(c) {
		respondError(c, http.StatusBadRequest, "Cannot delete yourself")
		return
	}

	if err := config.DB.Delete(&target).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error deleting user")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

// UpdateUserRole changes a user's role; the target role must be a
// member of the closed role set.
func UpdateUserRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid role")
		return
	}

	var target models.User
	if err := config.DB.First(&target, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := config.DB.Model(&target).Update("role", models.UserRole(req.Role)).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error updating user role")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "User role updated to " + req.Role})
}

type roleCount struct {
	Role  models.UserRole `json:"role"`
	Count int             `json:"count"`
}

type orderStats struct {
	TotalOrders     int     `json:"total_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	DeliveredOrders int     `json:"delivered_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
}

type statusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

type restaurantStats struct {
	TotalRestaurants int `json:"total_restaurants"`
	ActiveMenuItems  int `json:"active_menu_items"`
}

type topRestaurant struct {
	Name       string  `json:"name"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
	AvgRating  float64 `json:"avg_rating"`
}

// GetStatistics aggregates the admin dashboard numbers: per-role user
// counts, order totals and revenue, per-status counts, restaurant
// totals, recent orders and top restaurants by order count.
func GetStatistics(c *gin.Context) {
	var userCounts []roleCount
	config.DB.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&userCounts)

	var orders orderStats
	config.DB.Model(&models.Order{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(total_price), 0) AS total_revenue, " +
			"COALESCE(AVG(total_price), 0) AS avg_order_value, " +
			"COUNT(CASE WHEN status = 'delivered' THEN 1 END) AS delivered_orders, " +
			"COUNT(CASE WHEN status = 'cancelled' THEN 1 END) AS cancelled_orders").
		Scan(&orders)

	var statusCounts []statusCount
	config.DB.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusCounts)

	var restaurants restaurantStats
	config.DB.Raw("SELECT " +
		"(SELECT COUNT(*) FROM restaurants) AS total_restaurants, " +
		"(SELECT COUNT(*) FROM menu_items WHERE availability = true) AS active_menu_items").
		Scan(&restaurants)

	var recentOrders []models.Order
	config.DB.Preload("Customer").Preload("Restaurant").
		Order("created_at desc").
		Limit(10).
		Find(&recentOrders)

	var topRestaurants []topRestaurant
	config.DB.Raw(`SELECT r.name, COUNT(DISTINCT o.id) AS order_count,
			COALESCE(SUM(o.total_price), 0) AS revenue,
			COALESCE(AVG(rev.rating), 0) AS avg_rating
		FROM restaurants r
		LEFT JOIN orders o ON r.id = o.restaurant_id
		LEFT JOIN reviews rev ON r.id = rev.restaurant_id
		GROUP BY r.id, r.name
		ORDER BY order_count DESC
		LIMIT 10`).
		Scan(&topRestaurants)

	respond(c, http.StatusOK, gin.H{
		"data": gin.H{
			"user_counts":         userCounts,
			"order_stats":         orders,
			"order_status_counts": statusCounts,
			"restaurant_stats":    restaurants,
			"recent_orders":       recentOrders,
			"top_restaurants":     topRestaurants,
		},
	})
}

type GenerateReportRequest struct {
	ReportType string `json:"report_type" binding:"required,oneof=sales orders user_activity"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// reportQuery returns the fixed aggregate for a report type, with an
// optional date-range filter.
func reportQuery(reportType models.ReportType, startDate, endDate string) (string, []interface{}) {
	dated := startDate != "" && endDate != ""

	switch reportType {
	case models.ReportSales:
		q := `SELECT DATE(created_at) AS date, COUNT(*) AS order_count,
			COALESCE(SUM(total_price), 0) AS total_sales,
			COALESCE(AVG(total_price), 0) AS avg_order_value,
			COUNT(CASE WHEN status = 'delivered' THEN 1 END) AS delivered_count,
			COUNT(CASE WHEN status = 'cancelled' THEN 1 END) AS cancelled_count
		FROM orders WHERE 1=1`
		var params []interface{}
		if dated {
			q += " AND DATE(created_at) BETWEEN ? AND ?"
			params = append(params, startDate, endDate)
		}
		return q + " GROUP BY DATE(created_at) ORDER BY date", params

	case models.ReportOrders:
		q := `SELECT r.name AS restaurant_name, COUNT(DISTINCT o.id) AS order_count,
			COALESCE(SUM(o.total_price), 0) AS total_revenue,
			COALESCE(AVG(o.total_price), 0) AS avg_order_value,
			COALESCE(AVG(rev.rating), 0) AS avg_rating,
			COUNT(CASE WHEN o.status = 'delivered' THEN 1 END) AS delivered_count
		FROM restaurants r
		LEFT JOIN orders o ON r.id = o.restaurant_id
		LEFT JOIN reviews rev ON r.id = rev.restaurant_id
		WHERE 1=1`
		var params []interface{}
		if dated {
			q += " AND DATE(o.created_at) BETWEEN ? AND ?"
			params = append(params, startDate, endDate)
		}
		return q + " GROUP BY r.id, r.name ORDER BY order_count DESC", params

	default: // user_activity
		q := `SELECT u.role, COUNT(DISTINCT u.id) AS user_count,
			COUNT(o.id) AS order_count,
			COALESCE(SUM(o.total_price), 0) AS total_spent,
			COALESCE(AVG(o.total_price), 0) AS avg_order_value
		FROM users u
		LEFT JOIN orders o ON u.id = o.user_id
		WHERE 1=1`
		var params []interface{}
		if dated {
			q += " AND (DATE(o.created_at) BETWEEN ? AND ? OR o.id IS NULL)"
			params = append(params, startDate, endDate)
		}
		return q + " GROUP BY u.role", params
	}
}

// GenerateReport runs the fixed aggregate for the requested type and
// persists the result rows as a named report record.
func GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid report type")
		return
	}

	reportType := models.ReportType(req.ReportType)
	query, params := reportQuery(reportType, req.StartDate, req.EndDate)

	var rows []map[string]interface{}
	if err := config.DB.Raw(query, params...).Scan(&rows).Error; err != nil {
		logger.L.Error().Err(err).Str("report_type", req.ReportType).Msg("report query failed")
		respondError(c, http.StatusInternalServerError, "Server error generating report")
		return
	}

	encoded, err := json.Marshal(rows)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error generating report")
		return
	}

	report := models.Report{
		ReportType: reportType,
		Data:       string(encoded),
	}
	if err := config.DB.Create(&report).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error generating report")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"data": gin.H{
			"report_id":    report.ID,
			"report_type":  report.ReportType,
			"generated_at": report.CreatedAt,
			"data":         rows,
		},
	})
}

// GetReports lists stored reports with their decoded result rows
func GetReports(c *gin.Context) {
	var reports []models.Report
	config.DB.Order("created_at desc").Find(&reports)

	out := make([]gin.H, 0, len(reports))
	for _, report := range reports {
		var rows interface{}
		if err := json.Unmarshal([]byte(report.Data), &rows); err != nil {
			rows = nil
		}
		out = append(out, gin.H{
			"id":          report.ID,
			"report_type": report.ReportType,
			"created_at":  report.CreatedAt,
			"data":        rows,
		})
	}
	respond(c, http.StatusOK, gin.H{"data": out})
}

type adminDeliveryRequest struct {
	ID             uint                  `json:"id"`
	OrderID        uint                  `json:"order_id"`
	DriverID       uint                  `json:"driver_id"`
	Status         models.DeliveryStatus `json:"status"`
	AssignedAt     time.Time             `json:"assigned_at"`
	CompletedAt    *time.Time            `json:"completed_at"`
	TotalPrice     float64               `json:"total_price"`
	OrderStatus    models.OrderStatus    `json:"order_status"`
	RestaurantName string                `json:"restaurant_name"`
	CustomerName   string                `json:"customer_name"`
	DriverName     string                `json:"driver_name"`
}

// GetAllDeliveryRequests lists every delivery request with order,
// restaurant, customer and driver context.
func GetAllDeliveryRequests(c *gin.Context) {
	var requests []adminDeliveryRequest
	if err := config.DB.Model(&models.DeliveryRequest{}).
		Select("delivery_requests.id, delivery_requests.order_id, delivery_requests.driver_id, " +
			"delivery_requests.status, delivery_requests.assigned_at, delivery_requests.completed_at, " +
			"orders.total_price, orders.status AS order_status, " +
			"restaurants.name AS restaurant_name, " +
			"customers.name AS customer_name, drivers.name AS driver_name").
		Joins("JOIN orders ON orders.id = delivery_requests.order_id").
		Joins("JOIN restaurants ON restaurants.id = orders.restaurant_id").
		Joins("JOIN users customers ON customers.id = orders.user_id").
		Joins("JOIN users drivers ON drivers.id = delivery_requests.driver_id").
		Order("delivery_requests.assigned_at desc").
		Scan(&requests).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching delivery requests")
		return
	}

	respond(c, http.StatusOK, gin.H{"count": len(requests), "data": requests})
}
