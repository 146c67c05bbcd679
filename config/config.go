package config

import (
	"fmt"
	"log"
	"os"

	"food-delivery-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret []byte

// LoadEnv reads a .env file if present and resolves the JWT secret.
// Call before InitDB.
func LoadEnv() {
	_ = godotenv.Load()
	JWTSecret = []byte(getEnv("JWT_SECRET", "food_delivery_super_secret_2024"))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB connects to MySQL when DB_HOST is configured, otherwise falls
// back to a local sqlite file, then auto-migrates the schema.
func InitDB() {
	var (
		dialector gorm.Dialector
	)
	if host := os.Getenv("DB_HOST"); host != "" {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			getEnv("DB_USER", "root"),
			os.Getenv("DB_PASSWORD"),
			host,
			getEnv("DB_PORT", "3306"),
			getEnv("DB_NAME", "onlinefooddelivery"),
		)
		dialector = mysql.Open(dsn)
	} else {
		dialector = sqlite.Open(getEnv("SQLITE_PATH", "food_delivery.db"))
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}

// Migrate applies the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliveryRequest{},
		&models.Review{},
		&models.Report{},
	)
}
