package database

import (
	"fmt"
	"log"
	"time"

	"lostark-market/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Initialize opens the MySQL connection, tunes the pool and ensures the
// market_prices table exists.
func Initialize(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.MarketPrice{}); err != nil {
		return nil, fmt.Errorf("migrate market_prices: %w", err)
	}

	log.Println("[database] initialized")
	return db, nil
}
