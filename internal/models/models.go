package models

import (
	"time"
)

// MarketPrice is one long-format price observation in the market_prices
// table. Rows are append-only; the collector never updates or deletes.
type MarketPrice struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ItemName        string    `json:"item_name" gorm:"size:128;index;not null"`
	SubCategory     string    `json:"sub_category,omitempty" gorm:"size:64"`
	ItemGrade       string    `json:"item_grade" gorm:"size:32"`
	ItemTier        int       `json:"item_tier"`
	CurrentMinPrice float64   `json:"current_min_price"`
	RecentPrice     float64   `json:"recent_price"`
	YDayAvgPrice    float64   `json:"yday_avg_price"`
	BundleCount     int       `json:"bundle_count"`
	CollectedAt     time.Time `json:"collected_at" gorm:"index;not null"`
}

// TableName keeps the table name the analysis queries expect.
func (MarketPrice) TableName() string {
	return "market_prices"
}
