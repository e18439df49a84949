package models

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID                uuid.UUID `json:"id" db:"id"`
	StoreID           string    `json:"store_id" db:"store_id"`
	Name              string    `json:"name" db:"name"`
	Category          string    `json:"category" db:"category"`
	CategoryOrder     int       `json:"category_order" db:"category_order"`
	DefaultUnit       string    `json:"default_unit" db:"default_unit"`
	LowStockThreshold *float64  `json:"low_stock_threshold" db:"low_stock_threshold"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	SortOrder         int       `json:"sort_order" db:"sort_order"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
