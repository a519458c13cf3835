package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusReady        ProductStatus = "READY"
	ProductStatusPO           ProductStatus = "PO"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

type Product struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	BasePrice   int64         `gorm:"not null" json:"base_price"`
	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'READY'" json:"status"`
	// WeightGrams feeds the carrier order items.
	WeightGrams int64          `gorm:"not null;default:500" json:"weight_grams"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductVariant is the inventory unit: one purchasable size/color combination
// with its own stock count. Stock is never negative.
type ProductVariant struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	SKU       string `gorm:"type:varchar(100);not null;uniqueIndex" json:"sku"`
	Size      string `gorm:"type:varchar(50)" json:"size"`
	Color     string `gorm:"type:varchar(50)" json:"color"`
	Stock     int64  `gorm:"not null" json:"stock"`
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`

	// PriceDelta adjusts the product base price; PriceOverride, when set,
	// replaces it entirely.
	PriceDelta    int64  `gorm:"not null;default:0" json:"price_delta"`
	PriceOverride *int64 `json:"price_override"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Product *Product `json:"product,omitempty"`
}
