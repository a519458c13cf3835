package model

import "time"

// OrderItem is a frozen snapshot of one purchased SKU. Catalog edits after
// checkout must never change it.
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	VariantID int64 `gorm:"not null;index" json:"variant_id"`

	ProductNameSnapshot string `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	SKUSnapshot         string `gorm:"type:varchar(100);not null" json:"sku_snapshot"`
	SizeSnapshot        string `gorm:"type:varchar(50)" json:"size_snapshot"`
	ColorSnapshot       string `gorm:"type:varchar(50)" json:"color_snapshot"`
	UnitPriceSnapshot   int64  `gorm:"not null" json:"unit_price_snapshot"`

	Quantity int64 `gorm:"not null" json:"quantity"`
	// Subtotal == UnitPriceSnapshot * Quantity.
	Subtotal int64 `gorm:"not null" json:"subtotal"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
