package model

import "time"

// InventoryAdjustment records every stock mutation outside checkout itself,
// e.g. the restock performed when an order is cancelled. ActorUserID is 0 for
// system-driven adjustments (webhooks).
type InventoryAdjustment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID   int64     `gorm:"not null;index" json:"variant_id"`
	ActorUserID int64     `gorm:"not null" json:"actor_user_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
