package model

import "time"

// Address is a saved delivery address. Checkout copies the fields into the
// order snapshot; later edits here do not touch existing orders.
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	Label         string `gorm:"type:varchar(100)" json:"label"`
	ReceiverName  string `gorm:"type:varchar(255);not null" json:"receiver_name"`
	ReceiverPhone string `gorm:"type:varchar(20);not null" json:"receiver_phone"`
	Line1         string `gorm:"type:text;not null" json:"line1"`
	Line2         string `gorm:"type:text" json:"line2"`
	City          string `gorm:"type:varchar(100);not null" json:"city"`
	Province      string `gorm:"type:varchar(100);not null" json:"province"`
	PostalCode    string `gorm:"type:varchar(10);not null" json:"postal_code"`

	IsActive  bool `gorm:"not null;default:true" json:"is_active"`
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
