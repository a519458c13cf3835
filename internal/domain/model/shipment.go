package model

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPending     ShipmentStatus = "PENDING"
	ShipmentStatusReadyToShip ShipmentStatus = "READY_TO_SHIP"
	ShipmentStatusShipped     ShipmentStatus = "SHIPPED"
	ShipmentStatusInTransit   ShipmentStatus = "IN_TRANSIT"
	ShipmentStatusDelivered   ShipmentStatus = "DELIVERED"
	ShipmentStatusCancelled   ShipmentStatus = "CANCELLED"
)

// Shipment is the single carrier shipment attached to a paid order.
// The unique index on OrderID enforces at most one per order.
type Shipment struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;uniqueIndex" json:"order_id"`

	// CarrierOrderID is the id the carrier assigned to our order; webhook
	// events reference it.
	CarrierOrderID string `gorm:"type:varchar(100);index" json:"carrier_order_id"`
	CourierCompany string `gorm:"type:varchar(50);not null" json:"courier_company"`
	CourierType    string `gorm:"type:varchar(50)" json:"courier_type"`
	TrackingID     string `gorm:"type:varchar(100)" json:"tracking_id"`
	WaybillID      string `gorm:"type:varchar(100)" json:"waybill_id"`
	TrackingURL    string `gorm:"type:varchar(500)" json:"tracking_url"`

	Cost   int64          `gorm:"not null" json:"cost"`
	Status ShipmentStatus `gorm:"type:varchar(20);not null" json:"status"`

	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
