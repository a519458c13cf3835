package model

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusInProduction   OrderStatus = "IN_PRODUCTION"
	OrderStatusReadyToShip    OrderStatus = "READY_TO_SHIP"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusRefunded       OrderStatus = "REFUNDED"
	OrderStatusExpired        OrderStatus = "EXPIRED"
)

type OrderType string

const (
	// OrderTypeReady is an order for in-stock products.
	OrderTypeReady OrderType = "READY"
	// OrderTypePO is a pre-order, produced after the order is placed.
	OrderTypePO OrderType = "PO"
)

// Order is the unit of consistency for checkout and fulfillment.
// Receiver and pricing fields are snapshots taken at creation time and are
// never re-read from the live catalog or address tables.
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string      `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	Type        OrderType   `gorm:"type:varchar(10);not null" json:"type"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Amounts are whole rupiah. Total == Subtotal + ShippingCost.
	Subtotal     int64 `gorm:"not null" json:"subtotal"`
	ShippingCost int64 `gorm:"not null" json:"shipping_cost"`
	Total        int64 `gorm:"not null" json:"total"`

	Note string `gorm:"type:text" json:"note"`

	// Receiver snapshot
	ReceiverName  string `gorm:"type:varchar(255);not null" json:"receiver_name"`
	ReceiverPhone string `gorm:"type:varchar(20);not null" json:"receiver_phone"`
	AddressLine1  string `gorm:"type:text;not null" json:"address_line1"`
	AddressLine2  string `gorm:"type:text" json:"address_line2"`
	City          string `gorm:"type:varchar(100);not null" json:"city"`
	Province      string `gorm:"type:varchar(100);not null" json:"province"`
	PostalCode    string `gorm:"type:varchar(10);not null" json:"postal_code"`

	// Courier selected at checkout, used later when the shipment is created.
	CourierCode        string `gorm:"type:varchar(50)" json:"courier_code"`
	CourierServiceCode string `gorm:"type:varchar(50)" json:"courier_service_code"`

	PaidAt      *time.Time `json:"paid_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
