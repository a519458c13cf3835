package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderUsecase struct {
	orders    repo.OrderRepository
	items     repo.OrderItemRepository
	payments  repo.PaymentRepository
	shipments repo.ShipmentRepository
}

func NewOrderUsecase(orders repo.OrderRepository, items repo.OrderItemRepository, payments repo.PaymentRepository, shipments repo.ShipmentRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders, items: items, payments: payments, shipments: shipments}
}

type OrderItemOutput struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	VariantID   int64  `json:"variant_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

type PaymentOutput struct {
	ID             int64      `json:"id"`
	TransactionID  string     `json:"transaction_id"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	Amount         int64      `json:"amount"`
	PaymentURL     string     `json:"payment_url"`
	ExpiresAt      *time.Time `json:"expires_at"`
	SettlementTime *time.Time `json:"settlement_time"`
}

type ShipmentOutput struct {
	ID             int64      `json:"id"`
	CarrierOrderID string     `json:"carrier_order_id"`
	CourierCompany string     `json:"courier_company"`
	CourierType    string     `json:"courier_type"`
	TrackingID     string     `json:"tracking_id"`
	WaybillID      string     `json:"waybill_id"`
	TrackingURL    string     `json:"tracking_url"`
	Cost           int64      `json:"cost"`
	Status         string     `json:"status"`
	ShippedAt      *time.Time `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
}

type OrderSummaryOutput struct {
	ID          int64      `json:"id"`
	OrderNumber string     `json:"order_number"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Total       int64      `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at"`
}

type OrderDetailOutput struct {
	ID                 int64             `json:"id"`
	OrderNumber        string            `json:"order_number"`
	UserID             int64             `json:"user_id"`
	Type               string            `json:"type"`
	Status             string            `json:"status"`
	Subtotal           int64             `json:"subtotal"`
	ShippingCost       int64             `json:"shipping_cost"`
	Total              int64             `json:"total"`
	Note               string            `json:"note"`
	ReceiverName       string            `json:"receiver_name"`
	ReceiverPhone      string            `json:"receiver_phone"`
	AddressLine1       string            `json:"address_line1"`
	AddressLine2       string            `json:"address_line2"`
	City               string            `json:"city"`
	Province           string            `json:"province"`
	PostalCode         string            `json:"postal_code"`
	CourierCode        string            `json:"courier_code"`
	CourierServiceCode string            `json:"courier_service_code"`
	PaidAt             *time.Time        `json:"paid_at"`
	ShippedAt          *time.Time        `json:"shipped_at"`
	CompletedAt        *time.Time        `json:"completed_at"`
	CancelledAt        *time.Time        `json:"cancelled_at"`
	CreatedAt          time.Time         `json:"created_at"`
	Items              []OrderItemOutput `json:"items"`
	Payments           []PaymentOutput   `json:"payments"`
	Shipment           *ShipmentOutput   `json:"shipment"`
}

type OrderListOutput struct {
	Orders []OrderSummaryOutput `json:"orders"`
	Total  int64                `json:"total"`
	Page   int                  `json:"page"`
	Limit  int                  `json:"limit"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, err
	}

	out := OrderListOutput{Total: total, Page: page, Limit: limit, Orders: make([]OrderSummaryOutput, 0, len(orders))}
	for _, o := range orders {
		out.Orders = append(out.Orders, buildOrderSummary(o))
	}
	return out, nil
}

// GetOrderDetail returns the full aggregate: line items, every payment
// attempt, and the shipment when one exists. Customers see only their own
// orders; admins see all.
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, userID int64, role model.Role, orderID int64) (OrderDetailOutput, error) {
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid order id")
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
		}
		return OrderDetailOutput{}, err
	}
	if order.UserID != userID && role != model.RoleAdmin && role != model.RoleOwner {
		return OrderDetailOutput{}, NewHTTPError(http.StatusForbidden, CodeForbidden, "forbidden")
	}

	items, err := u.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, err
	}
	payments, err := u.payments.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, err
	}

	var shipment *model.Shipment
	s, err := u.shipments.FindByOrderID(ctx, orderID)
	switch {
	case err == nil:
		shipment = &s
	case errors.Is(err, repo.ErrNotFound):
		// no shipment yet
	default:
		return OrderDetailOutput{}, err
	}

	return buildOrderDetail(order, items, payments, shipment), nil
}

func buildOrderSummary(o model.Order) OrderSummaryOutput {
	return OrderSummaryOutput{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Type:        string(o.Type),
		Status:      string(o.Status),
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		PaidAt:      o.PaidAt,
	}
}

func buildOrderDetail(o model.Order, items []model.OrderItem, payments []model.Payment, shipment *model.Shipment) OrderDetailOutput {
	out := OrderDetailOutput{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		UserID:             o.UserID,
		Type:               string(o.Type),
		Status:             string(o.Status),
		Subtotal:           o.Subtotal,
		ShippingCost:       o.ShippingCost,
		Total:              o.Total,
		Note:               o.Note,
		ReceiverName:       o.ReceiverName,
		ReceiverPhone:      o.ReceiverPhone,
		AddressLine1:       o.AddressLine1,
		AddressLine2:       o.AddressLine2,
		City:               o.City,
		Province:           o.Province,
		PostalCode:         o.PostalCode,
		CourierCode:        o.CourierCode,
		CourierServiceCode: o.CourierServiceCode,
		PaidAt:             o.PaidAt,
		ShippedAt:          o.ShippedAt,
		CompletedAt:        o.CompletedAt,
		CancelledAt:        o.CancelledAt,
		CreatedAt:          o.CreatedAt,
		Items:              make([]OrderItemOutput, 0, len(items)),
		Payments:           make([]PaymentOutput, 0, len(payments)),
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			ProductName: it.ProductNameSnapshot,
			SKU:         it.SKUSnapshot,
			Size:        it.SizeSnapshot,
			Color:       it.ColorSnapshot,
			UnitPrice:   it.UnitPriceSnapshot,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, PaymentOutput{
			ID:             p.ID,
			TransactionID:  p.TransactionID,
			Method:         string(p.Method),
			Status:         string(p.Status),
			Amount:         p.Amount,
			PaymentURL:     p.PaymentURL,
			ExpiresAt:      p.ExpiresAt,
			SettlementTime: p.SettlementTime,
		})
	}
	if shipment != nil {
		out.Shipment = &ShipmentOutput{
			ID:             shipment.ID,
			CarrierOrderID: shipment.CarrierOrderID,
			CourierCompany: shipment.CourierCompany,
			CourierType:    shipment.CourierType,
			TrackingID:     shipment.TrackingID,
			WaybillID:      shipment.WaybillID,
			TrackingURL:    shipment.TrackingURL,
			Cost:           shipment.Cost,
			Status:         string(shipment.Status),
			ShippedAt:      shipment.ShippedAt,
			DeliveredAt:    shipment.DeliveredAt,
		}
	}
	return out
}
