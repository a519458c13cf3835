package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/biteship"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
)

// CarrierClient is the outbound side of the shipment tracker.
type CarrierClient interface {
	CreateOrder(ctx context.Context, req biteship.OrderRequest) (biteship.OrderResponse, error)
}

type ShipmentUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	items     repo.OrderItemRepository
	shipments repo.ShipmentRepository
	variants  repo.VariantRepository
	carrier   CarrierClient
	cfg       config.Config
	log       *logrus.Logger
}

func NewShipmentUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	shipments repo.ShipmentRepository,
	variants repo.VariantRepository,
	carrier CarrierClient,
	cfg config.Config,
	log *logrus.Logger,
) *ShipmentUsecase {
	return &ShipmentUsecase{
		tx:        tx,
		orders:    orders,
		items:     items,
		shipments: shipments,
		variants:  variants,
		carrier:   carrier,
		cfg:       cfg,
		log:       log,
	}
}

const defaultItemWeightGrams = 500

// CreateForOrder books the carrier delivery for a PAID order, persists the
// shipment, and moves the order to READY_TO_SHIP. Called from the settlement
// webhook and from the admin retry endpoint. The carrier call happens before
// the transaction so no row lock is held across it.
func (u *ShipmentUsecase) CreateForOrder(ctx context.Context, orderID int64) (ShipmentOutput, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ShipmentOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
		}
		return ShipmentOutput{}, err
	}
	if order.Status != model.OrderStatusPaid {
		return ShipmentOutput{}, NewHTTPError(http.StatusConflict, CodeConflict,
			fmt.Sprintf("order %s is not paid (status %s)", order.OrderNumber, order.Status))
	}

	// Check for an existing shipment before booking with the carrier so a
	// concurrent retry does not leave an orphaned carrier order. The unique
	// index on order_id stays the authoritative guard.
	if _, err := u.shipments.FindByOrderID(ctx, order.ID); err == nil {
		return ShipmentOutput{}, NewHTTPError(http.StatusConflict, CodeConflict, "shipment already exists for this order")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return ShipmentOutput{}, err
	}

	items, err := u.items.ListByOrderID(ctx, order.ID)
	if err != nil {
		return ShipmentOutput{}, err
	}

	res, err := u.carrier.CreateOrder(ctx, u.buildCarrierRequest(ctx, order, items))
	if err != nil {
		u.log.WithError(err).WithField("order_id", order.ID).Warn("carrier order creation failed")
		return ShipmentOutput{}, NewHTTPError(http.StatusBadGateway, CodeCarrierError, "carrier rejected the request")
	}

	shipment := model.Shipment{
		OrderID:        order.ID,
		CarrierOrderID: res.ID,
		CourierCompany: order.CourierCode,
		CourierType:    order.CourierServiceCode,
		TrackingID:     res.Courier.TrackingID,
		WaybillID:      res.Courier.WaybillID,
		TrackingURL:    res.Courier.Link,
		Cost:           order.ShippingCost,
		Status:         model.ShipmentStatusPending,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Shipments().Create(ctx, shipment)
		if err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, CodeConflict, "shipment already exists for this order")
			}
			return err
		}
		shipment.ID = id

		if _, err := transitionOrder(ctx, r, order, model.OrderStatusReadyToShip, 0); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return ShipmentOutput{}, err
	}

	return ShipmentOutput{
		ID:             shipment.ID,
		CarrierOrderID: shipment.CarrierOrderID,
		CourierCompany: shipment.CourierCompany,
		CourierType:    shipment.CourierType,
		TrackingID:     shipment.TrackingID,
		WaybillID:      shipment.WaybillID,
		TrackingURL:    shipment.TrackingURL,
		Cost:           shipment.Cost,
		Status:         string(shipment.Status),
	}, nil
}

func (u *ShipmentUsecase) buildCarrierRequest(ctx context.Context, order model.Order, items []model.OrderItem) biteship.OrderRequest {
	carrierItems := make([]biteship.Item, 0, len(items))
	for _, it := range items {
		weight := int64(defaultItemWeightGrams)
		if v, err := u.variants.FindByID(ctx, it.VariantID); err == nil && v.Product != nil {
			weight = v.Product.WeightGrams
		}
		carrierItems = append(carrierItems, biteship.Item{
			Name:     it.ProductNameSnapshot,
			Value:    it.UnitPriceSnapshot,
			Quantity: it.Quantity,
			Weight:   weight,
		})
	}

	destination := order.AddressLine1
	if order.AddressLine2 != "" {
		destination += ", " + order.AddressLine2
	}
	destination += ", " + order.City + ", " + order.Province

	return biteship.OrderRequest{
		ShipperContactName:  u.cfg.StoreName,
		ShipperContactPhone: u.cfg.StorePhone,
		ShipperContactEmail: u.cfg.StoreEmail,
		ShipperOrganization: u.cfg.StoreName,

		OriginContactName:  u.cfg.StoreName,
		OriginContactPhone: u.cfg.StorePhone,
		OriginAddress:      u.cfg.StoreAddress,
		OriginPostalCode:   u.cfg.StorePostalCode,

		DestinationContactName:  order.ReceiverName,
		DestinationContactPhone: order.ReceiverPhone,
		DestinationAddress:      destination,
		DestinationPostalCode:   order.PostalCode,
		DestinationNote:         order.Note,

		CourierCompany: order.CourierCode,
		CourierType:    order.CourierServiceCode,

		DeliveryType: "now",
		ReferenceID:  order.OrderNumber,

		Items: carrierItems,
	}
}

// CarrierEventInput is the subset of the carrier's webhook POST the tracker
// acts on.
type CarrierEventInput struct {
	CarrierOrderID string `json:"order_id"`
	Status         string `json:"status"`
	WaybillID      string `json:"courier_waybill_id"`
	TrackingID     string `json:"courier_tracking_id"`
	TrackingURL    string `json:"courier_link"`
}

// HandleCarrierEvent advances shipment and order state on a carrier
// milestone. Unknown shipment ids and unknown status codes are logged and
// ignored; the webhook endpoint answers the carrier with success either way
// to avoid retry storms.
func (u *ShipmentUsecase) HandleCarrierEvent(ctx context.Context, in CarrierEventInput) error {
	target, ok := mapCarrierStatus(in.Status)
	if !ok {
		u.log.WithFields(logrus.Fields{
			"carrier_order_id": in.CarrierOrderID,
			"status":           in.Status,
		}).Warn("unknown carrier status code")
		return nil
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		shipment, err := r.Shipments().FindByCarrierOrderID(ctx, in.CarrierOrderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				u.log.WithField("carrier_order_id", in.CarrierOrderID).Warn("carrier event for unknown shipment")
				return nil
			}
			return err
		}

		now := time.Now()
		if in.WaybillID != "" {
			shipment.WaybillID = in.WaybillID
		}
		if in.TrackingID != "" {
			shipment.TrackingID = in.TrackingID
		}
		if in.TrackingURL != "" {
			shipment.TrackingURL = in.TrackingURL
		}
		shipment.Status = target
		switch target {
		case model.ShipmentStatusShipped:
			if shipment.ShippedAt == nil {
				shipment.ShippedAt = &now
			}
		case model.ShipmentStatusDelivered:
			if shipment.DeliveredAt == nil {
				shipment.DeliveredAt = &now
			}
		}
		if err := r.Shipments().Update(ctx, shipment); err != nil {
			return err
		}

		order, err := r.Orders().FindByID(ctx, shipment.OrderID)
		if err != nil {
			return err
		}

		switch target {
		case model.ShipmentStatusShipped:
			_, err = transitionOrder(ctx, r, order, model.OrderStatusShipped, 0)
		case model.ShipmentStatusDelivered:
			_, err = transitionOrder(ctx, r, order, model.OrderStatusDelivered, 0)
		case model.ShipmentStatusCancelled:
			_, err = transitionOrder(ctx, r, order, model.OrderStatusCancelled, 0)
		}
		return err
	})
}

// mapCarrierStatus is the fixed lookup from carrier lifecycle codes to
// shipment status.
func mapCarrierStatus(code string) (model.ShipmentStatus, bool) {
	switch code {
	case "confirmed", "allocated", "picking_up":
		return model.ShipmentStatusReadyToShip, true
	case "picked", "dropping_off":
		return model.ShipmentStatusShipped, true
	case "delivered":
		return model.ShipmentStatusDelivered, true
	case "cancelled", "canceled", "rejected", "courier_not_found", "returned", "disposed":
		return model.ShipmentStatusCancelled, true
	default:
		return "", false
	}
}
