package repository

import (
	"context"

	"app/internal/domain/model"
)

type ShipmentRepository interface {
	Create(ctx context.Context, shipment model.Shipment) (int64, error)
	Update(ctx context.Context, shipment model.Shipment) error
	FindByOrderID(ctx context.Context, orderID int64) (model.Shipment, error)
	FindByCarrierOrderID(ctx context.Context, carrierOrderID string) (model.Shipment, error)
}
