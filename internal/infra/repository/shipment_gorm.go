package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ShipmentGormRepository struct {
	db *gorm.DB
}

func NewShipmentGormRepository(db *gorm.DB) *ShipmentGormRepository {
	return &ShipmentGormRepository{db: db}
}

func (r *ShipmentGormRepository) Create(ctx context.Context, shipment model.Shipment) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&shipment).Error; err != nil {
		// Unique index on order_id: one shipment per order.
		if isUniqueViolation(err) {
			return 0, repo.ErrConflict
		}
		return 0, err
	}
	return shipment.ID, nil
}

func (r *ShipmentGormRepository) Update(ctx context.Context, shipment model.Shipment) error {
	res := r.db.WithContext(ctx).Model(&model.Shipment{}).
		Where("id = ?", shipment.ID).
		Updates(map[string]interface{}{
			"status":       shipment.Status,
			"tracking_id":  shipment.TrackingID,
			"waybill_id":   shipment.WaybillID,
			"tracking_url": shipment.TrackingURL,
			"shipped_at":   shipment.ShippedAt,
			"delivered_at": shipment.DeliveredAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ShipmentGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Shipment, error) {
	var s model.Shipment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shipment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shipment{}, err
	}
	return s, nil
}

func (r *ShipmentGormRepository) FindByCarrierOrderID(ctx context.Context, carrierOrderID string) (model.Shipment, error) {
	var s model.Shipment
	err := r.db.WithContext(ctx).Where("carrier_order_id = ?", carrierOrderID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shipment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shipment{}, err
	}
	return s, nil
}
