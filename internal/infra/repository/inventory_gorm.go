package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// Reserve is a single conditional UPDATE so two concurrent checkouts can
// never both take the last unit: the WHERE clause re-checks stock at write
// time and RowsAffected tells us whether this caller got it.
func (r *InventoryGormRepository) Reserve(ctx context.Context, variantID int64, qty int64) (bool, error) {
	if qty <= 0 {
		return false, errors.New("qty must be positive")
	}

	res := r.db.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("id = ? AND is_active = ? AND stock >= ?", variantID, true, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *InventoryGormRepository) Release(ctx context.Context, variantID int64, qty int64) error {
	if qty <= 0 {
		return errors.New("qty must be positive")
	}

	res := r.db.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryGormRepository) Available(ctx context.Context, variantID int64, qty int64) (bool, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Select("stock", "is_active").
		Where("id = ?", variantID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, repo.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return v.IsActive && v.Stock >= qty, nil
}

func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(&adj).Error
}
