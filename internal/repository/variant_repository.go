package repository

import (
	"context"

	"app/internal/domain/model"
)

type VariantRepository interface {
	// FindByID returns the variant with its product preloaded.
	FindByID(ctx context.Context, variantID int64) (model.ProductVariant, error)
}
