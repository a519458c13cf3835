package repository

import (
	"context"

	"app/internal/domain/model"
)

// InventoryRepository is the stock ledger for product variants.
type InventoryRepository interface {
	// Reserve decrements stock by qty only when the variant is active and has
	// at least qty left, as a single conditional update. Returns false when
	// the decrement did not happen. The authoritative availability check is
	// this call, not Available.
	Reserve(ctx context.Context, variantID int64, qty int64) (bool, error)

	// Release puts qty back unconditionally (cancellation path).
	Release(ctx context.Context, variantID int64, qty int64) error

	// Available is an advisory read used for pre-checkout hints.
	Available(ctx context.Context, variantID int64, qty int64) (bool, error)

	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
