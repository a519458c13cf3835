package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment model.Payment) (int64, error)
	Update(ctx context.Context, payment model.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (model.Payment, error)

	// FindPendingByOrderID returns the single PENDING payment for the order,
	// or ErrNotFound.
	FindPendingByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error)
}
