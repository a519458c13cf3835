package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// UpdateStatusFrom performs a compare-and-set on the status column and
	// reports whether this caller won the transition. A false return with a
	// nil error means the row exists but was no longer in `from` status.
	UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error)

	// SetTimestamps writes the lifecycle timestamp columns that are non-nil.
	SetTimestamps(ctx context.Context, orderID int64, paidAt, shippedAt, completedAt, cancelledAt *time.Time) error

	// CountByNumberPrefix counts orders whose number starts with prefix,
	// used to build the date-sequenced order number.
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)

	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
