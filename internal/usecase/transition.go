package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// transitionOrder moves an order to the target status inside the caller's
// transaction. It is the single write path for order status in the whole
// codebase; the payment webhook, the carrier webhook and the admin endpoint
// all go through it.
//
// The status column is advanced with a compare-and-set against the status the
// caller loaded, so of two concurrent requests for the same transition exactly
// one wins; the loser (and any replayed webhook) comes back changed=false with
// no side effects. Stock release on CANCELLED/EXPIRED therefore runs exactly
// once.
func transitionOrder(ctx context.Context, r repo.TxRepos, order model.Order, to model.OrderStatus, actorUserID int64) (changed bool, err error) {
	if order.Status == to {
		return false, nil
	}
	if err := model.CanTransition(order.Status, to); err != nil {
		return false, NewHTTPError(http.StatusConflict, CodeInvalidTransition, err.Error())
	}

	won, err := r.Orders().UpdateStatusFrom(ctx, order.ID, order.Status, to)
	if err != nil {
		return false, err
	}
	if !won {
		// Someone else moved the order first; the replay is a no-op.
		return false, nil
	}

	now := time.Now()
	var paidAt, shippedAt, completedAt, cancelledAt *time.Time
	switch to {
	case model.OrderStatusPaid:
		paidAt = &now
	case model.OrderStatusShipped:
		shippedAt = &now
	case model.OrderStatusDelivered, model.OrderStatusCompleted:
		completedAt = &now
	case model.OrderStatusCancelled, model.OrderStatusExpired:
		cancelledAt = &now
	}
	if paidAt != nil || shippedAt != nil || completedAt != nil || cancelledAt != nil {
		if err := r.Orders().SetTimestamps(ctx, order.ID, paidAt, shippedAt, completedAt, cancelledAt); err != nil {
			return false, err
		}
	}

	if (to == model.OrderStatusCancelled || to == model.OrderStatusExpired) && order.Status.HoldsReservation() {
		if err := releaseOrderStock(ctx, r, order, to, actorUserID); err != nil {
			return false, err
		}
	}

	return true, nil
}

// releaseOrderStock puts every reserved line back on the shelf and records an
// adjustment per variant. Only the CAS winner reaches this, so a duplicate
// cancellation signal cannot double-restock.
func releaseOrderStock(ctx context.Context, r repo.TxRepos, order model.Order, to model.OrderStatus, actorUserID int64) error {
	items, err := r.OrderItems().ListByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	reason := fmt.Sprintf("order %s %s", order.OrderNumber, to)
	for _, it := range items {
		if err := r.Inventory().Release(ctx, it.VariantID, it.Quantity); err != nil {
			return err
		}
		adj := model.InventoryAdjustment{
			VariantID:   it.VariantID,
			ActorUserID: actorUserID,
			Delta:       it.Quantity,
			Reason:      reason,
		}
		if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
			return err
		}
	}
	return nil
}
