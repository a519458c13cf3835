package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	shipments ShipmentCreator
	audit     repo.AuditLogRepository
	log       *logrus.Logger
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	shipments ShipmentCreator,
	audit repo.AuditLogRepository,
	log *logrus.Logger,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, shipments: shipments, audit: audit, log: log}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (OrderListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Status != "" && !model.ValidOrderStatus(model.OrderStatus(in.Status)) {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid status filter")
	}

	orders, total, err := u.orders.ListAdmin(ctx, repo.AdminOrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		UserID: in.UserID,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return OrderListOutput{}, err
	}

	out := OrderListOutput{Total: total, Page: in.Page, Limit: in.Limit, Orders: make([]OrderSummaryOutput, 0, len(orders))}
	for _, o := range orders {
		out.Orders = append(out.Orders, buildOrderSummary(o))
	}
	return out, nil
}

// UpdateStatus applies one explicit transition through the same state machine
// the webhooks use, so admins are bound by the same terminal-state gate and
// get the same exactly-once stock release on cancellation.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorUserID, orderID int64, to model.OrderStatus) (OrderSummaryOutput, error) {
	if !model.ValidOrderStatus(to) {
		return OrderSummaryOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "unknown status")
	}

	var before, after model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
			}
			return err
		}
		before = order

		if _, err := transitionOrder(ctx, r, order, to, actorUserID); err != nil {
			return err
		}

		after, err = r.Orders().FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return OrderSummaryOutput{}, err
	}

	u.writeAudit(ctx, actorUserID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID, before, after)
	return buildOrderSummary(after), nil
}

// RetryShipment re-runs shipment creation for a paid order whose automatic
// creation after settlement failed.
func (u *AdminOrderUsecase) RetryShipment(ctx context.Context, actorUserID, orderID int64) (ShipmentOutput, error) {
	out, err := u.shipments.CreateForOrder(ctx, orderID)
	if err != nil {
		return ShipmentOutput{}, err
	}
	u.writeAudit(ctx, actorUserID, model.AuditActionCreateShipment, model.AuditResourceShipment, out.ID, nil, out)
	return out, nil
}

// writeAudit is best effort; a failed audit insert is logged and never fails
// the admin action it describes.
func (u *AdminOrderUsecase) writeAudit(ctx context.Context, actorUserID int64, action model.AuditAction, resource model.AuditResource, resourceID int64, before, after interface{}) {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)
	err := u.audit.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
	})
	if err != nil {
		u.log.WithError(err).Warn("audit log write failed")
	}
}
