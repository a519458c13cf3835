package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/infra/midtrans"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PaymentGateway is the outbound side of the payment adapter.
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req midtrans.SnapRequest) (midtrans.SnapResponse, error)
}

// ShipmentCreator is what the settlement path needs from the shipment side.
type ShipmentCreator interface {
	CreateForOrder(ctx context.Context, orderID int64) (ShipmentOutput, error)
}

type PaymentUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	items     repo.OrderItemRepository
	payments  repo.PaymentRepository
	gateway   PaymentGateway
	shipments ShipmentCreator
	serverKey string
	log       *logrus.Logger
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	payments repo.PaymentRepository,
	gateway PaymentGateway,
	shipments ShipmentCreator,
	serverKey string,
	log *logrus.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:        tx,
		orders:    orders,
		items:     items,
		payments:  payments,
		gateway:   gateway,
		shipments: shipments,
		serverKey: serverKey,
		log:       log,
	}
}

const paymentExpiryHours = 24

type CreatePaymentInput struct {
	OrderID int64               `json:"order_id"`
	Method  model.PaymentMethod `json:"method"`
}

type CreatePaymentOutput struct {
	TransactionID string    `json:"transaction_id"`
	PaymentURL    string    `json:"payment_url"`
	Amount        int64     `json:"amount"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// CreatePayment creates a hosted payment page for a PENDING_PAYMENT order.
// The gateway call happens outside any database transaction; if persisting
// the payment row fails afterwards the order simply stays payable and the
// client retries.
func (u *PaymentUsecase) CreatePayment(ctx context.Context, userID int64, in CreatePaymentInput) (CreatePaymentOutput, error) {
	if userID <= 0 {
		return CreatePaymentOutput{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if in.OrderID <= 0 {
		return CreatePaymentOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid order_id")
	}
	if !model.ValidPaymentMethod(in.Method) {
		return CreatePaymentOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid payment method")
	}

	order, err := u.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CreatePaymentOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
		}
		return CreatePaymentOutput{}, err
	}
	if order.UserID != userID {
		return CreatePaymentOutput{}, NewHTTPError(http.StatusForbidden, CodeForbidden, "forbidden")
	}
	if order.Status != model.OrderStatusPendingPayment {
		return CreatePaymentOutput{}, NewHTTPError(http.StatusConflict, CodeConflict,
			fmt.Sprintf("order %s is not payable in status %s", order.OrderNumber, order.Status))
	}

	if _, err := u.payments.FindPendingByOrderID(ctx, order.ID); err == nil {
		return CreatePaymentOutput{}, NewHTTPError(http.StatusConflict, CodeConflict, "a payment for this order is already pending")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return CreatePaymentOutput{}, err
	}

	items, err := u.items.ListByOrderID(ctx, order.ID)
	if err != nil {
		return CreatePaymentOutput{}, err
	}

	now := time.Now()
	txID := newTransactionID(now)
	snap, err := u.gateway.CreateTransaction(ctx, buildSnapRequest(order, items, txID))
	if errors.Is(err, midtrans.ErrOrderIDTaken) {
		// One retry with an extra uniqueness suffix.
		txID = txID + "-" + randomSuffix(4)
		snap, err = u.gateway.CreateTransaction(ctx, buildSnapRequest(order, items, txID))
	}
	if err != nil {
		u.log.WithError(err).WithField("order_id", order.ID).Warn("payment intent creation failed")
		return CreatePaymentOutput{}, NewHTTPError(http.StatusBadGateway, CodeGatewayError, "payment gateway rejected the request")
	}

	expiresAt := now.Add(paymentExpiryHours * time.Hour)
	payment := model.Payment{
		OrderID:       order.ID,
		TransactionID: txID,
		Method:        in.Method,
		Status:        model.PaymentStatusPending,
		Amount:        order.Total,
		PaymentURL:    snap.RedirectURL,
		InitiatedAt:   now,
		ExpiresAt:     &expiresAt,
	}
	if _, err := u.payments.Create(ctx, payment); err != nil {
		return CreatePaymentOutput{}, err
	}

	return CreatePaymentOutput{
		TransactionID: txID,
		PaymentURL:    snap.RedirectURL,
		Amount:        order.Total,
		ExpiresAt:     expiresAt,
	}, nil
}

// ListForOrder returns every payment attempt for an order the caller may see.
func (u *PaymentUsecase) ListForOrder(ctx context.Context, userID int64, role model.Role, orderID int64) ([]PaymentOutput, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
		}
		return nil, err
	}
	if order.UserID != userID && role != model.RoleAdmin && role != model.RoleOwner {
		return nil, NewHTTPError(http.StatusForbidden, CodeForbidden, "forbidden")
	}

	payments, err := u.payments.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentOutput, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentOutput{
			ID:             p.ID,
			TransactionID:  p.TransactionID,
			Method:         string(p.Method),
			Status:         string(p.Status),
			Amount:         p.Amount,
			PaymentURL:     p.PaymentURL,
			ExpiresAt:      p.ExpiresAt,
			SettlementTime: p.SettlementTime,
		})
	}
	return out, nil
}

// WebhookInput carries the fields of the gateway's notification POST that the
// adapter acts on, plus the raw body kept for audit.
type WebhookInput struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	SettlementTime    string `json:"settlement_time"`

	RawPayload []byte `json:"-"`
}

// HandleWebhook applies one gateway notification. Signature failures return
// 400 without touching state. Replays of an already-applied status are
// no-ops. A settlement drives the order to PAID and then tries to create the
// shipment; a shipment failure is logged, not surfaced, since the admin retry
// endpoint covers it.
func (u *PaymentUsecase) HandleWebhook(ctx context.Context, in WebhookInput) error {
	if !midtrans.VerifySignature(in.OrderID, in.StatusCode, in.GrossAmount, u.serverKey, in.SignatureKey) {
		return NewHTTPError(http.StatusBadRequest, CodeInvalidSignature, "invalid signature")
	}

	mapped := mapGatewayStatus(in.TransactionStatus, in.FraudStatus)

	var becamePaid bool
	var paidOrderID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		payment, err := r.Payments().FindByTransactionID(ctx, in.OrderID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, CodeNotFound, "unknown transaction id")
			}
			return err
		}
		if payment.Status == mapped {
			return nil
		}

		payment.Status = mapped
		payment.WebhookPayload = string(in.RawPayload)
		payment.SignatureKey = in.SignatureKey
		if mapped == model.PaymentStatusSettlement {
			st := parseSettlementTime(in.SettlementTime)
			payment.SettlementTime = &st
		}
		if err := r.Payments().Update(ctx, payment); err != nil {
			return err
		}

		order, err := r.Orders().FindByID(ctx, payment.OrderID)
		if err != nil {
			return err
		}

		switch mapped {
		case model.PaymentStatusSettlement:
			changed, err := transitionOrder(ctx, r, order, model.OrderStatusPaid, 0)
			if err != nil {
				return err
			}
			becamePaid = changed
			paidOrderID = order.ID
		case model.PaymentStatusExpire:
			if order.Status == model.OrderStatusPendingPayment {
				if _, err := transitionOrder(ctx, r, order, model.OrderStatusExpired, 0); err != nil {
					return err
				}
			}
		case model.PaymentStatusRefund:
			if _, err := transitionOrder(ctx, r, order, model.OrderStatusRefunded, 0); err != nil {
				return err
			}
		}
		// DENY, CANCEL and PENDING touch only the payment row; the order
		// stays payable so the customer can retry.
		return nil
	})
	if err != nil {
		return err
	}

	if becamePaid {
		if _, err := u.shipments.CreateForOrder(ctx, paidOrderID); err != nil {
			u.log.WithError(err).WithField("order_id", paidOrderID).Warn("shipment creation after settlement failed")
		}
	}
	return nil
}

// mapGatewayStatus is the fixed lookup from gateway transaction status plus
// fraud review outcome to our payment status.
func mapGatewayStatus(transactionStatus, fraudStatus string) model.PaymentStatus {
	switch transactionStatus {
	case "capture":
		switch fraudStatus {
		case "accept":
			return model.PaymentStatusSettlement
		case "challenge":
			return model.PaymentStatusPending
		default:
			return model.PaymentStatusDeny
		}
	case "settlement":
		return model.PaymentStatusSettlement
	case "pending":
		return model.PaymentStatusPending
	case "deny":
		return model.PaymentStatusDeny
	case "expire":
		return model.PaymentStatusExpire
	case "cancel":
		return model.PaymentStatusCancel
	case "refund", "partial_refund":
		return model.PaymentStatusRefund
	default:
		return model.PaymentStatusPending
	}
}

func parseSettlementTime(s string) time.Time {
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t
	}
	return time.Now()
}

// newTransactionID builds TRX-YYYYMMDD-HHMMSS-XXXXXX.
func newTransactionID(now time.Time) string {
	return fmt.Sprintf("TRX-%s-%s", now.Format("20060102-150405"), randomSuffix(6))
}

// The gateway caps item names at 50 characters.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func randomSuffix(n int) string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// buildSnapRequest lists every order line plus the shipping cost as its own
// line item; the gateway verifies that item totals sum to the gross amount,
// so leaving shipping out would be rejected as an amount mismatch.
func buildSnapRequest(order model.Order, items []model.OrderItem, txID string) midtrans.SnapRequest {
	details := make([]midtrans.ItemDetail, 0, len(items)+1)
	for _, it := range items {
		details = append(details, midtrans.ItemDetail{
			ID:       it.SKUSnapshot,
			Price:    it.UnitPriceSnapshot,
			Quantity: it.Quantity,
			Name:     truncateRunes(it.ProductNameSnapshot, 50),
		})
	}
	if order.ShippingCost > 0 {
		details = append(details, midtrans.ItemDetail{
			ID:       "SHIPPING",
			Price:    order.ShippingCost,
			Quantity: 1,
			Name:     "Shipping cost",
		})
	}
	return midtrans.SnapRequest{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     txID,
			GrossAmount: order.Total,
		},
		ItemDetails: details,
		CustomerDetails: midtrans.CustomerDetails{
			FirstName: order.ReceiverName,
			Phone:     order.ReceiverPhone,
		},
		Expiry: &midtrans.Expiry{Unit: "hours", Duration: paymentExpiryHours},
	}
}
