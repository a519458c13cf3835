package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/infra/midtrans"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testServerKey = "SB-Mid-server-testkey"

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type paymentFixture struct {
	uc        *PaymentUsecase
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	payments  *PaymentRepoMock
	inventory *InventoryRepoMock
	gateway   *GatewayMock
	shipments *ShipmentCreatorMock
}

func newPaymentFixture() *paymentFixture {
	orders := &OrderRepoMock{}
	items := &OrderItemRepoMock{}
	payments := &PaymentRepoMock{}
	inventory := &InventoryRepoMock{}
	gateway := &GatewayMock{}
	shipments := &ShipmentCreatorMock{}

	txm := &TxManagerMock{Repos: &TxReposMock{
		orders:     orders,
		orderItems: items,
		payments:   payments,
		inventory:  inventory,
	}}
	txm.On("WithinTx", mock.Anything).Return(nil).Maybe()

	uc := NewPaymentUsecase(txm, orders, items, payments, gateway, shipments, testServerKey, quietLogger())
	return &paymentFixture{
		uc: uc, orders: orders, items: items, payments: payments,
		inventory: inventory, gateway: gateway, shipments: shipments,
	}
}

func payableOrder() model.Order {
	return model.Order{
		ID:            100,
		OrderNumber:   "ORD-20250810-00004",
		UserID:        42,
		Status:        model.OrderStatusPendingPayment,
		Subtotal:      300000,
		ShippingCost:  15000,
		Total:         315000,
		ReceiverName:  "Siti Rahma",
		ReceiverPhone: "081234567890",
	}
}

func TestCreatePayment_Success(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	f.orders.On("FindByID", mock.Anything, int64(100)).Return(payableOrder(), nil)
	f.payments.On("FindPendingByOrderID", mock.Anything, int64(100)).Return(model.Payment{}, repo.ErrNotFound)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{
		{SKUSnapshot: "TUNIC-M-NAVY", ProductNameSnapshot: "Tunic Aisha", UnitPriceSnapshot: 150000, Quantity: 2},
	}, nil)
	f.gateway.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req midtrans.SnapRequest) bool {
		// Shipping must ride along as its own line item so the gateway's
		// sum-of-items check matches the gross amount.
		if req.TransactionDetails.GrossAmount != 315000 || len(req.ItemDetails) != 2 {
			return false
		}
		shipping := req.ItemDetails[1]
		return shipping.ID == "SHIPPING" && shipping.Price == 15000 && shipping.Quantity == 1
	})).Return(midtrans.SnapResponse{Token: "tok", RedirectURL: "https://pay.example/redirect"}, nil)
	f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.OrderID == 100 &&
			p.Status == model.PaymentStatusPending &&
			p.Amount == 315000 &&
			p.PaymentURL == "https://pay.example/redirect" &&
			p.ExpiresAt != nil
	})).Return(int64(1), nil)

	out, err := f.uc.CreatePayment(ctx, 42, CreatePaymentInput{OrderID: 100, Method: model.PaymentMethodQRIS})

	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example/redirect", out.PaymentURL)
	assert.Equal(t, int64(315000), out.Amount)
	assert.Contains(t, out.TransactionID, "TRX-")
	f.payments.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestCreatePayment_OrderNotPayable(t *testing.T) {
	f := newPaymentFixture()

	paid := payableOrder()
	paid.Status = model.OrderStatusPaid
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(paid, nil)

	_, err := f.uc.CreatePayment(context.Background(), 42, CreatePaymentInput{OrderID: 100, Method: model.PaymentMethodQRIS})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
	f.gateway.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestCreatePayment_AlreadyPending(t *testing.T) {
	f := newPaymentFixture()

	f.orders.On("FindByID", mock.Anything, int64(100)).Return(payableOrder(), nil)
	f.payments.On("FindPendingByOrderID", mock.Anything, int64(100)).Return(model.Payment{ID: 5, Status: model.PaymentStatusPending}, nil)

	_, err := f.uc.CreatePayment(context.Background(), 42, CreatePaymentInput{OrderID: 100, Method: model.PaymentMethodQRIS})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
	assert.Equal(t, CodeConflict, he.Code)
}

func TestCreatePayment_RetriesOnceOnTransactionIDCollision(t *testing.T) {
	f := newPaymentFixture()

	f.orders.On("FindByID", mock.Anything, int64(100)).Return(payableOrder(), nil)
	f.payments.On("FindPendingByOrderID", mock.Anything, int64(100)).Return(model.Payment{}, repo.ErrNotFound)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{
		{SKUSnapshot: "SKU", ProductNameSnapshot: "P", UnitPriceSnapshot: 315000, Quantity: 1},
	}, nil)
	f.gateway.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(midtrans.SnapResponse{}, midtrans.ErrOrderIDTaken).Once()
	f.gateway.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(midtrans.SnapResponse{RedirectURL: "https://pay.example/2"}, nil).Once()
	f.payments.On("Create", mock.Anything, mock.Anything).Return(int64(2), nil)

	out, err := f.uc.CreatePayment(context.Background(), 42, CreatePaymentInput{OrderID: 100, Method: model.PaymentMethodBankTransfer})

	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example/2", out.PaymentURL)
	f.gateway.AssertNumberOfCalls(t, "CreateTransaction", 2)
}

func settlementWebhook(txID string) WebhookInput {
	in := WebhookInput{
		OrderID:           txID,
		StatusCode:        "200",
		GrossAmount:       "315000.00",
		TransactionStatus: "settlement",
		SettlementTime:    "2025-08-10 14:03:21",
		RawPayload:        []byte(`{"transaction_status":"settlement"}`),
	}
	in.SignatureKey = midtrans.Signature(in.OrderID, in.StatusCode, in.GrossAmount, testServerKey)
	return in
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	f := newPaymentFixture()

	in := settlementWebhook("TRX-1")
	in.SignatureKey = "forged"

	err := f.uc.HandleWebhook(context.Background(), in)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, CodeInvalidSignature, he.Code)
	f.payments.AssertNotCalled(t, "FindByTransactionID", mock.Anything, mock.Anything)
}

func TestHandleWebhook_SettlementDrivesOrderToPaidAndCreatesShipment(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("FindByTransactionID", mock.Anything, "TRX-1").Return(model.Payment{
		ID: 1, OrderID: 100, TransactionID: "TRX-1", Status: model.PaymentStatusPending, Amount: 315000,
	}, nil)
	f.payments.On("Update", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.Status == model.PaymentStatusSettlement && p.SettlementTime != nil && p.WebhookPayload != ""
	})).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(payableOrder(), nil)
	f.orders.On("UpdateStatusFrom", mock.Anything, int64(100), model.OrderStatusPendingPayment, model.OrderStatusPaid).Return(true, nil)
	f.orders.On("SetTimestamps", mock.Anything, int64(100), mock.Anything, (*time.Time)(nil), (*time.Time)(nil), (*time.Time)(nil)).Return(nil)
	f.shipments.On("CreateForOrder", mock.Anything, int64(100)).Return(ShipmentOutput{ID: 1}, nil)

	err := f.uc.HandleWebhook(context.Background(), settlementWebhook("TRX-1"))

	assert.NoError(t, err)
	f.orders.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.shipments.AssertExpectations(t)
}

func TestHandleWebhook_ReplayIsNoop(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("FindByTransactionID", mock.Anything, "TRX-1").Return(model.Payment{
		ID: 1, OrderID: 100, TransactionID: "TRX-1", Status: model.PaymentStatusSettlement,
	}, nil)

	err := f.uc.HandleWebhook(context.Background(), settlementWebhook("TRX-1"))

	assert.NoError(t, err)
	f.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.shipments.AssertNotCalled(t, "CreateForOrder", mock.Anything, mock.Anything)
}

func TestHandleWebhook_ExpireReleasesStock(t *testing.T) {
	f := newPaymentFixture()

	in := WebhookInput{
		OrderID:           "TRX-2",
		StatusCode:        "407",
		GrossAmount:       "315000.00",
		TransactionStatus: "expire",
		RawPayload:        []byte(`{"transaction_status":"expire"}`),
	}
	in.SignatureKey = midtrans.Signature(in.OrderID, in.StatusCode, in.GrossAmount, testServerKey)

	f.payments.On("FindByTransactionID", mock.Anything, "TRX-2").Return(model.Payment{
		ID: 2, OrderID: 100, TransactionID: "TRX-2", Status: model.PaymentStatusPending,
	}, nil)
	f.payments.On("Update", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.Status == model.PaymentStatusExpire
	})).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(payableOrder(), nil)
	f.orders.On("UpdateStatusFrom", mock.Anything, int64(100), model.OrderStatusPendingPayment, model.OrderStatusExpired).Return(true, nil)
	f.orders.On("SetTimestamps", mock.Anything, int64(100), (*time.Time)(nil), (*time.Time)(nil), (*time.Time)(nil), mock.Anything).Return(nil)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{
		{VariantID: 10, Quantity: 2},
	}, nil)
	f.inventory.On("Release", mock.Anything, int64(10), int64(2)).Return(nil)
	f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.VariantID == 10 && a.Delta == 2 && a.ActorUserID == 0
	})).Return(nil)

	err := f.uc.HandleWebhook(context.Background(), in)

	assert.NoError(t, err)
	f.inventory.AssertExpectations(t)
	f.shipments.AssertNotCalled(t, "CreateForOrder", mock.Anything, mock.Anything)
}

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		txStatus    string
		fraudStatus string
		want        model.PaymentStatus
	}{
		{"capture", "accept", model.PaymentStatusSettlement},
		{"capture", "challenge", model.PaymentStatusPending},
		{"capture", "deny", model.PaymentStatusDeny},
		{"settlement", "", model.PaymentStatusSettlement},
		{"pending", "", model.PaymentStatusPending},
		{"deny", "", model.PaymentStatusDeny},
		{"expire", "", model.PaymentStatusExpire},
		{"cancel", "", model.PaymentStatusCancel},
		{"refund", "", model.PaymentStatusRefund},
		{"partial_refund", "", model.PaymentStatusRefund},
		{"somenewstatus", "", model.PaymentStatusPending},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapGatewayStatus(tc.txStatus, tc.fraudStatus), "%s/%s", tc.txStatus, tc.fraudStatus)
	}
}
